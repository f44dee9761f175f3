package usersync

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satvik-sharma-05/movieBooking/internal/model"
)

func TestPrimaryEmail(t *testing.T) {
	tests := []struct {
		name string
		user model.ProviderUser
		want string
	}{
		{
			name: "primary id wins",
			user: model.ProviderUser{
				ID:                    "u_1",
				PrimaryEmailAddressID: "e2",
				EmailAddresses: []model.EmailAddress{
					{ID: "e1", EmailAddress: "first@example.com"},
					{ID: "e2", EmailAddress: "primary@example.com"},
				},
			},
			want: "primary@example.com",
		},
		{
			name: "first listed without primary",
			user: model.ProviderUser{
				ID: "u_1",
				EmailAddresses: []model.EmailAddress{
					{ID: "e1", EmailAddress: "first@example.com"},
					{ID: "e2", EmailAddress: "second@example.com"},
				},
			},
			want: "first@example.com",
		},
		{
			name: "dangling primary id",
			user: model.ProviderUser{
				ID:                    "u_1",
				PrimaryEmailAddressID: "gone",
				EmailAddresses:        []model.EmailAddress{{ID: "e1", EmailAddress: "first@example.com"}},
			},
			want: "first@example.com",
		},
		{
			name: "blank entries skipped",
			user: model.ProviderUser{
				ID:             "u_1",
				EmailAddresses: []model.EmailAddress{{EmailAddress: "  "}, {EmailAddress: " Mixed@Case.COM "}},
			},
			want: "mixed@case.com",
		},
		{
			name: "fallback",
			user: model.ProviderUser{ID: "user_2xyz"},
			want: "user_2xyz@fallback.invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrimaryEmail(tt.user))
		})
	}
}

func TestFallbackEmail_Stable(t *testing.T) {
	assert.Equal(t, FallbackEmail("u_1"), FallbackEmail("u_1"))
	assert.NotEqual(t, FallbackEmail("u_1"), FallbackEmail("u_2"))
}

func TestFallbackEmail_CaseDistinctIDs(t *testing.T) {
	upper := FallbackEmail("User_2XYZ")
	lower := FallbackEmail("user_2xyz")

	assert.NotEqual(t, upper, lower)
	assert.Equal(t, upper, FallbackEmail("User_2XYZ"))
	assert.Equal(t, strings.ToLower(upper), upper)
	assert.True(t, strings.HasPrefix(upper, "user_2xyz-"))
	assert.True(t, strings.HasSuffix(upper, "@"+FallbackEmailDomain))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "A B", DisplayName(model.ProviderUser{FirstName: "A", LastName: "B"}, ""))
	assert.Equal(t, "A", DisplayName(model.ProviderUser{FirstName: " A "}, ""))
	assert.Equal(t, "B", DisplayName(model.ProviderUser{LastName: "B"}, ""))
	assert.Equal(t, "neo", DisplayName(model.ProviderUser{Username: "neo"}, "x@y.z"))
	assert.Equal(t, "trinity", DisplayName(model.ProviderUser{}, "trinity@matrix.io"))
}

func TestNormalizeUser(t *testing.T) {
	u := NormalizeUser(model.ProviderUser{
		ID:             "u_1",
		FirstName:      "A",
		LastName:       "B",
		EmailAddresses: []model.EmailAddress{{EmailAddress: "a@b.com"}},
	})
	assert.Equal(t, model.User{ExternalID: "u_1", Name: "A B", Email: "a@b.com", Image: model.DefaultUserImage}, u)

	u = NormalizeUser(model.ProviderUser{ID: "u_1", ImageURL: "https://img.example.com/a.png"})
	assert.Equal(t, "https://img.example.com/a.png", u.Image)
	assert.Equal(t, "u_1", u.Name)
}

func TestInlineSufficient(t *testing.T) {
	full := model.ProviderUser{ID: "u_1", FirstName: "A", EmailAddresses: []model.EmailAddress{{EmailAddress: "a@b.com"}}}
	assert.True(t, inlineSufficient(full))

	noName := full
	noName.FirstName = ""
	assert.False(t, inlineSufficient(noName))

	assert.False(t, inlineSufficient(model.ProviderUser{ID: "u_1", FirstName: "A"}))
}

func TestMergeProfiles(t *testing.T) {
	inline := model.ProviderUser{ID: "u_1", FirstName: "Inline", ImageURL: "https://img.example.com/inline.png"}
	fetched := model.ProviderUser{ID: "u_1", EmailAddresses: []model.EmailAddress{{EmailAddress: "a@b.com"}}}

	got := mergeProfiles(fetched, inline)
	assert.Equal(t, "Inline", got.FirstName)
	assert.Equal(t, "https://img.example.com/inline.png", got.ImageURL)
	assert.Len(t, got.EmailAddresses, 1)
}
