package usersync

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/satvik-sharma-05/movieBooking/internal/model"
)

// FallbackEmailDomain is used to derive an address for subjects with no
// usable email.  The .invalid TLD can never receive mail.
const FallbackEmailDomain = "fallback.invalid"

// inlineSufficient reports whether the webhook copy of the user carries
// enough to build a record without calling the identity API.
func inlineSufficient(u model.ProviderUser) bool {
	hasEmail := false
	for _, e := range u.EmailAddresses {
		if strings.TrimSpace(e.EmailAddress) != "" {
			hasEmail = true
			break
		}
	}
	hasName := strings.TrimSpace(u.FirstName) != "" || strings.TrimSpace(u.LastName) != ""
	return hasEmail && hasName
}

// mergeProfiles prefers the fetched profile and fills its gaps from the
// inline copy.
func mergeProfiles(fetched, inline model.ProviderUser) model.ProviderUser {
	out := fetched
	if out.ID == "" {
		out.ID = inline.ID
	}
	if out.FirstName == "" && out.LastName == "" {
		out.FirstName, out.LastName = inline.FirstName, inline.LastName
	}
	if out.Username == "" {
		out.Username = inline.Username
	}
	if len(out.EmailAddresses) == 0 {
		out.EmailAddresses = inline.EmailAddresses
		out.PrimaryEmailAddressID = inline.PrimaryEmailAddressID
	}
	if out.ImageURL == "" {
		out.ImageURL = inline.ImageURL
	}
	return out
}

// PrimaryEmail picks the address flagged primary by the provider, then the
// first listed address, then a fallback derived from the subject id.  The
// result is trimmed and lower-cased, so the same input always yields the
// same address.
func PrimaryEmail(u model.ProviderUser) string {
	if u.PrimaryEmailAddressID != "" {
		for _, e := range u.EmailAddresses {
			if e.ID == u.PrimaryEmailAddressID {
				if addr := normalizeEmail(e.EmailAddress); addr != "" {
					return addr
				}
			}
		}
	}
	for _, e := range u.EmailAddresses {
		if addr := normalizeEmail(e.EmailAddress); addr != "" {
			return addr
		}
	}
	return FallbackEmail(u.ID)
}

// FallbackEmail returns "<id>@fallback.invalid" for the subject id.  Ids
// are case-sensitive while addresses are compared lower-cased, so an id with
// upper-case letters also gets a short hash of its exact spelling.
func FallbackEmail(id string) string {
	id = strings.TrimSpace(id)
	local := strings.ToLower(id)
	if local != id {
		sum := sha256.Sum256([]byte(id))
		local += "-" + hex.EncodeToString(sum[:4])
	}
	return local + "@" + FallbackEmailDomain
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DisplayName joins first and last name.  Accounts without either fall back
// to the username, then to the local part of email.
func DisplayName(u model.ProviderUser, email string) string {
	name := strings.Join(strings.Fields(u.FirstName+" "+u.LastName), " ")
	if name != "" {
		return name
	}
	if un := strings.TrimSpace(u.Username); un != "" {
		return un
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

// NormalizeUser maps a provider user onto the local record.  Timestamps are
// left to the store.
func NormalizeUser(u model.ProviderUser) model.User {
	email := PrimaryEmail(u)
	image := strings.TrimSpace(u.ImageURL)
	if image == "" {
		image = model.DefaultUserImage
	}
	return model.User{
		ExternalID: u.ID,
		Name:       DisplayName(u, email),
		Email:      email,
		Image:      image,
	}
}
