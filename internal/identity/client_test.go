package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/users/user_2abc", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "user_2abc",
			"first_name": "Ada",
			"last_name": "Lovelace",
			"image_url": "https://img.clerk.com/ada.png",
			"primary_email_address_id": "idn_2",
			"email_addresses": [
				{"id": "idn_1", "email_address": "old@example.com"},
				{"id": "idn_2", "email_address": "ada@example.com"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/v1", "sk_test", time.Second)
	u, err := c.GetUser(context.Background(), "user_2abc")
	require.NoError(t, err)

	assert.Equal(t, "user_2abc", u.ID)
	assert.Equal(t, "Ada", u.FirstName)
	assert.Equal(t, "idn_2", u.PrimaryEmailAddressID)
	assert.Len(t, u.EmailAddresses, 2)
}

func TestClient_GetUser_StatusError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		temporary bool
	}{
		{name: "not found", status: http.StatusNotFound, temporary: false},
		{name: "unauthorized", status: http.StatusUnauthorized, temporary: false},
		{name: "rate limited", status: http.StatusTooManyRequests, temporary: true},
		{name: "server error", status: http.StatusBadGateway, temporary: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "sk", time.Second).GetUser(context.Background(), "user_1")
			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.temporary, se.Temporary())
		})
	}
}

func TestClient_GetUser_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"object":"user"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "sk", time.Second).GetUser(context.Background(), "user_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no user id")
}
