package model

import "strings"

// Event types understood by the sync pipeline.  Providers may namespace them
// ("clerk/user.created"); EventKind strips the namespace.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// UserEvent is the webhook envelope.  The identity provider sends Type; the
// event-bus ingress sends Name.  Both end up in Type after Normalize.
type UserEvent struct {
	Type string       `json:"type,omitempty"`
	Name string       `json:"name,omitempty"`
	Data ProviderUser `json:"data"`
}

// ProviderUser is the identity provider's user object.  Webhooks inline a
// possibly partial copy as event data; the identity API returns the full one.
type ProviderUser struct {
	ID                    string         `json:"id"`
	FirstName             string         `json:"first_name,omitempty"`
	LastName              string         `json:"last_name,omitempty"`
	Username              string         `json:"username,omitempty"`
	EmailAddresses        []EmailAddress `json:"email_addresses,omitempty"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id,omitempty"`
	ImageURL              string         `json:"image_url,omitempty"`
	CreatedAt             int64          `json:"created_at,omitempty"` // unix millis
	Deleted               bool           `json:"deleted,omitempty"`
}

// EmailAddress is one entry of a provider profile's address list.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// Normalize copies Name into Type when only the bus field was sent and trims
// the subject id.
func (e *UserEvent) Normalize() {
	if e.Type == "" {
		e.Type = e.Name
	}
	e.Type = strings.TrimSpace(e.Type)
	e.Data.ID = strings.TrimSpace(e.Data.ID)
}

// EventKind returns the event type without its provider namespace, so
// "clerk/user.created" and "user.created" both yield "user.created".
func (e UserEvent) EventKind() string {
	t := e.Type
	if i := strings.LastIndex(t, "/"); i >= 0 {
		t = t[i+1:]
	}
	return t
}
