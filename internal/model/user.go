package model

import "time"

// DefaultUserImage is stored when the identity provider has no avatar for a user.
const DefaultUserImage = "https://res.cloudinary.com/dz1qj3x7h/image/upload/v1735681234/default-user.png"

// User is the local copy of an identity-provider account.  It is stored in
// the `users` collection (MongoDB) or the `users` table (MySQL); the bson tags
// follow the collection field names and the db column names are listed next
// to each field.
//
// Fields:
//  ExternalID – identity-provider subject id, immutable and unique.
//  Name       – display name, trimmed.
//  Email      – unique, lower-cased contact address.
//  Image      – avatar URL, DefaultUserImage when the provider has none.
//  CreatedAt  – set once when the record is first written.
//  UpdatedAt  – refreshed on every write.
type User struct {
	ExternalID string    `bson:"externalId" json:"externalId" validate:"required"` // users.external_id
	Name       string    `bson:"name" json:"name" validate:"required"`             // users.name
	Email      string    `bson:"email" json:"email" validate:"required,email"`     // users.email
	Image      string    `bson:"image" json:"image" validate:"required,url"`       // users.image
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`                       // users.created_at
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`                       // users.updated_at
}
