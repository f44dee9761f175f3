package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/satvik-sharma-05/movieBooking/internal/model"
)

// UserCollection is the MongoDB collection holding synced users.
const UserCollection = "users"

// MongoUserRepo stores users as documents keyed by externalId.
type MongoUserRepo struct{ Coll *mongo.Collection }

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{Coll: db.Collection(UserCollection)}
}

// EnsureIndexes creates the unique indexes the upsert relies on.  Creating an
// index that already exists with the same options is a no-op.
func (r *MongoUserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.Coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "externalId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uq_users_externalId"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uq_users_email"),
		},
	})
	return err
}

// Upsert writes name, email and image for the external id, inserting the
// document when none exists.  createdAt is only set on insert.
func (r *MongoUserRepo) Upsert(ctx context.Context, u model.User) (bool, error) {
	created, err := r.upsertOnce(ctx, u)
	if errors.Is(err, errDuplicateExternalID) {
		// two upserts raced to insert; the second attempt matches the winner's document
		created, err = r.upsertOnce(ctx, u)
	}
	return created, err
}

func (r *MongoUserRepo) upsertOnce(ctx context.Context, u model.User) (bool, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":      u.Name,
			"email":     u.Email,
			"image":     u.Image,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	res, err := r.Coll.UpdateOne(ctx,
		bson.M{"externalId": u.ExternalID},
		update,
		options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "uq_users_email") || strings.Contains(err.Error(), "email_1") {
				return false, ErrEmailTaken
			}
			return false, errDuplicateExternalID
		}
		return false, fmt.Errorf("upsert user %s: %w", u.ExternalID, err)
	}
	return res.UpsertedCount > 0, nil
}

// FindByExternalID fetches a user document by subject id.
func (r *MongoUserRepo) FindByExternalID(ctx context.Context, externalID string) (model.User, error) {
	var u model.User
	err := r.Coll.FindOne(ctx, bson.M{"externalId": externalID}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// DeleteByExternalID hard-deletes the document.  deleted is false when nothing matched.
func (r *MongoUserRepo) DeleteByExternalID(ctx context.Context, externalID string) (bool, error) {
	res, err := r.Coll.DeleteOne(ctx, bson.M{"externalId": externalID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
