package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/synaptrix4/skillatics-io/internal/models"
)

// UserRepository keeps the gamification fields of a user profile.
type UserRepository struct {
	Col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Col: db.Collection("user_progress")}
}

func (r *UserRepository) AddXP(ctx context.Context, userID string, delta int) (*models.UserProfile, error) {
	update := bson.M{
		"$inc":         bson.M{"xp": delta},
		"$setOnInsert": bson.M{"level": 1, "badges": bson.A{}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var profile models.UserProfile
	if err := r.Col.FindOneAndUpdate(ctx, bson.M{"_id": userID}, update, opts).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *UserRepository) SetLevel(ctx context.Context, userID string, level int) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"level": level}})
	return err
}

func (r *UserRepository) GrantBadge(ctx context.Context, userID, badgeID string, bonus int) (bool, error) {
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": userID, "badges": bson.M{"$ne": badgeID}},
		bson.M{"$push": bson.M{"badges": badgeID}, "$inc": bson.M{"xp": bonus}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
