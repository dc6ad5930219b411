package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	pollIDIndex    = "uniq_poll_pollId"
	voteIndex      = "uniq_vote_poll_voter"
	userIDIndex    = "uniq_user_userId"
	userNameIndex  = "uniq_user_userName"
	userEmailIndex = "uniq_user_email"
)

// Collections は各コレクション名。
type Collections struct {
	Polls string
	Votes string
	Users string
}

// EnsureIndexes は一意制約と一覧用のインデックスを作成する。既存インデックスの再作成は冪等。
func EnsureIndexes(ctx context.Context, db *mongo.Database, cols Collections) error {
	if _, err := db.Collection(cols.Polls).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pollId", Value: 1}},
			Options: options.Index().SetName(pollIDIndex).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("idx_poll_owner_created"),
		},
	}); err != nil {
		return fmt.Errorf("polls indexes: %w", err)
	}

	if _, err := db.Collection(cols.Votes).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pollId", Value: 1}, {Key: "voterId", Value: 1}},
			Options: options.Index().SetName(voteIndex).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "voterId", Value: 1}},
			Options: options.Index().SetName("idx_vote_voter"),
		},
	}); err != nil {
		return fmt.Errorf("votes indexes: %w", err)
	}

	if _, err := db.Collection(cols.Users).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName(userIDIndex).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userName", Value: 1}},
			Options: options.Index().SetName(userNameIndex).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(userEmailIndex).SetUnique(true),
		},
	}); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	return nil
}
