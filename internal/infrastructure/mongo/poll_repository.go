package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/pollbox/api/internal/polling/domain"
)

// PollRepository implements application.PollRepository using MongoDB.
type PollRepository struct {
	collection *mongo.Collection
}

func NewPollRepository(db *mongo.Database, collectionName string) *PollRepository {
	return &PollRepository{collection: db.Collection(collectionName)}
}

func (r *PollRepository) Insert(ctx context.Context, poll *domain.Poll) error {
	_, err := r.collection.InsertOne(ctx, newPollDocument(*poll))
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrPollExists
	}
	return err
}

// FindByID は pollId で 1 件取得する。存在しない場合は domain.ErrNotFoundOrForbidden。
func (r *PollRepository) FindByID(ctx context.Context, pollID string) (*domain.Poll, error) {
	var doc PollDocument
	err := r.collection.FindOne(ctx, bson.M{"pollId": pollID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFoundOrForbidden
	}
	if err != nil {
		return nil, err
	}
	poll := mapPollDocument(doc)
	return &poll, nil
}

func (r *PollRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.Poll, error) {
	return r.find(ctx, bson.M{"ownerId": ownerID})
}

func (r *PollRepository) FindByIDs(ctx context.Context, pollIDs []string) ([]domain.Poll, error) {
	if len(pollIDs) == 0 {
		return []domain.Poll{}, nil
	}
	return r.find(ctx, bson.M{"pollId": bson.M{"$in": pollIDs}})
}

func (r *PollRepository) FindAll(ctx context.Context) ([]domain.Poll, error) {
	return r.find(ctx, bson.M{})
}

func (r *PollRepository) DeleteByID(ctx context.Context, pollID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"pollId": pollID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFoundOrForbidden
	}
	return nil
}

// find は作成順（createdAt, _id の昇順）で返す。
func (r *PollRepository) find(ctx context.Context, filter bson.M) ([]domain.Poll, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	polls := make([]domain.Poll, 0)
	for cursor.Next(ctx) {
		var doc PollDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		polls = append(polls, mapPollDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return polls, nil
}
