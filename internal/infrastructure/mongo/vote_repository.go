package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/pollbox/api/internal/polling/domain"
)

// VoteRepository persists one vote record per (poll, voter).
// 一意性は uniq_vote_poll_voter インデックスで担保する。
type VoteRepository struct {
	collection *mongo.Collection
}

func NewVoteRepository(db *mongo.Database, collectionName string) *VoteRepository {
	return &VoteRepository{collection: db.Collection(collectionName)}
}

// Insert は重複キーエラーを domain.ErrAlreadyVoted に変換する。
func (r *VoteRepository) Insert(ctx context.Context, vote *domain.VoteRecord) error {
	doc := VoteDocument{
		ID:                primitive.NewObjectID(),
		PollID:            vote.PollID,
		VoterID:           vote.VoterID,
		SelectedOptionIDs: vote.SelectedOptionIDs,
		VotedAt:           vote.VotedAt.UTC(),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyVoted
		}
		return err
	}
	vote.ID = doc.ID.Hex()
	return nil
}

func (r *VoteRepository) Exists(ctx context.Context, pollID, voterID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"pollId": pollID, "voterId": voterID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByPoll は投票者数を返す。(pollId, voterId) の一意インデックスにより記録数と一致する。
func (r *VoteRepository) CountByPoll(ctx context.Context, pollID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"pollId": pollID})
}

func (r *VoteRepository) FindByVoter(ctx context.Context, voterID string) ([]domain.VoteRecord, error) {
	return r.find(ctx, bson.M{"voterId": voterID})
}

func (r *VoteRepository) FindByPoll(ctx context.Context, pollID string) ([]domain.VoteRecord, error) {
	return r.find(ctx, bson.M{"pollId": pollID})
}

func (r *VoteRepository) FindByPolls(ctx context.Context, pollIDs []string) ([]domain.VoteRecord, error) {
	if len(pollIDs) == 0 {
		return []domain.VoteRecord{}, nil
	}
	return r.find(ctx, bson.M{"pollId": bson.M{"$in": pollIDs}})
}

type tallyRow struct {
	OptionID string `bson:"_id"`
	Count    int    `bson:"count"`
}

// TallyByPoll は選択肢 ID ごとの選択数をサーバー側で集計する。
// 1 件の記録内の重複 ID は $setUnion で畳んでから数える。
func (r *VoteRepository) TallyByPoll(ctx context.Context, pollID string) (domain.Tally, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "pollId", Value: pollID}}}},
		{{Key: "$project", Value: bson.D{{Key: "selectedOptionIds", Value: bson.D{
			{Key: "$setUnion", Value: bson.A{"$selectedOptionIds", bson.A{}}},
		}}}}},
		{{Key: "$unwind", Value: "$selectedOptionIds"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$selectedOptionIds"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tally := make(domain.Tally)
	for cursor.Next(ctx) {
		var row tallyRow
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		tally[row.OptionID] = row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return tally, nil
}

func (r *VoteRepository) DeleteByPoll(ctx context.Context, pollID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"pollId": pollID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *VoteRepository) find(ctx context.Context, filter bson.M) ([]domain.VoteRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "votedAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	votes := make([]domain.VoteRecord, 0)
	for cursor.Next(ctx) {
		var doc VoteDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		votes = append(votes, mapVoteDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return votes, nil
}
