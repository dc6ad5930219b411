package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/pollbox/api/internal/identity/domain"
)

// UserRepository implements the identity UserRepository port.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database, collectionName string) *UserRepository {
	return &UserRepository{collection: db.Collection(collectionName)}
}

// Insert は一意インデックス違反を、違反したインデックスに応じた利用者エラーへ変換する。
func (r *UserRepository) Insert(ctx context.Context, user *domain.User) error {
	_, err := r.collection.InsertOne(ctx, newUserDocument(*user))
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		if strings.Contains(duplicateKeyMessage(err), userEmailIndex) {
			return domain.ErrEmailTaken
		}
		return domain.ErrUsernameTaken
	}
	return err
}

func (r *UserRepository) FindByUserName(ctx context.Context, userName string) (*domain.User, error) {
	var doc UserDocument
	err := r.collection.FindOne(ctx, bson.M{"userName": userName}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	user := mapUserDocument(doc)
	return &user, nil
}

func (r *UserRepository) ExistsByUserName(ctx context.Context, userName string) (bool, error) {
	return r.exists(ctx, bson.M{"userName": userName})
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *UserRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func duplicateKeyMessage(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		messages := make([]string, 0, len(we.WriteErrors))
		for _, e := range we.WriteErrors {
			messages = append(messages, e.Message)
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}
