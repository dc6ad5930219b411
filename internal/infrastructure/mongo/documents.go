package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	identity "github.com/sngm3741/pollbox/api/internal/identity/domain"
	"github.com/sngm3741/pollbox/api/internal/polling/domain"
)

// OptionDocument は投票ドキュメントに埋め込む選択肢。
type OptionDocument struct {
	ID    string `bson:"id"`
	Label string `bson:"label"`
}

// PollDocument は polls コレクションのスキーマ。pollId はアプリケーション側の識別子で一意インデックスを張る。
type PollDocument struct {
	ObjectID     primitive.ObjectID `bson:"_id,omitempty"`
	PollID       string             `bson:"pollId"`
	OwnerID      string             `bson:"ownerId"`
	Category     string             `bson:"category"`
	QuestionText string             `bson:"questionText"`
	ChoiceType   string             `bson:"choiceType"`
	Options      []OptionDocument   `bson:"options"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

// VoteDocument は投票記録。(pollId, voterId) に一意インデックスを張る。
type VoteDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	PollID            string             `bson:"pollId"`
	VoterID           string             `bson:"voterId"`
	SelectedOptionIDs []string           `bson:"selectedOptionIds"`
	VotedAt           time.Time          `bson:"votedAt"`
}

// UserDocument は users コレクションのスキーマ。パスワードは bcrypt ハッシュのみ保存する。
type UserDocument struct {
	ObjectID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID       string             `bson:"userId"`
	FullName     string             `bson:"fullName"`
	DateOfBirth  string             `bson:"dob"`
	Gender       string             `bson:"gender"`
	UserName     string             `bson:"userName"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

func newPollDocument(p domain.Poll) PollDocument {
	options := make([]OptionDocument, 0, len(p.Options))
	for _, opt := range p.Options {
		options = append(options, OptionDocument{ID: opt.ID, Label: opt.Label})
	}
	return PollDocument{
		PollID:       p.ID,
		OwnerID:      p.OwnerID,
		Category:     p.Category.String(),
		QuestionText: p.QuestionText,
		ChoiceType:   p.ChoiceType.String(),
		Options:      options,
		CreatedAt:    p.CreatedAt.UTC(),
	}
}

func mapPollDocument(doc PollDocument) domain.Poll {
	options := make([]domain.Option, 0, len(doc.Options))
	for _, opt := range doc.Options {
		options = append(options, domain.Option{ID: opt.ID, Label: opt.Label})
	}
	return domain.Poll{
		ID:           doc.PollID,
		OwnerID:      doc.OwnerID,
		Category:     domain.Category(doc.Category),
		QuestionText: doc.QuestionText,
		ChoiceType:   domain.ChoiceType(doc.ChoiceType),
		Options:      options,
		CreatedAt:    doc.CreatedAt,
	}
}

func mapVoteDocument(doc VoteDocument) domain.VoteRecord {
	return domain.VoteRecord{
		ID:                doc.ID.Hex(),
		PollID:            doc.PollID,
		VoterID:           doc.VoterID,
		SelectedOptionIDs: append([]string{}, doc.SelectedOptionIDs...),
		VotedAt:           doc.VotedAt,
	}
}

func newUserDocument(u identity.User) UserDocument {
	return UserDocument{
		UserID:       u.UserID,
		FullName:     u.FullName,
		DateOfBirth:  u.DateOfBirth,
		Gender:       u.Gender,
		UserName:     u.UserName,
		Email:        u.Email,
		PasswordHash: string(u.PasswordHash),
		CreatedAt:    u.CreatedAt.UTC(),
	}
}

func mapUserDocument(doc UserDocument) identity.User {
	return identity.User{
		UserID:       doc.UserID,
		FullName:     doc.FullName,
		DateOfBirth:  doc.DateOfBirth,
		Gender:       doc.Gender,
		UserName:     doc.UserName,
		Email:        doc.Email,
		PasswordHash: []byte(doc.PasswordHash),
		CreatedAt:    doc.CreatedAt,
	}
}
