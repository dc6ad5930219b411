package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/pollbox/api/internal/config"
	identityapp "github.com/sngm3741/pollbox/api/internal/identity/application"
	identity "github.com/sngm3741/pollbox/api/internal/identity/domain"
	"github.com/sngm3741/pollbox/api/internal/infrastructure/jwt"
	mongodoc "github.com/sngm3741/pollbox/api/internal/infrastructure/mongo"
	pollingapp "github.com/sngm3741/pollbox/api/internal/polling/application"
	"github.com/sngm3741/pollbox/api/internal/polling/domain"
)

const seedPassword = "password123"

type seedOptions struct {
	envName         string
	userCount       int
	pollsPerUser    int
	voteRate        float64
	dropCollections bool
	randomSeed      int64
}

type pollTemplate struct {
	category   string
	question   string
	choiceType domain.ChoiceType
	options    []string
}

var templates = []pollTemplate{
	{"Food and Drink", "Which breakfast do you prefer?", domain.ChoiceSingle, []string{"Rice", "Bread", "Cereal", "Skip it"}},
	{"Technology and Gadgets", "Which devices do you use daily?", domain.ChoiceMultiple, []string{"Phone", "Laptop", "Tablet", "Smartwatch", "Desktop"}},
	{"Entertainment", "Favourite movie genre?", domain.ChoiceSingle, []string{"Action", "Comedy", "Drama", "Horror", "Sci-Fi"}},
	{"Health and Fitness", "How do you stay active?", domain.ChoiceMultiple, []string{"Running", "Gym", "Yoga", "Cycling"}},
	{"Education", "Online or offline classes?", domain.ChoiceSingle, []string{"Online", "Offline"}},
	{"Travel and Places", "Where would you travel next?", domain.ChoiceSingle, []string{"Mountains", "Beach", "City", "Countryside"}},
	{"Business and Finance", "Which ways do you save money?", domain.ChoiceMultiple, []string{"Savings account", "Index funds", "Stocks", "Real estate", "Crypto", "I don't"}},
	{"Personal Preferences", "Morning person or night owl?", domain.ChoiceSingle, []string{"Morning", "Night"}},
	{"Events and Festivals", "Which events did you attend this year?", domain.ChoiceMultiple, []string{"Concert", "Sports match", "Festival", "Conference"}},
	{"Science and Innovation", "Most exciting field right now?", domain.ChoiceSingle, []string{"AI", "Space", "Biotech", "Energy"}},
}

func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envName); err != nil {
		log.Fatalf("環境変数の読み込みに失敗しました: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}
	if cfg.StoreDriver != config.StoreMongo {
		log.Fatalf("seed は STORE_DRIVER=%s では実行できません", config.StoreMongo)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.MongoDatabase)
	cols := mongodoc.Collections{Polls: cfg.PollCollection, Votes: cfg.VoteCollection, Users: cfg.UserCollection}

	if opts.dropCollections {
		dropCollections(ctx, db, cols)
		log.Printf("既存コレクションを削除しました")
	}

	if err := mongodoc.EnsureIndexes(ctx, db, cols); err != nil {
		log.Fatalf("インデックス作成に失敗しました: %v", err)
	}

	issuer, err := jwt.NewIssuer(jwt.Config{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer, Audience: cfg.JWT.Audience, TTL: cfg.JWT.TTL})
	if err != nil {
		log.Fatalf("トークン発行者の初期化に失敗しました: %v", err)
	}
	polls := mongodoc.NewPollRepository(db, cfg.PollCollection)
	votes := mongodoc.NewVoteRepository(db, cfg.VoteCollection)
	auth := identityapp.NewAuthService(mongodoc.NewUserRepository(db, cfg.UserCollection), issuer, cfg.BcryptCost)
	pollService := pollingapp.NewPollService(polls, votes, mongodoc.NewTransactor(client, cfg.UseTransactions))
	voteService := pollingapp.NewVoteService(polls, votes)

	rng := rand.New(rand.NewSource(opts.randomSeed))

	users, err := seedUsers(ctx, auth, opts.userCount)
	if err != nil {
		log.Fatalf("利用者データの投入に失敗しました: %v", err)
	}

	created, err := seedPolls(ctx, rng, pollService, users, opts.pollsPerUser)
	if err != nil {
		log.Fatalf("投票データの投入に失敗しました: %v", err)
	}

	voteCount, err := seedVotes(ctx, rng, voteService, users, created, opts.voteRate)
	if err != nil {
		log.Fatalf("投票記録の投入に失敗しました: %v", err)
	}

	log.Printf("Seed 完了: users=%d polls=%d votes=%d (password=%s)", len(users), len(created), voteCount, seedPassword)
	log.Printf("Mongo: %s / %s (env=%s)", cfg.MongoURI, cfg.MongoDatabase, opts.envName)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "env ディレクトリ内の env ファイル名 (例: local, staging)")
	flag.IntVar(&opts.userCount, "users", 5, "生成する利用者数")
	flag.IntVar(&opts.pollsPerUser, "polls", 2, "利用者ごとに作成する投票数")
	flag.Float64Var(&opts.voteRate, "vote-rate", 0.6, "他人の投票に回答する確率 (0〜1)")
	flag.BoolVar(&opts.dropCollections, "drop", true, "既存コレクションを削除してから投入する")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "乱数シード（再現用）")
	flag.Parse()

	if opts.userCount <= 0 {
		log.Fatal("users は 1 以上を指定してください")
	}
	if opts.pollsPerUser < 0 {
		opts.pollsPerUser = 0
	}
	if opts.voteRate < 0 {
		opts.voteRate = 0
	}
	if opts.voteRate > 1 {
		opts.voteRate = 1
	}
	return opts
}

// loadEnvFiles は .env と env/shared.env, env/<name>.env を存在するものだけ読み込む。
func loadEnvFiles(envName string) error {
	base := filepath.Clean(filepath.Join("..", "env"))
	files := []string{
		".env",
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	}
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("%s の読み込みに失敗しました: %w", file, err)
		}
	}
	return nil
}

func dropCollections(ctx context.Context, db *mongo.Database, cols mongodoc.Collections) {
	for _, name := range []string{cols.Polls, cols.Votes, cols.Users} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			log.Printf("WARN: コレクション %s の削除に失敗: %v", name, err)
		}
	}
}

func seedUsers(ctx context.Context, auth identityapp.AuthService, count int) ([]identity.User, error) {
	genders := []string{"female", "male", "other"}
	users := make([]identity.User, 0, count)
	for i := 1; i <= count; i++ {
		user, err := auth.SignUp(ctx, identityapp.SignUpCommand{
			FullName:    fmt.Sprintf("Demo User %02d", i),
			DateOfBirth: fmt.Sprintf("199%d-0%d-1%d", i%10, i%9+1, i%10),
			Gender:      genders[i%len(genders)],
			UserName:    fmt.Sprintf("user%02d", i),
			Email:       fmt.Sprintf("user%02d@example.com", i),
			Password:    seedPassword,
		})
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

func seedPolls(ctx context.Context, rng *rand.Rand, svc pollingapp.PollService, users []identity.User, perUser int) ([]domain.Poll, error) {
	polls := make([]domain.Poll, 0, len(users)*perUser)
	for _, user := range users {
		for i := 0; i < perUser; i++ {
			tpl := templates[rng.Intn(len(templates))]
			choices := make([]domain.Option, 0, len(tpl.options))
			for idx, label := range tpl.options {
				choices = append(choices, domain.Option{ID: fmt.Sprintf("opt-%d", idx+1), Label: label})
			}
			poll, err := svc.Create(ctx, user.UserID, domain.PollDraft{
				Category:     tpl.category,
				QuestionText: tpl.question,
				ChoiceType:   tpl.choiceType.String(),
				Options:      choices,
			})
			if err != nil {
				return nil, err
			}
			polls = append(polls, *poll)
		}
	}
	return polls, nil
}

// seedVotes は各利用者に、他人が作成した投票へ確率的に回答させる。
func seedVotes(ctx context.Context, rng *rand.Rand, svc pollingapp.VoteService, users []identity.User, polls []domain.Poll, rate float64) (int, error) {
	count := 0
	for _, user := range users {
		for _, poll := range polls {
			if poll.OwnedBy(user.UserID) || rng.Float64() >= rate {
				continue
			}
			if _, err := svc.Submit(ctx, pollingapp.SubmitVoteCommand{
				PollID:            poll.ID,
				VoterID:           user.UserID,
				SelectedOptionIDs: randomSelection(rng, poll),
			}); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func randomSelection(rng *rand.Rand, poll domain.Poll) []string {
	if poll.ChoiceType == domain.ChoiceSingle {
		return []string{poll.Options[rng.Intn(len(poll.Options))].ID}
	}
	selected := make([]string, 0, len(poll.Options))
	for _, opt := range poll.Options {
		if rng.Intn(2) == 0 {
			selected = append(selected, opt.ID)
		}
	}
	if len(selected) == 0 {
		selected = append(selected, poll.Options[0].ID)
	}
	return selected
}
