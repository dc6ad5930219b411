package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/pollbox/api/internal/config"
	mongodoc "github.com/sngm3741/pollbox/api/internal/infrastructure/mongo"
	"github.com/sngm3741/pollbox/api/internal/server"
)

func main() {
	// .env は任意。存在しなければ環境変数だけで起動する。
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	var client *mongo.Client
	if cfg.StoreDriver == config.StoreMongo {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()

		clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
		client, err = mongo.Connect(ctx, clientOptions)
		if err != nil {
			cfg.ServerLog.Fatalf("MongoDB 接続に失敗しました: %v", err)
		}

		if err := mongodoc.EnsureIndexes(ctx, client.Database(cfg.MongoDatabase), mongodoc.Collections{
			Polls: cfg.PollCollection,
			Votes: cfg.VoteCollection,
			Users: cfg.UserCollection,
		}); err != nil {
			cfg.ServerLog.Fatalf("インデックス作成に失敗しました: %v", err)
		}
	} else {
		cfg.ServerLog.Printf("メモリストアで起動します。再起動するとデータは失われます。")
	}

	app, err := server.New(cfg, client)
	if err != nil {
		cfg.ServerLog.Fatalf("サーバーの初期化に失敗: %v", err)
	}
	if err := app.Run(); err != nil {
		log.Fatalf("サーバー起動に失敗: %v", err)
	}
}
