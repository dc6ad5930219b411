package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sngm3741/pollbox/api/internal/config"
	identityapp "github.com/sngm3741/pollbox/api/internal/identity/application"
	"github.com/sngm3741/pollbox/api/internal/infrastructure/jwt"
	"github.com/sngm3741/pollbox/api/internal/infrastructure/memory"
	mongodoc "github.com/sngm3741/pollbox/api/internal/infrastructure/mongo"
	commonhttp "github.com/sngm3741/pollbox/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/pollbox/api/internal/interfaces/http/public"
	pollingapp "github.com/sngm3741/pollbox/api/internal/polling/application"
)

// Server は HTTP サーバーのライフサイクルを管理し、各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger         *log.Logger
	client         *mongo.Client
	authService    identityapp.AuthService
	pollService    pollingapp.PollService
	voteService    pollingapp.VoteService
	queryService   pollingapp.QueryService
	addr           string
	allowedOrigins []string
}

// repositories は選択されたストアの実装一式。
type repositories struct {
	polls pollingapp.PollRepository
	votes pollingapp.VoteRepository
	users identityapp.UserRepository
	tx    pollingapp.Transactor
}

// Handler はミドルウェアとルーティングを組み立てた http.Handler を返す。
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:  s.logger,
		Auth:    s.authService,
		Polls:   s.pollService,
		Votes:   s.voteService,
		Queries: s.queryService,
	})
	publicHandler.Register(router, s.authMiddleware)
	return router
}

// Run はHTTPサーバーを起動し、シグナル受信まで待機する。
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	return waitForShutdown(httpServer, errChan, s)
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler は MongoDB への疎通確認を行う。メモリストア構成では常に ok を返す。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if s.client != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
				s.logger.Printf("MongoDB への疎通確認に失敗: %v", err)
				commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
				})
				return
			}
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// authMiddleware は Authorization ヘッダーのベアラートークンを検証し、認証済みユーザーをコンテキストへ詰める。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteErrorKind(s.logger, w, http.StatusUnauthorized, commonhttp.KindAuth, "authorization header is missing")
			return
		}

		// スキーム名は大文字小文字を区別しない (RFC 6750)。
		const bearerPrefix = "Bearer "
		if len(authHeader) < len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			commonhttp.WriteErrorKind(s.logger, w, http.StatusUnauthorized, commonhttp.KindAuth, "bearer token is required")
			return
		}

		tokenString := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if tokenString == "" {
			commonhttp.WriteErrorKind(s.logger, w, http.StatusUnauthorized, commonhttp.KindAuth, "access token is empty")
			return
		}

		identity, err := s.authService.Verify(r.Context(), tokenString)
		if err != nil {
			commonhttp.WriteError(s.logger, w, err)
			return
		}

		ctx := commonhttp.ContextWithUser(r.Context(), commonhttp.AuthenticatedUser{
			ID:       identity.UserID,
			Username: identity.UserName,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断する。
func (s *Server) shutdown(ctx context.Context) {
	if s.client == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 切断時にエラー: %v", err)
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case sig := <-sigChan:
		srv.logger.Printf("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
	return runErr
}

// New は Config とストアを受け取り、アプリケーションサービスとハンドラを組み立てた Server を返す。
// client が nil の場合はメモリストアで動作する。
func New(cfg config.Config, client *mongo.Client) (*Server, error) {
	issuer, err := jwt.NewIssuer(jwt.Config{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	})
	if err != nil {
		return nil, err
	}

	repos := newRepositories(cfg, client)

	return &Server{
		logger:         cfg.ServerLog,
		client:         client,
		authService:    identityapp.NewAuthService(repos.users, issuer, cfg.BcryptCost),
		pollService:    pollingapp.NewPollService(repos.polls, repos.votes, repos.tx),
		voteService:    pollingapp.NewVoteService(repos.polls, repos.votes),
		queryService:   pollingapp.NewQueryService(repos.polls, repos.votes),
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
	}, nil
}

func newRepositories(cfg config.Config, client *mongo.Client) repositories {
	if client == nil {
		return repositories{
			polls: memory.NewPollRepository(),
			votes: memory.NewVoteRepository(),
			users: memory.NewUserRepository(),
			tx:    pollingapp.NoTransaction(),
		}
	}
	db := client.Database(cfg.MongoDatabase)
	return repositories{
		polls: mongodoc.NewPollRepository(db, cfg.PollCollection),
		votes: mongodoc.NewVoteRepository(db, cfg.VoteCollection),
		users: mongodoc.NewUserRepository(db, cfg.UserCollection),
		tx:    mongodoc.NewTransactor(client, cfg.UseTransactions),
	}
}
