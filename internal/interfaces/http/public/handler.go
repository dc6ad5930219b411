package public

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	identityapp "github.com/sngm3741/pollbox/api/internal/identity/application"
	pollingapp "github.com/sngm3741/pollbox/api/internal/polling/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger  *log.Logger
	auth    identityapp.AuthService
	polls   pollingapp.PollService
	votes   pollingapp.VoteService
	queries pollingapp.QueryService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger  *log.Logger
	Auth    identityapp.AuthService
	Polls   pollingapp.PollService
	Votes   pollingapp.VoteService
	Queries pollingapp.QueryService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:  cfg.Logger,
		auth:    cfg.Auth,
		polls:   cfg.Polls,
		votes:   cfg.Votes,
		queries: cfg.Queries,
	}
}

// Register mounts all public routes onto the router.
// 登録とログイン以外は authMiddleware を通した利用者のみが呼べる。
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Post("/sign-up", h.signUpHandler())
	r.Post("/login", h.loginHandler())
	r.With(authMiddleware).Get("/auth/verify", h.authVerifyHandler())

	r.Route("/polls", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/live", h.livePollsHandler())
		r.Get("/mine", h.ownedPollsHandler())
		r.Get("/voted", h.votedPollsHandler())
		r.Post("/", h.createPollHandler())
		r.Get("/{pollId}", h.pollDetailHandler())
		r.Delete("/{pollId}", h.deletePollHandler())
		r.Post("/{pollId}/votes", h.submitVoteHandler())
	})
}
