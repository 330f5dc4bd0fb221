package server

import (
	"context"
	"net/http"
	"path/filepath"

	"ligapro-predictor/internal/ambience"
	"ligapro-predictor/internal/api"
	"ligapro-predictor/internal/config"
	"ligapro-predictor/internal/domain"
	"ligapro-predictor/internal/middleware"
	"ligapro-predictor/internal/ui"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type Journal interface {
	Recent(ctx context.Context, limit int) ([]domain.PredictionRecord, error)
}

type HealthChecker interface {
	Health(ctx context.Context) (*api.HealthResponse, error)
}

// Page is everything the browser renders: the session's controller state plus the shared ambience.
type Page struct {
	ui.Snapshot
	Ambience ambience.Snapshot `json:"ambience"`
}

type Server struct {
	registry  *ui.Registry
	journal   Journal
	health    HealthChecker
	slideshow *ambience.Slideshow
	music     *ambience.Music
	publicDir string
	logger    zerolog.Logger
}

func NewServer(
	cfg *config.Config,
	registry *ui.Registry,
	journal Journal,
	health HealthChecker,
	slideshow *ambience.Slideshow,
	music *ambience.Music,
	logger zerolog.Logger,
) *Server {
	return &Server{
		registry:  registry,
		journal:   journal,
		health:    health,
		slideshow: slideshow,
		music:     music,
		publicDir: cfg.PublicDir,
		logger:    logger,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	r.Get("/healthz", s.handleHealth)
	r.Handle("/img/*", http.StripPrefix("/img/", http.FileServer(http.Dir(filepath.Join(s.publicDir, "img")))))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session)
		r.Get("/", s.handleIndex)

		r.Route("/api", func(r chi.Router) {
			r.Use(c.Handler)
			r.Get("/journal", s.handleJournal)

			r.Route("/ui", func(r chi.Router) {
				r.Get("/state", s.handleState)
				r.Post("/home", s.handleSetHome)
				r.Post("/away", s.handleSetAway)
				r.Post("/swap", s.handleSwap)
				r.Post("/predict", s.handlePredict)
				r.Post("/music/volume", s.handleVolume)
			})
		})
	})

	return r
}

// controller returns the session's controller, registering the session on first use.
// Only handlers that change session state call it.
func (s *Server) controller(r *http.Request) *ui.Controller {
	return s.registry.Get(middleware.GetSessionID(r.Context()))
}

// viewer is for read-only handlers: sessions that never changed anything see the
// default state without being registered.
func (s *Server) viewer(r *http.Request) *ui.Controller {
	id := middleware.GetSessionID(r.Context())
	if c, ok := s.registry.Lookup(id); ok {
		return c
	}
	return s.registry.Preview(id)
}

func (s *Server) page(c *ui.Controller) Page {
	return Page{
		Snapshot: c.Snapshot(),
		Ambience: ambience.Describe(s.slideshow, s.music),
	}
}
