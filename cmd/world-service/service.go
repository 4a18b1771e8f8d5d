package main

import (
	"context"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"darktower-backend/internal/chronicle"
	"darktower-backend/internal/chunkcache"
	"darktower-backend/internal/config"
	"darktower-backend/internal/history"
	"darktower-backend/internal/logging"
	"darktower-backend/internal/overworld"
	"darktower-backend/internal/region"
	"darktower-backend/internal/rng"
	"darktower-backend/internal/sim"
)

// eventPublisher is what the service needs from pubsub.
type eventPublisher interface {
	PublishBatch([]chronicle.Event)
}

// service owns one world and serialises all mutation: the core loops
// are single-threaded by contract, so every mutating handler takes the
// lock.
type service struct {
	mu sync.Mutex

	cfg      config.Config
	world    *overworld.WorldData
	history  *history.WorldHistory
	simState *sim.State
	cache    *chunkcache.Cache
	regions  *region.Cache

	tickRand *rand.Rand
	simRand  *rand.Rand
	params   history.SimulationParams

	// published tracks how far the chronicle has been mirrored.
	published int

	chronicleStore *chronicle.PostgresStore
	publisher      eventPublisher
}

func newService(cfg config.Config) *service {
	world := overworld.Generate(cfg.World.Width, cfg.World.Height, cfg.World.Seed)
	return &service{
		cfg:      cfg,
		world:    world,
		history:  history.Init(world, cfg.World.Seed),
		simState: sim.NewState(world, sim.DefaultParams(), cfg.World.Seed),
		cache:    chunkcache.New(cfg.Cache.Capacity),
		regions:  region.NewCache(world, region.DefaultCapacity),
		tickRand: rng.NewSub(cfg.World.Seed, "history-ticks"),
		simRand:  rng.NewSub(cfg.World.Seed, "sim-ticks"),
		params:   history.DefaultParams(),
	}
}

func (s *service) attachChronicleStore(pool *pgxpool.Pool) {
	s.chronicleStore = chronicle.NewPostgresStore(pool)
}

// stepHistory advances one season and drains new events to the mirror
// and the publisher.
func (s *service) stepHistory() int {
	before := s.history.Chronicle.Len()
	history.Step(s.history, s.world, s.params, s.tickRand)
	s.simState.Step(s.simRand)
	appended := s.history.Chronicle.Len() - before
	s.drainEvents()
	return appended
}

// drainEvents mirrors chronicle events appended since the last drain.
func (s *service) drainEvents() {
	total := s.history.Chronicle.Len()
	if s.published >= total {
		return
	}
	fresh := s.history.Chronicle.Tail(total - s.published)
	s.published = total

	if s.chronicleStore != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, e := range fresh {
			if err := s.chronicleStore.Append(ctx, s.world.ID, e); err != nil {
				log.Warn().Err(err).Msg("Chronicle mirror append failed")
				break
			}
		}
	}
	if s.publisher != nil {
		s.publisher.PublishBatch(fresh)
	}
}

// backgroundTick runs on the cron schedule.
func (s *service) backgroundTick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	appended := s.stepHistory()
	log.Debug().Int("events", appended).Msg("Background tick")
}

func (s *service) router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}))
	r.Use(logging.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metricsHandler())

	r.Get("/world", s.handleWorldInfo)
	r.Get("/world/map.png", s.handleMapPNG)
	r.Get("/world/region.png", s.handleRegionPNG)
	r.Get("/world/regions/{wx}/{wy}", s.handleRegionRefinement)
	r.Get("/world/chunks/{wx}/{wy}", s.handleChunkSummary)
	r.Get("/world/chunks/{wx}/{wy}/map.png", s.handleChunkPNG)
	r.Post("/world/history/step", s.handleHistoryStep)
	r.Get("/world/history/events", s.handleHistoryEvents)

	return r
}
