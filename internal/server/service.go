// Package server exposes the budget evaluator over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/smartbudget/internal/model"
	"github.com/theirongolddev/smartbudget/internal/pipeline"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	MaxBodyBytes int64
	BatchWorkers int
	EventsBuffer int
	MaxBatch     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration // event streams are exempt
}

// Event is emitted for every evaluation the server performs. It carries the
// outcome only, never the submitted amounts.
type Event struct {
	ID                int64      `json:"id"`
	Type              string     `json:"type"` // "evaluated" or "rejected"
	Timestamp         time.Time  `json:"timestamp"`
	Source            string     `json:"source"` // "single" or "batch"
	Tier              model.Tier `json:"tier,omitempty"`
	SavingsPercentage float64    `json:"savingsPercentage"`
	Insights          int        `json:"insights"`
	Error             string     `json:"error,omitempty"`
	Field             string     `json:"field,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time          `json:"startedAt"`
	Evaluations     int64              `json:"evaluations"`
	Rejected        int64              `json:"rejected"`
	Tiers           map[model.Tier]int `json:"tiers"`
	Categories      []model.Category   `json:"categories"`
	EventCount      int                `json:"eventCount"`
	SubscriberCount int                `json:"subscriberCount"`
}

// Service provides the HTTP API around one evaluator.
type Service struct {
	cfg Config
	ev  *pipeline.Evaluator
	log *zap.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	evaluations int64
	rejected    int64
	tiers       map[model.Tier]int
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event

	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// New returns a service with defaults filled in for zero config values.
func New(cfg Config, ev *pipeline.Evaluator, logger *zap.Logger) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.BatchWorkers < 1 {
		cfg.BatchWorkers = 8
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.MaxBatch < 1 {
		cfg.MaxBatch = 1000
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if ev == nil {
		ev = pipeline.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		ev:        ev,
		log:       logger,
		startedAt: time.Now(),
		tiers:     make(map[model.Tier]int),
		subs:      make(map[int]chan Event),
		shutdown:  make(chan struct{}),
	}
}

// Run listens on the configured address and serves until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully. Open event streams are ended when shutdown starts.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}
	server.RegisterOnShutdown(s.closeStreams)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("listening", zap.String("op", "server.Serve"), zap.String("addr", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down", zap.String("op", "server.Serve"))
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Service) closeStreams() {
	s.shutdownOnce.Do(func() { close(s.shutdown) })
}

// record updates counters and publishes an event for one evaluation outcome.
func (s *Service) record(source string, res model.Result, err error) {
	ev := Event{
		Type:      "evaluated",
		Timestamp: time.Now(),
		Source:    source,
	}
	if err != nil {
		ev.Type = "rejected"
		ev.Error = err.Error()
		var inv *pipeline.InvalidInputError
		if errors.As(err, &inv) {
			ev.Field = inv.Field
		}
	} else {
		ev.Tier = res.Tier
		ev.SavingsPercentage = res.SavingsPercentage
		ev.Insights = len(res.Insights)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.rejected++
	} else {
		s.evaluations++
		s.tiers[res.Tier]++
	}
	s.publishLocked(ev)
}

// publishLocked numbers ev, appends it to the ring and fans it out.
// The caller holds s.mu so ring order matches ID order.
func (s *Service) publishLocked(ev Event) {
	s.nextEventID++
	ev.ID = s.nextEventID

	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tiers := make(map[model.Tier]int, len(s.tiers))
	for k, v := range s.tiers {
		tiers[k] = v
	}

	return Status{
		StartedAt:       s.startedAt,
		Evaluations:     s.evaluations,
		Rejected:        s.rejected,
		Tiers:           tiers,
		Categories:      s.ev.Categories(),
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) recentEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
