// Package daemon provides the long-running HTTP planning service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetplan/internal/engine"
	"github.com/theirongolddev/budgetplan/internal/model"
)

// DefaultMaxBodyBytes caps the size of a POST /v1/plan body.
const DefaultMaxBodyBytes = 1 << 20

// Config controls the service runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
	MaxBodyBytes int64
}

// Summary is a compact view of one plan for status and event payloads.
type Summary struct {
	Currency         string          `json:"currency,omitempty"`
	Income           decimal.Decimal `json:"income"`
	OriginalTotal    decimal.Decimal `json:"original_total"`
	OptimizedTotal   decimal.Decimal `json:"optimized_total"`
	TotalReduction   decimal.Decimal `json:"total_reduction"`
	Shortfall        decimal.Decimal `json:"shortfall"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Adjustments      int             `json:"adjustments"`
	Balanced         bool            `json:"balanced"`
}

func summarize(r model.BudgetReport) Summary {
	return Summary{
		Currency:         r.Currency,
		Income:           r.Income,
		OriginalTotal:    r.OriginalTotal,
		OptimizedTotal:   r.OptimizedTotal,
		TotalReduction:   r.TotalReduction,
		Shortfall:        r.Shortfall,
		RemainingBalance: r.RemainingBalance,
		Adjustments:      len(r.Adjustments),
		Balanced:         r.Balanced(),
	}
}

// Event is emitted for every plan request the service answers.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Summary   *Summary  `json:"summary,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Event types.
const (
	EventPlan     = "plan"
	EventRejected = "rejected"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	UptimeSec       int64     `json:"uptime_sec"`
	LastPlanAt      time.Time `json:"last_plan_at"`
	PlansServed     int64     `json:"plans_served"`
	Rejected        int64     `json:"rejected"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service exposes the engine over HTTP.
type Service struct {
	cfg    Config
	engine *engine.Engine
	log    *slog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPlanAt  time.Time
	plansServed int64
	rejected    int64
	lastError   string
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service answering with eng. A nil logger uses slog.Default.
func New(cfg Config, eng *engine.Engine, logger *slog.Logger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.MaxBodyBytes < 1 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if eng == nil {
		eng = engine.New(engine.DefaultOptions())
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		engine:    eng,
		log:       logger,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the service routes wrapped with request-ID logging.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/plan", s.handlePlan)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	return s.withRequestID(mux)
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("budgetplan service listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("budgetplan service shutting down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

type requestIDKey struct{}

// RequestID returns the request ID stored on ctx by the service middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// statusRecorder captures the response code for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Service) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))

		s.log.Info("request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func (s *Service) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := RequestID(r.Context())
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req model.BudgetRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.reject(id, fmt.Sprintf("request body exceeds %d bytes", tooBig.Limit))
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		msg := fmt.Sprintf("decoding request: %v", err)
		s.reject(id, msg)
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	report, err := s.engine.Plan(req)
	if err != nil {
		s.reject(id, err.Error())
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.record(id, report)
	writeJSON(w, http.StatusOK, report)
}

func (s *Service) record(requestID string, report model.BudgetReport) {
	now := time.Now()
	sum := summarize(report)

	s.mu.Lock()
	s.plansServed++
	s.lastPlanAt = now
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      EventPlan,
		Timestamp: now,
		RequestID: requestID,
		Summary:   &sum,
	}
	s.publishLocked(ev)
	s.mu.Unlock()
}

func (s *Service) reject(requestID, msg string) {
	now := time.Now()

	s.mu.Lock()
	s.rejected++
	s.lastError = msg
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      EventRejected,
		Timestamp: now,
		RequestID: requestID,
		Error:     msg,
	}
	s.publishLocked(ev)
	s.mu.Unlock()

	s.log.Warn("plan rejected", "request_id", requestID, "error", msg)
}

// publishLocked appends ev to the ring and fans it out. s.mu must be held.
func (s *Service) publishLocked(ev Event) {
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

	return Status{
		StartedAt:       s.startedAt,
		UptimeSec:       int64(time.Since(s.startedAt).Seconds()),
		LastPlanAt:      s.lastPlanAt,
		PlansServed:     s.plansServed,
		Rejected:        s.rejected,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
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
