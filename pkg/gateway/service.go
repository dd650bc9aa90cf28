// Package gateway supervises the bot's channel adapters and exposes health
// and readiness endpoints for operators.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"minibot/pkg/bus"
	"minibot/pkg/channel"
	"minibot/pkg/config"
	"minibot/pkg/message"
	"minibot/pkg/robot"
)

const (
	defaultHealthHost = "0.0.0.0"
	defaultHealthPort = 18790
)

type Service struct {
	cfg      *config.Config
	log      *slog.Logger
	bot      *robot.Robot
	events   *bus.Bus
	channels []channel.Adapter

	mu             sync.RWMutex
	startedAt      time.Time
	dispatched     int64
	failed         int64
	lastDispatchAt time.Time
	lastErr        string
	channelStates  map[string]channelState
}

type channelState struct {
	Running bool   `json:"running"`
	Error   string `json:"error,omitempty"`
}

type statusResponse struct {
	Status         string                  `json:"status"`
	UptimeSeconds  int64                   `json:"uptime_seconds"`
	Dispatched     int64                   `json:"dispatched"`
	Failed         int64                   `json:"failed"`
	LastDispatchAt string                  `json:"last_dispatch_at,omitempty"`
	LastError      string                  `json:"last_error,omitempty"`
	Channels       map[string]channelState `json:"channels"`
}

func NewService(cfg *config.Config, bot *robot.Robot, adapters []channel.Adapter, log *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if bot == nil {
		return nil, errors.New("robot is required")
	}
	if len(adapters) == 0 {
		return nil, errors.New("at least one channel adapter is required")
	}
	if log == nil {
		log = slog.Default()
	}

	channelStates := make(map[string]channelState, len(adapters))
	for _, adapter := range adapters {
		channelStates[adapter.Name()] = channelState{}
	}

	return &Service{
		cfg:           cfg,
		log:           log.With("component", "gateway.service"),
		bot:           bot,
		events:        bus.New(),
		channels:      adapters,
		channelStates: channelStates,
	}, nil
}

func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	s.startedAt = time.Now().UTC()
	s.mu.Unlock()

	serverErrors := make(chan error, 1)
	go s.runHealthServer(ctx, serverErrors)
	go s.logEvents(ctx)

	errCh := make(chan error, len(s.channels))
	for _, adapter := range s.channels {
		adapter := adapter
		s.setChannelState(adapter.Name(), channelState{Running: true})

		go func() {
			err := adapter.Run(ctx, s.handlerFor(adapter.Name()))
			s.setChannelState(adapter.Name(), channelState{Running: false, Error: errorString(err)})
			if err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("run %s channel: %w", adapter.Name(), err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		s.events.Close()
		return nil
	case err := <-serverErrors:
		s.events.Close()
		return err
	case err := <-errCh:
		s.events.Close()
		return err
	}
}

// handlerFor builds the dispatch handler one channel adapter feeds. Every
// message runs through the robot, the buffers are drained into the result,
// and the outcome is recorded for the status endpoints.
func (s *Service) handlerFor(channelName string) channel.Handler {
	return func(ctx context.Context, msg *message.TextMessage) (channel.Result, error) {
		s.events.PublishEvent(ctx, bus.Event{
			Type:      bus.EventDispatchReceived,
			Channel:   channelName,
			RoomID:    msg.Room(),
			MessageID: msg.ID,
		})

		err := s.bot.Receive(ctx, msg)
		result := channel.Result{
			Batches:     s.bot.DrainOutbox(),
			Suggestions: s.bot.DrainSuggestions(),
		}

		s.recordDispatch(err)
		if err != nil {
			s.events.PublishEvent(ctx, bus.Event{
				Type:      bus.EventDispatchFailed,
				Channel:   channelName,
				RoomID:    msg.Room(),
				MessageID: msg.ID,
				Error:     err.Error(),
			})
			return result, err
		}

		s.events.PublishEvent(ctx, bus.Event{
			Type:      bus.EventDispatchCompleted,
			Channel:   channelName,
			RoomID:    msg.Room(),
			MessageID: msg.ID,
			Payload: map[string]string{
				"batches":     strconv.Itoa(len(result.Batches)),
				"suggestions": strconv.Itoa(len(result.Suggestions)),
			},
		})

		return result, nil
	}
}

// logEvents relays dispatch lifecycle events into the structured log until
// the context ends.
func (s *Service) logEvents(ctx context.Context) {
	events, unsubscribe := s.events.SubscribeEvents(ctx, 0)
	defer unsubscribe()

	for event := range events {
		switch event.Type {
		case bus.EventDispatchFailed:
			s.log.Error("Dispatch failed", "channel", event.Channel, "message_id", event.MessageID, "error", event.Error)
		case bus.EventDispatchCompleted:
			s.log.Info("Dispatch completed", "channel", event.Channel, "message_id", event.MessageID, "batches", event.Payload["batches"], "suggestions", event.Payload["suggestions"])
		default:
			s.log.Debug("Dispatch event", "type", string(event.Type), "channel", event.Channel, "message_id", event.MessageID)
		}
	}
}

func (s *Service) recordDispatch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dispatched++
	s.lastDispatchAt = time.Now().UTC()
	if err != nil {
		s.failed++
		s.lastErr = err.Error()
		return
	}
	s.lastErr = ""
}

func (s *Service) runHealthServer(ctx context.Context, errCh chan<- error) {
	host := strings.TrimSpace(s.cfg.Gateway.Host)
	if host == "" {
		host = defaultHealthHost
	}

	port := s.cfg.Gateway.Port
	if port <= 0 {
		port = defaultHealthPort
	}

	addr := host + ":" + strconv.Itoa(port)
	server := &http.Server{
		Addr:              addr,
		Handler:           s.statusMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.log.Info("Status server started", "address", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errCh <- fmt.Errorf("start status server: %w", err)
	}
}

func (s *Service) statusMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	return mux
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondStatus(w, http.StatusOK, "ok")
}

func (s *Service) handleReady(w http.ResponseWriter, _ *http.Request) {
	statusCode := http.StatusOK
	status := "ready"
	if !s.isReady() {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	s.respondStatus(w, statusCode, status)
}

func (s *Service) respondStatus(w http.ResponseWriter, statusCode int, status string) {
	payload := s.currentStatus(status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("Failed to write status response", "error", err)
	}
}

func (s *Service) currentStatus(status string) statusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uptime := int64(0)
	if !s.startedAt.IsZero() {
		uptime = int64(time.Since(s.startedAt).Seconds())
	}

	channels := make(map[string]channelState, len(s.channelStates))
	for name, state := range s.channelStates {
		channels[name] = state
	}

	lastDispatch := ""
	if !s.lastDispatchAt.IsZero() {
		lastDispatch = s.lastDispatchAt.Format(time.RFC3339)
	}

	return statusResponse{
		Status:         status,
		UptimeSeconds:  uptime,
		Dispatched:     s.dispatched,
		Failed:         s.failed,
		LastDispatchAt: lastDispatch,
		LastError:      s.lastErr,
		Channels:       channels,
	}
}

// isReady reports whether at least one channel adapter is still running.
func (s *Service) isReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, state := range s.channelStates {
		if state.Running {
			return true
		}
	}

	return false
}

func (s *Service) setChannelState(name string, state channelState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channelStates[name] = state
}

func errorString(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
