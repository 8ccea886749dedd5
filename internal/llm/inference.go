package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// Availability is the state of the inference service.
type Availability string

const (
	// AvailabilityReady means sessions can be created immediately.
	AvailabilityReady Availability = "ready"
	// AvailabilityNeedsDownload means the model must be prepared first.
	AvailabilityNeedsDownload Availability = "needs-download"
	// AvailabilityUnavailable is terminal for the current invocation.
	AvailabilityUnavailable Availability = "unavailable"
)

// ParseAvailability maps a status string reported by an inference backend
// onto one of the three availability states. Unknown strings are unavailable.
func ParseAvailability(s string) Availability {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ready", "readily", "available":
		return AvailabilityReady
	case "needs-download", "after-download", "downloadable", "downloading":
		return AvailabilityNeedsDownload
	default:
		return AvailabilityUnavailable
	}
}

// ErrSessionDestroyed is returned by Prompt after Destroy.
var ErrSessionDestroyed = errors.New("session destroyed")

// ErrNotReady is returned by CreateSession when the model is not prepared.
var ErrNotReady = errors.New("inference service is not ready")

// Session is a single conversation with the model.
type Session interface {
	Prompt(ctx context.Context, text string) (string, error)
	Destroy()
}

// Inference reports availability, prepares the model and opens sessions.
type Inference interface {
	Availability(ctx context.Context) (Availability, error)
	// Download starts preparing the model and returns without waiting for it.
	Download(ctx context.Context) error
	CreateSession(ctx context.Context) (Session, error)
}

// ClientFactory creates a provider client.
type ClientFactory func(ctx context.Context) (Client, error)

// ClientInference implements Inference over a provider Client.
// The client is created and its model checked on Download; until that
// completes the service reports needs-download.
type ClientInference struct {
	factory     ClientFactory
	initTimeout time.Duration
	verbose     bool

	mu        sync.Mutex
	state     Availability
	preparing bool
	client    Client
	lastErr   error
	done      chan struct{}
}

// NewClientInference creates an Inference that prepares clients with factory.
// A nil factory yields a service that is always unavailable.
func NewClientInference(factory ClientFactory, initTimeout time.Duration, verbose bool) *ClientInference {
	state := AvailabilityNeedsDownload
	if factory == nil {
		state = AvailabilityUnavailable
	}
	if initTimeout <= 0 {
		initTimeout = DefaultInitTimeout
	}
	return &ClientInference{
		factory:     factory,
		initTimeout: initTimeout,
		verbose:     verbose,
		state:       state,
	}
}

// NewGeminiInference creates an Inference backed by Gemini.
// Without an API key the service is unavailable.
func NewGeminiInference(config *Config, apiKey string, verbose bool) *ClientInference {
	if config == nil {
		config = DefaultConfig()
	}
	if apiKey == "" {
		return NewClientInference(nil, config.InitTimeout, verbose)
	}
	factory := func(ctx context.Context) (Client, error) {
		return NewClient(ctx, config, apiKey)
	}
	return NewClientInference(factory, config.InitTimeout, verbose)
}

// Availability returns the current state.
func (s *ClientInference) Availability(_ context.Context) (Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, nil
}

// Err returns the error that made the service unavailable, if any.
func (s *ClientInference) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Download starts preparing the model in the background.
// Repeated calls while preparation is running are no-ops.
func (s *ClientInference) Download(ctx context.Context) error {
	s.mu.Lock()
	if s.state != AvailabilityNeedsDownload {
		s.mu.Unlock()
		if s.state == AvailabilityUnavailable {
			return ErrNotReady
		}
		return nil
	}
	if s.preparing {
		s.mu.Unlock()
		return nil
	}
	s.preparing = true
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		s.prepare(context.WithoutCancel(ctx))
	}()
	return nil
}

// Prepare prepares the model and waits for the result.
func (s *ClientInference) Prepare(ctx context.Context) error {
	if err := s.Download(ctx); err != nil {
		return s.prepareErr(err)
	}
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	state, _ := s.Availability(ctx)
	if state != AvailabilityReady {
		return s.prepareErr(ErrNotReady)
	}
	return nil
}

func (s *ClientInference) prepareErr(fallback error) error {
	if err := s.Err(); err != nil {
		return err
	}
	return fallback
}

func (s *ClientInference) prepare(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.initTimeout)
	defer cancel()

	if s.verbose {
		log.Printf("[LLM] Preparing model...")
	}

	client, err := s.factory(ctx)
	if err == nil {
		if err = client.CheckModel(ctx); err != nil {
			_ = client.Close()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.preparing = false
	if err != nil {
		s.state = AvailabilityUnavailable
		s.lastErr = fmt.Errorf("failed to prepare model: %w", err)
		if s.verbose {
			log.Printf("[LLM] Model unavailable: %v", err)
		}
		return
	}
	s.client = client
	s.state = AvailabilityReady
	if s.verbose {
		log.Printf("[LLM] Model %s ready", client.GetModel())
	}
}

// CreateSession opens a session on the prepared model.
func (s *ClientInference) CreateSession(_ context.Context) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != AvailabilityReady || s.client == nil {
		return nil, ErrNotReady
	}
	return &clientSession{client: s.client}, nil
}

// Close releases the prepared client.
func (s *ClientInference) Close() error {
	s.mu.Lock()
	client := s.client
	s.client = nil
	if s.state == AvailabilityReady {
		s.state = AvailabilityUnavailable
	}
	s.mu.Unlock()
	if client != nil {
		return client.Close()
	}
	return nil
}

type clientSession struct {
	mu     sync.Mutex
	client Client
}

func (c *clientSession) Prompt(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()
	if client == nil {
		return "", ErrSessionDestroyed
	}
	return client.GenerateContent(ctx, text)
}

func (c *clientSession) Destroy() {
	c.mu.Lock()
	c.client = nil
	c.mu.Unlock()
}
