// Package terminal runs commands against one engine and takes care of what
// happens around them: the state is saved after every command that changed
// it, and the queued events are published to the output destination. A
// command whose state cannot be saved is rolled back.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/chrisdamba/tablepos/internal/documents"
	"github.com/chrisdamba/tablepos/internal/engine"
	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/chrisdamba/tablepos/internal/output"
	"github.com/chrisdamba/tablepos/internal/repositories"
)

type Session struct {
	mu     sync.Mutex
	repo   repositories.StateRepository
	out    output.Destination
	engine *engine.Engine
	saved  *models.State

	publishSnapshots     bool
	defaultOrderType     string
	defaultPaymentMethod string
	now                  func() time.Time
}

type Option func(*Session)

// WithSnapshots publishes the full state on snapshot_events after every
// saved command.
func WithSnapshots(enabled bool) Option {
	return func(s *Session) { s.publishSnapshots = enabled }
}

// WithSaleDefaults sets the order type and payment method used when a sale
// request leaves them empty.
func WithSaleDefaults(orderType, paymentMethod string) Option {
	return func(s *Session) {
		s.defaultOrderType = orderType
		s.defaultPaymentMethod = paymentMethod
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New wraps an engine that was built from the state repo holds.
func New(repo repositories.StateRepository, out output.Destination, eng *engine.Engine, opts ...Option) *Session {
	s := &Session{
		repo:   repo,
		out:    out,
		engine: eng,
		saved:  eng.Snapshot(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the configured store (creating a fresh terminal when nothing
// was saved yet) and opens the configured output destination.
func Open(ctx context.Context, cfg *models.Config, engineOpts ...engine.Option) (*Session, error) {
	repo, err := repositories.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	state, err := repositories.LoadOrInit(ctx, repo, cfg)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	out, err := output.New(cfg)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to open output: %w", err)
	}

	return New(repo, out, engine.New(state, engineOpts...),
		WithSnapshots(cfg.PublishSnapshots),
		WithSaleDefaults(cfg.DefaultOrderType, cfg.DefaultPaymentMethod),
	), nil
}

// Engine gives read access to the engine. Mutations must go through Do so
// they are persisted and published.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// SaleDefaults fills the empty order type and payment method of req with
// the configured defaults.
func (s *Session) SaleDefaults(req engine.SaleRequest) engine.SaleRequest {
	if req.OrderType == "" {
		req.OrderType = s.defaultOrderType
	}
	if req.Payment.Method == "" {
		req.Payment.Method = s.defaultPaymentMethod
	}
	return req
}

// Do runs fn against the engine, then saves and publishes whatever it
// produced. Commands run one at a time so the events flushed after fn are
// the ones fn queued.
//
// A command that fails changes nothing and queues nothing. A command that
// succeeds but cannot be saved returns the save error, and the engine is put
// back to the last saved state.
func (s *Session) Do(ctx context.Context, fn func(*engine.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.engine); err != nil {
		// nothing should be queued, but never let it leak into the next command
		s.flush(ctx)
		return err
	}
	return s.flush(ctx)
}

func (s *Session) flush(ctx context.Context) error {
	events := s.engine.DrainEvents()
	if len(events) == 0 {
		return nil
	}

	var messages []models.EventMessage
	changed := false
	for _, ev := range events {
		if ev.Type == models.EventStateChanged {
			changed = true
			continue
		}
		msgs, err := output.Messages(ev)
		if err != nil {
			log.Printf("Error serializing %s event: %v", ev.Type, err)
			continue
		}
		messages = append(messages, msgs...)
	}

	if changed {
		snapshot := s.engine.Snapshot()
		if err := s.repo.Save(ctx, snapshot); err != nil {
			s.engine.Restore(s.saved)
			return fmt.Errorf("failed to save state: %w", err)
		}
		s.saved = snapshot
		if s.publishSnapshots {
			msg, err := output.SnapshotMessage(snapshot, s.now())
			if err != nil {
				log.Printf("Error serializing snapshot: %v", err)
			} else {
				messages = append(messages, msg)
			}
		}
	}

	for _, msg := range messages {
		if err := s.out.WriteMessage(msg.Topic, msg.Message); err != nil {
			log.Printf("Failed to write message to %s: %v", msg.Topic, err)
		}
	}
	return nil
}

// SendToKitchen writes the unsent part of a table's order to
// kitchen_ticket_events, one message per station. The units count as sent
// only when every message was written.
func (s *Session) SendToKitchen(ctx context.Context, tableID string) (documents.Document, error) {
	var doc documents.Document
	err := s.Do(ctx, func(e *engine.Engine) (err error) {
		doc, err = e.SendToKitchen(tableID, s.deliverTicket)
		return err
	})
	if err != nil {
		return documents.Document{}, err
	}
	return doc, nil
}

func (s *Session) deliverTicket(doc documents.Document) error {
	msgs, err := output.KitchenTicketMessages(doc)
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		if err := s.out.WriteMessage(msg.Topic, msg.Message); err != nil {
			return fmt.Errorf("failed to write message to %s: %w", msg.Topic, err)
		}
	}
	return nil
}

// Close closes the output destination and the store.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Join(s.out.Close(), s.repo.Close())
}
