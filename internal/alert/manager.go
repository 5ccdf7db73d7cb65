// Package alert manages one-shot price alerts.
package alert

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"QuantPilot/internal/model"
	"QuantPilot/internal/store"
)

var (
	ErrNotFound     = errors.New("alert not found")
	ErrInvalidAlert = errors.New("invalid alert")
)

// Quoter supplies the latest price of a symbol.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (model.Quote, error)
}

// Event is published when an alert fires.
type Event struct {
	Alert model.PriceAlert `json:"alert"`
	Price float64          `json:"price"`
}

// Manager holds the alerts with concurrency safety and persists every change.
type Manager struct {
	mu     sync.Mutex
	alerts []model.PriceAlert
	store  store.Store
	now    func() time.Time

	subMu  sync.Mutex
	nextID int
	subs   map[int]chan Event
}

// NewManager creates a Manager, loading saved alerts from s.
func NewManager(s store.Store) (*Manager, error) {
	alerts, err := store.LoadAlerts(s)
	if err != nil {
		return nil, err
	}
	return &Manager{
		alerts: alerts,
		store:  s,
		now:    time.Now,
		subs:   make(map[int]chan Event),
	}, nil
}

// Add creates an untriggered alert.
func (m *Manager) Add(symbol string, target float64, cond model.AlertCondition) (model.PriceAlert, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.PriceAlert{}, fmt.Errorf("%w: symbol is required", ErrInvalidAlert)
	}
	if target <= 0 {
		return model.PriceAlert{}, fmt.Errorf("%w: target price must be positive", ErrInvalidAlert)
	}
	if cond != model.ConditionAbove && cond != model.ConditionBelow {
		return model.PriceAlert{}, fmt.Errorf("%w: condition must be above or below", ErrInvalidAlert)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	a := model.PriceAlert{
		ID:          uuid.NewString(),
		Symbol:      symbol,
		TargetPrice: target,
		Condition:   cond,
		CreatedAt:   m.now(),
	}
	m.alerts = append(m.alerts, a)
	if err := m.save(); err != nil {
		m.alerts = m.alerts[:len(m.alerts)-1]
		return model.PriceAlert{}, err
	}
	return a, nil
}

// Remove deletes the alert with id.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.alerts {
		if a.ID != id {
			continue
		}
		prev := m.alerts
		m.alerts = append(append([]model.PriceAlert{}, m.alerts[:i]...), m.alerts[i+1:]...)
		if err := m.save(); err != nil {
			m.alerts = prev
			return err
		}
		return nil
	}
	return fmt.Errorf("%s: %w", id, ErrNotFound)
}

// List returns a copy of all alerts, oldest first.
func (m *Manager) List() []model.PriceAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.PriceAlert{}, m.alerts...)
}

// Check quotes every symbol with untriggered alerts once and fires the
// alerts whose condition holds. Fired alerts are persisted, published and
// returned. A failed quote skips that symbol's alerts until the next check.
func (m *Manager) Check(ctx context.Context, q Quoter) ([]Event, error) {
	symbols := m.pendingSymbols()
	if len(symbols) == 0 {
		return nil, nil
	}

	prices := make(map[string]float64, len(symbols))
	for _, s := range symbols {
		quote, err := q.Quote(ctx, s)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[WARN] alert check: quote %s failed: %v", s, err)
			continue
		}
		prices[s] = quote.Price
	}

	m.mu.Lock()
	var fired []Event
	now := m.now()
	for i := range m.alerts {
		a := &m.alerts[i]
		price, ok := prices[a.Symbol]
		if a.Triggered || !ok || !a.Crossed(price) {
			continue
		}
		a.Triggered = true
		at := now
		a.TriggeredAt = &at
		fired = append(fired, Event{Alert: *a, Price: price})
	}
	var err error
	if len(fired) > 0 {
		err = m.save()
	}
	m.mu.Unlock()

	for _, e := range fired {
		log.Printf("[INFO] alert %s fired: %s %s %.2f at %.2f", e.Alert.ID, e.Alert.Symbol, e.Alert.Condition, e.Alert.TargetPrice, e.Price)
		m.publish(e)
	}
	return fired, err
}

func (m *Manager) pendingSymbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var symbols []string
	for _, a := range m.alerts {
		if a.Triggered || seen[a.Symbol] {
			continue
		}
		seen[a.Symbol] = true
		symbols = append(symbols, a.Symbol)
	}
	return symbols
}

// Subscribe returns a channel receiving fired alerts and a function that
// cancels the subscription. Events are dropped for subscribers whose buffer is full.
func (m *Manager) Subscribe(buf int) (<-chan Event, func()) {
	ch := make(chan Event, buf)
	m.subMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = ch
	m.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subs, id)
			m.subMu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (m *Manager) Subscribers() int {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	return len(m.subs)
}

func (m *Manager) publish(e Event) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for id, ch := range m.subs {
		select {
		case ch <- e:
		default:
			log.Printf("[WARN] alert subscriber %d is slow, dropping event", id)
		}
	}
}

// save must be called with mu held.
func (m *Manager) save() error {
	if err := store.SaveAlerts(m.store, m.alerts); err != nil {
		log.Printf("[ERROR] failed to save alerts: %v", err)
		return err
	}
	return nil
}
