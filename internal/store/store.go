// Package store persists small JSON documents (the portfolio and the price
// alerts) under string keys.
package store

import (
	"encoding/json"
	"fmt"

	"QuantPilot/internal/model"
)

// Keys of the persisted documents.
const (
	PortfolioKey = "quantpilot-portfolio"
	AlertsKey    = "quantpilot-alerts"
)

// Store is a key-value store of raw JSON documents.
type Store interface {
	// Get returns the value under key; ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Open returns the backend named "sqlite" (at sqlitePath) or "file" (at filePath).
func Open(backend, filePath, sqlitePath string) (Store, error) {
	switch backend {
	case "sqlite":
		return NewSQLiteStore(sqlitePath)
	case "file":
		return NewFileStore(filePath)
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}

func getJSON(s Store, key string, v any) (bool, error) {
	data, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func setJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(key, data)
}

// LoadPortfolio returns the saved portfolio, or an empty one.
func LoadPortfolio(s Store) (model.Portfolio, error) {
	var p model.Portfolio
	if _, err := getJSON(s, PortfolioKey, &p); err != nil {
		return model.Portfolio{}, err
	}
	if p.Holdings == nil {
		p.Holdings = []model.Holding{}
	}
	return p, nil
}

func SavePortfolio(s Store, p model.Portfolio) error {
	return setJSON(s, PortfolioKey, p)
}

// LoadAlerts returns the saved alerts, or none.
func LoadAlerts(s Store) ([]model.PriceAlert, error) {
	var alerts []model.PriceAlert
	if _, err := getJSON(s, AlertsKey, &alerts); err != nil {
		return nil, err
	}
	if alerts == nil {
		alerts = []model.PriceAlert{}
	}
	return alerts, nil
}

func SaveAlerts(s Store, alerts []model.PriceAlert) error {
	return setJSON(s, AlertsKey, alerts)
}
