package alert

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"QuantPilot/internal/model"
	"QuantPilot/internal/store"
)

type fakeQuoter struct {
	prices map[string]float64
	calls  map[string]int
}

func (f *fakeQuoter) Quote(_ context.Context, symbol string) (model.Quote, error) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[symbol]++
	p, ok := f.prices[symbol]
	if !ok {
		return model.Quote{}, errors.New("no quote")
	}
	return model.Quote{Symbol: symbol, Price: p}, nil
}

func newManager(t *testing.T) (*Manager, store.Store) {
	t.Helper()
	s, err := store.NewFileStore(filepath.Join(t.TempDir(), "alerts.json"))
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewManager(s)
	if err != nil {
		t.Fatal(err)
	}
	return m, s
}

func TestAdd_Validation(t *testing.T) {
	m, _ := newManager(t)
	tests := []struct {
		symbol string
		target float64
		cond   model.AlertCondition
	}{
		{"", 10, model.ConditionAbove},
		{"AAPL", 0, model.ConditionAbove},
		{"AAPL", -1, model.ConditionBelow},
		{"AAPL", 10, "sideways"},
	}
	for _, tt := range tests {
		if _, err := m.Add(tt.symbol, tt.target, tt.cond); !errors.Is(err, ErrInvalidAlert) {
			t.Errorf("Add(%q, %v, %q) err = %v, want ErrInvalidAlert", tt.symbol, tt.target, tt.cond, err)
		}
	}
	a, err := m.Add(" aapl ", 200, model.ConditionAbove)
	if err != nil {
		t.Fatal(err)
	}
	if a.Symbol != "AAPL" || a.ID == "" || a.Triggered {
		t.Errorf("alert = %+v", a)
	}
}

func TestCheck_FiresOnceAndPersists(t *testing.T) {
	m, s := newManager(t)
	above, _ := m.Add("AAPL", 200, model.ConditionAbove)
	below, _ := m.Add("AAPL", 150, model.ConditionBelow)
	exact, _ := m.Add("MSFT", 400, model.ConditionBelow)

	events, sub := m.Subscribe(4)
	defer sub()

	q := &fakeQuoter{prices: map[string]float64{"AAPL": 200, "MSFT": 400}}
	fired, err := m.Check(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if len(fired) != 2 {
		t.Fatalf("fired %d alerts, want 2 (>= and <= are inclusive)", len(fired))
	}
	if q.calls["AAPL"] != 1 {
		t.Errorf("AAPL quoted %d times, want once per check", q.calls["AAPL"])
	}
	ids := map[string]bool{fired[0].Alert.ID: true, fired[1].Alert.ID: true}
	if !ids[above.ID] || !ids[exact.ID] || ids[below.ID] {
		t.Errorf("wrong alerts fired: %+v", fired)
	}
	for i := 0; i < 2; i++ {
		if e := <-events; e.Alert.TriggeredAt == nil {
			t.Errorf("published event without trigger time: %+v", e)
		}
	}

	again, err := m.Check(context.Background(), q)
	if err != nil || len(again) != 0 {
		t.Errorf("second check fired %d alerts, err %v", len(again), err)
	}

	reloaded, err := NewManager(s)
	if err != nil {
		t.Fatal(err)
	}
	triggered := 0
	for _, a := range reloaded.List() {
		if a.Triggered {
			triggered++
		}
	}
	if triggered != 2 || len(reloaded.List()) != 3 {
		t.Errorf("reloaded %d alerts with %d triggered, want 3 and 2", len(reloaded.List()), triggered)
	}
}

func TestCheck_QuoteFailureSkipsSymbol(t *testing.T) {
	m, _ := newManager(t)
	m.Add("GONE", 1, model.ConditionAbove)
	fired, err := m.Check(context.Background(), &fakeQuoter{})
	if err != nil || len(fired) != 0 {
		t.Errorf("fired = %v, err = %v", fired, err)
	}
}

func TestRemove(t *testing.T) {
	m, _ := newManager(t)
	a, _ := m.Add("AAPL", 100, model.ConditionBelow)
	if err := m.Remove("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := m.Remove(a.ID); err != nil {
		t.Fatal(err)
	}
	if len(m.List()) != 0 {
		t.Errorf("alerts left: %v", m.List())
	}
}

func TestSubscribe_Cancel(t *testing.T) {
	m, _ := newManager(t)
	ch, cancel := m.Subscribe(1)
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after cancel")
	}
}
