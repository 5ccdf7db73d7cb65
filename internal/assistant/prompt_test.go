package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/guregu/null/v6"

	"QuantPilot/internal/model"
)

func TestPortfolioContext(t *testing.T) {
	if got := PortfolioContext(nil); got != "The user has no holdings in their portfolio yet." {
		t.Errorf("empty context = %q", got)
	}
	got := PortfolioContext([]model.Holding{
		{Symbol: "AAPL", Quantity: 3, Price: 100},
		{Symbol: "MSFT", Quantity: 1, Price: 200},
	})
	want := "Portfolio Summary:\n" +
		"AAPL: 3 shares @ $100.00 (60.0% of portfolio)\n" +
		"MSFT: 1 shares @ $200.00 (40.0% of portfolio)\n" +
		"Total Portfolio Value: $500.00"
	if got != want {
		t.Errorf("context =\n%s\nwant\n%s", got, want)
	}
}

func TestSystemPrompt(t *testing.T) {
	req := Request{
		Message:       "Should I trim AAPL?",
		Portfolio:     []model.Holding{{Symbol: "AAPL", Quantity: 3, Price: 100}},
		SelectedStock: "AAPL",
		Latest:        &model.IndicatorPoint{Date: "2024-06-03", Price: 101, RSI: null.FloatFrom(72.5)},
	}
	got := SystemPrompt(req)
	for _, want := range []string{
		"Current Portfolio: AAPL",
		"Current Focus: AAPL",
		"Total Portfolio Value: $300.00",
		"RSI 72.50",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}

	empty := SystemPrompt(Request{Message: "hi"})
	if !strings.Contains(empty, "Current Portfolio: Empty") || !strings.Contains(empty, "No specific stock selected") {
		t.Errorf("empty prompt:\n%s", empty)
	}
}

func TestGeminiAssistant_EmptyMessage(t *testing.T) {
	a := &GeminiAssistant{}
	if _, err := a.Chat(context.Background(), Request{Message: "  "}); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("err = %v, want ErrEmptyMessage", err)
	}
}
