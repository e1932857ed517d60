package llm

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
)

// stubClient returns canned responses in order, then repeats the last one.
type stubClient struct {
	err       error
	responses []string
	calls     int
}

func (c *stubClient) Generate(_ context.Context, _ string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	idx := c.calls - 1
	if idx >= len(c.responses) {
		idx = len(c.responses) - 1
	}
	return c.responses[idx], nil
}

func testExtractor(client Client) *Extractor {
	return NewExtractor(client, Config{
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		RateLimit:  1000,
	}, slog.Default())
}

func TestExtractor_Extract(t *testing.T) {
	client := &stubClient{responses: []string{
		"```json\n{\"amount\": 50000, \"description\": \"coffee\", \"date\": \"2024-05-15\"}\n```",
	}}
	e := testExtractor(client)
	defer e.Close()

	guess, err := e.Extract(context.Background(), "i got 50000 for coffee on may 15 2024")
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if guess.Amount == nil || guess.Amount.IntPart() != 50000 {
		t.Errorf("amount = %v, want 50000", guess.Amount)
	}
	if guess.Description == nil || *guess.Description != "coffee" {
		t.Errorf("description = %v, want coffee", guess.Description)
	}
	if guess.Date == nil || *guess.Date != "2024-05-15" {
		t.Errorf("date = %v, want 2024-05-15", guess.Date)
	}
}

func TestExtractor_ExtractUnparseable(t *testing.T) {
	client := &stubClient{responses: []string{"I'm sorry, I don't understand."}}
	e := testExtractor(client)
	defer e.Close()

	_, err := e.Extract(context.Background(), "gibberish")
	if !errors.Is(err, common.ErrUnparseable) {
		t.Fatalf("Extract() error = %v, want ErrUnparseable", err)
	}
	if client.calls != 1 {
		t.Errorf("parse failures must not trigger provider retries, got %d calls", client.calls)
	}
}

func TestExtractor_ExtractRetriesTransportErrors(t *testing.T) {
	client := &stubClient{err: errors.New("connection reset")}
	e := testExtractor(client)
	defer e.Close()

	_, err := e.Extract(context.Background(), "anything")
	if err == nil {
		t.Fatal("Extract() expected error for failing transport")
	}
	if client.calls != 2 {
		t.Errorf("expected 2 attempts, got %d", client.calls)
	}
}

func TestFieldGuess_Empty(t *testing.T) {
	if !(FieldGuess{}).Empty() {
		t.Error("zero FieldGuess should be empty")
	}
	desc := "x"
	if (FieldGuess{Description: &desc}).Empty() {
		t.Error("FieldGuess with description should not be empty")
	}
}
