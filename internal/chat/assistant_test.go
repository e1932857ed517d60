package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
	"github.com/Veraticus/penny-for-your-thoughts/internal/llm"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
	"github.com/Veraticus/penny-for-your-thoughts/internal/session"
)

// mockExtractor maps messages to scripted guesses.
type mockExtractor struct {
	guesses map[string]llm.FieldGuess
	err     error
	calls   int
}

func (m *mockExtractor) Extract(_ context.Context, message string) (llm.FieldGuess, error) {
	m.calls++
	if m.err != nil {
		return llm.FieldGuess{}, m.err
	}
	return m.guesses[message], nil
}

// mockIncomeRepo records created incomes and can be programmed to fail.
type mockIncomeRepo struct {
	err     error
	created []*model.Income
}

func (m *mockIncomeRepo) CreateIncome(_ context.Context, income *model.Income) (*model.Income, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, income)
	return income, nil
}

func amountPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func strPtr(s string) *string { return &s }

func newTestAssistant(extractor Extractor, repo IncomeCreator) (*Assistant, *session.MemoryStore) {
	store := session.NewMemoryStore(0)
	return NewAssistant(store, extractor, repo, slog.Default()), store
}

func TestHandleMessage_FullEntryThenConfirm(t *testing.T) {
	ctx := context.Background()
	extractor := &mockExtractor{guesses: map[string]llm.FieldGuess{
		"got 50000 for coffee on 2024-05-15": {
			Amount:      amountPtr(50000),
			Description: strPtr("coffee"),
			Date:        strPtr("2024-05-15"),
		},
	}}
	repo := &mockIncomeRepo{}
	a, store := newTestAssistant(extractor, repo)

	// Turn 1: everything arrives at once, so the assistant asks for
	// confirmation but must not commit.
	result, err := a.HandleMessage(ctx, "u1", "got 50000 for coffee on 2024-05-15")
	if err != nil {
		t.Fatalf("turn 1 failed: %v", err)
	}
	if result.Status != model.StatusPending {
		t.Fatalf("turn 1 status = %s, want pending", result.Status)
	}
	for _, fragment := range []string{"50000", "coffee", "2024-05-15"} {
		if !strings.Contains(result.Message, fragment) {
			t.Errorf("confirmation prompt missing %q: %s", fragment, result.Message)
		}
	}
	if len(repo.created) != 0 {
		t.Fatal("income committed before confirmation")
	}

	sess, err := store.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("session missing after confirmation prompt: %v", err)
	}
	if !sess.Confirmed {
		t.Error("session not marked confirmed")
	}

	// Turn 2: affirmative commits exactly the collected values and
	// destroys the session.
	result, err = a.HandleMessage(ctx, "u1", "yes")
	if err != nil {
		t.Fatalf("turn 2 failed: %v", err)
	}
	if result.Status != model.StatusSuccess {
		t.Fatalf("turn 2 status = %s, want success", result.Status)
	}
	if len(repo.created) != 1 {
		t.Fatalf("created %d incomes, want 1", len(repo.created))
	}
	income := repo.created[0]
	if !income.Amount.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("amount = %v, want 50000", income.Amount)
	}
	if income.Description != "coffee" {
		t.Errorf("description = %q, want coffee", income.Description)
	}
	if income.Date.Format("2006-01-02") != "2024-05-15" {
		t.Errorf("date = %v, want 2024-05-15", income.Date)
	}
	if income.UserID != "u1" {
		t.Errorf("userId = %q, want u1", income.UserID)
	}

	if _, err := store.Load(ctx, "u1"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("session still present after commit: %v", err)
	}
}

func TestHandleMessage_ConfirmThenCancel(t *testing.T) {
	ctx := context.Background()
	extractor := &mockExtractor{guesses: map[string]llm.FieldGuess{
		"m": {Amount: amountPtr(100), Description: strPtr("gift"), Date: strPtr("2024-01-02")},
	}}
	repo := &mockIncomeRepo{}
	a, store := newTestAssistant(extractor, repo)

	if _, err := a.HandleMessage(ctx, "u1", "m"); err != nil {
		t.Fatalf("setup turn failed: %v", err)
	}

	result, err := a.HandleMessage(ctx, "u1", "no")
	if err != nil {
		t.Fatalf("cancel turn failed: %v", err)
	}
	if result.Status != model.StatusSuccess {
		t.Errorf("cancel status = %s, want success", result.Status)
	}
	if len(repo.created) != 0 {
		t.Error("cancellation must not create an income")
	}
	if _, err := store.Load(ctx, "u1"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("session still present after cancel: %v", err)
	}
}

func TestHandleMessage_ConfirmedIgnoresOtherInput(t *testing.T) {
	ctx := context.Background()
	extractor := &mockExtractor{guesses: map[string]llm.FieldGuess{
		"m": {Amount: amountPtr(100), Description: strPtr("gift"), Date: strPtr("2024-01-02")},
	}}
	repo := &mockIncomeRepo{}
	a, store := newTestAssistant(extractor, repo)

	if _, err := a.HandleMessage(ctx, "u1", "m"); err != nil {
		t.Fatalf("setup turn failed: %v", err)
	}
	callsAfterSetup := extractor.calls

	result, err := a.HandleMessage(ctx, "u1", "maybe later??")
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if result.Status != model.StatusPending {
		t.Errorf("status = %s, want pending", result.Status)
	}
	if extractor.calls != callsAfterSetup {
		t.Error("confirmed session must not trigger extraction")
	}

	sess, err := store.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("session lost: %v", err)
	}
	if !sess.Confirmed || sess.Amount == nil {
		t.Error("session mutated by non-vocabulary input")
	}
}

func TestHandleMessage_PartialDates(t *testing.T) {
	tests := []struct {
		name       string
		date       string
		wantStatus model.TurnStatus
		wantSub    string
	}{
		{name: "year and month", date: "2024-05", wantStatus: model.StatusPending, wantSub: "05/2024"},
		{name: "year only", date: "2024", wantStatus: model.StatusPending, wantSub: "2024"},
		{name: "invalid day", date: "2024-05-40", wantStatus: model.StatusError, wantSub: "yyyy-mm-dd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			extractor := &mockExtractor{guesses: map[string]llm.FieldGuess{
				"m": {Amount: amountPtr(100), Description: strPtr("gift"), Date: strPtr(tt.date)},
			}}
			repo := &mockIncomeRepo{}
			a, store := newTestAssistant(extractor, repo)

			result, err := a.HandleMessage(ctx, "u1", "m")
			if err != nil {
				t.Fatalf("turn failed: %v", err)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", result.Status, tt.wantStatus)
			}
			if !strings.Contains(result.Message, tt.wantSub) {
				t.Errorf("message %q missing %q", result.Message, tt.wantSub)
			}

			sess, err := store.Load(ctx, "u1")
			if err != nil {
				t.Fatalf("session not persisted: %v", err)
			}
			if sess.Confirmed {
				t.Error("session must not reach confirmation on a partial or invalid date")
			}
			if tt.wantStatus == model.StatusError && sess.Date != nil {
				t.Error("invalid date must be cleared from the session")
			}
			if tt.wantStatus == model.StatusPending && (sess.Date == nil || *sess.Date != tt.date) {
				t.Errorf("partial date not retained: %v", sess.Date)
			}
		})
	}
}

func TestHandleMessage_MonotonicAccumulation(t *testing.T) {
	ctx := context.Background()
	extractor := &mockExtractor{guesses: map[string]llm.FieldGuess{
		"amount":  {Amount: amountPtr(750)},
		"desc":    {Description: strPtr("freelance work")},
		"nothing": {},
		"date":    {Date: strPtr("2024-03-10")},
	}}
	repo := &mockIncomeRepo{}
	a, store := newTestAssistant(extractor, repo)

	result, err := a.HandleMessage(ctx, "u1", "amount")
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if result.Status != model.StatusPending || !strings.Contains(result.Message, "description") || !strings.Contains(result.Message, "date") {
		t.Errorf("expected missing description and date, got: %s", result.Message)
	}

	if _, err = a.HandleMessage(ctx, "u1", "desc"); err != nil {
		t.Fatalf("turn failed: %v", err)
	}

	// A turn that extracts nothing must not erase what came before.
	result, err = a.HandleMessage(ctx, "u1", "nothing")
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if !strings.Contains(result.Message, "date") || strings.Contains(result.Message, "amount") {
		t.Errorf("expected only date missing, got: %s", result.Message)
	}

	sess, err := store.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("session lost: %v", err)
	}
	if sess.Amount == nil || !sess.Amount.Equal(decimal.NewFromInt(750)) {
		t.Error("amount reverted across turns")
	}
	if sess.Description == nil || *sess.Description != "freelance work" {
		t.Error("description reverted across turns")
	}

	result, err = a.HandleMessage(ctx, "u1", "date")
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if result.Status != model.StatusPending || !strings.Contains(result.Message, "Confirm?") {
		t.Errorf("expected confirmation prompt, got: %s", result.Message)
	}
}

func TestHandleMessage_ExtractionFailureIsPending(t *testing.T) {
	ctx := context.Background()
	extractor := &mockExtractor{err: fmt.Errorf("bad output: %w", common.ErrUnparseable)}
	repo := &mockIncomeRepo{}
	a, _ := newTestAssistant(extractor, repo)

	result, err := a.HandleMessage(ctx, "u1", "?????")
	if err != nil {
		t.Fatalf("extraction failure must not be an internal error: %v", err)
	}
	if result.Status != model.StatusPending {
		t.Errorf("status = %s, want pending", result.Status)
	}
}

func TestHandleMessage_ExtractionTimeoutIsPending(t *testing.T) {
	ctx := context.Background()
	extractor := &mockExtractor{err: fmt.Errorf("llm call: %w", context.DeadlineExceeded)}
	a, _ := newTestAssistant(extractor, &mockIncomeRepo{})

	result, err := a.HandleMessage(ctx, "u1", "anything")
	if err != nil {
		t.Fatalf("timeout must follow the retry path: %v", err)
	}
	if result.Status != model.StatusPending {
		t.Errorf("status = %s, want pending", result.Status)
	}
}

func TestHandleMessage_ProviderOutageIsInternalError(t *testing.T) {
	ctx := context.Background()
	extractor := &mockExtractor{err: errors.New("connection refused")}
	a, _ := newTestAssistant(extractor, &mockIncomeRepo{})

	if _, err := a.HandleMessage(ctx, "u1", "anything"); err == nil {
		t.Fatal("provider outage should surface as an internal error")
	}
}

func TestHandleMessage_CannedIntentShortCircuits(t *testing.T) {
	ctx := context.Background()
	extractor := &mockExtractor{}
	a, store := newTestAssistant(extractor, &mockIncomeRepo{})

	result, err := a.HandleMessage(ctx, "u1", "Hello there!")
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if result.Status != model.StatusSuccess {
		t.Errorf("status = %s, want success", result.Status)
	}
	if extractor.calls != 0 {
		t.Error("canned intent must not call the extractor")
	}
	if _, err := store.Load(ctx, "u1"); !errors.Is(err, common.ErrNotFound) {
		t.Error("canned intent must not create a session")
	}
}

func TestHandleMessage_StrayYesStartsFresh(t *testing.T) {
	// A "yes" with no prior session is just another message for a brand
	// new empty session; it walks the missing-fields path.
	ctx := context.Background()
	extractor := &mockExtractor{}
	a, _ := newTestAssistant(extractor, &mockIncomeRepo{})

	result, err := a.HandleMessage(ctx, "u1", "yes")
	if err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if result.Status != model.StatusPending {
		t.Errorf("status = %s, want pending", result.Status)
	}
	for _, field := range []string{"amount", "description", "date"} {
		if !strings.Contains(result.Message, field) {
			t.Errorf("missing-fields prompt lacks %q: %s", field, result.Message)
		}
	}
}

func TestHandleMessage_CommitFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	extractor := &mockExtractor{guesses: map[string]llm.FieldGuess{
		"m": {Amount: amountPtr(100), Description: strPtr("gift"), Date: strPtr("2024-01-02")},
	}}
	repo := &mockIncomeRepo{err: errors.New("disk full")}
	a, store := newTestAssistant(extractor, repo)

	if _, err := a.HandleMessage(ctx, "u1", "m"); err != nil {
		t.Fatalf("setup turn failed: %v", err)
	}

	result, err := a.HandleMessage(ctx, "u1", "yes")
	if err != nil {
		t.Fatalf("commit failure must be reported in the result: %v", err)
	}
	if result.Status != model.StatusError {
		t.Errorf("status = %s, want error", result.Status)
	}
	if _, err := store.Load(ctx, "u1"); err != nil {
		t.Fatal("session must survive a failed commit")
	}

	// Repository recovers; the retry commits.
	repo.err = nil
	result, err = a.HandleMessage(ctx, "u1", "yes")
	if err != nil {
		t.Fatalf("retry turn failed: %v", err)
	}
	if result.Status != model.StatusSuccess {
		t.Errorf("retry status = %s, want success", result.Status)
	}
	if len(repo.created) != 1 {
		t.Errorf("created %d incomes, want 1", len(repo.created))
	}
}

func TestHandleMessage_BackslashesStrippedFromDescription(t *testing.T) {
	ctx := context.Background()
	extractor := &mockExtractor{guesses: map[string]llm.FieldGuess{
		"m": {Amount: amountPtr(100), Description: strPtr(`weird\descr\iption`), Date: strPtr("2024-01-02")},
	}}
	repo := &mockIncomeRepo{}
	a, _ := newTestAssistant(extractor, repo)

	if _, err := a.HandleMessage(ctx, "u1", "m"); err != nil {
		t.Fatalf("setup turn failed: %v", err)
	}
	if _, err := a.HandleMessage(ctx, "u1", "yes"); err != nil {
		t.Fatalf("confirm turn failed: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatal("income not committed")
	}
	if repo.created[0].Description != "weirddescription" {
		t.Errorf("description = %q, want backslashes stripped", repo.created[0].Description)
	}
}
