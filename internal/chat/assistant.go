// Package chat implements the conversational assistant, centered on the
// multi-turn state machine that collects an income entry (amount,
// description, date) from free-text messages, confirms it, and commits it.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/penny-for-your-thoughts/internal/chat/dates"
	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
	"github.com/Veraticus/penny-for-your-thoughts/internal/session"
)

// Confirmation vocabularies. Matching is a case-insensitive exact test on
// the trimmed message; anything fancier belongs to the extractor, not the
// confirm handshake.
var (
	affirmatives = map[string]struct{}{
		"yes": {}, "y": {}, "confirm": {}, "ok": {}, "sure": {},
	}
	negatives = map[string]struct{}{
		"no": {}, "n": {}, "cancel": {}, "stop": {},
	}
)

// Assistant orchestrates one dialogue turn: canned-intent short circuit,
// session load, field extraction, date validation, the confirm/cancel
// handshake, and the final commit.
type Assistant struct {
	sessions  session.Store
	extractor Extractor
	incomes   IncomeCreator
	intents   *Router
	logger    *slog.Logger
	locks     *keyedMutex
}

// NewAssistant wires the assistant's collaborators together.
func NewAssistant(sessions session.Store, extractor Extractor, incomes IncomeCreator, logger *slog.Logger) *Assistant {
	return &Assistant{
		sessions:  sessions,
		extractor: extractor,
		incomes:   incomes,
		intents:   NewRouter(DefaultRules()),
		logger:    logger,
		locks:     newKeyedMutex(),
	}
}

// HandleMessage runs one turn of the income dialogue for userID. Every
// outcome the user can recover from is expressed in the TurnResult; a
// non-nil error means an internal fault (store or provider unreachable)
// and guarantees the session was not corrupted.
func (a *Assistant) HandleMessage(ctx context.Context, userID, rawMessage string) (model.TurnResult, error) {
	message := strings.TrimSpace(rawMessage)
	if message == "" {
		return model.Error("please send a message"), nil
	}

	// Canned intents bypass the state machine entirely: no session
	// mutation, no extraction call.
	if reply, ok := a.intents.Match(message); ok {
		return model.Success(reply, nil), nil
	}

	// Serialize turns per user so concurrent messages cannot produce lost
	// updates or a double commit.
	unlock := a.locks.Lock(userID)
	defer unlock()

	sess, err := a.sessions.Load(ctx, userID)
	switch {
	case errors.Is(err, common.ErrNotFound):
		sess = model.NewChatSession(userID)
	case err != nil:
		return model.TurnResult{}, fmt.Errorf("failed to load session: %w", err)
	}

	// Once the confirmation prompt is out, only the confirm/cancel
	// vocabulary moves the session; everything else is answered without
	// touching it.
	if sess.Confirmed {
		return a.handleConfirmation(ctx, sess, message)
	}

	guess, err := a.extractor.Extract(ctx, message)
	if err != nil {
		return a.handleExtractionFailure(ctx, sess, err)
	}

	// Monotonic merge: only non-nil guesses overwrite.
	if guess.Amount != nil {
		sess.Amount = guess.Amount
	}
	if guess.Description != nil {
		desc := strings.TrimSpace(*guess.Description)
		sess.Description = &desc
	}
	if guess.Date != nil {
		date := strings.TrimSpace(*guess.Date)
		sess.Date = &date
	}

	if sess.Date != nil {
		if result, done := a.checkDate(ctx, sess); done {
			return result, nil
		}
	}

	if missing := sess.MissingFields(); len(missing) > 0 {
		if err := a.sessions.Save(ctx, sess.UserID, sess); err != nil {
			return model.TurnResult{}, fmt.Errorf("failed to save session: %w", err)
		}
		return model.Pending(fmt.Sprintf("I still need a few details: %s.", strings.Join(missing, ", "))), nil
	}

	// Everything collected and valid: ask for confirmation, do not commit
	// yet.
	sess.Confirmed = true
	if err := a.sessions.Save(ctx, sess.UserID, sess); err != nil {
		return model.TurnResult{}, fmt.Errorf("failed to save session: %w", err)
	}

	return model.Pending(fmt.Sprintf(
		"Saving an income of %s for %q on %s. Confirm? (yes/no)",
		sess.Amount.String(), *sess.Description, *sess.Date,
	)), nil
}

// handleExtractionFailure maps extractor errors onto the turn contract:
// unreadable output and timeouts are recoverable and re-prompt the user;
// anything else is an internal fault.
func (a *Assistant) handleExtractionFailure(ctx context.Context, sess *model.ChatSession, err error) (model.TurnResult, error) {
	if errors.Is(err, common.ErrUnparseable) || errors.Is(err, context.DeadlineExceeded) {
		// Re-save unchanged to refresh the inactivity TTL.
		if saveErr := a.sessions.Save(ctx, sess.UserID, sess); saveErr != nil {
			a.logger.Warn("failed to refresh session after extraction failure",
				"user_id", sess.UserID, "error", saveErr)
		}
		return model.Pending("I couldn't make sense of that message, please try again."), nil
	}
	return model.TurnResult{}, fmt.Errorf("extraction failed: %w", err)
}

// checkDate validates the session's date field, ending the turn for
// partial or invalid input. It reports done=false only when the date is a
// valid full date, which it stores in canonical form.
func (a *Assistant) checkDate(ctx context.Context, sess *model.ChatSession) (model.TurnResult, bool) {
	switch dates.Classify(*sess.Date) {
	case dates.KindYearMonth:
		year, month := dates.SplitYearMonth(*sess.Date)
		if err := a.sessions.Save(ctx, sess.UserID, sess); err != nil {
			a.logger.Warn("failed to save session", "user_id", sess.UserID, "error", err)
		}
		return model.Pending(fmt.Sprintf(
			"You've entered %s/%s. Please add a specific day (e.g. 15/%s/%s).",
			month, year, month, year,
		)), true

	case dates.KindYearOnly:
		year := *sess.Date
		if err := a.sessions.Save(ctx, sess.UserID, sess); err != nil {
			a.logger.Warn("failed to save session", "user_id", sess.UserID, "error", err)
		}
		return model.Pending(fmt.Sprintf(
			"You've entered the year %s. Please add a month and day (e.g. 01/06/%s).",
			year, year,
		)), true

	case dates.KindInvalid:
		// Clear the bad value so the dialogue can make forward progress
		// even if the user repeats themselves.
		sess.Date = nil
		if err := a.sessions.Save(ctx, sess.UserID, sess); err != nil {
			a.logger.Warn("failed to save session", "user_id", sess.UserID, "error", err)
		}
		return model.Error("That date isn't valid. Please use the format yyyy-mm-dd."), true

	default:
		canonical, err := dates.Normalize(*sess.Date)
		if err != nil {
			// Classify said full, so Normalize cannot fail; guard anyway.
			sess.Date = nil
			return model.Error("That date isn't valid. Please use the format yyyy-mm-dd."), true
		}
		sess.Date = &canonical
		return model.TurnResult{}, false
	}
}

// handleConfirmation resolves the yes/no handshake for a session whose
// confirmation prompt is already out.
func (a *Assistant) handleConfirmation(ctx context.Context, sess *model.ChatSession, message string) (model.TurnResult, error) {
	word := strings.ToLower(message)

	if _, ok := affirmatives[word]; ok {
		return a.commit(ctx, sess)
	}

	if _, ok := negatives[word]; ok {
		if err := a.sessions.Delete(ctx, sess.UserID); err != nil {
			return model.TurnResult{}, fmt.Errorf("failed to delete session: %w", err)
		}
		return model.Success("Okay, I've discarded that income entry.", nil), nil
	}

	return model.Pending("Please reply yes to save this income or no to discard it."), nil
}

// commit persists the confirmed session as an income record. The session
// is deleted only after the write succeeds, so a failed commit can be
// retried with another "yes".
func (a *Assistant) commit(ctx context.Context, sess *model.ChatSession) (model.TurnResult, error) {
	date, err := time.Parse(dates.Canonical, *sess.Date)
	if err != nil {
		// A confirmed session always carries a canonical date; treat
		// anything else as corruption and start over.
		if delErr := a.sessions.Delete(ctx, sess.UserID); delErr != nil {
			a.logger.Warn("failed to delete corrupt session", "user_id", sess.UserID, "error", delErr)
		}
		return model.Error("Something went wrong with that entry, let's start over."), nil
	}

	description := strings.ReplaceAll(strings.TrimSpace(*sess.Description), `\`, "")

	income := &model.Income{
		ID:          uuid.NewString(),
		UserID:      sess.UserID,
		Amount:      *sess.Amount,
		Description: description,
		Date:        date,
	}

	created, err := a.incomes.CreateIncome(ctx, income)
	if err != nil {
		a.logger.Error("income commit failed", "user_id", sess.UserID, "error", err)
		return model.Error("Something went wrong saving your income. Reply yes to try again."), nil
	}

	if err := a.sessions.Delete(ctx, sess.UserID); err != nil {
		// The income is committed; a leftover session risks a duplicate
		// on the next "yes", so make this loud.
		a.logger.Error("failed to delete session after commit", "user_id", sess.UserID, "error", err)
	}

	return model.Success("Income saved 🎉", created), nil
}
