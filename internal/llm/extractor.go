package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
)

// FieldGuess is the model's best-effort structured reading of one chat
// message. Nil fields mean the message carried no usable value; they must
// never clobber fields already collected in the session.
type FieldGuess struct {
	Amount      *decimal.Decimal
	Description *string
	Date        *string
}

// Empty reports whether the guess carries no fields at all.
func (g FieldGuess) Empty() bool {
	return g.Amount == nil && g.Description == nil && g.Date == nil
}

const extractionPrompt = `You are a financial assistant. Analyze the message and return JSON with the structure: {"amount": <amount as a number>, "description": "<description>", "date": "<yyyy-mm-dd or yyyy-mm or yyyy>"}. If a value is missing from the message, set it to null. Respond with JSON only. Message: %q`

// Extractor turns raw chat messages into FieldGuess values via the LLM,
// containing the provider's unreliability at this boundary: malformed or
// non-JSON output surfaces as common.ErrUnparseable and never as a crash.
type Extractor struct {
	client    Client
	limiter   *rateLimiter
	logger    *slog.Logger
	retryOpts common.RetryOptions
}

// NewExtractor creates an extractor around the given client.
func NewExtractor(client Client, cfg Config, logger *slog.Logger) *Extractor {
	retryOpts := common.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}

	return &Extractor{
		client:    client,
		limiter:   newRateLimiter(cfg.RateLimit),
		logger:    logger,
		retryOpts: retryOpts,
	}
}

// Extract sends the message through the extraction prompt and decodes the
// reply. Transport failures are retried; parse failures are not, since the
// caller re-prompts the user instead.
func (e *Extractor) Extract(ctx context.Context, message string) (FieldGuess, error) {
	if err := e.limiter.wait(ctx); err != nil {
		return FieldGuess{}, err
	}

	prompt := fmt.Sprintf(extractionPrompt, message)

	var raw string
	err := common.WithRetry(ctx, func() error {
		var genErr error
		raw, genErr = e.client.Generate(ctx, prompt)
		return genErr
	}, e.retryOpts)
	if err != nil {
		return FieldGuess{}, fmt.Errorf("extraction request failed: %w", err)
	}

	guess, err := decodeGuess(cleanResponse(raw))
	if err != nil {
		e.logger.Debug("unparseable extraction output",
			"raw_length", len(raw))
		return FieldGuess{}, err
	}

	return guess, nil
}

// Close releases the extractor's rate limiter.
func (e *Extractor) Close() {
	e.limiter.close()
}
