package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
)

var fenceRe = regexp.MustCompile("(?i)```(?:json)?")

// cleanResponse strips markdown code fences from raw model output and
// isolates the outermost JSON object. Models frequently wrap JSON in
// fences or surround it with prose; everything outside the braces is
// discarded.
func cleanResponse(raw string) string {
	s := fenceRe.ReplaceAllString(raw, "")
	s = strings.TrimSpace(s)

	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first != -1 && last > first {
		s = s[first : last+1]
	}

	return s
}

// decodeGuess decodes cleaned model output into a FieldGuess with strict
// presence checks: a field that is absent, null, or of the wrong type is
// treated as absent, never coerced. Anything that is not a JSON object at
// all yields common.ErrUnparseable.
func decodeGuess(cleaned string) (FieldGuess, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return FieldGuess{}, fmt.Errorf("%w: %v", common.ErrUnparseable, err)
	}

	var guess FieldGuess

	if msg, ok := raw["amount"]; ok && len(msg) > 0 && msg[0] != '"' {
		// decimal tolerates quoted numbers; presence checks here are
		// strict, so a string-typed amount stays absent.
		var amount decimal.Decimal
		if err := json.Unmarshal(msg, &amount); err == nil && amount.IsPositive() {
			guess.Amount = &amount
		}
	}

	if msg, ok := raw["description"]; ok {
		var desc string
		if err := json.Unmarshal(msg, &desc); err == nil {
			desc = strings.TrimSpace(desc)
			if desc != "" {
				guess.Description = &desc
			}
		}
	}

	if msg, ok := raw["date"]; ok {
		var date string
		if err := json.Unmarshal(msg, &date); err == nil {
			date = strings.TrimSpace(date)
			if date != "" {
				guess.Date = &date
			}
		}
	}

	return guess, nil
}
