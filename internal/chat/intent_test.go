package chat

import (
	"strings"
	"testing"
)

func TestRouter_Match(t *testing.T) {
	router := NewRouter(DefaultRules())

	tests := []struct {
		name      string
		message   string
		wantMatch bool
		wantSub   string
	}{
		{name: "greeting", message: "Hello!", wantMatch: true, wantSub: "finance assistant"},
		{name: "greeting mixed case", message: "  HELLO there  ", wantMatch: true, wantSub: "finance assistant"},
		{name: "finance question", message: "how should I think about investing?", wantMatch: true, wantSub: "finance question"},
		{name: "definition request", message: "give me the definition of inflation", wantMatch: true, wantSub: "concept"},
		{name: "income text no match", message: "i earned 50000 from freelance work", wantMatch: false},
		{name: "empty no match", message: "", wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, ok := router.Match(tt.message)
			if ok != tt.wantMatch {
				t.Fatalf("Match(%q) = %v, want %v", tt.message, ok, tt.wantMatch)
			}
			if ok && !strings.Contains(reply, tt.wantSub) {
				t.Errorf("reply %q missing %q", reply, tt.wantSub)
			}
		})
	}
}

func TestRouter_FirstRuleWins(t *testing.T) {
	router := NewRouter([]Rule{
		{Keywords: []string{"money"}, Reply: "first"},
		{Keywords: []string{"money", "cash"}, Reply: "second"},
	})

	reply, ok := router.Match("money money money")
	if !ok || reply != "first" {
		t.Errorf("Match = %q, %v; want first rule to win", reply, ok)
	}
}

func TestRouter_NoRules(t *testing.T) {
	router := NewRouter(nil)
	if _, ok := router.Match("hello"); ok {
		t.Error("router with no rules must never match")
	}
}
