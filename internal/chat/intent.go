package chat

import "strings"

// Rule pairs a keyword set with a canned reply. Matching is a
// case-insensitive substring test against the lower-cased trimmed message.
type Rule struct {
	Reply    string
	Keywords []string
}

// Router short-circuits messages that need no extraction: greetings and
// FAQ-style questions get a deterministic reply without burning an LLM
// call or leaking conversational text into the extraction pipeline.
type Router struct {
	rules []Rule
}

// NewRouter creates a router over an ordered rule list; the first matching
// rule wins.
func NewRouter(rules []Rule) *Router {
	return &Router{rules: rules}
}

// DefaultRules returns the built-in canned responses.
func DefaultRules() []Rule {
	return []Rule{
		{
			Keywords: []string{"spending", "investment", "investing"},
			Reply:    "That sounds like a finance question. Tell me a bit more about your spending or investments and I can help in detail.",
		},
		{
			Keywords: []string{"hello", "hey", "greetings", "introduce yourself"},
			Reply:    "Hi! I'm your finance assistant. I can help you track spending, record income, or explain financial concepts. What do you need right now?",
		},
		{
			Keywords: []string{"concept", "definition", "explain"},
			Reply:    "Which financial concept would you like me to explain? For example saving, investing, or inflation.",
		},
	}
}

// Match tests the message against the rule list and returns the canned
// reply for the first rule whose keywords appear in the message.
func (r *Router) Match(message string) (string, bool) {
	lowered := strings.ToLower(strings.TrimSpace(message))
	for _, rule := range r.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lowered, keyword) {
				return rule.Reply, true
			}
		}
	}
	return "", false
}
