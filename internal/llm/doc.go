// Package llm provides the boundary to external large-language-model
// providers and the adapters that turn their untrusted free-text output
// into structured finance data.
package llm
