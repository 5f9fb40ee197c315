// Package guard decides whether a push to a git remote is allowed.
//
// The decision is a pure function of the remote URL and a list of blocked
// patterns: if the URL contains any pattern the push is blocked, otherwise it
// is allowed. The remote name only appears in the explanation.
package guard

import (
	"fmt"
	"strings"
)

// Decision is the outcome of evaluating a push.
type Decision int

const (
	// Allowed lets the push proceed.
	Allowed Decision = iota
	// Blocked aborts the push.
	Blocked
)

// String returns the string representation of a Decision.
func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allow"
	case Blocked:
		return "block"
	default:
		return "unknown"
	}
}

// Request is one push to evaluate.
type Request struct {
	RemoteName string
	RemoteURL  string
}

// Result is the outcome of evaluating a Request.
type Result struct {
	Decision   Decision
	Reason     string // empty unless Blocked
	Pattern    string // matched pattern as configured, empty unless Blocked
	RemoteName string
	RemoteURL  string
}

// IsBlocked is a convenience accessor.
func (r Result) IsBlocked() bool { return r.Decision == Blocked }

// Guard holds a compiled pattern list. The zero value and a nil *Guard allow
// everything.
type Guard struct {
	patterns []Pattern
}

// New compiles patterns into a Guard. Blank entries are ignored and the
// configured order is kept.
func New(patterns []string) *Guard {
	g := &Guard{patterns: make([]Pattern, 0, len(patterns))}
	for _, raw := range patterns {
		if p, ok := CompilePattern(raw); ok {
			g.patterns = append(g.patterns, p)
		}
	}
	return g
}

// Patterns returns the compiled patterns in configured order.
func (g *Guard) Patterns() []Pattern {
	if g == nil || len(g.patterns) == 0 {
		return nil
	}
	result := make([]Pattern, len(g.patterns))
	copy(result, g.patterns)
	return result
}

// Evaluate returns Blocked for the first pattern contained in the request's
// remote URL, as written or normalized, and Allowed when none is.
func (g *Guard) Evaluate(req Request) Result {
	result := Result{
		Decision:   Allowed,
		RemoteName: req.RemoteName,
		RemoteURL:  req.RemoteURL,
	}
	if g == nil {
		return result
	}

	rawURL, normalized := strings.TrimSpace(req.RemoteURL), NormalizeRemoteURL(req.RemoteURL)
	for _, p := range g.patterns {
		if p.matches(rawURL, normalized) {
			result.Decision = Blocked
			result.Pattern = p.String()
			result.Reason = fmt.Sprintf("remote %q points at blocked location %q", req.RemoteName, p.String())
			return result
		}
	}
	return result
}

// Match records whether a single pattern matched a remote URL.
type Match struct {
	Pattern Pattern
	Matched bool
}

// Explain reports every pattern's verdict for req, in configured order.
func (g *Guard) Explain(req Request) []Match {
	if g == nil {
		return nil
	}
	rawURL, normalized := strings.TrimSpace(req.RemoteURL), NormalizeRemoteURL(req.RemoteURL)
	matches := make([]Match, 0, len(g.patterns))
	for _, p := range g.patterns {
		matches = append(matches, Match{Pattern: p, Matched: p.matches(rawURL, normalized)})
	}
	return matches
}

// Evaluate is the one-shot form of New(patterns).Evaluate.
func Evaluate(remoteName, remoteURL string, patterns []string) Result {
	return New(patterns).Evaluate(Request{RemoteName: remoteName, RemoteURL: remoteURL})
}
