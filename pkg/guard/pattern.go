package guard

import (
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/pattern"
)

// Pattern is a compiled, read-only matcher for one blocked remote location.
//
// The configured text may be a plain "host/path" fragment or a shell glob
// ("github.com/acme/*-internal"). It matches a remote URL when it is found in
// the URL as written, or when its normalized form is found in the normalized
// URL, so "git@host:org/repo" and "https://host/org/repo" are equivalent and
// fragments such as "git@github.com" or "github.com:22" still match literally.
type Pattern struct {
	raw        string
	normalized string
	rawExpr    *regexp.Regexp
	normExpr   *regexp.Regexp
}

// CompilePattern builds a Pattern. Blank input yields ok == false. A glob
// that cannot be compiled falls back to matching its text literally.
func CompilePattern(raw string) (p Pattern, ok bool) {
	raw = strings.TrimSpace(raw)
	normalized := NormalizeRemoteURL(raw)
	if raw == "" || normalized == "" {
		return Pattern{}, false
	}

	return Pattern{
		raw:        raw,
		normalized: normalized,
		rawExpr:    compileGlob(raw),
		normExpr:   compileGlob(normalized),
	}, true
}

func compileGlob(glob string) *regexp.Regexp {
	expr, err := pattern.Regexp(glob, 0)
	if err != nil {
		expr = regexp.QuoteMeta(glob)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		re = regexp.MustCompile(regexp.QuoteMeta(glob))
	}
	return re
}

// String returns the pattern as it was configured.
func (p Pattern) String() string {
	return p.raw
}

// Normalized returns the "host/path" form of the pattern.
func (p Pattern) Normalized() string {
	return p.normalized
}

// Matches reports whether the remote URL contains the pattern, either as
// written or after both are normalized. Matching is case-sensitive.
func (p Pattern) Matches(rawURL string) bool {
	return p.matches(strings.TrimSpace(rawURL), NormalizeRemoteURL(rawURL))
}

func (p Pattern) matches(rawURL, normalizedURL string) bool {
	if p.rawExpr == nil || p.normExpr == nil {
		return false
	}
	return p.rawExpr.MatchString(rawURL) || p.normExpr.MatchString(normalizedURL)
}
