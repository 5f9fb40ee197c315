package guard

import "strings"

// NormalizeRemoteURL reduces a git remote URL to its bare "host/path" form so
// that a single containment check covers every spelling git accepts:
//
//   - "https://github.com/org/repo.git"       -> "github.com/org/repo.git"
//   - "ssh://git@github.com:22/org/repo.git"  -> "github.com/org/repo.git"
//   - "git@github.com:org/repo.git"           -> "github.com/org/repo.git"
//   - "/srv/git/repo.git"                     -> "/srv/git/repo.git"
//
// Anything it does not recognize is returned trimmed but otherwise unchanged.
func NormalizeRemoteURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if _, rest, ok := strings.Cut(s, "://"); ok {
		host, path, hasPath := strings.Cut(rest, "/")
		host = stripPort(stripUserInfo(host))
		if !hasPath {
			return host
		}
		return host + "/" + path
	}

	if isSCPLike(s) {
		host, path, _ := strings.Cut(s, ":")
		return stripUserInfo(host) + "/" + strings.TrimLeft(path, "/")
	}

	return s
}

// isSCPLike reports whether s uses git's "[user@]host:path" syntax. Like git,
// a slash before the first colon means a local path, and so does a single
// drive letter.
func isSCPLike(s string) bool {
	colon := strings.IndexByte(s, ':')
	if colon <= 0 {
		return false
	}
	if slash := strings.IndexByte(s, '/'); slash >= 0 && slash < colon {
		return false
	}
	if colon == 1 && isASCIILetter(s[0]) {
		return false
	}
	return true
}

func stripUserInfo(host string) string {
	if i := strings.LastIndexByte(host, '@'); i >= 0 {
		return host[i+1:]
	}
	return host
}

// stripPort drops a trailing numeric ":port". Bracketed IPv6 literals keep
// their inner colons.
func stripPort(host string) string {
	i := strings.LastIndexByte(host, ':')
	if i < 0 || strings.HasSuffix(host, "]") {
		return host
	}
	for _, r := range host[i+1:] {
		if r < '0' || r > '9' {
			return host
		}
	}
	return host[:i]
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
