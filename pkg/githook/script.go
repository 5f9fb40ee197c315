package githook

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// BinaryName is the command the generated hook runs.
const BinaryName = "remote-guard"

// ScriptMarker is the comment line that identifies a hook written by Script.
const ScriptMarker = "# Installed by remote-guard"

// Commands that run their argument as a command.
var wrapperCommands = []string{"exec", "command", "env", "nohup", "time"}

// Script renders a pre-push hook that hands off to binary. extraArgs are
// placed before the arguments git passes.
func Script(binary string, extraArgs []string) ([]byte, error) {
	words := make([]string, 0, len(extraArgs)+2)
	for _, w := range append([]string{binary, "check"}, extraArgs...) {
		quoted, err := syntax.Quote(w, syntax.LangPOSIX)
		if err != nil {
			return nil, fmt.Errorf("cannot quote %q for the hook script: %w", w, err)
		}
		words = append(words, quoted)
	}

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString(ScriptMarker + ": refuses pushes to upstream remotes.\n")
	// "--" keeps a remote named like a flag from being parsed as one.
	fmt.Fprintf(&b, "exec %s -- \"$@\"\n", strings.Join(words, " "))
	return []byte(b.String()), nil
}

// ScriptInvokesGuard reports whether a shell script runs remote-guard. A
// script that does not parse is reported as not invoking it.
func ScriptInvokesGuard(script string) bool {
	return scriptRuns(script, "")
}

// hasMarker reports whether any line of script starts with ScriptMarker.
func hasMarker(script string) bool {
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), ScriptMarker) {
			return true
		}
	}
	return false
}

// scriptRuns reports whether script runs remote-guard by name, or binary by
// path when binary is set.
func scriptRuns(script, binary string) bool {
	parser := syntax.NewParser()
	file, err := parser.Parse(strings.NewReader(script), "")
	if err != nil {
		return false
	}

	found := false
	syntax.Walk(file, func(node syntax.Node) bool {
		if found {
			return false
		}
		if call, ok := node.(*syntax.CallExpr); ok && callInvokesGuard(call, binary) {
			found = true
		}
		return !found
	})
	return found
}

// callInvokesGuard looks through wrapper commands (exec, env VAR=x, ...) to
// the command actually being run.
func callInvokesGuard(call *syntax.CallExpr, binary string) bool {
	for _, arg := range call.Args {
		word, isStatic := resolveStaticWord(arg)
		if !isStatic {
			return false
		}
		name := normalizeCommandPath(word)
		switch {
		case isGuardCommand(word, binary):
			return true
		case slices.Contains(wrapperCommands, name), strings.HasPrefix(word, "-"), strings.Contains(word, "="):
			continue
		default:
			return false
		}
	}
	return false
}

// resolveStaticWord returns the literal value of word and whether it had no
// expansions.
func resolveStaticWord(word *syntax.Word) (string, bool) {
	var sb strings.Builder
	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, dqPart := range p.Parts {
				lit, ok := dqPart.(*syntax.Lit)
				if !ok {
					return "", false
				}
				sb.WriteString(lit.Value)
			}
		default:
			return "", false
		}
	}
	return sb.String(), true
}

// isGuardCommand reports whether cmd names remote-guard or is the configured
// binary path.
func isGuardCommand(cmd, binary string) bool {
	if normalizeCommandPath(cmd) == BinaryName {
		return true
	}
	return binary != "" && filepath.Clean(cmd) == filepath.Clean(binary)
}

// normalizeCommandPath reduces a command path to its base name without .exe.
func normalizeCommandPath(cmd string) string {
	return strings.TrimSuffix(filepath.Base(filepath.Clean(cmd)), ".exe")
}
