// Package hook implements the git pre-push hook protocol.
//
// git runs the hook with two arguments, the remote name and the remote URL,
// and writes one line per ref being pushed to its standard input:
//
//	<local-ref> SP <local-sha> SP <remote-ref> SP <remote-sha> LF
//
// A non-zero exit status aborts the push.
package hook

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Exit statuses returned to git.
const (
	ExitAllow = 0 // push proceeds
	ExitBlock = 1 // push aborted by a block decision
	ExitUsage = 2 // invocation or configuration error; also aborts the push
)

// ErrMissingArgs is returned when the hook is not given a remote name and URL.
var ErrMissingArgs = errors.New("expected <remote-name> <remote-url> arguments")

// RefUpdate is one line of pre-push standard input.
type RefUpdate struct {
	LocalRef  string
	LocalSHA  string
	RemoteRef string
	RemoteSHA string
}

// IsDelete reports whether the update deletes the remote ref.
func (u RefUpdate) IsDelete() bool {
	return isZeroSHA(u.LocalSHA)
}

// IsNew reports whether the remote ref does not exist yet.
func (u RefUpdate) IsNew() bool {
	return isZeroSHA(u.RemoteSHA)
}

func isZeroSHA(sha string) bool {
	return sha != "" && strings.Trim(sha, "0") == ""
}

// PrePushInput is everything git hands to a pre-push hook.
type PrePushInput struct {
	RemoteName string
	RemoteURL  string
	Updates    []RefUpdate
	Skipped    int // malformed stdin lines
}

// ReadPrePushInput reads the hook arguments and drains the ref updates from
// stdin. stdin is left alone when it is a terminal, which happens when the
// hook is run by hand.
func ReadPrePushInput(args []string, stdin io.Reader) (*PrePushInput, error) {
	if len(args) < 2 {
		return nil, ErrMissingArgs
	}

	input := &PrePushInput{
		RemoteName: args[0],
		RemoteURL:  args[1],
	}
	if stdin == nil || isTerminal(stdin) {
		return input, nil
	}

	updates, skipped, err := ParseRefUpdates(stdin)
	if err != nil {
		return nil, err
	}
	input.Updates = updates
	input.Skipped = skipped
	return input, nil
}

// ParseRefUpdates parses pre-push stdin lines. Blank lines are ignored and
// lines without exactly four fields are counted in skipped.
func ParseRefUpdates(r io.Reader) (updates []RefUpdate, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 4 {
			skipped++
			continue
		}
		updates = append(updates, RefUpdate{
			LocalRef:  fields[0],
			LocalSHA:  fields[1],
			RemoteRef: fields[2],
			RemoteSHA: fields[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("failed to read ref updates: %w", err)
	}
	return updates, skipped, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
