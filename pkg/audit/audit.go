// Package audit appends push decisions to a JSON Lines file.
//
// The log is write-only: nothing in remote-guard reads it back, and a failed
// write never changes a decision.
package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/krmcbride/remote-guard/pkg/guard"
	"github.com/krmcbride/remote-guard/pkg/hook"
	"github.com/krmcbride/remote-guard/pkg/utils"
)

// Record is one line of the audit log.
type Record struct {
	Time     time.Time `json:"time"`
	Remote   string    `json:"remote"`
	URL      string    `json:"url"`
	Decision string    `json:"decision"`
	Pattern  string    `json:"pattern,omitempty"`
	Refs     []string  `json:"refs,omitempty"`
}

// NewRecord builds the audit record for one evaluated push.
func NewRecord(input *hook.PrePushInput, result guard.Result, now time.Time) Record {
	rec := Record{
		Time:     now.UTC(),
		Remote:   result.RemoteName,
		URL:      result.RemoteURL,
		Decision: result.Decision.String(),
		Pattern:  result.Pattern,
	}
	if input != nil {
		for _, u := range input.Updates {
			rec.Refs = append(rec.Refs, u.RemoteRef)
		}
	}
	return rec
}

// Log appends records to a file.
type Log struct {
	Path string
}

// New returns a Log for path, expanding a leading "~".
func New(path string) (*Log, error) {
	path = utils.ExpandHomePath(path)
	if path == "" {
		return nil, errors.New("missing audit log path")
	}
	return &Log{Path: path}, nil
}

// Append writes rec as one JSON line, creating the file and its directory
// when needed.
func (l *Log) Append(rec Record) (err error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(l.Path), 0o750); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close audit log: %w", cerr)
		}
	}()

	if _, err := f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
