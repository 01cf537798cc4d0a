// Package gamelog appends round narration blocks to a plain-text file,
// one block per round separated by a blank line.
package gamelog

import (
	"fmt"
	"os"
	"strings"

	"blackjack-lite/blackjack"
)

// DefaultPath is the historical log location of the simulator.
const DefaultPath = "blackjack_log.txt"

// FileSink implements blackjack.RoundSink on top of an append-only
// text file.
type FileSink struct {
	path string
}

func NewFileSink(path string) *FileSink {
	if path == "" {
		path = DefaultPath
	}
	return &FileSink{path: path}
}

func (f *FileSink) Path() string { return f.path }

// AppendRound writes one round block. The file is reopened on every
// round, so external rotation or deletion never breaks a running
// session.
func (f *FileSink) AppendRound(rec *blackjack.RoundRecord) error {
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open game log: %w", err)
	}
	defer file.Close()

	var b strings.Builder
	for _, line := range rec.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if _, err := file.WriteString(b.String()); err != nil {
		return fmt.Errorf("write game log: %w", err)
	}
	return nil
}
