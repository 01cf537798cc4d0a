package gamelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blackjack-lite/blackjack"
)

func TestAppendRoundFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rounds.txt")
	sink := NewFileSink(path)

	rec := &blackjack.RoundRecord{
		Round: 1,
		Lines: []string{"*** Game 1 ***", "Player stands.", "Push!"},
	}
	if err := sink.AppendRound(rec); err != nil {
		t.Fatalf("AppendRound err: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile err: %v", err)
	}
	want := "*** Game 1 ***\nPlayer stands.\nPush!\n\n"
	if string(data) != want {
		t.Fatalf("expected %q, got %q", want, string(data))
	}
}

func TestAppendRoundAccumulates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rounds.txt")
	sink := NewFileSink(path)

	for i := 1; i <= 3; i++ {
		rec := &blackjack.RoundRecord{Round: i, Lines: []string{"block"}}
		if err := sink.AppendRound(rec); err != nil {
			t.Fatalf("AppendRound %d err: %v", i, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile err: %v", err)
	}
	if got := strings.Count(string(data), "block\n\n"); got != 3 {
		t.Fatalf("expected 3 separated blocks, got %d in %q", got, string(data))
	}
}

func TestAppendRoundSurfacesOpenError(t *testing.T) {
	// A directory path cannot be opened for writing.
	sink := NewFileSink(t.TempDir())
	err := sink.AppendRound(&blackjack.RoundRecord{Lines: []string{"x"}})
	if err == nil {
		t.Fatalf("expected an error for an unwritable path")
	}
	if !strings.Contains(err.Error(), "open game log") {
		t.Fatalf("expected a wrapped open error, got %v", err)
	}
}

func TestEmptyPathFallsBackToDefault(t *testing.T) {
	sink := NewFileSink("")
	if sink.Path() != DefaultPath {
		t.Fatalf("expected %q, got %q", DefaultPath, sink.Path())
	}
}
