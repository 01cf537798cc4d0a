package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"blackjack-lite/replay"
)

type generateResponse struct {
	OK    bool                `json:"ok"`
	Tape  *replay.ReplayTape  `json:"tape,omitempty"`
	Error *replay.ReplayError `json:"error,omitempty"`
}

// replaytool turns a SessionSpec JSON into a replay tape JSON.
// Spec and generation problems come back as a structured error payload
// with exit code 1.
func main() {
	specPath := flag.String("spec", "-", "session spec file (- for stdin)")
	flag.Parse()

	raw, err := readSpec(*specPath)
	if err != nil {
		log.Fatalf("[Replay] Failed to read spec: %v", err)
	}

	resp := generate(raw)
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		log.Fatalf("[Replay] Failed to encode response: %v", err)
	}
	fmt.Println(string(out))
	if !resp.OK {
		os.Exit(1)
	}
}

func readSpec(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func generate(raw []byte) generateResponse {
	var spec replay.SessionSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return generateResponse{
			OK:    false,
			Error: &replay.ReplayError{RoundIndex: -1, Reason: "invalid_json", Message: err.Error()},
		}
	}

	tape, err := replay.GenerateReplayTape(spec)
	if err != nil {
		var replayErr *replay.ReplayError
		if errors.As(err, &replayErr) {
			return generateResponse{OK: false, Error: replayErr}
		}
		return generateResponse{
			OK:    false,
			Error: &replay.ReplayError{RoundIndex: -1, Reason: "replay_generation_failed", Message: err.Error()},
		}
	}
	return generateResponse{OK: true, Tape: tape}
}
