package replay

import "fmt"

// ReplayError pinpoints why a spec cannot be turned into a tape.
// RoundIndex is -1 for spec-level problems.
type ReplayError struct {
	RoundIndex int32  `json:"round_index"`
	Reason     string `json:"reason"`
	Message    string `json:"message"`
}

func (e *ReplayError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("replay error(round=%d reason=%s): %s", e.RoundIndex, e.Reason, e.Message)
}
