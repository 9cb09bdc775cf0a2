package replay

import "fmt"

// TranscriptError reports the first step a transcript failed on, with
// enough of the engine's expected state to debug a drifted recording.
type TranscriptError struct {
	StepIndex int            `json:"step_index"`
	Reason    string         `json:"reason"`
	Message   string         `json:"message"`
	Expected  *ExpectedState `json:"expected,omitempty"`
}

type ExpectedState struct {
	Phase           string   `json:"phase,omitempty"`
	Round           int      `json:"round,omitempty"`
	ActivePlayerID  string   `json:"active_player_id,omitempty"`
	PendingDeciders []string `json:"pending_deciders,omitempty"`
}

func (e *TranscriptError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("transcript error(step=%d reason=%s): %s", e.StepIndex, e.Reason, e.Message)
}
