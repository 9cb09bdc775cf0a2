package replay

import (
	"fmt"
	"time"

	"mandat-lite/card"
	"mandat-lite/mandat"
)

// Run replays a transcript against a fresh engine and returns the final
// session state. The engine clock is a deterministic counter, so two runs
// of the same transcript produce byte-identical states.
func Run(t *Transcript, catalog *card.Catalog) (*mandat.SessionState, error) {
	if t == nil {
		return nil, &TranscriptError{StepIndex: -1, Reason: "nil_transcript", Message: "no transcript"}
	}
	if t.Config.Seed == 0 {
		return nil, &TranscriptError{StepIndex: -1, Reason: "missing_seed", Message: "transcript has no rng seed"}
	}

	engine, err := mandat.NewEngine(buildConfig(t.Config), catalog)
	if err != nil {
		return nil, &TranscriptError{StepIndex: -1, Reason: "engine_init_failed", Message: err.Error()}
	}

	id := t.SessionID
	if id == "" {
		id = "replay_local"
	}
	state := engine.NewSession(id)

	for i, step := range t.Steps {
		action, err := stepAction(step)
		if err != nil {
			return nil, &TranscriptError{StepIndex: i, Reason: "bad_step", Message: err.Error()}
		}
		next, err := engine.Apply(state, action)
		if err != nil {
			return nil, &TranscriptError{
				StepIndex: i,
				Reason:    "action_apply_failed",
				Message:   err.Error(),
				Expected:  expectedState(state),
			}
		}
		state = next
	}
	return state, nil
}

func buildConfig(spec ConfigSpec) mandat.Config {
	cfg := mandat.DefaultConfig()
	if spec.MaxPlayers > 0 {
		cfg.MaxPlayers = spec.MaxPlayers
	}
	if spec.MinPlayers > 0 {
		cfg.MinPlayers = spec.MinPlayers
	}
	if spec.MaxRounds > 0 {
		cfg.MaxRounds = spec.MaxRounds
	}
	if spec.MandateThreshold > 0 {
		cfg.MandateThreshold = spec.MandateThreshold
	}
	if spec.AlternateInfluenceThreshold > 0 {
		cfg.AlternateInfluenceThreshold = spec.AlternateInfluenceThreshold
	}
	if spec.InitialHandSize > 0 {
		cfg.InitialHandSize = spec.InitialHandSize
	}
	cfg.CoalitionsBlocked = spec.CoalitionsBlocked
	cfg.Seed = spec.Seed
	cfg.Clock = counterClock()
	return cfg
}

// counterClock advances one second per call from a fixed epoch, keeping log
// timestamps identical across runs.
func counterClock() func() time.Time {
	base := time.Unix(0, 0).UTC()
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func stepAction(step StepSpec) (mandat.Action, error) {
	t, ok := mandat.ParseActionType(step.Type)
	if !ok {
		return mandat.Action{}, fmt.Errorf("unknown action type %q", step.Type)
	}
	return mandat.Action{
		Type:     t,
		PlayerID: step.PlayerID,
		TargetID: step.TargetID,
		CardID:   step.CardID,
		OpenFace: step.OpenFace,
		Name:     step.Name,
		AI:       step.AI,
		AITier:   step.AITier,
		DeckPool: step.DeckPool,
		Ready:    step.Ready,
	}, nil
}

func expectedState(s *mandat.SessionState) *ExpectedState {
	if s == nil {
		return nil
	}
	return &ExpectedState{
		Phase:           s.Phase.String(),
		Round:           s.Round,
		ActivePlayerID:  s.ActivePlayerID,
		PendingDeciders: s.PendingDeciders(),
	}
}

// Recorder accumulates accepted actions into a transcript alongside a live
// session. The controller appends after, and only after, Apply succeeds.
type Recorder struct {
	t Transcript
}

func NewRecorder(sessionID string, cfg mandat.Config) *Recorder {
	return &Recorder{t: Transcript{
		Version:   TranscriptVersion,
		SessionID: sessionID,
		Config: ConfigSpec{
			MaxPlayers:                  cfg.MaxPlayers,
			MinPlayers:                  cfg.MinPlayers,
			MaxRounds:                   cfg.MaxRounds,
			MandateThreshold:            cfg.MandateThreshold,
			AlternateInfluenceThreshold: cfg.AlternateInfluenceThreshold,
			InitialHandSize:             cfg.InitialHandSize,
			CoalitionsBlocked:           cfg.CoalitionsBlocked,
			Seed:                        cfg.Seed,
		},
	}}
}

func (r *Recorder) Append(a mandat.Action) {
	r.t.Steps = append(r.t.Steps, StepSpec{
		Type:     a.Type.String(),
		PlayerID: a.PlayerID,
		TargetID: a.TargetID,
		CardID:   a.CardID,
		OpenFace: a.OpenFace,
		Name:     a.Name,
		AI:       a.AI,
		AITier:   a.AITier,
		DeckPool: a.DeckPool,
		Ready:    a.Ready,
	})
}

func (r *Recorder) Transcript() *Transcript {
	out := r.t
	out.Steps = append([]StepSpec(nil), r.t.Steps...)
	return &out
}
