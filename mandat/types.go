package mandat

// Status is the session lifecycle state.
type Status byte

const (
	StatusLobby     Status = 0
	StatusActive    Status = 1
	StatusCompleted Status = 2
)

var StatusDictionary = map[Status]string{
	StatusLobby:     "lobby",
	StatusActive:    "active",
	StatusCompleted: "completed",
}

func (s Status) String() string {
	if v, ok := StatusDictionary[s]; ok {
		return v
	}
	return "unknown"
}

// Phase is the round state machine position. The cycle is fixed:
// SETUP -> MOMENTUM -> COALITION -> CHARACTER -> SPECIAL -> RESOLUTION ->
// BACKFIRE -> (SETUP | FINAL) -> FINISHED. COALITION is skipped with fewer
// than 3 active players or when coalitions are blocked for the session.
type Phase byte

const (
	PhaseTypeSetup      Phase = 0
	PhaseTypeMomentum   Phase = 1
	PhaseTypeCoalition  Phase = 2
	PhaseTypeCharacter  Phase = 3
	PhaseTypeSpecial    Phase = 4
	PhaseTypeResolution Phase = 5
	PhaseTypeBackfire   Phase = 6
	PhaseTypeFinal      Phase = 7
	PhaseTypeFinished   Phase = 8
)

var PhaseTypeDictionary = map[Phase]string{
	PhaseTypeSetup:      "setup",
	PhaseTypeMomentum:   "momentum",
	PhaseTypeCoalition:  "coalition",
	PhaseTypeCharacter:  "character",
	PhaseTypeSpecial:    "special",
	PhaseTypeResolution: "resolution",
	PhaseTypeBackfire:   "backfire",
	PhaseTypeFinal:      "final",
	PhaseTypeFinished:   "finished",
}

func (p Phase) String() string {
	if v, ok := PhaseTypeDictionary[p]; ok {
		return v
	}
	return "unknown"
}

// ActionType 0-2 are lobby actions, the rest are gameplay.
type ActionType byte

const (
	ActionTypeJoin             ActionType = 0
	ActionTypeLeave            ActionType = 1
	ActionTypeReady            ActionType = 2
	ActionTypeStart            ActionType = 3
	ActionTypeRollMomentum     ActionType = 4
	ActionTypeProposeCoalition ActionType = 5
	ActionTypeAcceptCoalition  ActionType = 6
	ActionTypeDeclineCoalition ActionType = 7
	ActionTypePlayCharacter    ActionType = 8
	ActionTypePlaySpecial      ActionType = 9
	ActionTypeSkipSpecial      ActionType = 10
	ActionTypeDrawCard         ActionType = 11
	ActionTypeEndTurn          ActionType = 12
)

var ActionTypeDictionary = map[ActionType]string{
	ActionTypeJoin:             "join-session",
	ActionTypeLeave:            "leave-session",
	ActionTypeReady:            "ready",
	ActionTypeStart:            "start-session",
	ActionTypeRollMomentum:     "roll-momentum",
	ActionTypeProposeCoalition: "propose-coalition",
	ActionTypeAcceptCoalition:  "accept-coalition",
	ActionTypeDeclineCoalition: "decline-coalition",
	ActionTypePlayCharacter:    "play-character",
	ActionTypePlaySpecial:      "play-special",
	ActionTypeSkipSpecial:      "skip-special",
	ActionTypeDrawCard:         "draw-card",
	ActionTypeEndTurn:          "end-turn",
}

func (a ActionType) String() string {
	if v, ok := ActionTypeDictionary[a]; ok {
		return v
	}
	return "unknown"
}

// ParseActionType maps the wire name back to the enum.
func ParseActionType(name string) (ActionType, bool) {
	for k, v := range ActionTypeDictionary {
		if v == name {
			return k, true
		}
	}
	return 0, false
}

// Action is the single inbound unit the engine validates and applies. All
// fields beyond Type/PlayerID are optional and depend on the action type.
type Action struct {
	Type     ActionType `json:"type"`
	PlayerID string     `json:"playerId"`
	TargetID string     `json:"targetId,omitempty"` // propose target; accept/decline initiator
	CardID   string     `json:"cardId,omitempty"`
	OpenFace bool       `json:"openFace,omitempty"`

	// Join payload.
	Name     string   `json:"name,omitempty"`
	AI       bool     `json:"ai,omitempty"`
	AITier   string   `json:"aiTier,omitempty"`
	DeckPool []string `json:"deckPool,omitempty"`

	// Ready payload.
	Ready bool `json:"ready,omitempty"`
}

// ProposalStatus tracks a pending coalition offer.
type ProposalStatus byte

const (
	ProposalPending  ProposalStatus = 0
	ProposalAccepted ProposalStatus = 1
	ProposalDeclined ProposalStatus = 2
)

var ProposalStatusDictionary = map[ProposalStatus]string{
	ProposalPending:  "pending",
	ProposalAccepted: "accepted",
	ProposalDeclined: "declined",
}

func (p ProposalStatus) String() string {
	if v, ok := ProposalStatusDictionary[p]; ok {
		return v
	}
	return "unknown"
}

// Momentum mandate table. Level 5 uses a fresh die roll for both sides,
// level 6 awards 4 and wipes every losing participant to zero.
const (
	MomentumMin = 1
	MomentumMax = 6

	// Level at which a coalition may take a third member.
	MomentumTrioLevel = 5

	// Winner bonus when not in a coalition.
	soloWinnerBonus = 2

	// Backfire triggers on a mandate lead of this size over every winner.
	backfireLeadThreshold = 3
)

// mandate deltas per momentum level for levels 1-4 and the level 6 award.
var momentumAwardTable = map[int]int{1: 1, 2: 1, 3: 2, 4: 3, 6: 4}
var momentumPenaltyTable = map[int]int{1: 0, 2: 1, 3: 2, 4: 3}
