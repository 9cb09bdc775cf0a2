package card

// Type classifies a card for deck composition and phase checks.
type Type byte

const (
	TypeCharacter Type = 0
	TypeSpecial   Type = 1
	TypeTrap      Type = 2
	TypeBonus     Type = 3
)

var TypeDictionary = map[Type]string{
	TypeCharacter: "character",
	TypeSpecial:   "special",
	TypeTrap:      "trap",
	TypeBonus:     "bonus",
}

func (t Type) String() string {
	if s, ok := TypeDictionary[t]; ok {
		return s
	}
	return "unknown"
}

// IsSupport reports whether the card can occupy the special/trap slot.
func (t Type) IsSupport() bool {
	return t == TypeSpecial || t == TypeTrap || t == TypeBonus
}

// Category is the political reach of a character card. It drives the deck
// budget tier: narrow-reach decks get the tight ceiling.
type Category byte

const (
	CategoryLocal    Category = 0
	CategoryNational Category = 1
	CategoryGlobal   Category = 2
)

var CategoryDictionary = map[Category]string{
	CategoryLocal:    "local",
	CategoryNational: "national",
	CategoryGlobal:   "global",
}

func (c Category) String() string {
	if s, ok := CategoryDictionary[c]; ok {
		return s
	}
	return "unknown"
}

// Rarity affects how many copies of a card a deck may carry.
type Rarity byte

const (
	RarityCommon Rarity = 0
	RarityRare   Rarity = 1
	RarityUnique Rarity = 2
)

var RarityDictionary = map[Rarity]string{
	RarityCommon: "common",
	RarityRare:   "rare",
	RarityUnique: "unique",
}

func (r Rarity) String() string {
	if s, ok := RarityDictionary[r]; ok {
		return s
	}
	return "unknown"
}

// MaxCopies is the per-deck copy limit implied by rarity.
func (r Rarity) MaxCopies() int {
	switch r {
	case RarityRare:
		return 2
	case RarityUnique:
		return 1
	default:
		return 3
	}
}

// Card is an immutable catalog entry. Identity is the ID; everything else is
// static data the rules engine reads during resolution.
type Card struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          Type     `json:"type"`
	Influence     int      `json:"influence"`
	CampaignValue int64    `json:"campaignValue"`
	Rarity        Rarity   `json:"rarity"`
	Category      Category `json:"category"`
	Country       string   `json:"country,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Effect        Effect   `json:"effect"`
	FlavorText    string   `json:"flavorText,omitempty"`
}
