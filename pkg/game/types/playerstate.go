package types

// Player is a seated participant's profile.
type Player struct {
	Name string `json:"name"`
	IsAI bool   `json:"isAi"`
	// WalletID links the player to an external wallet; defaults to the player ID
	WalletID string `json:"walletId,omitempty"`
	// NPCActorID binds the seat to an NPC actor whose funds live in npcWallets
	NPCActorID string `json:"npcActorId,omitempty"`
}

// IsNPC reports whether the seat is bound to an NPC.
func (p Player) IsNPC() bool {
	return p.NPCActorID != ""
}

type Strategy string

const (
	StrategyBalanced     Strategy = "balanced"
	StrategyAggressive   Strategy = "aggressive"
	StrategyConservative Strategy = "conservative"
	StrategyDuelist      Strategy = "duelist"
	StrategyTactician    Strategy = "tactician"
	StrategyBully        Strategy = "bully"
	StrategyChaotic      Strategy = "chaotic"
)

func (s Strategy) Valid() bool {
	switch s {
	case StrategyBalanced, StrategyAggressive, StrategyConservative, StrategyDuelist,
		StrategyTactician, StrategyBully, StrategyChaotic:
		return true
	default:
		return false
	}
}

type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyNormal    Difficulty = "normal"
	DifficultyHard      Difficulty = "hard"
	DifficultyLegendary Difficulty = "legendary"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyLegendary:
		return true
	default:
		return false
	}
}

// Autoplay configures an AI-driven seat.
type Autoplay struct {
	Enabled    bool       `json:"enabled"`
	Strategy   Strategy   `json:"strategy"`
	Difficulty Difficulty `json:"difficulty"`
}
