package constants

import "time"

const (
	// TargetTotal is the total a player must not exceed
	TargetTotal int = 21
	// DefaultAnte is the per-player stake collected at round start
	DefaultAnte int = 5
	// HouseMatchMultiplier doubles the player antes: the house matches every player's stake
	HouseMatchMultiplier int = 2
	// MinRollsToHold is the number of dice a player must have before holding
	MinRollsToHold int = 2
	// OpeningDice is the number of dice each player takes during the opening phase
	OpeningDice int = 2

	// HeatDCStart is the personal cheat DC every player starts a round with
	HeatDCStart int = 10
	// HeatDCStep is how much the personal heat DC rises per cheat attempt
	HeatDCStep int = 2
	// CheatMaxAdjustment bounds the signed die adjustment a cheat may apply
	CheatMaxAdjustment int = 3
	// CheatMinParticipants is the number of non-house players needed before cheating is allowed
	CheatMinParticipants int = 2

	// HunchDC is the fixed WIS difficulty for Foresight
	HunchDC int = 12
	// PassiveBase is the base of passive checks (10 + modifier)
	PassiveBase int = 10

	// CheckDie is the die used for every skill check
	CheckDie int = 20
	// NaturalSuccess is the unmodified check face that always succeeds
	NaturalSuccess int = 20
	// NaturalFailure is the unmodified check face that always fails
	NaturalFailure int = 1

	// HistoryCap is the default number of history entries kept
	HistoryCap int = 100
	// PrivateLogCap is the default number of private log entries kept per user
	PrivateLogCap int = 50

	// RevealDelay is the default pause between staggered reveals
	RevealDelay time.Duration = 600 * time.Millisecond

	// StateSettingKey is the durable settings key the game document lives under
	StateSettingKey string = "gameState"
	// StateVersion is the document schema version written by this server
	StateVersion int = 2
)

// StandardDice are the die sizes legal in a standard round
var StandardDice = []int{4, 6, 8, 10, 20}

// GoblinDice are the die sizes legal under Goblin Rules; each may be used once per round
var GoblinDice = []int{2, 4, 6, 8, 10, 20}

// HunchThresholds maps a die size to the value above which a result reads HIGH
var HunchThresholds = map[int]int{
	2:  1,
	4:  2,
	6:  3,
	8:  4,
	10: 5,
	20: 10,
}
