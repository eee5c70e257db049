// Package rules defines the configuration surface a game.Round is
// built against: point totals, red-five counts, and the switches that
// select among the many house-rule variants of riichi mahjong.
package rules

// KuikaeLevel controls how strictly swap-calling is forbidden after a
// chi.
type KuikaeLevel int

const (
	// KuikaeStrict forbids both the identical tile and the
	// same-position suji swap tile.
	KuikaeStrict KuikaeLevel = iota
	// KuikaeSuji forbids only the identical tile; the suji swap is
	// allowed.
	KuikaeSuji
	// KuikaeGenbutsu forbids neither (kuikae effectively off).
	KuikaeGenbutsu
)

// GameCount selects how many rounds of dealership a game runs.
type GameCount int

const (
	OneHand    GameCount = 0
	EastOnly   GameCount = 1
	EastSouth  GameCount = 2
	FullFourWind GameCount = 4
)

// ConsecutiveMode and ExtensionMode select the renchan (dealer
// repeat) and extension (west/north round) variants; the exact set of
// modes is house-rule-specific and interpreted by package game
// (ConsecutiveMode by Round, ExtensionMode by Game).
type ConsecutiveMode int
type ExtensionMode int

// AnkanAfterRiichiLevel controls how strict the post-riichi ankan
// restriction is.
type AnkanAfterRiichiLevel int

const (
	// AnkanAfterRiichiForbidden never allows an ankan after riichi.
	AnkanAfterRiichiForbidden AnkanAfterRiichiLevel = iota
	// AnkanAfterRiichiSameWaitOnly allows it only when the kan tile
	// doesn't change the hand's wait.
	AnkanAfterRiichiSameWaitOnly
	// AnkanAfterRiichiAlways allows any ankan of a tile the hand holds
	// four of, without a wait-preservation check.
	AnkanAfterRiichiAlways
)

// RedFiveCounts is the number of red (aka-dora) fives seeded per
// numbered suit, one field per suit (man, pin, sou).
type RedFiveCounts struct {
	Man int
	Pin int
	Sou int
}

// Rules is the full configuration record a Round is constructed from.
// Field names and defaults follow the option list a rule editor would
// expose; every field has a documented default via New.
type Rules struct {
	OriginPoints int
	RankPoints   [4]float64

	RedFives RedFiveCounts

	KuitanEnabled bool
	KuikaeLevel   KuikaeLevel

	GameCount GameCount

	InterruptedDrawsEnabled bool
	NagashiManganEnabled    bool
	NotenDeclarationEnabled bool
	NotenPenaltyEnabled     bool

	MaxSimultaneousWin int
	ConsecutiveMode    ConsecutiveMode
	BustEndsGame       bool
	OralasStopEnabled  bool
	ExtensionMode      ExtensionMode

	IppatsuEnabled bool
	UraDoraEnabled bool
	KanDoraEnabled bool
	KanUraEnabled  bool
	KanDoraDelayed bool

	RiichiWithoutTsumo    bool
	AnkanAfterRiichiLevel AnkanAfterRiichiLevel

	YakumanCompositionEnabled bool
	DoubleYakumanEnabled      bool
	CountedYakumanEnabled     bool
	YakumanPaoEnabled         bool

	RoundUpMangan bool
}

// New returns the standard ruleset: the defaults a table would use
// absent any house-rule overrides.
func New() Rules {
	return Rules{
		OriginPoints: 25000,
		RankPoints:   [4]float64{20, 10, -10, -20},

		RedFives: RedFiveCounts{Man: 1, Pin: 1, Sou: 1},

		KuitanEnabled: true,
		KuikaeLevel:   KuikaeStrict,

		GameCount: EastSouth,

		InterruptedDrawsEnabled: true,
		NagashiManganEnabled:    true,
		NotenDeclarationEnabled: false,
		NotenPenaltyEnabled:     true,

		MaxSimultaneousWin: 2,
		ConsecutiveMode:    2,
		BustEndsGame:       true,
		OralasStopEnabled:  true,
		ExtensionMode:      1,

		IppatsuEnabled: true,
		UraDoraEnabled: true,
		KanDoraEnabled: true,
		KanUraEnabled:  true,
		KanDoraDelayed: true,

		RiichiWithoutTsumo:    false,
		AnkanAfterRiichiLevel: AnkanAfterRiichiAlways,

		YakumanCompositionEnabled: true,
		DoubleYakumanEnabled:      true,
		CountedYakumanEnabled:     true,
		YakumanPaoEnabled:         true,

		RoundUpMangan: false,
	}
}
