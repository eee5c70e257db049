package game

import (
	"sort"
	"time"

	"mjcore/agent"
	"mjcore/discard"
	"mjcore/hand"
	"mjcore/internal/corelog"
	"mjcore/record"
	"mjcore/rules"
	"mjcore/tile"
	"mjcore/wall"
)

// Game orchestrates a full session of one ruleset: it deals and plays
// hand after hand through Round, rotating the dealer and round wind
// per the outcome of each, until the configured game length, a bust,
// or an extension-round policy ends it.
type Game struct {
	Rules  rules.Rules
	RNG    wall.RNG
	Log    *corelog.Logger
	Seats  [4]*Seat
	Record *record.GameRecord

	roundWind    int
	dealerSeat   int
	handInWind   int
	extraWinds   int
	honba        int
	riichiSticks int
}

// NewGame seeds a fresh game at East 1 with every seat at the rules'
// origin point total.
func NewGame(r rules.Rules, agents [4]agent.Agent, rng wall.RNG, log *corelog.Logger) *Game {
	if log == nil {
		log = corelog.Discard()
	}
	g := &Game{
		Rules: r, RNG: rng, Log: log,
		roundWind: tile.East, dealerSeat: 0,
	}
	for i := 0; i < 4; i++ {
		g.Seats[i] = NewSeat(agents[i], r.OriginPoints)
	}
	return g
}

// windCount reports how many round winds gc plays before the base
// game is complete (before any extension).
func windCount(gc rules.GameCount) int {
	switch gc {
	case rules.OneHand:
		return 0
	case rules.EastOnly:
		return 1
	case rules.FullFourWind:
		return 4
	default: // EastSouth
		return 2
	}
}

// extensionAllowance interprets rules.ExtensionMode as the number of
// extra round winds a game may extend into past its configured length
// (the west/north "all-last" variants), the interpretation
// rules.ExtensionMode's own doc comment delegates to this package.
func extensionAllowance(em rules.ExtensionMode) int { return int(em) }

// wallConfigFromRules projects the per-suit red-five counts a Rules
// carries down to wall.Config's single count, using the man count as
// representative (house rulesets that vary red-five counts by suit are
// out of scope for the wall's construction, which seeds one uniform
// count per suit).
func wallConfigFromRules(r rules.Rules) wall.Config {
	return wall.Config{
		RedFives:       r.RedFives.Man,
		UraEnabled:     r.UraDoraEnabled,
		KanUraEnabled:  r.KanUraEnabled,
		KanDoraEnabled: r.KanDoraEnabled,
	}
}

func anyBelowZero(seats [4]*Seat) bool {
	for _, s := range seats {
		if s.Points < 0 {
			return true
		}
	}
	return false
}

// isLastHandOfLastWind reports whether the hand about to be scored was
// the final hand of the game: the fourth hand of the game's last
// configured round wind, or the single hand of a one-hand game — the
// only point at which OralasStopEnabled or ExtensionMode come into play.
func (g *Game) isLastHandOfLastWind() bool {
	if g.Rules.GameCount == rules.OneHand {
		return true
	}
	return g.handInWind == 3 && g.roundWind-tile.East+1 >= windCount(g.Rules.GameCount)
}

func (g *Game) roundNumber() int {
	return (g.roundWind-tile.East)*4 + g.handInWind + 1
}

func (g *Game) handSnapshot() [4]*hand.Hand {
	var hs [4]*hand.Hand
	for i := 0; i < 4; i++ {
		hs[i] = g.Seats[i].Hand.Clone()
	}
	return hs
}

func (g *Game) pointsSnapshot() [4]int {
	var p [4]int
	for i := 0; i < 4; i++ {
		p[i] = g.Seats[i].Points
	}
	return p
}

// Run plays hands until the game ends, stamping every record entry
// with at (there is no wall-clock read anywhere in this package, so a
// replayed game with the same rng and at reproduces byte-for-byte).
// It returns the completed record.
func (g *Game) Run(at time.Time) *record.GameRecord {
	g.Record = record.New("riichi-4p", at)

	for {
		for i := 0; i < 4; i++ {
			g.Seats[i].Hand = hand.New()
			g.Seats[i].Discards = discard.New()
		}

		w := wall.New(g.RNG, wallConfigFromRules(g.Rules))
		rd := NewRound(g.Rules, w, g.Seats, g.roundWind, g.dealerSeat, g.honba, g.riichiSticks, g.Log, nil, at)
		rd.Deal()

		rr := g.Record.StartRound(g.roundNumber(), g.roundWind, g.dealerSeat, g.honba, g.riichiSticks,
			w.DoraIndicators()[0], g.handSnapshot(), g.pointsSnapshot(), at)
		rd.Rec = rr

		result := rd.Play()
		rr.Complete(result, at)

		g.honba = rd.Honba
		g.riichiSticks = rd.RiichiSticks

		busted := g.Rules.BustEndsGame && anyBelowZero(g.Seats)

		if g.Rules.GameCount == rules.OneHand || busted {
			g.finalize(at)
			return g.Record
		}

		if g.isLastHandOfLastWind() && !result.DealerRepeated {
			if g.Rules.OralasStopEnabled || g.extraWinds >= extensionAllowance(g.Rules.ExtensionMode) {
				g.finalize(at)
				return g.Record
			}
			g.extraWinds++
		}

		if !result.DealerRepeated {
			g.dealerSeat = (g.dealerSeat + 1) % 4
			g.handInWind++
			if g.handInWind >= 4 {
				g.handInWind = 0
				g.roundWind++
			}
		}
	}
}

func (g *Game) finalize(at time.Time) {
	type ranked struct {
		seat   int
		points int
	}
	rs := make([]ranked, 4)
	for i := 0; i < 4; i++ {
		rs[i] = ranked{i, g.Seats[i].Points}
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].points > rs[j].points })

	rankings := make([]record.PlayerRanking, 4)
	var final [4]int
	for rank, r := range rs {
		rankings[rank] = record.PlayerRanking{Seat: r.seat, Points: r.points, Rank: rank + 1}
		final[r.seat] = r.points
	}
	g.Record.Complete(rankings, final, at)
}
