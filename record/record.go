// Package record assembles the game record the round state machine
// accumulates as it plays: one GameRecord per game, holding an ordered
// RoundRecord per hand and the events within it, uuid-stamped so a
// caller can persist or diff it. Following the standing project scope
// (see DESIGN.md), this package only builds the record in memory; it
// never writes to a database.
package record

import (
	"time"

	"github.com/google/uuid"

	"mjcore/agent"
	"mjcore/hand"
	"mjcore/tile"
)

// EntryKind tags one RoundRecord entry with the state-machine
// transition it captures.
type EntryKind int

const (
	EntryQipai EntryKind = iota
	EntryZimo
	EntryDapai
	EntryFulou
	EntryGang
	EntryGangzimo
	EntryKaigang
	EntryHule
	EntryPingju
)

func (k EntryKind) String() string {
	names := [...]string{"qipai", "zimo", "dapai", "fulou", "gang", "gangzimo", "kaigang", "hule", "pingju"}
	if int(k) < 0 || int(k) >= len(names) {
		return "unknown"
	}
	return names[k]
}

// Entry is one turn-level event within a round, in play order.
type Entry struct {
	Kind      EntryKind `json:"kind"`
	Seat      int       `json:"seat"`
	Tile      tile.Tile `json:"tile,omitempty"`
	Meld      *tile.Meld `json:"meld,omitempty"`
	FromSeat  int       `json:"fromSeat,omitempty"`
	Riichi    bool      `json:"riichi,omitempty"`
	Indicator tile.Tile `json:"indicator,omitempty"` // EntryKaigang
	Timestamp time.Time `json:"timestamp"`
}

// PlayerRanking is one seat's placement in the final game standings.
type PlayerRanking struct {
	Seat   int `json:"seat"`
	Points int `json:"points"`
	Rank   int `json:"rank"`
}

// RoundResult is the outcome recorded when a round reaches Hule or
// Pingju: the win(s) or the draw reason, the point delta applied, and
// the resulting per-seat totals.
type RoundResult struct {
	EndKind        string             `json:"endKind"` // "hule" or "pingju"
	Wins           []agent.HuleResult `json:"wins,omitempty"`
	Delta          [4]int             `json:"delta"`
	Points         [4]int             `json:"points"`
	Reason         string             `json:"reason,omitempty"`
	NextDealer     int                `json:"nextDealer"`
	DealerRepeated bool               `json:"dealerRepeated"`
}

// RoundRecord is one hand: its starting situation, the ordered
// entries the state machine produced, and its terminal result.
type RoundRecord struct {
	ID uuid.UUID `json:"id"`

	RoundNumber  int          `json:"roundNumber"`
	RoundWind    int          `json:"roundWind"`
	DealerSeat   int          `json:"dealerSeat"`
	Honba        int          `json:"honba"`
	RiichiSticks int          `json:"riichiSticks"`
	Dora         tile.Tile    `json:"dora"`
	StartHands   [4]*hand.Hand `json:"startHands"`
	StartPoints  [4]int       `json:"startPoints"`

	Entries []Entry      `json:"entries"`
	Result  *RoundResult `json:"result,omitempty"`

	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime,omitempty"`
}

// Append records one turn-level entry, stamping it with the given
// time (callers pass a caller-owned clock so replay is reproducible).
func (rr *RoundRecord) Append(e Entry, at time.Time) {
	e.Timestamp = at
	rr.Entries = append(rr.Entries, e)
}

// Complete sets the round's terminal result and end time.
func (rr *RoundRecord) Complete(result *RoundResult, at time.Time) {
	rr.Result = result
	rr.EndTime = at
}

// GameRecord is the aggregate root for one full game: an ordered
// sequence of RoundRecords plus the final standings, uuid-stamped the
// way a persisted aggregate root usually is (a Mongo ObjectID in a
// server backed by a database; a uuid here, since this package never
// touches one — see DESIGN.md for the dropped-dependency justification).
type GameRecord struct {
	ID       uuid.UUID `json:"id"`
	GameType string    `json:"gameType"`

	Rounds []*RoundRecord `json:"rounds"`

	FinalPoints [4]int          `json:"finalPoints,omitempty"`
	Rankings    []PlayerRanking `json:"rankings,omitempty"`

	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime,omitempty"`
}

// New returns a fresh GameRecord, its ID stamped by uuid.New().
func New(gameType string, at time.Time) *GameRecord {
	return &GameRecord{
		ID:        uuid.New(),
		GameType:  gameType,
		StartTime: at,
	}
}

// StartRound appends and returns a new RoundRecord for the given
// starting situation.
func (gr *GameRecord) StartRound(roundNumber, roundWind, dealerSeat, honba, riichiSticks int, dora tile.Tile, startHands [4]*hand.Hand, startPoints [4]int, at time.Time) *RoundRecord {
	rr := &RoundRecord{
		ID:           uuid.New(),
		RoundNumber:  roundNumber,
		RoundWind:    roundWind,
		DealerSeat:   dealerSeat,
		Honba:        honba,
		RiichiSticks: riichiSticks,
		Dora:         dora,
		StartHands:   startHands,
		StartPoints:  startPoints,
		StartTime:    at,
	}
	gr.Rounds = append(gr.Rounds, rr)
	return rr
}

// Complete sets the game's final standings and end time.
func (gr *GameRecord) Complete(rankings []PlayerRanking, finalPoints [4]int, at time.Time) {
	gr.Rankings = rankings
	gr.FinalPoints = finalPoints
	gr.EndTime = at
}
