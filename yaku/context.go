// Package yaku enumerates yaku, computes fu and han, and turns the
// winning (fu, han) tuple into points and a per-seat payment split,
// following the fu table, yaku list, and payment rules of a standard
// riichi table.
package yaku

import (
	"mjcore/hand"
	"mjcore/rules"
	"mjcore/tile"
)

// RiichiState is the declared-riichi flag carried on the winning hand:
// none, single, or double (declared on the very first discard with no
// prior call, by anyone).
type RiichiState int

const (
	NoRiichi RiichiState = iota
	Riichi
	DoubleRiichi
)

// Context is everything about the moment of winning that isn't
// recoverable from the hand and decomposition alone.
type Context struct {
	Hand *hand.Hand
	Seat int // this hand's absolute seat 0-3, needed to resolve pao liability from a meld's call direction

	RoundWind int // tile.East..tile.North
	SeatWind  int // tile.East..tile.North

	Riichi   RiichiState
	Ippatsu  bool
	Chankan  bool // won by robbing a kan
	Rinshan  bool // won on the replacement tile after a kan
	Haitei   bool // tsumo on the last live wall tile
	Houtei   bool // ron on the last discard
	Tenho    bool // dealer tsumo on the first uninterrupted draw
	Chiho    bool // non-dealer tsumo on their first uninterrupted draw

	DoraIndicators []tile.Tile
	UraIndicators  []tile.Tile // set once the wall is closed; counted only for a riichi hand with ura-dora enabled

	Honba        int
	RiichiSticks int

	Rules rules.Rules
}

// PaoSeat identifies a seat liable for a yakuman under the pao
// (liability) rule, or -1 when no pao applies.
type PaoSeat int

const NoPao PaoSeat = -1
