package yaku

import "mjcore/rules"

// Points is the fully-resolved result of scoring one win: the winning
// hand's own han/fu/name, the yakuman multiplier if any, the base
// point value, and the per-seat payment split (positive for the
// winner, negative for payers, indexed by absolute seat 0-3).
type Points struct {
	Hand Hand
	Fu   int
	Base int

	Payments [4]int
}

// baseFromHanFu is min(fu * 2^(2+han), 2000), then promoted to the
// fixed mangan/haneman/baiman/sanbaiman bases from han 5 up. han >= 13
// is counted yakuman, scored as one 8000 base per 13 han the caller
// folds in, but only when rules.CountedYakumanEnabled; disabled, a
// 13+-han hand caps at the same sanbaiman base as han 11-12.
func baseFromHanFu(han, fu int, r rules.Rules) int {
	switch {
	case han >= 13 && r.CountedYakumanEnabled:
		return 8000 * (han / 13)
	case han >= 11:
		return 6000
	case han >= 8:
		return 4000
	case han >= 6:
		return 3000
	}
	base := fu << uint(2+han)
	if r.RoundUpMangan && han == 4 && base >= 1920 && base < 2000 {
		return 2000
	}
	if base > 2000 {
		return 2000
	}
	return base
}

// Score turns h (the yaku result) and fu into the points a winner
// collects and the payment split among all four seats, following the
// ron 6x/4x convention and, on a tsumo, 2x base from every seat for a
// dealer winner or 2x from the dealer and 1x from each other seat for
// a non-dealer winner. Pao liability applies only to a yakuman hand.
// dealerSeat is the current hand's dealer regardless of who won;
// loserSeat is ignored for tsumo.
func Score(h Hand, fu int, dealerSeat, winnerSeat, loserSeat int, tsumo bool, honba, riichiSticks int, r rules.Rules) Points {
	base := 0
	if h.YakumanMultiplier > 0 {
		base = 8000 * h.YakumanMultiplier
	} else {
		base = baseFromHanFu(h.Han, fu, r)
	}

	pts := Points{Hand: h, Fu: fu, Base: base}
	dealerWinner := winnerSeat == dealerSeat
	liable := r.YakumanPaoEnabled && h.YakumanMultiplier > 0 && h.Pao != NoPao
	pao := int(h.Pao)

	if tsumo {
		for seat := 0; seat < 4; seat++ {
			if seat == winnerSeat {
				continue
			}
			var share int
			switch {
			case dealerWinner:
				share = roundUp100(base * 2)
			case seat == dealerSeat:
				share = roundUp100(base * 2)
			default:
				share = roundUp100(base)
			}
			share += honba * 100
			payer := seat
			// The dealer's own share always stays with the dealer; every
			// other seat's share — the "non-dealer halves" — moves to the
			// liable seat instead. A liable dealer ends up absorbing the
			// whole payment, same as a liable ron target below.
			if liable && seat != dealerSeat {
				payer = pao
			}
			pts.Payments[payer] -= share
			pts.Payments[winnerSeat] += share
		}
	} else {
		mult := 4
		if dealerWinner {
			mult = 6
		}
		amount := roundUp100(base*mult) + honba*300
		payer := loserSeat
		if liable {
			payer = pao
		}
		pts.Payments[payer] -= amount
		pts.Payments[winnerSeat] += amount
	}

	pts.Payments[winnerSeat] += riichiSticks * 1000
	return pts
}

func roundUp100(v int) int {
	if v%100 == 0 {
		return v
	}
	return v + (100 - v%100)
}
