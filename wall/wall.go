// Package wall implements the 136-tile wall: construction and
// shuffling from an injected RNG, live draws, the dead wall's rinshan
// (kan-draw) tiles, and dora/ura-dora indicator reveal.
package wall

import (
	"fmt"

	"mjcore/corerr"
	"mjcore/tile"
)

// RNG is the only randomness the core consumes: a uniform float in
// [0,1), matching math/rand.Rand's Float64 method so the standard
// library's generator satisfies this directly.
type RNG interface {
	Float64() float64
}

const (
	tileCount    = 136
	deadWallSize = 14
	liveCount0   = tileCount - deadWallSize
)

// dead-wall slot layout: 0-3 rinshan, 4/6/8/10/12 dora indicators,
// 5/7/9/11/13 ura-dora indicators.
func doraSlot(reveal int) int { return 4 + 2*(reveal-1) } // reveal: 1..5
func uraSlot(reveal int) int  { return 5 + 2*(reveal-1) }

// Config configures the ruleset-dependent parts of wall construction
// and reveal: how many of each suit's four fives substitute as the red
// five, and whether ura-dora / kan-ura / kan-dora are enabled at all.
type Config struct {
	RedFives       int // 0-4 aka-dora per numbered suit
	UraEnabled     bool
	KanUraEnabled  bool
	KanDoraEnabled bool
}

// Wall is the mutable wall for one round.
type Wall struct {
	live    []tile.Tile
	liveIdx int
	dead    [deadWallSize]tile.Tile

	rinshanIdx int // next rinshan slot to pop, 0..4

	doraRevealed   int // 1..5, includes the always-visible initial indicator
	doraIndicators []tile.Tile
	pendingUra     []tile.Tile // kan-ura indicators revealed mid-round, hidden until Close
	uraIndicators  []tile.Tile // populated by Close

	kanPending bool
	closed     bool

	cfg Config
}

// New shuffles a fresh 136-tile wall using rng and returns it ready for
// play: the live wall, the sealed-off dead wall, and the initial dora
// indicator already revealed.
func New(rng RNG, cfg Config) *Wall {
	deck := newDeck(cfg.RedFives)
	shuffled := shuffle(rng, deck)

	w := &Wall{
		live: append([]tile.Tile(nil), shuffled[:liveCount0]...),
		cfg:  cfg,
	}
	copy(w.dead[:], shuffled[liveCount0:])
	w.doraRevealed = 1
	w.doraIndicators = append(w.doraIndicators, w.dead[doraSlot(1)])
	return w
}

func newDeck(redFives int) []tile.Tile {
	if redFives < 0 {
		redFives = 0
	}
	if redFives > 4 {
		redFives = 4
	}
	deck := make([]tile.Tile, 0, tileCount)
	for _, suit := range []tile.Suit{tile.Man, tile.Pin, tile.Sou} {
		for n := 1; n <= 9; n++ {
			for i := 0; i < 4; i++ {
				if n == 5 && i < redFives {
					deck = append(deck, tile.Tile{Suit: suit, Num: 0})
					continue
				}
				deck = append(deck, tile.Tile{Suit: suit, Num: n})
			}
		}
	}
	for n := tile.East; n <= tile.Red; n++ {
		for i := 0; i < 4; i++ {
			deck = append(deck, tile.Tile{Suit: tile.Honor, Num: n})
		}
	}
	return deck
}

// shuffle repeatedly draws index floor(rng()*remaining) from the pool
// and moves that tile to the output, per the shuffling algorithm the
// wall is specified to use.
func shuffle(rng RNG, deck []tile.Tile) []tile.Tile {
	remaining := append([]tile.Tile(nil), deck...)
	out := make([]tile.Tile, 0, len(deck))
	for len(remaining) > 0 {
		idx := int(rng.Float64() * float64(len(remaining)))
		if idx < 0 || idx >= len(remaining) {
			idx = len(remaining) - 1
		}
		out = append(out, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return out
}

// Draw pops the next live tile.
func (w *Wall) Draw() (tile.Tile, error) {
	if w.closed {
		return tile.Tile{}, fmt.Errorf("%w: wall is closed", corerr.ErrIllegalAction)
	}
	if w.kanPending {
		return tile.Tile{}, fmt.Errorf("%w: a kan-dora reveal is pending", corerr.ErrIllegalAction)
	}
	if w.liveIdx >= len(w.live) {
		return tile.Tile{}, fmt.Errorf("%w: live wall is exhausted", corerr.ErrIllegalAction)
	}
	t := w.live[w.liveIdx]
	w.liveIdx++
	return t, nil
}

// KanDraw pops the next rinshan tile and sets the kan-pending flag,
// which blocks further draws until RevealKanDora runs.
func (w *Wall) KanDraw() (tile.Tile, error) {
	if w.closed {
		return tile.Tile{}, fmt.Errorf("%w: wall is closed", corerr.ErrIllegalAction)
	}
	if w.kanPending {
		return tile.Tile{}, fmt.Errorf("%w: a kan-dora reveal is pending", corerr.ErrIllegalAction)
	}
	if w.rinshanIdx >= 4 {
		return tile.Tile{}, fmt.Errorf("%w: rinshan tiles are exhausted", corerr.ErrIllegalAction)
	}
	if w.doraRevealed >= 5 {
		return tile.Tile{}, fmt.Errorf("%w: five kan indicators are already visible", corerr.ErrIllegalAction)
	}
	t := w.dead[w.rinshanIdx]
	w.rinshanIdx++
	w.kanPending = true
	return t, nil
}

// RevealKanDora moves the next dora indicator (and, if ura and kan-ura
// are both enabled, the paired ura indicator) into view and clears
// kan-pending. If kan-dora is disabled, the reveal still advances the
// indicator index but records nothing visible, so the visible dora
// count is unchanged.
func (w *Wall) RevealKanDora() error {
	if !w.kanPending {
		return fmt.Errorf("%w: no kan-dora reveal is pending", corerr.ErrIllegalAction)
	}
	w.doraRevealed++
	n := w.doraRevealed
	if w.cfg.KanDoraEnabled {
		w.doraIndicators = append(w.doraIndicators, w.dead[doraSlot(n)])
	}
	if w.cfg.UraEnabled && w.cfg.KanUraEnabled {
		w.pendingUra = append(w.pendingUra, w.dead[uraSlot(n)])
	}
	w.kanPending = false
	return nil
}

// Close seals the wall against further draws and, if ura-dora is
// enabled, exposes the ura-dora indicators (the base indicator plus
// any kan-ura indicators accumulated mid-round).
func (w *Wall) Close() error {
	if w.closed {
		return fmt.Errorf("%w: wall is already closed", corerr.ErrIllegalAction)
	}
	w.closed = true
	if w.cfg.UraEnabled {
		w.uraIndicators = append([]tile.Tile{w.dead[uraSlot(1)]}, w.pendingUra...)
	}
	return nil
}

// LiveCount returns the number of live-wall tiles remaining.
func (w *Wall) LiveCount() int { return len(w.live) - w.liveIdx }

// DoraIndicators returns the currently visible dora indicators, in
// reveal order (index 0 is the initial indicator).
func (w *Wall) DoraIndicators() []tile.Tile {
	return append([]tile.Tile(nil), w.doraIndicators...)
}

// UraDoraIndicators returns the ura-dora indicators exposed by Close;
// nil before the wall is closed or when ura-dora is disabled.
func (w *Wall) UraDoraIndicators() []tile.Tile {
	if len(w.uraIndicators) == 0 {
		return nil
	}
	return append([]tile.Tile(nil), w.uraIndicators...)
}

// KanPending reports whether a kan draw is awaiting RevealKanDora.
func (w *Wall) KanPending() bool { return w.kanPending }

// Closed reports whether the wall has been sealed.
func (w *Wall) Closed() bool { return w.closed }
