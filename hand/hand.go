// Package hand implements the mutable concealed-tile-plus-melds hand:
// construction from and serialization to hand text, the mutators a
// round drives it through (draw, discard, call, kan), and the
// legal-move queries the state machine and agents consult before
// every reply.
package hand

import (
	"fmt"
	"strings"

	"mjcore/corerr"
	"mjcore/tile"
)

// Draw marks the hand's pending "must discard" state: either a
// self-drawn tile, or a meld just added by a call (chi/pon/daiminkan/
// ankan/kakan), after which the hand must discard before anything else.
type Draw struct {
	Tile     tile.Tile  // valid when the draw came from the wall
	FromMeld *tile.Meld // valid when the draw marker is a just-called meld
}

// IsMeld reports whether the pending draw is a called meld rather than
// a self-drawn tile.
func (d *Draw) IsMeld() bool { return d != nil && d.FromMeld != nil }

// Hand is the mutable per-seat hand.
type Hand struct {
	Concealed [34]int // per-ordinal counts, red fives folded into their five's slot
	RedFive   [3]int  // count of red fives currently held, indexed by suitIndex(m/p/s)
	Melds     []tile.Meld
	Hidden    int // placeholder tile count, used only by masked views of other seats
	Draw      *Draw
	Riichi    bool
}

// New returns an empty hand (all fields at zero value).
func New() *Hand { return &Hand{} }

func suitIndex(s tile.Suit) int {
	switch s {
	case tile.Man:
		return 0
	case tile.Pin:
		return 1
	case tile.Sou:
		return 2
	default:
		return -1
	}
}

// ConcealedCount returns the number of tiles of ord's kind currently
// held concealed.
func (h *Hand) ConcealedCount(ord int) int { return h.Concealed[ord] }

// ConcealedTotal returns the sum of concealed tile counts (including
// the current draw, if any).
func (h *Hand) ConcealedTotal() int {
	n := 0
	for _, c := range h.Concealed {
		n += c
	}
	return n
}

// TileCount returns the hand's effective size for the 13/14 invariant:
// concealed tiles plus 3 per meld (kan melds count as 3, matching the
// dead-wall-replacement accounting).
func (h *Hand) TileCount() int { return h.ConcealedTotal() + 3*len(h.Melds) }

// Menzen reports whether the hand is concealed: every called meld must
// be an ankan (no direction flag) for menzen to hold.
func (h *Hand) Menzen() bool {
	for _, m := range h.Melds {
		if m.Shape != tile.AnkanShape {
			return false
		}
	}
	return true
}

// IsRiichi reports the hand's riichi flag.
func (h *Hand) IsRiichi() bool { return h.Riichi }

func (h *Hand) addConcealed(t tile.Tile) error {
	if t.IsHidden() {
		return fmt.Errorf("%w: cannot add a hidden placeholder tile to a hand", corerr.ErrInvariantViolation)
	}
	ord := t.Ordinal()
	if h.Concealed[ord] >= 4 {
		return fmt.Errorf("%w: already holding 4 of %s", corerr.ErrInvariantViolation, t)
	}
	h.Concealed[ord]++
	if t.IsRed() {
		h.RedFive[suitIndex(t.Suit)]++
	}
	return nil
}

// removeConcealed removes one tile matching t exactly (red vs ordinary
// five distinguished) from the concealed pile.
func (h *Hand) removeConcealed(t tile.Tile) error {
	ord := t.Ordinal()
	if h.Concealed[ord] <= 0 {
		return fmt.Errorf("%w: no %s held", corerr.ErrInvariantViolation, t)
	}
	if t.IsRed() {
		si := suitIndex(t.Suit)
		if h.RedFive[si] <= 0 {
			return fmt.Errorf("%w: no red five of %c held", corerr.ErrInvariantViolation, byte(t.Suit))
		}
		h.RedFive[si]--
	}
	h.Concealed[ord]--
	return nil
}

// hasRed reports whether the hand holds an unspent red five of suit s.
func (h *Hand) hasRed(s tile.Suit) bool {
	si := suitIndex(s)
	return si >= 0 && h.RedFive[si] > 0
}

// DrawTile adds t to the concealed hand as the pending draw. Errors if the
// hand already has a pending draw (must discard/react first).
func (h *Hand) DrawTile(t tile.Tile) error {
	if h.Draw != nil {
		return fmt.Errorf("%w: hand already holds a pending draw", corerr.ErrIllegalAction)
	}
	if err := h.addConcealed(t); err != nil {
		return err
	}
	h.Draw = &Draw{Tile: t}
	return nil
}

// Discard removes t from the concealed hand, clearing the pending draw
// marker. Riichi locks discards to the current self-draw; a hand that
// just completed a call may discard any concealed tile (kuikae
// restrictions are enforced by the legal-move layer, not here).
func (h *Hand) Discard(t tile.Tile) error {
	if h.Draw == nil {
		return fmt.Errorf("%w: nothing to discard, hand has no pending draw", corerr.ErrIllegalAction)
	}
	if h.Riichi {
		if h.Draw.IsMeld() || !h.Draw.Tile.Equal(t) {
			return fmt.Errorf("%w: riichi locks discards to the drawn tile", corerr.ErrIllegalAction)
		}
	}
	if err := h.removeConcealed(t); err != nil {
		return err
	}
	h.Draw = nil
	return nil
}

// Call adds a chi/pon/daiminkan meld taken from another seat's
// discard, removing the hand's own contributed tiles from the
// concealed pile.
func (h *Hand) Call(m tile.Meld) error {
	if h.Draw != nil {
		return fmt.Errorf("%w: cannot call while a draw is pending", corerr.ErrIllegalAction)
	}
	if h.Riichi {
		return fmt.Errorf("%w: cannot call after riichi", corerr.ErrIllegalAction)
	}
	switch m.Shape {
	case tile.ChiShape, tile.PonShape, tile.DaiminkanShape:
	default:
		return fmt.Errorf("%w: call only accepts chi, pon, or daiminkan", corerr.ErrIllegalAction)
	}
	for i, n := range m.Nums {
		if i == m.CallIndex {
			continue
		}
		if err := h.removeConcealed(tile.Tile{Suit: m.Suit, Num: n}); err != nil {
			return err
		}
	}
	h.Melds = append(h.Melds, m)
	h.Draw = &Draw{FromMeld: &h.Melds[len(h.Melds)-1]}
	return nil
}

// Kan declares an ankan (from the concealed hand) or a kakan (adding
// the fourth tile to an existing pon). Daiminkan is declared via Call,
// not Kan, since it takes its tile from a discard.
func (h *Hand) Kan(m tile.Meld) error {
	switch m.Shape {
	case tile.AnkanShape:
		if h.Draw != nil && h.Draw.IsMeld() {
			return fmt.Errorf("%w: cannot ankan while a call awaits discard", corerr.ErrIllegalAction)
		}
		for _, n := range m.Nums {
			if err := h.removeConcealed(tile.Tile{Suit: m.Suit, Num: n}); err != nil {
				return err
			}
		}
		h.Melds = append(h.Melds, m)
		h.Draw = &Draw{FromMeld: &h.Melds[len(h.Melds)-1]}
		return nil
	case tile.KakanShape:
		if h.Riichi {
			// riichi kakan is never legal: a kakan always changes an
			// already-open meld's shape, which riichi forbids outright.
			return fmt.Errorf("%w: cannot kakan after riichi", corerr.ErrIllegalAction)
		}
		idx := h.findPon(m)
		if idx < 0 {
			return fmt.Errorf("%w: no matching pon to upgrade", corerr.ErrIllegalAction)
		}
		if err := h.removeConcealed(tile.Tile{Suit: m.Suit, Num: m.AddedNum}); err != nil {
			return err
		}
		h.Melds[idx] = m
		h.Draw = &Draw{FromMeld: &h.Melds[idx]}
		return nil
	default:
		return fmt.Errorf("%w: kan only accepts ankan or kakan", corerr.ErrIllegalAction)
	}
}

func (h *Hand) findPon(kakan tile.Meld) int {
	for i, m := range h.Melds {
		if m.Shape != tile.PonShape || m.Suit != kakan.Suit {
			continue
		}
		if m.Nums[0] == kakan.Nums[0] {
			return i
		}
	}
	return -1
}

// Clone deep-copies h.
func (h *Hand) Clone() *Hand {
	c := &Hand{
		Concealed: h.Concealed,
		RedFive:   h.RedFive,
		Hidden:    h.Hidden,
		Riichi:    h.Riichi,
	}
	c.Melds = append([]tile.Meld(nil), h.Melds...)
	if h.Draw != nil {
		d := *h.Draw
		if d.FromMeld != nil {
			// re-point FromMeld at the cloned slice's matching entry.
			for i := range h.Melds {
				if &h.Melds[i] == h.Draw.FromMeld {
					d.FromMeld = &c.Melds[i]
					break
				}
			}
		}
		c.Draw = &d
	}
	return c
}

// Mask returns a read-only-shaped view suitable for broadcasting to
// other seats: concealed tiles are replaced by hidden placeholders,
// melds (public knowledge) and the riichi flag are preserved, and any
// pending self-draw is hidden (a pending called meld remains visible,
// since calls are public).
func (h *Hand) Mask() *Hand {
	c := &Hand{
		Hidden: h.ConcealedTotal(),
		Riichi: h.Riichi,
	}
	c.Melds = append([]tile.Meld(nil), h.Melds...)
	if h.Draw.IsMeld() {
		for i := range c.Melds {
			if c.Melds[i].Suit == h.Draw.FromMeld.Suit && sameNums(c.Melds[i].Nums, h.Draw.FromMeld.Nums) {
				c.Draw = &Draw{FromMeld: &c.Melds[i]}
				break
			}
		}
	}
	return c
}

func sameNums(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FromString parses hand text per the format emitted by String: a
// concealed run per suit (m, p, s, z order, ascending, red five as 0
// sorting before an ordinary five), an optional appended draw tile,
// an optional '*' marking riichi, then comma-separated melds in call
// order, with a trailing empty segment marking that the last meld is
// the pending draw.
func FromString(s string) (*Hand, error) {
	segments := strings.Split(s, ",")
	h := New()

	body := segments[0]
	riichi := false
	if strings.HasSuffix(body, "*") {
		riichi = true
		body = body[:len(body)-1]
	}

	tiles, drawTile, hasDraw, err := parseConcealedRun(body)
	if err != nil {
		return nil, err
	}
	for _, t := range tiles {
		if err := h.addConcealed(t); err != nil {
			return nil, err
		}
	}

	melds := segments[1:]
	trailingEmpty := len(melds) > 0 && melds[len(melds)-1] == ""
	if trailingEmpty {
		melds = melds[:len(melds)-1]
	}
	for _, tok := range melds {
		m, err := tile.ParseMeld(tok)
		if err != nil {
			return nil, err
		}
		h.Melds = append(h.Melds, m)
	}

	switch {
	case trailingEmpty && len(h.Melds) > 0:
		h.Draw = &Draw{FromMeld: &h.Melds[len(h.Melds)-1]}
	case hasDraw:
		if err := h.addConcealed(drawTile); err != nil {
			return nil, err
		}
		h.Draw = &Draw{Tile: drawTile}
	}
	h.Riichi = riichi
	return h, nil
}

// parseConcealedRun scans the pre-melds segment of a hand string,
// returning the sorted concealed tiles (excluding the draw) plus the
// trailing draw tile if the run ends in one that breaks ascending
// order for its suit, or carries an explicit suit-letter switch.
func parseConcealedRun(body string) (sorted []tile.Tile, draw tile.Tile, hasDraw bool, err error) {
	type run struct {
		suit tile.Suit
		nums []int
	}
	var runs []run
	var cur *run
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch tile.Suit(c) {
		case tile.Man, tile.Pin, tile.Sou, tile.Honor:
			runs = append(runs, run{suit: tile.Suit(c)})
			cur = &runs[len(runs)-1]
		default:
			if c < '0' || c > '9' {
				return nil, tile.Tile{}, false, fmt.Errorf("%w: hand text %q has an unexpected character %q", corerr.ErrInvalidNotation, body, string(c))
			}
			if cur == nil {
				return nil, tile.Tile{}, false, fmt.Errorf("%w: hand text %q has a digit before any suit letter", corerr.ErrInvalidNotation, body)
			}
			cur.nums = append(cur.nums, int(c-'0'))
		}
	}

	// The draw tile, if present, is the last digit of the last run,
	// detected either because it breaks the run's ascending order or
	// because it is alone in its own (suit-repeating) run.
	if len(runs) == 0 {
		return nil, tile.Tile{}, false, nil
	}
	last := &runs[len(runs)-1]
	if len(last.nums) == 0 {
		return nil, tile.Tile{}, false, fmt.Errorf("%w: hand text %q ends with a bare suit letter", corerr.ErrInvalidNotation, body)
	}

	extractDraw := false
	if len(runs) >= 2 && runs[len(runs)-2].suit == last.suit && len(last.nums) == 1 {
		extractDraw = true
	} else if len(last.nums) >= 2 && !nonDecreasing(last.nums) {
		extractDraw = true
	}

	if extractDraw {
		n := last.nums[len(last.nums)-1]
		draw = tile.Tile{Suit: last.suit, Num: n}
		hasDraw = true
		last.nums = last.nums[:len(last.nums)-1]
		if len(last.nums) == 0 {
			runs = runs[:len(runs)-1]
		}
	}

	for _, r := range runs {
		for _, n := range r.nums {
			sorted = append(sorted, tile.Tile{Suit: r.suit, Num: n})
		}
	}
	return sorted, draw, hasDraw, nil
}

func nonDecreasing(nums []int) bool {
	norm := func(n int) int {
		if n == 0 {
			return 5
		}
		return n
	}
	for i := 1; i < len(nums); i++ {
		if norm(nums[i]) < norm(nums[i-1]) {
			return false
		}
	}
	return true
}

// String renders h per the format described on FromString. The pending
// self-drawn tile is written last within its own suit's run, so
// FromString reads it back as the pending draw only when that run is
// the last one written and the tile breaks its ascending order;
// otherwise it reads back as an ordinary concealed tile.
func (h *Hand) String() string {
	var b strings.Builder
	lastSuit := tile.Suit(0)
	suits := []tile.Suit{tile.Man, tile.Pin, tile.Sou, tile.Honor}
	drawEmitted := h.Draw == nil || h.Draw.IsMeld()

	writeSuitRun := func(suit tile.Suit, extra *tile.Tile) {
		var nums []int
		start, end := suitRange(suit)
		for ord := start; ord < end; ord++ {
			cnt := h.Concealed[ord]
			t := tile.FromOrdinal(ord)
			redCount := 0
			if t.IsNumbered() && t.NormalizedNum() == 5 {
				redCount = h.RedFive[suitIndex(suit)]
			}
			if extra != nil && extra.Ordinal() == ord {
				// the pending draw is counted in Concealed but written after the run
				cnt--
				if extra.IsRed() {
					redCount--
				}
			}
			for i := 0; i < cnt; i++ {
				if i < redCount {
					nums = append(nums, 0)
					continue
				}
				nums = append(nums, t.Num)
			}
		}
		if extra != nil {
			nums = append(nums, extra.Num)
		}
		if len(nums) == 0 {
			return
		}
		if suit != lastSuit {
			b.WriteByte(byte(suit))
			lastSuit = suit
		}
		for _, n := range nums {
			fmt.Fprintf(&b, "%d", n)
		}
	}

	for _, suit := range suits {
		var extra *tile.Tile
		if !drawEmitted && h.Draw.Tile.Suit == suit {
			extra = &h.Draw.Tile
			drawEmitted = true
		}
		writeSuitRun(suit, extra)
	}
	if h.Riichi {
		b.WriteByte('*')
	}
	for i, m := range h.Melds {
		b.WriteByte(',')
		b.WriteString(m.String())
		if h.Draw.IsMeld() && &h.Melds[i] == h.Draw.FromMeld {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func suitRange(s tile.Suit) (int, int) {
	switch s {
	case tile.Man:
		return 0, 9
	case tile.Pin:
		return 9, 18
	case tile.Sou:
		return 18, 27
	case tile.Honor:
		return 27, 34
	default:
		return 0, 0
	}
}
