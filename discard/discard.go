// Package discard implements a single seat's discard pile: the ordered
// river of tiles a seat has thrown, with the markers a round needs to
// replay and score it (tsumogiri, riichi-declaring discard,
// called-from direction), plus the O(1) furiten membership index.
package discard

import (
	"fmt"
	"strings"

	"mjcore/corerr"
	"mjcore/tile"
)

// Entry is one discarded tile plus the markers preserved alongside it.
type Entry struct {
	Tile      tile.Tile
	Tsumogiri bool // discarded immediately after drawing, without rearranging the hand
	Riichi    bool // this discard declared riichi
	Called    bool // true once another seat has taken this tile via chi/pon/kan
	Dir       tile.Direction
}

// Pile is a seat's ordered discard river.
type Pile struct {
	entries []Entry
	seen    map[int]bool // normalized ordinal -> ever discarded, for furiten
}

// New returns an empty pile.
func New() *Pile {
	return &Pile{seen: make(map[int]bool)}
}

// Discard appends t to the river. tsumogiri and riichi mark the entry;
// the direction flag is cleared on append (a tile only carries a
// called-from direction once another seat actually claims it, via
// MarkCalled).
func (p *Pile) Discard(t tile.Tile, tsumogiri, riichi bool) {
	p.entries = append(p.entries, Entry{Tile: t, Tsumogiri: tsumogiri, Riichi: riichi})
	p.seen[normalizedOrdinal(t)] = true
}

// MarkCalled attaches dir to the most recent discard, recording that it
// was taken by another seat's call. Errors if the pile is empty or the
// last discard was already called (a tile can only be claimed once).
func (p *Pile) MarkCalled(dir tile.Direction) error {
	if len(p.entries) == 0 {
		return fmt.Errorf("%w: cannot mark a call against an empty discard pile", corerr.ErrIllegalAction)
	}
	last := &p.entries[len(p.entries)-1]
	if last.Called {
		return fmt.Errorf("%w: last discard was already called", corerr.ErrIllegalAction)
	}
	last.Called = true
	last.Dir = dir
	return nil
}

// Contains reports whether t (normalized: red five as an ordinary
// five) has ever appeared in this pile, the furiten test.
func (p *Pile) Contains(t tile.Tile) bool {
	return p.seen[normalizedOrdinal(t)]
}

// Last returns the most recent discard and whether the pile is
// non-empty.
func (p *Pile) Last() (Entry, bool) {
	if len(p.entries) == 0 {
		return Entry{}, false
	}
	return p.entries[len(p.entries)-1], true
}

// Len returns the number of discards, called or not.
func (p *Pile) Len() int { return len(p.entries) }

// Entries returns the river in discard order. The returned slice is
// owned by the caller; mutating it does not affect the pile.
func (p *Pile) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// Clone deep-copies p.
func (p *Pile) Clone() *Pile {
	c := &Pile{
		entries: append([]Entry(nil), p.entries...),
		seen:    make(map[int]bool, len(p.seen)),
	}
	for k, v := range p.seen {
		c.seen[k] = v
	}
	return c
}

func normalizedOrdinal(t tile.Tile) int {
	if t.IsNumbered() && t.NormalizedNum() == 5 {
		return tile.Tile{Suit: t.Suit, Num: 5}.Ordinal()
	}
	return t.Ordinal()
}

// String renders the pile per the discard-token grammar: each tile
// followed by its markers in order (tsumogiri `_`, riichi `*`, a
// called-from direction flag), space-separated in discard order.
func (p *Pile) String() string {
	var b strings.Builder
	for i, e := range p.entries {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.Tile.String())
		if e.Tsumogiri {
			b.WriteByte('_')
		}
		if e.Riichi {
			b.WriteByte('*')
		}
		if e.Called {
			b.WriteByte(e.Dir.Flag())
		}
	}
	return b.String()
}

// FromString parses a pile rendered by String.
func FromString(s string) (*Pile, error) {
	p := New()
	if s == "" {
		return p, nil
	}
	for _, tok := range strings.Fields(s) {
		if len(tok) < 2 {
			return nil, fmt.Errorf("%w: discard token %q too short", corerr.ErrInvalidNotation, tok)
		}
		body := tok[:2]
		t, err := tile.Parse(body)
		if err != nil {
			return nil, err
		}
		e := Entry{Tile: t}
		for _, c := range tok[2:] {
			switch c {
			case '_':
				e.Tsumogiri = true
			case '*':
				e.Riichi = true
			default:
				dir, ok := tile.ParseDirection(byte(c))
				if !ok {
					return nil, fmt.Errorf("%w: discard token %q has an unrecognized marker %q", corerr.ErrInvalidNotation, tok, string(c))
				}
				e.Called = true
				e.Dir = dir
			}
		}
		p.entries = append(p.entries, e)
		p.seen[normalizedOrdinal(t)] = true
	}
	return p, nil
}
