// internal/game/engine.go
//
// Core game engine for a single FindPair session.
// Responsibilities:
//   - Build n×n boards of shuffled symbol pairs.
//   - Apply taps: reveal, match, lazily flip back mismatches.
//   - Detect the win transition (reported exactly once).
//
// Notes:
//   - The default alphabet is provided by the symbols package.
//   - Every board owns its random source; nothing here touches global state.
//   - A mismatched pair stays face up until the next tap ("peek" timing).
package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/robalobadob/findpair/internal/symbols"
)

// MaxGridSize is the largest grid dimension New accepts.
const MaxGridSize = 64

// Options customise board generation. Zero values select the defaults.
type Options struct {
	Alphabet []string   // Distinct symbols; defaults to symbols.Alphabet().
	Rand     *rand.Rand // Shuffle source; defaults to a fresh PCG seeded from crypto/rand.
}

// New builds a fresh gridSize×gridSize board with the default alphabet.
func New(gridSize int) (*Board, error) {
	return NewWithOptions(gridSize, Options{})
}

// NewWithOptions builds a fresh board.
//
// Algorithm:
//   - pairCount = floor(n²/2).
//   - Shuffle the alphabet; append further shuffled copies until the pool
//     holds enough symbols (symbols repeat only once the alphabet is used up).
//   - Emit two cards per chosen symbol, then shuffle the whole deck.
//
// For odd n² the spare card gets the next pool symbol and can never be
// matched, so such a board is never won.
func NewWithOptions(gridSize int, opts Options) (*Board, error) {
	if gridSize <= 0 || gridSize > MaxGridSize {
		return nil, fmt.Errorf("%w: grid size %d outside [1,%d]", ErrInvalidArgument, gridSize, MaxGridSize)
	}
	alphabet := opts.Alphabet
	if alphabet == nil {
		alphabet = symbols.Alphabet()
	}
	if len(alphabet) == 0 {
		return nil, fmt.Errorf("%w: empty alphabet", ErrInvalidArgument)
	}
	r := opts.Rand
	if r == nil {
		r = newRand()
	}

	total := gridSize * gridSize
	pairCount := total / 2
	pool := symbolPool(alphabet, pairCount+total%2, r)

	deck := make([]string, 0, total)
	for _, s := range pool[:pairCount] {
		deck = append(deck, s, s)
	}
	if total%2 == 1 {
		deck = append(deck, pool[pairCount])
	}
	r.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	cards := make([]Card, total)
	for i, s := range deck {
		cards[i] = Card{Index: i, Symbol: s}
	}
	return &Board{
		GridSize:  gridSize,
		Cards:     cards,
		Selection: []int{},
	}, nil
}

// symbolPool returns at least n symbols: shuffled copies of the alphabet
// concatenated until long enough.
func symbolPool(alphabet []string, n int, r *rand.Rand) []string {
	pool := make([]string, 0, n+len(alphabet))
	for len(pool) < n {
		batch := append([]string(nil), alphabet...)
		r.Shuffle(len(batch), func(i, j int) { batch[i], batch[j] = batch[j], batch[i] })
		pool = append(pool, batch...)
	}
	return pool
}

// Tap applies a card selection and returns what happened.
//
// Order of rules:
//  1. Out-of-range index → ErrInvalidArgument; matched card → ignored.
//  2. A settled selection of two is cleared first; mismatches flip back.
//  3. A card that is still face up is ignored.
//  4. The card is revealed; with two face up they either match or wait
//     for the next tap to flip back.
func (b *Board) Tap(index int) (Outcome, error) {
	if index < 0 || index >= len(b.Cards) {
		return OutcomeIgnored, fmt.Errorf("%w: index %d outside [0,%d)", ErrInvalidArgument, index, len(b.Cards))
	}
	if b.Cards[index].Matched {
		return OutcomeIgnored, nil
	}

	if len(b.Selection) == 2 {
		x, y := b.Selection[0], b.Selection[1]
		if b.Cards[x].Symbol != b.Cards[y].Symbol {
			b.Cards[x].Revealed = false
			b.Cards[y].Revealed = false
		}
		b.Selection = b.Selection[:0]
	}

	if b.Cards[index].Revealed {
		return OutcomeIgnored, nil
	}

	b.Cards[index].Revealed = true
	b.Selection = append(b.Selection, index)
	if len(b.Selection) < 2 {
		return OutcomeRevealed, nil
	}

	x, y := b.Selection[0], b.Selection[1]
	if b.Cards[x].Symbol != b.Cards[y].Symbol {
		return OutcomeMismatch, nil
	}
	b.Cards[x].Matched = true
	b.Cards[y].Matched = true
	b.Selection = b.Selection[:0]
	if b.MatchedCount() == len(b.Cards) {
		b.Won = true
		return OutcomeWon, nil
	}
	return OutcomeMatched, nil
}

// MatchedCount returns the number of matched cards.
func (b *Board) MatchedCount() int {
	n := 0
	for _, c := range b.Cards {
		if c.Matched {
			n++
		}
	}
	return n
}

// PairCount returns how many pairs the board was dealt.
func (b *Board) PairCount() int { return len(b.Cards) / 2 }

// Pending reports whether a mismatched pair is waiting to flip back.
func (b *Board) Pending() bool { return len(b.Selection) == 2 }

// Clone returns a deep copy that shares no slices with b.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	out := *b
	out.Cards = append([]Card(nil), b.Cards...)
	out.Selection = append([]int{}, b.Selection...)
	return &out
}

// Render writes the board as a text grid, one row per line.
// Hidden cards print as "??", face-up cards as their symbol and
// matched cards as "[symbol]".
func (b *Board) Render(w io.Writer) error {
	var sb strings.Builder
	for row := 0; row < b.GridSize; row++ {
		for col := 0; col < b.GridSize; col++ {
			c := b.Cards[row*b.GridSize+col]
			if col > 0 {
				sb.WriteByte(' ')
			}
			switch {
			case c.Matched:
				fmt.Fprintf(&sb, "%2d:[%s]", c.Index, c.Symbol)
			case c.Revealed:
				fmt.Fprintf(&sb, "%2d: %s ", c.Index, c.Symbol)
			default:
				fmt.Fprintf(&sb, "%2d: ?? ", c.Index)
			}
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// String renders the board (see Render).
func (b *Board) String() string {
	var sb strings.Builder
	_ = b.Render(&sb)
	return sb.String()
}

// entropy seeds fresh boards.
var entropy io.Reader = crand.Reader

// newRand returns a PCG source seeded from entropy. If entropy fails it
// falls back to the runtime-seeded math/rand/v2 generator.
func newRand() *rand.Rand {
	var seed [16]byte
	if _, err := io.ReadFull(entropy, seed[:]); err != nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(seed[:8]), binary.LittleEndian.Uint64(seed[8:])))
}
