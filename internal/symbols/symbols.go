// internal/symbols/symbols.go
//
// Provides the symbol alphabet dealt onto FindPair boards.
//
// Responsibilities:
//   - Load the alphabet from SYMBOLS_FILE or fall back to the embedded default.
//   - Normalize lists: trim, skip blanks and "#" comments, drop duplicates.
//   - Supply Alphabet() and Count() to the game engine and HTTP layer.
//
// Environment variables:
//   SYMBOLS_FILE=/path/to/symbols.txt
//
// Constraints:
//   • Symbols are arbitrary non-empty strings (normally one emoji each).
//   • Initialization is run once (sync.Once).

package symbols

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/findpair/assets"
)

// fallback keeps the engine usable if the embedded list cannot be read.
var fallback = []string{"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼"}

var (
	initOnce   sync.Once
	alphabet   []string
	initialErr error
)

// Init loads the alphabet exactly once.
// Returns an error if SYMBOLS_FILE cannot be read or yields fewer than one symbol.
func Init() error {
	initOnce.Do(func() {
		var list []string
		var err error
		if path := os.Getenv("SYMBOLS_FILE"); path != "" {
			list, err = LoadFile(path)
		} else {
			list, err = assets.SymbolsList()
			list = Normalize(list)
		}
		if err != nil {
			initialErr = err
			alphabet = fallback
			return
		}
		if len(list) == 0 {
			initialErr = errors.New("symbols: alphabet is empty")
			alphabet = fallback
			return
		}
		alphabet = list
	})
	return initialErr
}

// Alphabet returns a copy of the loaded alphabet, loading it on first use.
func Alphabet() []string {
	_ = Init()
	return append([]string(nil), alphabet...)
}

// Count returns the size of the loaded alphabet.
func Count() int {
	_ = Init()
	return len(alphabet)
}

// LoadFile reads one symbol per line from path.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads one symbol per line, skipping blanks and comments.
func Parse(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return Normalize(out), nil
}

// Normalize trims entries and drops blanks, comments and duplicates,
// preserving first-seen order.
func Normalize(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
