package symbols

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSkipsCommentsBlanksAndDuplicates(t *testing.T) {
	in := "# animals\n🐶\n\n  🐱  \n🐶\n# trailing\n🐭\n"
	got, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"🐶", "🐱", "🐭"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.txt")
	if err := os.WriteFile(path, []byte("A\nB\nC\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 3 || got[0] != "A" || got[2] != "C" {
		t.Fatalf("unexpected list %v", got)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAlphabetDefaultIsEmbeddedList(t *testing.T) {
	if os.Getenv("SYMBOLS_FILE") != "" {
		t.Skip("SYMBOLS_FILE overrides the embedded list")
	}
	a := Alphabet()
	if len(a) != 24 || Count() != 24 {
		t.Fatalf("expected 24 embedded symbols, got %d", len(a))
	}
	a[0] = "mutated"
	if Alphabet()[0] == "mutated" {
		t.Fatal("Alphabet must return a copy")
	}
}
