package main

import (
	"bytes"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/findpair/internal/daily"
	"github.com/robalobadob/findpair/internal/game"
)

func seededOpts() game.Options {
	return game.Options{Alphabet: []string{"A", "B", "C", "D"}, Rand: rand.New(rand.NewPCG(5, 6))}
}

func TestPlayToWin(t *testing.T) {
	b, err := game.NewWithOptions(2, seededOpts())
	if err != nil {
		t.Fatal(err)
	}
	positions := map[string][]int{}
	for _, c := range b.Cards {
		positions[c.Symbol] = append(positions[c.Symbol], c.Index)
	}
	var in strings.Builder
	in.WriteString("x\n9\n")
	for _, idx := range positions {
		in.WriteString(strconv.Itoa(idx[0]) + "\n" + strconv.Itoa(idx[1]) + "\n")
	}
	in.WriteString("q\n")

	var out bytes.Buffer
	if err := play(strings.NewReader(in.String()), &out, 2, seededOpts); err != nil {
		t.Fatalf("play: %v", err)
	}
	got := out.String()
	for _, want := range []string{"2 × 2 Game", "not a card index", "pick a card between 0 and 3", "Match!", "You Win!"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPlayStopsAtEOF(t *testing.T) {
	var out bytes.Buffer
	if err := play(strings.NewReader("0\nr\n"), &out, 2, seededOpts); err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.Contains(out.String(), "Restarted.") {
		t.Fatalf("expected restart message:\n%s", out.String())
	}
}

func TestPlayRejectsBadSize(t *testing.T) {
	if err := play(strings.NewReader(""), &bytes.Buffer{}, 0, seededOpts); err == nil {
		t.Fatal("expected error for size 0")
	}
}

func TestDealOptionsDailyUsesConfiguredSalt(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	alphabet := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	deal := func(opts game.Options) string {
		opts.Alphabet = alphabet
		b, err := game.NewWithOptions(4, opts)
		if err != nil {
			t.Fatal(err)
		}
		return symbolsOf(b)
	}

	got := deal(dealOptions(config{DailySalt: "salt-a"}, 0, true, now)())
	if want := deal(game.Options{Rand: daily.Rand(now, "salt-a")}); got != want {
		t.Fatalf("daily deal ignores configured salt:\n%s\nwant\n%s", got, want)
	}
	if again := deal(dealOptions(config{DailySalt: "salt-a"}, 0, true, now)()); again != got {
		t.Fatal("daily deal is not deterministic")
	}
}

func TestDealOptionsSeed(t *testing.T) {
	opts := dealOptions(config{}, 7, false, time.Now())
	a, _ := game.NewWithOptions(4, opts())
	b, _ := game.NewWithOptions(4, opts())
	if symbolsOf(a) != symbolsOf(b) {
		t.Fatal("same seed dealt different boards")
	}
}

func symbolsOf(b *game.Board) string {
	var sb strings.Builder
	for _, c := range b.Cards {
		sb.WriteString(c.Symbol)
	}
	return sb.String()
}
