package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/findpair/internal/daily"
	"github.com/robalobadob/findpair/internal/game"
)

func playCmd(cfg *config) *cobra.Command {
	var (
		size    int
		seed    uint64
		isDaily bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
			return play(cmd.InOrStdin(), cmd.OutOrStdout(), size, dealOptions(*cfg, seed, isDaily, time.Now()))
		},
	}
	cmd.Flags().IntVarP(&size, "size", "s", 4, "grid size (n for an n×n board)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "fixed shuffle seed (0 = random)")
	cmd.Flags().BoolVar(&isDaily, "daily", false, "deal the daily board for now's UTC date")
	return cmd
}

// dealOptions picks the shuffle source for each deal: the daily board for
// now, a fixed seed, or a fresh random board.
func dealOptions(cfg config, seed uint64, isDaily bool, now time.Time) func() game.Options {
	switch {
	case isDaily:
		return func() game.Options {
			return game.Options{Rand: daily.Rand(now, cfg.DailySalt)}
		}
	case seed != 0:
		return func() game.Options {
			return game.Options{Rand: rand.New(rand.NewPCG(seed, seed))}
		}
	}
	return func() game.Options { return game.Options{} }
}

// play runs an interactive game: one card index per line, "r" restarts,
// "q" quits. newOpts is called for every deal.
func play(in io.Reader, out io.Writer, size int, newOpts func() game.Options) error {
	b, err := game.NewWithOptions(size, newOpts())
	if err != nil {
		return err
	}
	if size*size%2 == 1 {
		log.Warn().Int("size", size).Msg("odd card count: one card can never be matched")
	}

	fmt.Fprintf(out, "%d × %d Game\n", size, size)
	sc := bufio.NewScanner(in)
	for {
		if err := b.Render(out); err != nil {
			return err
		}
		fmt.Fprint(out, "tap> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "q", "quit":
			return nil
		case "r", "restart":
			if b, err = game.NewWithOptions(size, newOpts()); err != nil {
				return err
			}
			fmt.Fprintln(out, "Restarted.")
			continue
		}

		idx, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(out, "not a card index: %q\n", line)
			continue
		}
		outcome, err := b.Tap(idx)
		if errors.Is(err, game.ErrInvalidArgument) {
			fmt.Fprintf(out, "pick a card between 0 and %d\n", len(b.Cards)-1)
			continue
		}
		if err != nil {
			return err
		}
		switch outcome {
		case game.OutcomeMatched:
			fmt.Fprintln(out, "Match!")
		case game.OutcomeMismatch:
			fmt.Fprintln(out, "No match.")
		case game.OutcomeWon:
			if err := b.Render(out); err != nil {
				return err
			}
			fmt.Fprintln(out, "🎉 You Win! 🎉")
			fmt.Fprintln(out, "Congratulations, you found all pairs! (r to play again, q to quit)")
		}
	}
}
