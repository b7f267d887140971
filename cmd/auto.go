package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/they4kman/gosweep/v2/director/constraint"
	"github.com/they4kman/gosweep/v2/director/random"
	"github.com/they4kman/gosweep/v2/game"
)

var autoOptions struct {
	games    int
	director string
}

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Let the computer play",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := runAuto(gameConfig, autoOptions.director, autoOptions.games, cmd.OutOrStdout())
		return err
	},
}

func newDirector(name string, seed int64, logger logrus.FieldLogger) (game.Director, error) {
	switch name {
	case "random":
		return random.New(seed), nil
	case "constraint":
		return constraint.New(seed, logger), nil
	default:
		return nil, fmt.Errorf("unknown director %q (expected random or constraint)", name)
	}
}

// runAuto plays numGames rounds with the named director and reports the
// number won
func runAuto(config game.GameConfig, directorName string, numGames int, out io.Writer) (int, error) {
	if numGames <= 0 {
		return 0, fmt.Errorf("--games must be positive, got %d", numGames)
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	session, err := game.NewGame(config)
	if err != nil {
		return 0, err
	}

	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	wins := 0
	for i := 0; i < numGames; i++ {
		if i > 0 {
			if err := session.NewRound(); err != nil {
				return wins, err
			}
		}

		director, err := newDirector(directorName, seed+int64(i), logger)
		if err != nil {
			return wins, err
		}
		if session.Play(director) == game.Won {
			wins++
		}
	}

	winRate := float64(wins) / float64(numGames)
	logger.WithFields(logrus.Fields{
		"director": directorName,
		"games":    numGames,
		"wins":     wins,
		"win_rate": winRate,
	}).Info("auto play finished")

	fmt.Fprintf(out, "won %d of %d games (%.1f%%)\n", wins, numGames, winRate*100)
	return wins, nil
}

func init() {
	autoCmd.Flags().IntVarP(&autoOptions.games, "games", "n", 1, "Number of games to play")
	autoCmd.Flags().StringVarP(&autoOptions.director, "director", "d", "constraint", "Director to play with (random, constraint)")
	rootCmd.AddCommand(autoCmd)
}
