package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/they4kman/gosweep/v2/game"
)

var gameConfig = game.NewGameConfig()
var log = logrus.New()

type rootOptions struct {
	width, height, mines int
	difficulty           game.Difficulty
	mode                 game.GameMode
	seed                 int64

	configPath        string
	snapshotPath      string
	savedSnapshotsDir string
	logLevel          string
}

var options rootOptions

var rootCmd = &cobra.Command{
	Use:   "gosweep",
	Short: "Play manual or computer-driven Minesweeper",
	Long: `gosweep is a Minesweeper game which supports human- or
computer-driven playing.

Run with no arguments to play in the terminal
	gosweep

Let the computer play a batch of games
	gosweep auto --games 100 --director constraint

Serve games over HTTP
	gosweep serve --addr :8080
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := buildConfig(cmd.Flags(), options)
		if err != nil {
			return err
		}
		gameConfig = config
		return nil
	},
	RunE: runPlay,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildConfig layers defaults, the config file, then flags the user set
func buildConfig(flags *pflag.FlagSet, opts rootOptions) (game.GameConfig, error) {
	config := game.NewGameConfig()
	logLevel := "info"

	if opts.configPath != "" {
		file, err := loadConfigFile(opts.configPath)
		if err != nil {
			return config, err
		}
		if config, err = file.apply(config); err != nil {
			return config, fmt.Errorf("config file %s: %w", opts.configPath, err)
		}
		if file.LogLevel != "" {
			logLevel = file.LogLevel
		}
	}

	if flags.Changed("difficulty") {
		config = config.WithDifficulty(opts.difficulty)
	}
	if flags.Changed("width") {
		config.Width = opts.width
	}
	if flags.Changed("height") {
		config.Height = opts.height
	}
	if flags.Changed("mines") {
		config.NumMines = opts.mines
	}
	if flags.Changed("mode") {
		config.Mode = opts.mode
	}
	if flags.Changed("seed") {
		config.Seed = opts.seed
	}
	if flags.Changed("save-snapshots") {
		config.SavedSnapshotsDir = opts.savedSnapshotsDir
	}
	if flags.Changed("log-level") {
		logLevel = opts.logLevel
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return config, err
	}
	log.SetLevel(level)
	config.Logger = log

	if opts.snapshotPath != "" {
		data, err := os.ReadFile(opts.snapshotPath)
		if err != nil {
			return config, fmt.Errorf("reading snapshot: %w", err)
		}
		snapshot, err := game.LoadSnapshot(string(data))
		if err != nil {
			return config, fmt.Errorf("loading snapshot %s: %w", opts.snapshotPath, err)
		}
		config.Snapshot = snapshot
	}

	return config, nil
}

type gameModeValue game.GameMode

func newGameModeValue(val game.GameMode, p *game.GameMode) *gameModeValue {
	*p = val
	return (*gameModeValue)(p)
}

func (modeVal *gameModeValue) String() string {
	return game.GameMode(*modeVal).String()
}

func (modeVal *gameModeValue) Set(value string) error {
	mode, err := game.ParseGameMode(value)
	if err != nil {
		return err
	}
	*modeVal = gameModeValue(mode)
	return nil
}

func (modeVal *gameModeValue) Type() string {
	return "mode"
}

type difficultyValue game.Difficulty

func newDifficultyValue(val game.Difficulty, p *game.Difficulty) *difficultyValue {
	*p = val
	return (*difficultyValue)(p)
}

func (difficultyVal *difficultyValue) String() string {
	return difficultyVal.Name
}

func (difficultyVal *difficultyValue) Set(value string) error {
	difficulty, err := game.ParseDifficulty(value)
	if err != nil {
		return err
	}
	*difficultyVal = difficultyValue(difficulty)
	return nil
}

func (difficultyVal *difficultyValue) Type() string {
	return "difficulty"
}

func difficultyNames() string {
	names := make([]string, 0, len(game.Difficulties))
	for name := range game.Difficulties {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func init() {
	log.SetOutput(os.Stderr)

	// Define -help without a shorthand, as we'll use -h for --height. It must be
	// persistent, or each subcommand adds its own -h and collides with ours.
	// Ref: https://github.com/spf13/cobra/issues/291
	rootCmd.PersistentFlags().Bool("help", false, "Help for this command")

	addRootFlags(rootCmd.PersistentFlags(), &options)
}

func addRootFlags(flags *pflag.FlagSet, opts *rootOptions) {
	defaults := game.NewGameConfig()
	flags.IntVarP(&opts.width, "width", "w", defaults.Width, "Width of game board, in cells")
	flags.IntVarP(&opts.height, "height", "h", defaults.Height, "Height of game board, in cells")
	flags.IntVarP(&opts.mines, "mines", "m", defaults.NumMines, "Number of mines to place in the game board")
	flags.Var(newDifficultyValue(game.Difficulties["expert"], &opts.difficulty), "difficulty",
		"Preset board size and mine count ("+difficultyNames()+"); --width, --height and --mines override it")
	flags.Var(newGameModeValue(defaults.Mode, &opts.mode), "mode", `Game mode, controlling behaviour of first click.
classic: a mine under the first click is moved elsewhere
win7: all cells surrounding the first-clicked cell are cleared of mines, when there is room`)
	flags.Int64Var(&opts.seed, "seed", 0, "Seed for mine placement (0 picks one from the clock)")
	flags.StringVar(&opts.configPath, "config", "", "YAML file with default game settings")
	flags.StringVar(&opts.snapshotPath, "snapshot", "", "Start from a saved board snapshot")
	flags.StringVar(&opts.savedSnapshotsDir, "save-snapshots", "", "Directory to save a snapshot of each finished board into")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
}
