package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/they4kman/sweepcore/director/constraint"
	"github.com/they4kman/sweepcore/director/random"
	"github.com/they4kman/sweepcore/game"
)

var log = logrus.New()

var (
	gameConfig   = game.NewGameConfig()
	directorKind = noDirector
	configPath   string
	presetName   string
	snapshotPath string
	logLevel     string
	logFormat    string
)

var rootCmd = &cobra.Command{
	Use:   "sweepcore",
	Short: "Play manual or computer-driven Minesweeper in the terminal",
	Long: `sweepcore is a Minesweeper game which supports human- or
computer-driven playing.

Run with no arguments to play manually
	sweepcore

Use the director flag to make the computer play for you
	sweepcore --director constraint
`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runPlay,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln(err)
		os.Exit(1)
	}
}

// setup merges the config file under the flags and configures logging.
func setup(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	for _, logger := range []*logrus.Logger{log, game.Log} {
		logger.SetLevel(level)
		switch logFormat {
		case "json":
			logger.SetFormatter(&logrus.JSONFormatter{})
		case "text":
			logger.SetFormatter(&logrus.TextFormatter{})
		default:
			return fmt.Errorf("invalid log format %q", logFormat)
		}
	}

	flags := cmd.Flags()
	if configPath != "" {
		fileConfig := game.NewGameConfig()
		if err := game.ReadConfig(configPath, &fileConfig); err != nil {
			return err
		}
		overlayUnchanged(cmd, &fileConfig)
	}

	if presetName != "" {
		explicit := gameConfig
		if err := gameConfig.ApplyPreset(presetName); err != nil {
			return err
		}
		// explicit dimension flags win over the preset
		if flags.Changed("width") {
			gameConfig.Width = explicit.Width
		}
		if flags.Changed("height") {
			gameConfig.Height = explicit.Height
		}
		if flags.Changed("mines") {
			gameConfig.NumHazards = explicit.NumHazards
		}
	}

	if snapshotPath != "" {
		snapshot, err := game.ReadSnapshot(snapshotPath)
		if err != nil {
			return err
		}
		gameConfig.Snapshot = snapshot
	}

	log.WithFields(gameConfig.Fields()).Debug("configured")
	return nil
}

// overlayUnchanged copies file values into gameConfig for every setting not
// given on the command line.
func overlayUnchanged(cmd *cobra.Command, fileConfig *game.GameConfig) {
	flags := cmd.Flags()
	if !flags.Changed("width") {
		gameConfig.Width = fileConfig.Width
	}
	if !flags.Changed("height") {
		gameConfig.Height = fileConfig.Height
	}
	if !flags.Changed("mines") {
		gameConfig.NumHazards = fileConfig.NumHazards
	}
	if !flags.Changed("seed") {
		gameConfig.Seed = fileConfig.Seed
	}
	if !flags.Changed("snapshots-dir") {
		gameConfig.SavedSnapshotsDir = fileConfig.SavedSnapshotsDir
	}
	if !flags.Changed("fresh") {
		gameConfig.LoadSnapshotFresh = fileConfig.LoadSnapshotFresh
	}
}

type directorValue string

const (
	noDirector         directorValue = "none"
	randomDirector     directorValue = "random"
	constraintDirector directorValue = "constraint"
)

func (kind *directorValue) String() string {
	return string(*kind)
}

func (kind *directorValue) Set(value string) error {
	switch directorValue(value) {
	case noDirector, randomDirector, constraintDirector:
		*kind = directorValue(value)
		return nil
	default:
		return fmt.Errorf("invalid director %q", value)
	}
}

func (kind *directorValue) Type() string {
	return "director"
}

func (kind directorValue) create(seed uint64) game.Director {
	switch kind {
	case randomDirector:
		return random.New(seed)
	case constraintDirector:
		return constraint.New(seed)
	default:
		return nil
	}
}

func init() {
	// Define our root -help without a shorthand, as we'll use -h for --height
	// Ref: https://github.com/spf13/cobra/issues/291
	rootCmd.PersistentFlags().Bool("help", false, "Help for this command")

	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&gameConfig.Width, "width", "w", gameConfig.Width, "Width of game grid, in cells")
	flags.IntVarP(&gameConfig.Height, "height", "h", gameConfig.Height, "Height of game grid, in cells")
	flags.IntVarP(&gameConfig.NumHazards, "mines", "m", gameConfig.NumHazards, "Number of mines to place in the game grid")
	flags.StringVar(&presetName, "preset", "", "Grid preset: "+strings.Join(game.PresetNames(), ", "))
	flags.Uint64Var(&gameConfig.Seed, "seed", 0, "Seed for mine placement (0 picks one from the clock)")
	flags.StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	flags.StringVar(&snapshotPath, "snapshot", "", "Path to a round snapshot to play")
	flags.BoolVar(&gameConfig.LoadSnapshotFresh, "fresh", true, "Hide every cell when loading the snapshot")
	flags.StringVar(&gameConfig.SavedSnapshotsDir, "snapshots-dir", "", "Directory where final round snapshots are saved")
	flags.VarP(&directorKind, "director", "d", `Make the computer play.
random: clicks hidden cells at random
constraint: deduces safe cells from hints, guessing only when it must`)
	flags.StringVar(&logLevel, "log-level", "warning", "Log level")
	flags.StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(playCmd, benchCmd, snapshotCmd)
}
