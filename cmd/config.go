package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/they4kman/gosweep/v2/game"
)

// configFile mirrors the root flags. Unset keys keep the defaults.
type configFile struct {
	Difficulty    string         `yaml:"difficulty"`
	Width         *int           `yaml:"width"`
	Height        *int           `yaml:"height"`
	Mines         *int           `yaml:"mines"`
	Mode          *game.GameMode `yaml:"mode"`
	Seed          int64          `yaml:"seed"`
	SaveSnapshots string         `yaml:"save_snapshots"`
	LogLevel      string         `yaml:"log_level"`
}

func loadConfigFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var file configFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &file, nil
}

func (file *configFile) apply(config game.GameConfig) (game.GameConfig, error) {
	if file.Difficulty != "" {
		difficulty, err := game.ParseDifficulty(file.Difficulty)
		if err != nil {
			return config, err
		}
		config = config.WithDifficulty(difficulty)
	}

	if file.Width != nil {
		config.Width = *file.Width
	}
	if file.Height != nil {
		config.Height = *file.Height
	}
	if file.Mines != nil {
		config.NumMines = *file.Mines
	}
	if file.Mode != nil {
		config.Mode = *file.Mode
	}
	if file.Seed != 0 {
		config.Seed = file.Seed
	}
	if file.SaveSnapshots != "" {
		config.SavedSnapshotsDir = file.SaveSnapshots
	}
	return config, nil
}
