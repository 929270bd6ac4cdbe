// Package config loads the server configuration file. Every setting has a
// flag counterpart in cmd/api; the file only provides defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the api server configuration.
type Config struct {
	Addr         string `yaml:"addr"`          // listen address
	OpeningsDir  string `yaml:"openings_dir"`  // directory of repertoire files
	EcoDir       string `yaml:"eco_dir"`       // ECO .tsv directory, empty disables lookup
	PracticeDB   string `yaml:"practice_db"`   // practice results database path
	Stockfish    string `yaml:"stockfish"`     // engine binary, empty disables evaluation
	EvalDepth    int    `yaml:"eval_depth"`    // engine search depth
	EvalThreads  int    `yaml:"eval_threads"`  // engine threads
	EvalHashMB   int    `yaml:"eval_hash_mb"`  // engine hash size
	ImportRating int    `yaml:"import_rating"` // minimum rating for imported games
	ImportDepth  int    `yaml:"import_depth"`  // plies kept per imported game
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:         ":8017",
		OpeningsDir:  "./openings",
		PracticeDB:   "./practice.db",
		EvalDepth:    24,
		EvalThreads:  4,
		EvalHashMB:   256,
		ImportRating: 2000,
		ImportDepth:  12,
	}
}

// Load reads a YAML configuration file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}
