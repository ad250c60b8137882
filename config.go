package bfcc

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the knobs the CLI exposes, factored out of cmd/bfcc/main.go
// so tests can build a Config directly instead of going through flag
// parsing. Zero value is a usable, conservative default (level 0, no
// partial evaluation, text output to stdout).
type Config struct {
	OptLevel    int
	PartialEval bool
	Profile     bool
	PrettyPrint bool
	EmitLLVM    bool
	NoBinary    bool
	Debug       bool
	OutputPath  string
}

// LoadConfig overlays environment defaults from a .bfcc.env file (if
// present) onto env, then onto a Config built from the given flag values.
// Flags always win over the file, and the file always wins over an absent
// variable — godotenv.Load only sets variables that aren't already present
// in the process environment, so an operator's shell export still takes
// priority over the file too.
func LoadConfig(optLevel int, partialEval, profile, pretty, llvm, noBinary, debug bool, output string) (Config, error) {
	if _, err := os.Stat(".bfcc.env"); err == nil {
		if err := godotenv.Load(".bfcc.env"); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		OptLevel:    optLevel,
		PartialEval: partialEval,
		Profile:     profile,
		PrettyPrint: pretty,
		EmitLLVM:    llvm,
		NoBinary:    noBinary,
		Debug:       debug,
		OutputPath:  output,
	}

	if cfg.OutputPath == "" {
		if v, ok := os.LookupEnv("BFCC_OUTPUT"); ok {
			cfg.OutputPath = v
		}
	}

	return cfg, nil
}
