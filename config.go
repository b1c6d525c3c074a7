package muda

import (
	"github.com/btcsuite/btclog"
)

// Config holds the knobs of the MUDA mechanism.
type Config struct {
	Lottery bool `long:"lottery" description:"Clear each sub-market with the lottery rule"`
	Vickrey bool `long:"vickrey" description:"Clear each sub-market with the Vickrey rule"`

	// Logger is the logger the mechanism and its solvers trace to. If nil,
	// the package loggers are used.
	Logger btclog.Logger
}

// DefaultConfig returns the default config that runs both clearing rules so
// their outcomes can be compared.
func DefaultConfig() *Config {
	return &Config{
		Lottery: true,
		Vickrey: true,
	}
}
