package muda

import (
	"github.com/btcsuite/btclog"
	"github.com/lightninglabs/muda/venue/matching"
	"github.com/lightningnetwork/lnd/build"
	"github.com/lightningnetwork/lnd/signal"
)

const Subsystem = "MUDA"

var (
	log = build.NewSubLogger(Subsystem, nil)
)

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// SetupLoggers initializes the package-global logger variables of the
// mechanism and the packages it drives.
func SetupLoggers(root *build.RotatingLogWriter, intercept signal.Interceptor) {
	genLogger := GenSubLogger(root, intercept)

	log = build.NewSubLogger(Subsystem, genLogger)

	SetSubLogger(root, Subsystem, log, nil)
	AddSubLogger(root, matching.Subsystem, intercept, matching.UseLogger)
	AddSubLogger(root, "SGNL", intercept, signal.UseLogger)
}

// GenSubLogger creates a logger for a subsystem. We provide an instance of
// a signal.Interceptor to be able to shutdown in the case of a critical error.
func GenSubLogger(root *build.RotatingLogWriter,
	interceptor signal.Interceptor) func(string) btclog.Logger {

	// Create a shutdown function which will request shutdown from our
	// interceptor if it is listening.
	shutdown := func() {
		if !interceptor.Listening() {
			return
		}

		interceptor.RequestShutdown()
	}

	return func(tag string) btclog.Logger {
		return root.GenSubLogger(tag, shutdown)
	}
}

// AddSubLogger is a helper method to conveniently create and register the
// logger of a sub system.
func AddSubLogger(root *build.RotatingLogWriter, subsystem string,
	interceptor signal.Interceptor, useLogger func(btclog.Logger)) {

	logger := build.NewSubLogger(subsystem, GenSubLogger(root, interceptor))
	SetSubLogger(root, subsystem, logger, useLogger)
}

// SetSubLogger is a helper method to conveniently register the logger of a sub
// system.
func SetSubLogger(root *build.RotatingLogWriter, subsystem string,
	logger btclog.Logger, useLogger func(btclog.Logger)) {

	root.RegisterSubLogger(subsystem, logger)
	if useLogger != nil {
		useLogger(logger)
	}
}
