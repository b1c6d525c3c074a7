package main

import (
	"github.com/lightninglabs/muda"
	"github.com/lightninglabs/muda/monitoring"
	"github.com/lightninglabs/muda/simulation"
	"github.com/lightningnetwork/lnd/build"
	"github.com/lightningnetwork/lnd/signal"
)

const Subsystem = "MSIM"

var (
	log = build.NewSubLogger(Subsystem, nil)
)

// setupLoggers registers the loggers of the mechanism and of every package
// the simulator drives with the root log writer.
func setupLoggers(root *build.RotatingLogWriter,
	interceptor signal.Interceptor) {

	muda.SetupLoggers(root, interceptor)

	log = build.NewSubLogger(
		Subsystem, muda.GenSubLogger(root, interceptor),
	)
	muda.SetSubLogger(root, Subsystem, log, nil)

	muda.AddSubLogger(
		root, simulation.Subsystem, interceptor, simulation.UseLogger,
	)
	muda.AddSubLogger(
		root, monitoring.Subsystem, interceptor, monitoring.UseLogger,
	)
}
