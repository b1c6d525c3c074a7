package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/lightninglabs/muda/metrics"
	"github.com/lightninglabs/muda/monitoring"
	"github.com/lightninglabs/muda/simulation"
	"github.com/lightningnetwork/lnd/build"
	"github.com/lightningnetwork/lnd/signal"
)

type runCommand struct {
	cfg *config
}

func (x *runCommand) Execute(_ []string) error {
	// Hook interceptor for os signals.
	shutdownInterceptor, err := signal.Intercept()
	if err != nil {
		return err
	}

	logWriter := build.NewRotatingLogWriter()
	setupLoggers(logWriter, shutdownInterceptor)

	// Special show command to list supported subsystems and exit.
	if x.cfg.DebugLevel == "show" {
		fmt.Printf("Supported subsystems: %v\n",
			logWriter.SupportedSubsystems())
		os.Exit(0)
	}

	if err := initLogging(x.cfg, logWriter); err != nil {
		return err
	}

	if err := x.cfg.validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stop handing out auctions as soon as we're asked to shut down.
	go func() {
		select {
		case <-shutdownInterceptor.ShutdownChannel():
			log.Infof("Received shutdown signal, stopping simulation")
			cancel()

		case <-ctx.Done():
		}
	}()

	return simulate(ctx, x.cfg)
}

func initLogging(cfg *config, logWriter *build.RotatingLogWriter) error {
	// Initialize logging at the default logging level.
	err := logWriter.InitLogRotator(
		filepath.Join(cfg.LogDir, defaultLogFilename),
		cfg.MaxLogFileSize, cfg.MaxLogFiles,
	)
	if err != nil {
		return err
	}

	return build.ParseAndSetDebugLevels(cfg.DebugLevel, logWriter)
}

// observers fans every observed auction out to several observers.
type observers []simulation.Observer

// ObserveAuction hands the row to all observers in order.
//
// NOTE: This is part of the simulation.Observer interface.
func (o observers) ObserveAuction(row *simulation.Row) {
	for _, observer := range o {
		observer.ObserveAuction(row)
	}
}

// prepareAuctions reads the auctions of a run from the configured order book,
// or generates random ones, and applies the replication and sampling settings
// to them.
func prepareAuctions(cfg *config) ([]*simulation.Auction, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	var (
		auctions []*simulation.Auction
		err      error
	)
	if cfg.OrderBook.File != "" {
		auctions, err = simulation.LoadOrderBook(cfg.OrderBook)
	} else {
		auctions, err = simulation.RandomAuctions(
			rng, cfg.Auctions, cfg.Random,
		)
	}
	if err != nil {
		return nil, err
	}

	for i, auction := range auctions {
		if cfg.Replicas > 1 {
			auction = simulation.ReplicateAuction(
				auction, cfg.Replicas,
			)
		}
		if cfg.Sample > 0 {
			auction = simulation.SampleAuction(
				rng, auction, cfg.Sample,
			)
		}

		auctions[i] = auction
	}

	return auctions, nil
}

// simulate runs the whole simulation described by the config and reports
// its results.
func simulate(ctx context.Context, cfg *config) error {
	auctions, err := prepareAuctions(cfg)
	if err != nil {
		return err
	}

	exporter := monitoring.NewPrometheusExporter(cfg.Prometheus)
	if err := exporter.Start(); err != nil {
		return fmt.Errorf("unable to start prometheus exporter: %v",
			err)
	}

	metricsManager := metrics.NewManager()
	runner := simulation.NewRunner(&simulation.RunnerConfig{
		Workers:   cfg.Workers,
		Seed:      cfg.Seed,
		Mechanism: cfg.Mechanism,
		Observer:  observers{metricsManager, exporter},
	})

	var source interface{} = cfg.Random
	if cfg.OrderBook.File != "" {
		source = cfg.OrderBook.File
	}
	log.Infof("Simulating %d auctions (%v) on %d workers", len(auctions),
		source, cfg.Workers)

	rows, err := runner.Run(ctx, auctions)
	if err != nil {
		return err
	}

	if err := writeRows(cfg.OutputFile, rows); err != nil {
		return fmt.Errorf("unable to write results: %v", err)
	}

	efficiency, err := metricsManager.GenerateEfficiencyMetric()
	if err != nil {
		return err
	}
	log.Infof("MUDA efficiency: %v", efficiency)
	fmt.Println(efficiency)

	return exporter.WriteTextfile()
}

// writeRows writes the rows as CSV to the given file, or to stdout if the
// path is "-".
func writeRows(path string, rows []*simulation.Row) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		err := os.MkdirAll(filepath.Dir(path), os.ModePerm)
		if err != nil {
			return err
		}

		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()

		w = f
		log.Infof("Writing %d rows to %v", len(rows), path)
	}

	return simulation.WriteCSV(w, rows)
}
