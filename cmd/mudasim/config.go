package main

import (
	"fmt"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/lightninglabs/muda"
	"github.com/lightninglabs/muda/monitoring"
	"github.com/lightninglabs/muda/simulation"
)

const (
	// defaultConfigFilename is the default file name for the configuration
	// file of the simulator.
	defaultConfigFilename = "mudasim.conf"

	// defaultLogLevel is the default log level that is used for all loggers
	// and sub systems.
	defaultLogLevel = "info"

	// defaultLogDirname is the default directory name where the log files
	// will be stored.
	defaultLogDirname = "logs"

	// defaultLogFilename is the default file name for the simulator log
	// file.
	defaultLogFilename = "mudasim.log"

	// defaultMaxLogFiles is the default number of log files to keep.
	defaultMaxLogFiles = 3

	// defaultMaxLogFileSize is the default file size of 10 MB that a log
	// file can grow to before it is rotated.
	defaultMaxLogFileSize = 10

	// defaultOutputFilename is the name of the CSV file the rows are
	// written to.
	defaultOutputFilename = "results.csv"

	// defaultMetricsFilename is the name of the prometheus text file.
	defaultMetricsFilename = "mudasim.prom"
)

var (
	// defaultBaseDir is the default main directory of the simulator,
	// ~/.mudasim. Below it the config file, the logs and the results are
	// stored.
	defaultBaseDir = btcutil.AppDataDir("mudasim", false)

	defaultLogDir = filepath.Join(defaultBaseDir, defaultLogDirname)
)

type config struct {
	BaseDir string `long:"basedir" description:"The base directory where mudasim stores its config, logs and results"`

	LogDir         string `long:"logdir" description:"Directory to log output."`
	MaxLogFiles    int    `long:"maxlogfiles" description:"Maximum logfiles to keep (0 for no rotation)"`
	MaxLogFileSize int    `long:"maxlogfilesize" description:"Maximum logfile size in MB"`

	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`

	Auctions   int    `long:"auctions" description:"Number of random auctions to simulate"`
	Replicas   int    `long:"replicas" description:"If greater than 1, every random auction is replaced by that many copies of its traders"`
	Sample     int    `long:"sample" description:"If set, every auction is replaced by a random sample of that many of its traders"`
	Workers    int    `long:"workers" description:"Number of auctions simulated in parallel"`
	Seed       int64  `long:"seed" description:"Seed of all random sources"`
	OutputFile string `long:"output" description:"CSV file the per auction results are written to, - for stdout"`

	Mechanism  *muda.Config                 `group:"mechanism" namespace:"mechanism"`
	Random     *simulation.RandomConfig     `group:"random" namespace:"random"`
	OrderBook  *simulation.OrderBookConfig  `group:"orderbook" namespace:"orderbook"`
	Prometheus *monitoring.PrometheusConfig `group:"prometheus" namespace:"prometheus"`
}

// defaultConfig returns a config with all default values set.
func defaultConfig() *config {
	return &config{
		BaseDir:        defaultBaseDir,
		LogDir:         defaultLogDir,
		MaxLogFiles:    defaultMaxLogFiles,
		MaxLogFileSize: defaultMaxLogFileSize,
		DebugLevel:     defaultLogLevel,
		Auctions:       100,
		Workers:        4,
		Seed:           1,
		OutputFile: filepath.Join(
			defaultBaseDir, defaultOutputFilename,
		),
		// Both rules are off so that either one can be selected on
		// the command line. validate enables both if none is set.
		Mechanism: &muda.Config{},
		Random:    simulation.DefaultRandomConfig(),
		OrderBook: &simulation.OrderBookConfig{},
		Prometheus: &monitoring.PrometheusConfig{
			TextfilePath: filepath.Join(
				defaultBaseDir, defaultMetricsFilename,
			),
		},
	}
}

// validate checks the config for values the simulator can't run with. If
// no clearing rule was selected, both are enabled.
func (c *config) validate() error {
	if !c.Mechanism.Lottery && !c.Mechanism.Vickrey {
		c.Mechanism.Lottery = true
		c.Mechanism.Vickrey = true
	}

	switch {
	case c.OrderBook.File == "" && c.Auctions <= 0:
		return fmt.Errorf("need at least one auction, got %d",
			c.Auctions)

	case c.Workers <= 0:
		return fmt.Errorf("need at least one worker, got %d", c.Workers)

	case c.Replicas < 0:
		return fmt.Errorf("invalid number of replicas %d", c.Replicas)

	case c.Sample < 0:
		return fmt.Errorf("invalid sample size %d", c.Sample)
	}

	// The random generator is unused when auctions come from an order
	// book.
	if c.OrderBook.File != "" {
		return nil
	}

	return c.Random.Validate()
}
