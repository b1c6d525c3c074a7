package main

import (
	"context"
	"encoding/csv"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/lightninglabs/muda/monitoring"
	"github.com/lightninglabs/muda/simulation"
	"github.com/stretchr/testify/require"
)

func testConfig(dir string) *config {
	cfg := defaultConfig()
	cfg.BaseDir = dir
	cfg.LogDir = filepath.Join(dir, defaultLogDirname)
	cfg.OutputFile = filepath.Join(dir, defaultOutputFilename)
	cfg.Auctions = 6
	cfg.Workers = 2
	cfg.Random = &simulation.RandomConfig{
		Traders:   3,
		MinUnits:  1,
		MaxUnits:  2,
		MeanValue: 100,
		MaxNoise:  40,
		Round:     true,
	}
	cfg.Prometheus = &monitoring.PrometheusConfig{
		Active:       true,
		TextfilePath: filepath.Join(dir, defaultMetricsFilename),
	}

	return cfg
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, defaultConfig().validate())

	testCases := []struct {
		name   string
		modify func(*config)
	}{{
		name:   "no auctions",
		modify: func(c *config) { c.Auctions = 0 },
	}, {
		name:   "no workers",
		modify: func(c *config) { c.Workers = 0 },
	}, {
		name:   "negative replicas",
		modify: func(c *config) { c.Replicas = -1 },
	}, {
		name:   "negative sample",
		modify: func(c *config) { c.Sample = -2 },
	}, {
		name:   "invalid random config",
		modify: func(c *config) { c.Random.Traders = 0 },
	}}

	for _, testCase := range testCases {
		cfg := defaultConfig()
		testCase.modify(cfg)
		require.Error(t, cfg.validate(), testCase.name)
	}

	// Random settings don't matter when reading an order book.
	cfg := defaultConfig()
	cfg.Auctions = 0
	cfg.Random.Traders = 0
	cfg.OrderBook.File = "sod.csv"
	require.NoError(t, cfg.validate())
}

// TestMechanismFlags makes sure each clearing rule can be selected on the
// command line and that both run if none is selected.
func TestMechanismFlags(t *testing.T) {
	t.Parallel()

	parse := func(args ...string) *config {
		cfg := defaultConfig()
		parser := getParser(cfg)
		parser.CommandHandler = func(flags.Commander, []string) error {
			return nil
		}

		_, err := parser.ParseArgs(append(args, "run"))
		require.NoError(t, err)
		require.NoError(t, cfg.validate())

		return cfg
	}

	cfg := parse()
	require.True(t, cfg.Mechanism.Lottery)
	require.True(t, cfg.Mechanism.Vickrey)

	cfg = parse("--mechanism.lottery")
	require.True(t, cfg.Mechanism.Lottery)
	require.False(t, cfg.Mechanism.Vickrey)

	cfg = parse("--mechanism.vickrey")
	require.False(t, cfg.Mechanism.Lottery)
	require.True(t, cfg.Mechanism.Vickrey)
}

// TestPrepareAuctions checks that replication and sampling are applied to
// every generated auction.
func TestPrepareAuctions(t *testing.T) {
	t.Parallel()

	cfg := testConfig("")

	auctions, err := prepareAuctions(cfg)
	require.NoError(t, err)
	require.Len(t, auctions, cfg.Auctions)
	for _, auction := range auctions {
		require.Len(t, auction.Traders, 6)
	}

	cfg.Replicas = 3
	auctions, err = prepareAuctions(cfg)
	require.NoError(t, err)
	for _, auction := range auctions {
		require.Len(t, auction.Traders, 18)
		require.Contains(t, auction.ID, " x3")
	}

	cfg.Sample = 5
	auctions, err = prepareAuctions(cfg)
	require.NoError(t, err)
	for _, auction := range auctions {
		require.Len(t, auction.Traders, 5)
		require.Contains(t, auction.ID, " x3 s5")
	}
}

// TestPrepareOrderBookAuctions checks that auctions are read from an order
// book file when one is configured.
func TestPrepareOrderBookAuctions(t *testing.T) {
	t.Parallel()

	dir, err := ioutil.TempDir("", "mudasim")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "sod.csv")
	require.NoError(t, ioutil.WriteFile(path, []byte(
		"Symbol,Date,Side,Quantity,Price,Order date\n"+
			"IBM,910121,BUY,5,250,93000\n"+
			"IBM,910121,BUY,3,350,93100\n"+
			"IBM,910121,SEL,5,200,94000\n"+
			"IBM,910122,SEL,4,100,94500\n",
	), 0600))

	cfg := testConfig(dir)
	cfg.OrderBook.File = path
	cfg.Replicas = 2
	require.NoError(t, cfg.validate())

	auctions, err := prepareAuctions(cfg)
	require.NoError(t, err)
	require.Len(t, auctions, 2)
	require.Equal(t, "IBM 910121 x2", auctions[0].ID)
	require.Len(t, auctions[0].Traders, 6)
	require.Len(t, auctions[1].Traders, 2)
}

// TestSimulate runs a small simulation end to end and checks its output
// files.
func TestSimulate(t *testing.T) {
	dir, err := ioutil.TempDir("", "mudasim")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	cfg := testConfig(dir)
	require.NoError(t, cfg.validate())
	require.NoError(t, simulate(context.Background(), cfg))

	f, err := os.Open(cfg.OutputFile)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, cfg.Auctions+1)
	require.Equal(t, simulation.Columns, records[0])

	metrics, err := ioutil.ReadFile(cfg.Prometheus.TextfilePath)
	require.NoError(t, err)
	require.Contains(t, string(metrics), "muda_auctions_total 6")
}

func TestSimulateCanceled(t *testing.T) {
	dir, err := ioutil.TempDir("", "mudasim")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = simulate(ctx, testConfig(dir))
	require.ErrorIs(t, err, context.Canceled)

	_, err = os.Stat(filepath.Join(dir, defaultOutputFilename))
	require.True(t, os.IsNotExist(err))
}
