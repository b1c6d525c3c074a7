package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-errors/errors"
	"github.com/lightninglabs/muda"
	"golang.org/x/time/rate"
)

const (
	// progressInterval is the minimum time between two progress log
	// lines of a run.
	progressInterval = 5 * time.Second
)

// Observer is notified of every auction the runner simulates. It is called
// from several goroutines at once.
type Observer interface {
	// ObserveAuction is called with the result row of an auction.
	ObserveAuction(row *Row)
}

// RunnerConfig holds the dependencies of a Runner.
type RunnerConfig struct {
	// Workers is the number of auctions simulated in parallel.
	Workers int

	// Seed is the seed of the first auction's random source. Auction i
	// is simulated with a source seeded with Seed+i, so the results don't
	// depend on the number of workers.
	Seed int64

	// Mechanism configures the MUDA mechanism.
	Mechanism *muda.Config

	// Observer, if set, is notified of every simulated auction.
	Observer Observer
}

// Runner simulates many independent auctions on a bounded pool of workers.
// Every single auction is simulated sequentially.
type Runner struct {
	cfg       *RunnerConfig
	mechanism *muda.Mechanism

	progress *rate.Limiter
}

// NewRunner creates a new runner.
func NewRunner(cfg *RunnerConfig) *Runner {
	return &Runner{
		cfg:       cfg,
		mechanism: muda.New(cfg.Mechanism),
		progress:  rate.NewLimiter(rate.Every(progressInterval), 1),
	}
}

// Run simulates all auctions and returns their rows in auction order. It
// stops handing out auctions as soon as the context is canceled or an
// auction fails.
func (r *Runner) Run(ctx context.Context, auctions []*Auction) ([]*Row,
	error) {

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := r.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(auctions) {
		workers = len(auctions)
	}

	var (
		rows = make([]*Row, len(auctions))
		jobs = make(chan int)

		wg      sync.WaitGroup
		errOnce sync.Once
		runErr  error
		done    uint64
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range jobs {
				row, err := r.simulate(i, auctions[i])
				if err != nil {
					errOnce.Do(func() {
						runErr = err
						cancel()
					})
					continue
				}

				rows[i] = row

				n := atomic.AddUint64(&done, 1)
				if r.progress.Allow() {
					log.Infof("Simulated %d/%d auctions", n,
						len(auctions))
				}
			}
		}()
	}

	var fed int
feed:
	for i := range auctions {
		if ctx.Err() != nil {
			break
		}

		select {
		case jobs <- i:
			fed++

		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if runErr != nil {
		return nil, runErr
	}
	if fed < len(auctions) {
		return nil, ctx.Err()
	}

	log.Infof("Simulated %d auctions on %d workers", len(auctions),
		workers)

	return rows, nil
}

// simulate runs the auction with its own random source and reports the
// result to the observer. A panic is turned into an error so a single broken
// auction can't take the whole run down.
func (r *Runner) simulate(i int, auction *Auction) (row *Row, err error) {
	defer func() {
		if p := recover(); p != nil {
			log.Errorf("Auction %v panicked: %v", auction.ID,
				errors.Wrap(p, 2).ErrorStack())

			row = nil
			err = fmt.Errorf("auction %v panicked: %v", auction.ID,
				p)
		}
	}()

	log.Debugf("Simulating auction %v with %d traders", auction.ID,
		len(auction.Traders))

	rng := rand.New(rand.NewSource(r.cfg.Seed + int64(i)))
	row, err = Simulate(r.mechanism, auction, rng)
	if err != nil {
		return nil, fmt.Errorf("unable to simulate auction %v: %w",
			auction.ID, err)
	}

	if r.cfg.Observer != nil {
		r.cfg.Observer.ObserveAuction(row)
	}

	return row, nil
}
