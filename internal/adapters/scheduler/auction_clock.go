package scheduler

import (
	"context"
	"sync"
	"time"

	"eauction-service/internal/domain/auction"
	"eauction-service/internal/domain/shared"
	"eauction-service/internal/ports/outbound"

	"github.com/alitto/pond"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LifecycleService is the slice of the auction state machine the clock
// drives. Every operation re-validates its own precondition, so the clock
// can select stale candidates safely.
type LifecycleService interface {
	Activate(ctx context.Context, auctionID uuid.UUID) error
	CloseExpired(ctx context.Context, auctionID uuid.UUID) (*shared.CloseResult, error)
	MarkEndingSoon(ctx context.Context, auctionID uuid.UUID) error
}

// AuctionClock periodically scans all auctions and applies due lifecycle
// transitions: activation, closing and the one-shot ending-soon
// notification. Each auction is processed independently; one failing
// auction never stops the rest of the sweep.
type AuctionClock struct {
	auctionRepo outbound.AuctionRepository
	lifecycle   LifecycleService
	clock       outbound.Clock
	interval    time.Duration
	window      time.Duration
	pool        *pond.WorkerPool
	logger      zerolog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

type AuctionClockParams struct {
	AuctionRepo      outbound.AuctionRepository
	Lifecycle        LifecycleService
	Clock            outbound.Clock
	Interval         time.Duration
	EndingSoonWindow time.Duration
	MaxWorkers       int
	Logger           zerolog.Logger
}

// NewAuctionClock creates a new auction clock
func NewAuctionClock(params AuctionClockParams) *AuctionClock {
	interval := params.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	window := params.EndingSoonWindow
	if window <= 0 {
		window = time.Hour
	}
	maxWorkers := params.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &AuctionClock{
		auctionRepo: params.AuctionRepo,
		lifecycle:   params.Lifecycle,
		clock:       params.Clock,
		interval:    interval,
		window:      window,
		pool:        pond.New(maxWorkers, maxWorkers*10, pond.Strategy(pond.Balanced())),
		logger:      params.Logger.With().Str("component", "auction_clock").Logger(),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins the sweep loop
func (c *AuctionClock) Start() {
	c.logger.Info().Dur("interval", c.interval).Msg("Starting auction clock")

	c.wg.Add(1)
	go c.sweepLoop()
}

// Stop gracefully stops the clock and waits for in-flight sweep work
func (c *AuctionClock) Stop() {
	c.logger.Info().Msg("Stopping auction clock")
	c.cancel()
	c.wg.Wait()
	c.pool.StopAndWait()
}

// sweepLoop runs the periodic sweeps until the clock is stopped
func (c *AuctionClock) sweepLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.RunSweeps(c.ctx)
		case <-c.ctx.Done():
			c.logger.Info().Msg("Sweep loop stopped")
			return
		}
	}
}

// RunSweeps executes one activation, one closing and one ending-soon pass.
// Exported so deployments and tests can drive a sweep without waiting for
// a tick.
func (c *AuctionClock) RunSweeps(ctx context.Context) {
	now := c.clock.Now()

	c.activationSweep(ctx, now)
	c.closingSweep(ctx, now)
	c.endingSoonSweep(ctx, now)
}

// activationSweep moves every due scheduled auction to active
func (c *AuctionClock) activationSweep(ctx context.Context, now time.Time) {
	due, err := c.auctionRepo.ListByStatusAndStartBefore(ctx, auction.StatusScheduled, now)
	if err != nil {
		c.logger.Error().Err(err).Msg("Activation sweep: failed to list due auctions")
		return
	}

	if len(due) > 0 {
		c.logger.Debug().Int("count", len(due)).Msg("Activation sweep: found due auctions")
	}

	group := c.pool.Group()
	for _, auc := range due {
		auctionID := auc.ID
		group.Submit(func() {
			if err := c.lifecycle.Activate(ctx, auctionID); err != nil {
				c.logger.Error().Err(err).Str("auction_id", auctionID.String()).Msg("Failed to activate auction")
			}
		})
	}
	group.Wait()
}

// closingSweep finalizes every active auction past its end time
func (c *AuctionClock) closingSweep(ctx context.Context, now time.Time) {
	due, err := c.auctionRepo.ListByStatusAndEndBefore(ctx, auction.StatusActive, now)
	if err != nil {
		c.logger.Error().Err(err).Msg("Closing sweep: failed to list expired auctions")
		return
	}

	if len(due) > 0 {
		c.logger.Debug().Int("count", len(due)).Msg("Closing sweep: found expired auctions")
	}

	group := c.pool.Group()
	for _, auc := range due {
		auctionID := auc.ID
		group.Submit(func() {
			result, err := c.lifecycle.CloseExpired(ctx, auctionID)
			if err != nil {
				c.logger.Error().Err(err).Str("auction_id", auctionID.String()).Msg("Failed to close auction")
				return
			}
			if result == nil {
				// Someone else finalized it between selection and execution.
				return
			}
			logEvent := c.logger.Info().Str("auction_id", auctionID.String())
			if result.WinnerID != nil {
				logEvent = logEvent.Str("winner_id", result.WinnerID.String()).Float64("winning_bid", *result.WinningBid)
			}
			logEvent.Msg("Auction closed by sweep")
		})
	}
	group.Wait()
}

// endingSoonSweep fires the one-shot ending-soon notification for active
// auctions entering the window
func (c *AuctionClock) endingSoonSweep(ctx context.Context, now time.Time) {
	due, err := c.auctionRepo.ListEndingSoon(ctx, now, now.Add(c.window))
	if err != nil {
		c.logger.Error().Err(err).Msg("Ending-soon sweep: failed to list auctions")
		return
	}

	group := c.pool.Group()
	for _, auc := range due {
		auctionID := auc.ID
		group.Submit(func() {
			if err := c.lifecycle.MarkEndingSoon(ctx, auctionID); err != nil {
				c.logger.Error().Err(err).Str("auction_id", auctionID.String()).Msg("Failed to mark auction ending soon")
			}
		})
	}
	group.Wait()
}
