package ratefeed

import (
	"context"
	"net/http"
	"sync"
	"time"

	appexchange "github.com/erpsuite/finance/internal/application/exchange"
	"github.com/erpsuite/finance/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Feed periodically fetches the exchange rate and appends it to the
// time series. A failed fetch is logged and skipped; the next tick
// tries again. Invoices issued in between keep using the last stored
// observation.
type Feed struct {
	source   Source
	rates    *appexchange.RateService
	interval time.Duration
	base     string
	second   string
	sourceID string
	logger   *zap.Logger
	failures prometheus.Counter

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFeed creates a feed from configuration.
func NewFeed(cfg config.RateFeedConfig, rates *appexchange.RateService, logger *zap.Logger) *Feed {
	source := NewHTTPSource(cfg.URL, &http.Client{Timeout: cfg.Timeout})
	return &Feed{
		source:   source,
		rates:    rates,
		interval: cfg.Interval,
		base:     cfg.BaseCurrency,
		second:   cfg.SecondaryCurrency,
		sourceID: cfg.Source,
		logger:   logger,
	}
}

// SetFailureCounter wires a counter incremented on every failed cycle
func (f *Feed) SetFailureCounter(c prometheus.Counter) {
	f.failures = c
}

// NewFeedWithSource creates a feed with a custom source
func NewFeedWithSource(source Source, cfg config.RateFeedConfig, rates *appexchange.RateService, logger *zap.Logger) *Feed {
	f := NewFeed(cfg, rates, logger)
	f.source = source
	return f
}

// Start runs one immediate fetch and then fetches on every interval
// tick until the context is cancelled.
func (f *Feed) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()

		f.RunOnce(ctx)

		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				f.RunOnce(ctx)
			}
		}
	}()

	f.logger.Info("rate feed started",
		zap.Duration("interval", f.interval),
		zap.String("pair", f.base+"/"+f.second),
	)
}

// Stop stops the feed and waits for the in-flight fetch to finish
func (f *Feed) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
	f.wg.Wait()
	f.logger.Info("rate feed stopped")
}

// RunOnce performs a single fetch-and-store cycle
func (f *Feed) RunOnce(ctx context.Context) {
	value, err := f.source.Fetch(ctx)
	if err != nil {
		f.logger.Error("failed to fetch exchange rate", zap.Error(err))
		f.countFailure()
		return
	}

	rate, err := f.rates.Record(ctx, f.base, f.second, value, f.sourceID)
	if err != nil {
		f.logger.Error("failed to store exchange rate", zap.Error(err))
		f.countFailure()
		return
	}

	f.logger.Info("exchange rate updated",
		zap.String("pair", rate.BaseCurrency+"/"+rate.SecondaryCurrency),
		zap.String("rate", rate.Rate.String()),
		zap.String("source", rate.Source),
	)
}

func (f *Feed) countFailure() {
	if f.failures != nil {
		f.failures.Inc()
	}
}
