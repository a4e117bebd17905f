package sentinel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/sentinelarr/filter"
	"github.com/s0up4200/sentinelarr/policy"
	"github.com/s0up4200/sentinelarr/qbittorrent"
)

// applyConcurrency bounds concurrent Apply calls within one cycle.
const applyConcurrency = 5

// Client is the torrent client capability the sentinel consumes.
type Client interface {
	ListTorrents(ctx context.Context) ([]qbittorrent.TorrentSnapshot, error)
	Apply(ctx context.Context, hash string, action qbittorrent.Action) error
}

// Options configures a Sentinel.
type Options struct {
	Interval time.Duration
	DryRun   bool
	Filter   *filter.Filter
}

// Sentinel polls the torrent client and enforces per-tracker seeding
// policies. Cycles never overlap; the next one starts only after the
// previous finished.
type Sentinel struct {
	client   Client
	table    policy.Table
	idle     *IdleTracker
	filter   *filter.Filter
	interval time.Duration
	dryRun   bool
	logger   zerolog.Logger

	// now is swappable for tests
	now func() time.Time
}

// New creates a Sentinel.
func New(client Client, table policy.Table, opts Options, logger zerolog.Logger) *Sentinel {
	return &Sentinel{
		client:   client,
		table:    table,
		idle:     NewIdleTracker(),
		filter:   opts.Filter,
		interval: opts.Interval,
		dryRun:   opts.DryRun,
		logger:   logger,
		now:      time.Now,
	}
}

// RunOnce executes a single cycle. A list failure is returned to the
// caller; there is nothing to retry in single-shot mode.
func (s *Sentinel) RunOnce(ctx context.Context) error {
	return s.cycle(ctx)
}

// Run executes cycles at the configured interval until the context is
// cancelled. A failed cycle is logged and skipped; the loop keeps going.
func (s *Sentinel) Run(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.interval).
		Bool("dry_run", s.dryRun).
		Msg("Starting watch loop")

	for {
		if err := s.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Error().Err(err).Msg("Cycle failed, retrying next interval")
		}

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info().Msg("Shutting down")
			return nil
		case <-timer.C:
		}
	}
}

// stop pairs a snapshot with its decision for the apply phase.
type stop struct {
	torrent  qbittorrent.TorrentSnapshot
	host     string
	decision policy.Decision
}

func (s *Sentinel) cycle(ctx context.Context) error {
	snapshots, err := s.client.ListTorrents(ctx)
	if err != nil {
		return fmt.Errorf("failed to list torrents: %w", err)
	}

	now := s.now()

	active := make(map[string]struct{}, len(snapshots))
	for _, t := range snapshots {
		active[t.Hash] = struct{}{}
	}
	s.idle.Evict(active)

	var stops []stop
	for _, t := range snapshots {
		if s.filter != nil {
			ok, err := s.filter.Match(t)
			if err != nil {
				s.logger.Warn().Err(err).Str("torrent", t.Name).Msg("Filter evaluation failed, skipping torrent")
				continue
			}
			if !ok {
				continue
			}
		}

		host, pol := s.table.Resolve(t.Trackers)
		idleMinutes := s.idle.Observe(t.Hash, t.Uploaded, t.UpSpeed, now)

		decision := policy.Evaluate(t, pol, idleMinutes)

		s.logger.Debug().
			Str("torrent", t.Name).
			Str("tracker", host).
			Str("state", t.State).
			Float64("ratio", t.Ratio).
			Str("uploaded", humanize.Bytes(uint64(t.Uploaded))).
			Int("idle_minutes", idleMinutes).
			Bool("stop", decision.Stop).
			Msg("Evaluated torrent")

		if decision.Stop {
			stops = append(stops, stop{torrent: t, host: host, decision: decision})
		}
	}

	s.apply(ctx, stops)
	return nil
}

// apply executes stop decisions. Failures are logged per torrent and
// never abort the cycle; the next poll re-evaluates anyway.
func (s *Sentinel) apply(ctx context.Context, stops []stop) {
	g := new(errgroup.Group)
	g.SetLimit(applyConcurrency)

	for _, st := range stops {
		g.Go(func() error {
			line := fmt.Sprintf("%s | %s | %s | %s | %s",
				strings.ToUpper(string(st.decision.Action)),
				st.torrent.Hash,
				st.torrent.Name,
				st.host,
				st.decision.Reason,
			)

			if s.dryRun {
				s.logger.Info().
					Str("tracker", st.host).
					Str("reason", string(st.decision.Reason)).
					Msg("DRY-RUN: " + line)
				return nil
			}

			if err := s.client.Apply(ctx, st.torrent.Hash, st.decision.Action); err != nil {
				s.logger.Error().
					Err(err).
					Str("hash", st.torrent.Hash).
					Str("torrent", st.torrent.Name).
					Msg("Failed to apply action")
				return nil
			}

			s.logger.Info().
				Str("tracker", st.host).
				Str("reason", string(st.decision.Reason)).
				Msg(line)
			return nil
		})
	}

	g.Wait()
}
