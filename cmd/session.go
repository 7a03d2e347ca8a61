package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"github.com/batchalloc/batchalloc/alloc"
	"github.com/batchalloc/batchalloc/alloc/roster"
	"github.com/batchalloc/batchalloc/alloc/trace"
)

// session is the state of one command invocation: the profile, the store
// built from it and the roster location it was loaded from.
type session struct {
	ctx    context.Context
	fs     afs.Service
	codec  *roster.Codec
	cfg    *alloc.Config
	store  *alloc.Store
	roster string
}

// openSession loads the profile (if any), restores the roster when the file
// exists and then adds the profile's batches. A missing roster starts empty.
func openSession(ctx context.Context, w io.Writer, rosterLocation, profile string) (*session, error) {
	cfg := &alloc.Config{}
	if profile != "" {
		loaded, err := alloc.LoadConfig(profile)
		if err != nil {
			return nil, err
		}
		if err := loaded.Validate(); err != nil {
			return nil, fmt.Errorf("invalid allocation profile %s: %w", profile, err)
		}
		cfg = loaded
	}
	if rosterLocation == "" {
		rosterLocation = roster.DefaultFile
	}

	fs := afs.New()
	s := &session{
		ctx:    ctx,
		fs:     fs,
		codec:  roster.New(fs),
		cfg:    cfg,
		store:  alloc.NewStore(cfg.Limits),
		roster: rosterLocation,
	}

	if s.codec.Exists(ctx, rosterLocation) {
		n, err := s.codec.LoadInto(ctx, rosterLocation, s.store)
		if err != nil {
			return nil, err
		}
		_, _ = fmt.Fprintf(w, "Loaded %d students from %s\n", n, rosterLocation)
	} else {
		logrus.Infof("no roster at %s, starting empty", rosterLocation)
	}

	if err := cfg.Apply(s.store); err != nil {
		return nil, err
	}
	return s, nil
}

// mustOpenSession opens a session from the persistent flags or exits.
func mustOpenSession(cmd *cobra.Command) *session {
	s, err := openSession(cmd.Context(), cmd.OutOrStdout(), rosterPath, configPath)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	return s
}

// save writes the roster to location, or back to where it was loaded from.
// At debug level the store invariants are checked first.
func (s *session) save(w io.Writer, location string) error {
	if location == "" {
		location = s.roster
	}
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		if err := s.store.Verify(); err != nil {
			return fmt.Errorf("store inconsistent, not saving: %w", err)
		}
	}
	n, err := s.codec.SaveFrom(s.ctx, location, s.store)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Saved %d students to %s\n", n, location)
	return nil
}

func (s *session) mustSave(w io.Writer, location string) {
	if err := s.save(w, location); err != nil {
		logrus.Fatalf("%v", err)
	}
}

// allocOptions carries the command-line overrides for one allocation run.
type allocOptions struct {
	Strategy    string
	StrategySet bool // --strategy given explicitly
	Seed        int64
	SeedSet     bool // --seed given explicitly
	Trace       bool
}

// resolve applies the precedence flag > profile > default.
func (o allocOptions) resolve(cfg *alloc.Config) (string, int64) {
	strategy := cfg.Strategy
	if o.StrategySet {
		strategy = o.Strategy
	}
	if strategy == "" {
		strategy = alloc.StrategyScoreDesc
	}
	switch {
	case o.SeedSet:
		return strategy, o.Seed
	case cfg.Seed != nil:
		return strategy, *cfg.Seed
	default:
		return strategy, alloc.EntropySeed()
	}
}

// allocate runs one allocation over the session's store and reports the
// outcome, including the placement trace when requested.
func (s *session) allocate(w io.Writer, opts allocOptions) (alloc.Placement, error) {
	strategy, seed := opts.resolve(s.cfg)
	if !alloc.IsValidStrategy(strategy) {
		return alloc.Placement{}, fmt.Errorf("unknown strategy %q; valid strategies: %v", strategy, alloc.StrategyNames())
	}
	logrus.Infof("allocating %d students over %d batches, strategy=%s seed=%d",
		s.store.NumStudents(), s.store.NumBatches(), strategy, seed)

	var tr *trace.AllocationTrace
	if opts.Trace {
		tr = trace.NewAllocationTrace(trace.TraceLevelPlacements, strategy)
	}
	policy := alloc.NewOrderingPolicy(strategy, alloc.NewShuffleRNG(seed))
	res, err := s.store.Run(policy, tr)
	if err != nil {
		return res, err
	}

	if tr != nil {
		printTrace(w, tr)
	}
	_, _ = fmt.Fprintf(w, "Allocated %d students.\n", res.Placed)
	if res.Halted {
		_, _ = fmt.Fprintf(w, "Not enough capacity: %d students left unallocated.\n", res.Unplaced)
	}
	return res, nil
}

// printTrace writes one line per placement and the halt point, then totals.
func printTrace(w io.Writer, tr *trace.AllocationTrace) {
	_, _ = fmt.Fprintf(w, "=== Placement Trace (%s) ===\n", tr.Strategy)
	for _, p := range tr.Placements {
		_, _ = fmt.Fprintf(w, "#%d %s -> batch %d %s, cursor %d, passed over %d, fill %d\n",
			p.Seq, p.Key, p.BatchIndex, p.BatchName, p.Cursor, p.Skipped(), p.FillAfter)
	}
	if tr.Halt != nil {
		_, _ = fmt.Fprintf(w, "#%d %s: no free capacity, %d keys unplaced\n", tr.Halt.Seq, tr.Halt.Key, tr.Halt.Remaining)
	}
	sum := trace.Summarize(tr)
	_, _ = fmt.Fprintf(w, "Placements: %d, full batches passed over: %d, batches used: %d\n",
		sum.Placements, sum.Skips, sum.UsedBatches)
}
