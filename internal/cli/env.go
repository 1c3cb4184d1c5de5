package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/courtside/internal/metrics"
	"github.com/mesh-intelligence/courtside/internal/session"
	"github.com/mesh-intelligence/courtside/pkg/sqlite"
	"github.com/mesh-intelligence/courtside/pkg/types"
)

// appEnv is everything one command needs: settings, an attached store, a
// logger and a scorer over that store. The caller must defer close.
type appEnv struct {
	settings settings
	store    types.Store
	log      *logrus.Entry
	scorer   *session.Scorer
}

// openEnv loads configuration, attaches the match database and builds a
// scorer. m may be nil, in which case metrics are discarded.
func openEnv(cmd *cobra.Command, flags *rootFlags, m metrics.ScorerMetrics) (*appEnv, error) {
	s, err := loadSettings(flags)
	if err != nil {
		return nil, systemError("load config", err)
	}
	logger, err := s.newLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, systemError("configure logging", err)
	}
	log := logrus.NewEntry(logger).WithField("command", cmd.Name())

	store := sqlite.NewBackend()
	if err := store.Attach(s.storeConfig()); err != nil {
		return nil, systemError("attach store", err)
	}

	opts := []session.Option{
		session.WithLogger(log),
		session.WithRoster(s.Roster),
		session.WithTeams(s.Teams),
	}
	if m != nil {
		opts = append(opts, session.WithMetrics(m))
	}

	return &appEnv{
		settings: s,
		store:    store,
		log:      log,
		scorer:   session.New(store, opts...),
	}, nil
}

// resume loads the match named by --match, or the latest one.
func (e *appEnv) resume(ctx context.Context, flags *rootFlags) (session.Snapshot, error) {
	if flags.matchID != "" {
		return e.scorer.Resume(ctx, flags.matchID)
	}
	return e.scorer.ResumeLatest(ctx)
}

func (e *appEnv) close() {
	if err := e.store.Detach(); err != nil {
		e.log.WithError(err).Warn("detach store")
	}
}

// withMatch opens the environment, resumes the selected match and runs fn.
func withMatch(cmd *cobra.Command, flags *rootFlags, fn func(*appEnv, session.Snapshot) error) error {
	env, err := openEnv(cmd, flags, nil)
	if err != nil {
		return err
	}
	defer env.close()

	snap, err := env.resume(cmd.Context(), flags)
	if err != nil {
		if errors.Is(err, types.ErrNoMatch) {
			return fmt.Errorf("%w; run 'courtside new' first", err)
		}
		return err
	}
	return fn(env, snap)
}
