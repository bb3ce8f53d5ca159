package cli

import (
	"context"
	"fmt"
	"time"

	"alcyxob/fitness-calendar/internal/config"
	"alcyxob/fitness-calendar/internal/domain"
	"alcyxob/fitness-calendar/internal/repository/kv"
	"alcyxob/fitness-calendar/internal/service"
	"alcyxob/fitness-calendar/internal/storage"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app is the service graph a single command runs against.
type app struct {
	programs    service.ProgramService
	progress    service.ProgressService
	completions service.CompletionService
	closeStore  func() error
}

func openApp(ctx context.Context, opts *RootOptions) (*app, error) {
	cfg, err := config.LoadConfig(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	store, closeStore, err := storage.NewStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	log.Debugf("using %s storage", cfg.Storage.Backend)

	return &app{
		programs:    service.NewProgramService(kv.NewProgramRepository(store, nil)),
		progress:    service.NewProgressService(),
		completions: service.NewCompletionService(kv.NewCompletionRepository(store, nil), nil),
		closeStore:  closeStore,
	}, nil
}

func (a *app) Close() {
	if err := a.closeStore(); err != nil {
		log.Errorf("close storage: %v", err)
	}
}

// withApp opens the app around fn and closes it afterwards.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, a *app, out *OutputFormatter) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a, &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()})
}

// loadProgram returns the program with id, or the current one when id is empty.
func (a *app) loadProgram(ctx context.Context, id string) (*domain.Program, error) {
	if id != "" {
		return a.programs.Get(ctx, id)
	}
	return a.programs.Current(ctx)
}

// completedSet indexes the completed-workout ids.
func (a *app) completedSet(ctx context.Context) (map[string]bool, error) {
	ids, err := a.completions.CompletedWorkoutIDs(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// parseDateFlag reads a YYYY-MM-DD flag value in local time, today when empty.
func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	t, err := domain.ParseISODate(value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s %q: %w", name, value, err)
	}
	return t, nil
}
