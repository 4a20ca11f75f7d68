package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/daftarhq/daftar/internal/config"
	"github.com/daftarhq/daftar/internal/engine"
	"github.com/daftarhq/daftar/internal/gate"
	"github.com/daftarhq/daftar/internal/ledger"
	"github.com/daftarhq/daftar/internal/notify"
	"github.com/daftarhq/daftar/internal/persist"
	"github.com/daftarhq/daftar/internal/store"
)

// App is the assembled core: persistence, store, ledger, gate, engine.
type App struct {
	Engine *engine.Engine
	Config config.Config

	db *persist.DB
}

// Close releases the underlying database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// openApp loads (and if needed migrates) the persisted snapshot and wires
// the engine with a terminal authorization prompt.
func openApp(cmd *cobra.Command) (*App, error) {
	ctx := cmd.Context()
	cfg := config.Load()

	db, err := persist.Open(cfg.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}

	blob, err := db.Load(ctx, cfg.SnapshotKey)
	if err != nil {
		db.Close()
		return nil, WrapExitError(ExitCommandError, "load snapshot", err)
	}

	now := time.Now()
	var snap *ledger.Snapshot
	if blob == nil {
		snap = ledger.NewSnapshot()
		settings, err := cfg.Settings()
		if err != nil {
			db.Close()
			return nil, WrapExitError(ExitCommandError, "load settings defaults", err)
		}
		snap.Settings = settings
	} else {
		snap, err = engine.StageSnapshot(blob, now)
		if err != nil {
			db.Close()
			return nil, WrapExitError(ExitCommandError, "load snapshot", err)
		}
	}
	snap.Metadata.LastLoaded = &now

	st := store.FromSnapshot(snap)
	events := notify.NewLedger(nil)
	events.Replace(snap.Notifications)

	eng := engine.New(engine.Config{
		Store:  st,
		Events: events,
		Gate:   gate.New(func() string { return st.Settings().Secret }, terminalPrompt(cmd)),
		Saver: engine.SaverFunc(func(ctx context.Context, blob []byte) error {
			return db.Save(ctx, cfg.SnapshotKey, blob)
		}),
		Alerts: notify.LogSender{},
	})

	return &App{Engine: eng, Config: cfg, db: db}, nil
}

// terminalPrompt asks the operator for the configured secret on stderr and
// reads one line from stdin. An empty line cancels.
func terminalPrompt(cmd *cobra.Command) gate.PromptFunc {
	return func(_ context.Context, prompt string) (string, bool, error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Authorization required to %s.\nSecret (empty line cancels): ", prompt)
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return "", false, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return "", false, nil
		}
		return line, true, nil
	}
}

// withApp opens the app, runs fn, and converts panics into a generic
// failure instead of crashing: unexpected errors are non-fatal at this
// boundary.
func withApp(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, app *App, f *OutputFormatter) error) (err error) {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	app, err := openApp(cmd)
	if err != nil {
		_ = formatter.Error("INTERNAL", err.Error(), nil)
		return err
	}
	defer app.Close()

	defer func() {
		if r := recover(); r != nil {
			app.Engine.Events().Append(ledger.EventError, "Unexpected failure", fmt.Sprint(r), nil)
			_ = formatter.Error("INTERNAL", fmt.Sprintf("unexpected failure: %v", r), nil)
			err = WrapExitError(ExitCommandError, "unexpected failure", fmt.Errorf("%v", r))
		}
	}()

	return fn(cmd.Context(), app, formatter)
}
