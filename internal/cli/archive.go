package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/corona/internal/store"
)

// openArchive opens an existing run archive. Unlike store.Open it refuses to
// create a new database, so a mistyped path is reported instead of hidden.
func openArchive(f *OutputFormatter, path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		msg := fmt.Sprintf("database not found: %s", path)
		_ = f.Error(ErrCodeNotFound, msg, nil)
		return nil, WrapExitError(ExitCommandError, msg, err)
	}

	st, err := store.Open(path)
	if err != nil {
		_ = f.Error(ErrCodeStore, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// closeArchive closes st and logs a failure.
func closeArchive(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// readArchivedRun reads one run, or the latest run when id is empty.
func readArchivedRun(ctx context.Context, f *OutputFormatter, st *store.Store, id string) (store.Run, error) {
	var (
		run store.Run
		err error
	)
	if id == "" {
		run, err = st.LatestRun(ctx)
	} else {
		run, err = st.ReadRun(ctx, id)
	}

	if errors.Is(err, sql.ErrNoRows) {
		msg := "no runs archived"
		if id != "" {
			msg = fmt.Sprintf("run not found: %s", id)
		}
		_ = f.Error(ErrCodeNotFound, msg, nil)
		return store.Run{}, WrapExitError(ExitCommandError, msg, err)
	}
	if err != nil {
		_ = f.Error(ErrCodeStore, err.Error(), nil)
		return store.Run{}, WrapExitError(ExitCommandError, "failed to read run", err)
	}
	return run, nil
}
