package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/db"
)

// importWindow bounds the source query; it covers every stored booking.
var (
	importFrom = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	importTo   = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [database_path]",
		Short: "Import bookings from another database",
		Long: `Import every booking from another courtside database into the current store.

Bookings keep their IDs. Bookings already present, or overlapping one on
the same court, are skipped and reported.

Example:
  courtside import /path/to/other.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			if a.config.Storage.RemoteURL == "" {
				destPath, err := resolvePath(a.config.Storage.DBPath)
				if err != nil {
					return err
				}
				if sourcePath == destPath {
					return fmt.Errorf("source database matches current database")
				}
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source database does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source database: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source database path is a directory: %s", sourcePath)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			result, err := importBookings(ctx, a.store, sourcePath)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Imported %d bookings from %s\n", result.Imported, sourcePath)
			for _, s := range result.Skipped {
				fmt.Fprintln(w, formatMuted("  skipped "+s))
			}
			return nil
		},
	}

	return cmd
}

// ImportResult summarises an import.
type ImportResult struct {
	Imported int
	Skipped  []string // "id: reason"
}

func importBookings(ctx context.Context, dest booking.Store, sourcePath string) (ImportResult, error) {
	var result ImportResult

	source, err := db.New(sourcePath)
	if err != nil {
		return result, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = source.Close() }()

	records, err := source.ListBookings(ctx, nil, importFrom, importTo)
	if err != nil {
		return result, fmt.Errorf("listing source bookings: %w", err)
	}

	for _, rec := range records {
		if _, err := dest.GetBooking(ctx, rec.ID); err == nil {
			result.Skipped = append(result.Skipped, rec.ID+": already present")
			continue
		} else if !errors.Is(err, booking.ErrNotFound) {
			return result, fmt.Errorf("checking booking %s: %w", rec.ID, err)
		}

		if err := dest.CreateBooking(ctx, &rec); err != nil {
			if errors.Is(err, booking.ErrBookingOverlap) {
				result.Skipped = append(result.Skipped, rec.ID+": overlaps an existing booking")
				continue
			}
			return result, fmt.Errorf("importing booking %s: %w", rec.ID, err)
		}
		result.Imported++
	}

	return result, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
