package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	secretsUseCase "github.com/prateekro/trayme-guard/internal/secrets/usecase"
)

// RunPurgeExpired deletes every self-destructing item past its deadline.
// Supports dry-run mode to preview the expired items and both text/JSON output formats.
func RunPurgeExpired(
	ctx context.Context,
	store secretsUseCase.SecretStore,
	logger *slog.Logger,
	writer io.Writer,
	dryRun bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("purging expired items", slog.Bool("dry_run", dryRun))

	report, err := store.PurgeExpired(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("failed to purge expired items: %w", err)
	}

	ids := make([]string, 0, len(report.Expired))
	for _, id := range report.Expired {
		ids = append(ids, id.String())
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"dry_run": report.DryRun,
			"expired": ids,
			"deleted": report.Deleted,
		}); err != nil {
			return err
		}
	} else if dryRun {
		_, _ = fmt.Fprintf(writer, "Dry-run mode: Would delete %d expired item(s)\n", len(ids))
		for _, id := range ids {
			_, _ = fmt.Fprintf(writer, "  %s\n", id)
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully deleted %d expired item(s)\n", report.Deleted)
	}

	logger.Info("purge completed",
		slog.Int("expired", len(ids)),
		slog.Int("deleted", report.Deleted),
		slog.Bool("dry_run", dryRun),
	)
	return nil
}
