package commands

import (
	"context"
	"fmt"
	"log/slog"

	cryptoService "github.com/prateekro/trayme-guard/internal/crypto/service"
)

const rotateConfirmation = "rotate"

// RunRotateKey replaces the master key with a new generation. Items sealed
// under the old key become unreadable, so the operator must type "rotate"
// unless assumeYes is set.
func RunRotateKey(
	ctx context.Context,
	vault cryptoService.KeyVault,
	logger *slog.Logger,
	streams IOTuple,
	assumeYes bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if !assumeYes {
		_, _ = fmt.Fprintln(streams.Writer, "WARNING: every stored item sealed under the current key becomes unreadable.")
		ok, err := confirm(streams, fmt.Sprintf("Type '%s' to continue: ", rotateConfirmation), rotateConfirmation)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("key rotation aborted")
		}
	}

	key, err := vault.Rotate(ctx)
	if err != nil {
		return fmt.Errorf("failed to rotate master key: %w", err)
	}

	logger.Info("master key rotated", slog.Uint64("generation", key.Generation()))

	if format == "json" {
		return writeJSON(streams.Writer, map[string]any{
			"rotated":    true,
			"generation": key.Generation(),
		})
	}
	_, _ = fmt.Fprintf(streams.Writer, "Master key rotated to generation %d\n", key.Generation())
	return nil
}
