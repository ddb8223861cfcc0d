package commands

import (
	"context"
	"fmt"
	"io"

	cryptoService "github.com/prateekro/trayme-guard/internal/crypto/service"
)

// RunKeyStatus reports whether a master key exists and its generation. It
// never creates a key.
func RunKeyStatus(ctx context.Context, vault cryptoService.KeyVault, writer io.Writer, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	present, err := vault.HasKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to check master key: %w", err)
	}

	var generation uint64
	if present {
		key, err := vault.CurrentKey(ctx)
		if err != nil {
			return fmt.Errorf("failed to load master key: %w", err)
		}
		generation = key.Generation()
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"present":    present,
			"generation": generation,
		})
	}

	if !present {
		_, _ = fmt.Fprintln(writer, "No master key; one is created on first use")
		return nil
	}
	_, _ = fmt.Fprintf(writer, "Master key present, generation %d\n", generation)
	return nil
}
