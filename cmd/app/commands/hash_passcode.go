package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	authService "github.com/prateekro/trayme-guard/internal/auth/service"
	cryptoDomain "github.com/prateekro/trayme-guard/internal/crypto/domain"
)

// MinPasscodeLength is the shortest passcode hash-passcode accepts, in runes.
const MinPasscodeLength = 4

// RunHashPasscode reads a new passcode twice from source and prints the
// AUTH_PASSCODE_HASH line for the .env file. The hash is single-quoted because
// it contains '$', which godotenv would expand inside double quotes.
func RunHashPasscode(
	ctx context.Context,
	source authService.CredentialSource,
	passcodes authService.PasscodeService,
	logger *slog.Logger,
	writer io.Writer,
) error {
	passcode, err := source.Passcode(ctx, "Enter a new device passcode")
	if err != nil {
		return fmt.Errorf("failed to read passcode: %w", err)
	}
	defer cryptoDomain.Zero(passcode)

	if utf8.RuneCount(passcode) < MinPasscodeLength {
		return fmt.Errorf("passcode must be at least %d characters", MinPasscodeLength)
	}

	confirmation, err := source.Passcode(ctx, "Confirm the passcode")
	if err != nil {
		return fmt.Errorf("failed to read passcode confirmation: %w", err)
	}
	defer cryptoDomain.Zero(confirmation)

	if !bytes.Equal(passcode, confirmation) {
		return fmt.Errorf("passcodes do not match")
	}

	hash, err := passcodes.HashPasscode(passcode)
	if err != nil {
		return fmt.Errorf("failed to hash passcode: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "# Add this line to your .env file or secrets manager")
	_, _ = fmt.Fprintf(writer, "AUTH_PASSCODE_HASH='%s'\n", hash)

	logger.Info("passcode hash generated")
	return nil
}
