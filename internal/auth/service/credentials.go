package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"golang.org/x/term"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
	apperrors "github.com/prateekro/trayme-guard/internal/errors"
)

type passcodeKey struct{}

// WithPasscode returns a context carrying passcode for ContextCredentialSource.
func WithPasscode(ctx context.Context, passcode []byte) context.Context {
	return context.WithValue(ctx, passcodeKey{}, bytes.Clone(passcode))
}

// ContextCredentialSource reads the passcode placed in the context by
// WithPasscode. HTTP handlers use it to forward a request header.
type ContextCredentialSource struct{}

// NewContextCredentialSource creates a ContextCredentialSource.
func NewContextCredentialSource() *ContextCredentialSource {
	return &ContextCredentialSource{}
}

// Passcode returns a copy of the passcode carried by ctx.
func (s *ContextCredentialSource) Passcode(ctx context.Context, _ string) ([]byte, error) {
	code, ok := ctx.Value(passcodeKey{}).([]byte)
	if !ok || len(code) == 0 {
		return nil, authDomain.ErrNoCredential
	}
	return bytes.Clone(code), nil
}

// TerminalCredentialSource prompts for the passcode on a terminal without echo.
type TerminalCredentialSource struct {
	fd  int
	out io.Writer
}

// NewTerminalCredentialSource prompts on the terminal behind fd and writes the
// prompt to out.
func NewTerminalCredentialSource(fd int, out io.Writer) *TerminalCredentialSource {
	return &TerminalCredentialSource{fd: fd, out: out}
}

// Passcode prints reason and reads a line without echo.
func (s *TerminalCredentialSource) Passcode(ctx context.Context, reason string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !term.IsTerminal(s.fd) {
		return nil, apperrors.Wrap(authDomain.ErrNoCredential, "stdin is not a terminal")
	}

	if _, err := fmt.Fprintf(s.out, "%s\nPasscode: ", reason); err != nil {
		return nil, err
	}
	code, err := term.ReadPassword(s.fd)
	_, _ = fmt.Fprintln(s.out)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read passcode")
	}
	if len(code) == 0 {
		return nil, authDomain.ErrNoCredential
	}
	return code, nil
}
