//go:build !unix

package lifecycle

import (
	"os"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
)

// DefaultSignals is empty where SIGUSR1 and SIGUSR2 do not exist; use
// POST /v1/session/events instead.
func DefaultSignals() map[os.Signal]authDomain.SystemEvent {
	return map[os.Signal]authDomain.SystemEvent{}
}
