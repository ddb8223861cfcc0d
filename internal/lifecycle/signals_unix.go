//go:build unix

package lifecycle

import (
	"os"
	"syscall"

	authDomain "github.com/prateekro/trayme-guard/internal/auth/domain"
)

// DefaultSignals maps SIGUSR1 to sleep and SIGUSR2 to screen lock.
func DefaultSignals() map[os.Signal]authDomain.SystemEvent {
	return map[os.Signal]authDomain.SystemEvent{
		syscall.SIGUSR1: authDomain.EventSleep,
		syscall.SIGUSR2: authDomain.EventScreenLocked,
	}
}
