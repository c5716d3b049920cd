// Package core holds the crash-safe goroutine launcher used by every
// background task in the program.
package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/lixenwraith/flip-match/log"
)

var (
	crashMu      sync.Mutex
	crashCleanup func()

	crashOut  io.Writer = os.Stderr
	crashExit           = os.Exit
)

// SetCrashCleanup registers the function that restores the terminal before
// a crash report is printed; nil clears it
func SetCrashCleanup(fn func()) {
	crashMu.Lock()
	crashCleanup = fn
	crashMu.Unlock()
}

// HandleCrash restores the terminal, logs and prints the panic with its
// stack, and exits with status 1
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	cleanup := crashCleanup
	crashCleanup = nil
	crashMu.Unlock()

	if cleanup != nil {
		cleanup()
	}

	stack := debug.Stack()
	log.Errorf("crash: %v\n%s", r, stack)
	fmt.Fprintf(crashOut, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
	fmt.Fprintf(crashOut, "Stack Trace:\n%s\n", stack)

	crashExit(1)
}

// Go runs fn in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword so a crash restores the terminal.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
