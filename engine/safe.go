package engine

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"
)

var crashHandler atomic.Pointer[func(any)]

// SetCrashHandler installs the handler for panics in goroutines started with Go
// Hosts that own the terminal must restore it here before printing
func SetCrashHandler(fn func(any)) {
	crashHandler.Store(&fn)
}

// Go runs fn in a new goroutine with panic recovery
// Use instead of the 'go' keyword for engine goroutines
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				handleCrash(r)
			}
		}()
		fn()
	}()
}

func handleCrash(r any) {
	if h := crashHandler.Load(); h != nil && *h != nil {
		(*h)(r)
		return
	}
	fmt.Fprintf(os.Stderr, "\r\nCRASH DETECTED: %v\r\nStack Trace:\r\n%s\r\n", r, debug.Stack())
	os.Exit(1)
}
