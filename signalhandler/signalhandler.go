package signalhandler

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	mu       sync.Mutex
	cleanups []func()
)

// OnShutdown registers fn to run when the process is interrupted
func OnShutdown(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	cleanups = append(cleanups, fn)
}

// RunCleanups runs the registered hooks in reverse order, once
func RunCleanups() {
	mu.Lock()
	hooks := cleanups
	cleanups = nil
	mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// SetupHandler runs the cleanup hooks and exits on SIGINT or SIGTERM
func SetupHandler() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		RunCleanups()
		switch sig {
		case syscall.SIGINT:
			os.Exit(130)
		default:
			os.Exit(143)
		}
	}()
}
