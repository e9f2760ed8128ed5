// ABOUTME: Process-wide engine lifecycle
// ABOUTME: Tracks live contexts and owns the shared network client
package engine

import (
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Used for synchronizing Initialize, Shutdown and the live context count.
var (
	lifecycleMu sync.Mutex
	live        int
	client      *http.Client
)

// Initialize prepares process-wide state. Only the first call made while no
// context is live does any work, so every Open may be paired with its own call.
func Initialize() {
	lifecycleMu.Lock()
	defer lifecycleMu.Unlock()

	if live <= 0 && client == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		client = &http.Client{
			Transport: transport,
			Timeout:   0, // streams are read for as long as they play
		}
		Logger().Debug("engine initialized")
	}
}

// Shutdown releases process-wide state once no context is live
func Shutdown() {
	lifecycleMu.Lock()
	defer lifecycleMu.Unlock()

	if live <= 0 && client != nil {
		client.CloseIdleConnections()
		client = nil
		Logger().Debug("engine shut down")
	}
}

// LiveContexts returns the number of contexts opened and not yet released
func LiveContexts() int {
	lifecycleMu.Lock()
	defer lifecycleMu.Unlock()
	return live
}

// Initialized reports whether process-wide state is currently set up
func Initialized() bool {
	lifecycleMu.Lock()
	defer lifecycleMu.Unlock()
	return client != nil
}

func httpClient() *http.Client {
	lifecycleMu.Lock()
	defer lifecycleMu.Unlock()
	return client
}

func acquire() {
	lifecycleMu.Lock()
	live++
	n := live
	lifecycleMu.Unlock()
	Logger().Debug("context acquired", zap.Int("live", n))
}

func release(held time.Duration) {
	lifecycleMu.Lock()
	live--
	n := live
	lifecycleMu.Unlock()
	Logger().Debug("context released", zap.Int("live", n), zap.Duration("held", held))
}
