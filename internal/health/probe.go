// Package health owns the launcher's readiness state and the monitor that
// derives it from the engine's own health endpoint.
package health

import (
	"sync"
	"time"

	"vllmd/pkg/types"
)

// Probe is the single owner of the liveness/readiness state. The HTTP layer
// reads it through accessors instead of process-wide variables.
type Probe struct {
	mu         sync.RWMutex
	state      types.State
	lastErr    string
	modelID    string
	enginePID  int
	enginePort int
	started    time.Time
}

// New returns a Probe in the initializing state.
func New(modelID string) *Probe {
	return &Probe{
		state:   types.StateInitializing,
		modelID: modelID,
		started: time.Now(),
	}
}

// SetReady marks the engine as serving.
func (p *Probe) SetReady() {
	p.mu.Lock()
	p.state = types.StateReady
	p.lastErr = ""
	p.mu.Unlock()
}

// SetError records a terminal failure.
func (p *Probe) SetError(msg string) {
	p.mu.Lock()
	p.state = types.StateError
	p.lastErr = msg
	p.mu.Unlock()
}

// SetInitializing resets the probe to its starting state.
func (p *Probe) SetInitializing() {
	p.mu.Lock()
	p.state = types.StateInitializing
	p.lastErr = ""
	p.mu.Unlock()
}

// SetEngine records the managed engine's process id and port.
func (p *Probe) SetEngine(pid, port int) {
	p.mu.Lock()
	p.enginePID = pid
	p.enginePort = port
	p.mu.Unlock()
}

// State returns the current lifecycle state.
func (p *Probe) State() types.State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Ready reports whether the engine is serving.
func (p *Probe) Ready() bool {
	return p.State() == types.StateReady
}

// Status builds the response for GET /status.
func (p *Probe) Status() types.StatusResponse {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return types.StatusResponse{
		State:          string(p.state),
		ModelID:        p.modelID,
		EnginePID:      p.enginePID,
		EnginePort:     p.enginePort,
		LastError:      p.lastErr,
		UptimeSeconds:  int64(time.Since(p.started).Seconds()),
		ServerTimeUnix: time.Now().Unix(),
	}
}
