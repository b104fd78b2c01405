package engine

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"vllmd/internal/config"
)

const stderrTailBytes = 4096

// Supervisor runs the inference engine as a child process and tracks its
// lifetime. Start spawns the process, Done exposes its exit, Stop terminates
// it with SIGTERM and escalates to SIGKILL after a grace period.
type Supervisor struct {
	cfg    config.Config
	logger zerolog.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	stderr  *tailBuffer
	done    chan error
	stopped bool
}

// NewSupervisor returns a Supervisor for cfg. The process is not started yet.
func NewSupervisor(cfg config.Config, logger zerolog.Logger) *Supervisor {
	return &Supervisor{cfg: cfg, logger: logger}
}

// Start spawns the engine with BuildArgs(cfg) and the exported engine
// environment appended to the inherited one. It returns once the process
// is running; readiness is observed separately via the health monitor.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd != nil {
		return fmt.Errorf("engine already started (pid %d)", s.cmd.Process.Pid)
	}

	args := BuildArgs(s.cfg)
	cmd := exec.Command(s.cfg.EngineBin, args...)
	cmd.Env = append(os.Environ(), s.cfg.EngineEnv()...)
	cmd.Stdout = os.Stdout
	tail := &tailBuffer{limit: stderrTailBytes}
	cmd.Stderr = tail

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start engine %q: %w", s.cfg.EngineBin, err)
	}
	s.logger.Info().
		Str("bin", s.cfg.EngineBin).
		Str("model", s.cfg.ModelID).
		Int("pid", cmd.Process.Pid).
		Int("port", s.cfg.Port).
		Msg("engine started")

	s.cmd = cmd
	s.stderr = tail
	s.done = make(chan error, 1)
	go func() {
		err := cmd.Wait()
		if err != nil {
			if t := tail.String(); t != "" {
				err = fmt.Errorf("%w; stderr tail: %s", err, t)
			}
		}
		s.done <- err
	}()
	return nil
}

// PID returns the engine process id, or 0 when not running.
func (s *Supervisor) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil || s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// Done returns a channel that receives the engine's exit error once.
// Nil until Start has been called.
func (s *Supervisor) Done() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Stop terminates the engine. SIGTERM first; if the process is still alive
// after grace, SIGKILL. Safe to call more than once.
func (s *Supervisor) Stop(grace time.Duration) {
	s.mu.Lock()
	cmd := s.cmd
	done := s.done
	already := s.stopped
	s.stopped = true
	s.mu.Unlock()
	if cmd == nil || cmd.Process == nil || already {
		return
	}

	_ = cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-done:
	case <-time.After(grace):
		s.logger.Warn().Int("pid", cmd.Process.Pid).Msg("engine did not exit after SIGTERM, killing")
		_ = cmd.Process.Kill()
		<-done
	}
}

// tailBuffer keeps only the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Write(p)
	if t.buf.Len() > t.limit {
		b := t.buf.Bytes()
		trimmed := make([]byte, t.limit)
		copy(trimmed, b[len(b)-t.limit:])
		t.buf.Reset()
		t.buf.Write(trimmed)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}
