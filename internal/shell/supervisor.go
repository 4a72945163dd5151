package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"sync"
	"time"

	"ranch-pregcheck/internal/platform/httpclient"
	"ranch-pregcheck/internal/platform/logger"
)

// State es el ciclo de vida del proceso servidor hijo. Stopped es
// alcanzable desde cualquier estado y es terminal: no hay auto-restart.
type State int

const (
	StateNotStarted State = iota
	StateStarting
	StateReady
	StateFailedToStart
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateFailedToStart:
		return "failed_to_start"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var ErrNotReady = errors.New("server did not become ready")

type Options struct {
	// Command y Args arman el proceso hijo (el binario del server).
	Command string
	Args    []string

	// Dir es el working directory fijo del hijo.
	Dir string

	// Env son variables extra para el hijo (p.ej. el selector de settings).
	Env []string

	// Interval entre intentos de health check. Default 1s.
	Interval time.Duration
	// MaxAttempts de health check antes de dar por muerto el arranque.
	// Default 100.
	MaxAttempts int

	// LogSink recibe stdout/stderr del hijo. nil => se descarta.
	LogSink io.Writer

	Log logger.Logger

	// OnStatus se llama una vez por intento con "attempt/maxAttempts".
	OnStatus func(status string)
	// OnError recibe fallas de spawn y de polling. Nunca paniquea.
	OnError func(err error)
	// OnExit se llama cuando el hijo termina solo (no por Stop).
	OnExit func(err error)
}

// Supervisor arranca el server como proceso hijo y espera a que conteste
// el health check antes de mostrar la página.
type Supervisor struct {
	opts Options
	http *httpclient.Client

	mu    sync.Mutex
	state State
	cmd   *exec.Cmd
}

func NewSupervisor(opts Options) *Supervisor {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 100
	}
	if opts.Log == nil {
		opts.Log = logger.NewFromEnv()
	}
	return &Supervisor{
		opts:  opts,
		http:  httpclient.New(opts.Interval),
		state: StateNotStarted,
	}
}

func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start lanza el proceso hijo. Una falla de spawn va al handler de error,
// nunca a un panic: el shell tiene que poder mostrar el mensaje.
func (s *Supervisor) Start() {
	s.mu.Lock()
	if s.state != StateNotStarted {
		s.mu.Unlock()
		s.fail(fmt.Errorf("start called in state %s", s.state))
		return
	}

	cmd := exec.Command(s.opts.Command, s.opts.Args...)
	cmd.Dir = s.opts.Dir
	cmd.Env = append(cmd.Environ(), s.opts.Env...)
	if s.opts.LogSink != nil {
		cmd.Stdout = s.opts.LogSink
		cmd.Stderr = s.opts.LogSink
	}

	if err := cmd.Start(); err != nil {
		s.state = StateFailedToStart
		s.mu.Unlock()
		s.fail(fmt.Errorf("spawn server: %w", err))
		return
	}

	s.cmd = cmd
	s.state = StateStarting
	s.mu.Unlock()

	s.opts.Log.Info("server process started", map[string]any{"pid": cmd.Process.Pid})

	go func() {
		err := cmd.Wait()

		s.mu.Lock()
		stopped := s.state == StateStopped
		s.mu.Unlock()
		if stopped {
			return
		}

		s.opts.Log.Warn("server process exited", map[string]any{"error": fmt.Sprint(err)})
		if s.opts.OnExit != nil {
			s.opts.OnExit(err)
		}
	}()
}

// WaitUntilReady hace GET al targetURL una vez por intervalo hasta que el
// server conteste (cualquier respuesta HTTP cuenta) o se agoten los
// intentos. Agotados => FailedToStart, terminal.
func (s *Supervisor) WaitUntilReady(ctx context.Context, targetURL string) error {
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		if s.State() == StateStopped {
			return ErrNotReady
		}

		if s.opts.OnStatus != nil {
			s.opts.OnStatus(fmt.Sprintf("%d/%d", attempt, s.opts.MaxAttempts))
		}

		err := s.http.DoJSON(ctx, http.MethodGet, targetURL, nil, nil, nil)
		var httpErr *httpclient.HTTPError
		if err == nil || errors.As(err, &httpErr) {
			// el server contestó algo; con eso alcanza
			s.mu.Lock()
			if s.state == StateStarting {
				s.state = StateReady
			}
			ready := s.state == StateReady
			s.mu.Unlock()
			if ready {
				return nil
			}
			return ErrNotReady
		}

		if attempt == s.opts.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			s.fail(ctx.Err())
			s.markFailed()
			return ctx.Err()
		case <-time.After(s.opts.Interval):
		}
	}

	s.markFailed()
	s.fail(ErrNotReady)
	return ErrNotReady
}

// Stop mata el hijo si existe y limpia el handle. Es idempotente: llamadas
// repetidas no hacen nada.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateStopped {
		return
	}
	s.state = StateStopped

	if s.cmd != nil && s.cmd.Process != nil {
		if err := s.cmd.Process.Kill(); err != nil {
			s.opts.Log.Warn("kill server process", map[string]any{"error": err.Error()})
		}
	}
	s.cmd = nil
}

func (s *Supervisor) markFailed() {
	s.mu.Lock()
	if s.state == StateStarting {
		s.state = StateFailedToStart
	}
	s.mu.Unlock()
}

func (s *Supervisor) fail(err error) {
	s.opts.Log.Error("supervisor", map[string]any{"error": err.Error()})
	if s.opts.OnError != nil {
		s.opts.OnError(err)
	}
}
