// Package supervise starts the agent processes for one workflow run, polls
// their card endpoints until ready, and tears them down afterwards.
package supervise

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medpass/medpass/internal/agent"
	"github.com/medpass/medpass/internal/logging"
)

// Each readiness probe gets its own short deadline inside the overall window.
const probeTimeout = 5 * time.Second

// Spec describes one agent process to launch.
type Spec struct {
	// Name labels log output and piped stderr lines.
	Name string
	// Port is the agent's listen port, for startup logging.
	Port int
	// URL is the base address whose card endpoint signals readiness.
	URL string
	// Args is the full argument list passed to the supervisor's command.
	Args []string
}

// Options bound the supervisor's polling and shutdown behavior.
type Options struct {
	// ReadyTimeout caps how long each agent may take to serve its card.
	ReadyTimeout time.Duration
	// PollInterval is the backoff between readiness probes.
	PollInterval time.Duration
	// ShutdownGrace is how long an interrupted process may run before it
	// is force-killed.
	ShutdownGrace time.Duration
	// Stderr receives the agents' stderr, line-prefixed per agent.
	// Defaults to os.Stderr.
	Stderr io.Writer
}

// Supervisor owns a set of launched agent processes.
type Supervisor struct {
	command string
	opts    Options
	http    *http.Client
	log     zerolog.Logger
	procs   []*process
}

type process struct {
	name   string
	cmd    *exec.Cmd
	stderr *lineWriter
}

// New builds a supervisor that launches every agent from the same command,
// normally the running executable itself.
func New(command string, opts Options) *Supervisor {
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = 120 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 300 * time.Millisecond
	}
	if opts.ShutdownGrace <= 0 {
		opts.ShutdownGrace = 5 * time.Second
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Supervisor{
		command: command,
		opts:    opts,
		http:    &http.Client{},
		log:     logging.Component("supervise"),
	}
}

// Start launches each agent in order, waiting for its card endpoint before
// moving on. Any failure tears down every process already started before the
// error is returned.
func (s *Supervisor) Start(ctx context.Context, specs []Spec) error {
	for _, spec := range specs {
		if err := s.startOne(ctx, spec); err != nil {
			s.Shutdown()
			return err
		}
	}
	s.log.Info().Int("agents", len(s.procs)).Msg("all agents ready")
	return nil
}

func (s *Supervisor) startOne(ctx context.Context, spec Spec) error {
	stderr := &lineWriter{prefix: "[" + spec.Name + "] ", dst: s.opts.Stderr}

	// Not CommandContext: termination is managed explicitly in stop so the
	// process gets an interrupt and a grace period instead of an immediate
	// kill.
	cmd := exec.Command(s.command, spec.Args...)
	cmd.Stderr = stderr
	cmd.Env = os.Environ()

	s.log.Info().Str("agent", spec.Name).Int("port", spec.Port).Msg("starting agent")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", spec.Name, err)
	}
	s.procs = append(s.procs, &process{name: spec.Name, cmd: cmd, stderr: stderr})

	if err := s.waitReady(ctx, spec); err != nil {
		return err
	}
	s.log.Info().Str("agent", spec.Name).Int("port", spec.Port).Msg("agent ready")
	return nil
}

// waitReady polls the agent's card endpoint until it answers 200.
func (s *Supervisor) waitReady(ctx context.Context, spec Spec) error {
	url := strings.TrimRight(spec.URL, "/") + agent.CardPath
	deadline := time.Now().Add(s.opts.ReadyTimeout)
	for {
		if s.probe(ctx, url) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for %s at %s", spec.Name, url)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", spec.Name, ctx.Err())
		case <-time.After(s.opts.PollInterval):
		}
	}
}

func (s *Supervisor) probe(ctx context.Context, url string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// Shutdown terminates every launched process: interrupt first, then kill
// after the grace period. Safe to call more than once.
func (s *Supervisor) Shutdown() {
	for _, p := range s.procs {
		s.stop(p)
	}
	s.procs = nil
}

func (s *Supervisor) stop(p *process) {
	if p.cmd.Process == nil {
		return
	}
	s.log.Info().Str("agent", p.name).Int("pid", p.cmd.Process.Pid).Msg("stopping agent")

	_ = p.cmd.Process.Signal(os.Interrupt)
	done := make(chan error, 1)
	go func() { done <- p.cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(s.opts.ShutdownGrace):
		s.log.Warn().Str("agent", p.name).Msg("grace period elapsed, killing agent")
		_ = p.cmd.Process.Kill()
		<-done
	}
	p.stderr.flush()
}
