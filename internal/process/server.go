package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mcenv/mcenv/internal/sentinel"
)

const (
	// ErrLaunchFailed means the child process could not be spawned.
	ErrLaunchFailed = sentinel.Error("server process launch failed")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = sentinel.Error("server process already started")
)

// DefaultLineBuffer is the output channel capacity used when Config leaves
// LineBuffer zero.
const DefaultLineBuffer = 256

// maxLineLen bounds a single scanned output line. Modded servers can dump
// very long stack traces onto one line.
const maxLineLen = 1 << 20

// Config holds the configuration for a Server.
type Config struct {
	// Name identifies the server in log entries, typically the instance
	// ID.
	Name string

	// JavaPath is the java binary to spawn.
	JavaPath string

	// Args is the full argument vector following the binary.
	Args []string

	// Dir is the working directory, the instance root. Crash artifacts
	// are searched under it.
	Dir string

	// Stdin, when non-nil, is connected to the child so console commands
	// can be forwarded. Nil leaves the child without input.
	Stdin io.Reader

	// LineBuffer is the output channel capacity; zero means
	// DefaultLineBuffer.
	LineBuffer int

	// Grace is how long Terminate waits after the termination signal
	// before escalating to a kill. Zero means DefaultGrace.
	Grace time.Duration

	// Logger is optional and defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultGrace is the termination grace period used when Config leaves
// Grace zero.
const DefaultGrace = 10 * time.Second

func (c Config) validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if c.JavaPath == "" {
		errs = append(errs, errors.New("java path must not be empty"))
	}
	if c.Dir == "" {
		errs = append(errs, errors.New("working dir must not be empty"))
	}
	if c.LineBuffer < 0 {
		errs = append(errs, errors.New("line buffer must not be negative"))
	}
	if c.Grace < 0 {
		errs = append(errs, errors.New("grace must not be negative"))
	}
	return errors.Join(errs...)
}

// Server supervises one server child process. Start may be called once;
// State, Result, Lines, Exited, Wait, and Terminate are safe for concurrent
// use.
type Server struct {
	name     string
	javaPath string
	args     []string
	dir      string
	stdin    io.Reader
	grace    time.Duration
	log      *slog.Logger

	started     atomic.Bool
	state       atomic.Int32
	terminating atomic.Bool
	startedAt   time.Time

	cmd    *exec.Cmd
	lines  chan string
	exited chan struct{}

	// result is written by the wait goroutine before the terminal state
	// is stored and exited closes; readers access it only after
	// observing either of those.
	result Result
}

// New creates a Server. It performs no I/O; the child is spawned by Start.
func New(cfg Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}

	lineBuffer := cfg.LineBuffer
	if lineBuffer == 0 {
		lineBuffer = DefaultLineBuffer
	}
	grace := cfg.Grace
	if grace == 0 {
		grace = DefaultGrace
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Server{
		name:     cfg.Name,
		javaPath: cfg.JavaPath,
		args:     cfg.Args,
		dir:      cfg.Dir,
		stdin:    cfg.Stdin,
		grace:    grace,
		log:      log.With("server", cfg.Name),
		lines:    make(chan string, lineBuffer),
		exited:   make(chan struct{}),
	}, nil
}

// Start spawns the child process. Canceling ctx after a successful Start
// triggers the same graceful-then-forced shutdown as Terminate.
func (s *Server) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	cmd := exec.Command(s.javaPath, s.args...)
	cmd.Dir = s.dir
	cmd.Stdin = s.stdin
	configureSysProcAttr(cmd)

	// Plain pipes instead of StdoutPipe: the fds go straight to the
	// child, so cmd.Wait does not depend on our scanners reaching EOF
	// and can be called as soon as the child exits.
	outR, outW, err := os.Pipe()
	if err != nil {
		s.started.Store(false)
		return fmt.Errorf("create stdout pipe: %w: %w", ErrLaunchFailed, err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		_ = outR.Close()
		_ = outW.Close()
		s.started.Store(false)
		return fmt.Errorf("create stderr pipe: %w: %w", ErrLaunchFailed, err)
	}
	cmd.Stdout = outW
	cmd.Stderr = errW

	if err := cmd.Start(); err != nil {
		for _, f := range []*os.File{outR, outW, errR, errW} {
			_ = f.Close()
		}
		s.started.Store(false)
		return fmt.Errorf("start %s: %w: %w", s.javaPath, ErrLaunchFailed, err)
	}

	// The child holds its own copies of the write ends; ours must close
	// so the readers see EOF when the child exits.
	_ = outW.Close()
	_ = errW.Close()

	s.cmd = cmd
	s.startedAt = time.Now()
	// Running is published only after cmd is recorded; Terminate observing
	// StateRunning may therefore touch s.cmd.
	s.state.Store(int32(StateRunning))
	s.log.Info("server process started", "pid", cmd.Process.Pid, "dir", s.dir)

	var pumps sync.WaitGroup
	pumps.Add(2)
	go s.pump(outR, &pumps)
	go s.pump(errR, &pumps)
	go func() {
		pumps.Wait()
		close(s.lines)
	}()

	// Exactly one goroutine calls cmd.Wait. The outcome is recorded
	// before exited closes so observers of the exit see a final Result.
	go func() {
		err := cmd.Wait()
		s.finalize(err)
		close(s.exited)
	}()

	go func() {
		select {
		case <-ctx.Done():
			_ = s.Terminate(context.Background())
		case <-s.exited:
		}
	}()

	return nil
}

// pump scans one output stream into the shared line channel, reading until
// EOF so the child never blocks on a full pipe.
func (s *Server) pump(r *os.File, wg *sync.WaitGroup) {
	defer wg.Done()
	defer func() { _ = r.Close() }()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLen)
	for sc.Scan() {
		s.lines <- sc.Text()
	}
	if err := sc.Err(); err != nil {
		s.log.Warn("server output scan aborted", "err", err)
	}
}

// finalize records the outcome of the finished process.
func (s *Server) finalize(waitErr error) {
	res := Result{ExitCode: exitCodeOf(waitErr)}
	state := StateExited

	switch {
	case waitErr == nil:
	case s.terminating.Load() && signalExit(waitErr):
		// A requested shutdown that ended by signal is a clean stop.
		res.ExitCode = 0
	default:
		// The crash scan reaches one second before the recorded start,
		// since filesystem mtime granularity can lag the wall clock.
		if report, ok := findCrashReport(s.dir, s.startedAt.Add(-time.Second)); ok {
			res.Crash = &report
			state = StateCrashed
		}
	}

	s.result = res
	s.state.Store(int32(state))

	if state == StateCrashed {
		s.log.Warn("server crashed", "code", res.ExitCode, "report", res.Crash.Path)
	} else {
		s.log.Info("server exited", "code", res.ExitCode)
	}
}

// State returns the current lifecycle phase.
func (s *Server) State() State {
	return State(s.state.Load())
}

// PID returns the child's process ID, or 0 before Start.
func (s *Server) PID() int {
	if s.cmd == nil || s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// Lines returns the output channel. It closes after the process exits and
// residual output drains.
func (s *Server) Lines() <-chan string {
	return s.lines
}

// Exited returns a channel closed once the process has finished and its
// Result is recorded. Safe to select on from any number of goroutines.
func (s *Server) Exited() <-chan struct{} {
	return s.exited
}

// Result returns the exit outcome. ok is false until the process has
// reached a terminal state.
func (s *Server) Result() (_ Result, ok bool) {
	if !s.State().Terminal() {
		return Result{}, false
	}
	return s.result, true
}

// Wait blocks until the process finishes or ctx is canceled.
func (s *Server) Wait(ctx context.Context) (Result, error) {
	select {
	case <-s.exited:
		return s.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
