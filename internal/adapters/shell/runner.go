// Package shell runs package-manager and query commands on the host.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/agentup/internal/core/ports"
	"go.trai.ch/zerr"
)

// fixedEnvironment keeps tool output in the C locale and package managers non-interactive.
var fixedEnvironment = map[string]string{
	"LC_ALL":            "C",
	"LANG":              "C",
	"DEBIAN_FRONTEND":   "noninteractive",
	"PAGER":             "cat",
	"SYSTEMD_PAGER":     "",
	"ZYPP_LOCK_TIMEOUT": "0",
}

// Runner implements ports.CommandRunner using os/exec.
type Runner struct {
	logger  ports.Logger
	environ func() []string
}

// Option configures a Runner.
type Option func(*Runner)

// WithEnviron replaces the source of the inherited environment.
func WithEnviron(environ func() []string) Option {
	return func(r *Runner) {
		r.environ = environ
	}
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger, opts ...Option) *Runner {
	r := &Runner{
		logger:  logger,
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes name with args and waits for it to finish. Stdout and stderr are
// captured separately and mirrored line by line to the debug log.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (ports.CommandResult, error) {
	env := resolveEnvironment(r.environ(), fixedEnvironment)

	executable := name
	if !filepath.IsAbs(name) {
		lp, err := lookPath(name, env)
		if err != nil {
			return ports.CommandResult{ExitCode: -1}, zerr.With(
				zerr.Wrap(domain.ErrCommandNotFound, name), "command", name)
		}
		executable = lp
	}

	r.logger.Debug("running command", "command", name, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // commands are fixed per dialect
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	stdoutLog := &logWriter{logger: r.logger, stream: "stdout"}
	stderrLog := &logWriter{logger: r.logger, stream: "stderr"}
	cmd.Stdout = io.MultiWriter(&stdout, stdoutLog)
	cmd.Stderr = io.MultiWriter(&stderr, stderrLog)

	err := cmd.Run()
	_ = stdoutLog.Close()
	_ = stderrLog.Close()

	result := ports.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else {
		result.ExitCode = -1
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}

	return result, zerr.With(zerr.With(
		domain.Wrap(err, domain.ErrCommandFailed),
		"command", name), "exit_code", result.ExitCode)
}

type logWriter struct {
	logger ports.Logger
	stream string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if strings.TrimSpace(msg) == "" {
		return
	}
	w.logger.Debug(msg, "stream", w.stream)
}

// resolveEnvironment overlays fixed values on the inherited environment.
func resolveEnvironment(sysEnv []string, fixed map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(fixed))
	order := make([]string, 0, len(sysEnv)+len(fixed))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok || k == "" {
			continue
		}
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}
	for k, v := range fixed {
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH
// entry of env rather than the process environment.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if k, v, ok := strings.Cut(e, "="); ok && strings.EqualFold(k, "PATH") {
			path = v
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		for _, candidate := range executableNames(filepath.Join(dir, file)) {
			if err := findExecutable(candidate); err == nil {
				return candidate, nil
			}
		}
	}
	return "", exec.ErrNotFound
}
