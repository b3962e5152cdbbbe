package ports

import "context"

// CommandResult is the captured outcome of an external command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Output returns stdout and stderr joined, as a user would see them.
func (r CommandResult) Output() string {
	switch {
	case r.Stderr == "":
		return r.Stdout
	case r.Stdout == "":
		return r.Stderr
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}

// CommandRunner runs external commands and captures their output.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes name with args and waits for it.
	//
	// A non-zero exit returns the captured result together with an error matching
	// domain.ErrCommandFailed; a missing executable returns domain.ErrCommandNotFound.
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)
}
