package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/agentup/internal/app"
	"go.trai.ch/agentup/internal/core/domain"
	"golang.org/x/term"
)

func (c *CLI) newTaskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "task <version|install>",
		Short: "Run a task with parameters from stdin or PT_* variables",
		Long: `Run a task the way an orchestrator invokes it.

Parameters are read as a JSON object from stdin. When stdin is empty the
PT_<name> environment variables are used instead.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"version", "install"},
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := app.ParseTaskParams(taskInput(cmd.InOrStdin()), c.environ())
			if err != nil {
				return writeResult(cmd, domain.Failure(err))
			}
			return writeResult(cmd, c.app.Task(cmd.Context(), args[0], params))
		},
	}
}

// taskInput returns nil for an interactive terminal so the task does not wait for input.
func taskInput(in io.Reader) io.Reader {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return in
}
