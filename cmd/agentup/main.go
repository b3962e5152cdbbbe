// Package main is the entry point for agentup.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/agentup/cmd/agentup/commands"
	"go.trai.ch/agentup/internal/adapters/config"
	"go.trai.ch/agentup/internal/app"
	"go.trai.ch/agentup/internal/core/domain"
	_ "go.trai.ch/agentup/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stdin io.Reader,
	stdout, stderr io.Writer,
	provider ComponentProvider,
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Global flags shape the graph, so they are read before it is built
	overrides, err := commands.ParseGlobalFlags(args)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	ctx = config.WithOverrides(ctx, overrides)

	// 2. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		writeFailure(stdout, err)
		return 1
	}
	defer cleanup()
	defer func() {
		_ = components.Tracer.Shutdown(context.WithoutCancel(ctx))
	}()

	// 3. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetInput(stdin)
	cli.SetOutput(stdout, stderr)

	// 4. Execution
	if err := cli.Execute(ctx); err != nil {
		if domain.Matches(err, domain.ErrTaskFailed) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}

// writeFailure reports a bootstrap error as a task result so orchestrators
// reading stdout still receive a result.
func writeFailure(w io.Writer, err error) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(domain.Failure(err))
}
