// Package commands implements the CLI commands for agentup.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.trai.ch/agentup/internal/adapters/config"
	"go.trai.ch/agentup/internal/app"
	"go.trai.ch/agentup/internal/build"
	"go.trai.ch/agentup/internal/core/domain"
)

// CLI represents the command line interface for agentup.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	environ func() []string
	globals config.Overrides
}

// Application represents the application logic interface.
type Application interface {
	Version(ctx context.Context) domain.TaskResult
	Install(ctx context.Context, opts app.InstallOptions) domain.TaskResult
	Task(ctx context.Context, name string, params app.TaskParams) domain.TaskResult
	Versions(ctx context.Context, collection string) ([]domain.ResolvedVersion, error)
	Platform(ctx context.Context) (domain.Platform, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "agentup",
		Short:         "Install and upgrade the Puppet agent package",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
		environ: os.Environ,
	}
	bindGlobalFlags(rootCmd.PersistentFlags(), &c.globals)

	rootCmd.AddCommand(c.newVersionCmd())
	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newTaskCmd())
	rootCmd.AddCommand(c.newVersionsCmd())
	rootCmd.AddCommand(c.newPlatformCmd())
	rootCmd.AddCommand(c.newBuildInfoCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// SetInput sets the stream task parameters are read from.
func (c *CLI) SetInput(in io.Reader) {
	c.rootCmd.SetIn(in)
}

// SetEnviron replaces the environment task parameters fall back to. Used for testing.
func (c *CLI) SetEnviron(environ func() []string) {
	c.environ = environ
}

func bindGlobalFlags(fs *pflag.FlagSet, o *config.Overrides) {
	fs.StringVar(&o.ConfigPath, "config", "", "Path to the configuration file")
	fs.StringVar(&o.Platform, "platform", "", "Override platform detection (e.g. el-8-x86_64)")
	fs.BoolVar(&o.LogJSON, "log-json", false, "Write logs as JSON")
	fs.BoolVar(&o.Verbose, "verbose", false, "Enable debug logging")
}

// ParseGlobalFlags extracts the persistent flags from args ahead of command dispatch.
// Unknown flags are left for the command parser.
func ParseGlobalFlags(args []string) (config.Overrides, error) {
	var o config.Overrides
	fs := pflag.NewFlagSet("agentup", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.ParseErrorsAllowlist.UnknownFlags = true
	bindGlobalFlags(fs, &o)

	if err := fs.Parse(args); err != nil && !errors.Is(err, pflag.ErrHelp) {
		return config.Overrides{}, err
	}
	return o, nil
}

// writeResult prints a task result as one JSON line. A failed result becomes ErrTaskFailed
// since the failure itself is already on stdout.
func writeResult(cmd *cobra.Command, res domain.TaskResult) error {
	if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	if !res.OK() {
		return domain.ErrTaskFailed
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
