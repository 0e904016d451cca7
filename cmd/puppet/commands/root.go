// Package commands implements the CLI commands for puppet.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/puppet/internal/app"
	"go.trai.ch/puppet/internal/build"
	"go.trai.ch/puppet/internal/core/domain"
)

// CLI represents the command line interface for puppet.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "puppet",
		Short:         "Recreate and share Service Catalog portfolios across accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().String("log-level", "info", "Log verbosity (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json", false, "Emit logs as JSON")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		level, _ := cmd.Flags().GetString("log-level")
		jsonMode, _ := cmd.Flags().GetBool("json")
		a.ConfigureLogging(jsonMode, domain.ParseLogLevel(level))
	}

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newDeployCmd())
	rootCmd.AddCommand(c.newGenerateSharesCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

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

// SetOutput sets the writer for command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
}
