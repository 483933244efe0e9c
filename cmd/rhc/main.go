package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/studiowebux/rhc/internal/cli"
)

var (
	version = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rhc [file]",
	Short: "rhc - pick, fill in and send saved HTTP requests",
	Long: `rhc sends HTTP requests saved as TOML or YAML definition files.

Run without arguments to fuzzy-search your definitions, pick an environment
with tab and send the selected request. Any {variables} still unbound after
applying the environment and --binding values are asked for interactively,
with previous answers offered from history.

Examples:
  rhc                                  # Pick a definition interactively
  rhc -f users/get.toml                # Send a definition directly
  rhc -f get.toml -e envs/dev.toml     # Use an environment file
  rhc -f get.toml -b id=42 -b v=2      # Bind variables on the command line
  rhc -f get.toml -q 'items[0].name'   # Narrow a JSON response
  rhc --help                           # Show help`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := flags
		if len(args) > 0 {
			if opts.File != "" {
				return fmt.Errorf("definition given both as --file and as an argument")
			}
			opts.File = args[0]
		}
		return cli.Run(cmd.Context(), opts)
	},
}

var flags cli.Options

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flags.File, "file", "f", "", "Request definition file to send (skips the picker)")
	f.StringVarP(&flags.Environment, "environment", "e", "", "Environment file to use")
	f.StringArrayVarP(&flags.Bindings, "binding", "b", []string{}, "Bind a variable (name=value), can be repeated")
	f.StringVarP(&flags.ConfigPath, "config", "c", "", "Config file (default ~/.config/rhc/config.toml)")
	f.BoolVarP(&flags.OnlyBody, "only-body", "o", false, "Print only the response body")
	f.BoolVarP(&flags.Headers, "include", "i", false, "Print response headers after the status line")
	f.BoolVarP(&flags.Verbose, "verbose", "v", false, "Debug level logging to the configured log file")
	f.BoolVar(&flags.NoInteractive, "no-interactive", false, "Never open the picker or prompt; unbound variables are sent as-is")
	f.StringVarP(&flags.Query, "query", "q", "", "JMESPath expression applied to JSON responses")
	f.BoolVar(&flags.NoColor, "no-color", false, "Disable response highlighting")
}
