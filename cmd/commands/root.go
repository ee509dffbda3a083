// Package commands implements the ekaya-groundwater command line.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/config"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/logging"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
	version    string
}

// NewRootCommand builds the ekaya-groundwater command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{version: version}

	cmd := &cobra.Command{
		Use:   "ekaya-groundwater",
		Short: "Question answering over Indian groundwater assessment data",
		Long: `ekaya-groundwater answers natural-language questions about groundwater
availability, rainfall, recharge and extraction for Indian states and districts.

Commands:
  serve      Run the HTTP API, MCP endpoint and metrics
  ask        Answer one question and exit
  chat       Interactive question loop
  locations  List known states and districts`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "path to config.yaml")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newAskCommand(opts))
	cmd.AddCommand(newChatCommand(opts))
	cmd.AddCommand(newLocationsCommand(opts))
	cmd.AddCommand(newVersionCommand(opts))

	return cmd
}

func newVersionCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ekaya-groundwater %s\n", opts.version)
		},
	}
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(o.configPath, o.version)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// cliLogger keeps interactive output clean unless --verbose is given.
func (o *rootOptions) cliLogger() (*zap.Logger, error) {
	if o.verbose {
		return logging.NewLogger("development")
	}
	return logging.NewCLILogger()
}
