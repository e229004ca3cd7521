// Package cmd provides the CLI commands for roi.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warp/attrition-engine/internal/config"
	"github.com/warp/attrition-engine/internal/logging"
)

// Version is set at build time.
var Version = "0.1.0"

type rootOptions struct {
	cfgFile string
	verbose bool
	cfg     *config.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "roi",
		Short: "Project the return on an attrition-prediction programme",
		Long: `roi projects five years of savings, net benefit, ROI and payback for an
employee-attrition prediction and retention programme.

Examples:
  roi calculate
  roi calculate --accuracy 96.4
  roi calculate --preset report-v2 --format json
  roi calculate --file scenario.json --format csv
  roi presets`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init()
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "YAML config file for default parameters")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	root.AddCommand(newCalculateCmd(opts))
	root.AddCommand(newPresetsCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) init() error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	o.cfg = cfg

	logCfg := logging.Config{Level: "warn", Format: "console", Output: "stderr"}
	if o.verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Initialize(logCfg); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "roi version %s\n", Version)
		},
	}
}
