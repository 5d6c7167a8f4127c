package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/ascgen/internal/config"
	"github.com/OpenTraceLab/ascgen/pkg/circuit"
	"github.com/OpenTraceLab/ascgen/pkg/registry"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Resolved in PersistentPreRunE
	settings *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ascgen",
	Short: "ascgen - grid-based LTspice schematic builder",
	Long: `ascgen builds LTspice .asc schematics from circuit descriptions placed on
a coarse grid, validates them, and inspects existing schematics.

Examples:
  ascgen build divider.cir -o divider.asc   # Build and save a design
  ascgen validate divider.cir               # Report validation issues
  ascgen example noninverting-amplifier     # Write a built-in example
  ascgen nets divider.asc                   # Recover nets from a schematic
  ascgen types                              # List component types
  ascgen config init                        # Write ./ascgen.yaml`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetFlags(0)
		log.SetPrefix("ascgen: ")
		if !verbose {
			log.SetOutput(io.Discard)
		}
		return loadSettings()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: search ascgen.yaml)")
}

func loadSettings() error {
	var (
		path string
		err  error
	)
	if configPath != "" {
		settings, path, err = config.LoadFromPath(configPath)
	} else {
		settings, path, err = config.Load()
	}
	if err != nil {
		return err
	}
	if path != "" {
		log.Printf("using config %s", path)
	}
	return nil
}

// newRegistry builds the registry from the loaded settings.
func newRegistry() (*registry.Registry, error) {
	return settings.NewRegistry()
}

// circuitConfig returns the circuit settings with command line overrides
// applied.
func circuitConfig(cmd *cobra.Command) (*circuit.Config, error) {
	cfg := *settings
	var err error
	if f := cmd.Flags().Lookup("grid"); f != nil && f.Changed {
		if cfg.Grid.Size, err = cmd.Flags().GetInt("grid"); err != nil {
			return nil, err
		}
	}
	if f := cmd.Flags().Lookup("labels"); f != nil && f.Changed {
		if cfg.Labels, err = cmd.Flags().GetString("labels"); err != nil {
			return nil, err
		}
	}
	return cfg.CircuitConfig()
}

// addCircuitFlags registers the flags read by circuitConfig.
func addCircuitFlags(cmd *cobra.Command) {
	cmd.Flags().Int("grid", 0, "grid size in cells (overrides config)")
	cmd.Flags().String("labels", "", "label conflict policy: reject or overwrite (overrides config)")
}
