package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/ascgen/internal/config"
)

var (
	configInitForce bool
	configInitUser  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the ascgen configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the current settings to a config file",
	Long: `Write the effective settings (defaults plus any loaded config) as YAML.

Without a path the file is ./ascgen.yaml, or the per-user config.yaml with
--user. An existing file is only replaced with --force.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file")
	configInitCmd.Flags().BoolVar(&configInitUser, "user", false, "write the per-user config instead of ./ascgen.yaml")
	addCircuitFlags(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ConfigFileName
	switch {
	case len(args) == 1:
		path = args[0]
	case configInitUser:
		if path = config.UserConfigPath(); path == "" {
			return errors.New("no user config directory on this system")
		}
	}

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to replace it)", path)
	}
	if err := settings.Save(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	cfg, err := circuitConfig(cmd)
	if err != nil {
		return err
	}
	width, height := cfg.SheetSize()
	fmt.Printf("Grid: %d cells of %d units (sheet %dx%d)\n", cfg.GridSize, cfg.GridUnit, width, height)
	fmt.Printf("Label policy: %s\n", cfg.LabelPolicy)
	fmt.Printf("Registry policy: %s (%d types)\n", reg.Policy(), len(reg.Names()))
	return nil
}
