package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/ascgen/pkg/examples"
)

var exampleOut string

var exampleCmd = &cobra.Command{
	Use:   "example [name]",
	Short: "List the built-in example circuits or write one",
	Long: `Without arguments, list the built-in examples. With a name, build that
example and save it as <name>.asc (or --out).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExample,
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the registered component types and their pins",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

func init() {
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(typesCmd)

	exampleCmd.Flags().StringVarP(&exampleOut, "out", "o", "", "output file (default: <name>.asc)")
	exampleCmd.Flags().BoolVarP(&buildForce, "force", "f", false, "write even when validation reports errors")
	exampleCmd.Flags().BoolVarP(&buildQuiet, "quiet", "q", false, "do not print the validation report")
}

func runExample(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range examples.Names() {
			e, _ := examples.Get(name)
			fmt.Printf("  %-24s %s\n", name, e.Description)
		}
		return nil
	}

	e, ok := examples.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown example %q (available: %s)", args[0], strings.Join(examples.Names(), ", "))
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	c, err := e.Build(reg)
	if err != nil {
		return fmt.Errorf("example %s: %w", e.Name, err)
	}
	return saveCircuit(c, outputPath(e.Name, exampleOut, ".asc"))
}

func runTypes(cmd *cobra.Command, args []string) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	fmt.Printf("Registry policy: %s\n\n", reg.Policy())
	for _, name := range reg.Names() {
		def, err := reg.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Printf("%-10s symbol=%-10s prefix=%-3s kind=%s\n", def.Name, def.Symbol, def.Prefix, def.Kind)
		for _, p := range def.Pins {
			supply := ""
			if p.Supply {
				supply = " (supply)"
			}
			fmt.Printf("    %-10s %v%s\n", p.Name, p.Offset, supply)
		}
	}
	return nil
}
