package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/ascgen/pkg/circuit"
	"github.com/OpenTraceLab/ascgen/pkg/design"
)

var (
	buildOut   string
	buildForce bool
	buildQuiet bool
)

var buildCmd = &cobra.Command{
	Use:   "build <design.cir>",
	Short: "Build a design file into an .asc schematic",
	Long: `Build a circuit description into an LTspice schematic.

The circuit is validated before writing. Any ERROR aborts the build and
leaves the output untouched unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

var validateCmd = &cobra.Command{
	Use:   "validate <design.cir>",
	Short: "Validate a design file and print the report",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(validateCmd)

	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "output file (default: design name with .asc)")
	buildCmd.Flags().BoolVarP(&buildForce, "force", "f", false, "write even when validation reports errors")
	buildCmd.Flags().BoolVarP(&buildQuiet, "quiet", "q", false, "do not print the validation report")
	addCircuitFlags(buildCmd)
	addCircuitFlags(validateCmd)
}

// loadDesign reads a design file with the configured registry and settings.
func loadDesign(cmd *cobra.Command, path string) (*circuit.Circuit, error) {
	reg, err := newRegistry()
	if err != nil {
		return nil, err
	}
	cfg, err := circuitConfig(cmd)
	if err != nil {
		return nil, err
	}
	c, err := design.LoadFile(path, reg, cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("loaded %s: %d components, %d wires", path, len(c.Components()), len(c.Wires()))
	return c, nil
}

// outputPath replaces the extension of in with ext unless out is set.
func outputPath(in, out, ext string) string {
	if out != "" {
		return out
	}
	return strings.TrimSuffix(in, filepath.Ext(in)) + ext
}

func runBuild(cmd *cobra.Command, args []string) error {
	c, err := loadDesign(cmd, args[0])
	if err != nil {
		return err
	}
	return saveCircuit(c, outputPath(args[0], buildOut, ".asc"))
}

// saveCircuit writes c honouring the build flags.
func saveCircuit(c *circuit.Circuit, out string) error {
	opts := circuit.SaveOptions{SkipValidation: buildForce}
	if !buildQuiet {
		opts.Report = os.Stdout
	}
	if buildForce && !buildQuiet {
		if err := circuit.WriteReport(os.Stdout, c.Validate()); err != nil {
			return err
		}
	}

	if err := c.Save(out, opts); err != nil {
		var verr *circuit.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%s not written: %d error(s)", out, verr.Errors)
		}
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	c, err := loadDesign(cmd, args[0])
	if err != nil {
		return err
	}
	issues := c.Validate()
	if err := circuit.WriteReport(os.Stdout, issues); err != nil {
		return err
	}
	if issues.HasErrors() {
		return fmt.Errorf("%s: %d error(s)", args[0], issues.Count(circuit.SeverityError))
	}
	return nil
}
