package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/ascgen/pkg/asc"
)

var netsFormat string

var infoCmd = &cobra.Command{
	Use:   "info <file.asc>",
	Short: "Show a summary of an LTspice schematic",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var netsCmd = &cobra.Command{
	Use:   "nets <file.asc|design.cir>",
	Short: "List the nets of a schematic or design",
	Long: `List nets. For an .asc file connectivity is rebuilt from wire, flag and
pin geometry. For a design file the circuit's own netlist is printed, or
exported with --format json or --format kicad.`,
	Args: cobra.ExactArgs(1),
	RunE: runNets,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(netsCmd)

	netsCmd.Flags().StringVar(&netsFormat, "format", "text", "output format for designs: text, json or kicad")
	addCircuitFlags(netsCmd)
}

func isSchematic(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".asc")
}

func runInfo(cmd *cobra.Command, args []string) error {
	doc, err := asc.ParseFile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("File: %s\n", args[0])
	fmt.Printf("Version: %s\n", doc.Version)
	fmt.Printf("Sheet: %d (%dx%d)\n", doc.Sheet.Number, doc.Sheet.Width, doc.Sheet.Height)
	fmt.Printf("Wires: %d\n", len(doc.Wires))
	fmt.Printf("Flags: %d\n", len(doc.Flags))
	fmt.Printf("Symbols: %d\n", len(doc.Symbols))
	if len(doc.Extra) > 0 {
		fmt.Printf("Other records: %d\n", len(doc.Extra))
	}

	if len(doc.Symbols) > 0 {
		fmt.Println("\nSymbols:")
		for _, s := range doc.Symbols {
			value, _ := s.Attr("Value")
			fmt.Printf("  %-8s %-10s %-5s (%d, %d) %s\n", s.InstName(), s.Name, s.Orientation, s.X, s.Y, value)
		}
	}
	return nil
}

func runNets(cmd *cobra.Command, args []string) error {
	if isSchematic(args[0]) {
		return printSchematicNets(args[0])
	}

	c, err := loadDesign(cmd, args[0])
	if err != nil {
		return err
	}

	switch netsFormat {
	case "json":
		data, err := c.ExportJSON()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	case "kicad":
		fmt.Print(c.ExportKiCad())
		return nil
	case "text":
	default:
		return fmt.Errorf("unknown format %q", netsFormat)
	}

	for _, n := range c.Nets() {
		pins := make([]string, len(n.Pins))
		for i, p := range n.Pins {
			pins[i] = p.String()
		}
		fmt.Printf("%-8s %s\n", n.Name, strings.Join(pins, " "))
	}
	return nil
}

func printSchematicNets(path string) error {
	doc, err := asc.ParseFile(path)
	if err != nil {
		return err
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	ex := asc.ExtractNets(doc, reg)
	for i, n := range ex.Nets {
		name := n.Name()
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		pins := make([]string, len(n.Pins))
		for j, p := range n.Pins {
			pins[j] = p.Ref + "." + p.Pin
		}
		fmt.Printf("%-8s %s\n", name, strings.Join(pins, " "))
	}
	for _, sym := range ex.Unknown {
		fmt.Fprintf(os.Stderr, "warning: no pin geometry for symbol %s\n", sym)
	}
	return nil
}
