package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/ascgen/pkg/asc"
	"github.com/OpenTraceLab/ascgen/pkg/bom"
	"github.com/OpenTraceLab/ascgen/pkg/preview"
)

var (
	bomOut     string
	previewOut string
)

var bomCmd = &cobra.Command{
	Use:   "bom <design.cir>",
	Short: "Write a bill of materials and net list workbook (.xlsx)",
	Args:  cobra.ExactArgs(1),
	RunE:  runBOM,
}

var previewCmd = &cobra.Command{
	Use:   "preview <file.asc|design.cir>",
	Short: "Render a schematic or design to SVG",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	rootCmd.AddCommand(bomCmd)
	rootCmd.AddCommand(previewCmd)

	bomCmd.Flags().StringVarP(&bomOut, "out", "o", "", "output file (default: design name with .xlsx)")
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "output file (default: input name with .svg)")
	addCircuitFlags(bomCmd)
	addCircuitFlags(previewCmd)
}

func runBOM(cmd *cobra.Command, args []string) error {
	c, err := loadDesign(cmd, args[0])
	if err != nil {
		return err
	}
	out := outputPath(args[0], bomOut, ".xlsx")
	if err := bom.Write(out, c); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d lines)\n", out, len(bom.Lines(c)))
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	var doc *asc.Document
	if isSchematic(args[0]) {
		doc, err = asc.ParseFile(args[0])
	} else {
		c, lerr := loadDesign(cmd, args[0])
		if lerr != nil {
			return lerr
		}
		doc = c.Document()
	}
	if err != nil {
		return err
	}

	out := outputPath(args[0], previewOut, ".svg")
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := preview.RenderDocument(f, doc, reg); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}
