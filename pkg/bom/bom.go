// Package bom exports a circuit's bill of materials and net list as an xlsx
// workbook.
package bom

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/OpenTraceLab/ascgen/pkg/circuit"
	"github.com/OpenTraceLab/ascgen/pkg/registry"
)

// Sheet names.
const (
	PartsSheet = "BOM"
	NetsSheet  = "Nets"
)

// Line is one BOM row: all parts sharing a type and value.
type Line struct {
	Type   string
	Symbol string
	Value  string
	Refs   []string
}

// Quantity returns the number of parts on the line.
func (l Line) Quantity() int { return len(l.Refs) }

// Lines groups the circuit's parts by type and value, in first placement
// order. Grounds and nodes are not parts.
func Lines(c *circuit.Circuit) []Line {
	type key struct{ typ, value string }
	index := make(map[key]int)
	var lines []Line

	for _, comp := range c.Components() {
		if k := comp.Kind(); k == registry.KindGround || k == registry.KindNode {
			continue
		}
		k := key{comp.Type(), comp.Value()}
		i, ok := index[k]
		if !ok {
			i = len(lines)
			index[k] = i
			lines = append(lines, Line{Type: comp.Type(), Symbol: comp.Symbol(), Value: comp.Value()})
		}
		lines[i].Refs = append(lines[i].Refs, comp.Ref())
	}
	return lines
}

// Write saves the workbook to path.
func Write(path string, c *circuit.Circuit) error {
	f, err := build(c)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("bom: save %s: %w", path, err)
	}
	return nil
}

// WriteTo writes the workbook to w.
func WriteTo(w io.Writer, c *circuit.Circuit) error {
	f, err := build(c)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("bom: write: %w", err)
	}
	return nil
}

func build(c *circuit.Circuit) (*excelize.File, error) {
	f := excelize.NewFile()

	if _, err := f.NewSheet(PartsSheet); err != nil {
		return nil, fmt.Errorf("bom: %w", err)
	}
	if _, err := f.NewSheet(NetsSheet); err != nil {
		return nil, fmt.Errorf("bom: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("bom: %w", err)
	}
	// Indexes shift once Sheet1 is gone.
	first, err := f.GetSheetIndex(PartsSheet)
	if err != nil {
		return nil, fmt.Errorf("bom: %w", err)
	}
	f.SetActiveSheet(first)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("bom: %w", err)
	}

	parts := [][]interface{}{{"Type", "Symbol", "Value", "Qty", "Refs"}}
	for _, l := range Lines(c) {
		parts = append(parts, []interface{}{l.Type, l.Symbol, l.Value, l.Quantity(), strings.Join(l.Refs, " ")})
	}
	if err := writeRows(f, PartsSheet, parts, bold); err != nil {
		return nil, err
	}

	nets := [][]interface{}{{"Net", "Pins", "Members"}}
	for _, n := range c.Nets() {
		if len(n.Pins) < 2 && n.Label == "" {
			continue
		}
		members := make([]string, 0, len(n.Pins))
		for _, p := range n.Pins {
			members = append(members, p.String())
		}
		nets = append(nets, []interface{}{n.Name, len(n.Pins), strings.Join(members, " ")})
	}
	if err := writeRows(f, NetsSheet, nets, bold); err != nil {
		return nil, err
	}

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, header int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("bom: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("bom: %s row %d: %w", sheet, i+1, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return fmt.Errorf("bom: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return fmt.Errorf("bom: %w", err)
	}
	return f.SetColWidth(sheet, "A", "E", 14)
}
