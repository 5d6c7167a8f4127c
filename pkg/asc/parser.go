package asc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	version "github.com/mcuadros/go-version"
)

// MinVersion is the oldest format version Parse accepts.
const MinVersion = "4"

// ErrUnsupportedVersion is returned for files older than MinVersion or
// without a Version header.
var ErrUnsupportedVersion = errors.New("asc: unsupported file version")

// ASCLexer splits a schematic into whitespace separated words and line ends.
var ASCLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "EOL", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Word", Pattern: `[^\s]+`},
})

// ascFile is the raw grammar: one optional record per line.
type ascFile struct {
	Records []*ascRecord `( @@? EOL )* @@?`
}

type ascRecord struct {
	Pos lexer.Position

	Version *versionRecord `  @@`
	Sheet   *sheetRecord   `| @@`
	Wire    *wireRecord    `| @@`
	Flag    *flagRecord    `| @@`
	Symbol  *symbolRecord  `| @@`
	Attr    *attrRecord    `| @@`
	Window  *otherRecord   `| "WINDOW" @@`
	Other   *otherRecord   `| @@`
}

type versionRecord struct {
	Version string `"Version" @Word`
}

type sheetRecord struct {
	Number int `"SHEET" @Word`
	Width  int `@Word`
	Height int `@Word`
}

type wireRecord struct {
	X1 int `"WIRE" @Word`
	Y1 int `@Word`
	X2 int `@Word`
	Y2 int `@Word`
}

type flagRecord struct {
	X    int    `"FLAG" @Word`
	Y    int    `@Word`
	Name string `@Word`
}

type symbolRecord struct {
	Name        string `"SYMBOL" @Word`
	X           int    `@Word`
	Y           int    `@Word`
	Orientation string `@Word?`
}

type attrRecord struct {
	Key   string   `"SYMATTR" @Word`
	Value []string `@Word*`
}

type otherRecord struct {
	Words []string `@Word+`
}

// Parser reads schematic files.
type Parser struct {
	parser *participle.Parser[ascFile]
}

// NewParser creates a new schematic parser.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[ascFile](
		participle.Lexer(ASCLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("asc: failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse reads a schematic from r.
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("asc: read: %w", err)
	}
	return p.ParseString(string(data))
}

// ParseString reads a schematic from a string.
func (p *Parser) ParseString(input string) (*Document, error) {
	input = strings.TrimPrefix(input, "\ufeff")
	// Every record, the last one included, ends with a line break.
	if input != "" && !strings.HasSuffix(input, "\n") {
		input += "\n"
	}
	raw, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("asc: parse error: %w", err)
	}
	doc, err := build(raw)
	if err != nil {
		return nil, err
	}
	if err := CheckVersion(doc.Version); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseFile reads the schematic at path.
func (p *Parser) ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asc: %w", err)
	}
	return p.Parse(bytes.NewReader(data))
}

// Parse is a convenience wrapper around NewParser().Parse.
func Parse(r io.Reader) (*Document, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	return p.Parse(r)
}

// ParseFile is a convenience wrapper around NewParser().ParseFile.
func ParseFile(path string) (*Document, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	return p.ParseFile(path)
}

// CheckVersion rejects missing versions and versions older than MinVersion.
func CheckVersion(v string) error {
	if v == "" {
		return fmt.Errorf("%w: missing Version header", ErrUnsupportedVersion)
	}
	if version.CompareSimple(v, MinVersion) < 0 {
		return fmt.Errorf("%w: %s (need %s or newer)", ErrUnsupportedVersion, v, MinVersion)
	}
	return nil
}

// build folds the flat record list into a Document. SYMATTR and WINDOW
// lines attach to the most recent SYMBOL.
func build(raw *ascFile) (*Document, error) {
	doc := &Document{}
	var current *Symbol

	for _, rec := range raw.Records {
		switch {
		case rec.Version != nil:
			doc.Version = rec.Version.Version
		case rec.Sheet != nil:
			doc.Sheet = Sheet{Number: rec.Sheet.Number, Width: rec.Sheet.Width, Height: rec.Sheet.Height}
		case rec.Wire != nil:
			w := rec.Wire
			doc.Wires = append(doc.Wires, Wire{X1: w.X1, Y1: w.Y1, X2: w.X2, Y2: w.Y2})
			current = nil
		case rec.Flag != nil:
			f := rec.Flag
			doc.Flags = append(doc.Flags, Flag{X: f.X, Y: f.Y, Name: f.Name})
			current = nil
		case rec.Symbol != nil:
			s := rec.Symbol
			orient := s.Orientation
			if orient == "" {
				orient = "R0"
			}
			current = &Symbol{Name: s.Name, X: s.X, Y: s.Y, Orientation: orient}
			doc.Symbols = append(doc.Symbols, current)
		case rec.Attr != nil:
			if current == nil {
				return nil, fmt.Errorf("asc: %s: SYMATTR without a preceding SYMBOL", rec.Pos)
			}
			current.Attrs = append(current.Attrs, Attr{
				Key:   rec.Attr.Key,
				Value: strings.Join(rec.Attr.Value, " "),
			})
		case rec.Window != nil:
			line := "WINDOW " + strings.Join(rec.Window.Words, " ")
			if current != nil {
				current.Extra = append(current.Extra, line)
			} else {
				doc.Extra = append(doc.Extra, line)
			}
		case rec.Other != nil:
			doc.Extra = append(doc.Extra, strings.Join(rec.Other.Words, " "))
			current = nil
		}
	}

	return doc, nil
}
