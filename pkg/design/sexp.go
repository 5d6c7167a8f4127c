package design

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chewxy/sexp"
)

// parse reads every top-level expression. The parser panics on a stray
// closing paren and turns leading whitespace into an empty symbol; both are
// handled here.
func parse(r io.Reader) (roots []sexp.Sexp, err error) {
	defer func() {
		if p := recover(); p != nil {
			roots, err = nil, fmt.Errorf("%w: unbalanced parentheses", ErrSyntax)
		}
	}()

	parsed, err := sexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	for _, s := range parsed {
		if s == nil {
			continue
		}
		if text, ok := symbol(s); ok && strings.TrimSpace(text) == "" {
			continue
		}
		roots = append(roots, s)
	}
	return roots, nil
}

// S-expression navigation helpers

// items converts an s-expression list to a Go slice. A leaf yields nothing.
func items(s sexp.Sexp) []sexp.Sexp {
	if s == nil || s.IsLeaf() {
		return nil
	}
	if list, ok := s.(sexp.List); ok {
		return list
	}

	// Strict expressions only offer Head/Tail.
	var out []sexp.Sexp
	for s != nil && !s.IsLeaf() && s.LeafCount() > 0 {
		out = append(out, s.Head())
		s = s.Tail()
	}
	return out
}

// symbol returns the text of a leaf.
func symbol(s sexp.Sexp) (string, bool) {
	if s == nil || !s.IsLeaf() {
		return "", false
	}
	if sym, ok := s.(sexp.Symbol); ok {
		return string(sym), true
	}
	return fmt.Sprint(s), true
}

// formName returns the first symbol of a list, e.g. "place" for (place ...).
// The parser collapses a one-element list such as (mirror) into its atom, so
// a leaf names itself.
func formName(s sexp.Sexp) string {
	if name, ok := symbol(s); ok {
		return name
	}
	list := items(s)
	if len(list) == 0 {
		return ""
	}
	name, _ := symbol(list[0])
	return name
}

// stringAt returns the atom at index. The parser splits quoted strings on
// spaces and keeps the quotes, so a value like "10 k" arrives as two tokens;
// they are joined back together. next is the index after the value.
func stringAt(list []sexp.Sexp, index int) (value string, next int, err error) {
	if index < 0 || index >= len(list) {
		return "", index, fmt.Errorf("%w: missing argument %d", ErrSyntax, index)
	}
	first, ok := symbol(list[index])
	if !ok {
		return "", index, fmt.Errorf("%w: argument %d must be an atom", ErrSyntax, index)
	}
	if !strings.HasPrefix(first, `"`) {
		return first, index + 1, nil
	}

	first = strings.TrimPrefix(first, `"`)
	if strings.HasSuffix(first, `"`) {
		return strings.TrimSuffix(first, `"`), index + 1, nil
	}
	parts := []string{first}
	for i := index + 1; i < len(list); i++ {
		part, ok := symbol(list[i])
		if !ok {
			break
		}
		if strings.HasSuffix(part, `"`) {
			parts = append(parts, strings.TrimSuffix(part, `"`))
			return strings.Join(parts, " "), i + 1, nil
		}
		parts = append(parts, part)
	}
	return "", index, fmt.Errorf("%w: unterminated string %q", ErrSyntax, first)
}

// intAt returns the integer atom at index.
func intAt(list []sexp.Sexp, index int) (int, error) {
	s, _, err := stringAt(list, index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: argument %d: %q is not an integer", ErrSyntax, index, s)
	}
	return v, nil
}
