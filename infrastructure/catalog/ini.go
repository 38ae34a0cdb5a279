// Package catalog loads action catalogs from INI, YAML or JSON files.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/ini.v1"

	"github.com/felixgeelhaar/goap-go/domain/action"
)

// PreconditionsKey is the INI key holding an action's preconditions.
const PreconditionsKey = "preconditions"

// ParsePreconditionsINI reads a preconditions table from INI source. Each
// section names an action; its preconditions key holds a
// "fact=value; fact=value" list, which may continue on indented lines.
// Sections without their own key inherit the one in [DEFAULT]; sections with
// neither are skipped.
func ParsePreconditionsINI(src []byte) (action.PreconditionTable, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:        true,
		AllowPythonMultilineValues: true,
		InsensitiveKeys:            true,
	}, src)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	var fallback *ini.Key
	if def := f.Section(ini.DefaultSection); def.HasKey(PreconditionsKey) {
		fallback = def.Key(PreconditionsKey)
	}

	table := make(action.PreconditionTable)
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		k := fallback
		if sec.HasKey(PreconditionsKey) {
			k = sec.Key(PreconditionsKey)
		}
		if k == nil {
			continue
		}
		pre, err := action.ParsePreconditions(k.String())
		if err != nil {
			return nil, &ParseError{Section: sec.Name(), Key: PreconditionsKey, Err: err}
		}
		table[sec.Name()] = pre
	}
	return table, nil
}

// LoadPreconditionsINI reads the preconditions table at path.
func LoadPreconditionsINI(path string) (action.PreconditionTable, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
		}
		return nil, err
	}

	table, err := ParsePreconditionsINI(src)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return table, nil
}
