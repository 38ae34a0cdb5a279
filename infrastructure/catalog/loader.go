package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/dungeon"
	"github.com/felixgeelhaar/goap-go/domain/plan"
)

// Bundle is a loaded catalog plus any goals defined alongside it.
type Bundle struct {
	Actions *action.Catalog
	Goals   map[string]plan.Goal
	Path    string
}

// Default returns the built-in dungeon catalog with no extra goals.
func Default() *Bundle {
	return &Bundle{Actions: dungeon.DefaultCatalog(), Goals: map[string]plan.Goal{}}
}

// Load reads the catalog at path, choosing the format by extension.
//
// An .ini file supplies preconditions for the built-in dungeon actions.
// A .yaml, .yml or .json file defines the whole action set.
func Load(path string) (*Bundle, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini":
		table, err := LoadPreconditionsINI(path)
		if err != nil {
			return nil, err
		}
		c, err := dungeon.Catalog(table)
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		return &Bundle{Actions: c, Goals: map[string]plan.Goal{}, Path: path}, nil

	case ".yaml", ".yml", ".json":
		src, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
			}
			return nil, err
		}
		b, err := parseBundle(src)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Path = path
			}
			return nil, err
		}
		b.Path = path
		return b, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func parseBundle(src []byte) (*Bundle, error) {
	doc, err := ParseDocument(src)
	if err != nil {
		return nil, err
	}
	c, goals, err := doc.Build()
	if err != nil {
		return nil, err
	}
	return &Bundle{Actions: c, Goals: goals}, nil
}
