package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogNotFound is returned when the catalog file does not exist.
	ErrCatalogNotFound = errors.New("catalog file not found")

	// ErrUnsupportedFormat is returned for an unrecognized catalog extension.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")

	// ErrInvalidExpression is returned when an expression does not compile.
	ErrInvalidExpression = errors.New("invalid expression")

	// ErrInvalidEffect is returned for an effect definition that is neither
	// a literal nor a known derivation.
	ErrInvalidEffect = errors.New("invalid effect definition")
)

// ParseError locates a problem inside a catalog file.
type ParseError struct {
	Path    string
	Section string
	Key     string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	loc := e.Section
	if e.Key != "" {
		loc += "." + e.Key
	}
	if e.Path == "" {
		return fmt.Sprintf("catalog [%s]: %v", loc, e.Err)
	}
	return fmt.Sprintf("catalog %s [%s]: %v", e.Path, loc, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
