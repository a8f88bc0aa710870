// Package gqlx executes GraphQL operations against an SDL schema whose root
// fields are bound through a registration table.
//
// Every Query and Mutation field is registered once with an explicit Access.
// Secured fields are wrapped with the schema guard at registration time, so
// a resolver cannot be reached without passing it. Validate reports any root
// field left unbound and is meant to run at startup.
package gqlx

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// Access states who may call a root field. The zero value is not a valid
// access level.
type Access int

const (
	accessUnset Access = iota
	// Public fields run without a viewer.
	Public
	// Secured fields run only after the guard accepts the caller.
	Secured
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Secured:
		return "secured"
	default:
		return "unset"
	}
}

// ResolverFunc resolves one root field. args holds the coerced argument
// values keyed by argument name.
type ResolverFunc func(ctx context.Context, args map[string]any) (any, error)

// Guard admits or rejects a caller. On success it returns the context the
// resolver should see.
type Guard func(ctx context.Context) (context.Context, error)

// Observer is told about every root field execution. code is "" on success.
type Observer func(field, code string, elapsed time.Duration)

var (
	ErrZeroAccess     = errors.New("gqlx: access must be Public or Secured")
	ErrUnknownField   = errors.New("gqlx: field not declared in schema")
	ErrDuplicate      = errors.New("gqlx: field registered twice")
	ErrUnregistered   = errors.New("gqlx: root fields without a resolver")
	ErrNoGuard        = errors.New("gqlx: secured field registered without a guard")
	errBadCoordinate  = errors.New("gqlx: coordinate must look like Type.field")
	errUnsupportedOp  = errors.New("gqlx: unsupported operation type")
	errNoSuchResolver = errors.New("gqlx: no resolver for field")
)

type binding struct {
	access Access
	fn     ResolverFunc
}

// Schema is a parsed SDL plus its registration table.
type Schema struct {
	sdl      string
	schema   *ast.Schema
	guard    Guard
	observe  Observer
	bindings map[string]binding
}

type Option func(*Schema)

// WithObserver installs an observer for field metrics.
func WithObserver(o Observer) Option {
	return func(s *Schema) { s.observe = o }
}

// NewSchema parses sdl. guard is applied to every Secured registration.
func NewSchema(name, sdl string, guard Guard, opts ...Option) (*Schema, error) {
	parsed, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: sdl})
	if err != nil {
		return nil, fmt.Errorf("gqlx: load schema: %w", err)
	}

	s := &Schema{
		sdl:      sdl,
		schema:   parsed,
		guard:    guard,
		bindings: map[string]binding{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SDL returns the schema source.
func (s *Schema) SDL() string { return s.sdl }

// AST exposes the parsed schema.
func (s *Schema) AST() *ast.Schema { return s.schema }

// Handle binds a root field, named by its coordinate such as "Query.post".
func (s *Schema) Handle(coordinate string, access Access, fn ResolverFunc) error {
	if access != Public && access != Secured {
		return fmt.Errorf("%w: %s", ErrZeroAccess, coordinate)
	}
	if fn == nil {
		return fmt.Errorf("gqlx: nil resolver for %s", coordinate)
	}

	typeName, fieldName, ok := strings.Cut(coordinate, ".")
	if !ok || typeName == "" || fieldName == "" {
		return fmt.Errorf("%w: %q", errBadCoordinate, coordinate)
	}
	root := s.root(typeName)
	if root == nil || root.Fields.ForName(fieldName) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownField, coordinate)
	}
	if _, exists := s.bindings[coordinate]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, coordinate)
	}

	if access == Secured {
		if s.guard == nil {
			return fmt.Errorf("%w: %s", ErrNoGuard, coordinate)
		}
		fn = Secure(s.guard, fn)
	}

	s.bindings[coordinate] = binding{access: access, fn: fn}
	return nil
}

// AccessOf reports how a coordinate was registered.
func (s *Schema) AccessOf(coordinate string) Access {
	return s.bindings[coordinate].access
}

// Validate fails when any Query or Mutation field has no registration.
func (s *Schema) Validate() error {
	var missing []string
	for _, root := range []*ast.Definition{s.schema.Query, s.schema.Mutation} {
		if root == nil {
			continue
		}
		for _, f := range root.Fields {
			if strings.HasPrefix(f.Name, "__") {
				continue
			}
			coord := root.Name + "." + f.Name
			if _, ok := s.bindings[coord]; !ok {
				missing = append(missing, coord)
			}
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%w: %s", ErrUnregistered, strings.Join(missing, ", "))
	}
	return nil
}

func (s *Schema) root(typeName string) *ast.Definition {
	switch {
	case s.schema.Query != nil && typeName == s.schema.Query.Name:
		return s.schema.Query
	case s.schema.Mutation != nil && typeName == s.schema.Mutation.Name:
		return s.schema.Mutation
	}
	return nil
}
