package gqlx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/prometheusfi/prometheus/pkg/errx"
	"github.com/prometheusfi/prometheus/pkg/slogx"
)

// Request is the JSON body of a GraphQL HTTP request.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Response is the JSON body written back. Data is absent when the document
// failed to parse or validate, and null when a non-null root field failed.
type Response struct {
	Data   *Object
	Errors gqlerror.List

	executed bool
}

func (r Response) MarshalJSON() ([]byte, error) {
	if !r.executed {
		return json.Marshal(struct {
			Errors gqlerror.List `json:"errors,omitempty"`
		}{r.Errors})
	}
	return json.Marshal(struct {
		Data   *Object       `json:"data"`
		Errors gqlerror.List `json:"errors,omitempty"`
	}{r.Data, r.Errors})
}

// Execute parses, validates and runs one operation. Root fields run one
// after another in document order, for queries as well as mutations.
func (s *Schema) Execute(ctx context.Context, req Request) *Response {
	doc, errs := gqlparser.LoadQuery(s.schema, req.Query)
	if len(errs) > 0 {
		return &Response{Errors: errs}
	}

	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		return &Response{Errors: gqlerror.List{gqlerror.Errorf("operation %q not found", req.OperationName)}}
	}

	ctx = slogx.WithOperation(ctx, operationName(op))

	vars, err := validator.VariableValues(s.schema, op, req.Variables)
	if err != nil {
		return &Response{Errors: gqlerror.List{asGQL(err)}}
	}

	var root *ast.Definition
	switch op.Operation {
	case ast.Query:
		root = s.schema.Query
	case ast.Mutation:
		root = s.schema.Mutation
	}
	if root == nil {
		return &Response{Errors: gqlerror.List{asGQL(fmt.Errorf("%w: %s", errUnsupportedOp, op.Operation))}}
	}

	e := &execution{schema: s.schema, vars: vars}
	data := NewObject()
	nulled := false
	for _, c := range e.collect(op.SelectionSet, root.Name) {
		f := c.fields[0]
		path := ast.Path{ast.PathName(c.key)}

		if f.Name == "__typename" {
			data.Set(c.key, root.Name)
			continue
		}

		value, err := s.resolve(ctx, root.Name+"."+f.Name, f, vars)
		if err != nil {
			slogx.FieldFailed(ctx)
			e.errs = append(e.errs, s.fail(ctx, err, path))
			if f.Definition.Type.NonNull {
				nulled = true
			}
			data.Set(c.key, nil)
		} else {
			v, ok := e.complete(f.Definition.Type, c.fields, value, path)
			if !ok {
				nulled = true
			}
			data.Set(c.key, v)
		}

		// A null in a non-null root field nulls data. Later mutation fields
		// must not run once that has happened.
		if nulled && op.Operation == ast.Mutation {
			break
		}
	}

	if nulled {
		return &Response{Errors: e.errs, executed: true}
	}
	return &Response{Data: data, Errors: e.errs, executed: true}
}

// operationName names op for logs. Anonymous operations are named after
// their root fields.
func operationName(op *ast.OperationDefinition) string {
	if op.Name != "" {
		return op.Name
	}
	var fields []string
	for _, sel := range op.SelectionSet {
		if f, ok := sel.(*ast.Field); ok {
			fields = append(fields, f.Name)
		}
	}
	return string(op.Operation) + " " + strings.Join(fields, ",")
}

func (s *Schema) resolve(ctx context.Context, coord string, f *ast.Field, vars map[string]any) (any, error) {
	if strings.HasPrefix(f.Name, "__") {
		return nil, errx.BadRequest("Introspection is disabled. The schema is served at /graphql/schema.")
	}

	b, ok := s.bindings[coord]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNoSuchResolver, coord)
	}

	start := time.Now()
	value, err := b.fn(ctx, f.ArgumentMap(vars))
	if s.observe != nil {
		code := ""
		if err != nil {
			code = string(errx.From(err).Code)
		}
		s.observe(coord, code, time.Since(start))
	}
	if err != nil {
		return nil, err
	}
	return toGeneric(value)
}

// fail classifies err and logs the ones clients never see in full.
func (s *Schema) fail(ctx context.Context, err error, path ast.Path) *gqlerror.Error {
	e := errx.From(err)
	if e.Kind == errx.KindInternal {
		slogx.FromContext(ctx).Error("resolver failed",
			"error", err,
			"path", path.String(),
		)
	}
	return e.GQL(path)
}

func asGQL(err error) *gqlerror.Error {
	var g *gqlerror.Error
	if errors.As(err, &g) {
		return g
	}
	return gqlerror.Errorf("%s", err.Error())
}

// toGeneric turns a resolver result into the map, slice and scalar shapes
// that projection walks. Struct field names come from json tags.
func toGeneric(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("gqlx: encode result: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("gqlx: decode result: %w", err)
	}
	return out, nil
}
