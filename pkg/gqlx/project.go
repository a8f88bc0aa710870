package gqlx

import (
	"slices"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/prometheusfi/prometheus/pkg/errx"
)

// TypenameKey is the json key a result uses to name its concrete type when
// it is returned through a union or interface.
const TypenameKey = "__typename"

type execution struct {
	schema *ast.Schema
	vars   map[string]any
	errs   gqlerror.List
}

// collected is every field selected under one response key.
type collected struct {
	key    string
	fields []*ast.Field
}

// collect flattens fragments and applies skip and include for an object of
// type typeName. Keys keep first-seen order.
func (e *execution) collect(set ast.SelectionSet, typeName string) []*collected {
	var (
		out   []*collected
		index = map[string]*collected{}
	)

	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch sel := sel.(type) {
			case *ast.Field:
				if !e.included(sel.Directives) {
					continue
				}
				key := sel.Alias
				if key == "" {
					key = sel.Name
				}
				c, ok := index[key]
				if !ok {
					c = &collected{key: key}
					index[key] = c
					out = append(out, c)
				}
				c.fields = append(c.fields, sel)
			case *ast.InlineFragment:
				if e.included(sel.Directives) && e.applies(sel.TypeCondition, typeName) {
					walk(sel.SelectionSet)
				}
			case *ast.FragmentSpread:
				if sel.Definition != nil && e.included(sel.Directives) && e.applies(sel.Definition.TypeCondition, typeName) {
					walk(sel.Definition.SelectionSet)
				}
			}
		}
	}
	walk(set)
	return out
}

func (e *execution) included(dirs ast.DirectiveList) bool {
	if d := dirs.ForName("skip"); d != nil {
		if v, _ := d.ArgumentMap(e.vars)["if"].(bool); v {
			return false
		}
	}
	if d := dirs.ForName("include"); d != nil {
		if v, _ := d.ArgumentMap(e.vars)["if"].(bool); !v {
			return false
		}
	}
	return true
}

func (e *execution) applies(condition, typeName string) bool {
	if condition == "" || condition == typeName {
		return true
	}
	def := e.schema.Types[condition]
	if def == nil {
		return false
	}
	for _, p := range e.schema.GetPossibleTypes(def) {
		if p.Name == typeName {
			return true
		}
	}
	return false
}

// complete shapes value to the selection of fields, which all share a
// response key and so a type. ok is false when a null reached a non-null
// position; the caller then nulls its own value in turn, up to the nearest
// nullable parent.
func (e *execution) complete(t *ast.Type, fields []*ast.Field, value any, path ast.Path) (any, bool) {
	if value == nil {
		return e.null(t, path)
	}

	if t.Elem != nil {
		list, ok := value.([]any)
		if !ok {
			return e.null(t, path)
		}
		out := make([]any, len(list))
		for i, item := range list {
			v, ok := e.complete(t.Elem, fields, item, append(slices.Clone(path), ast.PathIndex(i)))
			if !ok {
				return nil, !t.NonNull
			}
			out[i] = v
		}
		return out, true
	}

	def := e.schema.Types[t.NamedType]
	if def == nil || def.Kind == ast.Scalar || def.Kind == ast.Enum {
		return value, true
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return e.null(t, path)
	}

	typeName := def.Name
	if def.IsAbstractType() {
		typeName, _ = obj[TypenameKey].(string)
	}

	var set ast.SelectionSet
	for _, f := range fields {
		set = append(set, f.SelectionSet...)
	}

	out := NewObject()
	for _, c := range e.collect(set, typeName) {
		f := c.fields[0]
		if f.Name == TypenameKey {
			out.Set(c.key, typeName)
			continue
		}
		v, ok := e.complete(f.Definition.Type, c.fields, obj[f.Name], append(slices.Clone(path), ast.PathName(c.key)))
		if !ok {
			return nil, !t.NonNull
		}
		out.Set(c.key, v)
	}
	return out, true
}

// null completes a missing value. At a non-null position it records the
// violation and tells the caller to null its parent.
func (e *execution) null(t *ast.Type, path ast.Path) (any, bool) {
	if !t.NonNull {
		return nil, true
	}
	e.errs = append(e.errs, errx.Internal("null for non-nullable field").GQL(slices.Clone(path)))
	return nil, false
}
