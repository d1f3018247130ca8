package targeting

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

// Registry compiles CEL target predicates once and evaluates them against
// candidate attribute maps.
type Registry struct {
	env *cel.Env

	mu       sync.RWMutex
	programs map[string]cel.Program
}

// NewRegistry builds the CEL environment used by card data. Predicates see
// `target` and `source` as maps and may call has_type(obj, name), which
// checks types, subtypes and supertypes together.
func NewRegistry() (*Registry, error) {
	env, err := cel.NewEnv(
		ext.Strings(),
		ext.Lists(),
		cel.Variable("target", cel.DynType),
		cel.Variable("source", cel.DynType),
		cel.Function("has_type",
			cel.Overload("has_type_dyn_string",
				[]*cel.Type{cel.DynType, cel.StringType},
				cel.BoolType,
				cel.BinaryBinding(func(obj, name ref.Val) ref.Val {
					s, ok := name.Value().(string)
					if !ok {
						return types.False
					}
					return types.Bool(hasType(obj, s))
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Registry{env: env, programs: make(map[string]cel.Program)}, nil
}

// MustRegistry is NewRegistry for package-level defaults.
func MustRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Compile checks that expression is a valid boolean predicate and caches its program.
func (r *Registry) Compile(expression string) (cel.Program, error) {
	expression = strings.TrimSpace(expression)
	r.mu.RLock()
	prog, ok := r.programs[expression]
	r.mu.RUnlock()
	if ok {
		return prog, nil
	}

	ast, iss := r.env.Compile(expression)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("CEL compile error in %q: %w", expression, iss.Err())
	}
	switch out := ast.OutputType().String(); out {
	case "bool", "dyn":
	default:
		return nil, fmt.Errorf("predicate %q must be boolean, got %s", expression, out)
	}
	prog, err := r.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program error in %q: %w", expression, err)
	}

	r.mu.Lock()
	r.programs[expression] = prog
	r.mu.Unlock()
	return prog, nil
}

// Matches evaluates expression. An empty expression always matches.
func (r *Registry) Matches(expression string, target, source map[string]any) (bool, error) {
	if strings.TrimSpace(expression) == "" {
		return true, nil
	}
	prog, err := r.Compile(expression)
	if err != nil {
		return false, err
	}
	if source == nil {
		source = map[string]any{}
	}
	out, _, err := prog.Eval(map[string]any{"target": target, "source": source})
	if err != nil {
		return false, fmt.Errorf("CEL eval error in %q: %w", expression, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("predicate %q returned %T, want bool", expression, out.Value())
	}
	return result, nil
}

var mapType = reflect.TypeOf(map[string]any{})

func hasType(obj ref.Val, name string) bool {
	native, err := obj.ConvertToNative(mapType)
	if err != nil {
		return false
	}
	attrs, ok := native.(map[string]any)
	if !ok {
		return false
	}
	for _, key := range []string{"types", "subtypes", "supertypes"} {
		for _, have := range stringList(attrs[key]) {
			if strings.EqualFold(have, name) {
				return true
			}
		}
	}
	return false
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
