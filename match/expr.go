package match

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/gram-data/gram"
)

// Expr compiles a boolean expression into a predicate over pattern subjects.
// The expression is evaluated against three variables: identifier (string),
// labels ([]string), and properties (map of property key to plain Go value).
//
//	pred, err := match.Expr(`"Person" in labels && properties.age > 21`)
//
// Compilation errors are reported once, at construction; a compiled predicate
// that fails at runtime (for example a missing property key used in
// arithmetic) simply does not match.
func Expr(src string) (Predicate, error) {
	program, err := expr.Compile(src, expr.Env(subjectEnv(gram.Subject{})), expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}

	return func(p *gram.Pattern) bool {
		if p == nil {
			return false
		}

		return runBool(program, subjectEnv(p.Value))
	}, nil
}

func subjectEnv(s gram.Subject) map[string]any {
	props := make(map[string]any, s.Properties.Len())
	for _, entry := range s.Properties.Entries() {
		props[entry.Key] = entry.Value.ToGo()
	}

	labels := s.Labels
	if labels == nil {
		labels = []string{}
	}

	return map[string]any{
		"identifier": s.Identifier,
		"labels":     labels,
		"properties": props,
	}
}

func runBool(program *vm.Program, env map[string]any) bool {
	out, err := expr.Run(program, env)
	if err != nil {
		return false
	}

	b, ok := out.(bool)

	return ok && b
}
