package matcher

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/mudoc/mudoc/doc"
)

// parseExpr compiles a $expr operand into an expression-language
// predicate. Object candidates expose their fields as variables plus
// the whole candidate as "value"; other candidates expose "value"
// only.
func parseExpr(operand doc.Element) (condition, error) {
	if operand.Type() != doc.StringType {
		return nil, fmt.Errorf("%w: %s needs a string operand, got %s", ErrBadPredicate, opExpr, operand.Type())
	}
	prg, err := expr.Compile(operand.StringValue(),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: compiling %q: %v", ErrBadPredicate, operand.StringValue(), err)
	}
	return exprCond{src: operand.StringValue(), prg: prg}, nil
}

type exprCond struct {
	src string
	prg *vm.Program
}

func (c exprCond) matches(el doc.Element, exists bool) (bool, error) {
	if !exists {
		return false, nil
	}
	env := map[string]any{}
	if fields, ok := el.Interface().(map[string]any); ok {
		env = fields
	}
	env["value"] = el.Interface()
	res, err := expr.Run(c.prg, env)
	if err != nil {
		return false, fmt.Errorf("%w: running %q: %v", ErrBadPredicate, c.src, err)
	}
	b, ok := res.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q returned %T, want bool", ErrBadPredicate, c.src, res)
	}
	return b, nil
}
