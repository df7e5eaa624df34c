package interpreter

import (
	"fmt"

	"pel/interpreter-go/pkg/ast"
	"pel/interpreter-go/pkg/runtime"
	"pel/interpreter-go/pkg/source"
)

func (i *Interpreter) evaluateStatement(node ast.Statement) error {
	switch n := node.(type) {
	case *ast.Block:
		return i.evaluateStatements(n.Body)
	case *ast.ExpressionStatement:
		_, err := i.evaluateExpression(n.Expression)
		return err
	case *ast.PrintStatement:
		return i.evaluatePrintStatement(n)
	case *ast.VarDeclaration:
		return i.evaluateVarDeclaration(n)
	case *ast.Assignment:
		return i.evaluateAssignment(n)
	case *ast.IfStatement:
		return i.evaluateIfStatement(n)
	case *ast.WhileLoop:
		return i.evaluateWhileLoop(n)
	default:
		return fmt.Errorf("unsupported statement type: %s", node.NodeType())
	}
}

// evaluateStatements runs stmts in a fresh scope. The scope is popped on
// every exit path, errors included.
func (i *Interpreter) evaluateStatements(stmts []ast.Statement) error {
	i.scopes.StartScope()
	defer i.scopes.EndScope()
	for _, stmt := range stmts {
		if err := i.evaluateStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evaluatePrintStatement(stmt *ast.PrintStatement) error {
	value, err := i.evaluateExpression(stmt.Value)
	if err != nil {
		return err
	}
	text := runtime.Display(value)
	_, sub := operand(stmt.Value.Span(), value)
	if err := i.announce(TraceRecord{
		Message:       fmt.Sprintf("print value '%s'", text),
		Primary:       stmt.Span(),
		Substitutions: []Substitution{sub},
	}); err != nil {
		return err
	}
	i.output.WriteString(text)
	i.output.WriteByte('\n')
	return nil
}

func (i *Interpreter) evaluateVarDeclaration(decl *ast.VarDeclaration) error {
	if decl.Initializer == nil {
		if err := i.announce(TraceRecord{
			Message: fmt.Sprintf("make uninitialized variable '%s'", decl.Name),
			Primary: decl.Span(),
		}); err != nil {
			return err
		}
		i.scopes.Define(decl.Name, decl.Span(), nil)
		return nil
	}

	value, err := i.evaluateExpression(decl.Initializer)
	if err != nil {
		return err
	}
	_, sub := operand(decl.Initializer.Span(), value)
	if err := i.announce(TraceRecord{
		Message:       fmt.Sprintf("make variable '%s' with initializer %s", decl.Name, runtime.Repr(value)),
		Primary:       decl.Span(),
		Substitutions: []Substitution{sub},
	}); err != nil {
		return err
	}
	i.scopes.Define(decl.Name, decl.Span(), value)
	return nil
}

func (i *Interpreter) evaluateAssignment(assign *ast.Assignment) error {
	value, err := i.evaluateExpression(assign.Value)
	if err != nil {
		return err
	}
	_, sub := operand(assign.Value.Span(), value)
	if err := i.announce(TraceRecord{
		Message:       fmt.Sprintf("assign variable '%s' with value %s", assign.Target.Name, runtime.Repr(value)),
		Primary:       assign.Span(),
		Substitutions: []Substitution{sub},
	}); err != nil {
		return err
	}
	b := i.scopes.LookupMut(assign.Target.Name)
	if b == nil {
		return errDoesNotExist(assign.Target.Span(), assign.Target.Name, i.scopes.Names())
	}
	b.Value = runtime.Clone(value)
	return nil
}

// checkCondition evaluates and announces a branch condition, then insists
// on a bool.
func (i *Interpreter) checkCondition(keyword source.Span, cond ast.Expression) (bool, error) {
	value, err := i.evaluateExpression(cond)
	if err != nil {
		return false, err
	}
	h, sub := operand(cond.Span(), value)
	if err := i.announce(TraceRecord{
		Message:       "check condition",
		Primary:       keyword,
		Secondary:     []Highlight{h},
		Substitutions: []Substitution{sub},
	}); err != nil {
		return false, err
	}
	b, ok := value.(runtime.BoolValue)
	if !ok {
		return false, errTypes(ExpectedBool, cond.Span(), "", value)
	}
	return b.Val, nil
}

func (i *Interpreter) evaluateIfStatement(stmt *ast.IfStatement) error {
	ok, err := i.checkCondition(stmt.KeywordSpan, stmt.Condition)
	if err != nil {
		return err
	}
	switch {
	case ok:
		return i.evaluateStatement(stmt.Then)
	case stmt.Else != nil:
		return i.evaluateStatement(stmt.Else)
	default:
		return nil
	}
}

// evaluateWhileLoop has no iteration bound; drivers that need one count
// steps.
func (i *Interpreter) evaluateWhileLoop(loop *ast.WhileLoop) error {
	for {
		ok, err := i.checkCondition(loop.KeywordSpan, loop.Condition)
		if err != nil || !ok {
			return err
		}
		if err := i.evaluateStatement(loop.Body); err != nil {
			return err
		}
	}
}
