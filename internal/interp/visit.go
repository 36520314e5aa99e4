package interp

import (
	"fmt"

	"mython/internal/ast"
	"mython/internal/value"
)

func (e *Evaluator) VisitLiteral(n *ast.Literal) interface{} {
	switch v := n.Value.(type) {
	case int64:
		return value.Own(value.Number(v))
	case string:
		return value.Own(value.String(v))
	case bool:
		return value.Own(value.Bool(v))
	default:
		e.fail(TypeError, n.Tok.Line, "unsupported literal %#v", n.Value)
	}
	return value.Own(value.None)
}

func (e *Evaluator) VisitNoneLiteral(n *ast.NoneLiteral) interface{} {
	return value.Own(value.None)
}

func (e *Evaluator) VisitAssignment(n *ast.Assignment) interface{} {
	v := e.eval(n.Rhs)
	e.closure.Set(n.Var, v)
	return v
}

func (e *Evaluator) VisitVariableValue(n *ast.VariableValue) interface{} {
	return e.lookupPath(n.Ids, n.Tok.Tok.Line)
}

// lookupPath resolves a dotted identifier path starting at the current
// closure: every id but the last must bind to an Instance, whose
// Fields closure is descended into.
func (e *Evaluator) lookupPath(ids []string, errLine int) value.Handle {
	c := e.closure
	var h value.Handle
	for i, id := range ids {
		var ok bool
		h, ok = c.Get(id)
		if !ok {
			e.fail(NameError, errLine, "name %q is not defined", id)
		}
		if i == len(ids)-1 {
			return h
		}
		v := h.Deref()
		if v.Kind != value.KindInstance {
			e.fail(NameError, errLine, "%q is not an instance, has no attribute %q", id, ids[i+1])
		}
		c = v.Instance.Fields
	}
	return h
}

func (e *Evaluator) VisitFieldAssignment(n *ast.FieldAssignment) interface{} {
	objHandle := e.eval(n.Object)
	obj := objHandle.Deref()
	if obj.Kind != value.KindInstance {
		// Assigning a field on a non-instance is silently a no-op.
		return value.Own(value.None)
	}
	v := e.eval(n.Rhs)
	obj.Instance.Fields.Set(n.Field, v)
	return v
}

func (e *Evaluator) VisitNewInstance(n *ast.NewInstance) interface{} {
	classHandle := e.lookupPath([]string{n.ClassName}, n.Tok.Line)
	cv := classHandle.Deref()
	if cv.Kind != value.KindClass {
		e.fail(TypeError, n.Tok.Line, "%q is not a class", n.ClassName)
	}

	args := make([]value.Handle, len(n.Args))
	for i, a := range n.Args {
		args[i] = e.eval(a)
	}

	inst := value.NewInstance(cv.Class)
	if cv.Class.HasMethod("__init__", len(args)) {
		e.callMethod(inst, cv.Class.GetMethod("__init__"), args, n.Tok.Line)
	}
	return value.Own(value.FromInstance(inst))
}

func (e *Evaluator) VisitPrint(n *ast.Print) interface{} {
	out := e.ctx.GetOutputStream()
	for i, arg := range n.Args {
		if i != 0 {
			fmt.Fprint(out, " ")
		}
		v := e.eval(arg).Deref()
		value.Print(out, v, e.stringify)
	}
	fmt.Fprint(out, "\n")
	return value.Own(value.None)
}

func (e *Evaluator) VisitMethodCall(n *ast.MethodCall) interface{} {
	objHandle := e.eval(n.Object)
	obj := objHandle.Deref()
	if obj.Kind != value.KindInstance {
		return value.Own(value.None)
	}

	if !obj.Instance.Class.HasMethod(n.Method, len(n.Args)) {
		e.fail(ArityError, n.Tok.Line, "no method %q with %d argument(s) on class %s", n.Method, len(n.Args), obj.Instance.Class.Name)
	}
	method := obj.Instance.Class.GetMethod(n.Method)

	args := make([]value.Handle, len(n.Args))
	for i, a := range n.Args {
		args[i] = e.eval(a)
	}

	return e.callMethod(obj.Instance, method, args, n.Tok.Line)
}

// callMethod builds the call frame a method body executes in: `self`
// bound borrowed plus each formal parameter bound to its actual
// argument. VisitMethodBody is the sole catcher of the return signal
// this may raise deeper in the call.
func (e *Evaluator) callMethod(self *value.Instance, method *value.Method, args []value.Handle, callLine int) value.Handle {
	frame := value.NewClosure()
	frame.Set("self", value.Borrow(value.FromInstance(self)))
	for i, p := range method.Params {
		frame.Set(p, args[i])
	}
	return e.Execute(method.Body, frame)
}

func (e *Evaluator) stringify(inst *value.Instance) (string, bool) {
	if !inst.Class.HasMethod("__str__", 0) {
		return "", false
	}
	method := inst.Class.GetMethod("__str__")
	h := e.callMethod(inst, method, nil, 0)
	v := h.Deref()
	if v.Kind != value.KindString {
		return value.Render(v, e.stringify), true
	}
	return string(v.Str), true
}

func (e *Evaluator) VisitStringify(n *ast.Stringify) interface{} {
	v := e.eval(n.Expr).Deref()
	return value.Own(value.Stringify(v, e.stringify))
}

func (e *Evaluator) VisitBinaryOp(n *ast.BinaryOp) interface{} {
	lhs := e.eval(n.Lhs).Deref()
	rhs := e.eval(n.Rhs).Deref()
	return value.Own(e.applyBinary(n.Op, lhs, rhs, n.Tok.Line))
}

func (e *Evaluator) applyBinary(op ast.BinOp, lhs, rhs value.Value, errLine int) value.Value {
	switch op {
	case ast.Add:
		if lhs.Kind == value.KindNumber && rhs.Kind == value.KindNumber {
			return value.Number(lhs.Number + rhs.Number)
		}
		if lhs.Kind == value.KindString && rhs.Kind == value.KindString {
			return value.StringBytes(append(append([]byte{}, lhs.Str...), rhs.Str...))
		}
		if lhs.Kind == value.KindInstance && lhs.Instance.Class.HasMethod("__add__", 1) {
			method := lhs.Instance.Class.GetMethod("__add__")
			return e.callMethod(lhs.Instance, method, []value.Handle{value.Own(rhs)}, errLine).Deref()
		}
		e.fail(TypeError, errLine, "unsupported operand types for +: %s and %s", lhs.Kind, rhs.Kind)
	case ast.Sub:
		e.requireNumbers(lhs, rhs, errLine, "-")
		return value.Number(lhs.Number - rhs.Number)
	case ast.Mult:
		e.requireNumbers(lhs, rhs, errLine, "*")
		return value.Number(lhs.Number * rhs.Number)
	case ast.Div:
		e.requireNumbers(lhs, rhs, errLine, "/")
		if rhs.Number == 0 {
			e.fail(DivisionError, errLine, "division by zero")
		}
		return value.Number(lhs.Number / rhs.Number)
	}
	return value.None
}

func (e *Evaluator) requireNumbers(lhs, rhs value.Value, errLine int, op string) {
	if lhs.Kind != value.KindNumber || rhs.Kind != value.KindNumber {
		e.fail(TypeError, errLine, "unsupported operand types for %s: %s and %s", op, lhs.Kind, rhs.Kind)
	}
}

func (e *Evaluator) VisitOr(n *ast.Or) interface{} {
	left := value.IsTrue(e.eval(n.Lhs).Deref())
	if left {
		return value.Own(value.Bool(true))
	}
	right := value.IsTrue(e.eval(n.Rhs).Deref())
	return value.Own(value.Bool(right))
}

func (e *Evaluator) VisitAnd(n *ast.And) interface{} {
	left := value.IsTrue(e.eval(n.Lhs).Deref())
	if !left {
		return value.Own(value.Bool(false))
	}
	right := value.IsTrue(e.eval(n.Rhs).Deref())
	return value.Own(value.Bool(right))
}

func (e *Evaluator) VisitNot(n *ast.Not) interface{} {
	return value.Own(value.Bool(!value.IsTrue(e.eval(n.Expr).Deref())))
}

func (e *Evaluator) VisitComparison(n *ast.Comparison) interface{} {
	lhs := e.eval(n.Lhs).Deref()
	rhs := e.eval(n.Rhs).Deref()
	cmp := e.comparator()

	var res bool
	var err error
	switch n.Op {
	case ast.CmpEqual:
		res, err = cmp.Equal(lhs, rhs)
	case ast.CmpNotEqual:
		res, err = cmp.NotEqual(lhs, rhs)
	case ast.CmpLess:
		res, err = cmp.Less(lhs, rhs)
	case ast.CmpGreater:
		res, err = cmp.Greater(lhs, rhs)
	case ast.CmpLessOrEqual:
		res, err = cmp.LessOrEqual(lhs, rhs)
	case ast.CmpGreaterOrEqual:
		res, err = cmp.GreaterOrEqual(lhs, rhs)
	}
	if err != nil {
		e.fail(TypeError, n.Tok.Line, "%s", err.Error())
	}
	return value.Own(value.Bool(res))
}

func (e *Evaluator) VisitReturn(n *ast.Return) interface{} {
	v := e.eval(n.Expr)
	panic(returnSignal{value: v})
}

func (e *Evaluator) VisitMethodBody(n *ast.MethodBody) interface{} {
	result := value.Own(value.None)
	func() {
		defer func() {
			if r := recover(); r != nil {
				if rs, ok := r.(returnSignal); ok {
					result = rs.value
					return
				}
				panic(r)
			}
		}()
		for _, s := range n.Body {
			e.eval(s)
		}
	}()
	return result
}

func (e *Evaluator) VisitClassDefinition(n *ast.ClassDefinition) interface{} {
	var parent *value.Class
	if n.Parent != "" {
		h := e.lookupPath([]string{n.Parent}, n.Tok.Line)
		pv := h.Deref()
		if pv.Kind != value.KindClass {
			e.fail(TypeError, n.Tok.Line, "%q is not a class", n.Parent)
		}
		parent = pv.Class
	}

	methods := make([]*value.Method, len(n.Methods))
	for i, m := range n.Methods {
		methods[i] = &value.Method{Name: m.Name, Params: m.Params, Body: m.Body}
	}

	class, err := value.NewClass(n.Name, methods, parent)
	if err != nil {
		e.fail(DefError, n.Tok.Line, "%s", err.Error())
	}

	e.closure.Set(n.Name, value.Own(value.FromClass(class)))
	return value.Own(value.None)
}

func (e *Evaluator) VisitIfElse(n *ast.IfElse) interface{} {
	if value.IsTrue(e.eval(n.Cond).Deref()) {
		return e.eval(n.Then)
	}
	if n.Else != nil {
		return e.eval(n.Else)
	}
	return value.Own(value.None)
}

func (e *Evaluator) VisitCompound(n *ast.Compound) interface{} {
	for _, s := range n.Statements {
		e.eval(s)
	}
	return value.Own(value.None)
}
