// Package interp implements the AST evaluator: the dynamically-typed
// object model's runtime behavior, method resolution, and the
// non-local exit used to implement `return`.
package interp

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"mython/internal/ast"
	"mython/internal/value"
)

// returnSignal is the out-of-band value Return raises and MethodBody
// alone catches. panic/recover gives a single-purpose non-local exit
// without threading a sentinel result type through every Accept call.
type returnSignal struct {
	value value.Handle
}

// Evaluator walks an AST tree, mutating a root Closure and writing
// `print` output to ctx's stream. It implements ast.Visitor.
type Evaluator struct {
	root    *value.Closure
	closure *value.Closure
	ctx     Context
	log     *logrus.Entry
	Trace   bool
}

// New returns an Evaluator whose root closure is empty.
func New(ctx Context) *Evaluator {
	root := value.NewClosure()
	return &Evaluator{
		root:    root,
		closure: root,
		ctx:     ctx,
		log:     logrus.WithField("component", "interp"),
	}
}

// Run executes stmts in the root closure. Any RuntimeError raised
// during evaluation is recovered here and returned to the caller.
func (e *Evaluator) Run(stmts []ast.Node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(*RuntimeError); ok {
				err = rerr
				return
			}
			panic(r)
		}
	}()
	e.closure = e.root
	for _, s := range stmts {
		e.eval(s)
	}
	return nil
}

// Execute runs n in closure c and returns its resulting Handle.
// Callers that need a fresh scope (a method/function call frame) pass
// a new Closure; all other traversal happens through eval, which
// reuses the current one.
func (e *Evaluator) Execute(n ast.Node, c *value.Closure) value.Handle {
	previous := e.closure
	e.closure = c
	defer func() { e.closure = previous }()
	return e.eval(n)
}

func (e *Evaluator) eval(n ast.Node) value.Handle {
	if e.Trace {
		e.log.WithField("node", fmt.Sprintf("%T", n)).Debug("executing")
	}
	return n.Accept(e).(value.Handle)
}

func (e *Evaluator) comparator() value.Comparator {
	return value.Comparator{
		EqualInstance: func(self *value.Instance, other value.Value) (bool, bool) {
			return e.dunderBool(self, "__eq__", other)
		},
		LessInstance: func(self *value.Instance, other value.Value) (bool, bool) {
			return e.dunderBool(self, "__lt__", other)
		},
	}
}

// dunderBool invokes a single-argument dunder method that is expected
// to return a truthy/falsy value, reporting "not defined" via ok=false
// instead of failing, so callers can apply fallback behavior for
// undefined comparators. other is passed through as-is regardless of
// its kind, matching how the dunder is invoked for any right operand.
func (e *Evaluator) dunderBool(self *value.Instance, name string, other value.Value) (result, ok bool) {
	if !self.Class.HasMethod(name, 1) {
		return false, false
	}
	method := self.Class.GetMethod(name)
	h := e.callMethod(self, method, []value.Handle{value.Own(other)}, 0)
	return value.IsTrue(h.Deref()), true
}
