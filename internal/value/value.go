// Package value implements the dynamically-typed value universe,
// the Handle ownership model, Closure, Class, and Instance that the
// evaluator operates on.
package value

import (
	"bytes"
	"fmt"
	"io"

	"mython/internal/ast"
)

// Kind discriminates the Value sum type.
type Kind int

const (
	KindNone Kind = iota
	KindNumber
	KindString
	KindBool
	KindClass
	KindInstance
)

// Value is the closed sum over {none, Number, String, Bool, Class,
// Instance}.
type Value struct {
	Kind     Kind
	Number   int64
	Str      []byte
	Bool     bool
	Class    *Class
	Instance *Instance
}

// None is the distinguished "none" value.
var None = Value{Kind: KindNone}

func Number(n int64) Value  { return Value{Kind: KindNumber, Number: n} }
func Bool(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func String(s string) Value { return Value{Kind: KindString, Str: []byte(s)} }
func StringBytes(b []byte) Value { return Value{Kind: KindString, Str: b} }
func FromClass(c *Class) Value    { return Value{Kind: KindClass, Class: c} }
func FromInstance(i *Instance) Value { return Value{Kind: KindInstance, Instance: i} }

// Handle distinguishes owned values from borrowed ones. Owned and
// borrowed handles dereference identically, but only the borrowed
// flavor is used to bind `self`, so a method's local closure never
// extends the lifetime of the instance it operates on.
//
// In a garbage-collected host language the owned/borrowed distinction
// carries no runtime behavior — both flavors are plain references — so
// Handle exists to preserve the *shape* of the ownership contract
// (Borrowed handles are never the sole reference kept alive past a
// call frame) rather than to manage memory itself.
type Handle struct {
	v        Value
	borrowed bool
}

// Own wraps v as a freshly-owned handle.
func Own(v Value) Handle { return Handle{v: v} }

// Borrow produces a non-owning handle aliasing v.
func Borrow(v Value) Handle { return Handle{v: v, borrowed: true} }

// Deref returns the underlying Value; owned and borrowed handles
// dereference identically.
func (h Handle) Deref() Value { return h.v }

// IsBorrowed reports whether h aliases an externally-owned value.
func (h Handle) IsBorrowed() bool { return h.borrowed }

// Closure is an identifier-to-Handle mapping used for both local
// variable scopes and instance fields.
type Closure struct {
	vars map[string]Handle
}

// NewClosure returns an empty Closure.
func NewClosure() *Closure {
	return &Closure{vars: make(map[string]Handle)}
}

// Get looks up name, returning ok=false when absent.
func (c *Closure) Get(name string) (Handle, bool) {
	h, ok := c.vars[name]
	return h, ok
}

// Set creates or overwrites the binding for name.
func (c *Closure) Set(name string, h Handle) {
	c.vars[name] = h
}

// Method is a named callable held in a Class's method table.
type Method struct {
	Name   string
	Params []string
	Body   *ast.MethodBody
}

// Class is a named method table with optional single inheritance.
type Class struct {
	Name    string
	methods map[string]*Method
	Parent  *Class
}

// NewClass constructs a class from its method list. A duplicate method
// name within methods is a definition-time failure.
func NewClass(name string, methods []*Method, parent *Class) (*Class, error) {
	table := make(map[string]*Method, len(methods))
	for _, m := range methods {
		if _, exists := table[m.Name]; exists {
			return nil, fmt.Errorf("duplicate method %q in class %s", m.Name, name)
		}
		table[m.Name] = m
	}
	return &Class{Name: name, methods: table, Parent: parent}, nil
}

// GetMethod searches this class, then walks the parent chain
// depth-first, returning the first match.
func (c *Class) GetMethod(name string) *Method {
	if m, ok := c.methods[name]; ok {
		return m
	}
	if c.Parent != nil {
		return c.Parent.GetMethod(name)
	}
	return nil
}

// HasMethod is true iff GetMethod succeeds and its formal parameter
// count (excluding self) equals argc.
func (c *Class) HasMethod(name string, argc int) bool {
	m := c.GetMethod(name)
	return m != nil && len(m.Params) == argc
}

// Instance is a ClassInstance: a reference to its Class plus a Closure
// of per-instance fields.
type Instance struct {
	Class  *Class
	Fields *Closure
}

// NewInstance allocates an instance with an empty field closure.
func NewInstance(c *Class) *Instance {
	return &Instance{Class: c, Fields: NewClosure()}
}

// IsTrue reports whether v is truthy: none is always false; Number is
// nonzero; String is nonempty; Bool is its own value; Class and
// Instance are always false.
func IsTrue(v Value) bool {
	switch v.Kind {
	case KindNone:
		return false
	case KindNumber:
		return v.Number != 0
	case KindString:
		return len(v.Str) != 0
	case KindBool:
		return v.Bool
	default: // Class, ClassInstance
		return false
	}
}

// Print writes v's rendering to w. stringer is invoked to call a
// zero-argument __str__ method when v is an Instance that defines
// one; it is supplied by the evaluator to avoid an import cycle
// between value and interp.
func Print(w io.Writer, v Value, stringer func(*Instance) (string, bool)) {
	fmt.Fprint(w, Render(v, stringer))
}

// Render returns the Print rendering of v as a string, used by both
// Print and Stringify.
func Render(v Value, stringer func(*Instance) (string, bool)) string {
	switch v.Kind {
	case KindNone:
		return "None"
	case KindNumber:
		return fmt.Sprintf("%d", v.Number)
	case KindString:
		return string(v.Str)
	case KindBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case KindClass:
		return "Class " + v.Class.Name
	case KindInstance:
		if stringer != nil {
			if s, ok := stringer(v.Instance); ok {
				return s
			}
		}
		return fmt.Sprintf("<%s instance at %p>", v.Instance.Class.Name, v.Instance)
	}
	return ""
}

// Stringify renders v the way Print would into a fresh buffer and
// returns it as a freshly-owned String value.
func Stringify(v Value, stringer func(*Instance) (string, bool)) Value {
	var buf bytes.Buffer
	buf.WriteString(Render(v, stringer))
	return StringBytes(buf.Bytes())
}
