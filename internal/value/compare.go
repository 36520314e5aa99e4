package value

import (
	"bytes"
	"fmt"
)

// Comparator implements the six relational operators. Equal and Less
// are the primitives; NotEqual, Greater, LessOrEqual, and
// GreaterOrEqual are all derived from them by the usual algebraic
// identities so the dunder-dispatch logic lives in exactly one place.
// EqualInstance/LessInstance invoke an Instance's __eq__/__lt__ dunder
// with the other operand passed through unexamined, whatever its kind;
// they are supplied by the evaluator so this package never needs to
// know how to make a call.
type Comparator struct {
	EqualInstance func(self *Instance, other Value) (result bool, defined bool)
	LessInstance  func(self *Instance, other Value) (result bool, defined bool)
}

// Equal implements reflexive equality for Number/String/Bool/none/Class
// and, when a is an Instance defining __eq__, dunder dispatch against
// b regardless of b's kind. Any other pairing fails.
func (c Comparator) Equal(a, b Value) (bool, error) {
	if a.Kind == KindNone && b.Kind == KindNone {
		return true, nil
	}
	if a.Kind == KindNumber && b.Kind == KindNumber {
		return a.Number == b.Number, nil
	}
	if a.Kind == KindString && b.Kind == KindString {
		return bytes.Equal(a.Str, b.Str), nil
	}
	if a.Kind == KindBool && b.Kind == KindBool {
		return a.Bool == b.Bool, nil
	}
	if a.Kind == KindClass && b.Kind == KindClass {
		return a.Class == b.Class, nil
	}
	if a.Kind == KindInstance && c.EqualInstance != nil {
		if res, defined := c.EqualInstance(a.Instance, b); defined {
			return res, nil
		}
	}
	return false, fmt.Errorf("cannot compare %s and %s", a.Kind, b.Kind)
}

// Less implements strict ordering for Number/String/Bool and, when a
// is an Instance defining __lt__, dunder dispatch against b regardless
// of b's kind. Any other pairing fails.
func (c Comparator) Less(a, b Value) (bool, error) {
	if a.Kind == KindNumber && b.Kind == KindNumber {
		return a.Number < b.Number, nil
	}
	if a.Kind == KindString && b.Kind == KindString {
		return bytes.Compare(a.Str, b.Str) < 0, nil
	}
	if a.Kind == KindBool && b.Kind == KindBool {
		return !a.Bool && b.Bool, nil
	}
	if a.Kind == KindInstance && c.LessInstance != nil {
		if res, defined := c.LessInstance(a.Instance, b); defined {
			return res, nil
		}
	}
	return false, fmt.Errorf("cannot order %s and %s", a.Kind, b.Kind)
}

func (c Comparator) NotEqual(a, b Value) (bool, error) {
	eq, err := c.Equal(a, b)
	return !eq, err
}

func (c Comparator) Greater(a, b Value) (bool, error) {
	lt, err := c.Less(a, b)
	if err != nil {
		return false, err
	}
	if lt {
		return false, nil
	}
	eq, err := c.Equal(a, b)
	if err != nil {
		return false, err
	}
	return !eq, nil
}

func (c Comparator) LessOrEqual(a, b Value) (bool, error) {
	lt, err := c.Less(a, b)
	if err != nil {
		return false, err
	}
	if lt {
		return true, nil
	}
	return c.Equal(a, b)
}

func (c Comparator) GreaterOrEqual(a, b Value) (bool, error) {
	lt, err := c.Less(a, b)
	return !lt, err
}

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindClass:
		return "Class"
	case KindInstance:
		return "ClassInstance"
	default:
		return "Unknown"
	}
}
