package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqualReflexivity(t *testing.T) {
	cmp := Comparator{}
	for _, v := range []Value{Number(3), String("s"), Bool(true), Bool(false), None} {
		ok, err := cmp.Equal(v, v)
		require.NoError(t, err)
		require.True(t, ok, "expected %v to equal itself", v)
	}
}

func TestNotEqualIsNegationOfEqual(t *testing.T) {
	cmp := Comparator{}
	pairs := [][2]Value{
		{Number(1), Number(2)},
		{String("a"), String("a")},
		{Bool(true), Bool(false)},
	}
	for _, p := range pairs {
		eq, err := cmp.Equal(p[0], p[1])
		require.NoError(t, err)
		neq, err := cmp.NotEqual(p[0], p[1])
		require.NoError(t, err)
		require.Equal(t, !eq, neq)
	}
}

func TestGreaterIsNegationOfLessAndEqual(t *testing.T) {
	cmp := Comparator{}
	pairs := [][2]Value{
		{Number(2), Number(1)},
		{Number(1), Number(2)},
		{Number(5), Number(5)},
		{String("b"), String("a")},
	}
	for _, p := range pairs {
		lt, err := cmp.Less(p[0], p[1])
		require.NoError(t, err)
		eq, err := cmp.Equal(p[0], p[1])
		require.NoError(t, err)
		gt, err := cmp.Greater(p[0], p[1])
		require.NoError(t, err)
		require.Equal(t, !lt && !eq, gt)
	}
}

func TestGreaterDispatchesDunderOffLeftOperandOnly(t *testing.T) {
	cmp := Comparator{
		LessInstance:  func(self *Instance, other Value) (bool, bool) { return true, true },
		EqualInstance: func(self *Instance, other Value) (bool, bool) { return false, true },
	}
	c, _ := NewClass("A", nil, nil)
	a := NewInstance(c)

	gt, err := cmp.Greater(FromInstance(a), Number(1))
	require.NoError(t, err)
	require.False(t, gt, "a.__lt__(1)=true should short-circuit Greater to false")

	_, err = cmp.Greater(Number(1), FromInstance(a))
	require.Error(t, err, "1 is not a dunder-defining instance, so 1 > a must fail")
}

func TestGreaterOrEqualIsNegationOfLess(t *testing.T) {
	cmp := Comparator{}
	pairs := [][2]Value{
		{Number(1), Number(2)},
		{Number(5), Number(5)},
		{String("a"), String("b")},
	}
	for _, p := range pairs {
		lt, err := cmp.Less(p[0], p[1])
		require.NoError(t, err)
		gte, err := cmp.GreaterOrEqual(p[0], p[1])
		require.NoError(t, err)
		require.Equal(t, !lt, gte)
	}
}

func TestInstanceComparisonDispatchesToDunders(t *testing.T) {
	cmp := Comparator{
		EqualInstance: func(self *Instance, other Value) (bool, bool) { return true, true },
		LessInstance:  func(self *Instance, other Value) (bool, bool) { return false, true },
	}
	c, _ := NewClass("C", nil, nil)
	a, b := NewInstance(c), NewInstance(c)

	eq, err := cmp.Equal(FromInstance(a), FromInstance(b))
	require.NoError(t, err)
	require.True(t, eq)

	lt, err := cmp.Less(FromInstance(a), FromInstance(b))
	require.NoError(t, err)
	require.False(t, lt)
}

func TestInstanceWithoutDunderFailsOnComparison(t *testing.T) {
	cmp := Comparator{}
	c, _ := NewClass("C", nil, nil)
	a, b := NewInstance(c), NewInstance(c)
	_, err := cmp.Equal(FromInstance(a), FromInstance(b))
	require.Error(t, err)
}

func TestInstanceDunderDispatchesAgainstAnyRightOperandKind(t *testing.T) {
	var seen Value
	cmp := Comparator{
		EqualInstance: func(self *Instance, other Value) (bool, bool) {
			seen = other
			return true, true
		},
	}
	c, _ := NewClass("C", nil, nil)
	a := NewInstance(c)

	eq, err := cmp.Equal(FromInstance(a), Number(1))
	require.NoError(t, err)
	require.True(t, eq)
	require.Equal(t, Number(1), seen)
}

func TestInstanceWithoutDunderAgainstNonInstanceFails(t *testing.T) {
	cmp := Comparator{}
	c, _ := NewClass("C", nil, nil)
	a := NewInstance(c)
	_, err := cmp.Equal(FromInstance(a), Number(1))
	require.Error(t, err)
}

func TestIncompatibleNonInstanceComparisonFails(t *testing.T) {
	cmp := Comparator{}
	_, err := cmp.Equal(Number(1), String("1"))
	require.Error(t, err)
}
