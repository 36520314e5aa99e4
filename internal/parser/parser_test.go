package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"mython/internal/ast"
	"mython/internal/lexer"
	"mython/internal/token"
)

func parse(t *testing.T, src string) []ast.Node {
	t.Helper()
	toks := lexer.New(src).Tokens()
	stmts, err := Parse(toks)
	require.NoError(t, err)
	return stmts
}

// stripOpt ignores embedded token.Token fields entirely, so cmp.Diff
// checks tree shape rather than source positions the fixtures below
// don't bother setting.
var stripOpt = cmp.Comparer(func(a, b token.Token) bool { return true })

func TestParseAssignmentAndPrint(t *testing.T) {
	got := parse(t, "x = 1\nprint x\n")

	want := []ast.Node{
		&ast.Assignment{Var: "x", Rhs: &ast.Literal{Value: int64(1)}},
		&ast.Print{Args: []ast.Node{&ast.VariableValue{Ids: []string{"x"}}}},
	}

	if diff := cmp.Diff(want, got, stripOpt); diff != "" {
		t.Errorf("unexpected AST (-want +got):\n%s", diff)
	}
}

func TestParseIfElse(t *testing.T) {
	got := parse(t, "if x:\n  print 1\nelse:\n  print 2\n")
	require.Len(t, got, 1)
	ifNode, ok := got[0].(*ast.IfElse)
	require.True(t, ok)
	require.NotNil(t, ifNode.Else)
}

func TestParseClassWithInit(t *testing.T) {
	got := parse(t, "class Point:\n  def __init__(self, x):\n    self.x = x\n")
	require.Len(t, got, 1)
	cls, ok := got[0].(*ast.ClassDefinition)
	require.True(t, ok)
	require.Equal(t, "Point", cls.Name)
	require.Len(t, cls.Methods, 1)
	require.Equal(t, "__init__", cls.Methods[0].Name)
	require.Equal(t, []string{"x"}, cls.Methods[0].Params)
}

func TestParseMethodCallAndNewInstance(t *testing.T) {
	got := parse(t, "c = C()\nprint c.f()\n")
	require.Len(t, got, 2)
	assign, ok := got[0].(*ast.Assignment)
	require.True(t, ok)
	_, ok = assign.Rhs.(*ast.NewInstance)
	require.True(t, ok)

	printNode, ok := got[1].(*ast.Print)
	require.True(t, ok)
	_, ok = printNode.Args[0].(*ast.MethodCall)
	require.True(t, ok)
}

func TestParseFieldAssignment(t *testing.T) {
	got := parse(t, "self.x = 1\n")
	require.Len(t, got, 1)
	fa, ok := got[0].(*ast.FieldAssignment)
	require.True(t, ok)
	require.Equal(t, []string{"self"}, fa.Object.Ids)
	require.Equal(t, "x", fa.Field)
}

func TestParseComparisonAndBooleanOps(t *testing.T) {
	got := parse(t, "print a == b and not c\n")
	require.Len(t, got, 1)
	printNode := got[0].(*ast.Print)
	_, ok := printNode.Args[0].(*ast.And)
	require.True(t, ok)
}

func TestParseGreaterComparison(t *testing.T) {
	got := parse(t, "print a > b\n")
	require.Len(t, got, 1)
	printNode := got[0].(*ast.Print)
	cmp, ok := printNode.Args[0].(*ast.Comparison)
	require.True(t, ok)
	require.Equal(t, ast.CmpGreater, cmp.Op)
}
