package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{_EOF, "EOF"},
		{_EOL, "EOL"},
		{_Name, "NAME"},
		{_Cmp, "<=>"},
		{_Ellipsis, "..."},
		{_Arrow, "=>"},
		{_Class, "class"},
		{_Var, "var"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.tok.String())
	}
	assert.Equal(t, "token(999)", Token(999).String())
}

func TestTokenPrecedence(t *testing.T) {
	// low to high, as the expression parser climbs them
	order := []Token{_Assign, _Question, _OrOr, _AndAnd, _Or, _And, _Eql, _Lss, _Shl, _Add, _Mul}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1].Precedence(), order[i].Precedence(), "%s < %s", order[i-1], order[i])
	}
	assert.Equal(t, PrecAssignment, _Range.Precedence())
	assert.Equal(t, PrecAssignment, _As.Precedence())
	assert.Equal(t, PrecAssignment, _Is.Precedence())
	assert.Equal(t, PrecBitOr, _Xor.Precedence())
	assert.Equal(t, PrecComparison, _Cmp.Precedence())
	assert.Equal(t, PrecCall, _Dot.Precedence())
	assert.Equal(t, PrecNone, _Rparen.Precedence())
}

func TestTokenPredicates(t *testing.T) {
	assert.True(t, _Class.IsKeyword())
	assert.False(t, _Name.IsKeyword())

	assert.True(t, _AddAssign.IsAssignOp())
	assert.False(t, _Eql.IsAssignOp())

	assert.True(t, _Add.IsOperator())
	assert.True(t, _Cmp.IsOperator())
	assert.False(t, _Not.IsOperator())

	assert.True(t, _EOF.IsEOF())
	assert.False(t, _EOL.IsEOF())
}

func TestOpName(t *testing.T) {
	assert.Equal(t, "add", _Add.OpName())
	assert.Equal(t, "eq", _Eql.OpName())
	assert.Equal(t, "cmp", _Cmp.OpName())
	assert.Equal(t, "mod", _Rem.OpName())
}

func TestLitKindString(t *testing.T) {
	assert.Equal(t, "int", IntLit.String())
	assert.Equal(t, "float", FloatLit.String())
	assert.Equal(t, "string", StringLit.String())
	assert.Equal(t, "LitKind(99)", LitKind(99).String())
}

func TestLookupKeyword(t *testing.T) {
	for tok := _As; tok <= _Var; tok++ {
		assert.Equal(t, tok, LookupKeyword(tok.String()))
	}
	for _, s := range []string{"main", "get", "set", "dispose", "int", "foo"} {
		assert.Equal(t, _Name, LookupKeyword(s), s)
	}
}

func TestFamilyString(t *testing.T) {
	assert.Equal(t, "ARITHMETIC", FamilyArithmetic.String())
	assert.Equal(t, "KEYWORD", _If.Family().String())
}

func TestOperatorClasses(t *testing.T) {
	assert.True(t, _Eql.IsComparison())
	assert.True(t, _Geq.IsComparison())
	assert.False(t, _Cmp.IsComparison())
	assert.True(t, _AndAnd.IsLogical())
	assert.False(t, _And.IsLogical())
	assert.True(t, _Shl.IsBitwise())
	assert.False(t, _Add.IsBitwise())

	assert.Equal(t, _Add, _AddAssign.Binary())
	assert.Equal(t, _Or, _OrAssign.Binary())
	assert.Equal(t, _Mul, _Mul.Binary())
}
