package ir

// ExprKind discriminates the Expression sum described in §3.
type ExprKind int

const (
	ExprAssign ExprKind = iota
	ExprConditional
	ExprConstant
	ExprCtor
	ExprFunction
	ExprID
	ExprLambda
	ExprListComprehension
	ExprMemberAttribute
	ExprOperator
	ExprParserState
	ExprType
	ExprTransform
	ExprVariable
	ExprFind
)

// OpKind enumerates the complete operator-kind set from §3.
type OpKind int

const (
	OpAttribute OpKind = iota
	OpAttributeAssign
	OpBitAnd
	OpBitOr
	OpBitXor
	OpCall
	OpCast
	OpCoerce
	OpDeref
	OpDiv
	OpEqual
	OpGreater
	OpLess
	OpHasAttribute
	OpIncrPrefix
	OpIncrPostfix
	OpDecrPrefix
	OpDecrPostfix
	OpIndex
	OpIndexAssign
	OpLogicalAnd
	OpLogicalOr
	OpNot
	OpMethodCall
	OpPlus
	OpMinus
	OpMult
	OpMod
	OpPower
	OpPlusAssign
	OpMinusAssign
	OpShiftLeft
	OpShiftRight
	OpSignNeg
	OpSignPos
	OpSize
)

// ParserStateKind distinguishes self / $$ / named parameter.
type ParserStateKind int

const (
	PSSelf ParserStateKind = iota
	PSDollarDollar
	PSParameter
)

// Value is a constant's payload; exactly one field is meaningful, selected by
// the Constant type's Kind (mirrors the way §3 treats Constant as carrying an
// arbitrary literal whose shape follows its type).
type Value struct {
	Int    int64
	Uint   uint64
	Float  float64
	Bool   bool
	String string
	Bytes  []byte
}

func int64Value(v int64) Value { return Value{Int: v} }

// ID (the expression, distinct from ir.ID the path type) identifies an
// unresolved or resolved name reference.
type IDExpr struct {
	Path ID
}

// Expr is the tagged union described in §3; one struct with an ExprKind tag,
// matching the Type struct's shape for the same reason (replace-in-place is
// an overwrite through the *Expr, not a type-switch rewrite).
type Expr struct {
	Kind ExprKind
	Loc  Location

	typ *Type // memoized Type() result; set by the type-computing pass / constructor.

	// ID
	IDPath ID

	// Constant
	ConstType *Type
	ConstVal  Value

	// Assign / AttributeAssign-style binary forms and most operators
	Op       OpKind
	Operands []*Expr

	// Conditional: cond ? then : els
	Cond *Expr
	Then *Expr
	Else *Expr

	// Ctor (regex / bytes constructor)
	CtorPattern string
	CtorBytes   []byte

	// Function (call target) / MethodCall name
	CallTarget *Expr
	CallName   string
	CallArgs   []*Expr

	// Lambda
	LambdaParam ID
	LambdaBody  *Expr

	// ListComprehension
	ListSource *Expr
	ListBody   *Expr

	// MemberAttribute
	Receiver *Expr
	Member   ID

	// ParserState
	PSKind ParserStateKind
	PSID   ID
	PSUnit *Type

	// Type
	TypeVal *Type

	// Transform
	TransformDecl *Declaration

	// Variable (lambda-bound, post-resolution)
	VarID ID

	// Find
	FindList     *Expr
	FindCond     *Expr
	FindFound    *Expr
	FindNotFound *Expr

	// Resolution target: once an ID resolves, C4 sets Resolved on this node
	// to the bound node, so every holder of this *Expr sees the binding.
	Resolved *Expr
}

// NewIDExpr builds an unresolved ID expression.
func NewIDExpr(path ID) *Expr {
	return &Expr{Kind: ExprID, IDPath: path}
}

// NewConstantExpr builds a Constant expression of the given type and value.
func NewConstantExpr(t *Type, v Value) *Expr {
	return &Expr{Kind: ExprConstant, ConstType: t, ConstVal: v, typ: t}
}

// NewTypeExpr wraps a Type as a Type expression (what scope entries for type
// declarations hold, per §4.1).
func NewTypeExpr(t *Type) *Expr {
	tt := &Type{Kind: KindTypeType, Inner: t}
	return &Expr{Kind: ExprType, TypeVal: t, typ: tt}
}

// NewParserStateExpr builds a self/$$/parameter reference.
func NewParserStateExpr(kind ParserStateKind, id ID, unit *Type, t *Type) *Expr {
	return &Expr{Kind: ExprParserState, PSKind: kind, PSID: id, PSUnit: unit, typ: t}
}

// NewOperatorExpr builds an operator expression over operands.
func NewOperatorExpr(op OpKind, operands ...*Expr) *Expr {
	return &Expr{Kind: ExprOperator, Op: op, Operands: operands}
}

// NewMemberAttributeExpr builds an `a.b`-shaped attribute access.
func NewMemberAttributeExpr(receiver *Expr, member ID) *Expr {
	return &Expr{Kind: ExprMemberAttribute, Receiver: receiver, Member: member}
}

// NewVariableExpr builds a resolved lambda-bound variable reference.
func NewVariableExpr(id ID) *Expr {
	return &Expr{Kind: ExprVariable, VarID: id}
}

// NewFindExpr builds a Find(list, cond, found, not_found) expression.
func NewFindExpr(list, cond, found, notFound *Expr) *Expr {
	return &Expr{Kind: ExprFind, FindList: list, FindCond: cond, FindFound: found, FindNotFound: notFound}
}

// SetType memoizes the expression's static type.
func (e *Expr) SetType(t *Type) { e.typ = t }

// Type returns the expression's type, per §3 "Every expression exposes type()".
func (e *Expr) Type() *Type {
	if e == nil {
		return nil
	}
	if e.typ != nil {
		return e.typ
	}
	switch e.Kind {
	case ExprID:
		if e.Resolved != nil {
			return e.Resolved.Type()
		}
		return &Type{Kind: KindUnknown, UnknownID: e.IDPath}
	case ExprType:
		return &Type{Kind: KindTypeType, Inner: e.TypeVal}
	case ExprParserState:
		return e.typ
	case ExprMemberAttribute:
		return &Type{Kind: KindMemberAttribute, MemberID: e.Member}
	case ExprVariable:
		return &Type{Kind: KindUnknownElementType, UnknownElementExpr: e}
	case ExprConditional:
		if e.Then != nil {
			return e.Then.Type()
		}
		return &Type{Kind: KindAny}
	default:
		return &Type{Kind: KindAny}
	}
}

// IsUnresolvedID reports whether this expression is an ID still awaiting
// resolution (used by the convergence property in §8).
func (e *Expr) IsUnresolvedID() bool {
	return e != nil && e.Kind == ExprID && e.Resolved == nil
}
