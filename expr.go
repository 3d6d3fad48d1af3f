package alu

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// Input digits are assumed to lie within this range when simplifying
// comparisons against raw inputs.
const (
	MinInputDigit = 1
	MaxInputDigit = 9
)

// Expr represents a node in a symbolic expression graph.
//
// Nodes are immutable once constructed. A node may be shared by any number of
// parents but the graph never contains cycles.
type Expr interface {
	expr()
	String() string
}

func (*BinaryExpr) expr()   {}
func (*ConstantExpr) expr() {}
func (*InputExpr) expr()    {}
func (*VarExpr) expr()      {}

// BinaryOp represents a binary expression operation.
type BinaryOp int

// BinaryExpr operations.
const (
	OpAdd BinaryOp = iota + 1
	OpMul
	OpDiv
	OpMod
	OpEql
	OpNeql
	OpIf // LHS is a boolean condition, RHS the value when true; 0 otherwise.
)

var binaryOps = [...]string{
	OpAdd:  "+",
	OpMul:  "*",
	OpDiv:  "/",
	OpMod:  "%",
	OpEql:  "==",
	OpNeql: "!=",
	OpIf:   "if",
}

// String returns the string representation of the operation.
func (op BinaryOp) String() string {
	if op > 0 && int(op) < len(binaryOps) && binaryOps[op] != "" {
		return binaryOps[op]
	}
	return fmt.Sprintf("BinaryOp<%d>", int(op))
}

// IsCompare returns true if op produces a 0/1 boolean value.
func (op BinaryOp) IsCompare() bool {
	return op == OpEql || op == OpNeql
}

// BinaryExpr represents an operation on two expressions.
type BinaryExpr struct {
	Op  BinaryOp
	LHS Expr
	RHS Expr
}

// NewBinaryExpr returns an expression for op applied to lhs & rhs after
// applying local simplification rules. The result may be lhs, rhs, a constant,
// or a new node.
//
// The rules target the shape of monad programs and are not a general purpose
// simplifier. In particular, inputs are assumed to be digits between
// MinInputDigit and MaxInputDigit.
func NewBinaryExpr(op BinaryOp, lhs, rhs Expr) Expr {
	switch op {
	case OpAdd:
		return newAddExpr(lhs, rhs)
	case OpMul:
		return newMulExpr(lhs, rhs)
	case OpDiv:
		return newDivExpr(lhs, rhs)
	case OpMod:
		return newModExpr(lhs, rhs)
	case OpEql:
		return newEqlExpr(lhs, rhs)
	case OpNeql:
		return newNeqlExpr(lhs, rhs)
	case OpIf:
		return newIfExpr(lhs, rhs)
	default:
		panic("unreachable")
	}
}

// NewRawBinaryExpr returns a new node without any simplification.
func NewRawBinaryExpr(op BinaryOp, lhs, rhs Expr) *BinaryExpr {
	assert(lhs != nil && rhs != nil, "binary expr operand required: op=%s", op)
	return &BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
}

// String returns the infix representation of the expression.
func (e *BinaryExpr) String() string {
	if e.Op == OpIf {
		return fmt.Sprintf("(if %s then %s else 0)", e.LHS, e.RHS)
	}
	return fmt.Sprintf("(%s %s %s)", e.LHS, e.Op, e.RHS)
}

// newAddExpr returns the expression representing the sum of lhs & rhs.
func newAddExpr(lhs, rhs Expr) Expr {
	if IsConstantValue(lhs, 0) {
		return rhs
	} else if IsConstantValue(rhs, 0) {
		return lhs
	}

	// Compute constant if both sides are constant.
	if lhs, ok := lhs.(*ConstantExpr); ok {
		if rhs, ok := rhs.(*ConstantExpr); ok {
			return NewConstantExpr(lhs.Value + rhs.Value)
		}
	}
	return &BinaryExpr{Op: OpAdd, LHS: lhs, RHS: rhs}
}

// newMulExpr returns an expression that represents the product of lhs & rhs.
func newMulExpr(lhs, rhs Expr) Expr {
	// Optimize for multiplication with a constant 1 or 0.
	if IsConstantValue(lhs, 1) {
		return rhs
	} else if IsConstantValue(rhs, 1) {
		return lhs
	} else if IsConstantValue(lhs, 0) {
		return lhs
	} else if IsConstantValue(rhs, 0) {
		return rhs
	}

	if lhs, ok := lhs.(*ConstantExpr); ok {
		if rhs, ok := rhs.(*ConstantExpr); ok {
			return NewConstantExpr(lhs.Value * rhs.Value)
		}
	}

	// A boolean mask times a value only keeps the value when the mask is set.
	if isCompareExpr(lhs) {
		return &BinaryExpr{Op: OpIf, LHS: lhs, RHS: rhs}
	} else if isCompareExpr(rhs) {
		return &BinaryExpr{Op: OpIf, LHS: rhs, RHS: lhs}
	}
	return &BinaryExpr{Op: OpMul, LHS: lhs, RHS: rhs}
}

// newDivExpr returns an expression that represents the truncated division of lhs by rhs.
func newDivExpr(lhs, rhs Expr) Expr {
	if IsConstantValue(lhs, 0) {
		return lhs
	} else if IsConstantValue(rhs, 1) {
		return lhs
	}

	// Constant division by zero is left in place to fault at evaluation.
	if lhs, ok := lhs.(*ConstantExpr); ok {
		if rhs, ok := rhs.(*ConstantExpr); ok && rhs.Value != 0 {
			return NewConstantExpr(lhs.Value / rhs.Value)
		}
	}
	return &BinaryExpr{Op: OpDiv, LHS: lhs, RHS: rhs}
}

// newModExpr returns an expression that represents the remainder of lhs divided by rhs.
func newModExpr(lhs, rhs Expr) Expr {
	if IsConstantValue(lhs, 0) {
		return lhs
	}

	if lhs, ok := lhs.(*ConstantExpr); ok {
		if rhs, ok := rhs.(*ConstantExpr); ok && rhs.Value != 0 {
			return NewConstantExpr(lhs.Value % rhs.Value)
		}
	}
	return &BinaryExpr{Op: OpMod, LHS: lhs, RHS: rhs}
}

// newEqlExpr returns an expression that is 1 if lhs equals rhs and 0 otherwise.
func newEqlExpr(lhs, rhs Expr) Expr {
	// Move constant expression to right hand side.
	if IsConstantExpr(lhs) && !IsConstantExpr(rhs) {
		lhs, rhs = rhs, lhs
	}

	// Structurally identical operands always evaluate to the same value.
	if CompareExpr(lhs, rhs) == 0 {
		return NewConstantExpr(1)
	}

	c, ok := rhs.(*ConstantExpr)
	if !ok {
		return &BinaryExpr{Op: OpEql, LHS: lhs, RHS: rhs}
	}

	switch lhs := lhs.(type) {
	case *ConstantExpr:
		return NewBoolConstantExpr(lhs.Value == c.Value)

	case *InputExpr:
		// An input digit can never equal an out of range literal.
		if c.Value < MinInputDigit || c.Value > MaxInputDigit {
			return NewConstantExpr(0)
		}

	case *BinaryExpr:
		if lhs.Op.IsCompare() {
			switch c.Value {
			case 0: // (a == b) == 0 => a != b
				return negateCompareExpr(lhs)
			case 1: // (a == b) == 1 => a == b
				return lhs
			default: // booleans are only ever 0 or 1
				return NewConstantExpr(0)
			}
		}
	}
	return &BinaryExpr{Op: OpEql, LHS: lhs, RHS: rhs}
}

// newNeqlExpr returns an expression that is 1 if lhs differs from rhs and 0 otherwise.
func newNeqlExpr(lhs, rhs Expr) Expr {
	return negateCompareExpr(NewBinaryExpr(OpEql, lhs, rhs))
}

// negateCompareExpr returns the logical negation of a boolean expression.
func negateCompareExpr(expr Expr) Expr {
	switch expr := expr.(type) {
	case *ConstantExpr:
		return NewBoolConstantExpr(expr.Value == 0)
	case *BinaryExpr:
		switch expr.Op {
		case OpEql:
			return &BinaryExpr{Op: OpNeql, LHS: expr.LHS, RHS: expr.RHS}
		case OpNeql:
			return &BinaryExpr{Op: OpEql, LHS: expr.LHS, RHS: expr.RHS}
		}
	}
	return &BinaryExpr{Op: OpEql, LHS: expr, RHS: NewConstantExpr(0)}
}

// newIfExpr returns an expression that is value if cond is non-zero and 0 otherwise.
func newIfExpr(cond, value Expr) Expr {
	if cond, ok := cond.(*ConstantExpr); ok {
		if cond.Value != 0 {
			return value
		}
		return cond
	} else if IsConstantValue(value, 0) {
		return value
	}
	return &BinaryExpr{Op: OpIf, LHS: cond, RHS: value}
}

// isCompareExpr returns true if expr is an equality or inequality node.
func isCompareExpr(expr Expr) bool {
	e, ok := expr.(*BinaryExpr)
	return ok && e.Op.IsCompare()
}

// ConstantExpr represents an integer constant.
type ConstantExpr struct {
	Value int64
}

// NewConstantExpr returns a new instance of ConstantExpr.
func NewConstantExpr(value int64) *ConstantExpr {
	return &ConstantExpr{Value: value}
}

// NewBoolConstantExpr returns a constant 1 if value is true, otherwise 0.
func NewBoolConstantExpr(value bool) *ConstantExpr {
	if value {
		return &ConstantExpr{Value: 1}
	}
	return &ConstantExpr{Value: 0}
}

// String returns the decimal value.
func (e *ConstantExpr) String() string {
	return strconv.FormatInt(e.Value, 10)
}

// InputExpr represents the n-th value read by an INP instruction.
type InputExpr struct {
	Index int
}

// NewInputExpr returns a new instance of InputExpr.
func NewInputExpr(index int) *InputExpr {
	return &InputExpr{Index: index}
}

// String returns the string representation of the expression.
func (e *InputExpr) String() string {
	return "input" + strconv.Itoa(e.Index)
}

// VarExpr represents the unknown value held by a register when execution starts.
type VarExpr struct {
	Register Register
}

// NewVarExpr returns a new instance of VarExpr.
func NewVarExpr(r Register) *VarExpr {
	return &VarExpr{Register: r}
}

// String returns the register name suffixed with 0, e.g. "z0".
func (e *VarExpr) String() string {
	return e.Register.String() + "0"
}

// IsConstantExpr returns true if expr is an instance of ConstantExpr.
func IsConstantExpr(expr Expr) bool {
	_, ok := expr.(*ConstantExpr)
	return ok
}

// IsConstantValue returns true if expr is a constant equal to v.
func IsConstantValue(expr Expr, v int64) bool {
	c, ok := expr.(*ConstantExpr)
	return ok && c.Value == v
}

// CompareExpr returns an integer comparing two expressions structurally.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
func CompareExpr(a, b Expr) int {
	if a == nil && b != nil {
		return -1
	} else if a != nil && b == nil {
		return 1
	} else if a == nil && b == nil {
		return 0
	} else if a == b {
		return 0
	}

	if ak, bk := exprKind(a), exprKind(b); ak < bk {
		return -1
	} else if ak > bk {
		return 1
	}

	switch a := a.(type) {
	case *ConstantExpr:
		return compareInt64(a.Value, b.(*ConstantExpr).Value)
	case *InputExpr:
		return compareInt64(int64(a.Index), int64(b.(*InputExpr).Index))
	case *VarExpr:
		return compareInt64(int64(a.Register), int64(b.(*VarExpr).Register))
	case *BinaryExpr:
		return compareBinaryExpr(a, b.(*BinaryExpr))
	default:
		panic("unreachable")
	}
}

func compareBinaryExpr(a, b *BinaryExpr) int {
	if a.Op < b.Op {
		return -1
	} else if a.Op > b.Op {
		return 1
	}
	if cmp := CompareExpr(a.LHS, b.LHS); cmp != 0 {
		return cmp
	}
	return CompareExpr(a.RHS, b.RHS)
}

func compareInt64(a, b int64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

// exprKind returns a numeric value for the type of expression.
// Only used internally for equality checks and sorting.
func exprKind(expr Expr) int {
	switch expr.(type) {
	case *ConstantExpr:
		return 1
	case *InputExpr:
		return 2
	case *VarExpr:
		return 3
	case *BinaryExpr:
		return 4
	default:
		panic("unreachable")
	}
}

// ExprVisitor represents a visitor that can be passed to WalkExpr().
type ExprVisitor interface {
	// Executed once for every distinct node. Return nil to skip its children.
	Visit(expr Expr) ExprVisitor
}

// WalkExpr traverses the graph rooted at expr in depth-first order. Shared
// nodes are visited only once.
func WalkExpr(v ExprVisitor, expr Expr) {
	walkExpr(v, expr, make(map[Expr]struct{}))
}

func walkExpr(v ExprVisitor, expr Expr, seen map[Expr]struct{}) {
	if _, ok := seen[expr]; ok {
		return
	}
	seen[expr] = struct{}{}

	if v = v.Visit(expr); v == nil {
		return
	}

	switch expr := expr.(type) {
	case *BinaryExpr:
		walkExpr(v, expr.LHS, seen)
		walkExpr(v, expr.RHS, seen)
	case *ConstantExpr, *InputExpr, *VarExpr:
		// nop
	default:
		panic("unreachable")
	}
}

// inspector adapts a function to the ExprVisitor interface.
type inspector func(Expr) bool

func (f inspector) Visit(expr Expr) ExprVisitor {
	if f(expr) {
		return f
	}
	return nil
}

// InspectExpr calls fn for each distinct node in the graph. Children are
// skipped if fn returns false.
func InspectExpr(expr Expr, fn func(Expr) bool) {
	WalkExpr(inspector(fn), expr)
}

// NodeCount returns the number of distinct nodes reachable from expr.
func NodeCount(expr Expr) int {
	var n int
	InspectExpr(expr, func(Expr) bool { n++; return true })
	return n
}

// FindInputs returns the sorted, distinct input indexes referenced by expr.
func FindInputs(expr Expr) []int {
	m := make(map[int]struct{})
	InspectExpr(expr, func(e Expr) bool {
		if e, ok := e.(*InputExpr); ok {
			m[e.Index] = struct{}{}
		}
		return true
	})

	a := make([]int, 0, len(m))
	for i := range m {
		a = append(a, i)
	}
	sort.Ints(a)
	return a
}

// ErrDivideByZero is returned when evaluating a division or modulo by zero.
var ErrDivideByZero = errors.New("alu: divide by zero")

// ExprEvaluator evaluates expressions using known input and register values.
type ExprEvaluator struct {
	inputs []int64
	vars   map[Register]int64
	cache  map[Expr]int64
}

// NewExprEvaluator returns a new instance of ExprEvaluator bound to inputs.
func NewExprEvaluator(inputs []int64) *ExprEvaluator {
	return &ExprEvaluator{
		inputs: inputs,
		vars:   make(map[Register]int64),
	}
}

// SetVar binds the initial value of register r for VarExpr nodes.
func (ee *ExprEvaluator) SetVar(r Register, v int64) {
	ee.vars[r] = v
}

// Evaluate evaluates expr to a constant value. Shared nodes are evaluated once.
// Returns an error if an input or variable is unbound.
func (ee *ExprEvaluator) Evaluate(expr Expr) (int64, error) {
	ee.cache = make(map[Expr]int64)
	defer func() { ee.cache = nil }()
	return ee.evaluate(expr)
}

func (ee *ExprEvaluator) evaluate(expr Expr) (int64, error) {
	if v, ok := ee.cache[expr]; ok {
		return v, nil
	}

	var v int64
	switch expr := expr.(type) {
	case *ConstantExpr:
		return expr.Value, nil

	case *InputExpr:
		if expr.Index < 0 || expr.Index >= len(ee.inputs) {
			return 0, fmt.Errorf("alu: input not bound: %s", expr)
		}
		return ee.inputs[expr.Index], nil

	case *VarExpr:
		v, ok := ee.vars[expr.Register]
		if !ok {
			return 0, fmt.Errorf("alu: variable not bound: %s", expr)
		}
		return v, nil

	case *BinaryExpr:
		lhs, err := ee.evaluate(expr.LHS)
		if err != nil {
			return 0, err
		}
		rhs, err := ee.evaluate(expr.RHS)
		if err != nil {
			return 0, err
		}
		if v, err = evalBinaryOp(expr.Op, lhs, rhs); err != nil {
			return 0, err
		}

	default:
		return 0, fmt.Errorf("alu: invalid expression type: %T", expr)
	}

	ee.cache[expr] = v
	return v, nil
}

// evalBinaryOp applies op to concrete operands with ALU semantics.
func evalBinaryOp(op BinaryOp, lhs, rhs int64) (int64, error) {
	switch op {
	case OpAdd:
		return lhs + rhs, nil
	case OpMul:
		return lhs * rhs, nil
	case OpDiv:
		if rhs == 0 {
			return 0, ErrDivideByZero
		}
		return lhs / rhs, nil
	case OpMod:
		if rhs == 0 {
			return 0, ErrDivideByZero
		}
		return lhs % rhs, nil
	case OpEql:
		return boolInt(lhs == rhs), nil
	case OpNeql:
		return boolInt(lhs != rhs), nil
	case OpIf:
		if lhs != 0 {
			return rhs, nil
		}
		return 0, nil
	default:
		panic("unreachable")
	}
}

func boolInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

// Evaluate is a convenience function for evaluating expr with only inputs bound.
func Evaluate(expr Expr, inputs []int64) (int64, error) {
	return NewExprEvaluator(inputs).Evaluate(expr)
}
