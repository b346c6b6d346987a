package cog

import (
	"fmt"
	"math"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Variable is a named storage slot: an alloca or a global, and the type
// stored in it.
type Variable struct {
	Ptr  value.Value
	Elem types.Type
}

type ValueLookup struct {
	vals map[string]*Variable
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]*Variable),
	}
}

func (l *ValueLookup) Inherit(t2 *ValueLookup) {
	for k, v := range t2.vals {
		l.Set(k, v)
	}
}

func (l *ValueLookup) Get(id string) (*Variable, bool) {
	v, ok := l.vals[id]
	return v, ok
}

func (l *ValueLookup) Set(id string, v *Variable) {
	l.vals[id] = v
}

type CodegenError struct {
	Node Expr
	Msg  string
}

func (e *CodegenError) Error() string {
	if isNilExpr(e.Node) {
		return "codegen: " + e.Msg
	}

	return fmt.Sprintf("codegen: %s: %s", Sprint(e.Node), e.Msg)
}

func codegenErrorf(node Expr, format string, args ...interface{}) *CodegenError {
	return &CodegenError{
		Node: node,
		Msg:  fmt.Sprintf(format, args...),
	}
}

type LLVMIRBuilder struct {
	mod     *ir.Module
	fn      *ir.Func
	block   *ir.Block
	values  *ValueLookup
	globals *ValueLookup

	funcs   map[string]bool
	strs    int
	labels  int
	retType types.Type
}

func NewLLVMIRBuilder() *LLVMIRBuilder {
	globals := NewValueLookup()

	return &LLVMIRBuilder{
		mod:     ir.NewModule(),
		values:  globals,
		globals: globals,
		funcs:   make(map[string]bool),
	}
}

// Module returns the module built so far.
func (b *LLVMIRBuilder) Module() *ir.Module {
	return b.mod
}

type LLVMGenerator struct {
	stmts []Expr
}

func NewLLVMGenerator(stmts []Expr) *LLVMGenerator {
	return &LLVMGenerator{
		stmts: stmts,
	}
}

// Do lowers the program into a module. Only function declarations and
// literal-initialised declarations are allowed at the top level.
func (g *LLVMGenerator) Do() (*ir.Module, error) {
	builder := NewLLVMIRBuilder()
	for _, stmt := range g.stmts {
		if err := g.visit(builder, stmt); err != nil {
			return nil, err
		}
	}

	return builder.mod, nil
}

func (g *LLVMGenerator) visit(b *LLVMIRBuilder, expr Expr) error {
	switch e := expr.(type) {
	case *FuncDecl:
		return b.function(e)
	case *VariableDecl:
		return b.global(e)
	default:
		return codegenErrorf(expr, "only function and constant declarations are allowed at the top level")
	}
}

func (b *LLVMIRBuilder) function(expr *FuncDecl) error {
	if _, ok := b.globals.Get(expr.Name); ok || b.funcs[expr.Name] {
		return codegenErrorf(expr, "function '%s' is already defined", expr.Name)
	}
	b.funcs[expr.Name] = true

	retType := types.Type(types.Void)
	if expr.ReturnType != nil {
		t, err := b.llvmType(expr, expr.ReturnType)
		if err != nil {
			return err
		}
		retType = t
	}

	var params []*ir.Param
	for _, param := range expr.Params {
		t, err := b.llvmType(param, param.Type)
		if err != nil {
			return err
		}
		params = append(params, ir.NewParam(param.Name, t))
	}

	f := b.mod.NewFunc(expr.Name, retType, params...)

	prevFn, prevBlock, prevVals, prevRet := b.fn, b.block, b.values, b.retType
	defer func() {
		b.fn, b.block, b.values, b.retType = prevFn, prevBlock, prevVals, prevRet
	}()

	b.fn = f
	b.block = f.NewBlock("entry")
	b.retType = retType
	// Locals of an enclosing function live in another frame
	b.values = NewValueLookup()
	b.values.Inherit(b.globals)

	for i, param := range f.Params {
		slot := b.block.NewAlloca(param.Type())
		b.block.NewStore(param, slot)
		b.values.Set(expr.Params[i].Name, &Variable{Ptr: slot, Elem: param.Type()})
	}

	if err := b.statements(expr.Body.Statements); err != nil {
		return err
	}

	if b.block.Term == nil {
		return b.defaultReturn(expr)
	}

	return nil
}

func (b *LLVMIRBuilder) global(expr *VariableDecl) error {
	if _, ok := b.globals.Get(expr.Name); ok || b.funcs[expr.Name] {
		return codegenErrorf(expr, "'%s' is already defined", expr.Name)
	}

	lit, ok := expr.Value.(*LiteralExpr)
	if !ok || lit.Typ == LiteralIdentifier {
		return codegenErrorf(expr, "top-level declarations need a literal value")
	}

	v, err := b.literal(lit)
	if err != nil {
		return err
	}

	if expr.Type != nil {
		t, err := b.llvmType(expr, expr.Type)
		if err != nil {
			return err
		}

		if v, err = b.coerce(expr, v, t); err != nil {
			return err
		}
	}

	c, ok := v.(constant.Constant)
	if !ok {
		return codegenErrorf(expr, "value is not a constant")
	}

	g := b.mod.NewGlobalDef(expr.Name, c)
	b.globals.Set(expr.Name, &Variable{Ptr: g, Elem: c.Type()})

	return nil
}

// statements lowers stmts into the current block. Statements after a
// terminator are unreachable and skipped.
func (b *LLVMIRBuilder) statements(stmts []Expr) error {
	for _, stmt := range stmts {
		if b.block.Term != nil {
			return nil
		}

		if err := b.statement(stmt); err != nil {
			return err
		}
	}

	return nil
}

func (b *LLVMIRBuilder) statement(expr Expr) error {
	switch e := expr.(type) {
	case *FuncDecl:
		return b.function(e)
	case *ReturnExpr:
		return b.ret(e)
	case *IfElseExpr:
		return b.ifElse(e)
	case *BlockExpr:
		return b.scoped(e.Statements)
	default:
		_, err := b.recursiveLoad(expr)
		return err
	}
}

func (b *LLVMIRBuilder) scoped(stmts []Expr) error {
	prevVals := b.values
	b.values = NewValueLookup()
	b.values.Inherit(prevVals)

	defer func() {
		b.values = prevVals
	}()

	return b.statements(stmts)
}

func (b *LLVMIRBuilder) recursiveLoad(expr Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		if e.Typ == LiteralIdentifier {
			return b.load(e, e.Value)
		}
		return b.literal(e)
	case *BinaryExpr:
		return b.binaryExpression(e)
	case *UnaryExpr:
		return b.unaryExpression(e)
	case *VariableDecl:
		return b.variableDecl(e)
	case *AssignmentExpr:
		return b.assignment(e)
	case *AddressOfExpr:
		name, ok := IsIdentifier(e.Operand)
		if !ok {
			return nil, codegenErrorf(e, "can only take the address of a variable")
		}

		v, ok := b.values.Get(name)
		if !ok {
			return nil, codegenErrorf(e, "undefined: %s", name)
		}
		return v.Ptr, nil
	case *DerefExpr:
		ptr, err := b.recursiveLoad(e.Operand)
		if err != nil {
			return nil, err
		}

		pt, ok := ptr.Type().(*types.PointerType)
		if !ok {
			return nil, codegenErrorf(e, "cannot dereference a value of type %s", ptr.Type())
		}
		return b.block.NewLoad(pt.ElemType, ptr), nil
	default:
		return nil, codegenErrorf(expr, "%s cannot be used as a value", NodeName(expr))
	}
}

func (b *LLVMIRBuilder) load(node Expr, name string) (value.Value, error) {
	v, ok := b.values.Get(name)
	if !ok {
		return nil, codegenErrorf(node, "undefined: %s", name)
	}

	return b.block.NewLoad(v.Elem, v.Ptr), nil
}

func (b *LLVMIRBuilder) literal(expr *LiteralExpr) (value.Value, error) {
	switch expr.Typ {
	case LiteralInteger:
		if expr.Int < math.MinInt32 || expr.Int > math.MaxInt32 {
			return constant.NewInt(types.I64, expr.Int), nil
		}
		return constant.NewInt(types.I32, expr.Int), nil
	case LiteralFloat:
		return constant.NewFloat(types.Double, expr.Float), nil
	case LiteralBoolean:
		return constant.NewBool(expr.Bool), nil
	case LiteralString:
		return b.stringConstant(expr.Value), nil
	default:
		return nil, codegenErrorf(expr, "unexpected literal")
	}
}

func (b *LLVMIRBuilder) stringConstant(s string) constant.Constant {
	arr := constant.NewCharArrayFromString(s + "\x00")

	g := b.mod.NewGlobalDef(fmt.Sprintf(".str.%d", b.strs), arr)
	g.Immutable = true
	g.Linkage = enum.LinkagePrivate
	b.strs++

	zero := constant.NewInt(types.I64, 0)
	return constant.NewGetElementPtr(arr.Typ, g, zero, zero)
}

func (b *LLVMIRBuilder) variableDecl(expr *VariableDecl) (value.Value, error) {
	v, err := b.recursiveLoad(expr.Value)
	if err != nil {
		return nil, err
	}

	typ := v.Type()
	if expr.Type != nil {
		if typ, err = b.llvmType(expr, expr.Type); err != nil {
			return nil, err
		}

		if v, err = b.coerce(expr, v, typ); err != nil {
			return nil, err
		}
	}

	slot := b.block.NewAlloca(typ)
	b.block.NewStore(v, slot)
	b.values.Set(expr.Name, &Variable{Ptr: slot, Elem: typ})

	return v, nil
}

func (b *LLVMIRBuilder) assignment(expr *AssignmentExpr) (value.Value, error) {
	slot, ok := b.values.Get(expr.Name)
	if !ok {
		return nil, codegenErrorf(expr, "undefined: %s", expr.Name)
	}

	v, err := b.recursiveLoad(expr.Value)
	if err != nil {
		return nil, err
	}

	if v, err = b.coerce(expr, v, slot.Elem); err != nil {
		return nil, err
	}

	b.block.NewStore(v, slot.Ptr)
	return v, nil
}

func (b *LLVMIRBuilder) ret(expr *ReturnExpr) error {
	v, err := b.recursiveLoad(expr.Value)
	if err != nil {
		return err
	}

	// The value of a return in a function without a return type is dropped
	if types.Equal(b.retType, types.Void) {
		b.block.NewRet(nil)
		return nil
	}

	if v, err = b.coerce(expr, v, b.retType); err != nil {
		return err
	}

	b.block.NewRet(v)
	return nil
}

func (b *LLVMIRBuilder) defaultReturn(node Expr) error {
	switch t := b.retType.(type) {
	case *types.VoidType:
		b.block.NewRet(nil)
	case *types.IntType:
		b.block.NewRet(constant.NewInt(t, 0))
	case *types.FloatType:
		b.block.NewRet(constant.NewFloat(t, 0))
	case *types.PointerType:
		b.block.NewRet(constant.NewNull(t))
	default:
		return codegenErrorf(node, "no default value for return type %s", b.retType)
	}

	return nil
}

func (b *LLVMIRBuilder) ifElse(expr *IfElseExpr) error {
	cond, err := b.recursiveLoad(expr.Condition)
	if err != nil {
		return err
	}

	if cond, err = b.truthy(expr, cond); err != nil {
		return err
	}

	id := b.labels
	b.labels++

	thenBlock := b.fn.NewBlock(fmt.Sprintf("if.then.%d", id))
	var elseBlock *ir.Block
	if expr.Else != nil {
		elseBlock = b.fn.NewBlock(fmt.Sprintf("if.else.%d", id))
	}
	endBlock := b.fn.NewBlock(fmt.Sprintf("if.end.%d", id))

	if elseBlock != nil {
		b.block.NewCondBr(cond, thenBlock, elseBlock)
	} else {
		b.block.NewCondBr(cond, thenBlock, endBlock)
	}

	b.block = thenBlock
	if err := b.scoped(expr.Then.Statements); err != nil {
		return err
	}
	if b.block.Term == nil {
		b.block.NewBr(endBlock)
	}

	if elseBlock != nil {
		b.block = elseBlock
		if err := b.scoped(expr.Else.Statements); err != nil {
			return err
		}
		if b.block.Term == nil {
			b.block.NewBr(endBlock)
		}
	}

	b.block = endBlock
	return nil
}

// truthy turns v into an i1 by comparing it against zero.
func (b *LLVMIRBuilder) truthy(node Expr, v value.Value) (value.Value, error) {
	switch t := v.Type().(type) {
	case *types.IntType:
		if t.BitSize == 1 {
			return v, nil
		}
		return b.block.NewICmp(enum.IPredNE, v, constant.NewInt(t, 0)), nil
	case *types.FloatType:
		return b.block.NewFCmp(enum.FPredONE, v, constant.NewFloat(t, 0)), nil
	case *types.PointerType:
		return b.block.NewICmp(enum.IPredNE, v, constant.NewNull(t)), nil
	default:
		return nil, codegenErrorf(node, "cannot use a value of type %s as a condition", v.Type())
	}
}

var (
	intPredicates = map[BinaryOp]enum.IPred{
		BinaryEqual:        enum.IPredEQ,
		BinaryNotEqual:     enum.IPredNE,
		BinaryLess:         enum.IPredSLT,
		BinaryLessEqual:    enum.IPredSLE,
		BinaryGreater:      enum.IPredSGT,
		BinaryGreaterEqual: enum.IPredSGE,
	}
	floatPredicates = map[BinaryOp]enum.FPred{
		BinaryEqual:        enum.FPredOEQ,
		BinaryNotEqual:     enum.FPredONE,
		BinaryLess:         enum.FPredOLT,
		BinaryLessEqual:    enum.FPredOLE,
		BinaryGreater:      enum.FPredOGT,
		BinaryGreaterEqual: enum.FPredOGE,
	}
)

func (b *LLVMIRBuilder) binaryExpression(expr *BinaryExpr) (value.Value, error) {
	v1, err := b.recursiveLoad(expr.Left)
	if err != nil {
		return nil, err
	}

	v2, err := b.recursiveLoad(expr.Right)
	if err != nil {
		return nil, err
	}

	if expr.Operation == BinaryAnd || expr.Operation == BinaryOr {
		return b.logical(expr, v1, v2)
	}

	if v1, v2, err = b.unify(expr, v1, v2); err != nil {
		return nil, err
	}

	switch v1.Type().(type) {
	case *types.IntType:
		return b.intBinary(expr, v1, v2)
	case *types.FloatType:
		return b.floatBinary(expr, v1, v2)
	case *types.PointerType:
		if pred, ok := intPredicates[expr.Operation]; ok && (expr.Operation == BinaryEqual || expr.Operation == BinaryNotEqual) {
			return b.block.NewICmp(pred, v1, v2), nil
		}
	}

	return nil, codegenErrorf(expr, "operator '%s' is not defined for %s", expr.Operation, v1.Type())
}

func (b *LLVMIRBuilder) logical(expr *BinaryExpr, v1, v2 value.Value) (value.Value, error) {
	v1, err := b.truthy(expr, v1)
	if err != nil {
		return nil, err
	}

	v2, err = b.truthy(expr, v2)
	if err != nil {
		return nil, err
	}

	if expr.Operation == BinaryAnd {
		return b.block.NewAnd(v1, v2), nil
	}

	return b.block.NewOr(v1, v2), nil
}

func (b *LLVMIRBuilder) intBinary(expr *BinaryExpr, v1, v2 value.Value) (value.Value, error) {
	switch expr.Operation {
	case BinaryAddition:
		return b.block.NewAdd(v1, v2), nil
	case BinarySubtraction:
		return b.block.NewSub(v1, v2), nil
	case BinaryMultiplication:
		return b.block.NewMul(v1, v2), nil
	case BinaryDivision:
		// TODO: Use udiv and urem once unsigned types are tracked past the type mapping
		return b.block.NewSDiv(v1, v2), nil
	case BinaryModulo:
		return b.block.NewSRem(v1, v2), nil
	}

	if pred, ok := intPredicates[expr.Operation]; ok {
		return b.block.NewICmp(pred, v1, v2), nil
	}

	return nil, codegenErrorf(expr, "unexpected binary op: %s", expr.Operation)
}

func (b *LLVMIRBuilder) floatBinary(expr *BinaryExpr, v1, v2 value.Value) (value.Value, error) {
	switch expr.Operation {
	case BinaryAddition:
		return b.block.NewFAdd(v1, v2), nil
	case BinarySubtraction:
		return b.block.NewFSub(v1, v2), nil
	case BinaryMultiplication:
		return b.block.NewFMul(v1, v2), nil
	case BinaryDivision:
		return b.block.NewFDiv(v1, v2), nil
	case BinaryModulo:
		return b.block.NewFRem(v1, v2), nil
	}

	if pred, ok := floatPredicates[expr.Operation]; ok {
		return b.block.NewFCmp(pred, v1, v2), nil
	}

	return nil, codegenErrorf(expr, "unexpected binary op: %s", expr.Operation)
}

func (b *LLVMIRBuilder) unaryExpression(expr *UnaryExpr) (value.Value, error) {
	v, err := b.recursiveLoad(expr.Operand)
	if err != nil {
		return nil, err
	}

	switch expr.Operation {
	case UnaryNegative:
		switch t := v.Type().(type) {
		case *types.IntType:
			if t.BitSize == 1 {
				break
			}
			if c, ok := v.(*constant.Int); ok {
				return constant.NewInt(t, wrap(-c.X.Int64(), t.BitSize)), nil
			}
			return b.block.NewSub(constant.NewInt(t, 0), v), nil
		case *types.FloatType:
			return b.block.NewFNeg(v), nil
		}

		return nil, codegenErrorf(expr, "cannot negate a value of type %s", v.Type())
	case UnaryNot:
		if v, err = b.truthy(expr, v); err != nil {
			return nil, err
		}

		return b.block.NewXor(v, constant.True), nil
	default:
		return nil, codegenErrorf(expr, "unexpected unary op: %s", expr.Operation)
	}
}

// unify converts the narrower of two operands to the type of the wider one.
func (b *LLVMIRBuilder) unify(node Expr, v1, v2 value.Value) (value.Value, value.Value, error) {
	t1, t2 := v1.Type(), v2.Type()
	if types.Equal(t1, t2) {
		return v1, v2, nil
	}

	if rank(t1) >= rank(t2) {
		v2, err := b.coerce(node, v2, t1)
		return v1, v2, err
	}

	v1, err := b.coerce(node, v1, t2)
	return v1, v2, err
}

// rank orders numeric types from narrowest to widest.
func rank(t types.Type) int {
	switch t := t.(type) {
	case *types.IntType:
		return int(t.BitSize)
	case *types.FloatType:
		if t.Kind == types.FloatKindDouble {
			return 1000
		}
		return 999
	default:
		return -1
	}
}

// coerce converts v to type to. Integer and float constants are folded into
// constants of the target type instead of emitting conversions.
func (b *LLVMIRBuilder) coerce(node Expr, v value.Value, to types.Type) (value.Value, error) {
	from := v.Type()
	if types.Equal(from, to) {
		return v, nil
	}

	switch dst := to.(type) {
	case *types.IntType:
		if dst.BitSize == 1 {
			return b.boolean(node, v)
		}

		src, ok := from.(*types.IntType)
		if !ok {
			if _, isFloat := from.(*types.FloatType); isFloat && b.block != nil {
				return b.block.NewFPToSI(v, dst), nil
			}
			break
		}

		if c, ok := v.(*constant.Int); ok {
			if src.BitSize == 1 {
				return constant.NewInt(dst, int64(c.X.Sign())), nil
			}
			return constant.NewInt(dst, wrap(c.X.Int64(), dst.BitSize)), nil
		}

		if b.block == nil {
			break
		}

		switch {
		case src.BitSize == 1:
			return b.block.NewZExt(v, dst), nil
		case src.BitSize < dst.BitSize:
			return b.block.NewSExt(v, dst), nil
		default:
			return b.block.NewTrunc(v, dst), nil
		}
	case *types.FloatType:
		switch src := from.(type) {
		case *types.IntType:
			if c, ok := v.(*constant.Int); ok {
				if src.BitSize == 1 {
					return constant.NewFloat(dst, float64(c.X.Sign())), nil
				}
				return constant.NewFloat(dst, float64(c.X.Int64())), nil
			}
			if b.block != nil && src.BitSize == 1 {
				return b.block.NewUIToFP(v, dst), nil
			}
			if b.block != nil {
				return b.block.NewSIToFP(v, dst), nil
			}
		case *types.FloatType:
			if c, ok := v.(*constant.Float); ok {
				f, _ := c.X.Float64()
				return constant.NewFloat(dst, f), nil
			}
			if b.block == nil {
				break
			}
			if rank(src) < rank(dst) {
				return b.block.NewFPExt(v, dst), nil
			}
			return b.block.NewFPTrunc(v, dst), nil
		}
	}

	return nil, codegenErrorf(node, "cannot use a value of type %s as %s", from, to)
}

// boolean converts v to an i1 that is true for any non-zero value.
func (b *LLVMIRBuilder) boolean(node Expr, v value.Value) (value.Value, error) {
	switch c := v.(type) {
	case *constant.Int:
		return constant.NewBool(c.X.Sign() != 0), nil
	case *constant.Float:
		return constant.NewBool(c.X.Sign() != 0), nil
	}

	if b.block == nil {
		return nil, codegenErrorf(node, "cannot use a value of type %s as %s", v.Type(), types.I1)
	}

	return b.truthy(node, v)
}

// wrap truncates n to a two's complement integer of the given width.
func wrap(n int64, bits uint64) int64 {
	if bits >= 64 {
		return n
	}

	shift := 64 - bits
	return n << shift >> shift
}

func (b *LLVMIRBuilder) llvmType(node Expr, t Type) (types.Type, error) {
	switch typ := t.(type) {
	case *BasicType:
		switch typ.Typ {
		case "i32", "u32":
			return types.I32, nil
		case "i64", "u64":
			return types.I64, nil
		case "f32":
			return types.Float, nil
		case "f64":
			return types.Double, nil
		case "bool":
			return types.I1, nil
		case "String":
			return types.I8Ptr, nil
		}
	case *PointerType:
		elem, err := b.llvmType(node, typ.Elem)
		if err != nil {
			return nil, err
		}
		return types.NewPointer(elem), nil
	case nil:
		return nil, codegenErrorf(node, "missing type")
	}

	return nil, codegenErrorf(node, "unsupported type %s", t)
}
