//go:build amd64

/*
Copyright (C) 2024-2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package codegen

import (
	"reflect"

	"github.com/launix-de/edustc/ast"
)

const wordSize = 8

// PrintInt is the runtime collaborator's signature, bound into every
// compiled module by absolute address at build time.
type PrintInt func(int64) int64

// Module is a compiled program: its executable pages and an invocable
// entry point for "main". The pages must outlive every call through
// Entry — callers are expected to keep the Module reachable (or register
// it with the ambient cleanup hook) for as long as the process may still
// invoke it.
type Module struct {
	pages *execPages
	Entry func() int64

	// FuncOffsets and CodeSize back the "-dump" diagnostics: an ordered
	// index of function code offsets plus the module's total footprint.
	FuncOffsets map[string]int
	CodeSize    int
}

// frame tracks one function's stack-slot layout while its body is lowered.
type frame struct {
	vars     map[string]int32 // name -> disp from rbp (negative)
	nextSlot int32            // number of slots allocated so far (slots are 8 bytes)
}

func newFrame() *frame { return &frame{vars: make(map[string]int32)} }

func (f *frame) declare(name string) int32 {
	f.nextSlot++
	disp := -int32(wordSize) * f.nextSlot
	f.vars[name] = disp
	return disp
}

func (f *frame) allocTemp() int32 {
	f.nextSlot++
	return -int32(wordSize) * f.nextSlot
}

func (f *frame) lookup(name string) (int32, bool) {
	d, ok := f.vars[name]
	return d, ok
}

// frameSize rounds the slot count up to a 16-byte aligned frame size.
func (f *frame) frameSize() int32 {
	sz := f.nextSlot * wordSize
	if sz%16 != 0 {
		sz += 16 - (sz % 16)
	}
	return sz
}

type regSet struct {
	free []Reg
}

func newRegSet() *regSet {
	rs := &regSet{}
	rs.free = append(rs.free, generalPool...)
	return rs
}

func (rs *regSet) alloc() Reg {
	if len(rs.free) == 0 {
		panic(&Error{Msg: "codegen: expression nesting exhausted the register pool"})
	}
	r := rs.free[len(rs.free)-1]
	rs.free = rs.free[:len(rs.free)-1]
	return r
}

func (rs *regSet) release(r Reg) {
	rs.free = append(rs.free, r)
}

// allocated reports every register currently in use (the complement of
// rs.free within the general pool), in a fixed order.
func (rs *regSet) allocated() []Reg {
	isFree := make(map[Reg]bool, len(rs.free))
	for _, r := range rs.free {
		isFree[r] = true
	}
	var out []Reg
	for _, r := range generalPool {
		if !isFree[r] {
			out = append(out, r)
		}
	}
	return out
}

type funcInfo struct {
	label      int
	paramCount int
}

type compiler struct {
	w         *Writer
	funcs     map[string]*funcInfo
	printAddr uint64
}

// Compile lowers a semantically-validated program to native amd64 code
// and returns an invocable module. printInt is bound by absolute
// address — no cgo, no externally documented ABI, since both call sides
// (this backend and PrintInt) are generated/compiled by the same
// toolchain.
func Compile(prog *ast.Program, printInt PrintInt) (*Module, error) {
	c := &compiler{
		w:         NewWriter(),
		funcs:     make(map[string]*funcInfo),
		printAddr: uint64(reflect.ValueOf(printInt).Pointer()),
	}
	for _, fn := range prog.Functions {
		if len(fn.Params) > maxParams {
			return nil, &Error{Line: fn.Line, Msg: "function exceeds the 8-parameter backend limit"}
		}
		c.funcs[fn.Name] = &funcInfo{label: c.w.ReserveLabel(), paramCount: len(fn.Params)}
	}
	for _, fn := range prog.Functions {
		if err := c.compileFunction(fn); err != nil {
			return nil, err
		}
	}
	if err := c.w.ResolveFixups(); err != nil {
		return nil, &Error{Msg: err.Error()}
	}
	mainInfo := c.funcs["main"]
	entryOffset := c.labelOffset(mainInfo.label)
	pages, err := allocExec(c.w.Code)
	if err != nil {
		return nil, &Error{Msg: err.Error()}
	}

	offsets := make(map[string]int, len(c.funcs))
	for name, info := range c.funcs {
		offsets[name] = c.labelOffset(info.label)
	}

	return &Module{
		pages:       pages,
		Entry:       entryAt(pages, entryOffset),
		FuncOffsets: offsets,
		CodeSize:    len(c.w.Code),
	}, nil
}

func (c *compiler) labelOffset(id int) int {
	return c.w.labels[id]
}

func (c *compiler) compileFunction(fn *ast.Function) error {
	info := c.funcs[fn.Name]
	c.w.MarkLabel(info.label)

	fr := newFrame()
	c.w.push(RBP)
	c.w.movRegReg(RBP, RSP)
	framePatch := c.w.subRspImm32Placeholder()

	for i, p := range fn.Params {
		disp := fr.declare(p)
		c.w.movMemRBPReg(disp, abiArgRegs[i])
	}

	fb := &funcBuilder{c: c, fr: fr, exitLabel: c.w.ReserveLabel()}
	if err := fb.block(fn.Body); err != nil {
		return err
	}

	// Fallthrough safety net: a function whose body does not end in an
	// explicit return still needs a well-formed exit.
	c.w.movRegImm64(RAX, 0)
	c.w.MarkLabel(fb.exitLabel)
	c.w.movRegReg(RSP, RBP)
	c.w.pop(RBP)
	c.w.ret()

	c.w.patchImm32At(framePatch, fr.frameSize())
	return nil
}

// funcBuilder lowers one function body. Variables live in stack slots,
// so no phi resolution is needed: labels are marked in emission order
// and no block-sealing state is kept.
type funcBuilder struct {
	c         *compiler
	fr        *frame
	regs      *regSet
	exitLabel int
}

func (fb *funcBuilder) block(b *ast.Block) error {
	for _, stmt := range b.Statements {
		if err := fb.statement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (fb *funcBuilder) statement(stmt ast.Statement) error {
	w := fb.c.w
	switch st := stmt.(type) {
	case *ast.VarDecl:
		r, err := fb.expr(st.Value)
		if err != nil {
			return err
		}
		disp := fb.fr.declare(st.Name)
		w.movMemRBPReg(disp, r)
		fb.release(r)
		return nil
	case *ast.Assignment:
		disp, ok := fb.fr.lookup(st.Name)
		if !ok {
			return &Error{Line: st.Line, Msg: "codegen: unknown variable " + st.Name}
		}
		r, err := fb.expr(st.Value)
		if err != nil {
			return err
		}
		w.movMemRBPReg(disp, r)
		fb.release(r)
		return nil
	case *ast.If:
		return fb.ifStmt(st)
	case *ast.While:
		return fb.whileStmt(st)
	case *ast.Return:
		r, err := fb.expr(st.Value)
		if err != nil {
			return err
		}
		w.movRegReg(RAX, r)
		fb.release(r)
		w.jmpRel32(fb.exitLabel)
		return nil
	case *ast.ExprStmt:
		r, err := fb.expr(st.Value)
		if err != nil {
			return err
		}
		fb.release(r)
		return nil
	}
	return &Error{Msg: "codegen: unsupported statement"}
}

func (fb *funcBuilder) ifStmt(st *ast.If) error {
	w := fb.c.w
	cond, err := fb.expr(st.Condition)
	if err != nil {
		return err
	}
	zero := fb.alloc()
	w.movRegImm64(zero, 0)
	w.cmpRegReg(cond, zero)
	fb.release(cond)
	fb.release(zero)

	elseLabel := w.ReserveLabel()
	endLabel := w.ReserveLabel()
	w.jccRel32(ccEq, elseLabel)
	if err := fb.block(st.Then); err != nil {
		return err
	}
	w.jmpRel32(endLabel)
	w.MarkLabel(elseLabel)
	if st.Else != nil {
		if err := fb.block(st.Else); err != nil {
			return err
		}
	}
	w.MarkLabel(endLabel)
	return nil
}

func (fb *funcBuilder) whileStmt(st *ast.While) error {
	w := fb.c.w
	header := w.DefineLabel()
	exit := w.ReserveLabel()

	cond, err := fb.expr(st.Condition)
	if err != nil {
		return err
	}
	zero := fb.alloc()
	w.movRegImm64(zero, 0)
	w.cmpRegReg(cond, zero)
	fb.release(cond)
	fb.release(zero)
	w.jccRel32(ccEq, exit)

	if err := fb.block(st.Body); err != nil {
		return err
	}
	w.jmpRel32(header)
	w.MarkLabel(exit)
	return nil
}

func (fb *funcBuilder) alloc() Reg {
	if fb.regs == nil {
		fb.regs = newRegSet()
	}
	return fb.regs.alloc()
}

func (fb *funcBuilder) release(r Reg) {
	if fb.regs == nil {
		fb.regs = newRegSet()
	}
	fb.regs.release(r)
}

func (fb *funcBuilder) expr(e ast.Expr) (result Reg, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*Error); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()
	return fb.lower(e), nil
}

func (fb *funcBuilder) lower(e ast.Expr) Reg {
	w := fb.c.w
	switch ex := e.(type) {
	case *ast.Number:
		r := fb.alloc()
		w.movRegImm64(r, uint64(ex.Value))
		return r
	case *ast.Variable:
		disp, ok := fb.fr.lookup(ex.Name)
		if !ok {
			panic(&Error{Line: ex.Line, Msg: "codegen: unknown variable " + ex.Name})
		}
		r := fb.alloc()
		w.movRegMemRBP(r, disp)
		return r
	case *ast.Unary:
		return fb.lowerUnary(ex)
	case *ast.Binary:
		return fb.lowerBinary(ex)
	case *ast.Call:
		return fb.lowerCall(ex)
	}
	panic(&Error{Msg: "codegen: unsupported expression"})
}

func (fb *funcBuilder) lowerUnary(ex *ast.Unary) Reg {
	w := fb.c.w
	switch ex.Op {
	case ast.Neg:
		r := fb.lower(ex.Operand)
		w.negReg(r)
		return r
	case ast.Not:
		v := fb.lower(ex.Operand)
		zero := fb.alloc()
		w.movRegImm64(zero, 0)
		w.cmpRegReg(v, zero)
		fb.release(v)
		result := fb.alloc()
		w.movRegImm64(result, 0)
		w.setcc(ccEq, result)
		fb.release(zero)
		return result
	}
	panic(&Error{Msg: "codegen: unsupported unary operator"})
}

func (fb *funcBuilder) lowerBinary(ex *ast.Binary) Reg {
	w := fb.c.w
	switch ex.Op {
	case ast.Div, ast.Mod:
		return fb.lowerDivMod(ex)
	case ast.And, ast.Or:
		return fb.lowerLogical(ex)
	}

	left := fb.lower(ex.Left)
	right := fb.lower(ex.Right)

	switch ex.Op {
	case ast.Add:
		w.addRegReg(left, right)
		fb.release(right)
		return left
	case ast.Sub:
		w.subRegReg(left, right)
		fb.release(right)
		return left
	case ast.Mul:
		w.imulRegReg(left, right)
		fb.release(right)
		return left
	case ast.Lt, ast.Le, ast.Gt, ast.Ge, ast.Eq, ast.Ne:
		w.cmpRegReg(left, right)
		fb.release(left)
		fb.release(right)
		result := fb.alloc()
		w.movRegImm64(result, 0)
		w.setcc(binCondCode(ex.Op), result)
		return result
	}
	panic(&Error{Msg: "codegen: unsupported binary operator"})
}

func binCondCode(op ast.BinOp) condCode {
	switch op {
	case ast.Lt:
		return ccLt
	case ast.Le:
		return ccLe
	case ast.Gt:
		return ccGt
	case ast.Ge:
		return ccGe
	case ast.Eq:
		return ccEq
	case ast.Ne:
		return ccNe
	}
	panic(&Error{Msg: "codegen: not a comparison operator"})
}

// lowerLogical implements strict (non-short-circuiting) && / ||: both
// operands are always evaluated, then canonicalized to 0/1 and combined
// with a bitwise AND/OR.
func (fb *funcBuilder) lowerLogical(ex *ast.Binary) Reg {
	w := fb.c.w
	left := fb.boolize(fb.lower(ex.Left))
	right := fb.boolize(fb.lower(ex.Right))
	if ex.Op == ast.And {
		w.andRegReg(left, right)
	} else {
		w.orRegReg(left, right)
	}
	fb.release(right)
	return left
}

// boolize canonicalizes an arbitrary int64 value in r to 0/1 based on
// whether it is non-zero, freeing r and returning a fresh register.
func (fb *funcBuilder) boolize(r Reg) Reg {
	w := fb.c.w
	zero := fb.alloc()
	w.movRegImm64(zero, 0)
	w.cmpRegReg(r, zero)
	fb.release(r)
	result := fb.alloc()
	w.movRegImm64(result, 0)
	w.setcc(ccNe, result)
	fb.release(zero)
	return result
}

// lowerDivMod evaluates the divisor first and spills it to a dedicated
// stack slot (one per division/modulo node, never shared, so nested
// divisions can never clobber each other's in-flight divisor), then
// forces the dividend into RAX, sign-extends with CQO, reloads the
// divisor into the reserved R10 scratch register, and executes IDIV.
func (fb *funcBuilder) lowerDivMod(ex *ast.Binary) Reg {
	w := fb.c.w
	divisor := fb.lower(ex.Right)
	slot := fb.fr.allocTemp()
	w.movMemRBPReg(slot, divisor)
	fb.release(divisor)

	dividend := fb.lower(ex.Left)
	w.movRegReg(RAX, dividend)
	fb.release(dividend)

	w.cqo()
	w.movRegMemRBP(R10, slot)
	w.idivReg(R10)

	result := fb.alloc()
	if ex.Op == ast.Div {
		w.movRegReg(result, RAX)
	} else {
		w.movRegReg(result, RDX)
	}
	return result
}

// savedReg records a live register parked on the stack around a call.
type savedReg struct {
	reg  Reg
	slot int32
}

// spillLiveRegs parks every register the allocator currently considers in
// use (held by an enclosing expression, e.g. the left side of a pending
// addition) to a dedicated stack slot. This backend has no callee-saved
// register convention — a call is free to clobber the whole general
// pool — so any value that must survive across a call site has to live
// in memory for the duration of the call, not in a register.
func (fb *funcBuilder) spillLiveRegs() []savedReg {
	if fb.regs == nil {
		return nil
	}
	live := fb.regs.allocated()
	saved := make([]savedReg, len(live))
	for i, r := range live {
		slot := fb.fr.allocTemp()
		fb.c.w.movMemRBPReg(slot, r)
		saved[i] = savedReg{reg: r, slot: slot}
	}
	return saved
}

func (fb *funcBuilder) reloadLiveRegs(saved []savedReg) {
	for _, s := range saved {
		fb.c.w.movRegMemRBP(s.reg, s.slot)
	}
}

// lowerCall spills every evaluated argument to a dedicated stack slot
// immediately (so evaluating one argument can never clobber a register
// still holding an earlier one), parks any registers still live from an
// enclosing expression, then reloads the arguments into the fixed ABI
// argument registers right before the call.
func (fb *funcBuilder) lowerCall(ex *ast.Call) Reg {
	w := fb.c.w

	if ex.Name == "print" {
		return fb.lowerPrint(ex.Args[0])
	}

	info, ok := fb.c.funcs[ex.Name]
	if !ok {
		panic(&Error{Line: ex.Line, Msg: "codegen: call to unknown function " + ex.Name})
	}

	slots := make([]int32, len(ex.Args))
	for i, arg := range ex.Args {
		r := fb.lower(arg)
		slots[i] = fb.fr.allocTemp()
		w.movMemRBPReg(slots[i], r)
		fb.release(r)
	}
	saved := fb.spillLiveRegs()
	for i, slot := range slots {
		w.movRegMemRBP(abiArgRegs[i], slot)
	}
	w.callRel32(info.label)
	fb.reloadLiveRegs(saved)
	result := fb.alloc()
	w.movRegReg(result, RAX)
	return result
}

func (fb *funcBuilder) lowerPrint(arg ast.Expr) Reg {
	w := fb.c.w
	r := fb.lower(arg)
	slot := fb.fr.allocTemp()
	w.movMemRBPReg(slot, r)
	fb.release(r)
	saved := fb.spillLiveRegs()
	w.movRegMemRBP(abiArgRegs[0], slot)
	w.callAbs(R11, fb.c.printAddr)
	fb.reloadLiveRegs(saved)
	result := fb.alloc()
	w.movRegReg(result, RAX)
	return result
}
