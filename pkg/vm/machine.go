package vm

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/remtori/luago/pkg/core/value"
)

var (
	ErrInvalidBytecode = errors.New("vm: invalid bytecode")
	ErrTypeError       = errors.New("vm: type error")
)

// Fault records an unrecoverable execution error with enough context for
// the host to render a diagnostic: the opcode, the program counter it was
// fetched from, and the underlying cause.
type Fault struct {
	Op  Opcode
	PC  int
	Err error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("vm: %s at pc %d: %v", f.Op, f.PC, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// State tracks the dispatch loop's lifecycle. Halted and Faulted are
// terminal.
type State uint8

const (
	StateReady State = iota
	StateRunning
	StateHalted
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Machine executes one chunk against one stack. The chunk and the global
// table are passed in at construction; the machine owns only the stack and
// the program counter. Slots beyond the written extent are nil until an
// instruction writes them.
type Machine struct {
	chunk   *Chunk
	globals *Globals
	stack   []value.Value
	pc      int
	state   State
	fault   *Fault
}

// New returns a machine in the Ready state. A nil globals table is
// replaced with an empty one.
func New(chunk *Chunk, globals *Globals) *Machine {
	if globals == nil {
		globals = NewGlobals()
	}
	return &Machine{chunk: chunk, globals: globals}
}

// Run executes chunk against globals to completion. It is the plain entry
// point for hosts that do not need step-level control.
func Run(chunk *Chunk, globals *Globals) error {
	return New(chunk, globals).Run()
}

// State returns the current lifecycle state.
func (m *Machine) State() State {
	return m.state
}

// PC returns the current program counter.
func (m *Machine) PC() int {
	return m.pc
}

// Fault returns the recorded fault, or nil if the machine has not faulted.
func (m *Machine) Fault() *Fault {
	return m.fault
}

// Top returns the written extent of the stack.
func (m *Machine) Top() int {
	return len(m.stack)
}

// Slot returns the value at stack index i, or nil if i is beyond the
// written extent.
func (m *Machine) Slot(i StackIndex) value.Value {
	if i < 0 || int(i) >= len(m.stack) {
		return value.Nil()
	}
	return m.stack[int(i)]
}

// Run drives Step until the machine reaches a terminal state, returning
// the fault if one occurred.
func (m *Machine) Run() error {
	for {
		st, err := m.Step()
		if err != nil {
			return err
		}
		if st == StateHalted {
			return nil
		}
	}
}

// Step fetches, decodes, and executes a single instruction, then advances
// the program counter unless the instruction redirected it. Stepping a
// terminal machine returns its terminal state unchanged (the fault again,
// if it faulted).
func (m *Machine) Step() (st State, err error) {
	switch m.state {
	case StateHalted:
		return StateHalted, nil
	case StateFaulted:
		return StateFaulted, m.fault
	}
	m.state = StateRunning

	if m.pc >= len(m.chunk.Instructions) {
		m.state = StateHalted
		return StateHalted, nil
	}

	ins := m.chunk.Instructions[m.pc]

	// Safety net: a bug in an opcode action or a native must surface as a
	// fault, never as a crash of the embedding host.
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); !ok {
				panic(r)
			}
			err = m.fail(ins.Op(), ErrInvalidBytecode)
			st = StateFaulted
		}
	}()

	next := m.pc + 1
	if err := m.exec(ins, &next); err != nil {
		return StateFaulted, m.fail(ins.Op(), err)
	}
	m.pc = next
	if m.pc >= len(m.chunk.Instructions) {
		m.state = StateHalted
		return StateHalted, nil
	}
	return StateRunning, nil
}

// exec dispatches exhaustively on the instruction's concrete type. Actions
// that redirect control flow set *next; everything in the current set falls
// through to pc+1.
func (m *Machine) exec(ins Instruction, next *int) error {
	switch op := ins.(type) {
	case LoadConst:
		k, err := m.chunk.Constant(op.K)
		if err != nil {
			return fmt.Errorf("%w: constant index %d out of range", err, op.K)
		}
		return m.set(op.Dest, k)

	case LoadNil:
		return m.set(op.Dest, value.Nil())

	case LoadBool:
		return m.set(op.Dest, value.Boolean(op.Val))

	case LoadInt:
		return m.set(op.Dest, value.Integer(op.N))

	case Move:
		v, err := m.get(op.Src)
		if err != nil {
			return err
		}
		return m.set(op.Dest, v)

	case GetGlobal:
		name, err := m.constantName(op.Name)
		if err != nil {
			return err
		}
		return m.set(op.Dest, m.globals.Get(name))

	case SetGlobal:
		name, err := m.constantName(op.Name)
		if err != nil {
			return err
		}
		v, err := m.get(op.Src)
		if err != nil {
			return err
		}
		m.globals.Set(name, v)
		return nil

	case Call:
		return m.call(op)

	default:
		return fmt.Errorf("%w: unknown opcode %d", ErrInvalidBytecode, ins.Op())
	}
}

// call implements the uniform call contract: the callee observes its
// arguments as a fresh slice, and its results land at Base truncated or
// nil-padded to NResults.
func (m *Machine) call(op Call) error {
	callee, err := m.get(op.Base)
	if err != nil {
		return err
	}
	fn, ok := callee.Callable()
	if !ok {
		return fmt.Errorf("%w: attempt to call a %s value", ErrTypeError, callee.TypeName())
	}

	argTop := int(op.Base) + 1 + int(op.NArgs)
	if argTop > len(m.stack) {
		return fmt.Errorf("%w: call arguments exceed stack extent %d", ErrInvalidBytecode, len(m.stack))
	}
	args := make([]value.Value, op.NArgs)
	copy(args, m.stack[int(op.Base)+1:argTop])

	results, err := fn(args)
	if err != nil {
		return err
	}

	for i := 0; i < int(op.NResults); i++ {
		var v value.Value
		if i < len(results) {
			v = results[i]
		}
		if err := m.set(op.Base+StackIndex(i), v); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) constantName(k ConstIndex) (string, error) {
	c, err := m.chunk.Constant(k)
	if err != nil {
		return "", fmt.Errorf("%w: constant index %d out of range", err, k)
	}
	if c.Type != value.TypeString {
		return "", fmt.Errorf("%w: global name constant %d is a %s, not a string", ErrInvalidBytecode, k, c.TypeName())
	}
	return c.Str(), nil
}

// get reads a stack slot. Reading beyond the written extent is a bytecode
// bug, not a nil read.
func (m *Machine) get(i StackIndex) (value.Value, error) {
	if i < 0 || int(i) >= len(m.stack) {
		return value.Nil(), fmt.Errorf("%w: stack index %d out of range (top %d)", ErrInvalidBytecode, i, len(m.stack))
	}
	return m.stack[int(i)], nil
}

// set writes a stack slot, growing the stack and nil-filling any slots the
// growth creates.
func (m *Machine) set(i StackIndex, v value.Value) error {
	if i < 0 {
		return fmt.Errorf("%w: negative stack index %d", ErrInvalidBytecode, i)
	}
	m.ensure(int(i) + 1)
	m.stack[int(i)] = v
	return nil
}

// ensure extends the backing storage so that n slots are addressable. New
// slots hold nil. Growth is monotonic during a run.
func (m *Machine) ensure(n int) {
	for len(m.stack) < n {
		m.stack = append(m.stack, value.Nil())
	}
}

func (m *Machine) fail(op Opcode, err error) *Fault {
	f := &Fault{Op: op, PC: m.pc, Err: err}
	m.fault = f
	m.state = StateFaulted
	return f
}
