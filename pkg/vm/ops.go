package vm

// StackIndex addresses a slot in the register file, 0-based from the base
// of the executing call.
type StackIndex int

// ConstIndex addresses an entry in a chunk's constant pool.
type ConstIndex int

// Opcode identifies which operation an Instruction performs.
type Opcode uint8

const (
	OpLoadConst Opcode = iota
	OpLoadNil
	OpLoadBool
	OpLoadInt
	OpMove
	OpGetGlobal
	OpSetGlobal
	OpCall
)

func (op Opcode) String() string {
	switch op {
	case OpLoadConst:
		return "LoadConst"
	case OpLoadNil:
		return "LoadNil"
	case OpLoadBool:
		return "LoadBool"
	case OpLoadInt:
		return "LoadInt"
	case OpMove:
		return "Move"
	case OpGetGlobal:
		return "GetGlobal"
	case OpSetGlobal:
		return "SetGlobal"
	case OpCall:
		return "Call"
	default:
		return "Unknown"
	}
}

// Instruction is one decoded operation. The set is closed: every
// implementation lives in this package, carries exactly the operands its
// opcode needs, and is immutable once constructed. The dispatch loop
// switches exhaustively over the concrete types.
type Instruction interface {
	Op() Opcode
	instr()
}

// LoadConst writes Constants[K] into Stack[Dest].
type LoadConst struct {
	Dest StackIndex
	K    ConstIndex
}

// LoadNil writes nil into Stack[Dest].
type LoadNil struct {
	Dest StackIndex
}

// LoadBool writes a boolean immediate into Stack[Dest].
type LoadBool struct {
	Dest StackIndex
	Val  bool
}

// LoadInt writes an integer immediate into Stack[Dest], sparing the
// constant pool for small numbers.
type LoadInt struct {
	Dest StackIndex
	N    int64
}

// Move copies Stack[Src] into Stack[Dest].
type Move struct {
	Dest StackIndex
	Src  StackIndex
}

// GetGlobal looks up the name held at Constants[Name] in the global table
// and writes the bound value, or nil if unbound, into Stack[Dest].
type GetGlobal struct {
	Dest StackIndex
	Name ConstIndex
}

// SetGlobal binds the name held at Constants[Name] to Stack[Src],
// creating or overwriting the binding.
type SetGlobal struct {
	Name ConstIndex
	Src  StackIndex
}

// Call invokes the callable at Stack[Base] with arguments
// Stack[Base+1 .. Base+NArgs]. Results are written starting at Stack[Base],
// truncated to NResults and nil-padded if the callee produced fewer.
type Call struct {
	Base     StackIndex
	NArgs    uint32
	NResults uint32
}

func (LoadConst) Op() Opcode { return OpLoadConst }
func (LoadNil) Op() Opcode   { return OpLoadNil }
func (LoadBool) Op() Opcode  { return OpLoadBool }
func (LoadInt) Op() Opcode   { return OpLoadInt }
func (Move) Op() Opcode      { return OpMove }
func (GetGlobal) Op() Opcode { return OpGetGlobal }
func (SetGlobal) Op() Opcode { return OpSetGlobal }
func (Call) Op() Opcode      { return OpCall }

func (LoadConst) instr() {}
func (LoadNil) instr()   {}
func (LoadBool) instr()  {}
func (LoadInt) instr()   {}
func (Move) instr()      {}
func (GetGlobal) instr() {}
func (SetGlobal) instr() {}
func (Call) instr()      {}
