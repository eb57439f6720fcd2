package vm

import (
	"errors"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/remtori/luago/pkg/core/value"
)

// Chunk files are CBOR, canonical encoding, behind a short magic header.
// This is luago's own format; it is not the PUC-Lua binary layout and makes
// no compatibility promise beyond its own version byte.

const (
	chunkMagic   = "\x1bLuago"
	chunkVersion = 1
)

var ErrBadChunk = errors.New("vm: malformed chunk file")

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vm: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

type chunkFile struct {
	Magic        string     `cbor:"1,keyasint"`
	Version      uint8      `cbor:"2,keyasint"`
	Instructions []instrRec `cbor:"3,keyasint"`
	Constants    []constRec `cbor:"4,keyasint"`
}

// instrRec is the flat wire form of one instruction. A and B carry the
// operands in declaration order; opcodes with fewer operands leave the
// trailing fields zero.
type instrRec struct {
	Op uint8 `cbor:"1,keyasint"`
	A  int64 `cbor:"2,keyasint,omitempty"`
	B  int64 `cbor:"3,keyasint,omitempty"`
	C  int64 `cbor:"4,keyasint,omitempty"`
}

type constRec struct {
	Type  uint8   `cbor:"1,keyasint"`
	Int   int64   `cbor:"2,keyasint,omitempty"`
	Float float64 `cbor:"3,keyasint,omitempty"`
	Str   string  `cbor:"4,keyasint,omitempty"`
}

// MarshalChunk serializes a chunk to CBOR bytes. Chunks holding callable
// constants are not serializable: a function has no wire form.
func MarshalChunk(c *Chunk) ([]byte, error) {
	f := chunkFile{
		Magic:        chunkMagic,
		Version:      chunkVersion,
		Instructions: make([]instrRec, 0, len(c.Instructions)),
		Constants:    make([]constRec, 0, len(c.Constants)),
	}
	for i, ins := range c.Instructions {
		rec, err := encodeInstr(ins)
		if err != nil {
			return nil, fmt.Errorf("vm: marshal chunk: instruction %d: %w", i, err)
		}
		f.Instructions = append(f.Instructions, rec)
	}
	for k, cv := range c.Constants {
		rec, err := encodeConst(cv)
		if err != nil {
			return nil, fmt.Errorf("vm: marshal chunk: constant %d: %w", k, err)
		}
		f.Constants = append(f.Constants, rec)
	}
	return cborEncMode.Marshal(f)
}

// UnmarshalChunk deserializes a chunk from CBOR bytes.
func UnmarshalChunk(data []byte) (*Chunk, error) {
	var f chunkFile
	if err := cbor.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadChunk, err)
	}
	if f.Magic != chunkMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrBadChunk)
	}
	if f.Version != chunkVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadChunk, f.Version)
	}
	c := &Chunk{
		Instructions: make([]Instruction, 0, len(f.Instructions)),
		Constants:    make([]value.Value, 0, len(f.Constants)),
	}
	for i, rec := range f.Instructions {
		ins, err := decodeInstr(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: instruction %d: %v", ErrBadChunk, i, err)
		}
		c.Instructions = append(c.Instructions, ins)
	}
	for k, rec := range f.Constants {
		cv, err := decodeConst(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: constant %d: %v", ErrBadChunk, k, err)
		}
		c.Constants = append(c.Constants, cv)
	}
	return c, nil
}

func encodeInstr(ins Instruction) (instrRec, error) {
	switch op := ins.(type) {
	case LoadConst:
		return instrRec{Op: uint8(OpLoadConst), A: int64(op.Dest), B: int64(op.K)}, nil
	case LoadNil:
		return instrRec{Op: uint8(OpLoadNil), A: int64(op.Dest)}, nil
	case LoadBool:
		var b int64
		if op.Val {
			b = 1
		}
		return instrRec{Op: uint8(OpLoadBool), A: int64(op.Dest), B: b}, nil
	case LoadInt:
		return instrRec{Op: uint8(OpLoadInt), A: int64(op.Dest), B: op.N}, nil
	case Move:
		return instrRec{Op: uint8(OpMove), A: int64(op.Dest), B: int64(op.Src)}, nil
	case GetGlobal:
		return instrRec{Op: uint8(OpGetGlobal), A: int64(op.Dest), B: int64(op.Name)}, nil
	case SetGlobal:
		return instrRec{Op: uint8(OpSetGlobal), A: int64(op.Name), B: int64(op.Src)}, nil
	case Call:
		return instrRec{Op: uint8(OpCall), A: int64(op.Base), B: int64(op.NArgs), C: int64(op.NResults)}, nil
	default:
		return instrRec{}, fmt.Errorf("unknown opcode %d", ins.Op())
	}
}

func decodeInstr(rec instrRec) (Instruction, error) {
	switch Opcode(rec.Op) {
	case OpLoadConst:
		return LoadConst{Dest: StackIndex(rec.A), K: ConstIndex(rec.B)}, nil
	case OpLoadNil:
		return LoadNil{Dest: StackIndex(rec.A)}, nil
	case OpLoadBool:
		return LoadBool{Dest: StackIndex(rec.A), Val: rec.B != 0}, nil
	case OpLoadInt:
		return LoadInt{Dest: StackIndex(rec.A), N: rec.B}, nil
	case OpMove:
		return Move{Dest: StackIndex(rec.A), Src: StackIndex(rec.B)}, nil
	case OpGetGlobal:
		return GetGlobal{Dest: StackIndex(rec.A), Name: ConstIndex(rec.B)}, nil
	case OpSetGlobal:
		return SetGlobal{Name: ConstIndex(rec.A), Src: StackIndex(rec.B)}, nil
	case OpCall:
		if rec.B < 0 || rec.B > math.MaxUint32 || rec.C < 0 || rec.C > math.MaxUint32 {
			return nil, fmt.Errorf("call counts out of range")
		}
		return Call{Base: StackIndex(rec.A), NArgs: uint32(rec.B), NResults: uint32(rec.C)}, nil
	default:
		return nil, fmt.Errorf("unknown opcode %d", rec.Op)
	}
}

func encodeConst(v value.Value) (constRec, error) {
	switch v.Type {
	case value.TypeNil:
		return constRec{Type: uint8(value.TypeNil)}, nil
	case value.TypeBoolean:
		var b int64
		if v.Bool() {
			b = 1
		}
		return constRec{Type: uint8(value.TypeBoolean), Int: b}, nil
	case value.TypeInteger:
		return constRec{Type: uint8(value.TypeInteger), Int: v.Int()}, nil
	case value.TypeFloat:
		return constRec{Type: uint8(value.TypeFloat), Float: v.Float64()}, nil
	case value.TypeString:
		return constRec{Type: uint8(value.TypeString), Str: v.Str()}, nil
	default:
		return constRec{}, fmt.Errorf("%s constant has no wire form", v.TypeName())
	}
}

func decodeConst(rec constRec) (value.Value, error) {
	switch value.Type(rec.Type) {
	case value.TypeNil:
		return value.Nil(), nil
	case value.TypeBoolean:
		return value.Boolean(rec.Int != 0), nil
	case value.TypeInteger:
		return value.Integer(rec.Int), nil
	case value.TypeFloat:
		return value.Float(rec.Float), nil
	case value.TypeString:
		return value.String(rec.Str), nil
	default:
		return value.Nil(), fmt.Errorf("unknown constant kind %d", rec.Type)
	}
}
