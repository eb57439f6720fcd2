package vm

import "github.com/remtori/luago/pkg/core/value"

// Chunk represents the compiled output of a program: an ordered instruction
// sequence plus the constant pool its indices refer to. A chunk is frozen
// before execution; the machine only reads it.
type Chunk struct {
	Instructions []Instruction
	Constants    []value.Value
}

// Constant returns the pool entry at k, bounds-checked.
func (c *Chunk) Constant(k ConstIndex) (value.Value, error) {
	if k < 0 || int(k) >= len(c.Constants) {
		return value.Nil(), ErrInvalidBytecode
	}
	return c.Constants[int(k)], nil
}
