package vm_test

import (
	"testing"

	"github.com/remtori/luago/pkg/core/value"
	"github.com/remtori/luago/pkg/vm"
)

func FuzzUnmarshalChunk(f *testing.F) {
	// Seed with a valid encoded chunk and some near-misses.
	valid, err := vm.MarshalChunk(&vm.Chunk{
		Instructions: []vm.Instruction{
			vm.GetGlobal{Dest: 0, Name: 0},
			vm.LoadConst{Dest: 1, K: 1},
			vm.Call{Base: 0, NArgs: 1, NResults: 0},
		},
		Constants: []value.Value{value.String("print"), value.String("hi")},
	})
	if err != nil {
		f.Fatal(err)
	}
	f.Add(valid)
	f.Add([]byte{})
	f.Add([]byte{0xa0})
	f.Add([]byte("garbage"))

	f.Fuzz(func(t *testing.T, data []byte) {
		chunk, err := vm.UnmarshalChunk(data)
		if err != nil {
			return
		}

		// Whatever decoded must execute without crashing the host: every
		// malformed reference has to surface as a fault. Cap the steps in
		// case future opcodes loop.
		globals := vm.NewGlobals()
		globals.Set("print", value.GoFunction(func([]value.Value) ([]value.Value, error) {
			return nil, nil
		}))
		m := vm.New(chunk, globals)
		for i := 0; i < 10000; i++ {
			st, err := m.Step()
			if err != nil || st == vm.StateHalted {
				return
			}
		}
	})
}
