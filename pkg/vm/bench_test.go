package vm_test

import (
	"testing"

	"github.com/remtori/luago/pkg/core/value"
	"github.com/remtori/luago/pkg/vm"
)

func BenchmarkDispatch(b *testing.B) {
	// A straight-line chunk touching every non-call opcode.
	chunk := &vm.Chunk{
		Instructions: []vm.Instruction{
			vm.LoadConst{Dest: 0, K: 0},
			vm.LoadNil{Dest: 1},
			vm.LoadBool{Dest: 2, Val: true},
			vm.LoadInt{Dest: 3, N: 9},
			vm.Move{Dest: 4, Src: 3},
			vm.GetGlobal{Dest: 5, Name: 0},
			vm.SetGlobal{Name: 0, Src: 4},
		},
		Constants: []value.Value{value.String("g")},
	}
	globals := vm.NewGlobals()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := vm.Run(chunk, globals); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNativeCall(b *testing.B) {
	globals := vm.NewGlobals()
	globals.Set("f", value.GoFunction(func(args []value.Value) ([]value.Value, error) {
		return args, nil
	}))
	chunk := &vm.Chunk{
		Instructions: []vm.Instruction{
			vm.GetGlobal{Dest: 0, Name: 0},
			vm.LoadInt{Dest: 1, N: 1},
			vm.Call{Base: 0, NArgs: 1, NResults: 1},
		},
		Constants: []value.Value{value.String("f")},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := vm.Run(chunk, globals); err != nil {
			b.Fatal(err)
		}
	}
}
