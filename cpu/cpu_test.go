package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// loadCodes writes instruction words into memory starting at addr.
func loadCodes(cpu *Cpu, addr int, codes ...Code) {
	for n, code := range codes {
		cpu.Memory[addr+2*n] = uint8(code >> 8)
		cpu.Memory[addr+2*n+1] = uint8(code)
	}
}

func TestCpu_RegisterOps(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		op   CodeAluOp
		x, y uint8
		out  uint8
	}){
		{"set", ALU_OP_SET, 0x5a, 0xa5, 0xa5},
		{"or", ALU_OP_OR, 0x50, 0x05, 0x55},
		{"and", ALU_OP_AND, 0xf5, 0x5f, 0x55},
		{"xor", ALU_OP_XOR, 0xff, 0x0f, 0xf0},
	}

	for _, entry := range table {
		cpu := NewCpu()
		cpu.Register[0] = entry.x
		cpu.Register[1] = entry.y
		cpu.Register[FLAG_REGISTER] = 0x7f

		done, err := cpu.Execute(MakeCodeAlu(entry.op, 0, 1))
		assert.NoError(err, entry.name)
		assert.False(done, entry.name)
		assert.Equal(entry.out, cpu.Register[0], entry.name)
		assert.Equal(entry.y, cpu.Register[1], entry.name)

		// No flag side effect for the transfer/bitwise group.
		assert.Equal(uint8(0x7f), cpu.Register[FLAG_REGISTER], entry.name)
	}
}

func TestCpu_AddProgram(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[0] = 5
	cpu.Register[1] = 10

	loadCodes(cpu, 0,
		MakeCodeAlu(ALU_OP_ADD, 0, 1),
		MakeCodeHalt(),
	)

	err := cpu.Run()
	assert.NoError(err)
	assert.Equal(uint8(15), cpu.Register[0])
	assert.Equal(uint8(0), cpu.Register[FLAG_REGISTER])
	assert.Equal(uint16(4), cpu.Pc)
	assert.Equal(2, cpu.Ticks)
}

func TestCpu_AddCarryKeepsOperand(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[0] = 255
	cpu.Register[1] = 1

	loadCodes(cpu, 0,
		MakeCodeAlu(ALU_OP_ADD, 0, 1),
		MakeCodeHalt(),
	)

	err := cpu.Run()
	assert.NoError(err)

	// The truncated sum is not stored when a carry occurs.
	assert.Equal(uint8(255), cpu.Register[0])
	assert.Equal(uint8(1), cpu.Register[FLAG_REGISTER])
}

func TestCpu_FlagRegisterAsTarget(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[FLAG_REGISTER] = 5
	cpu.Register[1] = 3

	// vf as the destination: the flag write lands last.
	done, err := cpu.Execute(MakeCodeAlu(ALU_OP_ADD, FLAG_REGISTER, 1))
	assert.NoError(err)
	assert.False(done)
	assert.Equal(uint8(0), cpu.Register[FLAG_REGISTER])
}

func TestCpu_ShiftOps(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[2] = 0b11

	_, err := cpu.Execute(MakeCodeAlu(ALU_OP_SHR, 2, 0))
	assert.NoError(err)
	assert.Equal(uint8(0b01), cpu.Register[2])
	assert.Equal(uint8(1), cpu.Register[FLAG_REGISTER])

	cpu.Register[2] = 0b11
	_, err = cpu.Execute(MakeCodeAlu(ALU_OP_SHL, 2, 0))
	assert.NoError(err)
	assert.Equal(uint8(0b110), cpu.Register[2])
	assert.Equal(uint8(1), cpu.Register[FLAG_REGISTER])

	// Hardware-reference capture takes the high bit instead.
	cpu.ShlCaptureMsb = true
	cpu.Register[2] = 0b11
	_, err = cpu.Execute(MakeCodeAlu(ALU_OP_SHL, 2, 0))
	assert.NoError(err)
	assert.Equal(uint8(0b110), cpu.Register[2])
	assert.Equal(uint8(0), cpu.Register[FLAG_REGISTER])
}

func TestCpu_CallReturn(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[0] = 5
	cpu.Register[1] = 10

	loadCodes(cpu, 0,
		MakeCodeCall(0x100),
		MakeCodeHalt(),
	)
	loadCodes(cpu, 0x100,
		MakeCodeAlu(ALU_OP_ADD, 0, 1),
		MakeCodeReturn(),
	)

	err := cpu.Run()
	assert.NoError(err)
	assert.Equal(uint8(15), cpu.Register[0])
	assert.True(cpu.Stack.Empty())
	assert.Equal(uint16(4), cpu.Pc)
}

func TestCpu_NestedCalls(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[0] = 5
	cpu.Register[1] = 10

	loadCodes(cpu, 0,
		MakeCodeCall(0x100),
		MakeCodeHalt(),
	)
	loadCodes(cpu, 0x100,
		MakeCodeCall(0x200),
		MakeCodeCall(0x200),
		MakeCodeReturn(),
	)
	loadCodes(cpu, 0x200,
		MakeCodeAlu(ALU_OP_ADD, 0, 1),
		MakeCodeReturn(),
	)

	err := cpu.Run()
	assert.NoError(err)
	assert.Equal(uint8(25), cpu.Register[0])
	assert.True(cpu.Stack.Empty())
	assert.Equal(0, cpu.Stack.Depth())
	assert.Equal(uint16(4), cpu.Pc)
}

func TestCpu_StackUnderflow(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	loadCodes(cpu, 0, MakeCodeReturn())

	err := cpu.Run()
	assert.Error(err)
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.ErrorIs(err, ErrOpcode(CODE_RETURN))
	assert.NotErrorIs(err, ErrOutOfBounds)

	// The program counter advanced past the word, but was not set
	// from the empty stack.
	assert.Equal(uint16(2), cpu.Pc)
}

func TestCpu_StackOverflow(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	for range STACK_LIMIT {
		assert.True(cpu.Stack.Push(0))
	}

	done, err := cpu.Execute(MakeCodeCall(0x100))
	assert.False(done)
	assert.ErrorIs(err, ErrStackOverflow)
	assert.Equal(STACK_LIMIT, cpu.Stack.Depth())
}

func TestCpu_CallSelfOverflows(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	loadCodes(cpu, 0, MakeCodeCall(0))

	err := cpu.Run()
	assert.ErrorIs(err, ErrStackOverflow)
	assert.Equal(STACK_LIMIT, cpu.Stack.Depth())
}

func TestCpu_Unimplemented(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		code Code
	}){
		{"jump_family", Code(0x1234)},
		{"load_family", Code(0x6a42)},
		{"alu_minor_8", Code(0x8018)},
		{"alu_minor_f", Code(0x801f)},
		{"misc_family", Code(0x00e0)},
	}

	for _, entry := range table {
		cpu := NewCpu()
		done, err := cpu.Execute(entry.code)
		assert.False(done, entry.name)
		assert.ErrorIs(err, ErrOpcodeDecode, entry.name)
		assert.ErrorIs(err, ErrOpcode(entry.code), entry.name)
		assert.NotErrorIs(err, ErrOutOfBounds, entry.name)
	}
}

func TestCpu_FetchOutOfBounds(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Pc = MEMORY_SIZE - 1

	_, err := cpu.FetchCode()
	assert.ErrorIs(err, ErrOutOfBounds)
	assert.NotErrorIs(err, ErrOpcodeDecode)

	err = cpu.Run()
	assert.ErrorIs(err, ErrOutOfBounds)
}

func TestCpu_HaltKeepsState(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[3] = 42
	loadCodes(cpu, 0, MakeCodeHalt())

	err := cpu.Run()
	assert.NoError(err)
	assert.Equal(uint8(42), cpu.Register[3])
	assert.Equal(uint16(2), cpu.Pc)
	assert.Equal(1, cpu.Ticks)
}

func TestCpu_ResetIdempotent(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[0] = 0xaa
	cpu.Memory[0x123] = 0x55
	cpu.Pc = 0x200
	cpu.ShlCaptureMsb = true
	cpu.Ticks = 7
	cpu.Stack.Push(0x321)

	cpu.Reset()
	first := *cpu

	cpu.Reset()
	assert.Equal(first, *cpu)

	assert.Equal(uint16(0), cpu.Pc)
	assert.Equal(0, cpu.Ticks)
	assert.False(cpu.ShlCaptureMsb)
	assert.True(cpu.Stack.Empty())
	for n := range cpu.Register {
		assert.Equal(uint8(0), cpu.Register[n])
	}
	for _, b := range cpu.Memory {
		if b != 0 {
			t.Fatal("memory not cleared")
		}
	}
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.Contains(cpu.String(), "pc: 000")
	assert.Contains(cpu.String(), "stack: ---")

	cpu.Stack.Push(0x123)
	assert.Contains(cpu.String(), "stack: 123 (depth 1)")
}

func TestCpu_Defines(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	defines := map[string]string{}
	for key, value := range cpu.Defines() {
		defines[key] = value
	}

	assert.Equal("4096", defines["MEMORY_SIZE"])
	assert.Equal("16", defines["NUM_REGISTERS"])
	assert.Equal("16", defines["STACK_LIMIT"])
	assert.Equal("15", defines["FLAG_REGISTER"])
}
