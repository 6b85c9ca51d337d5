package emulator

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/simpleton/cpu"
)

var helloWorld = []string{
	"; Print a string to the console",
	" move sp STACK_TOP",
	" move r1 message",
	"loop move r0 [ r1 ]",
	" add r0 r0 0",
	" jz done",
	" call putc",
	" addi r1 r1 1",
	" jnz loop",
	"done dw 0",
	"",
	"putc move [ PORT_CONSOLE ] r0",
	" ret",
	"",
	`message dw "Hello" 10 0`,
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Machine)
	assert.NotNil(emu.Assembler)
	assert.NotNil(emu.Program)

	defines := map[string]int{}
	for name, value := range emu.Defines() {
		defines[name] = value
	}
	assert.Equal(CODE_START, defines["CODE_START"])
	assert.Equal(cpu.PORT_CONSOLE, defines["PORT_CONSOLE"])
	assert.Equal(cpu.STACK_TOP, defines["STACK_TOP"])
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		" move r0 5",
		" move r1 r0",
		" add r2 r0 r1",
	}

	err := emu.AssembleSource("test.asm", strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	for n := range program {
		assert.Equal(n+1, emu.LineNo())
		done, err := emu.Tick()
		assert.NoError(err)
		assert.False(done)
	}

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(0, emu.LineNo())

	assert.Equal(uint16(5), emu.Register[cpu.REG_R0])
	assert.Equal(uint16(5), emu.Register[cpu.REG_R1])
	assert.Equal(uint16(10), emu.Register[cpu.REG_R2])
	assert.Equal(3, emu.Ticks)
}

func TestEmulatorConsole(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	output := &bytes.Buffer{}
	emu.Tape.Output = output
	emu.StepLimit = 1000

	err := emu.AssembleSource("hello.asm", strings.NewReader(strings.Join(helloWorld, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	err = emu.Run()
	assert.NoError(err)
	assert.Equal("Hello\n", output.String())
	assert.Equal(uint16(cpu.STACK_TOP), emu.Register[cpu.REG_SP])
}

func TestEmulatorEcho(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	output := &bytes.Buffer{}
	emu.Tape.Input = strings.NewReader("ok")
	emu.Tape.Output = output

	program := []string{
		"loop move r0 [ PORT_CONSOLE ]",
		" add r0 r0 0",
		" jz done",
		" move [ PORT_CONSOLE ] r0",
		" jnz loop",
		"done dw 0",
	}

	err := emu.AssembleSource("echo.asm", strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	err = emu.Run()
	assert.NoError(err)
	assert.Equal("ok", output.String())
}

func TestEmulatorStepLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.StepLimit = 10

	err := emu.AssembleSource("spin.asm", strings.NewReader("spin jnz spin"))
	assert.NoError(err)

	err = emu.Run()
	assert.ErrorIs(err, ErrStepLimit)

	var er *ErrRuntime
	if assert.ErrorAs(err, &er) {
		assert.Equal("spin.asm", er.File)
		assert.Equal(1, er.LineNo)
	}
	assert.Equal(10, emu.Ticks)
}

func TestEmulatorAssembleErr(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	err := emu.AssembleSource("bad.asm", strings.NewReader(" move r0 nowhere"))
	var es cpu.ErrSyntax
	assert.ErrorAs(err, &es)
	assert.Equal(0, len(emu.Program.Listing))

	err = emu.Assemble(filepath.Join(t.TempDir(), "missing.asm"))
	assert.ErrorIs(err, os.ErrNotExist)
}

func TestEmulatorFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	main := filepath.Join(dir, "main.asm")
	err := os.WriteFile(main, []byte(" move r0 VALUE\n#include \"value.asm\"\n"), 0o644)
	assert.NoError(err)
	err = os.WriteFile(filepath.Join(dir, "value.asm"), []byte("VALUE = 42\n"), 0o644)
	assert.NoError(err)

	emu := NewEmulator()
	err = emu.Assemble(main)
	assert.NoError(err)

	err = emu.Run()
	assert.NoError(err)
	assert.Equal(uint16(42), emu.Register[cpu.REG_R0])
}

func TestEmulatorImage(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		" move r0 7",
		" org $10",
		" dw 1 2",
	}

	err := emu.AssembleSource("test.asm", strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	buf := &bytes.Buffer{}
	err = emu.SaveImage(buf)
	assert.NoError(err)
	assert.Equal(2*0x12, buf.Len())

	loaded := NewEmulator()
	err = loaded.LoadImage(bytes.NewReader(buf.Bytes()))
	assert.NoError(err)
	assert.Equal(emu.Memory[:0x12], loaded.Memory[:0x12])
	assert.Equal(0, loaded.LineNo())

	err = loaded.Run()
	assert.NoError(err)
	assert.Equal(uint16(7), loaded.Register[cpu.REG_R0])

	err = loaded.LoadImage(bytes.NewReader([]byte{1}))
	assert.Error(err)
}

func TestEmulatorImageLoadSave(t *testing.T) {
	assert := assert.New(t)

	data := []byte{0x00, 0xe0, 0x00, 0x05, 0x00, 0x00}

	emu := NewEmulator()
	err := emu.LoadImage(bytes.NewReader(data))
	assert.NoError(err)

	buf := &bytes.Buffer{}
	err = emu.SaveImage(buf)
	assert.NoError(err)
	assert.Equal(data, buf.Bytes())

	err = emu.LoadImage(bytes.NewReader(nil))
	assert.NoError(err)

	buf.Reset()
	err = emu.SaveImage(buf)
	assert.NoError(err)
	assert.Equal(0, buf.Len())
}
