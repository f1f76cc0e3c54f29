// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
)

func main() {
	var compile string
	var limit int
	var dump bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".c8 file to compile")
	flag.IntVar(&limit, "n", 0, "Instruction budget (0 = unlimited)")
	flag.BoolVar(&dump, "d", false, "Dump CPU state after the run")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	prog := &cpu.Program{}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.StepLimit = limit

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	emu.Program = prog

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	err = emu.Run()
	if err != nil {
		log.Fatal(err)
	}

	if dump {
		fmt.Print(emu.Cpu.String())
	}
}
