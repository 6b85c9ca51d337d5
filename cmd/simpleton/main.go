// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/ezrec/simpleton/emulator"
	"github.com/ezrec/simpleton/io"
)

func main() {
	var compile string
	var load string
	var output string
	var save bool
	var steps int
	var verbose bool

	flag.StringVar(&compile, "c", "", "source file to assemble")
	flag.StringVar(&load, "l", "", "memory image to load (not with -c)")
	flag.StringVar(&output, "o", "", "memory image to write")
	flag.BoolVar(&save, "s", false, "Save image only, do not execute")
	flag.IntVar(&steps, "n", 0, "Step limit (0 for none)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) == 0 && len(load) == 0 {
		log.Fatalf("%v: One of -c or -l is required", os.Args[0])
	}

	if len(compile) != 0 && len(load) != 0 {
		log.Fatalf("%v: -c and -l cannot be combined", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.StepLimit = steps

	if len(load) != 0 {
		inf, err := os.Open(load)
		if err != nil {
			log.Fatalf("%v: %v", load, err)
		}
		err = emu.LoadImage(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", load, err)
		}
	}

	if len(compile) != 0 {
		err := emu.Assemble(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	if len(output) != 0 {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		err = emu.SaveImage(ouf)
		ouf.Close()
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}

	if save {
		return
	}

	terminal := io.NewTerminal(os.Stdin, os.Stdout)
	err := terminal.Start()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	emu.Machine.Console = terminal

	err = emu.Run()
	terminal.Stop()
	if err != nil {
		log.Fatal(err)
	}
}
