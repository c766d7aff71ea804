// This file is part of armsim.
//
// armsim is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// armsim is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with armsim.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/armsim/armsim/hardware"
	"github.com/armsim/armsim/hardware/arm"
	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/hardware/preferences"
	"github.com/armsim/armsim/imageloader"
	"github.com/armsim/armsim/logger"
	"github.com/armsim/armsim/modalflag"
	"github.com/armsim/armsim/notifications"
	"github.com/armsim/armsim/prefs"
	"github.com/armsim/armsim/statsview"
	"github.com/armsim/armsim/terminal"
	"github.com/davecgh/go-spew/spew"
)

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"

	// reset interrupt signal handling. used when the mode handles ctrl-c
	// itself, as the RUN mode does when the terminal is in raw mode.
	//
	// takes no arguments.
	reqNoIntSig stateReq = "NOINTSIG"
)

type stateRequest struct {
	req  stateReq
	args interface{}
}

type mainSync struct {
	state chan stateRequest
}

func main() {
	sync := &mainSync{
		state: make(chan stateRequest),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	// stateRequest
	exitVal := 0

	// ctrl-c default handler. can be turned off with reqNoIntSig request
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	// launch program as a go routine. further communication is through the
	// mainSync instance
	go launch(sync)

	done := false
	for !done {
		select {
		case <-intChan:
			fmt.Println("\r")
			done = true

		case state := <-sync.state:
			switch state.req {
			case reqQuit:
				done = true
				if state.args != nil {
					if v, ok := state.args.(int); ok {
						exitVal = v
					} else {
						panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
					}
				}

			case reqNoIntSig:
				signal.Reset(os.Interrupt)
				if state.args != nil {
					panic(fmt.Sprintf("%s does not accept any arguments", reqNoIntSig))
				}
			}
		}
	}

	fmt.Print("\r")
	os.Exit(exitVal)
}

// launch is called from main() as a goroutine. uses mainSync instance to
// quit.
func launch(sync *mainSync) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("RUN", "STEP", "DISASM")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	switch md.Mode() {
	case "RUN":
		err = run(md, sync)

	case "STEP":
		err = step(md)

	case "DISASM":
		err = disasm(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit}
}

// loadImages loads the executable image named by the single remaining
// argument.
func loadImages(md *modalflag.Modes, format string) ([]memory.Image, error) {
	switch len(md.RemainingArgs()) {
	case 0:
		return nil, fmt.Errorf("executable image required for %s mode", md)
	case 1:
	default:
		return nil, fmt.Errorf("too many arguments for %s mode", md)
	}

	ld := imageloader.NewLoader(md.GetArg(0), format)
	if err := ld.Load(); err != nil {
		return nil, err
	}
	return ld.Images()
}

// newBoard creates the board with the preferences given on the command line.
func newBoard(cmdlinePrefs string, images []memory.Image) (*hardware.DevBoard, error) {
	prefs.PushCommandLineStack(cmdlinePrefs)
	defer func() {
		if unused := prefs.PopCommandLineStack(); unused != "" {
			logger.Logf(logger.Allow, "prefs", "unused command line preferences: %s", unused)
		}
	}()

	p, err := preferences.NewPreferences()
	if err != nil {
		return nil, err
	}

	return hardware.NewDevBoard(p, images)
}

func run(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	format := md.AddString("format", "AUTO", "format of executable image: ELF, BIN")
	cmdlinePrefs := md.AddString("prefs", "", "preferences for this session. eg. hardware.devboard.clock::12.0")
	cycles := md.AddInt64("cycles", 0, "number of cycles to run for. zero runs until ctrl-c")
	log := md.AddBool("log", false, "echo debugging log to stderr")
	mv := md.AddString("memviz", "", "write the final board state to file as a graphviz graph")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stderr)
	} else {
		logger.SetEcho(nil)
	}

	if *stats {
		if !statsview.Available() {
			return fmt.Errorf("statsview not available in this build")
		}
		statsview.Launch(os.Stderr)
	}

	images, err := loadImages(md, *format)
	if err != nil {
		return err
	}

	brd, err := newBoard(*cmdlinePrefs, images)
	if err != nil {
		return err
	}
	defer func() {
		if err := brd.CleanUp(); err != nil {
			logger.Logf(logger.Allow, "armsim", "%v", err)
		}
	}()

	// the terminal is connected to UART0. if the standard input is not a
	// terminal the board runs without serial input
	var output io.Writer = os.Stdout
	var input <-chan byte

	term, err := terminal.NewTerminal(os.Stdin, os.Stdout)
	if err != nil {
		logger.Logf(logger.Allow, "armsim", "no serial input: %v", err)
	} else {
		// ctrl-c is read by the terminal in raw mode
		sync.state <- stateRequest{req: reqNoIntSig}

		term.RawMode()
		defer term.CleanUp()
		output = term
		input = term.Input()
	}

	brd.On(notifications.NotifyUARTData, func(_ notifications.Notice, _ any, args any) {
		_, _ = output.Write([]byte{args.(uint8)})
	})
	brd.On(notifications.NotifyLEDOn, func(_ notifications.Notice, _ any, args any) {
		logger.Logf(logger.Allow, "LED", "on %v", args)
	})
	brd.On(notifications.NotifyLEDOff, func(_ notifications.Notice, _ any, args any) {
		logger.Logf(logger.Allow, "LED", "off %v", args)
	})

	var used int64
	start := time.Now()

	err = brd.RunUntil(func() (bool, error) {
		used += hardware.Quantum
		if *cycles > 0 && used >= *cycles {
			return false, nil
		}

		for {
			select {
			case c, ok := <-input:
				if !ok {
					return false, nil
				}
				if err := brd.SerialInput(0, c); err != nil {
					return false, err
				}
			default:
				return true, nil
			}
		}
	})
	if err != nil {
		return err
	}

	logger.Logf(logger.Allow, "armsim", "%d cycles in %v", brd.VM.Cycles(), time.Since(start))

	if *mv != "" {
		f, err := os.Create(*mv)
		if err != nil {
			return err
		}
		defer f.Close()
		brd.Memviz(f)
	}

	return nil
}

func step(md *modalflag.Modes) error {
	md.NewMode()

	format := md.AddString("format", "AUTO", "format of executable image: ELF, BIN")
	cmdlinePrefs := md.AddString("prefs", "", "preferences for this session")
	steps := md.AddInt("steps", 20, "number of instructions to execute")
	log := md.AddBool("log", false, "echo debugging log to stderr")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stderr)
	} else {
		logger.SetEcho(nil)
	}

	images, err := loadImages(md, *format)
	if err != nil {
		return err
	}

	brd, err := newBoard(*cmdlinePrefs, images)
	if err != nil {
		return err
	}

	return stepBoard(os.Stdout, brd, *steps)
}

// stepBoard executes the number of instructions, writing the disassembly of
// each instruction and the registers on completion.
func stepBoard(output io.Writer, brd *hardware.DevBoard, steps int) error {
	for i := 0; i < steps; i++ {
		pc := brd.VM.ARM.PC()
		opcode, err := brd.VM.Mem.Read(pc, memory.Word)
		if err != nil {
			return err
		}

		n, err := brd.Step()
		if err != nil {
			return err
		}

		e := arm.Disassemble(pc, opcode)
		fmt.Fprintf(output, "%s %08x %-24s %d\n", e.Address, e.Opcode, e.String(), n)
	}

	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true}
	cfg.Fdump(output, brd.VM.ARM.Registers())
	fmt.Fprintln(output, brd.VM.ARM.CPSR())

	return nil
}

func disasm(md *modalflag.Modes) error {
	md.NewMode()

	format := md.AddString("format", "AUTO", "format of executable image: ELF, BIN")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	images, err := loadImages(md, *format)
	if err != nil {
		return err
	}

	disassemble(os.Stdout, images)

	return nil
}

// disassemble every word of every image. trailing bytes that do not make a
// whole word are ignored.
func disassemble(output io.Writer, images []memory.Image) {
	for _, img := range images {
		for i := 0; i+4 <= len(img.Data); i += 4 {
			opcode := uint32(img.Data[i]) | uint32(img.Data[i+1])<<8 | uint32(img.Data[i+2])<<16 | uint32(img.Data[i+3])<<24
			e := arm.Disassemble(img.Offset+uint32(i), opcode)
			fmt.Fprintf(output, "%s %08x %s\n", e.Address, e.Opcode, e.String())
		}
	}
}
