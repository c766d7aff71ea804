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

package terminal

import (
	"os"

	"github.com/armsim/armsim/curated"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// sentinal errors.
const (
	NoInput      = "terminal: requires an input file"
	NoOutput     = "terminal: requires an output file"
	NotATerminal = "terminal: not a terminal: %v"
)

// Interrupt is the byte produced by ctrl-c when the terminal is in raw mode.
// The reader goroutine does not forward it and closes the input channel
// instead.
const Interrupt = 0x03

// Terminal is the host side of the serial console.
type Terminal struct {
	input  *os.File
	output *os.File

	canAttr    unix.Termios
	rawAttr    unix.Termios
	cbreakAttr unix.Termios

	in chan byte

	// signal to the reader goroutine that it should end. the goroutine may be
	// blocked in a read of the input file so the signal is not acknowledged
	terminateReaderSig chan bool
}

// NewTerminal is the preferred method of initialisation for the Terminal type.
func NewTerminal(inputFile, outputFile *os.File) (*Terminal, error) {
	if inputFile == nil {
		return nil, curated.Errorf(NoInput)
	}
	if outputFile == nil {
		return nil, curated.Errorf(NoOutput)
	}

	pt := &Terminal{
		input:              inputFile,
		output:             outputFile,
		in:                 make(chan byte, 256),
		terminateReaderSig: make(chan bool, 1),
	}

	// prepare the attributes for the different terminal modes we'll be using
	if err := termios.Tcgetattr(pt.input.Fd(), &pt.canAttr); err != nil {
		return nil, curated.Errorf(NotATerminal, err)
	}
	pt.rawAttr = pt.canAttr
	termios.Cfmakeraw(&pt.rawAttr)
	pt.cbreakAttr = pt.canAttr
	termios.Cfmakecbreak(&pt.cbreakAttr)

	go pt.reader()

	return pt, nil
}

// reader forwards bytes from the input file to the input channel. the
// goroutine ends, closing the input channel, when the input is closed, when
// ctrl-c is read or when CleanUp() is called.
func (pt *Terminal) reader() {
	defer close(pt.in)

	b := make([]byte, 1)
	for {
		n, err := pt.input.Read(b)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		if b[0] == Interrupt {
			return
		}

		select {
		case pt.in <- b[0]:
		case <-pt.terminateReaderSig:
			return
		}
	}
}

// Input returns the channel on which bytes typed by the user are delivered.
// The channel is closed when the user types ctrl-c or the input reaches end
// of file.
func (pt *Terminal) Input() <-chan byte {
	return pt.in
}

// CleanUp restores canonical mode and signals the reader goroutine to end.
// The goroutine only notices the signal when it is next ready to deliver a
// byte so CleanUp does not wait for it.
func (pt *Terminal) CleanUp() {
	pt.CanonicalMode()
	select {
	case pt.terminateReaderSig <- true:
	default:
	}
}

// Write implements the io.Writer interface. LF is written as CR LF.
func (pt *Terminal) Write(p []byte) (int, error) {
	for _, b := range p {
		var err error
		if b == '\n' {
			_, err = pt.output.Write([]byte{'\r', '\n'})
		} else {
			_, err = pt.output.Write([]byte{b})
		}
		if err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// CanonicalMode puts terminal into normal, everyday canonical mode.
func (pt *Terminal) CanonicalMode() {
	_ = termios.Tcsetattr(pt.input.Fd(), termios.TCIFLUSH, &pt.canAttr)
}

// RawMode puts terminal into raw mode.
func (pt *Terminal) RawMode() {
	_ = termios.Tcsetattr(pt.input.Fd(), termios.TCIFLUSH, &pt.rawAttr)
}

// CBreakMode puts terminal into cbreak mode.
func (pt *Terminal) CBreakMode() {
	_ = termios.Tcsetattr(pt.input.Fd(), termios.TCIFLUSH, &pt.cbreakAttr)
}

// Flush makes sure the terminal's input/output buffers are empty.
func (pt *Terminal) Flush() error {
	if err := termios.Tcflush(pt.input.Fd(), termios.TCIFLUSH); err != nil {
		return err
	}
	if err := termios.Tcflush(pt.output.Fd(), termios.TCOFLUSH); err != nil {
		return err
	}
	return nil
}
