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
	"testing"
	"time"

	"github.com/armsim/armsim/test"
)

// a terminal without terminal attributes. only the reader goroutine is used
func pipeTerminal(t *testing.T) (*Terminal, *os.File) {
	t.Helper()

	r, w, err := os.Pipe()
	test.DemandSuccess(t, err)
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})

	pt := &Terminal{
		input:              r,
		output:             w,
		in:                 make(chan byte, 256),
		terminateReaderSig: make(chan bool, 1),
	}
	go pt.reader()

	return pt, w
}

// drain the input channel until it closes. fails the test if the channel is
// still open after the timeout
func drain(t *testing.T, pt *Terminal, timeout time.Duration) string {
	t.Helper()

	var s []byte
	for {
		select {
		case b, ok := <-pt.Input():
			if !ok {
				return string(s)
			}
			s = append(s, b)
		case <-time.After(timeout):
			t.Errorf("input channel still open (read %q)", s)
			return string(s)
		}
	}
}

func TestReaderInterrupt(t *testing.T) {
	pt, w := pipeTerminal(t)

	_, err := w.Write([]byte{'a', 'b', Interrupt, 'c'})
	test.DemandSuccess(t, err)

	// bytes after the interrupt are not forwarded
	test.ExpectEquality(t, drain(t, pt, time.Second), "ab")
}

func TestReaderEndOfFile(t *testing.T) {
	pt, w := pipeTerminal(t)

	_, err := w.Write([]byte("xyz"))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, w.Close())

	test.ExpectEquality(t, drain(t, pt, time.Second), "xyz")
}

func TestReaderCleanUp(t *testing.T) {
	pt, w := pipeTerminal(t)

	// fill the input channel so that the reader is blocked on delivery
	_, err := w.Write(make([]byte, cap(pt.in)+1))
	test.DemandSuccess(t, err)
	time.Sleep(50 * time.Millisecond)

	// clean up must not block even though the reader is busy
	done := make(chan bool)
	go func() {
		pt.CleanUp()
		done <- true
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("CleanUp() did not return")
	}

	// the reader sees the signal and closes the channel
	test.ExpectEquality(t, len(drain(t, pt, time.Second)), cap(pt.in))
}
