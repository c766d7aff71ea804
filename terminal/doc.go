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

// Package terminal connects the host terminal to the serial port of the
// emulated board. It is a wrapper for "github.com/pkg/term/termios".
//
// The input file is put into raw mode so that every key press is delivered
// to the emulation immediately and without echo. Bytes read from the input
// are delivered on the channel returned by Input(). Output to the terminal is
// written with Write(), which translates a lone LF into CR LF because the
// output post-processing of the terminal is disabled in raw mode.
//
// CleanUp() must be called before the program exits to restore the terminal
// to canonical mode.
package terminal
