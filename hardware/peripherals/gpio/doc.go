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

// Package gpio implements the general purpose I/O ports of the development
// board.
//
// Each port has a block of four registers:
//
//	offset	name	access
//	0x00	IOxPIN	r/w	state of the pins
//	0x04	IOxDIR	r/w	pin direction (1 = output)
//	0x08	IOxSET	w	set pins
//	0x0c	IOxCLR	w	clear pins
//
// The GPIO type does not hold the state of the pins. The board supplies
// ReadFunc and WriteFunc to decide what is connected to them.
package gpio
