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

// Package timer implements the 16 bit timers of the development board.
//
//	offset	name	bits
//	0x00	MODE	0-1 clock select (1, 1/16, 1/256, 1/4096 of the CPU clock)
//			6   zero return on compare match
//			7   count enable
//			8   compare interrupt enable
//			9   overflow interrupt enable
//			10  equal flag
//			11  overflow flag
//	0x04	COUNT	counter
//	0x08	COMP	compare value
//
// The flags are set by the timer. Any write to MODE clears them.
//
// The counter is not advanced on every tick of the timer clock. Instead, the
// value is calculated from the processor's cycle count when it is needed and
// a callback is scheduled for the next compare match or overflow.
package timer
