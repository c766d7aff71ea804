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

// Package pic implements the interrupt controller of the development board.
//
// The controller has 21 interrupt sources. A source is made pending by
// asserting its line with SetSignal(). Each source is either an IRQ source or
// an FIQ source, depending on its bit in the mode register. The IRQ and FIQ
// outputs are driven while there is an unmasked pending source of that kind.
//
//	offset	name		access
//	0x00	INTMOD		r/w	mode (1 = FIQ)
//	0x04	INTPND		r/w	pending. writing a one clears the bit
//	0x08	INTMSK		r/w	mask. bit 21 is the global mask
//	0x0c	INTPRI0-5	r/w	priority registers
//	0x24	INTOFFSET	r	highest priority pending source << 2
//	0x28	INTPNDPRI	r	pending state by priority
//	0x2c	INTPNDTST	w	pending test register
//	0x30	INTOSET_FIQ	r	highest priority pending FIQ source << 2
//	0x34	INTOSET_IRQ	r	highest priority pending IRQ source << 2
//
// Each byte of a priority register names the source that has the priority
// of that byte's position. Priority 20 (the high byte of INTPRI5) is the
// highest priority. When no source is pending the offset registers read
// 0x54.
package pic
