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

// Package uart implements the TL16C750 asynchronous communications element.
//
// The registers of the device are each aligned to a 32 bit boundary, rather
// than being packed into eight consecutive bytes as they are on the real
// chip:
//
//	offset   read             write           DLAB=1
//	0x00     RBR              THR             DLL
//	0x04     IER              IER             DLM
//	0x08     IIR              FCR
//	0x0c     LCR              LCR
//	0x10     MCR              MCR
//	0x14     LSR
//	0x18     MSR              MSR
//	0x1c     SCR              SCR
//
// Characters are moved between the shift registers and the FIFOs at the rate
// given by the divisor latch and the line control register. Every character
// transmitted is raised as the notifications.NotifyUARTData event. Characters
// are received with SerialInput().
package uart
