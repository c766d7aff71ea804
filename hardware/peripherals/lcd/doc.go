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

// Package lcd implements the HD44780U dot matrix LCD controller of the
// development board.
//
// The controller is connected to the bus through two registers:
//
//	offset	name	bits
//	0x00	IOCTL	0 RS (register select), 1 RW (read/write), 2 E (enable)
//	0x04	DB	data bus
//
// An operation is performed on the falling edge of E. The operation is
// selected by RS and RW:
//
//	RS RW
//	0  0	instruction write
//	0  1	read busy flag and address counter
//	1  0	write data to DDRAM or CGRAM
//	1  1	read data from DDRAM or CGRAM
//
// Instructions take time to execute. The busy flag is set for the duration.
// Instructions issued while the controller is busy are executed anyway.
//
// In 4 bit mode every transfer takes two operations, high nibble first, on
// bits 4 to 7 of the data bus.
//
// Every instruction raises one of the HD44780U events in the notifications
// package. The argument of the event is a State value.
package lcd
