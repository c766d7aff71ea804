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

// Package watchdog implements the digital watchdog (DWD) of the development
// board.
//
//	offset	name	access
//	0x00	DWCTRL	r/w	control. any value other than 0x5312aced enables the
//				counter. the register can not be changed after that
//	0x04	DWPRLD	r/w	12 bit preload value. read only once enabled
//	0x08	DWKEY	w	key register. reads as zero
//	0x0c	DWCNT	r	counter
//
// Writing 0xe51a followed by 0xa35c to the key register reloads the counter.
// Writing any other value to the key register resets the system. When the
// counter reaches zero the system is reset.
//
// A system reset is signalled with the notifications.NotifyWatchdogReset
// event.
package watchdog
