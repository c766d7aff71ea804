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

// Package rtc implements the DS1307 real time clock of the development board.
//
// The device is 64 bytes of battery backed memory. The first eight bytes are
// the clock and control registers, stored as BCD:
//
//	0x00	seconds (bit 7 is the clock halt bit)
//	0x01	minutes
//	0x02	hours (bit 6 selects 12 hour mode, bit 5 is PM in 12 hour mode)
//	0x03	day of the week (1 to 7)
//	0x04	date
//	0x05	month
//	0x06	year (00 to 99)
//	0x07	control
//
// The remaining 56 bytes are general purpose RAM. The RAM can be saved to and
// loaded from disk with SaveNVRAM() and LoadNVRAM().
//
// While the oscillator is running the clock advances once per simulated
// second and the notifications.NotifyRTCTick event is raised. Every write to
// the device raises the notifications.NotifyRTCDataWrite event. The argument
// of both events is a copy of the device's memory.
package rtc
