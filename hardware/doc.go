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

// Package hardware is the base package for the devboard emulation. It and
// its sub-packages contain everything required for a headless emulation.
//
// The DevBoard type is the root of the emulation and contains external
// references to the ARM7TDMI, the memory regions and every peripheral on the
// board. From here the emulation can be run for a cycle budget, for a
// duration of emulated time, until a continuation check fails, or it can be
// stepped one instruction at a time.
//
// Peripheral notices, serial data and LED changes for example, are
// delivered to subscribers registered with DevBoard.On(). The subscribers
// survive a call to DevBoard.Reset().
package hardware
