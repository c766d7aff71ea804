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

// Package arm implements an ARM7TDMI processor running the ARMv4T instruction
// set in ARM state. Thumb state is not supported and neither are coprocessors.
//
// The processor reads and writes memory through the Bus interface. Data
// accesses that fail with memory.BadAddress raise the data abort exception in
// the emulated program. A failed instruction fetch is returned to the caller
// of Step() or Run() as an error.
//
// Interrupts are signalled with the SetIRQ() and SetFIQ() functions. The
// input lines are sampled by Run() after every instruction. The FIQ line is
// sampled first.
//
// Cycle counts are approximate. Each instruction has a fixed cost with some
// adjustment for register specified shifts, writes to the PC and the
// multiplier array.
package arm
