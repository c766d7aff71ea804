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

// Package vm binds the ARM processor, the memory map and the devices of the
// board together.
//
// Time in the virtual machine is measured in processor cycles. The tick count
// is the number of cycles divided by the clock rate and is measured in
// seconds. Devices schedule work with RegisterCallback(), giving a timeout in
// simulated seconds. Callbacks are run between calls to the processor's Run()
// function. No callback ever runs in the middle of an instruction:
//
//	Run(budget)
//	  |
//	  +-- ARM.Run(budget)      instructions until budget is used up
//	  |
//	  +-- drain callback queue every callback due at the new tick count,
//	  |                        in order of due time and then registration
//	  |
//	  +-- re-register periodic callbacks at tick count + timespan
//
// Everything happens on the goroutine that calls Run() or Step().
package vm
