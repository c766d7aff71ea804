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

// Package memory implements the address space of the emulated board. The
// address space is made up of regions. Each region covers a contiguous range
// of addresses and has its own read and write behaviour.
//
//	    CPU ---- Memory ----*---- Region (ROM, buffer read, NoWrite)
//	                        |
//	                        |---- Region (RAM, buffer read/write)
//	                        |
//	                        |---- Region (device, delegate read/write)
//	                        |
//	                         ---- ...
//
// Addresses given to the Read() and Write() functions of Memory are first
// aligned to the width of the data type. The region containing the address
// is then found and the address rebased so that the region's delegate sees an
// offset from the start of the region.
//
// A region is either backed by a buffer, optionally seeded with one or more
// images, or by delegate functions. A region can mix the two: a nil read or
// write delegate means that the buffer is used. The NoRead and NoWrite
// delegates always fail and are used to make a region write-only or
// read-only.
//
// Regions mapped into the same Memory instance never overlap.
//
// Buffers are little-endian.
package memory
