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

package memory

import "fmt"

// DataType is the width of a memory access.
type DataType int

// List of valid DataType values.
const (
	Byte DataType = iota
	Halfword
	Word
)

func (t DataType) String() string {
	switch t {
	case Byte:
		return "byte"
	case Halfword:
		return "halfword"
	case Word:
		return "word"
	}
	return fmt.Sprintf("datatype(%d)", int(t))
}

// Size returns the number of bytes in the data type.
func (t DataType) Size() uint32 {
	switch t {
	case Byte:
		return 1
	case Halfword:
		return 2
	}
	return 4
}

// Mask returns the mask for a value of the data type.
func (t DataType) Mask() uint32 {
	switch t {
	case Byte:
		return 0xff
	case Halfword:
		return 0xffff
	}
	return 0xffffffff
}

// Align clears the low bits of an address so that it is aligned to the width
// of the data type.
func (t DataType) Align(address uint32) uint32 {
	switch t {
	case Halfword:
		return address &^ 0x01
	case Word:
		return address &^ 0x03
	}
	return address
}
