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

import (
	"encoding/binary"
	"fmt"

	"github.com/armsim/armsim/curated"
)

// Sentinal errors.
const (
	BadAddress = "memory: bad address (%08x)"
	BadImage   = "memory: image does not fit region (offset %08x, %d bytes)"
	BadRegion  = "memory: region can not be mapped (%v)"
)

// ReadFunc is the signature of a region's read delegate. The offset is
// relative to the start of the region.
type ReadFunc func(offset uint32, t DataType) (uint32, error)

// WriteFunc is the signature of a region's write delegate. The offset is
// relative to the start of the region.
type WriteFunc func(offset uint32, t DataType, value uint32) error

// NoRead is a read delegate that always fails.
func NoRead(offset uint32, t DataType) (uint32, error) {
	return 0, curated.Errorf(BadAddress, offset)
}

// NoWrite is a write delegate that always fails.
func NoWrite(offset uint32, t DataType, value uint32) error {
	return curated.Errorf(BadAddress, offset)
}

// Image is a sequence of bytes to be copied into a region's buffer at the
// offset from the start of the region.
type Image struct {
	Offset uint32
	Data   []byte
}

// Region is a contiguous range of the address space.
type Region struct {
	Base uint32
	Size uint32

	// optional label. used for logging and for the memviz dump
	Label string

	read  ReadFunc
	write WriteFunc

	// the buffer is only allocated if one of the delegates is nil
	buffer []byte
}

// NewRegion is the preferred method of initialisation for the Region type. A
// nil read or write delegate means that the region's buffer is used for that
// operation.
func NewRegion(base uint32, size uint32, read ReadFunc, write WriteFunc) *Region {
	r := &Region{
		Base:  base,
		Size:  size,
		read:  read,
		write: write,
	}

	if r.read == nil || r.write == nil {
		r.buffer = make([]byte, size)
		if r.read == nil {
			r.read = r.bufferRead
		}
		if r.write == nil {
			r.write = r.bufferWrite
		}
	}

	return r
}

func (r *Region) String() string {
	if r.Label == "" {
		return fmt.Sprintf("%08x-%08x", r.Base, r.end()-1)
	}
	return fmt.Sprintf("%s %08x-%08x", r.Label, r.Base, r.end()-1)
}

// end is one past the last address of the region. the value is a uint64 so
// that a region can end at the top of the address space.
func (r *Region) end() uint64 {
	return uint64(r.Base) + uint64(r.Size)
}

// Contains returns true if the address is inside the region.
func (r *Region) Contains(address uint32) bool {
	return address >= r.Base && uint64(address) < r.end()
}

// Intersects returns true if the two regions share at least one address.
// Regions that touch but do not overlap do not intersect.
func (r *Region) Intersects(o *Region) bool {
	return uint64(r.Base) < o.end() && uint64(o.Base) < r.end()
}

// Buffered returns true if the region has a buffer.
func (r *Region) Buffered() bool {
	return r.buffer != nil
}

// Seed copies images into the region's buffer.
func (r *Region) Seed(images ...Image) error {
	for _, img := range images {
		if r.buffer == nil || uint64(img.Offset)+uint64(len(img.Data)) > uint64(len(r.buffer)) {
			return curated.Errorf(BadImage, img.Offset, len(img.Data))
		}
		copy(r.buffer[img.Offset:], img.Data)
	}
	return nil
}

// Read the region at offset. Offset is relative to the region's base.
func (r *Region) Read(offset uint32, t DataType) (uint32, error) {
	return r.read(offset, t)
}

// Write the region at offset. Offset is relative to the region's base.
func (r *Region) Write(offset uint32, t DataType, value uint32) error {
	return r.write(offset, t, value)
}

func (r *Region) bufferRead(offset uint32, t DataType) (uint32, error) {
	if uint64(offset)+uint64(t.Size()) > uint64(len(r.buffer)) {
		return 0, curated.Errorf(BadAddress, r.Base+offset)
	}

	switch t {
	case Byte:
		return uint32(r.buffer[offset]), nil
	case Halfword:
		return uint32(binary.LittleEndian.Uint16(r.buffer[offset:])), nil
	}
	return binary.LittleEndian.Uint32(r.buffer[offset:]), nil
}

func (r *Region) bufferWrite(offset uint32, t DataType, value uint32) error {
	if uint64(offset)+uint64(t.Size()) > uint64(len(r.buffer)) {
		return curated.Errorf(BadAddress, r.Base+offset)
	}

	switch t {
	case Byte:
		r.buffer[offset] = uint8(value)
	case Halfword:
		binary.LittleEndian.PutUint16(r.buffer[offset:], uint16(value))
	default:
		binary.LittleEndian.PutUint32(r.buffer[offset:], value)
	}
	return nil
}
