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
	"strings"

	"github.com/armsim/armsim/curated"
)

// Memory is the address space as seen by the CPU.
type Memory struct {
	regions []*Region
}

// NewMemory is the preferred method of initialisation for the Memory type.
// Regions that overlap a region earlier in the list are not mapped.
func NewMemory(regions ...*Region) *Memory {
	mem := &Memory{}
	for _, r := range regions {
		mem.Map(r)
	}
	return mem
}

func (mem *Memory) String() string {
	s := strings.Builder{}
	for _, r := range mem.regions {
		s.WriteString(r.String())
		s.WriteString("\n")
	}
	return s.String()
}

// Regions returns a copy of the list of mapped regions, in the order they
// were mapped.
func (mem *Memory) Regions() []*Region {
	r := make([]*Region, len(mem.regions))
	copy(r, mem.regions)
	return r
}

// Map adds the region to the address space. Returns false if the region
// intersects a region that is already mapped.
func (mem *Memory) Map(region *Region) bool {
	for _, r := range mem.regions {
		if r == region || r.Intersects(region) {
			return false
		}
	}
	mem.regions = append(mem.regions, region)
	return true
}

// Unmap removes the region from the address space. Returns false if the
// region is not mapped.
func (mem *Memory) Unmap(region *Region) bool {
	for i, r := range mem.regions {
		if r == region {
			mem.regions = append(mem.regions[:i], mem.regions[i+1:]...)
			return true
		}
	}
	return false
}

func (mem *Memory) resolve(address uint32) *Region {
	for _, r := range mem.regions {
		if r.Contains(address) {
			return r
		}
	}
	return nil
}

// Read the address space. The address is aligned to the data type and the
// returned value is masked to the width of the data type.
func (mem *Memory) Read(address uint32, t DataType) (uint32, error) {
	address = t.Align(address)
	r := mem.resolve(address)
	if r == nil {
		return 0, curated.Errorf(BadAddress, address)
	}
	v, err := r.Read(address-r.Base, t)
	if err != nil {
		if curated.Is(err, BadAddress) {
			return 0, curated.Errorf(BadAddress, address)
		}
		return 0, err
	}
	return v & t.Mask(), nil
}

// Write the address space. The address is aligned to the data type and the
// value is masked to the width of the data type.
func (mem *Memory) Write(address uint32, t DataType, value uint32) error {
	address = t.Align(address)
	r := mem.resolve(address)
	if r == nil {
		return curated.Errorf(BadAddress, address)
	}
	err := r.Write(address-r.Base, t, value&t.Mask())
	if err != nil {
		if curated.Is(err, BadAddress) {
			return curated.Errorf(BadAddress, address)
		}
		return err
	}
	return nil
}
