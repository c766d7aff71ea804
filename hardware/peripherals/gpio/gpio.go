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

package gpio

import (
	"fmt"

	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/hardware/vm"
)

// register offsets within a port's block.
const (
	IOPIN = 0x00
	IODIR = 0x04
	IOSET = 0x08
	IOCLR = 0x0c
)

// PortSize is the size of each port's register block.
const PortSize = 0x10

// ReadFunc returns the state of the pins of the port.
type ReadFunc func(port int) uint32

// WriteFunc is called when the program changes the pins of a port.
//
// For a write to IOxSET the set argument is true and a one in value is a pin
// to set. For a write to IOxCLR the clear argument is true and a zero in
// value is a pin to clear. A write to IOxPIN has both set and clear true and
// value is the new state of the port. The dir argument is the value of the
// IOxDIR register.
type WriteFunc func(port int, value uint32, set bool, clear bool, dir uint32)

// GPIO is a block of I/O ports.
type GPIO struct {
	base uint32

	svc    vm.Service
	region *memory.Region

	dir   []uint32
	read  ReadFunc
	write WriteFunc
}

// NewGPIO is the preferred method of initialisation for the GPIO type. Either
// function can be nil.
func NewGPIO(base uint32, numPorts int, read ReadFunc, write WriteFunc) *GPIO {
	if read == nil {
		read = func(int) uint32 { return 0 }
	}
	if write == nil {
		write = func(int, uint32, bool, bool, uint32) {}
	}

	// all pins are inputs after reset
	return &GPIO{
		base:  base,
		dir:   make([]uint32, numPorts),
		read:  read,
		write: write,
	}
}

func (g *GPIO) String() string {
	return fmt.Sprintf("GPIO: %d ports DIR=%08x", len(g.dir), g.dir)
}

// OnRegister implements the vm.Device interface.
func (g *GPIO) OnRegister(svc vm.Service) bool {
	g.svc = svc
	g.region = memory.NewRegion(g.base, uint32(len(g.dir))*PortSize, g.Read, g.Write)
	g.region.Label = "GPIO"
	return svc.Map(g.region)
}

// OnUnregister implements the vm.Device interface.
func (g *GPIO) OnUnregister() {
	if g.region != nil {
		g.svc.Unmap(g.region)
		g.region = nil
	}
}

// Read implements the vm.Device interface.
func (g *GPIO) Read(offset uint32, _ memory.DataType) (uint32, error) {
	port := int(offset / PortSize)
	switch offset % PortSize {
	case IOPIN:
		return g.read(port), nil
	case IODIR:
		return g.dir[port], nil
	}
	return 0, nil
}

// Write implements the vm.Device interface.
func (g *GPIO) Write(offset uint32, _ memory.DataType, value uint32) error {
	port := int(offset / PortSize)
	dir := g.dir[port]

	switch offset % PortSize {
	case IOPIN:
		g.write(port, value, true, true, dir)
	case IODIR:
		g.dir[port] = value
	case IOSET:
		g.write(port, value, true, false, dir)
	case IOCLR:
		g.write(port, ^value, false, true, dir)
	}

	return nil
}
