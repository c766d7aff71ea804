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

package pic

import (
	"fmt"

	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/hardware/vm"
	"github.com/armsim/armsim/logger"
)

// register offsets.
const (
	INTMOD    = 0x00
	INTPND    = 0x04
	INTMSK    = 0x08
	INTPRI0   = 0x0c
	INTPRI5   = 0x20
	INTOFFSET = 0x24
	INTPNDPRI = 0x28
	INTPNDTST = 0x2c
	INTOSETF  = 0x30
	INTOSETI  = 0x34
)

// NumSources is the number of interrupt sources.
const NumSources = 21

const registerBlockSize = 0x38

// the global mask bit in INTMSK.
const globalMask = 1 << NumSources

const sourceBits = (1 << NumSources) - 1

// value of the offset registers when nothing is pending.
const noOffset = NumSources << 2

// reset values of the priority registers.
var priorityDefaults = [6]uint32{0x03020100, 0x07060504, 0x0b0a0908, 0x0f0e0d0c, 0x13121110, 0x00000014}

// PIC is the programmable interrupt controller.
type PIC struct {
	base uint32

	svc    vm.Service
	region *memory.Region

	irq func(active bool)
	fiq func(active bool)

	irqActive bool
	fiqActive bool

	mode    uint32
	pending uint32
	mask    uint32

	// the raw value of the priority registers
	priorities [6]uint32

	// the priority of every source. updated by writes to the priority
	// registers
	priority [NumSources]int
}

// NewPIC is the preferred method of initialisation for the PIC type. The irq
// and fiq functions are called when the state of the output changes. Either
// can be nil.
func NewPIC(base uint32, irq func(active bool), fiq func(active bool)) *PIC {
	if irq == nil {
		irq = func(bool) {}
	}
	if fiq == nil {
		fiq = func(bool) {}
	}
	p := &PIC{
		base: base,
		irq:  irq,
		fiq:  fiq,
	}
	p.Reset()
	return p
}

// Reset the controller to its power on state. The outputs are not driven.
func (p *PIC) Reset() {
	p.mode = 0
	p.pending = 0
	p.mask = globalMask | sourceBits
	for i, v := range priorityDefaults {
		p.writePriority(i, v)
	}
	p.irqActive = false
	p.fiqActive = false
}

func (p *PIC) String() string {
	return fmt.Sprintf("PIC: MOD=%06x PND=%06x MSK=%06x IRQ=%v FIQ=%v", p.mode, p.pending, p.mask, p.irqActive, p.fiqActive)
}

// OnRegister implements the vm.Device interface.
func (p *PIC) OnRegister(svc vm.Service) bool {
	p.svc = svc
	p.region = memory.NewRegion(p.base, registerBlockSize, p.Read, p.Write)
	p.region.Label = "PIC"
	return svc.Map(p.region)
}

// OnUnregister implements the vm.Device interface.
func (p *PIC) OnUnregister() {
	if p.region != nil {
		p.svc.Unmap(p.region)
		p.region = nil
	}
}

// SetSignal sets the state of an interrupt source line. Asserting a line makes
// the source pending, even if it is masked. The pending bit stays set until it
// is cleared by a write to INTPND.
func (p *PIC) SetSignal(source int, active bool) {
	if source < 0 || source >= NumSources {
		logger.Logf(logger.Allow, "pic", "signal for unknown source (%d)", source)
		return
	}
	if !active {
		return
	}
	p.pending |= 1 << source
	p.update()
}

// Pending returns the value of the pending register.
func (p *PIC) Pending() uint32 {
	return p.pending
}

// Read implements the vm.Device interface.
func (p *PIC) Read(offset uint32, _ memory.DataType) (uint32, error) {
	switch {
	case offset == INTMOD:
		return p.mode, nil
	case offset == INTPND:
		return p.pending, nil
	case offset == INTMSK:
		return p.mask, nil
	case offset >= INTPRI0 && offset <= INTPRI5:
		return p.priorities[(offset-INTPRI0)>>2], nil
	case offset == INTOFFSET:
		return p.offset(sourceBits), nil
	case offset == INTPNDPRI:
		return p.pendingByPriority(), nil
	case offset == INTOSETF:
		return p.offset(p.mode), nil
	case offset == INTOSETI:
		return p.offset(^p.mode), nil
	}
	return 0, nil
}

// Write implements the vm.Device interface.
func (p *PIC) Write(offset uint32, _ memory.DataType, value uint32) error {
	switch {
	case offset == INTMOD:
		p.mode = value & sourceBits
	case offset == INTPND:
		p.pending &^= value
	case offset == INTMSK:
		p.mask = value & (globalMask | sourceBits)
	case offset >= INTPRI0 && offset <= INTPRI5:
		p.writePriority(int(offset-INTPRI0)>>2, value)
	case offset == INTPNDTST:
		p.pending = value & sourceBits
	default:
		return nil
	}
	p.update()
	return nil
}

func (p *PIC) writePriority(reg int, value uint32) {
	p.priorities[reg] = value
	for i := 0; i < 4; i++ {
		pri := reg*4 + i
		if pri >= NumSources {
			break
		}
		src := int(value>>(i*8)) & 0x1f
		if src < NumSources {
			p.priority[src] = pri
		}
	}
}

func (p *PIC) pendingByPriority() uint32 {
	var v uint32
	for src := 0; src < NumSources; src++ {
		if p.pending&(1<<src) != 0 {
			v |= 1 << p.priority[src]
		}
	}
	return v
}

// the sources that are pending and that are not masked.
func (p *PIC) active() uint32 {
	if p.mask&globalMask != 0 {
		return 0
	}
	return p.pending &^ p.mask & sourceBits
}

// offset of the highest priority active source among the sources in the
// selection.
func (p *PIC) offset(selection uint32) uint32 {
	active := p.active() & selection
	best := -1
	for src := 0; src < NumSources; src++ {
		if active&(1<<src) == 0 {
			continue
		}
		if best == -1 || p.priority[src] > p.priority[best] {
			best = src
		}
	}
	if best == -1 {
		return noOffset
	}
	return uint32(best) << 2
}

// update the outputs. the output functions are only called on a change of
// state.
func (p *PIC) update() {
	active := p.active()

	irq := active&^p.mode != 0
	if irq != p.irqActive {
		p.irqActive = irq
		p.irq(irq)
	}

	fiq := active&p.mode != 0
	if fiq != p.fiqActive {
		p.fiqActive = fiq
		p.fiq(fiq)
	}
}
