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

package uart

import (
	"fmt"

	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/hardware/vm"
	"github.com/armsim/armsim/logger"
	"github.com/armsim/armsim/notifications"
)

// register offsets.
const (
	RBR = 0x00 // THR and DLL
	IER = 0x04 // DLM
	IIR = 0x08 // FCR
	LCR = 0x0c
	MCR = 0x10
	LSR = 0x14
	MSR = 0x18
	SCR = 0x1c
)

// size of the register block.
const registerBlockSize = 0x100

// frequency of the crystal driving the baud generator.
const crystalFrequency = 1843200

// bits in the line status register.
const (
	lsrDataReady = 0x01
	lsrOverrun   = 0x02
	lsrTHRE      = 0x20
	lsrTEMT      = 0x40
)

// bits in the interrupt enable register.
const (
	ierReceiveData = 0x01
	ierTHRE        = 0x02
	ierLineStatus  = 0x04
)

// interrupt identification values.
const (
	iirNone         = 0x01
	iirLineStatus   = 0x06
	iirReceiveData  = 0x04
	iirCharTimeout  = 0x0c
	iirTHRE         = 0x02
	iirFIFOsEnabled = 0xc0
	iirFIFO64       = 0x20
)

// UART is an implementation of the TL16C750.
type UART struct {
	label string
	base  uint32

	svc    vm.Service
	region *memory.Region

	// called when the state of the interrupt output changes
	interrupt       func(active bool)
	interruptSignal bool

	ier uint8
	fcr uint8
	lcr uint8
	mcr uint8
	msr uint8
	scr uint8
	dll uint8
	dlm uint8

	fifosEnabled bool
	fifoSize     int
	triggerLevel int
	rxFIFO       []uint8
	txFIFO       []uint8

	// characters waiting to be shifted into the receiver
	serialIn []uint8

	overrunError     bool
	rbrRead          bool
	thrEmpty         bool
	dataReady        bool
	characterTimeout bool

	// time to transfer one character in seconds
	characterTime float64

	transfer vm.Handle
	timeout  vm.Handle
}

// NewUART is the preferred method of initialisation for the UART type. The
// interrupt function is called when the interrupt output of the device
// changes. It can be nil.
func NewUART(label string, base uint32, interrupt func(active bool)) *UART {
	if interrupt == nil {
		interrupt = func(bool) {}
	}
	return &UART{
		label:     label,
		base:      base,
		interrupt: interrupt,
		fifoSize:  16,
		thrEmpty:  true,
	}
}

func (u *UART) String() string {
	return fmt.Sprintf("%s: LCR=%02x IER=%02x LSR=%02x rx=%d tx=%d", u.label, u.lcr, u.ier, u.peekLSR(), len(u.rxFIFO), len(u.txFIFO))
}

// OnRegister implements the vm.Device interface.
func (u *UART) OnRegister(svc vm.Service) bool {
	u.svc = svc
	u.region = memory.NewRegion(u.base, registerBlockSize, u.Read, u.Write)
	u.region.Label = u.label
	return svc.Map(u.region)
}

// OnUnregister implements the vm.Device interface.
func (u *UART) OnUnregister() {
	if u.region != nil {
		u.svc.Unmap(u.region)
		u.region = nil
	}
	u.clearTransferCallback()
	if u.timeout.Valid() {
		u.svc.UnregisterCallback(u.timeout)
		u.timeout = vm.Handle{}
	}
}

// SerialInput simulates the arrival of a character on the serial input.
func (u *UART) SerialInput(c uint8) {
	u.serialIn = append(u.serialIn, c)
	if !u.transfer.Valid() {
		u.setTransferCallback()
	}
}

func (u *UART) dlab() bool {
	return u.lcr&0x80 == 0x80
}

// Read implements the vm.Device interface.
func (u *UART) Read(offset uint32, _ memory.DataType) (uint32, error) {
	switch offset {
	case RBR:
		if u.dlab() {
			return uint32(u.dll), nil
		}
		return uint32(u.readRBR()), nil
	case IER:
		if u.dlab() {
			return uint32(u.dlm), nil
		}
		return uint32(u.ier), nil
	case IIR:
		return uint32(u.iir()), nil
	case LCR:
		return uint32(u.lcr), nil
	case MCR:
		return uint32(u.mcr), nil
	case LSR:
		v := u.peekLSR()

		// overrun is cleared by every read of the LSR
		u.overrunError = false

		return uint32(v), nil
	case MSR:
		return uint32(u.msr), nil
	case SCR:
		return uint32(u.scr), nil
	}
	return 0, nil
}

// Write implements the vm.Device interface.
func (u *UART) Write(offset uint32, _ memory.DataType, value uint32) error {
	v := uint8(value)

	switch offset {
	case RBR:
		if u.dlab() {
			u.dll = v
			u.rescheduleTransfer()
		} else {
			u.writeTHR(v)
		}
	case IER:
		if u.dlab() {
			u.dlm = v
			u.rescheduleTransfer()
		} else {
			u.ier = v
			u.updateInterrupt()
		}
	case IIR:
		u.writeFCR(v)
	case LCR:
		u.lcr = v
		u.rescheduleTransfer()
	case MCR:
		u.mcr = v
	case LSR:
		// the line status register is read only
	case MSR:
		u.msr = v
	case SCR:
		u.scr = v
	}

	return nil
}

func (u *UART) readRBR() uint8 {
	if len(u.rxFIFO) == 0 {
		return 0
	}

	u.resetCharacterTimeout()

	v := u.rxFIFO[0]
	u.rxFIFO = u.rxFIFO[1:]
	u.rbrRead = true

	// data ready is cleared when the FIFO is empty
	u.dataReady = len(u.rxFIFO) > 0

	u.updateInterrupt()

	return v
}

func (u *UART) writeTHR(v uint8) {
	switch {
	case !u.fifosEnabled:
		if len(u.txFIFO) == 0 {
			u.txFIFO = append(u.txFIFO, v)
		} else {
			u.txFIFO[0] = v
		}
	case len(u.txFIFO) >= u.fifoSize:
		u.txFIFO[u.fifoSize-1] = v
	default:
		u.txFIFO = append(u.txFIFO, v)
	}

	u.thrEmpty = false
	if !u.transfer.Valid() {
		u.setTransferCallback()
	}
	u.updateInterrupt()
}

func (u *UART) writeFCR(v uint8) {
	// changing FCR0 clears both FIFOs
	if u.fcr&0x01 != v&0x01 {
		u.rxFIFO = u.rxFIFO[:0]
		u.txFIFO = u.txFIFO[:0]
	}

	u.fifosEnabled = v&0x01 == 0x01
	if u.fifosEnabled {
		if v&0x02 == 0x02 {
			u.rxFIFO = u.rxFIFO[:0]
		}
		if v&0x04 == 0x04 {
			u.txFIFO = u.txFIFO[:0]
		}

		// the 64 byte mode bit can only be changed when DLAB is set
		if u.dlab() {
			if v&0x20 == 0x20 {
				u.fifoSize = 64
			} else {
				u.fifoSize = 16
			}
		} else {
			v = (v &^ 0x20) | (u.fcr & 0x20)
		}

		levels := [4]int{1, 4, 8, 14}
		if u.fifoSize == 64 {
			levels = [4]int{1, 16, 32, 56}
		}
		u.triggerLevel = levels[(v>>6)&0x03]
	}

	// the FIFO reset bits clear themselves
	u.fcr = v &^ 0x06

	u.updateInterrupt()
}

// the value of the LSR without the side effect of clearing the overrun bit.
func (u *UART) peekLSR() uint8 {
	var v uint8
	if u.dataReady {
		v |= lsrDataReady
	}
	if u.overrunError {
		v |= lsrOverrun
	}
	if u.thrEmpty {
		v |= lsrTHRE
		if len(u.txFIFO) == 0 {
			v |= lsrTEMT
		}
	}
	return v
}

func (u *UART) iir() uint8 {
	v := uint8(iirNone)

	switch {
	case u.overrunError && u.ier&ierLineStatus != 0:
		v = iirLineStatus
	case u.fifosEnabled && len(u.rxFIFO) >= u.triggerLevel && len(u.rxFIFO) > 0 && u.ier&ierReceiveData != 0:
		v = iirReceiveData
	case u.fifosEnabled && u.characterTimeout && u.ier&ierReceiveData != 0:
		v = iirCharTimeout
	case !u.fifosEnabled && len(u.rxFIFO) > 0 && u.ier&ierReceiveData != 0:
		v = iirReceiveData
	case u.thrEmpty && u.ier&ierTHRE != 0:
		v = iirTHRE
	}

	if u.fifosEnabled {
		v |= iirFIFOsEnabled
	}
	if u.fifoSize == 64 {
		v |= iirFIFO64
	}

	return v
}

// updateInterrupt sets the level of the interrupt output. the interrupt
// function is called on every change and for as long as the interrupt is
// active.
func (u *UART) updateInterrupt() {
	old := u.interruptSignal
	u.interruptSignal = u.iir()&iirNone == 0x00
	if old != u.interruptSignal || u.interruptSignal {
		u.interrupt(u.interruptSignal)
	}
}

// bits per character for the current line control settings.
func (u *UART) bitsPerCharacter() float64 {
	// start bit plus stop bit plus word length
	n := 2.0 + float64(5+u.lcr&0x03)

	if u.lcr&0x04 == 0x04 {
		if n == 7 {
			n += 0.5
		} else {
			n++
		}
	}

	// parity
	if u.lcr&0x08 == 0x08 {
		n++
	}

	return n
}

// Baudrate returns the baud rate set by the divisor latch.
func (u *UART) Baudrate() float64 {
	divisor := uint32(u.dlm)<<8 | uint32(u.dll)

	// a divisor of zero is not meaningful. treat it as the fastest rate
	if divisor == 0 {
		divisor = 1
	}

	return float64(crystalFrequency / (16 * divisor))
}

func (u *UART) setTransferCallback() {
	u.characterTime = u.bitsPerCharacter() / u.Baudrate()
	u.clearTransferCallback()
	u.transfer = u.svc.RegisterCallback(u.characterTime, true, u.transferCharacter)
}

// the transfer callback is recalculated when the line settings change.
func (u *UART) rescheduleTransfer() {
	if u.transfer.Valid() {
		u.setTransferCallback()
	}
}

func (u *UART) clearTransferCallback() {
	if u.transfer.Valid() {
		u.svc.UnregisterCallback(u.transfer)
		u.transfer = vm.Handle{}
	}
}

func (u *UART) transferCharacter() {
	if len(u.serialIn) == 0 && len(u.txFIFO) == 0 {
		u.clearTransferCallback()
	}

	if len(u.serialIn) > 0 {
		c := u.serialIn[0]
		u.serialIn = u.serialIn[1:]
		u.receive(c)
	}

	if len(u.txFIFO) > 0 {
		c := u.txFIFO[0]
		u.txFIFO = u.txFIFO[1:]
		u.thrEmpty = !u.fifosEnabled || len(u.txFIFO) < u.fifoSize
		u.svc.RaiseEvent(notifications.NotifyUARTData, u, c)
	}

	u.updateInterrupt()
}

// receive moves a character from the receiver shift register into the
// receiver buffer.
func (u *UART) receive(c uint8) {
	if !u.fifosEnabled {
		u.overrunError = len(u.rxFIFO) > 0 && !u.rbrRead
		if len(u.rxFIFO) == 0 {
			u.rxFIFO = append(u.rxFIFO, c)
		} else {
			u.rxFIFO[0] = c
		}
	} else if len(u.rxFIFO) < u.fifoSize {
		u.rxFIFO = append(u.rxFIFO, c)
	} else {
		// the character in the shift register is lost
		u.overrunError = true
	}

	if u.overrunError {
		logger.Logf(logger.Allow, u.label, "receiver overrun (%02x)", c)
	}

	u.dataReady = true
	u.rbrRead = false
	u.resetCharacterTimeout()
}

// the character timeout indication is set when the receiver FIFO holds data
// that has not been read for four character times.
func (u *UART) resetCharacterTimeout() {
	if u.timeout.Valid() {
		u.svc.UnregisterCallback(u.timeout)
		u.timeout = vm.Handle{}
	}
	u.characterTimeout = false

	if !u.fifosEnabled || u.svc == nil {
		return
	}

	u.timeout = u.svc.RegisterCallback(4*u.characterTime, false, func() {
		u.timeout = vm.Handle{}
		if len(u.rxFIFO) > 0 && u.fifosEnabled {
			u.characterTimeout = true
		}
		u.updateInterrupt()
	})
}
