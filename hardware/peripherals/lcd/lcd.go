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

package lcd

import (
	"fmt"
	"strings"

	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/hardware/vm"
	"github.com/armsim/armsim/notifications"
)

// register offsets.
const (
	IOCTL = 0x00
	DB    = 0x04
)

// bits in the IOCTL register.
const (
	RS = 0x01
	RW = 0x02
	E  = 0x04
)

const registerBlockSize = 0x100

// execution times in seconds, for the nominal oscillator frequency.
const (
	longExecution  = 1.52e-3
	shortExecution = 37e-6
)

const (
	ddramSize = 80
	cgramSize = 64
)

// State is the argument of every HD44780U event.
type State struct {
	DDRAM          []uint8
	AddressCounter uint8
	Increment      bool
	ShiftOnWrite   bool
	DisplayEnabled bool
	ShowCursor     bool
	CursorBlink    bool
	TwoLines       bool
	LargeFont      bool

	// number of positions the display has been shifted to the left
	DisplayShift int
}

// LCD is the HD44780U controller.
type LCD struct {
	base uint32

	svc    vm.Service
	region *memory.Region

	rs bool
	rw bool
	e  bool
	db uint8

	busy       bool
	busyHandle vm.Handle

	ddram [ddramSize]uint8
	cgram [cgramSize]uint8

	// address counter and whether it addresses CGRAM or DDRAM
	ac        uint8
	cgContext bool

	increment    bool
	shiftOnWrite bool

	displayOn bool
	cursorOn  bool
	blinkOn   bool

	eightBit  bool
	twoLines  bool
	largeFont bool

	displayShift int

	// 4 bit transfers. half is true after the first nibble has been
	// transferred
	half    bool
	pending uint8

	chars [256]rune
}

// NewLCD is the preferred method of initialisation for the LCD type.
func NewLCD(base uint32, rom ROM) *LCD {
	lcd := &LCD{
		base:      base,
		increment: true,
		eightBit:  true,
		chars:     rom.characters(),
	}
	for i := range lcd.ddram {
		lcd.ddram[i] = ' '
	}
	return lcd
}

func (lcd *LCD) String() string {
	return fmt.Sprintf("HD44780U: AC=%02x busy=%v display=%v", lcd.ac, lcd.busy, lcd.displayOn)
}

// OnRegister implements the vm.Device interface.
func (lcd *LCD) OnRegister(svc vm.Service) bool {
	lcd.svc = svc
	lcd.region = memory.NewRegion(lcd.base, registerBlockSize, lcd.Read, lcd.Write)
	lcd.region.Label = "HD44780U"
	return svc.Map(lcd.region)
}

// OnUnregister implements the vm.Device interface.
func (lcd *LCD) OnUnregister() {
	if lcd.busyHandle.Valid() {
		lcd.svc.UnregisterCallback(lcd.busyHandle)
		lcd.busyHandle = vm.Handle{}
	}
	if lcd.region != nil {
		lcd.svc.Unmap(lcd.region)
		lcd.region = nil
	}
}

// Read implements the vm.Device interface.
func (lcd *LCD) Read(offset uint32, _ memory.DataType) (uint32, error) {
	switch offset {
	case IOCTL:
		var v uint32
		if lcd.rs {
			v |= RS
		}
		if lcd.rw {
			v |= RW
		}
		if lcd.e {
			v |= E
		}
		return v, nil
	case DB:
		return uint32(lcd.db), nil
	}
	return 0, nil
}

// Write implements the vm.Device interface.
func (lcd *LCD) Write(offset uint32, _ memory.DataType, value uint32) error {
	switch offset {
	case IOCTL:
		lcd.rs = value&RS == RS
		lcd.rw = value&RW == RW
		e := value&E == E
		falling := lcd.e && !e
		lcd.e = e
		if falling {
			lcd.strobe()
		}
	case DB:
		lcd.db = uint8(value)
	}
	return nil
}

// strobe performs the operation selected by RS and RW.
func (lcd *LCD) strobe() {
	if lcd.rw {
		if lcd.eightBit {
			lcd.db = lcd.read()
			return
		}

		// the whole byte is read on the first transfer
		if !lcd.half {
			lcd.pending = lcd.read()
			lcd.db = lcd.pending & 0xf0
		} else {
			lcd.db = lcd.pending << 4
		}
		lcd.half = !lcd.half
		return
	}

	v := lcd.db
	if !lcd.eightBit {
		if !lcd.half {
			lcd.pending = v & 0xf0
			lcd.half = true
			return
		}
		v = lcd.pending | v>>4
		lcd.half = false
	}

	if lcd.rs {
		lcd.writeData(v)
	} else {
		lcd.instruction(v)
	}
}

func (lcd *LCD) read() uint8 {
	if !lcd.rs {
		var v uint8
		if lcd.busy {
			v = 0x80
		}
		return v | lcd.ac&0x7f
	}

	var v uint8
	if lcd.cgContext {
		v = lcd.cgram[lcd.ac]
	} else {
		v = lcd.ddram[lcd.ddramIndex(lcd.ac)]
	}
	lcd.stepAddress(lcd.increment)
	lcd.setBusy(shortExecution)
	return v
}

func (lcd *LCD) writeData(v uint8) {
	if lcd.cgContext {
		lcd.cgram[lcd.ac] = v
	} else {
		lcd.ddram[lcd.ddramIndex(lcd.ac)] = v
		if lcd.shiftOnWrite {
			lcd.shift(lcd.increment)
		}
	}
	lcd.stepAddress(lcd.increment)
	lcd.setBusy(shortExecution)
	lcd.raiseEvent(notifications.NotifyLCDDataWrite)
}

// instruction decodes and executes the instruction. the instruction is
// selected by the highest set bit.
func (lcd *LCD) instruction(v uint8) {
	switch {
	case v&0x80 == 0x80:
		lcd.ac = v & 0x7f
		lcd.cgContext = false
		lcd.setBusy(shortExecution)

	case v&0x40 == 0x40:
		lcd.ac = v & 0x3f
		lcd.cgContext = true
		lcd.setBusy(shortExecution)

	case v&0x20 == 0x20:
		lcd.eightBit = v&0x10 == 0x10
		lcd.twoLines = v&0x08 == 0x08
		lcd.largeFont = v&0x04 == 0x04
		lcd.half = false
		lcd.setBusy(shortExecution)
		lcd.raiseEvent(notifications.NotifyLCDFunctionSet)

	case v&0x10 == 0x10:
		right := v&0x04 == 0x04
		if v&0x08 == 0x08 {
			lcd.shift(right)
			lcd.raiseEvent(notifications.NotifyLCDDisplayShift)
		} else {
			lcd.stepAddress(right)
		}
		lcd.setBusy(shortExecution)
		lcd.raiseEvent(notifications.NotifyLCDCursorShift)

	case v&0x08 == 0x08:
		lcd.blinkOn = v&0x01 == 0x01
		lcd.cursorOn = v&0x02 == 0x02
		lcd.displayOn = v&0x04 == 0x04
		lcd.setBusy(shortExecution)
		lcd.raiseEvent(notifications.NotifyLCDDisplayControl)

	case v&0x04 == 0x04:
		lcd.shiftOnWrite = v&0x01 == 0x01
		lcd.increment = v&0x02 == 0x02
		lcd.setBusy(shortExecution)
		lcd.raiseEvent(notifications.NotifyLCDEntryModeSet)

	case v&0x02 == 0x02:
		lcd.ac = 0
		lcd.cgContext = false
		lcd.displayShift = 0
		lcd.setBusy(longExecution)
		lcd.raiseEvent(notifications.NotifyLCDReturnHome)

	case v&0x01 == 0x01:
		for i := range lcd.ddram {
			lcd.ddram[i] = ' '
		}
		lcd.ac = 0
		lcd.cgContext = false
		lcd.increment = true
		lcd.displayShift = 0
		lcd.setBusy(longExecution)
		lcd.raiseEvent(notifications.NotifyLCDClearDisplay)
	}
}

// the number of characters on each line of DDRAM.
func (lcd *LCD) lineLength() int {
	if lcd.twoLines {
		return ddramSize / 2
	}
	return ddramSize
}

// DDRAM addresses of the second line start at 0x40 in two line mode.
func (lcd *LCD) ddramIndex(addr uint8) int {
	if lcd.twoLines {
		if addr >= 0x40 {
			return 40 + int(addr-0x40)%40
		}
		return int(addr) % 40
	}
	return int(addr) % ddramSize
}

// stepAddress moves the address counter by one, wrapping at the end of the
// address range.
func (lcd *LCD) stepAddress(up bool) {
	if lcd.cgContext {
		if up {
			lcd.ac = (lcd.ac + 1) % cgramSize
		} else {
			lcd.ac = (lcd.ac + cgramSize - 1) % cgramSize
		}
		return
	}

	if !lcd.twoLines {
		if up {
			lcd.ac = (lcd.ac + 1) % ddramSize
		} else {
			lcd.ac = (lcd.ac + ddramSize - 1) % ddramSize
		}
		return
	}

	// the two lines are 0x00 to 0x27 and 0x40 to 0x67
	switch {
	case up && lcd.ac == 0x27:
		lcd.ac = 0x40
	case up && lcd.ac >= 0x67:
		lcd.ac = 0x00
	case up:
		lcd.ac++
	case lcd.ac == 0x00:
		lcd.ac = 0x67
	case lcd.ac == 0x40:
		lcd.ac = 0x27
	default:
		lcd.ac--
	}
}

// shift the display one position. shifting right moves the characters to the
// right.
func (lcd *LCD) shift(right bool) {
	n := lcd.lineLength()
	if right {
		lcd.displayShift = (lcd.displayShift + n - 1) % n
	} else {
		lcd.displayShift = (lcd.displayShift + 1) % n
	}
}

func (lcd *LCD) setBusy(t float64) {
	if lcd.busyHandle.Valid() {
		lcd.svc.UnregisterCallback(lcd.busyHandle)
	}
	lcd.busy = true
	lcd.busyHandle = lcd.svc.RegisterCallback(t, false, func() {
		lcd.busy = false
		lcd.busyHandle = vm.Handle{}
	})
}

// Busy returns the state of the busy flag.
func (lcd *LCD) Busy() bool {
	return lcd.busy
}

// State returns a copy of the controller's state.
func (lcd *LCD) State() State {
	s := State{
		DDRAM:          make([]uint8, ddramSize),
		AddressCounter: lcd.ac,
		Increment:      lcd.increment,
		ShiftOnWrite:   lcd.shiftOnWrite,
		DisplayEnabled: lcd.displayOn,
		ShowCursor:     lcd.cursorOn,
		CursorBlink:    lcd.blinkOn,
		TwoLines:       lcd.twoLines,
		LargeFont:      lcd.largeFont,
		DisplayShift:   lcd.displayShift,
	}
	copy(s.DDRAM, lcd.ddram[:])
	return s
}

// Lines returns the visible text of the display, one string per line, for a
// display that is width characters wide. A display that is off returns empty
// lines.
func (lcd *LCD) Lines(width int) []string {
	n := 1
	if lcd.twoLines {
		n = 2
	}

	length := lcd.lineLength()
	if width > length {
		width = length
	}

	lines := make([]string, n)
	if !lcd.displayOn {
		return lines
	}

	for l := range lines {
		var s strings.Builder
		for i := 0; i < width; i++ {
			c := lcd.ddram[l*length+(i+lcd.displayShift)%length]
			s.WriteRune(lcd.chars[c])
		}
		lines[l] = s.String()
	}

	return lines
}

func (lcd *LCD) raiseEvent(notice notifications.Notice) {
	lcd.svc.RaiseEvent(notice, lcd, lcd.State())
}
