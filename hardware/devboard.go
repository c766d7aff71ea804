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

package hardware

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/armsim/armsim/curated"
	"github.com/armsim/armsim/hardware/arm"
	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/hardware/peripherals/gpio"
	"github.com/armsim/armsim/hardware/peripherals/lcd"
	"github.com/armsim/armsim/hardware/peripherals/pic"
	"github.com/armsim/armsim/hardware/peripherals/rtc"
	"github.com/armsim/armsim/hardware/peripherals/timer"
	"github.com/armsim/armsim/hardware/peripherals/uart"
	"github.com/armsim/armsim/hardware/peripherals/watchdog"
	"github.com/armsim/armsim/hardware/preferences"
	"github.com/armsim/armsim/hardware/vm"
	"github.com/armsim/armsim/logger"
	"github.com/armsim/armsim/notifications"
	"github.com/armsim/armsim/resources"
	"github.com/bradleyjkemp/memviz"
)

// the origin of the two memory areas of the board. the sizes are set by the
// preferences.
const (
	ROMOrigin = 0x00000000
	RAMOrigin = 0x00040000
)

// memory map of the board's devices.
const (
	UART0Base    = 0xe0000000
	UART1Base    = 0xe0004000
	LCDBase      = 0xe0008000
	PICBase      = 0xe0010000
	Timer0Base   = 0xe0014000
	Timer1Base   = 0xe0018000
	GPIOBase     = 0xe001c000
	RTCBase      = 0xe0020000
	WatchdogBase = 0xe0024000
)

// interrupt sources of the PIC.
const (
	InterruptUART0 = iota
	InterruptUART1
	InterruptTimer0
	InterruptTimer1
)

// NumButtons is the number of push buttons on the board. The buttons are
// connected to pins P1.4 to P1.7 of the GPIO.
const NumButtons = 4

// NumLEDs is the number of LEDs on the board. The LEDs are connected to pins
// P0.0 to P0.9 of the GPIO.
const NumLEDs = 10

const (
	gpioPorts    = 2
	buttonOffset = 4
)

// Quantum is the number of cycles the processor runs before the devices are
// serviced, when running with RunFor() or RunUntil().
const Quantum = 100

// Sentinal errors.
const (
	NoSuchUART         = "devboard: no such UART (%d)"
	NoSuchButton       = "devboard: no such button (%d)"
	DeviceRegistration = "devboard: device registration failed (%v)"
)

// the events raised by the devices that are delegated to the board's
// subscribers.
var delegatedEvents = []notifications.Notice{
	notifications.NotifyUARTData,
	notifications.NotifyWatchdogReset,
	notifications.NotifyRTCDataWrite,
	notifications.NotifyRTCTick,
	notifications.NotifyLCDClearDisplay,
	notifications.NotifyLCDReturnHome,
	notifications.NotifyLCDEntryModeSet,
	notifications.NotifyLCDDisplayControl,
	notifications.NotifyLCDDisplayShift,
	notifications.NotifyLCDCursorShift,
	notifications.NotifyLCDFunctionSet,
	notifications.NotifyLCDDataWrite,
}

// DevBoard is the ARM development board. It is the root of the emulation.
//
// The VM and the devices are recreated when the board is reset. References to
// them should not be kept across a call to Reset(). The RTC is the exception
// and survives a reset, as does the state of the push buttons and the
// subscribers to the board's events.
type DevBoard struct {
	Prefs *preferences.Preferences

	VM *vm.VM

	ROM *memory.Region
	RAM *memory.Region

	UART0    *uart.UART
	UART1    *uart.UART
	LCD      *lcd.LCD
	PIC      *pic.PIC
	Timer0   *timer.Timer
	Timer1   *timer.Timer
	GPIO     *gpio.GPIO
	RTC      *rtc.RTC
	Watchdog *watchdog.Watchdog

	// the executable image. each image's offset is an address
	images []memory.Image

	buttons [NumButtons]bool

	subscribers map[notifications.Notice][]notifications.Subscriber

	// the watchdog has requested a reset. the reset happens once control has
	// returned from the VM
	resetPending bool
}

// NewDevBoard is the preferred method of initialisation for the DevBoard
// type. The offset of each image is the address at which it is loaded.
// Images below RAMOrigin are loaded into ROM and the rest into RAM.
//
// The prefs argument can be nil, in which case the preferences are loaded
// from the default preferences file.
func NewDevBoard(prefs *preferences.Preferences, images []memory.Image) (*DevBoard, error) {
	if prefs == nil {
		var err error
		prefs, err = preferences.NewPreferences()
		if err != nil {
			return nil, err
		}
	}

	brd := &DevBoard{
		Prefs:       prefs,
		images:      images,
		subscribers: make(map[notifications.Notice][]notifications.Subscriber),
	}

	brd.RTC = rtc.NewRTC(RTCBase, time.Now())
	if brd.Prefs.PersistentNVRAM.Get().(bool) {
		fn, err := resources.JoinPath(rtc.NVRAMFile)
		if err != nil {
			return nil, err
		}
		if err := brd.RTC.LoadNVRAM(fn); err != nil {
			return nil, err
		}
	}

	if err := brd.initialise(); err != nil {
		return nil, err
	}

	return brd, nil
}

func (brd *DevBoard) String() string {
	s := strings.Builder{}
	s.WriteString(brd.VM.String())
	for _, dev := range brd.VM.Devices() {
		s.WriteString(fmt.Sprintf("\n%v", dev))
	}
	return s.String()
}

// initialise creates the memory, the VM and the devices.
func (brd *DevBoard) initialise() error {
	brd.ROM = memory.NewRegion(ROMOrigin, uint32(brd.Prefs.ROMSize.Get().(int)), nil, memory.NoWrite)
	brd.ROM.Label = "ROM"
	brd.RAM = memory.NewRegion(RAMOrigin, uint32(brd.Prefs.RAMSize.Get().(int)), nil, nil)
	brd.RAM.Label = "RAM"

	for _, img := range brd.images {
		var err error
		if img.Offset < RAMOrigin {
			err = brd.ROM.Seed(img)
		} else {
			err = brd.RAM.Seed(memory.Image{Offset: img.Offset - RAMOrigin, Data: img.Data})
		}
		if err != nil {
			return err
		}
	}

	var err error
	brd.VM, err = vm.NewVM(brd.Prefs.ClockRate(), brd.Prefs.ARM, brd.ROM, brd.RAM)
	if err != nil {
		return err
	}

	brd.PIC = pic.NewPIC(PICBase, brd.VM.ARM.SetIRQ, brd.VM.ARM.SetFIQ)
	brd.UART0 = uart.NewUART("UART0", UART0Base, brd.interruptLine(InterruptUART0))
	brd.UART1 = uart.NewUART("UART1", UART1Base, brd.interruptLine(InterruptUART1))
	brd.LCD = lcd.NewLCD(LCDBase, lcd.ROMA00)
	brd.Timer0 = timer.NewTimer("TIMER0", Timer0Base, brd.interruptLine(InterruptTimer0))
	brd.Timer1 = timer.NewTimer("TIMER1", Timer1Base, brd.interruptLine(InterruptTimer1))
	brd.GPIO = gpio.NewGPIO(GPIOBase, gpioPorts, brd.gpioRead, brd.gpioWrite)
	brd.Watchdog = watchdog.NewWatchdog(WatchdogBase, watchdog.DefaultOscillator)

	devices := []vm.Device{
		brd.PIC, brd.UART0, brd.UART1, brd.LCD, brd.Timer0, brd.Timer1,
		brd.GPIO, brd.RTC, brd.Watchdog,
	}
	for _, dev := range devices {
		if !brd.VM.RegisterDevice(dev) {
			return curated.Errorf(DeviceRegistration, dev)
		}
	}

	for _, notice := range delegatedEvents {
		brd.VM.On(notice, brd.RaiseEvent)
	}

	brd.VM.On(notifications.NotifyWatchdogReset, func(_ notifications.Notice, _ any, _ any) {
		if brd.Prefs.WatchdogReset.Get().(bool) {
			brd.resetPending = true
		}
	})

	logger.Logf(logger.Allow, "devboard", "ROM %d bytes, RAM %d bytes", brd.ROM.Size, brd.RAM.Size)

	return nil
}

func (brd *DevBoard) interruptLine(source int) func(bool) {
	return func(active bool) {
		brd.PIC.SetSignal(source, active)
	}
}

// Reset the board to the state after power up. The images are reloaded and
// the processor starts again from the reset vector.
func (brd *DevBoard) Reset() error {
	brd.resetPending = false

	// unregister the devices so that callbacks from the old VM are removed
	// and the RTC can be registered again
	devices := make([]vm.Device, len(brd.VM.Devices()))
	copy(devices, brd.VM.Devices())
	for _, dev := range devices {
		brd.VM.UnregisterDevice(dev)
	}

	logger.Log(logger.Allow, "devboard", "reset")

	return brd.initialise()
}

// CleanUp should be called when the board is no longer required.
func (brd *DevBoard) CleanUp() error {
	if brd.Prefs.PersistentNVRAM.Get().(bool) {
		fn, err := resources.JoinPath(rtc.NVRAMFile)
		if err != nil {
			return err
		}
		return brd.RTC.SaveNVRAM(fn)
	}
	return nil
}

// On adds a subscriber to events raised by the board. The board's
// subscribers are kept when the board is reset.
func (brd *DevBoard) On(notice notifications.Notice, sub notifications.Subscriber) {
	brd.subscribers[notice] = append(brd.subscribers[notice], sub)
}

// RaiseEvent calls every subscriber of the notice.
func (brd *DevBoard) RaiseEvent(notice notifications.Notice, sender any, args any) {
	for _, sub := range brd.subscribers[notice] {
		sub(notice, sender, args)
	}
}

// SerialInput simulates the arrival of a character on the serial input of
// the UART.
func (brd *DevBoard) SerialInput(n int, c uint8) error {
	switch n {
	case 0:
		brd.UART0.SerialInput(c)
	case 1:
		brd.UART1.SerialInput(c)
	default:
		return curated.Errorf(NoSuchUART, n)
	}
	return nil
}

// PushButton pushes the numbered push button. The button stays pushed until
// it is released.
func (brd *DevBoard) PushButton(button int) error {
	if button < 0 || button >= NumButtons {
		return curated.Errorf(NoSuchButton, button)
	}
	brd.buttons[button] = true
	return nil
}

// ReleaseButton releases the numbered push button.
func (brd *DevBoard) ReleaseButton(button int) error {
	if button < 0 || button >= NumButtons {
		return curated.Errorf(NoSuchButton, button)
	}
	brd.buttons[button] = false
	return nil
}

// port 1 of the GPIO reads the push buttons.
func (brd *DevBoard) gpioRead(port int) uint32 {
	if port != 1 {
		return 0
	}
	var v uint32
	for i, pushed := range brd.buttons {
		if pushed {
			v |= 1 << (i + buttonOffset)
		}
	}
	return v
}

// port 0 of the GPIO drives the LEDs. the LED.On event lists the LEDs for
// which the value has a set bit and the LED.Off event lists the others.
func (brd *DevBoard) gpioWrite(port int, value uint32, set bool, clear bool, _ uint32) {
	if port != 0 {
		return
	}

	var on, off []int
	for i := 0; i < NumLEDs; i++ {
		if value&(1<<i) == 1<<i {
			on = append(on, i)
		} else {
			off = append(off, i)
		}
	}

	if set {
		brd.RaiseEvent(notifications.NotifyLEDOn, brd, on)
	}
	if clear {
		brd.RaiseEvent(notifications.NotifyLEDOff, brd, off)
	}
}

// Run the board for the number of cycles in the budget. The devices are only
// serviced at the end of the budget so the budget should be small. Returns
// the difference between the budget and the number of cycles used. See
// vm.Run() for details.
func (brd *DevBoard) Run(budget int) (int, error) {
	left, err := brd.VM.Run(budget)
	if err != nil {
		return left, err
	}
	return left, brd.checkReset()
}

// Step executes a single instruction. Returns the number of cycles used by
// the instruction.
func (brd *DevBoard) Step() (int, error) {
	n, err := brd.VM.Step()
	if err != nil {
		return n, err
	}
	return n, brd.checkReset()
}

func (brd *DevBoard) checkReset() error {
	if brd.resetPending {
		return brd.Reset()
	}
	return nil
}

// RunFor runs the board for the duration of simulated time.
func (brd *DevBoard) RunFor(d time.Duration) error {
	total := int64(d.Seconds() * brd.VM.ClockRate())

	var used int64
	for used < total {
		budget := Quantum
		if total-used < Quantum {
			budget = int(total - used)
		}
		left, err := brd.Run(budget)
		if err != nil {
			return err
		}
		used += int64(budget - left)
	}

	return nil
}

// RunUntil sets the board running as quickly as possible. The continueCheck
// function is called after every quantum and should return false when the
// emulation should stop.
func (brd *DevBoard) RunUntil(continueCheck func() (bool, error)) error {
	if continueCheck == nil {
		continueCheck = func() (bool, error) { return true, nil }
	}

	for {
		if _, err := brd.Run(Quantum); err != nil {
			return err
		}
		cont, err := continueCheck()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}

// the state of the board that is written by Memviz().
type boardState struct {
	Cycles    int64
	Registers [arm.NumRegisters]uint32
	CPSR      string
	SPSR      uint32
	Regions   []string
	Devices   []string
	Buttons   [NumButtons]bool
}

// Memviz writes the state of the board to w as a graphviz graph.
func (brd *DevBoard) Memviz(w io.Writer) {
	st := &boardState{
		Cycles:    brd.VM.Cycles(),
		Registers: brd.VM.ARM.Registers(),
		CPSR:      brd.VM.ARM.CPSR().String(),
		Buttons:   brd.buttons,
	}
	st.SPSR, _ = brd.VM.ARM.SPSR()
	for _, r := range brd.VM.Mem.Regions() {
		st.Regions = append(st.Regions, r.String())
	}
	for _, dev := range brd.VM.Devices() {
		st.Devices = append(st.Devices, fmt.Sprintf("%v", dev))
	}
	memviz.Map(w, st)
}
