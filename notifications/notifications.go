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

package notifications

// Notice is the name of an event raised by a device.
type Notice string

// List of defined notifications.
const (
	// a byte has been transmitted by a UART. args is the byte
	NotifyUARTData Notice = "TL16C750.Data"

	// the watchdog counter reached zero and the board is being reset. args
	// is nil
	NotifyWatchdogReset Notice = "Watchdog.Reset"

	// the battery backed memory of the real time clock was written. args is
	// a copy of the clock's memory
	NotifyRTCDataWrite Notice = "DS1307.DataWrite"

	// the real time clock advanced by one second. args is a copy of the
	// clock's memory
	NotifyRTCTick Notice = "DS1307.Tick"

	// instructions executed by the LCD controller. args is the State
	// type of the lcd package
	NotifyLCDClearDisplay   Notice = "HD44780U.ClearDisplay"
	NotifyLCDReturnHome     Notice = "HD44780U.ReturnHome"
	NotifyLCDEntryModeSet   Notice = "HD44780U.EntryModeSet"
	NotifyLCDDisplayControl Notice = "HD44780U.DisplayControl"
	NotifyLCDDisplayShift   Notice = "HD44780U.DisplayShift"
	NotifyLCDCursorShift    Notice = "HD44780U.CursorShift"
	NotifyLCDFunctionSet    Notice = "HD44780U.FunctionSet"
	NotifyLCDDataWrite      Notice = "HD44780U.DataWrite"

	// the LEDs connected to GPIO port 0 have been switched. args is a slice
	// of LED numbers
	NotifyLEDOn  Notice = "LED.On"
	NotifyLEDOff Notice = "LED.Off"
)

// Subscriber is called when a notice is raised.
type Subscriber func(notice Notice, sender any, args any)

// Notify is implemented by types that deliver notices to subscribers.
type Notify interface {
	RaiseEvent(notice Notice, sender any, args any)
	On(notice Notice, sub Subscriber)
}
