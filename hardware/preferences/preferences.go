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

package preferences

import (
	"github.com/armsim/armsim/prefs"
	"github.com/armsim/armsim/resources"
)

// Preferences defines and collates all the preference values used by the
// development board.
type Preferences struct {
	dsk *prefs.Disk

	// speed of processor
	Clock prefs.Float // Mhz

	// size of the ROM at address zero and of the RAM at RAMOrigin. sizes in
	// bytes
	ROMSize prefs.Int
	RAMSize prefs.Int

	// the watchdog resets the processor and the devices when it expires.
	// otherwise only the Watchdog.Reset event is raised
	WatchdogReset prefs.Bool

	// the battery backed memory of the RTC is kept in a file between
	// sessions
	PersistentNVRAM prefs.Bool

	// preferences used by the ARM
	ARM *ARMPreferences
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the default preferences file.
func NewPreferences() (*Preferences, error) {
	pth, err := resources.JoinPath(prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return NewPreferencesFromFile(pth)
}

// NewPreferencesFromFile is like NewPreferences() but with a specific
// preferences file.
func NewPreferencesFromFile(pth string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	var err error

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.devboard.clock", &p.Clock)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.devboard.romSize", &p.ROMSize)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.devboard.ramSize", &p.RAMSize)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.devboard.watchdogReset", &p.WatchdogReset)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.devboard.persistentNVRAM", &p.PersistentNVRAM)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	p.ARM, err = newARMPreferences(pth)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	p.Clock.Set(6.9824)
	p.ROMSize.Set(0x4000)
	p.RAMSize.Set(0x8000)
	p.WatchdogReset.Set(true)
	p.PersistentNVRAM.Set(false)
	if p.ARM != nil {
		p.ARM.SetDefaults()
	}
}

// ClockRate returns the clock preference in Hz.
func (p *Preferences) ClockRate() float64 {
	return p.Clock.Get().(float64) * 1000000
}

// Load current hardware preference from disk.
func (p *Preferences) Load() error {
	if err := p.dsk.Load(); err != nil {
		return err
	}
	return p.ARM.Load()
}

// Save current hardware preferences to disk.
func (p *Preferences) Save() error {
	if err := p.dsk.Save(); err != nil {
		return err
	}
	return p.ARM.Save()
}
