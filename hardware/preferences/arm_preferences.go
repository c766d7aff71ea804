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
)

// ARMPreferences are the preferences for the processor.
type ARMPreferences struct {
	dsk *prefs.Disk

	// log data accesses that result in a data abort
	LogMemoryFaults prefs.Bool

	// a data access to an unmapped address stops the emulation with an
	// error rather than raising the data abort exception in the guest
	AbortOnMemoryFault prefs.Bool

	// the reserved condition code is never executed. log every occurence
	LogReservedCondition prefs.Bool
}

func (p *ARMPreferences) String() string {
	return p.dsk.String()
}

func newARMPreferences(pth string) (*ARMPreferences, error) {
	p := &ARMPreferences{}
	p.SetDefaults()

	var err error

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.arm7.logMemoryFaults", &p.LogMemoryFaults)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.arm7.abortOnMemoryFault", &p.AbortOnMemoryFault)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.arm7.logReservedCondition", &p.LogReservedCondition)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *ARMPreferences) SetDefaults() {
	p.LogMemoryFaults.Set(true)
	p.AbortOnMemoryFault.Set(false)
	p.LogReservedCondition.Set(true)
}

// Load current arm preference from disk.
func (p *ARMPreferences) Load() error {
	return p.dsk.Load()
}

// Save current arm preferences to disk.
func (p *ARMPreferences) Save() error {
	return p.dsk.Save()
}
