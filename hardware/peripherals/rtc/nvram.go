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

package rtc

import (
	"fmt"
	"os"

	"github.com/armsim/armsim/curated"
	"github.com/armsim/armsim/logger"
)

// NVRAMFile is the name of the file used to store the RTC's RAM. Use
// resources.JoinPath() to get the full path.
const NVRAMFile = "ds1307"

// size of the general purpose RAM.
const nvramSize = MemorySize - RAM

// sentinal errors.
const (
	BadNVRAMFile = "rtc: nvram file is of incorrect length (%d should be %d)"
)

// LoadNVRAM reads the general purpose RAM from disk. A missing file is not an
// error and leaves the RAM unchanged.
func (rtc *RTC) LoadNVRAM(fn string) error {
	data, err := os.ReadFile(fn)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("rtc: %w", err)
	}

	if len(data) != nvramSize {
		return curated.Errorf(BadNVRAMFile, len(data), nvramSize)
	}

	copy(rtc.mem[RAM:], data)
	logger.Logf(logger.Allow, "DS1307", "nvram loaded from %s", fn)

	return nil
}

// SaveNVRAM writes the general purpose RAM to disk.
func (rtc *RTC) SaveNVRAM(fn string) error {
	f, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("rtc: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Logf(logger.Allow, "DS1307", "could not close nvram file: %v", err)
		}
	}()

	n, err := f.Write(rtc.mem[RAM:])
	if err != nil {
		return fmt.Errorf("rtc: %w", err)
	}
	if n != nvramSize {
		return curated.Errorf(BadNVRAMFile, n, nvramSize)
	}

	logger.Logf(logger.Allow, "DS1307", "nvram saved to %s", fn)

	return nil
}
