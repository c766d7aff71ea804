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

package imageloader

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/armsim/armsim/curated"
	"github.com/armsim/armsim/hardware/memory"
	"github.com/armsim/armsim/logger"
)

const elfMagic = elf.ELFMAG

// elfImages returns an image for every loadable segment in the ELF data.
// Bytes that are in memory but not in the file are zero.
func elfImages(data []byte) ([]memory.Image, error) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, curated.Errorf(UnsupportedImage, err)
	}
	defer f.Close()

	// sanity checks on ELF data
	if f.Class != elf.ELFCLASS32 {
		return nil, curated.Errorf(UnsupportedImage, "ELF is not 32 bit")
	}
	if f.Machine != elf.EM_ARM {
		return nil, curated.Errorf(UnsupportedImage, "ELF is not ARM")
	}
	if f.ByteOrder != binary.LittleEndian {
		return nil, curated.Errorf(UnsupportedImage, "ELF is not little-endian")
	}
	if f.Type != elf.ET_EXEC {
		return nil, curated.Errorf(UnsupportedImage, fmt.Sprintf("ELF is not executable (%v)", f.Type))
	}

	var images []memory.Image

	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD || p.Memsz == 0 {
			continue
		}

		if p.Filesz > p.Memsz {
			return nil, curated.Errorf(UnsupportedImage, "ELF segment is larger in the file than in memory")
		}

		b := make([]byte, p.Memsz)
		if _, err := io.ReadFull(p.Open(), b[:p.Filesz]); err != nil {
			return nil, curated.Errorf(UnsupportedImage, err)
		}

		images = append(images, memory.Image{Offset: uint32(p.Vaddr), Data: b})
		logger.Logf(logger.Allow, "imageloader", "segment %08x (%d bytes)", p.Vaddr, p.Memsz)
	}

	if len(images) == 0 {
		return nil, curated.Errorf(UnsupportedImage, "ELF has no loadable segments")
	}

	return images, nil
}
