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

// Package imageloader is used to specify the executable image that is to be
// loaded into the memory of the development board.
//
// When the image is ready to be loaded, the Load() function should be used.
// The Load() function handles loading of data from different sources.
// Currently local files and data over HTTP are supported.
//
// Two formats are supported: ELF executables for 32 bit little endian ARM,
// and raw binary files. A raw binary is loaded at address zero. Each
// loadable segment of an ELF executable is loaded at its virtual address.
//
// The simplest use of the Loader type:
//
//	ld := imageloader.NewLoader("firmware.elf", "AUTO")
//	err := ld.Load()
//	...
//	images, err := ld.Images()
//
// The images can be given to hardware.NewDevBoard().
package imageloader
