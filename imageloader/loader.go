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
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/armsim/armsim/curated"
	"github.com/armsim/armsim/hardware/memory"
)

// Sentinal errors.
const (
	LoaderError      = "imageloader: %v"
	UnsupportedImage = "imageloader: unsupported image (%s)"
	UnexpectedHash   = "imageloader: unexpected hash value (%s)"
)

// list of formats.
const (
	FormatAuto   = "AUTO"
	FormatELF    = "ELF"
	FormatBinary = "BIN"
)

// FileExtensions is the list of file extensions that are recognised by the
// imageloader package.
var FileExtensions = [...]string{".ELF", ".AXF", ".OUT", ".BIN", ".ROM"}

// Loader is used to specify the executable image to load into the board.
type Loader struct {
	// filename of the image to load
	Filename string

	// one of the Format* values. FormatAuto indicates that the format is
	// decided from the content of the file
	Format string

	// expected hash of the loaded data. empty string indicates that the hash
	// is unknown and need not be validated. after a load operation the value
	// will be the hash of the loaded data
	Hash string

	// copy of the loaded data
	Data []byte
}

// NewLoader is the preferred method of initialisation for the Loader type.
//
// The format argument will be used to set the Format field, unless the
// argument is either "AUTO" or the empty string. In which case the file
// extension is used to set the field. Files with an unrecognised extension
// are fingerprinted when the images are requested.
func NewLoader(filename string, format string) Loader {
	ld := Loader{
		Filename: filename,
		Format:   FormatAuto,
	}

	format = strings.TrimSpace(strings.ToUpper(format))
	if format != FormatAuto && format != "" {
		ld.Format = format
		return ld
	}

	switch strings.ToUpper(path.Ext(filename)) {
	case ".ELF", ".AXF", ".OUT":
		ld.Format = FormatELF
	case ".BIN", ".ROM":
		ld.Format = FormatBinary
	}

	return ld
}

// ShortName returns a shortened version of the filename.
func (ld Loader) ShortName() string {
	n := path.Base(ld.Filename)
	return strings.TrimSuffix(n, path.Ext(ld.Filename))
}

// HasLoaded returns true if Load() has been successfully called.
func (ld Loader) HasLoaded() bool {
	return len(ld.Data) > 0
}

// Load the image data. Filenames with a valid scheme will use that method to
// load the data. Currently supported schemes are HTTP and local files.
func (ld *Loader) Load() error {
	if len(ld.Data) > 0 {
		return nil
	}

	scheme := "file"

	u, err := url.Parse(ld.Filename)
	if err == nil {
		scheme = u.Scheme
	}

	switch scheme {
	case "http", "https":
		resp, err := http.Get(ld.Filename)
		if err != nil {
			return curated.Errorf(LoaderError, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return curated.Errorf(LoaderError, resp.Status)
		}

		ld.Data, err = io.ReadAll(resp.Body)
		if err != nil {
			return curated.Errorf(LoaderError, err)
		}

	case "file", "":
		ld.Data, err = os.ReadFile(ld.Filename)
		if err != nil {
			return curated.Errorf(LoaderError, err)
		}

	default:
		return curated.Errorf(LoaderError, fmt.Sprintf("unsupported URL scheme (%s)", scheme))
	}

	hash := fmt.Sprintf("%x", sha1.Sum(ld.Data))
	if ld.Hash != "" && ld.Hash != hash {
		return curated.Errorf(UnexpectedHash, hash)
	}
	ld.Hash = hash

	return nil
}

// Images returns the loaded data as a list of memory images. The offset of
// each image is the address at which it should be loaded.
func (ld Loader) Images() ([]memory.Image, error) {
	if !ld.HasLoaded() {
		return nil, curated.Errorf(LoaderError, "nothing loaded")
	}

	format := ld.Format
	if format == FormatAuto {
		format = FormatBinary
		if bytes.HasPrefix(ld.Data, []byte(elfMagic)) {
			format = FormatELF
		}
	}

	switch format {
	case FormatELF:
		return elfImages(ld.Data)
	case FormatBinary:
		return []memory.Image{{Offset: 0, Data: ld.Data}}, nil
	}

	return nil, curated.Errorf(UnsupportedImage, format)
}
