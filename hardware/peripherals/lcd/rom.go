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

// ROM selects the character generator ROM of the controller.
type ROM int

// List of valid ROM values.
const (
	// japanese standard font
	ROMA00 ROM = iota

	// european standard font
	ROMA02
)

// each string is one row of sixteen characters. character codes 0x00 to 0x0f
// are the user defined characters in CGRAM. they are shown as spaces
var romA00 = [16]string{
	"                ",
	"                ",
	" !\"#$%&'()*+,-./",
	"0123456789:;<=>?",
	"@ABCDEFGHIJKLMNO",
	"PQRSTUVWXYZ[¥]^_",
	"`abcdefghijklmno",
	"pqrstuvwxyz{|}→←",
	"                ",
	"                ",
	" ｡｢｣､･ｦｧｨｩｪｫｬｭｮｯ",
	"ｰｱｲｳｴｵｶｷｸｹｺｻｼｽｾｿ",
	"ﾀﾁﾂﾃﾄﾅﾆﾇﾈﾉﾊﾋﾌﾍﾎﾏ",
	"ﾐﾑﾒﾓﾔﾕﾖﾗﾘﾙﾚﾛﾜﾝﾞﾟ",
	"                ",
	"                ",
}

var romA02 = [16]string{
	"                ",
	"◀▶“”↟↡⚫↵↑↓→←‹›▲▼",
	" !\"#$%&'()*+,-./",
	"0123456789:;<=>?",
	"@ABCDEFGHIJKLMNO",
	"PQRSTUVWXYZ[\\]^_",
	"`abcdefghijklmno",
	"pqrstuvwxyz{|}~.",
	"................",
	"................",
	".¡¢£¤¥¦§¨©ª«¬­®¯",
	"°±²³´µ¶·¸¹º»¼½¾¿",
	"ÀÁÂÃÄÅÆÇÈÉÊËÌÍÎÏ",
	"ÐÑÒÓÔÕÖ×ØÙÚÛÜÝÞß",
	"àáâãäåæçèéêëìíîï",
	"ðñòóôõö÷øùúûüýþÿ",
}

// characters of the ROM indexed by character code.
func (rom ROM) characters() [256]rune {
	src := romA00
	if rom == ROMA02 {
		src = romA02
	}

	var chars [256]rune
	for row, s := range src {
		col := 0
		for _, r := range s {
			chars[row*16+col] = r
			col++
		}
	}
	return chars
}
