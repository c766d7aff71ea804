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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes and
// allows different flags for each mode.
//
// Arguments are given to the Modes type with NewArgs() and then processed
// with Parse(), which takes no arguments. This allows parsing to happen in
// stages, one stage per mode:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "DISASM", "STEP")
//	p, err := md.Parse()
//
// The first sub-mode in the list is the default mode. After Parse() the
// selected mode is returned by Mode(). Flags for the selected mode are added
// after a call to NewMode() and the arguments are parsed again:
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		cycles := md.AddInt64("cycles", 0, "number of cycles to run for")
//		p, err := md.Parse()
//		...
//		image := md.GetArg(0)
//	}
//
// The Parse() function returns one of ParseContinue, ParseHelp or ParseError.
// Help messages are printed automatically to the Output writer. A ParseHelp
// result should be treated like an error without the need to display
// anything further to the user.
//
// Sub-mode comparisons are case insensitive. Mode() always returns the upper
// case version of the mode name.
package modalflag
