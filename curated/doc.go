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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface and are used throughout armsim
// for errors that the emulation expects to happen: a bad memory address, an
// unaligned program counter, an attempt to enter Thumb state, etc.
//
// Curated errors are created with the Errorf() function. It takes a pattern
// and placeholder values, exactly like fmt.Errorf(), but the pattern is
// remembered so that the kind of error can be identified later with Is():
//
//	const BadAddress = "memory: bad address (%08x)"
//
//	err := curated.Errorf(BadAddress, addr)
//	if curated.Is(err, BadAddress) {
//		// convert to a data abort
//	}
//
// Has() checks if the pattern occurs anywhere in a chain of curated errors.
// A chain is made by using a curated error as one of the values of another:
//
//	f := curated.Errorf("devboard: %v", err)
//	curated.Is(f, BadAddress)  // false
//	curated.Has(f, BadAddress) // true
//
// The Error() string of a curated error is normalised so that adjacent
// duplicate parts of the chain are removed. Parts are separated by the
// sub-string ": ". This means that the following pattern is safe:
//
//	return curated.Errorf("ARM7: %v", err)
//
// even if err already begins with "ARM7: ".
//
// Curated errors also implement Unwrap() so they can be inspected with the
// errors package of the standard library.
package curated
