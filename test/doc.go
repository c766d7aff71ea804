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

// Package test contains helper functions to remove common boilerplate from
// the package tests.
//
// The Expect*() functions report a failure but allow the test to continue.
// The Demand*() functions stop the test immediately. Demand is useful when
// the value being tested is used in later tests and so must be correct, for
// example the length of a slice before iterating over it.
//
// ExpectSuccess() and ExpectFailure() test for success and failure under
// generic conditions. Currently supported types are bool and error. A nil
// value is considered a success because of how errors usually work.
//
// The CompareWriter type implements the io.Writer interface and should be
// used to capture output. The Compare() function can then be used to test
// for equality.
package test
