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

// Package resources contains functions to prepare paths for armsim resources,
// the preferences file being the most important.
//
// The JoinPath() function returns the correct path to the resource
// directory/file specified in the arguments. It creates directories as
// required but does not otherwise touch or create files.
//
// For builds with the "release" build tag, the base path is rooted in the
// user's configuration directory. On Linux systems the full path would be
// something like:
//
//	/home/user/.config/armsim/
//
// For non-release builds the base path is in the current working directory:
//
//	.armsim
package resources
