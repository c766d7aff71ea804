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

// Package notifications lists the events raised by the devices of the board.
//
// Events are delivered synchronously by the virtual machine to every
// subscriber of the event, in the order the subscribers were added. The
// sender of an event is the device that raised it. The type of the
// arguments depends on the event and is documented alongside the event.
package notifications
