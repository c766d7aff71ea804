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

package vm

import (
	"container/heap"
	"math"
)

// callback is an entry in the callback queue.
type callback struct {
	due      float64
	timespan float64
	periodic bool
	handler  func()

	// cancelled callbacks are not run and are removed from the queue when
	// they reach the front of it
	cancelled bool

	// one shot callbacks are done once they have been run
	done bool

	// registration order. used to order callbacks with the same due time
	seq uint64
}

// Handle identifies a registered callback. The zero value is not a valid
// handle.
type Handle struct {
	cb *callback
}

// Valid returns true if the handle was returned by RegisterCallback().
func (h Handle) Valid() bool {
	return h.cb != nil
}

// callbackQueue implements heap.Interface.
type callbackQueue []*callback

func (q callbackQueue) Len() int {
	return len(q)
}

func (q callbackQueue) Less(i, j int) bool {
	if q[i].due == q[j].due {
		return q[i].seq < q[j].seq
	}
	return q[i].due < q[j].due
}

func (q callbackQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *callbackQueue) Push(x any) {
	*q = append(*q, x.(*callback))
}

func (q *callbackQueue) Pop() any {
	old := *q
	n := len(old)
	cb := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return cb
}

// peek returns the callback at the front of the queue without removing it.
func (q callbackQueue) peek() *callback {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}

// RegisterCallback schedules the handler to be run after timeout simulated
// seconds. A periodic callback is run every timeout seconds until it is
// unregistered.
func (vm *VM) RegisterCallback(timeout float64, periodic bool, handler func()) Handle {
	cb := &callback{
		due:      vm.TickCount() + timeout,
		timespan: timeout,
		periodic: periodic,
		handler:  handler,
	}
	vm.push(cb)
	return Handle{cb: cb}
}

func (vm *VM) push(cb *callback) {
	cb.seq = vm.seq
	vm.seq++
	heap.Push(&vm.callbacks, cb)
}

// UnregisterCallback cancels the callback. The handler will not be run again
// even if it is already due. Returns false if the handle is not valid or if
// the callback has already been cancelled or run.
func (vm *VM) UnregisterCallback(h Handle) bool {
	if h.cb == nil || h.cb.cancelled || h.cb.done {
		return false
	}
	h.cb.cancelled = true
	return true
}

// drainCallbacks runs every callback that is due at the current tick count.
func (vm *VM) drainCallbacks() {
	now := vm.TickCount()

	var periodic []*callback

	for cb := vm.callbacks.peek(); cb != nil && cb.due <= now; cb = vm.callbacks.peek() {
		heap.Pop(&vm.callbacks)

		if cb.cancelled {
			continue
		}

		cb.handler()

		// the handler may have cancelled its own callback
		if cb.periodic && !cb.cancelled {
			periodic = append(periodic, cb)
		} else {
			cb.done = true
		}
	}

	// periodic callbacks are rescheduled from the time they were due so that
	// the period does not drift with the size of the Run() budget. periods
	// that have been missed entirely are skipped rather than run in a burst
	for _, cb := range periodic {
		if cb.timespan > 0 {
			cb.due += (math.Floor((now-cb.due)/cb.timespan) + 1) * cb.timespan
		} else {
			cb.due = now
		}
		vm.push(cb)
	}
}
