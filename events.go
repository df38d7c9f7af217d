// Copyright (c) 2024-2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package walletprovider

import "sync"

// Event names an observable provider-side occurrence.
type Event string

// EventAccountChanged fires when the provider's active receiving address
// changes, e.g. because a fresh one was derived.  The callback payload is the
// new btcutil.Address.
const EventAccountChanged Event = "accountChanged"

// EventCallback receives the event payload.  The concrete payload type is
// documented per event.
type EventCallback func(payload interface{})

// EventRegistry is a minimal listener registry providers can embed to satisfy
// the On contract method.  The zero value is ready for use.  Registration for
// event names a provider never emits is a deliberate no-op rather than an
// error, so callers can subscribe uniformly across backends.
type EventRegistry struct {
	mtx      sync.Mutex
	handlers map[Event][]EventCallback
}

// On registers cb for the named event.
func (r *EventRegistry) On(event Event, cb EventCallback) {
	if cb == nil {
		return
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.handlers == nil {
		r.handlers = make(map[Event][]EventCallback)
	}
	r.handlers[event] = append(r.handlers[event], cb)
}

// Notify invokes, in registration order, every callback registered for the
// named event.  Callbacks run on the caller's goroutine.
func (r *EventRegistry) Notify(event Event, payload interface{}) {
	r.mtx.Lock()
	cbs := make([]EventCallback, len(r.handlers[event]))
	copy(cbs, r.handlers[event])
	r.mtx.Unlock()

	for _, cb := range cbs {
		cb(payload)
	}
}
