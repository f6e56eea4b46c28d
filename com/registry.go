// SPDX-License-Identifier: Unlicense OR MIT

package com

import (
	"fmt"
	"sync"
)

var registry struct {
	mu    sync.RWMutex
	names map[GUID]string
}

// Register records the display name of interface T, as used in error
// messages. Registering a different name for an identity that is already
// known panics.
func Register[T Interface](name string) {
	iid := IIDOf[T]()
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if registry.names == nil {
		registry.names = make(map[GUID]string)
	}
	if old, exists := registry.names[iid]; exists && old != name {
		panic(fmt.Errorf("com: %v registered as both %s and %s", iid, old, name))
	}
	registry.names[iid] = name
}

// NameOf returns the registered name of an interface identity, or its
// string form if it was never registered.
func NameOf(iid GUID) string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	if name, ok := registry.names[iid]; ok {
		return name
	}
	return iid.String()
}
