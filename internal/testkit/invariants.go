// Package testkit holds checks shared by tests across packages.
package testkit

import (
	"fmt"

	"hier/internal/classpool"
	"hier/internal/classpath"
)

// CheckPoolInvariants verifies the cache-level guarantees of p:
// 1) Len agrees with the key snapshot
// 2) every key maps to an entry cached under that key whose Self link resolves to itself
// 3) keys are canonical descriptor spellings
// 4) no two keys share an entry or a runtime object
func CheckPoolInvariants(p *classpool.Pool) error {
	if p == nil {
		return fmt.Errorf("nil pool")
	}
	keys := p.Keys()
	if n := p.Len(); n != len(keys) {
		return fmt.Errorf("len %d disagrees with %d keys", n, len(keys))
	}

	entries := make([]*classpool.Class, 0, len(keys))
	seen := make(map[*classpool.Class]string, len(keys))
	for _, key := range keys {
		c, ok := p.Lookup(key)
		if !ok {
			// concurrent Clear or replace between Keys and Lookup
			return fmt.Errorf("key %s vanished during check", key)
		}
		if c.Key() != key {
			return fmt.Errorf("entry under %s reports key %s", key, c.Key())
		}
		self, err := c.Self()
		if err != nil {
			return fmt.Errorf("entry %s: self link: %w", key, err)
		}
		if self != c {
			return fmt.Errorf("entry %s: self link resolves to a different entry", key)
		}
		if canon := classpool.Key(classpath.ToSource(key)); canon != key {
			return fmt.Errorf("key %s is not canonical (want %s)", key, canon)
		}
		if other, dup := seen[c]; dup {
			return fmt.Errorf("keys %s and %s share one entry", other, key)
		}
		seen[c] = key
		entries = append(entries, c)
	}

	prov := p.Provider()
	for i := range entries {
		for j := i + 1; j < len(entries); j++ {
			same, err := prov.SameIdentity(entries[i].Handle(), entries[j].Handle())
			if err != nil {
				return fmt.Errorf("identity %s vs %s: %w", entries[i].Key(), entries[j].Key(), err)
			}
			if same {
				return fmt.Errorf("keys %s and %s hold the same runtime object", entries[i].Key(), entries[j].Key())
			}
		}
	}
	return nil
}
