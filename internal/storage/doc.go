// Package storage keeps the guest payloads of user-defined class instances.
//
// The host only ever sees an opaque token for a payload. The table maps those
// tokens back to Go values:
//
//	table := storage.NewTable()
//
//	// Insert a payload when the host object is created
//	h := table.Insert("Player", payload)
//
//	// Retrieve it when the guest binds the object
//	v, ok := table.Get(h)
//
//	// Remove it when the host frees the object; Dropper payloads are notified
//	v, ok = table.Remove(h)
//
// Handle 0 is reserved and never returned. Handles of removed payloads are
// recycled.
package storage
