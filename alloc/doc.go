// Package alloc provides the roster store and the batch allocation engine.
//
// # Reading Guide
//
// Start with these three files:
//   - store.go: the Store, its limits, and the add/update/delete operations
//   - ordering.go: the named ordering strategies (score, name, key, random)
//   - allocator.go: reset-then-place round-robin allocation with fail-stop
//
// # Architecture
//
// The alloc package holds the data model and engine; collaborators live in
// sub-packages:
//   - alloc/roster/: CSV roster codec over afs storage URLs
//   - alloc/sheet/: spreadsheet import and allocation export
//   - alloc/trace/: placement decision records
//
// A Store is constructed explicitly and passed to every operation; nothing in
// this package keeps global state. All operations are synchronous and the
// Store is meant for a single goroutine.
//
// # Invariants
//
//   - student keys are unique
//   - a student assigned in this session is listed in exactly that batch
//   - a batch never holds more members than its capacity
//   - deleting a student removes it from its batch in the same call
//
// Students restored from a roster file keep their persisted batch index
// without batch membership until the next allocation run.
package alloc
