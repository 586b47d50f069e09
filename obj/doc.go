// Package obj implements class identity and the typed object handle Gd.
//
// Every class that can be referenced through a handle has a ClassInfo: engine
// classes are declared by view types that embed RawObject (see package
// classes), user classes are plain Go structs registered with Register. The
// hierarchy is single-rooted and single-inheritance; a user class extends the
// engine class its struct embeds, or RefCounted when it embeds none.
//
// Handles do not cache liveness. Every operation that needs a live object asks
// the host, so objects destroyed behind the binding's back are detected on the
// next use.
//
// Contract violations (double free, freeing a reference-counted object, an
// unchecked cast to an incompatible class, using a dead object) are fatal: they
// are logged, reported to the host through PrintError and then raised as a
// panic carrying an *errors.Error.
package obj
