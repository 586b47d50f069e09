// Package extension drives plugin initialization.
//
// The host loads a plugin through a single entry point (EntryPoint). The
// plugin's Library fills an InitHandle with one Layer per initialization
// level; the host then calls back level by level, Core to Editor on startup
// and back down on shutdown, and the matching layers run.
//
//	var Entry = extension.EntryPoint(extension.DefaultLibrary{})
//
// DefaultLibrary registers DefaultLayer at the Scene level, which hands every
// user class declared with obj.Register to the host.
package extension
