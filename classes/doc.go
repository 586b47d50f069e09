// Package classes declares views of the host-native classes.
//
// A view embeds the view of its base class, so a *Node3D exposes the methods
// of Node and Object as well. Views are obtained from a handle with
// obj.Gd.Deref, or embedded in a user class struct to make it extend that
// engine class.
package classes
