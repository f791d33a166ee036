// Package installer copies a source package directory into a site-packages
// directory. A run resolves the source and destination, asks the change
// detector whether the installed copy is stale and, only if it is, removes
// compiled bytecode from the source, deletes the old installed copy and
// copies the source tree in its place.
//
// How failures in the cleanup and copy steps are handled is governed by a
// Policy: BestEffort records them in the Result and carries on, Strict
// stops at the first one and returns it.
package installer
