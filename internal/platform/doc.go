// Package platform selects the operating-system family the CLI runs on and
// the fixed layout of a Python virtual environment for that family: where
// the activation script, interpreter and pip live, and where installed
// packages go. It also wraps permission changes that only make sense on
// Unix-like systems.
package platform
