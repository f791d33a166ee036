// Package venv decides where a package should be installed. It recognizes
// Python virtual environment roots by their marker files, finds the
// innermost environment enclosing a file, and resolves the site-packages
// directory of that environment or, failing that, of the system
// interpreter.
package venv
