// Package manifest handles the optional ezinstall.yaml descriptor that may
// sit at the root of a package directory. The descriptor can rename the
// installed directory, exclude extra paths from comparison and copying, and
// constrain the interpreter version. Descriptors are validated against an
// embedded JSON Schema before use.
package manifest
