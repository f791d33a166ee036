// Package changes decides whether an installed package directory is out of
// date with respect to its source. It walks the source tree, maps each file
// onto the destination and compares SHA-256 checksums. The comparison is
// one-directional: files that exist only at the destination are never
// inspected.
package changes
