// Package pathutil provides Path, an immutable filesystem path value with
// the decompositions needed to walk upward from a file toward the
// filesystem root: basename, extension, stem, parent, segments and the
// ancestor chain. Apart from Exists, nothing here touches the filesystem.
package pathutil
