package platform

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// ErrUnsupportedPlatform is returned when the host OS is not Windows, macOS
// or Linux.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Family is an operating-system family with its own environment layout.
type Family int

const (
	Windows Family = iota + 1
	MacOS
	Linux
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case Windows:
		return "windows"
	case MacOS:
		return "macos"
	case Linux:
		return "linux"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// IsPOSIX reports whether the family uses POSIX paths.
func (f Family) IsPOSIX() bool {
	return f == MacOS || f == Linux
}

// FamilyFor maps a GOOS value to a Family.
func FamilyFor(goos string) (Family, error) {
	switch goos {
	case "windows":
		return Windows, nil
	case "darwin":
		return MacOS, nil
	case "linux":
		return Linux, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}

var (
	currentOnce   sync.Once
	currentFamily Family
	currentErr    error
)

// Current returns the family of the running OS. It is resolved once per
// process.
func Current() (Family, error) {
	currentOnce.Do(func() {
		currentFamily, currentErr = FamilyFor(runtime.GOOS)
	})
	return currentFamily, currentErr
}

// CurrentLayout returns the environment layout of the running OS.
func CurrentLayout() (Layout, error) {
	f, err := Current()
	if err != nil {
		return Layout{}, err
	}
	return LayoutFor(f)
}
