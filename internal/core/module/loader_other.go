//go:build !linux

package module

// openPlugin reports ErrUnsupportedPlatform: Go's plugin package only
// builds on Linux, so extension modules cannot load on other
// platforms.
func openPlugin(path string) (register RegisterFunc, unregister RegisterFunc, err error) {
	return nil, nil, ErrUnsupportedPlatform
}
