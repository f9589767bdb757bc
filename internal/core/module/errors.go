// Package module loads and unloads extension shared objects that
// contribute node classes and type conversions to a factory, via Go's
// plugin package.
package module

import "errors"

var (
	// ErrNotAModule is returned when the metadata file is missing
	// required fields or fails semantic version validation.
	ErrNotAModule = errors.New("module: not a valid flowgraph module")

	// ErrFailedFileLoad is returned when the binary path does not exist
	// or the plugin fails to open.
	ErrFailedFileLoad = errors.New("module: failed to load module binary")

	// ErrRegisterFuncFailed is returned when the binary has no exported
	// RegisterModule symbol, or that symbol has the wrong signature.
	ErrRegisterFuncFailed = errors.New("module: failed to resolve RegisterModule symbol")

	// ErrUnsupportedPlatform is returned by Load on platforms Go's
	// plugin package does not support (everything but linux/amd64 and
	// linux/arm64).
	ErrUnsupportedPlatform = errors.New("module: dynamic loading is not supported on this platform")

	// ErrAlreadyLoaded is returned by Load when called twice on the
	// same Module value.
	ErrAlreadyLoaded = errors.New("module: already loaded")
)
