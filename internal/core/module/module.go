package module

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/flowgraph/flowgraph/internal/core/factory"
	"github.com/flowgraph/flowgraph/internal/platform/logging"
	"github.com/flowgraph/flowgraph/internal/platform/metrics"
)

// BinaryExtension is the platform's shared-library suffix a module's
// compiled binary must carry.
const BinaryExtension = ".so"

// registerSymbol and unregisterSymbol are the exported plugin symbols
// a module binary must provide.
const (
	registerSymbol   = "RegisterModule"
	unregisterSymbol = "UnregisterModule"
)

// RegisterFunc is the signature every module binary's RegisterModule
// and UnregisterModule symbols must satisfy.
type RegisterFunc func(f *factory.Factory)

// Module is a loaded (or loadable) extension: a metadata manifest plus
// the platform handle used to unload it.
type Module struct {
	Meta Metadata
	Path string

	mu       sync.Mutex
	loaded   bool
	unregFn  RegisterFunc
	factory  *factory.Factory
}

// New constructs an unloaded module bound to a manifest path and the
// factory it will register classes into.
func New(manifestPath string, f *factory.Factory) *Module {
	return &Module{Path: manifestPath, factory: f}
}

// Load resolves the manifest, extracts the archive if the given path
// is a zip package rather than a directory, locates the platform
// binary under <package dir>/<GOOS>/<GOARCH>, and invokes its
// RegisterModule symbol.
//
// Load is idempotent per Module value: calling it twice returns
// ErrAlreadyLoaded.
func (m *Module) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded {
		return ErrAlreadyLoaded
	}

	dir, manifestPath, err := resolvePackage(m.Path)
	if err != nil {
		return err
	}

	meta, err := LoadMetadata(manifestPath)
	if err != nil {
		return err
	}
	m.Meta = meta

	binaryPath, err := findBinary(dir, meta.Name)
	if err != nil {
		return err
	}

	registerFn, unregisterFn, err := openPlugin(binaryPath)
	if err != nil {
		return err
	}

	registerFn(m.factory)
	m.unregFn = unregisterFn
	m.loaded = true

	logging.Info("module loaded", "name", meta.Name, "version", meta.Version, "path", binaryPath)
	metrics.IncModuleLoaded()
	return nil
}

// Unload invokes the module's UnregisterModule symbol, removing every
// class and conversion it contributed. Safe to call on an unloaded
// module (no-op).
func (m *Module) Unload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return
	}
	if m.unregFn != nil {
		m.unregFn(m.factory)
	}
	m.loaded = false
	logging.Info("module unloaded", "name", m.Meta.Name)
	metrics.IncModuleUnloaded()
}

// IsLoaded reports whether the module is currently registered.
func (m *Module) IsLoaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// resolvePackage returns the directory containing the module's
// manifest and binary, extracting a zip archive to a temp directory
// first if path points at one.
func resolvePackage(path string) (dir, manifestPath string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", "", ErrFailedFileLoad
	}

	if info.IsDir() {
		manifest, err := findManifest(path)
		if err != nil {
			return "", "", err
		}
		return path, manifest, nil
	}

	ext := filepath.Ext(path)
	if ext == ManifestExtension {
		// A .flowmod file is either a bare JSON manifest or a packaged
		// zip archive; only the latter opens as a zip.
		zr, zerr := zip.OpenReader(path)
		if zerr != nil {
			return filepath.Dir(path), path, nil
		}
		_ = zr.Close()
	}

	if ext == ".zip" || ext == ManifestExtension {
		extractDir, err := extractZip(path)
		if err != nil {
			return "", "", err
		}
		manifest, err := findManifest(extractDir)
		if err != nil {
			return "", "", err
		}
		return extractDir, manifest, nil
	}

	return "", "", ErrNotAModule
}

func findManifest(dir string) (string, error) {
	var found string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(p) == ManifestExtension {
			found = p
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil || found == "" {
		return "", ErrNotAModule
	}
	return found, nil
}

// findBinary resolves a module's compiled binary under the archive's
// mandated <platform>/<arch>/<name>.<ext> layout, so a multi-platform
// .flowmod package always loads the host's own build rather than
// whichever platform happens to be found first.
func findBinary(dir, name string) (string, error) {
	platformDir := filepath.Join(dir, runtime.GOOS, runtime.GOARCH)
	candidates := []string{name + BinaryExtension, "lib" + name + BinaryExtension}
	for _, c := range candidates {
		p := filepath.Join(platformDir, c)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: binary for %q not found under %s", ErrFailedFileLoad, name, platformDir)
}

func extractZip(archivePath string) (string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", ErrFailedFileLoad
	}
	defer r.Close()

	dest, err := os.MkdirTemp("", "flowgraph-module-*")
	if err != nil {
		return "", ErrFailedFileLoad
	}

	for _, f := range r.File {
		target, err := safeExtractPath(dest, f.Name)
		if err != nil {
			return "", err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return "", ErrFailedFileLoad
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return "", ErrFailedFileLoad
		}
		if err := extractZipFile(f, target); err != nil {
			return "", err
		}
	}
	return dest, nil
}

// safeExtractPath joins name onto dest and rejects any entry whose
// cleaned path would escape dest, guarding against zip-slip archives.
func safeExtractPath(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	destWithSep := dest + string(os.PathSeparator)
	if target != dest && !strings.HasPrefix(target, destWithSep) {
		return "", fmt.Errorf("%w: illegal file path in archive: %s", ErrFailedFileLoad, name)
	}
	return target, nil
}

func extractZipFile(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return ErrFailedFileLoad
	}
	defer src.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return ErrFailedFileLoad
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return ErrFailedFileLoad
	}
	return nil
}
