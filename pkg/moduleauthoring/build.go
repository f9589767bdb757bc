// Package moduleauthoring provides a thin helper for packaging a
// compiled extension into the ".flowmod" zip archive layout the
// module loader expects: a manifest at the archive root plus one
// compiled shared library per platform/arch pair.
package moduleauthoring

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/flowgraph/flowgraph/internal/core/module"
)

// Binary is one compiled shared library to place at
// "<platform>/<arch>/<name>.<shlib-ext>" inside the archive.
type Binary struct {
	Platform string // e.g. "linux", "darwin"
	Arch     string // e.g. "amd64", "arm64"
	Path     string // local filesystem path to the compiled .so/.dylib/.dll
}

// Package writes a ".flowmod" zip archive to destPath, containing
// meta's manifest at "<name>.flowmod" and each binary at its
// platform/arch subdirectory. meta is validated with the same rules
// the loader applies on read, so a malformed manifest fails at build
// time rather than at load time.
func Package(destPath string, meta module.Metadata, binaries []Binary) error {
	if err := module.ValidateMetadata(meta); err != nil {
		return err
	}
	if len(binaries) == 0 {
		return fmt.Errorf("moduleauthoring: at least one binary is required")
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("moduleauthoring: create archive: %w", err)
	}
	defer out.Close()

	w := zip.NewWriter(out)
	defer w.Close()

	if err := writeManifest(w, meta); err != nil {
		return err
	}
	for _, b := range binaries {
		if err := writeBinary(w, meta.Name, b); err != nil {
			return err
		}
	}
	return nil
}

func writeManifest(w *zip.Writer, meta module.Metadata) error {
	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("moduleauthoring: marshal manifest: %w", err)
	}

	entry, err := w.Create(meta.Name + module.ManifestExtension)
	if err != nil {
		return fmt.Errorf("moduleauthoring: create manifest entry: %w", err)
	}
	if _, err := entry.Write(raw); err != nil {
		return fmt.Errorf("moduleauthoring: write manifest entry: %w", err)
	}
	return nil
}

func writeBinary(w *zip.Writer, moduleName string, b Binary) error {
	src, err := os.Open(b.Path)
	if err != nil {
		return fmt.Errorf("moduleauthoring: open binary %s: %w", b.Path, err)
	}
	defer src.Close()

	archivePath := filepath.ToSlash(filepath.Join(b.Platform, b.Arch, moduleName+module.BinaryExtension))
	entry, err := w.Create(archivePath)
	if err != nil {
		return fmt.Errorf("moduleauthoring: create binary entry %s: %w", archivePath, err)
	}
	if _, err := io.Copy(entry, src); err != nil {
		return fmt.Errorf("moduleauthoring: write binary entry %s: %w", archivePath, err)
	}
	return nil
}
