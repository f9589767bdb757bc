package module

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Metadata describes an extension module, read from a "<name>.flowmod"
// JSON manifest sitting alongside the platform binary.
type Metadata struct {
	Name         string   `json:"Name" validate:"required"`
	Version      string   `json:"Version" validate:"required,semver"`
	Author       string   `json:"Author" validate:"required"`
	Description  string   `json:"Description" validate:"required"`
	Dependencies []string `json:"Dependencies"`
}

var semverPattern = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)$`)

var metadataValidator *validator.Validate

func init() {
	metadataValidator = validator.New()
	_ = metadataValidator.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
		return semverPattern.MatchString(fl.Field().String())
	})
}

// ManifestExtension is the file extension for module metadata files.
const ManifestExtension = ".flowmod"

// LoadMetadata reads and validates a manifest file.
func LoadMetadata(path string) (Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, ErrFailedFileLoad
	}

	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Metadata{}, ErrNotAModule
	}
	if err := ValidateMetadata(meta); err != nil {
		return Metadata{}, ErrNotAModule
	}
	return meta, nil
}

// ValidateMetadata runs the same required-field and semver checks
// LoadMetadata applies on load, exported so a packaging tool can catch
// a malformed manifest before it ever reaches a module archive.
func ValidateMetadata(meta Metadata) error {
	if err := metadataValidator.Struct(meta); err != nil {
		return fmt.Errorf("%w: %v", ErrNotAModule, err)
	}
	return nil
}
