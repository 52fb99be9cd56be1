package assets

import (
	"fmt"
	"strings"
)

// MaxAssetNameLength caps style and template set names.
const MaxAssetNameLength = 64

// AssetLoader loads report styles and template sets by name.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplateSet loads the templates stored under templates/{name}/.
	// Returns ErrTemplateSetNotFound or ErrIncompleteTemplateSet.
	LoadTemplateSet(name string) (*TemplateSet, error)
}

// ValidateAssetName accepts bare names such as "default" or "core-facility".
// Separators, dots and NUL are rejected so a name always maps to one file
// inside the asset directory.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > MaxAssetNameLength:
		return fmt.Errorf("%w: %d chars, max %d", ErrInvalidAssetName, len(name), MaxAssetNameLength)
	case strings.ContainsAny(name, "/\\.\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
