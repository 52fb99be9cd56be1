package ngsreport

import (
	"errors"

	"github.com/alnah/go-ngsreport/internal/assets"
)

// Sentinel errors for library operations.
var (
	ErrNoImages            = errors.New("report has no images")
	ErrEmptyTitle          = errors.New("report title cannot be empty")
	ErrEmptyExtension      = errors.New("image extension cannot be empty")
	ErrImageDecode         = errors.New("cannot decode image")
	ErrEmptyImage          = errors.New("image has zero width or height")
	ErrHeaderImageNotFound = errors.New("header image not found")
	ErrNotesRender         = errors.New("notes rendering failed")
	ErrHTMLRender          = errors.New("report HTML rendering failed")
	ErrPDFGeneration       = errors.New("PDF generation failed")
	ErrBrowserConnect      = errors.New("failed to connect to browser")
	ErrPageCreate          = errors.New("failed to create browser page")
	ErrPageLoad            = errors.New("failed to load page")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Layout validation errors.
	ErrInvalidLayout = errors.New("invalid layout")

	// Footer validation errors.
	ErrInvalidFooterPosition = errors.New("invalid footer position")

	// Asset loading errors.
	ErrStyleNotFound         = assets.ErrStyleNotFound
	ErrTemplateSetNotFound   = assets.ErrTemplateSetNotFound
	ErrIncompleteTemplateSet = assets.ErrIncompleteTemplateSet
	ErrInvalidAssetPath      = errors.New("invalid asset path")
)
