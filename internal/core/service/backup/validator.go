package backup

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/gabriel-vasile/mimetype"
)

const (
	// rootMimeType is returned when no signature matched
	rootMimeType = "application/octet-stream"
	// textMimeType heads the text heuristics (json, csv, html, ...), none of them a magic number
	textMimeType = "text/plain"
)

// Validator decides whether an upload is a genuine backup before any network activity
type Validator struct {
	extension    string
	expectedMime string
}

// NewValidator creates a Validator accepting one extension and one media type
func NewValidator(extension string, expectedMime string) *Validator {
	extension = strings.ToLower(strings.TrimSpace(extension))
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return &Validator{extension: extension, expectedMime: expectedMime}
}

// Validate checks the claimed name first, then the leading bytes of the content
func (v *Validator) Validate(buffer []byte, originalName string) domain.ValidationResult {
	if strings.ToLower(filepath.Ext(originalName)) != v.extension {
		return domain.ValidationResult{
			Reason: fmt.Sprintf("file type not allowed, only %s is accepted", v.extension),
		}
	}

	detected := mimetype.Detect(buffer)
	kind := mediaType(detected.String())
	if detected.Is(v.expectedMime) {
		return domain.ValidationResult{Accepted: true, DetectedKind: kind}
	}
	if !hasSignature(detected) {
		return domain.ValidationResult{Accepted: true}
	}

	return domain.ValidationResult{
		DetectedKind: kind,
		Reason:       fmt.Sprintf("invalid file, detected type: %s", kind),
	}
}

// hasSignature reports whether detection came from magic bytes rather than
// the fallback root or the text heuristics
func hasSignature(detected *mimetype.MIME) bool {
	if detected.Is(rootMimeType) {
		return false
	}
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(textMimeType) {
			return false
		}
	}
	return true
}

func mediaType(value string) string {
	mediaType, _, _ := strings.Cut(value, ";")
	return strings.TrimSpace(mediaType)
}
