package utils

import (
	"medrecords-service/internal/pkg/constvars"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

func GenerateSessionID() string {
	return uuid.NewString()
}

func GenerateDocumentID() string {
	return uuid.NewString()
}

// SanitizeFileName keeps only the base name so a client supplied name can
// never escape the patient's prefix in the bucket.
func SanitizeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return strings.TrimSpace(base)
}
