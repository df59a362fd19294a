package utils

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/mozillazg/go-unidecode"
)

func GenerateID() string {
	return uuid.NewString()
}

var unsafeKeyChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// SanitizeFilename transliterates name to ASCII and reduces it to a form that
// is safe inside an object key. The extension is kept.
func SanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	stem = strings.ToLower(unidecode.Unidecode(stem))
	stem = unsafeKeyChars.ReplaceAllString(stem, "-")
	stem = strings.Trim(stem, "-.")
	if stem == "" {
		stem = "dataset"
	}

	ext = unsafeKeyChars.ReplaceAllString(ext, "")
	return stem + ext
}
