package rag

import (
	"path/filepath"
	"regexp"
	"strings"
)

var namespaceUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// NamespaceForFile derives the retrieval namespace from an uploaded
// file's original name: the base name minus its extension, with every
// character outside [a-zA-Z0-9_-] replaced by an underscore.
func NamespaceForFile(filename string) string {
	base := filepath.Base(filepath.ToSlash(filename))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return namespaceUnsafe.ReplaceAllString(base, "_")
}
