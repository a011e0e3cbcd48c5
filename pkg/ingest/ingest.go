package ingest

import (
	"encoding/base64"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"ai-forge-be/pkg/store"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultMediaType is used when nothing better is known about a file
const DefaultMediaType = "application/octet-stream"

// textExtensions are treated as text whatever media type the browser declared
var textExtensions = map[string]bool{
	".ts":   true,
	".tsx":  true,
	".js":   true,
	".json": true,
	".md":   true,
	".css":  true,
}

// File is one raw upload
type File struct {
	Name      string
	MediaType string // as declared by the client, may be empty
	Data      []byte
}

// Ingest classifies a raw upload and encodes its payload
func Ingest(f File) store.ContextItem {
	mediaType := resolveMediaType(f)
	isText := IsText(f.Name, mediaType)

	var payload string
	if isText {
		payload = string(f.Data)
		if !utf8.ValidString(payload) {
			payload = strings.ToValidUTF8(payload, "�")
		}
	} else {
		payload = base64.StdEncoding.EncodeToString(f.Data)
	}

	return store.ContextItem{
		ID:        uuid.New(),
		Name:      f.Name,
		MediaType: mediaType,
		ByteSize:  int64(len(f.Data)),
		Payload:   payload,
		IsText:    isText,
	}
}

// IsText reports whether a file is inlined as text for the provider
func IsText(name, mediaType string) bool {
	if strings.HasPrefix(strings.ToLower(mediaType), "text/") {
		return true
	}
	return textExtensions[strings.ToLower(filepath.Ext(name))]
}

// resolveMediaType keeps the declared type, otherwise sniffs the content
func resolveMediaType(f File) string {
	declared := strings.TrimSpace(f.MediaType)
	if declared != "" && declared != DefaultMediaType {
		return declared
	}
	if len(f.Data) == 0 {
		return DefaultMediaType
	}

	detected := mimetype.Detect(f.Data)
	base, _, err := mime.ParseMediaType(detected.String())
	if err != nil || base == "" {
		return DefaultMediaType
	}
	return base
}
