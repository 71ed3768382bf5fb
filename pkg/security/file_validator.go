package security

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FileClass is the set of file types an attachment field accepts.
type FileClass int

const (
	// ClassImage accepts JPEG, PNG, GIF and WebP.
	ClassImage FileClass = iota
	// ClassDocument accepts PDF plus everything in ClassImage.
	ClassDocument
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	Extension    string // Lowercased file extension including the dot
	DetectedMIME string // MIME type sniffed from the content
	Error        string // Error message if validation failed
}

// Magic byte signatures for allowed file types
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}, {0x47, 0x49, 0x46, 0x38, 0x39, 0x61}}, // GIF87a & GIF89a
	".webp": {{0x52, 0x49, 0x46, 0x46}},                                                   // RIFF header
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                                                   // %PDF
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var imageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidateFile performs 3-layer file validation against class:
// 1. Extension whitelist check
// 2. Magic byte verification (content matches extension)
// 3. Sniffed MIME type whitelist (application/octet-stream is never accepted)
func ValidateFile(filename string, data []byte, class FileClass) FileValidationResult {
	mtype := mimetype.Detect(data)
	result := FileValidationResult{
		DetectedMIME: mtype.String(),
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	// Layer 1: Extension whitelist
	if !extensionAllowed(ext, class) {
		result.Error = "file type not allowed: " + ext + " (expected " + class.String() + ")"
		return result
	}

	// Layer 2: Magic byte validation
	if !validateMagicBytes(ext, data) {
		result.Error = "file content does not match its extension"
		return result
	}

	// Layer 3: MIME type whitelist
	if !mimeAllowed(mtype, class) {
		result.Error = "file content type not allowed: " + mtype.String()
		return result
	}

	result.Valid = true
	return result
}

func (c FileClass) String() string {
	if c == ClassDocument {
		return "PDF or image"
	}
	return "image"
}

func extensionAllowed(ext string, class FileClass) bool {
	if imageExtensions[ext] {
		return true
	}
	return class == ClassDocument && ext == ".pdf"
}

func mimeAllowed(mtype *mimetype.MIME, class FileClass) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if imageMIMETypes[m.String()] {
			return true
		}
		if class == ClassDocument && m.Is("application/pdf") {
			return true
		}
	}
	return false
}

// validateMagicBytes checks if file content starts with expected magic bytes
func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false // File too small to validate
	}

	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// IsImageExtension checks if the extension is an image type
func IsImageExtension(ext string) bool {
	return imageExtensions[strings.ToLower(ext)]
}

// ContentType returns the sniffed MIME type of data, for upload headers.
func ContentType(data []byte) string {
	return mimetype.Detect(data).String()
}
