package security

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// Upload size caps
const (
	MaxDocumentBytes = 10 << 20 // application documents (CVs, cover letters)
	MaxPhotoBytes    = 5 << 20  // profile photos, compressed after validation
)

// Magic byte signatures per lowercase extension
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}, {0x47, 0x49, 0x46, 0x38, 0x39, 0x61}}, // GIF87a & GIF89a
	".webp": {{0x52, 0x49, 0x46, 0x46}},                                                   // RIFF header
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                                                   // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}},                           // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                                                   // ZIP (PK..)
	".txt":  {},                                                                           // no magic bytes, MIME layer decides
}

// Extensions accepted for application documents
var documentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Extensions accepted for profile photos
var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Strict MIME whitelist - application/octet-stream deliberately absent
var strictMIMETypes = map[string]bool{
	// Images
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	// Documents
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	// Text
	"text/plain": true,
	// ZIP-based documents (DOCX detection fallback)
	"application/zip": true,
}

// ValidateDocument checks an application document upload: size cap,
// extension whitelist, magic bytes matching the extension, and a sniffed
// MIME whitelist that rejects application/octet-stream.
func ValidateDocument(filename string, data []byte) error {
	if len(data) > MaxDocumentBytes {
		return fmt.Errorf("document exceeds the %dMB limit", MaxDocumentBytes>>20)
	}
	return validateUpload(filename, data, documentExtensions)
}

// ValidatePhoto checks a profile photo upload against the image-only
// extension whitelist and the photo size cap.
func ValidatePhoto(filename string, data []byte) error {
	if len(data) > MaxPhotoBytes {
		return fmt.Errorf("photo exceeds the %dMB limit", MaxPhotoBytes>>20)
	}
	return validateUpload(filename, data, photoExtensions)
}

func validateUpload(filename string, data []byte, allowed map[string]bool) error {
	if len(data) == 0 {
		return errors.New("file is empty")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return errors.New("file has no extension")
	}

	// Layer 1: extension whitelist
	if !allowed[ext] {
		return errors.New("file extension not allowed: " + ext)
	}

	// Layer 2: magic bytes must match the extension (txt has none)
	if ext != ".txt" && !validateMagicBytes(ext, data) {
		return errors.New("file content does not match extension")
	}

	// Layer 3: sniffed MIME whitelist. octet-stream would let arbitrary
	// binaries through; .doc/.docx legitimately sniff as octet-stream and
	// are already pinned down by their magic bytes.
	sniffed := sniffMIME(data)
	if sniffed == "application/octet-stream" {
		if ext != ".doc" && ext != ".docx" {
			return errors.New("binary files not allowed; file type could not be determined")
		}
	} else if !strictMIMETypes[sniffed] {
		return errors.New("MIME type not allowed: " + sniffed)
	}

	return nil
}

func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false
	}
	signatures, ok := magicBytes[ext]
	if !ok {
		return false
	}
	if len(signatures) == 0 {
		return true
	}
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// sniffMIME detects the content type from the payload itself; the declared
// Content-Type header is attacker-controlled and never trusted.
func sniffMIME(data []byte) string {
	mime := http.DetectContentType(data)
	// DetectContentType appends parameters like "; charset=utf-8"
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return mime
}
