package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}
	pdfHeader = []byte("%PDF-1.4\n%")
	exeHeader = []byte{0x4D, 0x5A, 0x90, 0x00, 0x03, 0x00, 0x00, 0x00}
)

func TestValidateDocument(t *testing.T) {
	t.Run("Should accept a PDF", func(t *testing.T) {
		assert.NoError(t, ValidateDocument("cv.pdf", pdfHeader))
	})

	t.Run("Should accept a PNG scan", func(t *testing.T) {
		assert.NoError(t, ValidateDocument("diploma.png", pngHeader))
	})

	t.Run("Should reject an empty file", func(t *testing.T) {
		err := ValidateDocument("cv.pdf", nil)
		assert.ErrorContains(t, err, "empty")
	})

	t.Run("Should reject a missing extension", func(t *testing.T) {
		err := ValidateDocument("cv", pdfHeader)
		assert.ErrorContains(t, err, "no extension")
	})

	t.Run("Should reject a disallowed extension", func(t *testing.T) {
		err := ValidateDocument("tool.exe", exeHeader)
		assert.ErrorContains(t, err, "not allowed")
	})

	t.Run("Should reject content that does not match the extension", func(t *testing.T) {
		err := ValidateDocument("cv.pdf", exeHeader)
		assert.ErrorContains(t, err, "does not match extension")
	})

	t.Run("Should reject an undetectable binary renamed to txt", func(t *testing.T) {
		err := ValidateDocument("notes.txt", []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05})
		assert.Error(t, err)
	})

	t.Run("Should reject a document over the size cap", func(t *testing.T) {
		big := make([]byte, MaxDocumentBytes+1)
		copy(big, pdfHeader)
		err := ValidateDocument("cv.pdf", big)
		assert.ErrorContains(t, err, "limit")
	})
}

func TestValidatePhoto(t *testing.T) {
	t.Run("Should accept a PNG", func(t *testing.T) {
		assert.NoError(t, ValidatePhoto("avatar.png", pngHeader))
	})

	t.Run("Should reject a PDF posing as a photo", func(t *testing.T) {
		err := ValidatePhoto("avatar.pdf", pdfHeader)
		assert.ErrorContains(t, err, "not allowed")
	})

	t.Run("Should reject a photo over the size cap", func(t *testing.T) {
		big := make([]byte, MaxPhotoBytes+1)
		copy(big, pngHeader)
		err := ValidatePhoto("avatar.png", big)
		assert.ErrorContains(t, err, "limit")
	})
}
