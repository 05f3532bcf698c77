package generator

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

const wordsPerPage = 350

// Canonicalize normalizes line endings to LF, trims trailing whitespace from
// each line and drops trailing blank lines.
func Canonicalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// Checksum is the hex SHA-256 of the canonical text.
func Checksum(text string) string {
	sum := sha256.Sum256([]byte(Canonicalize(text)))
	return hex.EncodeToString(sum[:])
}

// VerifyChecksum reports whether text still matches a stored checksum.
func VerifyChecksum(text, checksum string) bool {
	want := strings.ToLower(strings.TrimSpace(checksum))
	return subtle.ConstantTimeCompare([]byte(Checksum(text)), []byte(want)) == 1
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// PageCount estimates printed pages. Any non-empty text is at least one page.
func PageCount(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + wordsPerPage - 1) / wordsPerPage
}
