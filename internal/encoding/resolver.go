// =============================================================================
// Survey Ingestor - Encoding Resolver
// =============================================================================
//
// Survey-export tools from different locales and spreadsheet programs commonly
// emit non-UTF-8 text with no declared encoding. This module decodes the raw
// bytes of a text file by trying a fixed cascade of encodings in order:
//
//   utf-8 -> utf-8-sig (BOM) -> windows-1252 -> latin-1
//
// The first encoding that decodes cleanly wins. A permission error is not an
// encoding problem, so it is never retried across encodings; it is returned
// immediately as ErrFileLocked. If the whole cascade fails, the resolver
// returns ErrDecodeFailure carrying every attempted encoding and its error.
//
// Windows-1252 leaves five code points undefined (0x81, 0x8D, 0x8F, 0x90,
// 0x9D); the charmap decoder substitutes U+FFFD for those instead of
// returning an error, so a replacement rune in the output is treated as a
// decode failure for that step. Latin-1 maps every byte, making it the
// terminal fallback that always succeeds.
//
// =============================================================================

package encoding

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/resiliencescan/ingestor/internal/ingesterr"
)

// Canonical encoding names recorded in run records and the audit log.
const (
	NameUTF8    = "utf-8"
	NameUTF8Sig = "utf-8-sig"
	NameCP1252  = "windows-1252"
	NameLatin1  = "latin-1"
)

// Cascade returns the fixed trial order.
func Cascade() []string {
	return []string{NameUTF8, NameUTF8Sig, NameCP1252, NameLatin1}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Resolve reads a text file and decodes it using the encoding cascade.
// It returns the decoded text and the name of the encoding that succeeded.
func Resolve(path string) (string, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", fmt.Errorf("%w: %s", ingesterr.ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return "", "", fmt.Errorf("%w: %s", ingesterr.ErrFileLocked, path)
		}
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Decode(raw)
}

// Decode runs the encoding cascade over raw bytes.
func Decode(raw []byte) (string, string, error) {
	var attempts []string

	for _, name := range Cascade() {
		text, err := decodeAs(raw, name)
		if err == nil {
			return text, name, nil
		}
		attempts = append(attempts, fmt.Sprintf("%s: %v", name, err))
	}

	return "", "", fmt.Errorf("%w (tried %s): %s",
		ingesterr.ErrDecodeFailure,
		strings.Join(Cascade(), ", "),
		strings.Join(attempts, "; "))
}

// decodeAs attempts a single encoding.
func decodeAs(raw []byte, name string) (string, error) {
	switch name {
	case NameUTF8:
		// A BOM-prefixed file is deferred to the utf-8-sig step so the BOM
		// never leaks into the first header cell.
		if bytes.HasPrefix(raw, utf8BOM) {
			return "", fmt.Errorf("byte order mark present")
		}
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("invalid UTF-8 byte sequence")
		}
		return string(raw), nil

	case NameUTF8Sig:
		if !bytes.HasPrefix(raw, utf8BOM) {
			return "", fmt.Errorf("no byte order mark")
		}
		body := raw[len(utf8BOM):]
		if !utf8.Valid(body) {
			return "", fmt.Errorf("invalid UTF-8 byte sequence after BOM")
		}
		return string(body), nil

	case NameCP1252:
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}
		if bytes.ContainsRune(decoded, utf8.RuneError) {
			return "", fmt.Errorf("undefined windows-1252 code point")
		}
		return string(decoded), nil

	case NameLatin1:
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}
		return string(decoded), nil

	default:
		return "", fmt.Errorf("unknown encoding %q", name)
	}
}
