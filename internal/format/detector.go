// =============================================================================
// Survey Ingestor - Format Detector
// =============================================================================
//
// Classifies an input file as spreadsheet or delimited text by extension,
// then double-checks delimited files by content: export tools regularly save
// tab-delimited data under a .csv name, so a CSV classification is confirmed
// by sniffing the first few KiB and reclassified to TSV when the dominant
// delimiter is a tab.
//
// Unknown extensions and missing files yield FormatUnknown with no error;
// the caller decides how to react.
//
// =============================================================================

package format

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Format identifies a supported input file format.
type Format string

const (
	FormatXLSX    Format = "xlsx"
	FormatXLS     Format = "xls"
	FormatCSV     Format = "csv"
	FormatTSV     Format = "tsv"
	FormatUnknown Format = ""
)

// SniffSampleBytes is the default amount of content read for delimiter
// sniffing.
const SniffSampleBytes = 8192

// SupportedExtensions maps recognized extensions to their format.
var SupportedExtensions = map[string]Format{
	".xlsx": FormatXLSX,
	".xls":  FormatXLS,
	".csv":  FormatCSV,
	".tsv":  FormatTSV,
}

// IsSupported reports whether a path has a supported extension.
func IsSupported(path string) bool {
	_, ok := SupportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsSpreadsheet reports whether the format uses the spreadsheet loader.
func (f Format) IsSpreadsheet() bool {
	return f == FormatXLSX || f == FormatXLS
}

// Delimiter returns the extension-implied delimiter for delimited formats.
func (f Format) Delimiter() rune {
	if f == FormatTSV {
		return '\t'
	}
	return ','
}

// Detect classifies a file. CSV files are additionally content-sniffed and
// may come back as FormatTSV.
func Detect(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	detected, ok := SupportedExtensions[ext]
	if !ok {
		return FormatUnknown
	}

	if _, err := os.Stat(path); err != nil {
		return FormatUnknown
	}

	if detected == FormatCSV {
		if sniffed, ok := sniffFile(path); ok && sniffed == '\t' {
			return FormatTSV
		}
	}

	return detected
}

// sniffFile samples the head of a file, decodes it as UTF-8 or Latin-1, and
// sniffs the delimiter. The second return value is false when the content
// could not be inspected; classification then stays extension-based.
func sniffFile(path string) (rune, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	buf := make([]byte, SniffSampleBytes)
	n, err := f.Read(buf)
	if n == 0 && err != nil && err != io.EOF {
		return 0, false
	}
	sample := buf[:n]

	var text string
	if utf8.Valid(sample) {
		text = string(sample)
	} else {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(sample)
		if err != nil {
			return 0, false
		}
		text = string(decoded)
	}

	return SniffDelimiter(text)
}
