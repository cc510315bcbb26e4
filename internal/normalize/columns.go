// =============================================================================
// Survey Ingestor - Column Normalizer
// =============================================================================
//
// Rewrites raw header strings into the canonical naming convention every
// downstream consumer relies on: lowercase snake_case, no whitespace, valid
// identifier characters only, unique within one record set.
//
// CLEANING PIPELINE (per header):
//   1. Empty/missing        -> column_<position> (1-indexed)
//   2. Trim, lowercase
//   3. Spaces and hyphens   -> underscores
//   4. Strip ():[] then any remaining non-word character
//   5. Collapse repeated underscores, trim leading/trailing underscores
//   6. Empty after cleaning -> column_<position>
//   7. Leading digit        -> prefix "col_"
//
// Duplicates are then disambiguated by appending _1, _2, ... to the second
// and later occurrences, in original order. Normalizing already-normalized
// names is a no-op.
//
// =============================================================================

package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/resiliencescan/ingestor/internal/dataset"
)

var (
	punctReplacer  = strings.NewReplacer(" ", "_", "-", "_", ":", "", "(", "", ")", "", "[", "", "]", "")
	nonWordPattern = regexp.MustCompile(`[^\w]`)
	multiUnderbar  = regexp.MustCompile(`_+`)
)

// Columns normalizes a sequence of raw header values into canonical, unique
// column names.
func Columns(raw []string) []string {
	cleaned := make([]string, len(raw))
	for i, col := range raw {
		cleaned[i] = cleanOne(col, i)
	}
	return dedupe(cleaned)
}

// Dataset returns a copy of ds with normalized column names.
func Dataset(ds *dataset.Dataset) *dataset.Dataset {
	out := ds.Clone()
	out.Columns = Columns(out.Columns)
	return out
}

// cleanOne normalizes a single header. pos is the zero-based column index.
func cleanOne(col string, pos int) string {
	placeholder := fmt.Sprintf("column_%d", pos+1)

	name := strings.TrimSpace(col)
	if name == "" {
		return placeholder
	}

	name = strings.ToLower(name)
	name = punctReplacer.Replace(name)
	name = nonWordPattern.ReplaceAllString(name, "")
	name = multiUnderbar.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if name == "" {
		return placeholder
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "col_" + name
	}
	return name
}

// dedupe appends _1, _2, ... to repeated names, keeping first occurrences
// untouched.
func dedupe(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			out[i] = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 0
			out[i] = name
		}
	}
	return out
}
