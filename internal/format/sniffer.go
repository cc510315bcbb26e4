// =============================================================================
// Survey Ingestor - Delimiter Sniffer
// =============================================================================
//
// Guesses the field delimiter of a delimited-text sample. For each candidate
// delimiter the sniffer counts occurrences per line (outside quoted regions)
// and scores the candidate by how consistently that count repeats across
// lines. A well-formed table keeps the same field count on every row, so the
// true delimiter produces a high, consistent count.
//
// =============================================================================

package format

import "strings"

// candidateDelimiters are tried in priority order; the order breaks ties.
var candidateDelimiters = []rune{',', '\t', ';', '|'}

// maxSniffLines limits how many sample lines contribute to the score.
const maxSniffLines = 20

// SniffDelimiter inspects a text sample and returns the most plausible
// delimiter. The second return value is false when no candidate produced a
// consistent non-zero count, in which case the caller should fall back to
// the extension-implied delimiter.
func SniffDelimiter(sample string) (rune, bool) {
	lines := sniffLines(sample)
	if len(lines) == 0 {
		return 0, false
	}

	bestDelim := rune(0)
	bestScore := 0

	for _, delim := range candidateDelimiters {
		score := scoreDelimiter(lines, delim)
		if score > bestScore {
			bestScore = score
			bestDelim = delim
		}
	}

	if bestScore == 0 {
		return 0, false
	}
	return bestDelim, true
}

// sniffLines splits the sample into non-empty lines, discarding a trailing
// partial line when the sample was cut mid-row.
func sniffLines(sample string) []string {
	raw := strings.Split(strings.ReplaceAll(sample, "\r\n", "\n"), "\n")
	if len(raw) > 1 && !strings.HasSuffix(sample, "\n") {
		raw = raw[:len(raw)-1]
	}
	var lines []string
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxSniffLines {
			break
		}
	}
	return lines
}

// scoreDelimiter returns the size of the largest group of lines sharing the
// same non-zero delimiter count, weighted by that count. Zero means the
// delimiter never appears consistently.
func scoreDelimiter(lines []string, delim rune) int {
	counts := make(map[int]int)
	for _, line := range lines {
		n := countUnquoted(line, delim)
		if n > 0 {
			counts[n]++
		}
	}

	best := 0
	for n, group := range counts {
		// With multiple lines, the count must repeat on more than half of
		// them; a single-line sample is trusted as-is.
		if group*2 <= len(lines) && len(lines) > 1 {
			continue
		}
		if score := group * n; score > best {
			best = score
		}
	}
	return best
}

// countUnquoted counts delimiter occurrences outside double-quoted regions.
func countUnquoted(line string, delim rune) int {
	count := 0
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			count++
		}
	}
	return count
}
