package retrieval

import (
	"sort"
	"strings"
	"unicode"
)

const (
	// extractWindow is the target size of a single extract in bytes.
	extractWindow = 300
	// maxExtractsPerHit bounds the number of extracts returned per hit.
	maxExtractsPerHit = 3
)

// buildExtracts slices resource content into snippets relevant to the query.
// Content is split into windows on sentence boundaries; windows are ranked by
// query-term overlap and the best ones are returned in document order. Content
// with no term overlap still yields its leading window, so a hit never comes
// back with empty extracts.
func buildExtracts(content, query string) []string {
	windows := splitWindows(content)
	if len(windows) == 0 {
		return nil
	}
	if len(windows) <= maxExtractsPerHit {
		return windows
	}

	terms := queryTerms(query)

	type ranked struct {
		pos     int
		overlap int
	}
	scores := make([]ranked, len(windows))
	for i, w := range windows {
		scores[i] = ranked{pos: i, overlap: termOverlap(w, terms)}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].overlap > scores[j].overlap
	})

	best := scores[:maxExtractsPerHit]
	sort.Slice(best, func(i, j int) bool { return best[i].pos < best[j].pos })

	out := make([]string, len(best))
	for i, r := range best {
		out[i] = windows[r.pos]
	}
	return out
}

// splitWindows breaks content into chunks of roughly extractWindow bytes,
// preferring sentence boundaries.
func splitWindows(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if len(content) <= extractWindow {
		return []string{content}
	}

	var windows []string
	var cur strings.Builder

	for _, sentence := range splitSentences(content) {
		if cur.Len() > 0 && cur.Len()+len(sentence) > extractWindow {
			windows = append(windows, strings.TrimSpace(cur.String()))
			cur.Reset()
		}
		cur.WriteString(sentence)

		// A single oversized sentence becomes its own window.
		if cur.Len() > extractWindow {
			windows = append(windows, strings.TrimSpace(cur.String()))
			cur.Reset()
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		windows = append(windows, s)
	}
	return windows
}

// splitSentences splits text after '.', '!', '?' or newlines, keeping the
// terminator with the preceding sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			end := i + 1
			if s := text[start:end]; strings.TrimSpace(s) != "" {
				sentences = append(sentences, s)
			}
			start = end
		}
	}
	if start < len(text) {
		if s := text[start:]; strings.TrimSpace(s) != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func queryTerms(query string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, t := range strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(t) > 1 {
			terms[t] = struct{}{}
		}
	}
	return terms
}

func termOverlap(window string, terms map[string]struct{}) int {
	if len(terms) == 0 {
		return 0
	}
	lower := strings.ToLower(window)
	count := 0
	for t := range terms {
		if strings.Contains(lower, t) {
			count++
		}
	}
	return count
}
