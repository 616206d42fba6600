package chunking

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
)

var (
	paragraphPattern = regexp.MustCompile(`\n\s*\n`)
	numberedHeading  = regexp.MustCompile(`^(?:\d+(?:\.\d+)*\.?|[IVXLC]+\.|[A-Z]\.)\s+\S`)
)

const maxHeadingRunes = 80

// Splitter breaks extracted text into passage-sized chunks along
// paragraph boundaries, tagging each chunk with the nearest preceding
// heading. ChunkSize and Overlap are rune counts.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 900
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

func (s *Splitter) Split(text string) []domain.Chunk {
	paragraphs := paragraphPattern.Split(text, -1)

	var (
		chunks  []domain.Chunk
		current []string
		size    int
		section string
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		body := strings.TrimSpace(strings.Join(current, "\n\n"))
		if body != "" {
			chunks = append(chunks, domain.Chunk{
				Index:        len(chunks),
				SectionTitle: section,
				Text:         body,
			})
		}
		// Carry the last paragraph into the next chunk when it is
		// small enough to serve as overlap.
		if last := current[len(current)-1]; len(current) > 1 && len([]rune(last)) <= s.Overlap {
			current = []string{last}
			size = len([]rune(last))
		} else {
			current = nil
			size = 0
		}
	}

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if title, ok := headingTitle(para); ok {
			flush()
			current = nil
			size = 0
			section = title
			continue
		}

		paraRunes := len([]rune(para))
		if size+paraRunes > s.ChunkSize && size > 0 {
			flush()
		}

		if paraRunes > s.ChunkSize {
			current = nil
			size = 0
			for _, piece := range s.slidingWindow(para) {
				chunks = append(chunks, domain.Chunk{
					Index:        len(chunks),
					SectionTitle: section,
					Text:         piece,
				})
			}
			continue
		}

		current = append(current, para)
		size += paraRunes
	}
	flush()

	return chunks
}

// headingTitle reports whether a paragraph is a standalone section
// heading: a single short line, no sentence-ending period, either
// numbered ("12. Termination"), ALL CAPS, or title-cased.
func headingTitle(para string) (string, bool) {
	if strings.Contains(para, "\n") {
		return "", false
	}
	line := strings.TrimSpace(para)
	runes := []rune(line)
	if len(runes) == 0 || len(runes) > maxHeadingRunes {
		return "", false
	}
	if strings.HasSuffix(line, ".") && !numberedHeading.MatchString(line) {
		return "", false
	}

	if numberedHeading.MatchString(line) {
		return line, true
	}
	if isAllCaps(line) {
		return line, true
	}
	if isTitleCase(line) {
		return line, true
	}
	return "", false
}

func isAllCaps(line string) bool {
	sawLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			sawLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return sawLetter
}

// isTitleCase accepts short lines where every significant word starts
// with an uppercase letter ("Limitation of Liability").
func isTitleCase(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > 8 {
		return false
	}
	significant := 0
	for i, word := range words {
		r := []rune(word)[0]
		if !unicode.IsLetter(r) {
			return false
		}
		if unicode.IsLower(r) {
			if i == 0 || !smallWords[strings.ToLower(word)] {
				return false
			}
			continue
		}
		significant++
	}
	return significant >= 1
}

var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "for": true, "in": true,
	"of": true, "on": true, "or": true, "the": true, "to": true,
}

// slidingWindow is the fallback for a single paragraph that exceeds
// the chunk budget on its own.
func (s *Splitter) slidingWindow(text string) []string {
	runes := []rune(text)
	step := s.ChunkSize - s.Overlap
	if step <= 0 {
		step = s.ChunkSize
	}

	out := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			out = append(out, piece)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}
