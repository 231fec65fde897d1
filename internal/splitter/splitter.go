// Package splitter partitions markdown source texts into chunks sized for
// the embedding model. Splits prefer heading boundaries, then paragraph
// boundaries, then hard cuts, with a configurable overlap carried between
// adjacent chunks so context is not lost at the seams.
package splitter

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Splitter chunks markdown text.
type Splitter struct {
	chunkSize int
	overlap   int
	md        goldmark.Markdown
}

// New creates a Splitter producing chunks of at most chunkSize characters
// with roughly overlap characters shared between neighbours.
func New(chunkSize, overlap int) *Splitter {
	if chunkSize < 1 {
		chunkSize = 1
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}
	return &Splitter{
		chunkSize: chunkSize,
		overlap:   overlap,
		md:        goldmark.New(),
	}
}

// Split partitions text into chunks. Whitespace-only input yields no chunks.
func (s *Splitter) Split(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}

	units := s.splitUnits(input)
	return s.merge(units)
}

// splitUnits breaks the text into heading-delimited sections, then breaks
// oversized sections by paragraph and finally by hard cuts, so every unit
// fits within chunkSize.
func (s *Splitter) splitUnits(input string) []string {
	var units []string
	for _, section := range s.sections(input) {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		if len(section) <= s.chunkSize {
			units = append(units, section)
			continue
		}
		for _, para := range strings.Split(section, "\n\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			if len(para) <= s.chunkSize {
				units = append(units, para)
				continue
			}
			units = append(units, s.hardCut(para)...)
		}
	}
	return units
}

// sections splits the source at markdown heading boundaries. Headings are
// located via the goldmark AST, which also recognises setext headings that
// a line-prefix scan would miss.
func (s *Splitter) sections(input string) []string {
	src := []byte(input)
	doc := s.md.Parser().Parse(text.NewReader(src))

	var starts []int
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		h, ok := node.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			continue
		}
		starts = append(starts, lineStart(src, h.Lines().At(0).Start))
	}

	if len(starts) == 0 {
		return []string{input}
	}

	var out []string
	prev := 0
	for _, start := range starts {
		if start > prev {
			out = append(out, string(src[prev:start]))
		}
		prev = start
	}
	out = append(out, string(src[prev:]))
	return out
}

// hardCut slices an oversized paragraph into chunkSize windows stepped by
// chunkSize-overlap.
func (s *Splitter) hardCut(para string) []string {
	step := s.chunkSize - s.overlap
	var out []string
	for start := 0; start < len(para); start += step {
		end := start + s.chunkSize
		if end >= len(para) {
			out = append(out, strings.TrimSpace(para[start:]))
			break
		}
		out = append(out, strings.TrimSpace(para[start:end]))
	}
	return out
}

// merge greedily packs units into chunks up to chunkSize, seeding each new
// chunk with trailing units of the previous one up to the overlap budget.
func (s *Splitter) merge(units []string) []string {
	var chunks []string
	var current []string
	currentLen := 0
	// fresh marks whether current holds any unit not already emitted; a
	// trailing buffer that is nothing but the previous chunk's overlap
	// tail must not become a chunk of its own.
	fresh := false

	joinedLen := func(parts []string, add int) int {
		n := add
		for _, p := range parts {
			n += len(p)
		}
		// Separator between every pair.
		if len(parts) > 0 && add > 0 {
			n += 2 * len(parts)
		} else if len(parts) > 1 {
			n += 2 * (len(parts) - 1)
		}
		return n
	}

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, "\n\n"))

		// Carry a tail of units within the overlap budget into the next
		// chunk.
		var tail []string
		tailLen := 0
		for i := len(current) - 1; i >= 0; i-- {
			if tailLen+len(current[i]) > s.overlap {
				break
			}
			tail = append([]string{current[i]}, tail...)
			tailLen += len(current[i]) + 2
		}
		current = tail
		currentLen = joinedLen(current, 0)
		fresh = false
	}

	for _, unit := range units {
		if currentLen > 0 && joinedLen(current, len(unit)) > s.chunkSize {
			flush()
			// If the overlap tail alone already crowds out the unit,
			// drop the tail rather than emit an oversized chunk.
			if joinedLen(current, len(unit)) > s.chunkSize {
				current = nil
				currentLen = 0
			}
		}
		current = append(current, unit)
		currentLen = joinedLen(current, 0)
		fresh = true
	}
	if len(current) > 0 && fresh {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}
	return chunks
}

// lineStart walks back from pos to the start of its line.
func lineStart(src []byte, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	for pos > 0 && src[pos-1] != '\n' {
		pos--
	}
	return pos
}
