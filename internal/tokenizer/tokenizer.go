// Package tokenizer extracts comment blocks from raw source text using a
// dialect's delimiter tables. It deliberately does not parse the host
// language: block openers are honored only at line start after
// whitespace, and line-comment markers anywhere on a line. Delimiters
// inside string literals can therefore be misread; that is a documented
// trade-off of staying grammar-free, not a silent correctness claim.
package tokenizer

import (
	"strings"

	"github.com/ludo-technologies/spdxscan/internal/dialect"
)

// Kind distinguishes line comments from block comments
type Kind string

const (
	KindLine  Kind = "line"
	KindBlock Kind = "block"
)

// Block is one extracted comment, delimiters included
type Block struct {
	Kind Kind

	// Text is the raw comment text including its delimiters
	Text string

	// StartOffset and EndOffset are byte offsets into the source
	StartOffset int
	EndOffset   int

	// StartLine is the 1-based line the comment starts on
	StartLine int

	// Unterminated is true for a block comment whose closer never
	// appears before end of file
	Unterminated bool
}

// Tokenizer produces the comment blocks of one file in source order.
// It is a single-pass, non-restartable iterator.
type Tokenizer struct {
	src  string
	d    *dialect.Dialect
	pos  int
	line int
	done bool
}

// New creates a tokenizer over src for the given dialect
func New(src string, d *dialect.Dialect) *Tokenizer {
	return &Tokenizer{src: src, d: d, line: 1}
}

// Extract drains a new tokenizer and returns all comment blocks
func Extract(src string, d *dialect.Dialect) []Block {
	t := New(src, d)
	var blocks []Block
	for {
		b, ok := t.Next()
		if !ok {
			break
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// Next returns the next comment block. The second result is false once
// the source is exhausted.
func (t *Tokenizer) Next() (Block, bool) {
	for !t.done && t.pos < len(t.src) {
		lineStart := t.pos
		eol := strings.IndexByte(t.src[t.pos:], '\n')
		lineEnd := len(t.src)
		if eol >= 0 {
			lineEnd = t.pos + eol
		}
		line := t.src[lineStart:lineEnd]

		// Block openers only count at line start after whitespace.
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		trimmed := line[indent:]
		if pair, ok := t.matchOpener(trimmed); ok {
			return t.readBlock(lineStart+indent, pair), true
		}

		// Line-comment markers count anywhere on the line.
		if idx, ok := t.matchLinePrefix(line); ok {
			b := Block{
				Kind:        KindLine,
				Text:        line[idx:],
				StartOffset: lineStart + idx,
				EndOffset:   lineEnd,
				StartLine:   t.line,
			}
			t.advanceLine(lineEnd)
			return b, true
		}

		t.advanceLine(lineEnd)
	}
	t.done = true
	return Block{}, false
}

// matchOpener reports whether the trimmed line begins with one of the
// dialect's block openers
func (t *Tokenizer) matchOpener(trimmed string) (dialect.BlockPair, bool) {
	for _, pair := range t.d.BlockPairs {
		if strings.HasPrefix(trimmed, pair.Open) {
			return pair, true
		}
	}
	return dialect.BlockPair{}, false
}

// matchLinePrefix finds the earliest line-comment marker on the line,
// preferring the longest marker at that position
func (t *Tokenizer) matchLinePrefix(line string) (int, bool) {
	best := -1
	for _, prefix := range t.d.LinePrefixes {
		if idx := strings.Index(line, prefix); idx >= 0 && (best < 0 || idx < best) {
			best = idx
		}
	}
	return best, best >= 0
}

// readBlock consumes a block comment starting at the opener offset.
// Blocks do not nest: the first closer wins. After the closer the rest
// of its line is skipped, so trailing code on the same line is ignored.
func (t *Tokenizer) readBlock(start int, pair dialect.BlockPair) Block {
	startLine := t.line
	searchFrom := start + len(pair.Open)

	idx := strings.Index(t.src[searchFrom:], pair.Close)
	if idx < 0 {
		// No closer before EOF. Keep the truncated text so declarations
		// inside it are still visible to the parser; the caller reports
		// the malformed comment as a diagnostic.
		b := Block{
			Kind:         KindBlock,
			Text:         t.src[start:],
			StartOffset:  start,
			EndOffset:    len(t.src),
			StartLine:    startLine,
			Unterminated: true,
		}
		t.line += strings.Count(t.src[t.pos:], "\n")
		t.pos = len(t.src)
		t.done = true
		return b
	}

	end := searchFrom + idx + len(pair.Close)
	b := Block{
		Kind:        KindBlock,
		Text:        t.src[start:end],
		StartOffset: start,
		EndOffset:   end,
		StartLine:   startLine,
	}

	// Advance past the closer to the start of the next line.
	next := end
	if nl := strings.IndexByte(t.src[end:], '\n'); nl >= 0 {
		next = end + nl + 1
	} else {
		next = len(t.src)
	}
	t.line += strings.Count(t.src[t.pos:next], "\n")
	t.pos = next
	return b
}

// advanceLine moves the cursor to the start of the next line
func (t *Tokenizer) advanceLine(lineEnd int) {
	if lineEnd >= len(t.src) {
		t.pos = len(t.src)
		t.done = true
		return
	}
	t.pos = lineEnd + 1
	t.line++
}
