package interpreter

import "strings"

const fenceMarker = "```"

// Block is one complete fenced region of a response
type Block struct {
	Tag   string // language tag as written, may be empty
	Body  string // everything between the tag line and the closing marker
	Start int    // offset of the opening marker
	End   int    // offset just past the closing marker
}

type scanState int

const (
	outsideFence scanState = iota
	inFenceReadingTag
	inFenceReadingBody
)

// ScanBlocks returns every complete fenced block in order of appearance.
// An opening marker without a matching close is ignored.
func ScanBlocks(text string) []Block {
	return scan(text, func(string) bool { return true }, 0)
}

// FirstTagged returns the first complete block whose tag equals tag,
// compared case-insensitively.
func FirstTagged(text, tag string) (Block, bool) {
	blocks := scan(text, func(t string) bool { return strings.EqualFold(t, tag) }, 1)
	if len(blocks) == 0 {
		return Block{}, false
	}
	return blocks[0], true
}

// scan walks the text once. When an opening marker turns out not to start an
// accepted block (bad tag, no newline) the scan resumes one byte after it, so a
// longer run of backticks can still open a block further right. A body ends at
// the first following marker; reaching the end of text inside a fence drops it.
func scan(text string, accept func(tag string) bool, limit int) []Block {
	var (
		blocks    []Block
		state     = outsideFence
		open      int
		tagStart  int
		tag       string
		bodyStart int
	)

	i := 0
	for i < len(text) {
		switch state {
		case outsideFence:
			if strings.HasPrefix(text[i:], fenceMarker) {
				open = i
				i += len(fenceMarker)
				tagStart = i
				state = inFenceReadingTag
				continue
			}
			i++

		case inFenceReadingTag:
			c := text[i]
			switch {
			case c == '\n' || (c == '\r' && i+1 < len(text) && text[i+1] == '\n'):
				tag = text[tagStart:i]
				if !accept(tag) {
					i = open + 1
					state = outsideFence
					continue
				}
				if c == '\r' {
					i++
				}
				i++
				bodyStart = i
				state = inFenceReadingBody
			case isTagByte(c):
				i++
			default:
				i = open + 1
				state = outsideFence
			}

		case inFenceReadingBody:
			if strings.HasPrefix(text[i:], fenceMarker) {
				end := i + len(fenceMarker)
				blocks = append(blocks, Block{
					Tag:   tag,
					Body:  text[bodyStart:i],
					Start: open,
					End:   end,
				})
				if limit > 0 && len(blocks) >= limit {
					return blocks
				}
				i = end
				state = outsideFence
				continue
			}
			i++
		}
	}
	return blocks
}

// isTagByte accepts word characters plus the punctuation found in common
// language names (c++, objective-c, c#, .env).
func isTagByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '+' || c == '-' || c == '#' || c == '.':
		return true
	}
	return false
}
