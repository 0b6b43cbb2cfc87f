package convert

import (
	"fmt"
	"strings"

	"github.com/gardar/altoconv/pkg/source"
)

// Word is a segmented string with the synthesized space that follows it
type Word struct {
	Text  string     // Concatenated content characters
	Box   source.Box // String geometry
	Space source.Box // Geometry of the SP node emitted after the string
	Chars int        // Number of content characters in the word
}

// charStream walks a character sequence with one character of lookahead
type charStream struct {
	chars []source.Char
	pos   int
}

func (s *charStream) next() (source.Char, bool) {
	if s.pos >= len(s.chars) {
		return source.Char{}, false
	}
	c := s.chars[s.pos]
	s.pos++
	return c, true
}

func (s *charStream) peek() (source.Char, bool) {
	if s.pos >= len(s.chars) {
		return source.Char{}, false
	}
	return s.chars[s.pos], true
}

// skip consumes the next character, if any
func (s *charStream) skip() {
	if s.pos < len(s.chars) {
		s.pos++
	}
}

// openWord accumulates content characters until a boundary is seen
type openWord struct {
	text  strings.Builder
	chars []source.Char
}

func (w *openWord) add(c source.Char) {
	w.text.WriteString(c.Text)
	w.chars = append(w.chars, c)
}

// close finalizes the word geometry from the first character's top-left and
// the last character's bottom-right corner. When those corners would invert
// the box, the aggregate of the word's characters is used instead.
func (w *openWord) close() (Word, bool, error) {
	first, last := w.chars[0].Box, w.chars[len(w.chars)-1].Box
	box := source.NewBox(first.Left, first.Top, last.Right, last.Bottom)
	corrected := false

	if !box.Valid() {
		boxes := make([]source.Box, 0, len(w.chars))
		for _, c := range w.chars {
			boxes = append(boxes, c.Box)
		}
		agg, err := Aggregate(boxes...)
		if err != nil {
			return Word{}, false, err
		}
		if !agg.Valid() {
			return Word{}, false, fmt.Errorf("%w: word %q has negative extent", ErrMalformedCharacterStream, w.text.String())
		}
		box = agg
		corrected = true
	}

	word := Word{
		Text:  w.text.String(),
		Box:   box,
		Chars: len(w.chars),
	}
	w.text.Reset()
	w.chars = w.chars[:0]
	return word, corrected, nil
}

// Segmentation is the result of splitting one run of characters
type Segmentation struct {
	Words     []Word
	Corrected int // Words whose corner geometry was replaced by the aggregate
}

// Segment splits an ordered character sequence into words. Content
// characters accumulate into the open word and are recorded in conf; a word
// closes when the next character is missing or is a boundary, and that
// boundary is consumed. Boundary characters never contribute text, geometry
// or confidence.
func Segment(chars []source.Char, conf *Confidence) (Segmentation, error) {
	var result Segmentation
	stream := &charStream{chars: chars}
	word := &openWord{}

	for {
		c, ok := stream.next()
		if !ok {
			break
		}
		if c.IsBoundary() {
			continue
		}

		word.add(c)
		if conf != nil {
			conf.Record(c.Confidence)
		}

		next, ok := stream.peek()
		if ok && !next.IsBoundary() {
			continue
		}

		w, corrected, err := word.close()
		if err != nil {
			return result, err
		}
		if corrected {
			result.Corrected++
		}
		result.Words = append(result.Words, w)
		stream.skip()
	}

	placeSpaces(result.Words)
	return result, nil
}

// placeSpaces positions the SP after each word: it starts at the word's
// right edge, spans the word's height and reaches the next word when there
// is one.
func placeSpaces(words []Word) {
	for i := range words {
		b := words[i].Box
		right := b.Right
		if i+1 < len(words) {
			right = max(b.Right, words[i+1].Box.Left)
		}
		words[i].Space = source.NewBox(b.Right, b.Top, right, b.Bottom)
	}
}
