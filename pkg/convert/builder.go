package convert

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gardar/altoconv/pkg/alto"
	"github.com/gardar/altoconv/pkg/source"
)

// builder produces one output unit. It owns the unit's style registry,
// confidence accumulator and id counters; nothing is shared between units.
type builder struct {
	opts      Options
	unit      string // Unit name, also the id namespace source
	ns        string // Sanitized id namespace
	textTypes map[string]bool
	log       logrus.FieldLogger

	styles  *StyleRegistry
	conf    Confidence
	average float64 // Finalized confidence
	stage   Stage

	textBlockCount int
	textLineCount  int
	stringCount    int
	correctedWords int
	skippedLines   int
	skippedNonText int
}

func newBuilder(unit string, opts Options) *builder {
	types := make(map[string]bool, len(opts.TextBlockTypes))
	for _, t := range opts.TextBlockTypes {
		types[t] = true
	}
	return &builder{
		opts:      opts,
		unit:      unit,
		ns:        idNamespace(unit),
		textTypes: types,
		log:       opts.logger().WithField("unit", unit),
		styles:    NewStyleRegistry(opts.NormalizeFontSize),
	}
}

// advance moves the unit to the next stage
func (b *builder) advance(next Stage) error {
	if !b.stage.canAdvance(next) {
		return &UnitError{
			Unit:  b.unit,
			Stage: b.stage,
			Err:   fmt.Errorf("cannot move from %s to %s", b.stage, next),
		}
	}
	b.stage = next
	return nil
}

// fail wraps err with the unit's current stage and the given location
func (b *builder) fail(err error, page, block, line int) error {
	return &UnitError{
		Unit:  b.unit,
		Stage: b.stage,
		Page:  page,
		Block: block,
		Line:  line,
		Err:   err,
	}
}

// stats reports the unit's counters
func (b *builder) stats() Stats {
	return Stats{
		TextBlocks:     b.textBlockCount,
		TextLines:      b.textLineCount,
		Strings:        b.stringCount,
		Styles:         b.styles.Len(),
		Characters:     b.conf.Count(),
		SkippedBlocks:  b.skippedNonText,
		SkippedLines:   b.skippedLines,
		CorrectedWords: b.correctedWords,
	}
}

// build converts the given pages into one ALTO document
func (b *builder) build(doc *source.Document, pages []source.Page) (*alto.Alto, error) {
	result := &alto.Alto{}

	if err := b.advance(StageHeaderEmitted); err != nil {
		return nil, err
	}
	result.Description = buildDescription(doc, b.opts)

	if err := b.advance(StageLayoutOpened); err != nil {
		return nil, err
	}
	for _, p := range pages {
		page, err := b.page(p)
		if err != nil {
			return nil, err
		}
		result.Layout.Pages = append(result.Layout.Pages, page)
	}

	if err := b.advance(StageConfidenceFinalized); err != nil {
		return nil, err
	}
	b.average = b.conf.Finalize()
	result.Description.Processing.Step.Settings = confidenceSettings(b.average)

	if err := b.advance(StageStylesAttached); err != nil {
		return nil, err
	}
	result.Styles = b.styles.Records()

	b.log.WithFields(logrus.Fields{
		"pages":      len(pages),
		"blocks":     b.textBlockCount,
		"lines":      b.textLineCount,
		"strings":    b.stringCount,
		"styles":     b.styles.Len(),
		"characters": b.conf.Count(),
		"confidence": b.average,
	}).Debug("unit built")

	return result, nil
}

// page converts one source page: the print space is the aggregate of the
// text blocks, which are then emitted in source order.
func (b *builder) page(p source.Page) (alto.Page, error) {
	if err := b.advance(StagePageOpened); err != nil {
		return alto.Page{}, err
	}
	page := alto.Page{
		ID:              fmt.Sprintf("Page_%d", p.Index),
		Width:           p.Width,
		Height:          p.Height,
		PhysicalImageNr: p.Index,
	}

	var textBlocks []int
	var boxes []source.Box
	for i, blk := range p.Blocks {
		if !b.textTypes[blk.Type] {
			b.skippedNonText++
			b.log.WithFields(logrus.Fields{"page": p.Index, "block": i + 1, "type": blk.Type}).Debug("skipping non-text block")
			continue
		}
		if !blk.Box.Valid() {
			return page, b.fail(fmt.Errorf("%w: block edges %+v", ErrInvalidGeometry, blk.Box), p.Index, i+1, 0)
		}
		textBlocks = append(textBlocks, i)
		boxes = append(boxes, blk.Box)
	}

	if err := b.advance(StagePrintSpaceComputed); err != nil {
		return page, err
	}
	ps := alto.PrintSpace{ID: fmt.Sprintf("PrintSpace_%d", p.Index)}
	if len(boxes) == 0 {
		ps.Empty = true
		b.log.WithField("page", p.Index).Debug("page has no text blocks")
	} else {
		box, err := Aggregate(boxes...)
		if err != nil {
			return page, b.fail(err, p.Index, 0, 0)
		}
		ps.Box = toALTO(box)
	}

	for _, i := range textBlocks {
		tb, err := b.textBlock(p.Blocks[i], p.Index, i+1)
		if err != nil {
			return page, err
		}
		ps.TextBlocks = append(ps.TextBlocks, tb)
	}
	if err := b.advance(StageTextBlocksEmitted); err != nil {
		return page, err
	}

	page.PrintSpace = ps
	return page, nil
}

// textBlock emits a block using its own stored edges. A block without any
// line that yields strings is kept and marked empty.
func (b *builder) textBlock(blk source.Block, pageIndex, blockIndex int) (alto.TextBlock, error) {
	b.textBlockCount++
	blockNo := b.textBlockCount

	box, err := Aggregate(blk.Box)
	if err != nil {
		return alto.TextBlock{}, b.fail(err, pageIndex, blockIndex, 0)
	}
	tb := alto.TextBlock{
		ID:  fmt.Sprintf("%s_TextBlock_%d", b.ns, blockNo),
		Box: toALTO(box),
	}

	lineIndex := 0
	for _, par := range blk.Paragraphs {
		for _, line := range par.Lines {
			lineIndex++
			tl, ok, err := b.textLine(line, blockNo)
			if err != nil {
				return tb, b.fail(err, pageIndex, blockIndex, lineIndex)
			}
			if !ok {
				b.skippedLines++
				b.log.WithFields(logrus.Fields{"page": pageIndex, "block": blockIndex, "line": lineIndex}).Debug("skipping line without content")
				continue
			}
			tb.Lines = append(tb.Lines, tl)
		}
	}

	tb.Empty = len(tb.Lines) == 0
	return tb, nil
}

// styledWord is a segmented word with the style of its run
type styledWord struct {
	Word
	style string
}

// textLine segments each formatting run of the line into strings. The line
// box is the aggregate of the emitted strings; ok is false when the line
// produced none.
func (b *builder) textLine(line source.Line, blockNo int) (alto.TextLine, bool, error) {
	var words []styledWord
	for _, run := range line.Runs {
		seg, err := Segment(run.Chars, &b.conf)
		if err != nil {
			return alto.TextLine{}, false, err
		}
		if len(seg.Words) == 0 {
			continue
		}
		b.correctedWords += seg.Corrected
		if seg.Corrected > 0 {
			b.log.WithField("words", seg.Corrected).Debug("word corners inverted, using aggregate geometry")
		}
		style := b.styles.Intern(run)
		for _, w := range seg.Words {
			words = append(words, styledWord{Word: w, style: style})
		}
	}
	if len(words) == 0 {
		return alto.TextLine{}, false, nil
	}

	b.textLineCount++
	lineID := fmt.Sprintf("%s_TextLine_%d_%d", b.ns, blockNo, b.textLineCount)
	suffix := fmt.Sprintf("%d_%d", blockNo, b.textLineCount)

	boxes := make([]source.Box, 0, len(words))
	strs := make([]alto.String, 0, len(words))
	for _, w := range words {
		b.stringCount++
		strs = append(strs, alto.String{
			ID:        fmt.Sprintf("%s_String_%s_%d", b.ns, suffix, b.stringCount),
			Content:   w.Text,
			StyleRefs: w.style,
			Box:       toALTO(w.Box),
			Space: alto.SP{
				ID:  fmt.Sprintf("%s_SP_%s_%d", b.ns, suffix, b.stringCount),
				Box: toALTO(w.Space),
			},
		})
		boxes = append(boxes, w.Box)
	}

	box, err := Aggregate(boxes...)
	if err != nil {
		return alto.TextLine{}, false, err
	}
	return alto.TextLine{
		ID:      lineID,
		Box:     toALTO(box),
		Strings: strs,
	}, true, nil
}
