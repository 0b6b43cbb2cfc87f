package convert

import "fmt"

// Stage is the position of a unit in its build sequence
type Stage int

const (
	StageNew Stage = iota
	StageHeaderEmitted
	StageLayoutOpened
	StagePageOpened
	StagePrintSpaceComputed
	StageTextBlocksEmitted
	StageConfidenceFinalized
	StageStylesAttached
	StageSerialized
)

var stageNames = map[Stage]string{
	StageNew:                 "new",
	StageHeaderEmitted:       "header emitted",
	StageLayoutOpened:        "layout opened",
	StagePageOpened:          "page opened",
	StagePrintSpaceComputed:  "print space computed",
	StageTextBlocksEmitted:   "text blocks emitted",
	StageConfidenceFinalized: "confidence finalized",
	StageStylesAttached:      "styles attached",
	StageSerialized:          "serialized",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// canAdvance reports whether next may follow s. Stages are strictly
// sequential, except that a document unit opens another page after the
// previous page's text blocks were emitted.
func (s Stage) canAdvance(next Stage) bool {
	if next == s+1 {
		return true
	}
	return s == StageTextBlocksEmitted && next == StagePageOpened
}
