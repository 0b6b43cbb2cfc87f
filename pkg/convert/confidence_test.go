package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceFinalize(t *testing.T) {
	var c Confidence
	assert.Equal(t, 0.0, c.Finalize())

	for _, v := range []float64{90, 80, 100} {
		c.Record(v)
	}
	assert.Equal(t, 90.0, c.Finalize())
	assert.Equal(t, 3, c.Count())
	assert.Equal(t, 270.0, c.Total())

	c.Reset()
	assert.Equal(t, 0, c.Count())
	assert.Equal(t, 0.0, c.Finalize())
}

func TestConfidenceRounding(t *testing.T) {
	var c Confidence
	for _, v := range []float64{90, 91, 91} {
		c.Record(v)
	}
	assert.Equal(t, 90.67, c.Finalize())
}

func TestConfidenceSettings(t *testing.T) {
	assert.Equal(t, "OCR Average Character Confidence 90%", confidenceSettings(90))
	assert.Equal(t, "OCR Average Character Confidence 87.6%", confidenceSettings(87.6))
	assert.Equal(t, "OCR Average Character Confidence 0%", confidenceSettings(0))
}

func TestStageTransitions(t *testing.T) {
	assert.True(t, StageNew.canAdvance(StageHeaderEmitted))
	assert.True(t, StageTextBlocksEmitted.canAdvance(StagePageOpened))
	assert.True(t, StageTextBlocksEmitted.canAdvance(StageConfidenceFinalized))
	assert.False(t, StageNew.canAdvance(StageLayoutOpened))
	assert.False(t, StageSerialized.canAdvance(StageNew))
	assert.False(t, StageStylesAttached.canAdvance(StageConfidenceFinalized))

	assert.Equal(t, "print space computed", StagePrintSpaceComputed.String())
	assert.Equal(t, "stage(42)", Stage(42).String())
}
