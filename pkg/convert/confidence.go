package convert

import (
	"fmt"
	"math"
	"strconv"
)

// Confidence accumulates character confidence for one output unit
type Confidence struct {
	total float64
	count int
}

// Record adds one character's confidence.
func (c *Confidence) Record(v float64) {
	c.total += v
	c.count++
}

// Finalize returns the average confidence rounded to two decimals, or 0
// when nothing was recorded.
func (c *Confidence) Finalize() float64 {
	if c.count == 0 {
		return 0
	}
	return math.Round(c.total/float64(c.count)*100) / 100
}

// Reset clears the accumulator for the next unit.
func (c *Confidence) Reset() {
	c.total = 0
	c.count = 0
}

// Total returns the summed confidence.
func (c *Confidence) Total() float64 { return c.total }

// Count returns the number of recorded characters.
func (c *Confidence) Count() int { return c.count }

// confidenceSettings renders the processingStepSettings text
func confidenceSettings(avg float64) string {
	return fmt.Sprintf("OCR Average Character Confidence %s%%", strconv.FormatFloat(avg, 'f', -1, 64))
}
