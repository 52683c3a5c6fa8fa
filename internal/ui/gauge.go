package ui

import (
	"fmt"
	"math"
	"strings"
)

const (
	filledChar = "■"
	emptyChar  = "□"
)

// gauge renders the completion meter like: ■■■■□□□□ 50%
type gauge struct {
	Percent float64
	Width   int
}

func (g gauge) View() string {
	if g.Width <= 0 {
		return ""
	}
	pct := math.Max(0, math.Min(100, g.Percent))
	filled := int(math.Round(pct / 100 * float64(g.Width)))
	bar := strings.Repeat(filledChar, filled) + strings.Repeat(emptyChar, g.Width-filled)
	return fmt.Sprintf("%s %3.0f%%", bar, pct)
}
