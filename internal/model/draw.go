package model

import "time"

// Set for Life draws 7 winning numbers and 2 bonus numbers from 1..44.
const (
	MaxNumber    = 44
	WinningCount = 7
	BonusCount   = 2
	DrawnCount   = WinningCount + BonusCount

	// MinDrawsForAnalysis is the smallest archive any analysis runs on;
	// below it every component returns neutral defaults.
	MinDrawsForAnalysis = 10
)

// Draw is one historical lottery draw. Immutable once loaded from the archive.
type Draw struct {
	Index   int       `json:"draw"`
	Date    time.Time `json:"date"`
	Winning [7]int    `json:"winning"`
	Bonus   [2]int    `json:"bonus"`
}

// AllNumbers returns the 7 winning numbers followed by the 2 bonus numbers.
func (d *Draw) AllNumbers() []int {
	nums := make([]int, 0, DrawnCount)
	nums = append(nums, d.Winning[:]...)
	nums = append(nums, d.Bonus[:]...)
	return nums
}

// Contains reports whether n appears among the draw's 9 drawn numbers.
func (d *Draw) Contains(n int) bool {
	for _, w := range d.Winning {
		if w == n {
			return true
		}
	}
	for _, b := range d.Bonus {
		if b == n {
			return true
		}
	}
	return false
}

// ValidNumber reports whether n is inside the playable range.
func ValidNumber(n int) bool {
	return n >= 1 && n <= MaxNumber
}
