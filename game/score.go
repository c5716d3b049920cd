package game

import "fmt"

// Efficiency rates a finished game
type Efficiency string

const (
	Excellent Efficiency = "Excellent"
	Good      Efficiency = "Good"
	Average   Efficiency = "Average"
	Poor      Efficiency = "Poor"
)

// EfficiencyScore is moves plus a tenth of the seconds taken; lower is better
func EfficiencyScore(moves, seconds int) float64 {
	return float64(moves) + float64(seconds)/10
}

// Rate buckets the efficiency score
func Rate(moves, seconds int) Efficiency {
	score := EfficiencyScore(moves, seconds)
	switch {
	case score < 20:
		return Excellent
	case score < 30:
		return Good
	case score < 40:
		return Average
	default:
		return Poor
	}
}

// FormatTime renders seconds as mm:ss
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
