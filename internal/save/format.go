package save

import "strconv"

// Documents store floats with exactly six decimal places; the game writes
// them that way and diffs stay minimal when we match it.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// Operating time is modeled in minutes but stored in the document scale,
// a factor of 60 larger.
func formatMinutes(min float64) string {
	return formatFloat(min * 60)
}
