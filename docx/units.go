package docx

import "math"

// WordprocessingML measures lengths in twips (twentieths of a point),
// font sizes in half-points and table percentages in fiftieths of a
// percent. These helpers centralize the conversions so callers can
// stay in points and centimeters.

// TwipsFromPoints converts a length in points to twips.
func TwipsFromPoints(pt float64) int {
	return int(math.Round(pt * 20))
}

// TwipsFromCm converts a length in centimeters to twips. One inch is
// 1440 twips and 2.54 centimeters.
func TwipsFromCm(cm float64) int {
	return int(math.Round(cm * 1440 / 2.54))
}

// HalfPointsFromPoints converts a font size in points to half-points.
func HalfPointsFromPoints(pt float64) int {
	return int(math.Round(pt * 2))
}

// FiftiethsOfPercent converts a percentage to the fiftieths-of-a-percent
// scale used by w:tblW and w:tcW, where 5000 means 100%.
func FiftiethsOfPercent(pct float64) int {
	return int(math.Round(pct * 50))
}
