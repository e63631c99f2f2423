package analysis

import "unicode/utf8"

// TypingSpeed returns characters per second for a message typed between
// startMS and endMS (Unix milliseconds). The second return value is false
// when the window is non-positive, in which case the sample must be skipped
// rather than recorded as zero.
func TypingSpeed(text string, startMS, endMS int64) (float64, bool) {
	durationMS := endMS - startMS
	if durationMS <= 0 {
		return 0, false
	}
	chars := utf8.RuneCountInString(text)
	return float64(chars) / (float64(durationMS) / 1000.0), true
}
