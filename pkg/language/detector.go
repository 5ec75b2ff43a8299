package language

import (
	"strings"
	"unicode"
)

// Supported language codes.
const (
	English = "en"
	Korean  = "ko"
)

// hangulRatioThreshold is the fraction of Hangul characters (among
// alphanumeric + Hangul characters) above which a message is classified as
// Korean. Short Korean utterances below the threshold are caught by the
// indicator-word scan instead.
const hangulRatioThreshold = 0.3

// koreanIndicators are common Korean function words and greetings. Checked
// only after the ratio heuristic, so that short messages like "안녕!" still
// classify as Korean.
var koreanIndicators = []string{
	"안녕", "하세요", "입니다", "있습니다", "없습니다",
	"어떻게", "무엇", "누구", "언제", "어디", "왜",
	"네", "예", "아니요", "감사", "죄송", "실례",
	"질문", "답변", "알려", "말해", "설명", "이해",
}

// Detect classifies a message as English or Korean. It is a pure function:
// empty input defaults to English and there is no failure mode.
func Detect(text string) string {
	if text == "" {
		return English
	}

	// Whitespace counts toward the denominator, so space-heavy mixed text
	// can fall under the threshold and be settled by the indicator scan
	// instead. Korean written normally packs syllables densely enough that
	// this rarely matters.
	hangul := 0
	total := 0
	for _, r := range text {
		switch {
		case isHangul(r):
			hangul++
			total++
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			total++
		}
	}

	if total > 0 && float64(hangul)/float64(total) > hangulRatioThreshold {
		return Korean
	}

	lowered := strings.ToLower(strings.TrimSpace(text))
	for _, indicator := range koreanIndicators {
		if strings.Contains(lowered, indicator) {
			return Korean
		}
	}

	return English
}

// isHangul reports whether r falls in the Hangul syllable, jamo, or
// compatibility-jamo blocks.
func isHangul(r rune) bool {
	return (r >= 0xAC00 && r <= 0xD7A3) || // syllables
		(r >= 0x3131 && r <= 0x318E) || // compatibility jamo
		(r >= 0x1100 && r <= 0x11FF) // jamo
}
