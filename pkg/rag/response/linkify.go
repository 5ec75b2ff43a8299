package response

import (
	"regexp"
	"strings"

	"digital-twin-be/pkg/store"
)

const anchorClass = "text-blue-600 underline font-bold hover:text-blue-800"

var (
	markerPattern = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)
	anchorPattern = regexp.MustCompile(`(?s)<a\b[^>]*>.*?</a>`)
)

// Linkify converts site references in generated text into HTML anchors.
// Two passes: explicit [[Label]] markers first, then bare exact-label
// mentions in the text outside existing anchors. Unrecognized markers are
// unwrapped to plain text. Running Linkify twice is a no-op because labels
// already inside anchors are never rewrapped.
func Linkify(text string, links []store.SiteLink) string {
	hrefs := make(map[string]string, len(links))
	for _, link := range links {
		hrefs[link.Label] = link.Href
	}

	result := markerPattern.ReplaceAllStringFunc(text, func(marker string) string {
		label := markerPattern.FindStringSubmatch(marker)[1]
		href, ok := hrefs[label]
		if !ok {
			return label
		}
		return anchor(label, href)
	})

	for _, link := range links {
		result = replaceOutsideAnchors(result, link.Label, anchor(link.Label, link.Href))
	}

	return result
}

func anchor(label, href string) string {
	if strings.HasPrefix(href, "http") {
		return `<a href="` + href + `" target="_blank" rel="noopener noreferrer" class="` + anchorClass + `">` + label + `</a>`
	}
	return `<a href="` + href + `" class="` + anchorClass + `">` + label + `</a>`
}

// replaceOutsideAnchors substitutes whole-word label occurrences in the
// segments of text not covered by an existing anchor tag, so "paperwork"
// never matches the label "Papers" and already-linked labels stay untouched.
func replaceOutsideAnchors(text, label, replacement string) string {
	// \b only bounds ASCII word characters, so labels containing Hangul or
	// ending in punctuation never bare-match here. Those labels still link
	// when the model emits them as explicit [[Label]] markers.
	labelPattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(label) + `\b`)

	var b strings.Builder
	last := 0
	for _, loc := range anchorPattern.FindAllStringIndex(text, -1) {
		b.WriteString(labelPattern.ReplaceAllLiteralString(text[last:loc[0]], replacement))
		b.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(labelPattern.ReplaceAllLiteralString(text[last:], replacement))
	return b.String()
}
