package relevance

import "regexp"

// Verdict is the outcome a rule assigns when its pattern matches.
type Verdict int

const (
	// VerdictReject marks the query as off-topic.
	VerdictReject Verdict = iota
	// VerdictAccept marks the query as on-topic.
	VerdictAccept
)

// Rule pairs a compiled pattern with the verdict it produces. Rules are
// evaluated in order, first match wins, so reject rules must come before
// accept rules.
type Rule struct {
	Pattern *regexp.Regexp
	Verdict Verdict
	Reason  string
}

// DefaultRules returns the stock rule set: fast rejection of obviously
// off-topic domains, then fast acceptance of obviously profile-related
// vocabulary. Queries matching neither go to the LLM classifier.
func DefaultRules() []Rule {
	// \b only marks ASCII word boundaries in Go regexp, so Korean terms
	// match as plain substrings.
	reject := []string{
		`\bweather\b|날씨|기온|온도`,
		`\bcooking\b|요리|레시피|음식`,
		`\bsports\b|스포츠|축구|야구|농구`,
		`\bmovie\b|영화|드라마|배우`,
		`\bmusic\b|음악|가수|노래`,
		`\bgame\b|게임|플레이`,
		`\bstock\b|주식|투자|증권`,
		`\bpolitics\b|정치|선거`,
		`\brecipe\b|요리법`,
		`\bhow to cook\b`,
	}

	accept := []string{
		`\bkangbeen\b|고강빈|강빈`,
		`\b(research|paper|publication)\b|연구|논문`,
		`\b(education|degree)\b|교육|학력|학교`,
		`\b(experience|work)\b|경력|직장|회사`,
		`\bproject\b|프로젝트`,
		`\b(skill|programming)\b|기술|능력|개발`,
		`\b(award|prize)\b|수상`,
		`\b(cv|resume)\b|이력서`,
		`\b(background|introduction|about)\b|배경|소개`,
		`\b(what do you|you are|your)\b|당신은|너는`,
		`\b(hello|hi)\b|안녕|인사`,
	}

	rules := make([]Rule, 0, len(reject)+len(accept))
	for _, p := range reject {
		rules = append(rules, Rule{
			Pattern: regexp.MustCompile(p),
			Verdict: VerdictReject,
			Reason:  "Question is clearly unrelated to the profile.",
		})
	}
	for _, p := range accept {
		rules = append(rules, Rule{
			Pattern: regexp.MustCompile(p),
			Verdict: VerdictAccept,
		})
	}
	return rules
}
