package profile

import (
	"encoding/json"
	"strings"

	"digital-twin-be/pkg/store"
)

// truncateAt is the cap applied to long free-text fields when rendering the
// profile for an LLM prompt.
const truncateAt = 200

// Memory is the long-term memory of the digital twin: every static fact
// about the portfolio owner, queryable by category or free text.
type Memory struct {
	data       Profile
	categories map[string]json.RawMessage
}

func (m *Memory) Owner() Owner                   { return m.data.Owner }
func (m *Memory) Education() []Education         { return m.data.Education }
func (m *Memory) Skills() []Skill                { return m.data.Skills }
func (m *Memory) Publications() []Publication    { return m.data.Publications }
func (m *Memory) Experiences() []Experience      { return m.data.Experiences }
func (m *Memory) Projects() []Project            { return m.data.Projects }
func (m *Memory) Awards() []Award                { return m.data.Awards }
func (m *Memory) OtherExperiences() []Experience { return m.data.OtherExperiences }

// Search returns, per category, the items whose JSON representation contains
// the query as a case-insensitive substring.
func (m *Memory) Search(query string) map[string][]json.RawMessage {
	queryLower := strings.ToLower(query)
	results := make(map[string][]json.RawMessage)

	for category, raw := range m.categories {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			// Non-list categories like owner are skipped
			continue
		}

		var matching []json.RawMessage
		for _, item := range items {
			if strings.Contains(strings.ToLower(string(item)), queryLower) {
				matching = append(matching, item)
			}
		}
		if len(matching) > 0 {
			results[category] = matching
		}
	}

	return results
}

// ContextForLLM renders the whole profile as a markdown block for inclusion
// in a generation prompt.
func (m *Memory) ContextForLLM() string {
	var sections []string

	if len(m.data.Education) > 0 {
		sections = append(sections, "## Education")
		for _, edu := range m.data.Education {
			sections = append(sections, "- "+edu.Degree+" at "+edu.School+" ("+edu.Time+")")
			if edu.Description != "" {
				sections = append(sections, "  "+edu.Description)
			}
		}
	}

	if len(m.data.Skills) > 0 {
		sections = append(sections, "\n## Skills")
		for _, skill := range m.data.Skills {
			sections = append(sections, "- "+skill.Title+": "+skill.Description)
		}
	}

	if len(m.data.Publications) > 0 {
		sections = append(sections, "\n## Publications")
		for _, pub := range m.data.Publications {
			sections = append(sections, "- "+pub.Title+" ("+pub.Time+")")
			sections = append(sections, "  Authors: "+pub.Authors)
			sections = append(sections, "  Journal: "+pub.Journal)
			if pub.Abstract != "" {
				sections = append(sections, "  Abstract: "+truncate(pub.Abstract))
			}
		}
	}

	if len(m.data.Experiences) > 0 {
		sections = append(sections, "\n## Work Experiences")
		for _, exp := range m.data.Experiences {
			sections = append(sections, "- "+exp.Title+" at "+exp.Company+" ("+exp.Time+")")
			if exp.Description != "" {
				sections = append(sections, "  "+truncate(exp.Description))
			}
		}
	}

	if len(m.data.Projects) > 0 {
		sections = append(sections, "\n## Projects")
		for _, proj := range m.data.Projects {
			sections = append(sections, "- "+proj.Title+" ("+proj.Time+")")
			if proj.Description != "" {
				sections = append(sections, "  "+truncate(proj.Description))
			}
		}
	}

	if len(m.data.Awards) > 0 {
		sections = append(sections, "\n## Awards & Honors")
		for _, award := range m.data.Awards {
			sections = append(sections, "- "+award.Title+" ("+award.Time+")")
		}
	}

	return strings.Join(sections, "\n")
}

// SiteLinks lists every page the response generator may link to: the main
// site pages, the CV sections, and any publication or project with its own
// URL.
func (m *Memory) SiteLinks() []store.SiteLink {
	links := []store.SiteLink{
		{Label: "Home", Href: "/"},
		{Label: "Papers", Href: "/papers"},
		{Label: "Research", Href: "/research"},
		{Label: "CV", Href: "/cv"},
		{Label: "Education", Href: "/cv#education"},
		{Label: "Experiences", Href: "/cv#experiences"},
		{Label: "Projects", Href: "/cv#projects"},
		{Label: "Awards", Href: "/cv#awards"},
		{Label: "Skills", Href: "/cv#skills"},
	}

	for _, pub := range m.data.Publications {
		if pub.Title != "" && pub.Link != "" {
			links = append(links, store.SiteLink{Label: pub.Title, Href: pub.Link})
		}
	}
	for _, proj := range m.data.Projects {
		if proj.Title != "" && proj.Link != "" {
			links = append(links, store.SiteLink{Label: proj.Title, Href: proj.Link})
		}
	}

	return links
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= truncateAt {
		return s
	}
	return string(runes[:truncateAt]) + "..."
}
