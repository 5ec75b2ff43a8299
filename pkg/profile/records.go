package profile

import (
	"fmt"
	"strings"
)

// Record is one profile item rendered as a standalone document for the
// embedding index. Source is stable across runs so re-ingestion replaces
// rather than duplicates.
type Record struct {
	Source   string
	DocType  string
	Summary  string
	Keywords []string
	Content  string
}

// Records flattens every profile section into indexable documents. Each
// item becomes its own record so retrieval can surface a single
// publication or job without dragging in the whole CV.
func (m *Memory) Records() []Record {
	var records []Record

	owner := m.data.Owner
	records = append(records, Record{
		Source:  "owner",
		DocType: "owner",
		Summary: "Who Kangbeen Ko is",
		Keywords: []string{
			owner.Name, owner.KoreanName, owner.Affiliation,
		},
		Content: fmt.Sprintf("Name: %s (%s)\nAffiliation: %s",
			owner.Name, owner.KoreanName, owner.Affiliation),
	})

	for i, e := range m.data.Education {
		records = append(records, Record{
			Source:   fmt.Sprintf("education-%d", i),
			DocType:  "education",
			Summary:  fmt.Sprintf("%s at %s", e.Degree, e.School),
			Keywords: []string{e.School, e.Degree},
			Content: joinLines(
				"School: "+e.School,
				"Degree: "+e.Degree,
				"Period: "+e.Time,
				"Location: "+e.Location,
				"Description: "+e.Description,
			),
		})
	}

	for i, s := range m.data.Skills {
		records = append(records, Record{
			Source:   fmt.Sprintf("skill-%d", i),
			DocType:  "skill",
			Summary:  s.Title,
			Keywords: []string{s.Title},
			Content:  joinLines("Title: "+s.Title, "Description: "+s.Description),
		})
	}

	for i, p := range m.data.Publications {
		records = append(records, Record{
			Source:   fmt.Sprintf("publication-%d", i),
			DocType:  "publication",
			Summary:  fmt.Sprintf("%s (%s)", p.Title, p.Journal),
			Keywords: []string{p.Title, p.Journal},
			Content: joinLines(
				"Title: "+p.Title,
				"Authors: "+p.Authors,
				"Venue: "+p.Journal,
				"Year: "+p.Time,
				"Abstract: "+p.Abstract,
			),
		})
	}

	for i, e := range m.data.Experiences {
		records = append(records, experienceRecord("experience", i, e))
	}
	for i, e := range m.data.OtherExperiences {
		records = append(records, experienceRecord("other-experience", i, e))
	}

	for i, p := range m.data.Projects {
		records = append(records, Record{
			Source:   fmt.Sprintf("project-%d", i),
			DocType:  "project",
			Summary:  p.Title,
			Keywords: []string{p.Title},
			Content: joinLines(
				"Project: "+p.Title,
				"Period: "+p.Time,
				"Description: "+p.Description,
			),
		})
	}

	for i, a := range m.data.Awards {
		records = append(records, Record{
			Source:   fmt.Sprintf("award-%d", i),
			DocType:  "award",
			Summary:  a.Title,
			Keywords: []string{a.Title},
			Content: joinLines(
				"Award: "+a.Title,
				"Year: "+a.Time,
				"Description: "+a.Description,
			),
		})
	}

	return records
}

func experienceRecord(prefix string, i int, e Experience) Record {
	return Record{
		Source:   fmt.Sprintf("%s-%d", prefix, i),
		DocType:  "experience",
		Summary:  fmt.Sprintf("%s at %s", e.Title, e.Company),
		Keywords: []string{e.Company, e.Title},
		Content: joinLines(
			"Organization: "+e.Company,
			"Role: "+e.Title,
			"Period: "+e.Time,
			"Location: "+e.Location,
			"Description: "+e.Description,
		),
	}
}

// joinLines drops lines whose value part is empty so optional fields
// leave no blank "Location:" noise in the document.
func joinLines(lines ...string) string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, value, found := strings.Cut(line, ": "); found && strings.TrimSpace(value) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
