// Package profile holds the portfolio owner's static CV data. The data is
// loaded once at startup and stays constant for the process lifetime.
package profile

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed data/profile.json
var defaultProfileData []byte

type Owner struct {
	Name        string `json:"name"`
	KoreanName  string `json:"koreanName"`
	Affiliation string `json:"affiliation"`
}

type Education struct {
	School      string `json:"school"`
	Time        string `json:"time"`
	Degree      string `json:"degree"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type Skill struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Publication struct {
	Title     string `json:"title"`
	Authors   string `json:"authors"`
	Journal   string `json:"journal"`
	Time      string `json:"time"`
	Link      string `json:"link"`
	Abstract  string `json:"abstract"`
	Highlight bool   `json:"highlight"`
}

type Experience struct {
	Company     string `json:"company"`
	Time        string `json:"time"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type Project struct {
	Title       string `json:"title"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

type Award struct {
	Title       string `json:"title"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

type Profile struct {
	Owner            Owner         `json:"owner"`
	Education        []Education   `json:"education"`
	Skills           []Skill       `json:"skills"`
	Publications     []Publication `json:"publications"`
	Experiences      []Experience  `json:"experiences"`
	Projects         []Project     `json:"projects"`
	Awards           []Award       `json:"awards"`
	OtherExperiences []Experience  `json:"otherExperiences"`
}

// Load builds a Memory from the embedded profile data.
func Load() (*Memory, error) {
	return loadBytes(defaultProfileData)
}

// LoadFile builds a Memory from a JSON file on disk, for deployments that
// override the embedded profile.
func LoadFile(path string) (*Memory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile data: %w", err)
	}
	return loadBytes(raw)
}

func loadBytes(raw []byte) (*Memory, error) {
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse profile data: %w", err)
	}

	var categories map[string]json.RawMessage
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("parse profile categories: %w", err)
	}

	return &Memory{data: p, categories: categories}, nil
}
