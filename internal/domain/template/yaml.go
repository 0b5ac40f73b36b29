package template

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"practiceplan/internal/domain/practice"
)

// document is the on-disk YAML shape for sharing templates between teams.
type document struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Duration    int                `yaml:"duration_minutes,omitempty"`
	Activities  []activityDocument `yaml:"activities"`
}

type activityDocument struct {
	Name     string   `yaml:"name"`
	Duration int      `yaml:"duration_minutes"`
	Notes    string   `yaml:"notes,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
}

// MarshalYAML renders the template as a shareable YAML document.
// Tag IDs are replaced by names via tagName; IDs without a name are dropped.
func (t *Template) MarshalYAML(tagName func(id string) (string, bool)) ([]byte, error) {
	doc := document{
		Name:        t.Name,
		Description: t.Description,
		Duration:    t.DurationMinutes,
	}
	for _, a := range t.Activities {
		ad := activityDocument{Name: a.Name, Duration: a.DurationMinutes, Notes: a.Notes}
		for _, id := range a.TagIDs {
			if name, ok := tagName(id); ok {
				ad.Tags = append(ad.Tags, name)
			}
		}
		doc.Activities = append(doc.Activities, ad)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshal template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal template: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseYAML reads a template document. Tag names are returned per activity
// so the caller can resolve them to team tag IDs.
// POST: returned template has no ID or TeamID; TagIDs are empty
func ParseYAML(data []byte) (Template, [][]string, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Template{}, nil, fmt.Errorf("parse template: %w", err)
	}
	t := Template{
		Name:            doc.Name,
		Description:     doc.Description,
		DurationMinutes: doc.Duration,
	}
	tagNames := make([][]string, 0, len(doc.Activities))
	for _, ad := range doc.Activities {
		t.Activities = append(t.Activities, practice.Activity{
			Name:            ad.Name,
			DurationMinutes: ad.Duration,
			Notes:           ad.Notes,
		})
		tagNames = append(tagNames, ad.Tags)
	}
	return t, tagNames, nil
}
