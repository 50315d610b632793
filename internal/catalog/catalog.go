// Package catalog holds the application-type templates that define which
// questions each application type asks.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"guildapply/internal/models"

	"gopkg.in/yaml.v3"
)

// Question is one prompt in a template.
type Question struct {
	ID       string `yaml:"id" json:"id"`
	Type     string `yaml:"type" json:"type"`
	Label    string `yaml:"label" json:"label"`
	Optional bool   `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// Template is the named question set for one application type.
type Template struct {
	Name      string     `yaml:"name" json:"name"`
	Questions []Question `yaml:"questions" json:"questions"`
}

type fileFormat struct {
	Types []struct {
		Key      string `yaml:"key"`
		Template `yaml:",inline"`
	} `yaml:"types"`
}

// Catalog is an immutable set of templates keyed by application type.
type Catalog struct {
	keys      []string
	templates map[string]Template
}

// Default returns the built-in general, moderator and developer templates.
func Default() *Catalog {
	c := &Catalog{templates: map[string]Template{}}
	c.add("general", Template{
		Name: "General Application",
		Questions: []Question{
			{ID: "experience", Type: "textarea", Label: "Describe your relevant experience:"},
			{ID: "why_us", Type: "textarea", Label: "Why do you want to join us?"},
		},
	})
	c.add("moderator", Template{
		Name: "Moderator Application",
		Questions: []Question{
			{ID: "mod_experience", Type: "textarea", Label: "What is your experience with moderation?"},
			{ID: "scenarios", Type: "textarea", Label: "How would you handle a conflict between two members?"},
			{ID: "availability", Type: "text", Label: "What is your typical availability:"},
		},
	})
	c.add("developer", Template{
		Name: "Developer Application",
		Questions: []Question{
			{ID: "dev_skills", Type: "textarea", Label: "List your programming languages and skills:"},
			{ID: "portfolio", Type: "text", Label: "Link to your portfolio/GitHub:"},
			{ID: "project_idea", Type: "textarea", Label: "Describe a project you'd like to work on:"},
		},
	})
	return c
}

// Load reads templates from a YAML file. An empty path yields Default().
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read application types: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML of the form `types: [{key, name, questions}]`.
func Parse(data []byte) (*Catalog, error) {
	var raw fileFormat
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse application types: %w", err)
	}
	if len(raw.Types) == 0 {
		return nil, fmt.Errorf("application types file defines no types")
	}

	c := &Catalog{templates: map[string]Template{}}
	for _, t := range raw.Types {
		key := strings.TrimSpace(t.Key)
		if key == "" {
			return nil, fmt.Errorf("application type is missing a key")
		}
		if _, dup := c.templates[key]; dup {
			return nil, fmt.Errorf("application type %q defined twice", key)
		}
		if t.Name == "" {
			return nil, fmt.Errorf("application type %q: name is required", key)
		}
		seen := map[string]struct{}{}
		for i, q := range t.Questions {
			if q.ID == "" {
				return nil, fmt.Errorf("application type %q: question %d has no id", key, i)
			}
			if _, dup := seen[q.ID]; dup {
				return nil, fmt.Errorf("application type %q: question id %q repeated", key, q.ID)
			}
			seen[q.ID] = struct{}{}
			if t.Questions[i].Type == "" {
				t.Questions[i].Type = "textarea"
			}
		}
		c.add(key, t.Template)
	}
	return c, nil
}

func (c *Catalog) add(key string, t Template) {
	c.keys = append(c.keys, key)
	c.templates[key] = t
}

// Keys returns the application types in definition order.
func (c *Catalog) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Lookup returns the template for key.
func (c *Catalog) Lookup(key string) (Template, bool) {
	t, ok := c.templates[key]
	return t, ok
}

// All returns a copy of every template keyed by type.
func (c *Catalog) All() map[string]Template {
	out := make(map[string]Template, len(c.templates))
	for k, v := range c.templates {
		out[k] = v
	}
	return out
}

// Validate checks answers against the template for applicationType.
// Only the type is checked unless strict is set, in which case unknown keys
// and blank required answers are rejected too.
func (c *Catalog) Validate(applicationType string, answers map[string]string, strict bool) error {
	t, ok := c.templates[applicationType]
	if !ok {
		return models.NewValidationError("Invalid application type.")
	}
	if !strict {
		return nil
	}

	known := make(map[string]struct{}, len(t.Questions))
	for _, q := range t.Questions {
		known[q.ID] = struct{}{}
		if q.Optional {
			continue
		}
		if strings.TrimSpace(answers[q.ID]) == "" {
			return models.NewValidationError("Please answer: " + q.Label)
		}
	}

	var unknown []string
	for key := range answers {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return models.NewValidationError("Unknown answer fields: " + strings.Join(unknown, ", "))
	}
	return nil
}
