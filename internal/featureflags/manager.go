// Package featureflags evaluates FEATURE_FLAGS, a comma separated list of
// name=setting pairs such as "strict_answers=on,new_review_ui=25%".
package featureflags

import (
	"hash/fnv"
	"slices"
	"strconv"
	"strings"
)

// StrictAnswers makes submission reject unknown answer keys and blank
// required questions.
const StrictAnswers = "strict_answers"

// Known describes the flags this build reads.
var Known = map[string]string{
	StrictAnswers: "Reject unknown answer keys and blank required questions on submit.",
}

// rule is a parsed setting. pct is 0 for off and 100 for on.
type rule struct {
	setting string
	pct     int
}

// Manager holds the parsed flag settings. A nil Manager reports every flag off.
type Manager struct {
	rules map[string]rule
}

// NewManager parses raw. Malformed pairs and unrecognised settings are skipped.
func NewManager(raw string) *Manager {
	m := &Manager{rules: make(map[string]rule)}
	for _, pair := range strings.Split(raw, ",") {
		name, setting, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, setting = normalize(name), normalize(setting)
		if name == "" {
			continue
		}
		if pct, ok := parseSetting(setting); ok {
			m.rules[name] = rule{setting: setting, pct: pct}
		}
	}
	return m
}

func parseSetting(s string) (int, bool) {
	switch s {
	case "on", "true", "1":
		return 100, true
	case "off", "false", "0":
		return 0, true
	}
	pct, err := strconv.Atoi(strings.TrimSuffix(s, "%"))
	if !strings.HasSuffix(s, "%") || err != nil {
		return 0, false
	}
	return min(max(pct, 0), 100), true
}

// Enabled reports whether name is on for the Discord user externalID.
// Percentage rollouts bucket users deterministically and never match an
// empty externalID.
func (m *Manager) Enabled(name, externalID string) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	switch {
	case !ok || r.pct == 0:
		return false
	case r.pct == 100:
		return true
	case externalID == "":
		return false
	}
	return bucket(name, externalID) < r.pct
}

// EnabledGlobally reports whether name is fully on.
func (m *Manager) EnabledGlobally(name string) bool {
	return m.Enabled(name, "")
}

// FlagState is one row of the admin flag listing.
type FlagState struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Setting     string `json:"setting"`
	Enabled     bool   `json:"enabled"`
}

// Describe lists known and configured flags, sorted by name, evaluated for
// externalID. Known flags with no setting show as "off".
func (m *Manager) Describe(externalID string) []FlagState {
	names := make([]string, 0, len(Known))
	for name := range Known {
		names = append(names, name)
	}
	if m != nil {
		for name := range m.rules {
			if _, known := Known[name]; !known {
				names = append(names, name)
			}
		}
	}
	slices.Sort(names)

	out := make([]FlagState, 0, len(names))
	for _, name := range names {
		setting := "off"
		if m != nil {
			if r, ok := m.rules[name]; ok {
				setting = r.setting
			}
		}
		out = append(out, FlagState{
			Name:        name,
			Description: Known[name],
			Setting:     setting,
			Enabled:     m.Enabled(name, externalID),
		})
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name, externalID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalize(name) + ":" + externalID))
	return int(h.Sum32() % 100)
}
