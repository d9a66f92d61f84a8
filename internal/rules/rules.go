// Package rules holds the keyword tables driving exercise classification,
// exercise-to-goal matching, and achievement icon selection. The tables live
// in an embedded YAML ruleset validated against a JSON Schema at load, so
// their coverage is auditable in one place instead of being spread over
// boolean chains.
package rules

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed ruleset.yaml
var rulesetYAML []byte

//go:embed ruleset.schema.json
var rulesetSchema []byte

// Category pairs exercise-name keywords with goal-title keywords. A goal
// matches an exercise when both sides contain a keyword of the same category.
type Category struct {
	Name             string   `yaml:"name"`
	ExerciseKeywords []string `yaml:"exercise_keywords"`
	GoalKeywords     []string `yaml:"goal_keywords"`
}

// IconRule maps goal-title keywords to an achievement icon.
type IconRule struct {
	Keywords []string `yaml:"keywords"`
	Icon     string   `yaml:"icon"`
}

// Ruleset is the full decoded keyword table set.
type Ruleset struct {
	SchemaVersion          string     `yaml:"schema_version"`
	CardioKeywords         []string   `yaml:"cardio_keywords"`
	Categories             []Category `yaml:"categories"`
	FrequencyKeywordGroups [][]string `yaml:"frequency_keyword_groups"`
	Icons                  []IconRule `yaml:"icons"`
	DefaultIcon            string     `yaml:"default_icon"`
}

// Load parses and validates the embedded ruleset.
func Load() (*Ruleset, error) {
	// Validate the generic YAML document against the schema first, then
	// decode into the typed struct.
	var doc map[string]interface{}
	if err := yaml.Unmarshal(rulesetYAML, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse ruleset: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(rulesetSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile ruleset schema: %w", err)
	}

	result := schema.Validate(doc)
	if !result.IsValid() {
		var errorMessages []string
		for field, evalErr := range result.Errors {
			errorMessages = append(errorMessages, fmt.Sprintf("%s: %s", field, evalErr.Error()))
		}
		return nil, fmt.Errorf("ruleset validation failed: %s", strings.Join(errorMessages, "; "))
	}

	var rs Ruleset
	if err := yaml.Unmarshal(rulesetYAML, &rs); err != nil {
		return nil, fmt.Errorf("failed to decode ruleset: %w", err)
	}
	return &rs, nil
}

// MustLoad is Load for wiring paths where a broken embedded ruleset is a
// programming error.
func MustLoad() *Ruleset {
	rs, err := Load()
	if err != nil {
		panic(err)
	}
	return rs
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// IsCardio reports whether the exercise name denotes a cardio exercise,
// where reps carry kilometers.
func (rs *Ruleset) IsCardio(exerciseName string) bool {
	return containsAny(strings.ToLower(exerciseName), rs.CardioKeywords)
}

// Matches reports whether the exercise and the goal title share a keyword
// category.
func (rs *Ruleset) Matches(exerciseName, goalTitle string) bool {
	name := strings.ToLower(exerciseName)
	title := strings.ToLower(goalTitle)
	for _, cat := range rs.Categories {
		if containsAny(name, cat.ExerciseKeywords) && containsAny(title, cat.GoalKeywords) {
			return true
		}
	}
	return false
}

// IsFrequencyGoal reports whether the goal title describes a
// times-per-week training goal: every keyword group must contribute at
// least one match.
func (rs *Ruleset) IsFrequencyGoal(goalTitle string) bool {
	title := strings.ToLower(goalTitle)
	for _, group := range rs.FrequencyKeywordGroups {
		if !containsAny(title, group) {
			return false
		}
	}
	return true
}

// IconFor selects the achievement icon for a goal title, first rule wins.
func (rs *Ruleset) IconFor(goalTitle string) string {
	title := strings.ToLower(goalTitle)
	for _, rule := range rs.Icons {
		if containsAny(title, rule.Keywords) {
			return rule.Icon
		}
	}
	return rs.DefaultIcon
}
