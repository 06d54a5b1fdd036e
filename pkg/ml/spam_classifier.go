package ml

import (
	"context"
	"math"
	"strings"
	"unicode"
)

// SpamClassifier scores review text for promotional and low-effort spam.
// It combines rule patterns with a small logistic model over text features.
type SpamClassifier struct {
	model     *SpamModel
	threshold float64
}

type SpamModel struct {
	Weights   map[string]float64 `json:"weights"`
	Intercept float64            `json:"intercept"`
	Version   string             `json:"version"`
	Patterns  []SpamPattern      `json:"patterns"`
}

type SpamPattern struct {
	Name  string     `json:"name"`
	Rules []SpamRule `json:"rules"`
}

type SpamRule struct {
	Feature  string  `json:"feature"`
	Operator string  `json:"operator"`
	Value    float64 `json:"value"`
}

// NewSpamClassifier builds a classifier with the baseline model. Threshold
// is the spam probability above which text is reported.
func NewSpamClassifier(threshold float64) *SpamClassifier {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.7
	}

	model := &SpamModel{
		Weights: map[string]float64{
			"url_count":        2.4,
			"caps_ratio":       1.6,
			"exclaim_density":  1.3,
			"digit_ratio":      0.9,
			"repeat_factor":    1.1,
			"length_factor":    -0.6,
			"diversity_factor": -1.2,
		},
		Intercept: -2.2,
		Version:   "1.0.0",
		Patterns: []SpamPattern{
			{
				Name: "link_stuffing",
				Rules: []SpamRule{
					{Feature: "url_count", Operator: ">=", Value: 2},
				},
			},
			{
				Name: "shouting",
				Rules: []SpamRule{
					{Feature: "caps_ratio", Operator: ">", Value: 0.6},
					{Feature: "exclaim_density", Operator: ">", Value: 0.05},
				},
			},
			{
				Name: "keyboard_mash",
				Rules: []SpamRule{
					{Feature: "repeat_factor", Operator: ">", Value: 0.5},
					{Feature: "diversity_factor", Operator: "<", Value: 0.2},
				},
			},
		},
	}

	return &SpamClassifier{
		model:     model,
		threshold: threshold,
	}
}

// Scan reports the pattern names the text triggers. Text whose modeled
// spam probability clears the threshold without a named pattern is
// reported as "spam_score".
func (c *SpamClassifier) Scan(_ context.Context, text string) ([]string, error) {
	features := c.extractFeatures(text)

	matches := c.matchPatterns(features)

	probability := c.predict(features)
	if probability >= c.threshold && len(matches) == 0 {
		matches = append(matches, "spam_score")
	}

	return matches, nil
}

func (c *SpamClassifier) matchPatterns(features map[string]float64) []string {
	var matches []string

	for _, pattern := range c.model.Patterns {
		allRulesMet := true
		for _, rule := range pattern.Rules {
			value := features[rule.Feature]

			met := false
			switch rule.Operator {
			case ">":
				met = value > rule.Value
			case "<":
				met = value < rule.Value
			case ">=":
				met = value >= rule.Value
			case "<=":
				met = value <= rule.Value
			}
			if !met {
				allRulesMet = false
				break
			}
		}

		if allRulesMet {
			matches = append(matches, pattern.Name)
		}
	}

	return matches
}

func (c *SpamClassifier) predict(features map[string]float64) float64 {
	logit := c.model.Intercept
	for feature, value := range features {
		if weight, exists := c.model.Weights[feature]; exists {
			logit += weight * value
		}
	}

	return 1.0 / (1.0 + math.Exp(-logit))
}

func (c *SpamClassifier) extractFeatures(text string) map[string]float64 {
	features := make(map[string]float64)

	runes := []rune(text)
	total := len(runes)
	if total == 0 {
		return features
	}

	letters := 0
	uppers := 0
	digits := 0
	exclaims := 0
	maxRun := 1
	run := 1
	seen := make(map[rune]struct{})

	var prev rune
	for i, r := range runes {
		seen[unicode.ToLower(r)] = struct{}{}
		switch {
		case unicode.IsLetter(r):
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		case unicode.IsDigit(r):
			digits++
		case r == '!':
			exclaims++
		}

		if i > 0 && r == prev {
			run++
			if run > maxRun {
				maxRun = run
			}
		} else {
			run = 1
		}
		prev = r
	}

	lower := strings.ToLower(text)
	features["url_count"] = float64(strings.Count(lower, "http://") + strings.Count(lower, "https://") + strings.Count(lower, "www."))
	if letters > 0 {
		features["caps_ratio"] = float64(uppers) / float64(letters)
	}
	features["exclaim_density"] = float64(exclaims) / float64(total)
	features["digit_ratio"] = float64(digits) / float64(total)
	features["repeat_factor"] = float64(maxRun) / math.Max(float64(total), 1) * 10
	features["length_factor"] = math.Min(float64(total)/500.0, 1.0)
	features["diversity_factor"] = float64(len(seen)) / float64(total)

	return features
}
