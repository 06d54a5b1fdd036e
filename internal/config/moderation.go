package config

import "time"

type ModerationConfig struct {
	// Engine selects the scanner: "denylist" or "classifier".
	Engine string `yaml:"engine"`

	// Denylist terms for the built-in scanner. Comma separated in the
	// environment.
	Denylist []string `yaml:"denylist"`

	// ClassifierThreshold is the spam probability above which the
	// classifier engine flags text.
	ClassifierThreshold float64 `yaml:"classifier_threshold"`

	// Timeout bounds a single moderation call before the fail-closed
	// path kicks in.
	Timeout time.Duration `yaml:"timeout"`
}

func loadModerationConfig() *ModerationConfig {
	return &ModerationConfig{
		Engine: getEnv("MODERATION_ENGINE", "denylist"),
		Denylist: getEnvAsSlice("MODERATION_DENYLIST", []string{
			"spam",
			"scam",
			"fake review",
			"http://",
			"https://",
			"buy followers",
			"casino",
			"xxx",
		}),
		ClassifierThreshold: getEnvAsFloat64("MODERATION_CLASSIFIER_THRESHOLD", 0.7),
		Timeout:             getEnvAsDuration("MODERATION_TIMEOUT", 5*time.Second),
	}
}
