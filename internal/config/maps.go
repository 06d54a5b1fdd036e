package config

type MapsConfig struct {
	Provider   string            `yaml:"provider"`
	GoogleMaps *GoogleMapsConfig `yaml:"google_maps"`
}

type GoogleMapsConfig struct {
	APIKey string `yaml:"api_key"`
}

func loadMapsConfig() *MapsConfig {
	return &MapsConfig{
		Provider: getEnv("MAPS_PROVIDER", "google"),
		GoogleMaps: &GoogleMapsConfig{
			APIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		},
	}
}

// Enabled reports whether a geocoding provider is usable. Without one the
// API still works, it just cannot resolve textual "near" locations.
func (m *MapsConfig) Enabled() bool {
	return m.GoogleMaps != nil && m.GoogleMaps.APIKey != ""
}
