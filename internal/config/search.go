package config

type SearchConfig struct {
	// DefaultSort is used when a query omits the sort parameter.
	DefaultSort string `yaml:"default_sort"`

	// CategoryMatch is "substring" or "exact".
	CategoryMatch string `yaml:"category_match"`
}

func loadSearchConfig() *SearchConfig {
	return &SearchConfig{
		DefaultSort:   getEnv("SEARCH_DEFAULT_SORT", "relevance"),
		CategoryMatch: getEnv("SEARCH_CATEGORY_MATCH", "substring"),
	}
}
