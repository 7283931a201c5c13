package config

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		DataDir:        ".wellpull",
		UploadDir:      "uploads",
		SheetName:      "dataset",
		MaxConcurrency: 2,
	}
}
