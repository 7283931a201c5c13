package config

// Config is the top-level wellpull configuration, corresponding to .wellpull.yml.
type Config struct {
	// Port is the HTTP port the web server listens on.
	Port int `yaml:"port" koanf:"port"`

	// DataDir holds the SQLite database and derived data.
	DataDir string `yaml:"data_dir" koanf:"data_dir"`

	// UploadDir is where uploaded workbooks are stored before import.
	UploadDir string `yaml:"upload_dir" koanf:"upload_dir"`

	// SheetName is the workbook sheet the importer reads.
	SheetName string `yaml:"sheet_name" koanf:"sheet_name"`

	// MaxConcurrency bounds how many import jobs run at once.
	MaxConcurrency int `yaml:"max_concurrency" koanf:"max_concurrency"`

	// WebhookURL, when set, receives a POST for every finished import job.
	WebhookURL string `yaml:"webhook_url" koanf:"webhook_url"`

	// BaseURL is the externally visible URL, used in webhook payloads.
	BaseURL string `yaml:"base_url" koanf:"base_url"`
}
