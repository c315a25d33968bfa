package config

const (
	// DefaultConfigPath is the config file read when --config is not given
	DefaultConfigPath = "imglabel.toml"

	DefaultImagesDir   = "images"
	DefaultTasksDir    = "tasks"
	DefaultProgressDir = "progress"
	DefaultOutputDir   = "output"

	// DefaultTaskSize is the number of images per task package
	DefaultTaskSize = 50
	// DefaultUndoLimit is how many recent decisions can be undone
	DefaultUndoLimit = 10
	// DefaultLogFile is where the JSON log is appended
	DefaultLogFile = "imglabel.log"
)

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{
		Split: SplitConfig{
			Shuffle:      true,
			ShowProgress: true,
		},
		Labeling: LabelingConfig{
			CheckImageDir: true,
		},
		Logging: LoggingConfig{
			File: DefaultLogFile,
		},
	}
	applyDefaults(cfg)
	return cfg
}
