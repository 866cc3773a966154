package config

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Render: Render{
			AssetDir:  "assets/intro",
			OutputDir: "output",
			Encoder:   "auto",
			Quality:   23,
			DPI:       150,
			Detector:  "alpha",
			Scaler:    "catmull-rom",
		},
		Content: Content{
			TimeoutSeconds: 10,
		},
		Chat: Chat{
			APIURL:         "https://babaru-regime-production.up.railway.app",
			TimeoutSeconds: 30,
		},
		Server: Server{
			Port:         3000,
			ShareBaseURL: "https://babaru.tv",
		},
		Store: Store{
			Path: "~/.local/share/babaru/prefs.db",
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}
