package config

import (
	"encoding/json"
	"os"
	"time"

	"clinicbook/internal/flagx"
)

// jsonConfig is the DTO for the optional JSON config file. Durations are
// given as strings like "15s".
type jsonConfig struct {
	APIBaseURL     string `json:"api_base_url"`
	SessionFile    string `json:"session_file"`
	RequestTimeout string `json:"request_timeout"`
}

// parseJSON overlays cfg with values from the file named by -c/-config.
// No flag means no JSON layer. Read or parse failures panic: an explicitly
// requested config file that cannot be used is a startup error.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.SessionFile != "" {
		cfg.SessionFile = jc.SessionFile
	}
	if jc.RequestTimeout != "" {
		d, err := time.ParseDuration(jc.RequestTimeout)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
}
