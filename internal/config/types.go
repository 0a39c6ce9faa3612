package config

// Config is the root nlmgr configuration, loaded from a TOML file.
type Config struct {
	// Netlink holds netlink session tuning.
	Netlink *NetlinkConfig `toml:"netlink" json:"netlink"`
	// Trace holds per-frame decode tracing settings.
	Trace *TraceConfig `toml:"trace" json:"trace"`
	// API holds HTTP API server settings.
	API *APIConfig `toml:"api" json:"api"`

	absConfigFilePath string
}

// NetlinkConfig tunes the netlink session engine.
type NetlinkConfig struct {
	// ReceiveBuffer is the size in bytes of a single receive chunk (default: 4096).
	ReceiveBuffer int `toml:"receive_buffer" json:"receive_buffer" validate:"gte=2048"`
	// ReceiveTimeoutSeconds is how long a single poll blocks waiting for the kernel (default: 1).
	ReceiveTimeoutSeconds int `toml:"receive_timeout_seconds" json:"receive_timeout_seconds" validate:"gte=1"`
	// MaxIdlePolls is the number of consecutive empty polls before an in-progress
	// wait is abandoned and partial results are returned (default: 30).
	MaxIdlePolls int `toml:"max_idle_polls" json:"max_idle_polls" validate:"gte=1"`
	// BatchBytes is the byte budget for concatenated bulk route writes (default: 16384).
	BatchBytes int `toml:"batch_bytes" json:"batch_bytes" validate:"gte=512"`
}

// TraceConfig enables verbose decode tracing per message group.
type TraceConfig struct {
	// Links enables tracing of RTM_*LINK frames.
	Links bool `toml:"links" json:"links"`
	// Addresses enables tracing of RTM_*ADDR frames.
	Addresses bool `toml:"addresses" json:"addresses"`
	// Neighbors enables tracing of RTM_*NEIGH frames.
	Neighbors bool `toml:"neighbors" json:"neighbors"`
	// Routes enables tracing of RTM_*ROUTE frames.
	Routes bool `toml:"routes" json:"routes"`
	// LineFormat is the trace line template. Placeholders: {{dir}}, {{type}},
	// {{pid}}, {{seq}}, {{len}}.
	LineFormat string `toml:"line_format" json:"line_format"`
}

// APIConfig configures the read-only HTTP API.
type APIConfig struct {
	// Enabled turns the HTTP API server on.
	Enabled bool `toml:"enabled" json:"enabled"`
	// Listen is the host:port the API server binds to (default: 127.0.0.1:8710).
	Listen string `toml:"listen" json:"listen" validate:"hostport_or_empty"`
}

// DefaultLineFormat is the trace line template used when the config does not
// override it.
const DefaultLineFormat = "{{dir}} {{type}}, pid {{pid}}, seq {{seq}}, {{len}} bytes"

// Default returns a Config populated with reference defaults.
func Default() *Config {
	return &Config{
		Netlink: &NetlinkConfig{
			ReceiveBuffer:         4096,
			ReceiveTimeoutSeconds: 1,
			MaxIdlePolls:          30,
			BatchBytes:            16384,
		},
		Trace: &TraceConfig{
			LineFormat: DefaultLineFormat,
		},
		API: &APIConfig{
			Enabled: false,
			Listen:  "127.0.0.1:8710",
		},
	}
}

// GetAbsConfigFilePath returns the absolute path the config was loaded from.
func (c *Config) GetAbsConfigFilePath() string {
	return c.absConfigFilePath
}
