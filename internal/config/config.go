package config

import (
	goerrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/rtkit/nlmgr/internal/errors"
	"github.com/rtkit/nlmgr/internal/log"
)

// LoadConfig reads and parses the TOML configuration at configPath. Missing
// sections are filled with reference defaults so a minimal (or empty) file is
// valid.
func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		path, err := filepath.Abs(configFile)
		if err != nil {
			return nil, errors.NewConfigError("failed to get absolute path", err)
		}
		configFile = path
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to read config file %s", configFile), err)
	}

	config := Default()
	if err := toml.Unmarshal(content, config); err != nil {
		var derr *toml.DecodeError
		if goerrors.As(err, &derr) {
			log.Errorf(derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, errors.NewConfigError("failed to parse config file", nil)
		}
		return nil, errors.NewConfigError("failed to parse config file", err)
	}

	config.applyDefaults()
	config.absConfigFilePath = configFile

	log.Debugf("Configuration file path: %s", configFile)

	return config, nil
}

// applyDefaults fills zero values left by a sparse TOML file.
func (c *Config) applyDefaults() {
	def := Default()

	if c.Netlink == nil {
		c.Netlink = def.Netlink
	} else {
		if c.Netlink.ReceiveBuffer == 0 {
			c.Netlink.ReceiveBuffer = def.Netlink.ReceiveBuffer
		}
		if c.Netlink.ReceiveTimeoutSeconds == 0 {
			c.Netlink.ReceiveTimeoutSeconds = def.Netlink.ReceiveTimeoutSeconds
		}
		if c.Netlink.MaxIdlePolls == 0 {
			c.Netlink.MaxIdlePolls = def.Netlink.MaxIdlePolls
		}
		if c.Netlink.BatchBytes == 0 {
			c.Netlink.BatchBytes = def.Netlink.BatchBytes
		}
	}

	if c.Trace == nil {
		c.Trace = def.Trace
	} else if c.Trace.LineFormat == "" {
		c.Trace.LineFormat = def.Trace.LineFormat
	}

	if c.API == nil {
		c.API = def.API
	} else if c.API.Listen == "" {
		c.API.Listen = def.API.Listen
	}
}
