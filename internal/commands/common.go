package commands

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"github.com/rtkit/nlmgr/internal/config"
	"github.com/rtkit/nlmgr/internal/nl"
	"github.com/rtkit/nlmgr/internal/rtnl"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	Verbose    bool
}

// loadConfigOrFail loads configuration from file and validates it.
func loadConfigOrFail(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	return cfg, nil
}

// newManager constructs a session and manager from the loaded configuration.
// The caller owns the session and must Close it.
func newManager(cfg *config.Config) *rtnl.Manager {
	nlCfg := nl.Config{
		ReceiveBuffer:  cfg.Netlink.ReceiveBuffer,
		ReceiveTimeout: time.Duration(cfg.Netlink.ReceiveTimeoutSeconds) * time.Second,
		MaxIdlePolls:   cfg.Netlink.MaxIdlePolls,
		BatchBytes:     cfg.Netlink.BatchBytes,
	}

	tracer := nl.NewTracer(cfg.Trace.LineFormat)
	tracer.TraceLinks(cfg.Trace.Links)
	tracer.TraceAddresses(cfg.Trace.Addresses)
	tracer.TraceNeighbors(cfg.Trace.Neighbors)
	tracer.TraceRoutes(cfg.Trace.Routes)

	s := nl.NewSession(nlCfg, rtnl.Decoders(), tracer)
	return rtnl.NewManager(s)
}

// parseFamily maps a -family flag value to an address family.
func parseFamily(v string) (uint8, error) {
	switch v {
	case "", "all":
		return unix.AF_UNSPEC, nil
	case "4":
		return unix.AF_INET, nil
	case "6":
		return unix.AF_INET6, nil
	default:
		return 0, fmt.Errorf("family must be 4, 6 or all, got %q", v)
	}
}
