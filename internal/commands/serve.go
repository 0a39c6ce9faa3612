package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rtkit/nlmgr/internal/api"
	"github.com/rtkit/nlmgr/internal/config"
	"github.com/rtkit/nlmgr/internal/log"
)

func CreateServeCommand() *ServeCommand {
	c := &ServeCommand{
		fs: flag.NewFlagSet("serve", flag.ExitOnError),
	}
	c.fs.StringVar(&c.listen, "listen", "", "Override the configured API listen address")
	return c
}

type ServeCommand struct {
	fs     *flag.FlagSet
	listen string
	cfg    *config.Config
}

func (c *ServeCommand) Name() string {
	return c.fs.Name()
}

func (c *ServeCommand) Init(args []string, ctx *AppContext) error {
	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if c.listen == "" {
		c.listen = cfg.API.Listen
	}
	if c.listen == "" {
		return fmt.Errorf("no listen address: set api.listen in the config or pass -listen")
	}
	return nil
}

func (c *ServeCommand) Run() error {
	mgr := newManager(c.cfg)
	defer mgr.Session().Close()

	server := api.NewServer(c.listen, mgr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Infof("Received %v, shutting down", sig)
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("API server failed: %v", err)
		}
		return nil
	}

	// Abort any in-progress netlink wait, then drain the HTTP side.
	mgr.Session().RequestShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop API server: %v", err)
	}
	return nil
}
