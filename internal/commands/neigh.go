package commands

import (
	"flag"
	"fmt"
	"net"

	"github.com/rtkit/nlmgr/internal/config"
)

func CreateNeighCommand() *NeighCommand {
	c := &NeighCommand{
		fs: flag.NewFlagSet("neigh", flag.ExitOnError),
	}
	c.fs.StringVar(&c.op, "op", "", "Operation: add or del")
	c.fs.StringVar(&c.iface, "dev", "", "Interface name")
	c.fs.StringVar(&c.ipArg, "ip", "", "Neighbor IP address")
	c.fs.StringVar(&c.lladdrArg, "lladdr", "", "Neighbor link-layer address")
	return c
}

type NeighCommand struct {
	fs        *flag.FlagSet
	op        string
	iface     string
	ipArg     string
	lladdrArg string

	ip     net.IP
	lladdr net.HardwareAddr
	cfg    *config.Config
}

func (c *NeighCommand) Name() string {
	return c.fs.Name()
}

func (c *NeighCommand) Init(args []string, ctx *AppContext) error {
	if err := c.fs.Parse(args); err != nil {
		return err
	}

	if c.op != "add" && c.op != "del" {
		return fmt.Errorf("-op must be add or del, got %q", c.op)
	}
	if c.iface == "" {
		return fmt.Errorf("-dev is required")
	}
	if c.ip = net.ParseIP(c.ipArg); c.ip == nil {
		return fmt.Errorf("-ip is not a valid IP address: %q", c.ipArg)
	}

	var err error
	if c.lladdr, err = net.ParseMAC(c.lladdrArg); err != nil {
		return fmt.Errorf("-lladdr is not a valid link-layer address: %v", err)
	}

	cfg, err := loadConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *NeighCommand) Run() error {
	mgr := newManager(c.cfg)
	defer mgr.Session().Close()

	index, err := mgr.InterfaceIndex(c.iface)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %v", c.iface, err)
	}
	if index == 0 {
		return fmt.Errorf("interface %s does not exist", c.iface)
	}

	if c.op == "add" {
		err = mgr.NeighborAdd(index, c.ip, c.lladdr)
	} else {
		err = mgr.NeighborDel(index, c.ip, c.lladdr)
	}
	if err != nil {
		return fmt.Errorf("failed to %s neighbor %v: %v", c.op, c.ip, err)
	}
	return nil
}
