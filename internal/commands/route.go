package commands

import (
	"flag"
	"fmt"
	"net"

	"github.com/rtkit/nlmgr/internal/config"
	"github.com/rtkit/nlmgr/internal/rtnl"
)

func CreateRouteCommand() *RouteCommand {
	c := &RouteCommand{
		fs: flag.NewFlagSet("route", flag.ExitOnError),
	}
	c.fs.StringVar(&c.op, "op", "", "Operation: add, del or get")
	c.fs.StringVar(&c.dstArg, "dst", "", "Destination prefix address")
	c.fs.UintVar(&c.prefixLen, "prefix", 0, "Destination prefix length")
	c.fs.StringVar(&c.gwArg, "gw", "", "Gateway address")
	c.fs.StringVar(&c.iface, "dev", "", "Output interface name")
	c.fs.UintVar(&c.table, "table", 0, "Routing table (default: main)")
	return c
}

type RouteCommand struct {
	fs        *flag.FlagSet
	op        string
	dstArg    string
	prefixLen uint
	gwArg     string
	iface     string
	table     uint

	dst net.IP
	gw  net.IP
	cfg *config.Config
}

func (c *RouteCommand) Name() string {
	return c.fs.Name()
}

func (c *RouteCommand) Init(args []string, ctx *AppContext) error {
	if err := c.fs.Parse(args); err != nil {
		return err
	}

	switch c.op {
	case "add", "del", "get":
	default:
		return fmt.Errorf("-op must be add, del or get, got %q", c.op)
	}

	if c.dst = net.ParseIP(c.dstArg); c.dst == nil {
		return fmt.Errorf("-dst is not a valid IP address: %q", c.dstArg)
	}
	if c.op != "get" {
		if c.gwArg != "" {
			if c.gw = net.ParseIP(c.gwArg); c.gw == nil {
				return fmt.Errorf("-gw is not a valid IP address: %q", c.gwArg)
			}
		}
		if c.iface == "" {
			return fmt.Errorf("-dev is required for %s", c.op)
		}
	}

	cfg, err := loadConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *RouteCommand) Run() error {
	mgr := newManager(c.cfg)
	defer mgr.Session().Close()

	if c.op == "get" {
		routes, err := mgr.RouteGet(c.dst)
		if err != nil {
			return fmt.Errorf("failed to query route to %v: %v", c.dst, err)
		}
		for _, r := range routes {
			fmt.Print(formatRoute(r))
		}
		return nil
	}

	index, err := mgr.InterfaceIndex(c.iface)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %v", c.iface, err)
	}
	if index == 0 {
		return fmt.Errorf("interface %s does not exist", c.iface)
	}

	spec := rtnl.RouteSpec{
		Dst:       c.dst,
		PrefixLen: uint8(c.prefixLen),
		Gateway:   c.gw,
		Ifindex:   index,
	}
	opts := rtnl.RouteOptions{Table: uint8(c.table)}

	if c.op == "add" {
		err = mgr.RouteAdd(spec, opts)
	} else {
		err = mgr.RoutesDel([]rtnl.RouteSpec{spec}, opts)
	}
	if err != nil {
		return fmt.Errorf("failed to %s route %v/%d: %v", c.op, c.dst, c.prefixLen, err)
	}
	return nil
}
