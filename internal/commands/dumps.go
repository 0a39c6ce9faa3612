package commands

import (
	"flag"
	"fmt"

	"github.com/rtkit/nlmgr/internal/config"
	"github.com/rtkit/nlmgr/internal/rtnl"
)

// dumpCommand carries the pieces shared by the four dump subcommands.
type dumpCommand struct {
	fs     *flag.FlagSet
	family string
	cfg    *config.Config
}

func (d *dumpCommand) Name() string {
	return d.fs.Name()
}

func (d *dumpCommand) init(args []string, ctx *AppContext) error {
	if err := d.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	d.cfg = cfg
	return nil
}

func newDumpCommand(name string) dumpCommand {
	d := dumpCommand{fs: flag.NewFlagSet(name, flag.ExitOnError)}
	d.fs.StringVar(&d.family, "family", "all", "Address family: 4, 6 or all")
	return d
}

func CreateLinksCommand() *LinksCommand {
	return &LinksCommand{dumpCommand: newDumpCommand("links")}
}

type LinksCommand struct {
	dumpCommand
}

func (c *LinksCommand) Init(args []string, ctx *AppContext) error {
	return c.init(args, ctx)
}

func (c *LinksCommand) Run() error {
	mgr := newManager(c.cfg)
	defer mgr.Session().Close()

	links, err := mgr.Links()
	if err != nil {
		return fmt.Errorf("failed to dump links: %v", err)
	}

	for _, l := range links {
		state := "DOWN"
		if l.Up() {
			state = "UP"
		}
		fmt.Printf("%d: %s state %s flags %#x\n", l.Index, l.Name(), state, l.Flags)
	}
	return nil
}

func CreateAddressesCommand() *AddressesCommand {
	return &AddressesCommand{dumpCommand: newDumpCommand("addresses")}
}

type AddressesCommand struct {
	dumpCommand
}

func (c *AddressesCommand) Init(args []string, ctx *AppContext) error {
	return c.init(args, ctx)
}

func (c *AddressesCommand) Run() error {
	family, err := parseFamily(c.family)
	if err != nil {
		return err
	}

	mgr := newManager(c.cfg)
	defer mgr.Session().Close()

	addrs, err := mgr.Addresses(family)
	if err != nil {
		return fmt.Errorf("failed to dump addresses: %v", err)
	}

	for _, a := range addrs {
		label := a.Label()
		if label != "" {
			label = " label " + label
		}
		fmt.Printf("if %d: %v/%d%s\n", a.Index, a.IP(), a.PrefixLen, label)
	}
	return nil
}

func CreateNeighborsCommand() *NeighborsCommand {
	return &NeighborsCommand{dumpCommand: newDumpCommand("neighbors")}
}

type NeighborsCommand struct {
	dumpCommand
}

func (c *NeighborsCommand) Init(args []string, ctx *AppContext) error {
	return c.init(args, ctx)
}

func (c *NeighborsCommand) Run() error {
	family, err := parseFamily(c.family)
	if err != nil {
		return err
	}

	mgr := newManager(c.cfg)
	defer mgr.Session().Close()

	nbrs, err := mgr.Neighbors(family)
	if err != nil {
		return fmt.Errorf("failed to dump neighbors: %v", err)
	}

	for _, n := range nbrs {
		fmt.Printf("if %d: %v lladdr %v state %#x\n", n.Ifindex, n.IP(), n.LLAddr(), n.State)
	}
	return nil
}

func CreateRoutesCommand() *RoutesCommand {
	return &RoutesCommand{dumpCommand: newDumpCommand("routes")}
}

type RoutesCommand struct {
	dumpCommand
}

func (c *RoutesCommand) Init(args []string, ctx *AppContext) error {
	return c.init(args, ctx)
}

func (c *RoutesCommand) Run() error {
	family, err := parseFamily(c.family)
	if err != nil {
		return err
	}

	mgr := newManager(c.cfg)
	defer mgr.Session().Close()

	routes, err := mgr.Routes(family)
	if err != nil {
		return fmt.Errorf("failed to dump routes: %v", err)
	}

	for _, r := range routes {
		fmt.Print(formatRoute(r))
	}
	return nil
}

func formatRoute(r *rtnl.Route) string {
	dst := "default"
	if d := r.Dst(); d != nil {
		dst = fmt.Sprintf("%v/%d", d, r.DstLen)
	}
	out := dst
	if gw := r.Gateway(); gw != nil {
		out += fmt.Sprintf(" via %v", gw)
	}
	if oif := r.OIF(); oif != 0 {
		out += fmt.Sprintf(" dev %d", oif)
	}
	out += fmt.Sprintf(" table %d proto %d\n", r.Table, r.Protocol)
	return out
}
