package commands

import (
	"flag"
	"fmt"

	"github.com/rtkit/nlmgr/internal/config"
)

func CreateLinkSetCommand() *LinkSetCommand {
	c := &LinkSetCommand{
		fs: flag.NewFlagSet("link-set", flag.ExitOnError),
	}
	c.fs.StringVar(&c.name, "name", "", "Interface name")
	c.fs.StringVar(&c.state, "state", "", "Administrative state: up or down")
	c.fs.StringVar(&c.protodown, "protodown", "", "Protocol-down flag: on or off")
	return c
}

type LinkSetCommand struct {
	fs        *flag.FlagSet
	name      string
	state     string
	protodown string
	cfg       *config.Config
}

func (c *LinkSetCommand) Name() string {
	return c.fs.Name()
}

func (c *LinkSetCommand) Init(args []string, ctx *AppContext) error {
	if err := c.fs.Parse(args); err != nil {
		return err
	}

	if c.name == "" {
		return fmt.Errorf("-name is required")
	}
	if c.state == "" && c.protodown == "" {
		return fmt.Errorf("nothing to do: pass -state or -protodown")
	}
	if c.state != "" && c.state != "up" && c.state != "down" {
		return fmt.Errorf("-state must be up or down, got %q", c.state)
	}
	if c.protodown != "" && c.protodown != "on" && c.protodown != "off" {
		return fmt.Errorf("-protodown must be on or off, got %q", c.protodown)
	}

	cfg, err := loadConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *LinkSetCommand) Run() error {
	mgr := newManager(c.cfg)
	defer mgr.Session().Close()

	if c.state != "" {
		if err := mgr.LinkSetState(c.name, c.state == "up"); err != nil {
			return fmt.Errorf("failed to set %s %s: %v", c.name, c.state, err)
		}
	}
	if c.protodown != "" {
		if err := mgr.LinkSetProtodown(c.name, c.protodown == "on"); err != nil {
			return fmt.Errorf("failed to set %s protodown %s: %v", c.name, c.protodown, err)
		}
	}
	return nil
}

func CreateVlanAddCommand() *VlanAddCommand {
	c := &VlanAddCommand{
		fs: flag.NewFlagSet("vlan-add", flag.ExitOnError),
	}
	c.fs.StringVar(&c.parent, "parent", "", "Parent interface name")
	c.fs.StringVar(&c.name, "name", "", "Name of the new VLAN interface")
	c.fs.UintVar(&c.vlanID, "id", 0, "VLAN id (1-4094)")
	return c
}

type VlanAddCommand struct {
	fs     *flag.FlagSet
	parent string
	name   string
	vlanID uint
	cfg    *config.Config
}

func (c *VlanAddCommand) Name() string {
	return c.fs.Name()
}

func (c *VlanAddCommand) Init(args []string, ctx *AppContext) error {
	if err := c.fs.Parse(args); err != nil {
		return err
	}

	if c.parent == "" || c.name == "" {
		return fmt.Errorf("-parent and -name are required")
	}
	if c.vlanID < 1 || c.vlanID > 4094 {
		return fmt.Errorf("-id must be between 1 and 4094, got %d", c.vlanID)
	}

	cfg, err := loadConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *VlanAddCommand) Run() error {
	mgr := newManager(c.cfg)
	defer mgr.Session().Close()

	index, err := mgr.InterfaceIndex(c.parent)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %v", c.parent, err)
	}
	if index == 0 {
		return fmt.Errorf("parent interface %s does not exist", c.parent)
	}

	if err := mgr.LinkAddVlan(index, c.name, uint16(c.vlanID)); err != nil {
		return fmt.Errorf("failed to create VLAN %s: %v", c.name, err)
	}
	return nil
}

func CreateMacvlanAddCommand() *MacvlanAddCommand {
	c := &MacvlanAddCommand{
		fs: flag.NewFlagSet("macvlan-add", flag.ExitOnError),
	}
	c.fs.StringVar(&c.parent, "parent", "", "Parent interface name")
	c.fs.StringVar(&c.name, "name", "", "Name of the new macvlan interface")
	return c
}

type MacvlanAddCommand struct {
	fs     *flag.FlagSet
	parent string
	name   string
	cfg    *config.Config
}

func (c *MacvlanAddCommand) Name() string {
	return c.fs.Name()
}

func (c *MacvlanAddCommand) Init(args []string, ctx *AppContext) error {
	if err := c.fs.Parse(args); err != nil {
		return err
	}

	if c.parent == "" || c.name == "" {
		return fmt.Errorf("-parent and -name are required")
	}

	cfg, err := loadConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *MacvlanAddCommand) Run() error {
	mgr := newManager(c.cfg)
	defer mgr.Session().Close()

	index, err := mgr.InterfaceIndex(c.parent)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %v", c.parent, err)
	}
	if index == 0 {
		return fmt.Errorf("parent interface %s does not exist", c.parent)
	}

	if err := mgr.LinkAddMacvlan(index, c.name); err != nil {
		return fmt.Errorf("failed to create macvlan %s: %v", c.name, err)
	}
	return nil
}

func CreateBridgeVlanCommand() *BridgeVlanCommand {
	c := &BridgeVlanCommand{
		fs: flag.NewFlagSet("bridge-vlan", flag.ExitOnError),
	}
	c.fs.StringVar(&c.op, "op", "", "Operation: add or del")
	c.fs.StringVar(&c.iface, "dev", "", "Bridge port interface name")
	c.fs.UintVar(&c.vid, "vid", 0, "VLAN id (1-4094)")
	c.fs.BoolVar(&c.pvid, "pvid", false, "Make this VLAN the port VLAN id")
	c.fs.BoolVar(&c.untagged, "untagged", false, "Egress untagged")
	c.fs.BoolVar(&c.master, "master", false, "Apply on the bridge master instead of the port")
	return c
}

type BridgeVlanCommand struct {
	fs       *flag.FlagSet
	op       string
	iface    string
	vid      uint
	pvid     bool
	untagged bool
	master   bool
	cfg      *config.Config
}

func (c *BridgeVlanCommand) Name() string {
	return c.fs.Name()
}

func (c *BridgeVlanCommand) Init(args []string, ctx *AppContext) error {
	if err := c.fs.Parse(args); err != nil {
		return err
	}

	if c.op != "add" && c.op != "del" {
		return fmt.Errorf("-op must be add or del, got %q", c.op)
	}
	if c.iface == "" {
		return fmt.Errorf("-dev is required")
	}
	if c.vid < 1 || c.vid > 4094 {
		return fmt.Errorf("-vid must be between 1 and 4094, got %d", c.vid)
	}

	cfg, err := loadConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *BridgeVlanCommand) Run() error {
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
		err = mgr.BridgeVlanAdd(index, uint16(c.vid), c.pvid, c.untagged, c.master)
	} else {
		err = mgr.BridgeVlanDel(index, uint16(c.vid), c.pvid, c.untagged, c.master)
	}
	if err != nil {
		return fmt.Errorf("failed to %s bridge VLAN %d on %s: %v", c.op, c.vid, c.iface, err)
	}
	return nil
}
