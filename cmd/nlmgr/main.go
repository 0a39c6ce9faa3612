package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rtkit/nlmgr/internal/commands"
	"github.com/rtkit/nlmgr/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := &commands.AppContext{}

	// Define flags
	flag.StringVar(&ctx.ConfigPath, "config", "/etc/nlmgr/nlmgr.conf", "Path to configuration file")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Netlink Session Manager\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  links                   List interfaces\n")
		fmt.Fprintf(os.Stderr, "  addresses               List interface addresses\n")
		fmt.Fprintf(os.Stderr, "  neighbors               List neighbor cache entries\n")
		fmt.Fprintf(os.Stderr, "  routes                  List routes\n")
		fmt.Fprintf(os.Stderr, "  link-set                Change interface state or protodown\n")
		fmt.Fprintf(os.Stderr, "  vlan-add                Create a VLAN sub-interface\n")
		fmt.Fprintf(os.Stderr, "  macvlan-add             Create a macvlan sub-interface\n")
		fmt.Fprintf(os.Stderr, "  bridge-vlan             Manage bridge port VLAN membership\n")
		fmt.Fprintf(os.Stderr, "  neigh                   Add or delete neighbor cache entries\n")
		fmt.Fprintf(os.Stderr, "  route                   Add, delete or resolve routes\n")
		fmt.Fprintf(os.Stderr, "  serve                   Run the read-only HTTP API server\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}

	// Ensure cfg file exists
	if _, err := os.Stat(ctx.ConfigPath); errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Configuration file not found: %s", ctx.ConfigPath)
	}

	cmds := []commands.Runner{
		commands.CreateLinksCommand(),
		commands.CreateAddressesCommand(),
		commands.CreateNeighborsCommand(),
		commands.CreateRoutesCommand(),
		commands.CreateLinkSetCommand(),
		commands.CreateVlanAddCommand(),
		commands.CreateMacvlanAddCommand(),
		commands.CreateBridgeVlanCommand(),
		commands.CreateNeighCommand(),
		commands.CreateRouteCommand(),
		commands.CreateServeCommand(),
	}

	args := flag.Args()

	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}

			os.Exit(0)
		}
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", subcommand)
	flag.Usage()
	os.Exit(1)
}
