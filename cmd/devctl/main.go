// Command devctl inventories mediated (mdev) virtual GPU devices
// through sysfs and saves/restores their UUID to PCI-address to
// mdev-type mapping across host reboots.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/onkernel/devctl/cmd/devctl/config"
	"github.com/onkernel/devctl/lib/logger"
	"github.com/onkernel/devctl/lib/mdev"
	"github.com/onkernel/devctl/lib/sysfs"
	"github.com/onkernel/devctl/lib/waiter"
)

// stringList is a repeatable flag value.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

type app struct {
	cfg    *config.Config
	layout *sysfs.Layout
	wait   sysfs.WaitFunc
	inv    *mdev.Inventory
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()

	global := flag.NewFlagSet("devctl", flag.ExitOnError)
	global.Usage = func() { usage(global) }
	debug := global.Bool("debug", false, "debug mode")
	var wait bool
	global.BoolVar(&wait, "w", cfg.Wait, "wait until the mdev bus is available")
	global.BoolVar(&wait, "wait", cfg.Wait, "wait until the mdev bus is available")
	trials := global.Int("trials", cfg.WaitTrials, "number of trials if waiting for a device path (0 retries forever)")
	delay := global.Int("delay", int(cfg.WaitDelay/time.Second), "delay in seconds between trials if waiting for a device path")

	// list-pci flags double as top-level flags: a bare invocation is
	// the PCI listing.
	var rootAddrs stringList
	global.Var(&rootAddrs, "p", "show only devices with the given PCI address (repeatable)")
	global.Var(&rootAddrs, "pci-address", "show only devices with the given PCI address (repeatable)")

	_ = global.Parse(os.Args[1:])

	log := logger.Setup(*debug)
	ctx := logger.AddToContext(context.Background(), log)

	layout := sysfs.NewLayout(cfg.ClassRoot, cfg.DeviceRoot, cfg.PCIRoot)
	var waitFn sysfs.WaitFunc
	if wait {
		d := time.Duration(*delay) * time.Second
		n := *trials
		waitFn = func(path string) bool {
			return waiter.ForPath(path, n, d).Wait(ctx)
		}
	}

	a := &app{
		cfg:    cfg,
		layout: layout,
		wait:   waitFn,
		inv:    mdev.NewInventory(layout, waitFn),
	}

	args := global.Args()
	if len(args) == 0 {
		return a.listPCI(ctx, rootAddrs)
	}

	command, rest := args[0], args[1:]
	switch command {
	case "list-pci":
		fs := flag.NewFlagSet("list-pci", flag.ExitOnError)
		var addrs stringList
		fs.Var(&addrs, "p", "show only devices with the given PCI address (repeatable)")
		fs.Var(&addrs, "pci-address", "show only devices with the given PCI address (repeatable)")
		_ = fs.Parse(rest)
		return a.listPCI(ctx, addrs)

	case "list-mdev":
		fs := flag.NewFlagSet("list-mdev", flag.ExitOnError)
		classes := fs.Bool("c", false, "print mdev device classes")
		fs.BoolVar(classes, "classes", false, "print mdev device classes")
		var addrs, types stringList
		fs.Var(&addrs, "p", "show only devices with the given PCI address (repeatable)")
		fs.Var(&addrs, "pci-address", "show only devices with the given PCI address (repeatable)")
		fs.Var(&types, "m", "show only devices with the given mdev type (repeatable)")
		fs.Var(&types, "mdev-type", "show only devices with the given mdev type (repeatable)")
		_ = fs.Parse(rest)
		return a.listMdev(ctx, *classes, addrs, types)

	case "save":
		fs := flag.NewFlagSet("save", flag.ExitOnError)
		output := fs.String("o", "", "output mdev devices to file (default stdout)")
		fs.StringVar(output, "output", "", "output mdev devices to file (default stdout)")
		_ = fs.Parse(rest)
		return a.save(ctx, *output)

	case "restore":
		fs := flag.NewFlagSet("restore", flag.ExitOnError)
		input := fs.String("i", "", "load mdev devices from file (default stdin)")
		fs.StringVar(input, "input", "", "load mdev devices from file (default stdin)")
		_ = fs.Parse(rest)
		return a.restore(ctx, *input)

	default:
		fmt.Fprintf(os.Stderr, "devctl: unknown command %q\n\n", command)
		usage(global)
		return 1
	}
}

func usage(global *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Usage: devctl [flags] [command] [command flags]

Commands:
  list-pci     list PCI devices of the configured vendor (default)
  list-mdev    list registered mdev devices, or classes with -c
  save         dump registered mdev devices as a reservation file
  restore      recreate mdev devices from a reservation file

Flags:
`)
	global.PrintDefaults()
}
