package main

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/samber/lo"

	"github.com/onkernel/devctl/lib/logger"
	"github.com/onkernel/devctl/lib/mdev"
	"github.com/onkernel/devctl/lib/sysfs"
)

func (a *app) listPCI(ctx context.Context, addrs []string) int {
	log := logger.FromContext(ctx)

	rows, err := sysfs.PCIRows(a.layout, a.cfg.Vendor, a.wait)
	if err != nil {
		log.ErrorContext(ctx, "could not list PCI devices", "error", err)
		return 1
	}

	table := [][]string{{"PCI ADDRESS", "DEVICE DRIVER", "PCI DEVICE PATH"}}
	for _, row := range rows {
		if len(addrs) > 0 && !lo.Contains(addrs, row.Address) {
			continue
		}
		table = append(table, []string{row.Address, row.Driver, row.Path})
	}
	printTable(os.Stdout, table)
	return 0
}

func (a *app) listMdev(ctx context.Context, classes bool, addrs, types []string) int {
	log := logger.FromContext(ctx)

	var table [][]string
	if classes {
		rows, err := a.inv.ClassRows(addrs, types)
		if err != nil {
			log.ErrorContext(ctx, "could not list mdev device classes", "error", err)
			return 1
		}
		table = append(table, []string{"PCI ADDRESS", "MDEV TYPE", "NAME", "AVAILABLE INSTANCES", "DESCRIPTION", "MDEV DEVICE CLASS PATH"})
		for _, row := range rows {
			table = append(table, []string{
				row.PCIAddress, row.TypeName, row.Name,
				strconv.Itoa(row.AvailableInstances), row.Description, row.Path,
			})
		}
	} else {
		rows, err := a.inv.DeviceRows(addrs, types)
		if err != nil {
			log.ErrorContext(ctx, "could not list mdev devices", "error", err)
			return 1
		}
		table = append(table, []string{"MDEV DEVICE UUID", "PCI ADDRESS", "TYPE", "NAME", "AVAILABLE INSTANCES", "DESCRIPTION", "VM NAME"})
		for _, row := range rows {
			table = append(table, []string{
				row.UUID, row.PCIAddress, row.TypeName, row.Name,
				strconv.Itoa(row.AvailableInstances), row.Description, row.VMName,
			})
		}
	}
	printTable(os.Stdout, table)
	return 0
}

func (a *app) save(ctx context.Context, output string) int {
	log := logger.FromContext(ctx)

	var w io.Writer = os.Stdout
	if output != "" && output != "-" {
		f, err := os.Create(output)
		if err != nil {
			log.ErrorContext(ctx, "could not open output file", "path", output, "error", err)
			return 1
		}
		defer f.Close()
		w = f
	}

	if err := mdev.WriteReservations(w, a.inv); err != nil {
		log.ErrorContext(ctx, "could not save mdev reservations", "error", err)
		return 1
	}
	return 0
}

func (a *app) restore(ctx context.Context, input string) int {
	log := logger.FromContext(ctx)

	var r io.Reader = os.Stdin
	if input != "" && input != "-" {
		f, err := os.Open(input)
		if err != nil {
			log.ErrorContext(ctx, "could not open input file", "path", input, "error", err)
			return 1
		}
		defer f.Close()
		r = f
	}

	records, err := mdev.ParseReservations(r)
	if err != nil {
		log.ErrorContext(ctx, "could not parse mdev reservations", "error", err)
		return 1
	}

	if err := a.inv.Restore(ctx, records); err != nil {
		log.ErrorContext(ctx, "restore failed", "error", err)
		return 1
	}
	return 0
}
