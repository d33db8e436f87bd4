package sysfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrNoPCIDevice is returned when a driver lookup names no device
	ErrNoPCIDevice = errors.New("no such PCI device")

	// ErrNoDriverPath is returned when a device has no driver symlink
	ErrNoDriverPath = errors.New("no such device driver path")
)

// DriverOf resolves the driver symlink of a PCI device and returns the
// driver name (the basename of the resolved target).
func DriverOf(l *Layout, address string) (string, error) {
	if address == "" {
		return "", fmt.Errorf("%w: %q", ErrNoPCIDevice, address)
	}
	driverPath := l.PCIDriverLink(address)
	if _, err := os.Stat(driverPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoDriverPath, driverPath)
	}
	resolved, err := filepath.EvalSymlinks(driverPath)
	if err != nil {
		return "", fmt.Errorf("resolve driver link %s: %w", driverPath, err)
	}
	return filepath.Base(resolved), nil
}

// PCIRow is one line of the PCI device listing.
type PCIRow struct {
	Address string
	Driver  string
	Path    string
}

// PCIRows lists vendor-filtered PCI devices with the name of their
// bound driver. The two known driver-lookup failures degrade to
// display placeholders instead of aborting the listing; anything else
// is a real I/O fault and propagates.
func PCIRows(l *Layout, vendor string, wait WaitFunc) ([]PCIRow, error) {
	devices, err := PCIDevices(l, vendor, wait)
	if err != nil {
		return nil, err
	}

	rows := make([]PCIRow, 0, len(devices))
	for _, dev := range devices {
		driver, err := DriverOf(l, dev.Address)
		switch {
		case errors.Is(err, ErrNoPCIDevice):
			driver = "no driver"
		case errors.Is(err, ErrNoDriverPath):
			driver = "no driver path"
		case err != nil:
			return nil, err
		}
		rows = append(rows, PCIRow{Address: dev.Address, Driver: driver, Path: dev.Path})
	}
	return rows, nil
}
