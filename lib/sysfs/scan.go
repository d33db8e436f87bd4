package sysfs

import (
	"fmt"
	"os"
	"strings"
)

// WaitFunc is invoked with each path before the scanner touches it.
// It lets the caller inject a retry policy for paths that appear only
// after a driver module finishes loading. The boolean result is
// advisory; the scanner reports missing paths through its own errors.
type WaitFunc func(path string) bool

func touch(wait WaitFunc, path string) {
	if wait != nil {
		wait(path)
	}
}

// ClassAddresses lists the PCI addresses of all device classes under
// the mdev class root, lexicographically sorted.
func ClassAddresses(l *Layout, wait WaitFunc) ([]string, error) {
	touch(wait, l.ClassRoot())
	entries, err := os.ReadDir(l.ClassRoot())
	if err != nil {
		return nil, fmt.Errorf("read mdev class root: %w", err)
	}
	addresses := make([]string, 0, len(entries))
	for _, entry := range entries {
		addresses = append(addresses, entry.Name())
	}
	return addresses, nil
}

// TypeEntry is one (type name, type directory) pair produced by
// SupportedTypes.
type TypeEntry struct {
	Name string
	Path string
}

// SupportedTypes lists the mdev types a device class offers,
// lexicographically sorted by type name.
func SupportedTypes(l *Layout, pciAddress string, wait WaitFunc) ([]TypeEntry, error) {
	dir := l.SupportedTypesDir(pciAddress)
	touch(wait, dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read supported types of %s: %w", pciAddress, err)
	}
	types := make([]TypeEntry, 0, len(entries))
	for _, entry := range entries {
		types = append(types, TypeEntry{Name: entry.Name(), Path: l.TypeDir(pciAddress, entry.Name())})
	}
	return types, nil
}

// DeviceUUIDs lists the UUIDs of all instantiated mdev devices,
// lexicographically sorted.
func DeviceUUIDs(l *Layout, wait WaitFunc) ([]string, error) {
	touch(wait, l.DeviceRoot())
	entries, err := os.ReadDir(l.DeviceRoot())
	if err != nil {
		return nil, fmt.Errorf("read mdev device root: %w", err)
	}
	uuids := make([]string, 0, len(entries))
	for _, entry := range entries {
		uuids = append(uuids, entry.Name())
	}
	return uuids, nil
}

// PCIEntry is one (bus address, device directory) pair produced by
// PCIDevices.
type PCIEntry struct {
	Address string
	Path    string
}

// PCIDevices lists PCI bus devices, lexicographically sorted. A
// non-empty vendor code (4 hex digits, 0x prefix optional) keeps only
// devices whose vendor attribute matches; devices without a readable
// vendor attribute are kept, so a half-populated bus entry is never
// hidden by the filter.
func PCIDevices(l *Layout, vendor string, wait WaitFunc) ([]PCIEntry, error) {
	if vendor != "" && !strings.HasPrefix(vendor, "0x") {
		vendor = "0x" + vendor
	}

	touch(wait, l.PCIRoot())
	entries, err := os.ReadDir(l.PCIRoot())
	if err != nil {
		return nil, fmt.Errorf("read pci device root: %w", err)
	}

	devices := make([]PCIEntry, 0, len(entries))
	for _, entry := range entries {
		address := entry.Name()
		devPath := l.PCIDir(address)
		touch(wait, devPath)

		vendorPath := l.PCIVendorFile(address)
		touch(wait, vendorPath)

		if vendor != "" {
			data, err := os.ReadFile(vendorPath)
			if err == nil && strings.TrimRight(string(data), "\n") != vendor {
				continue
			}
		}
		devices = append(devices, PCIEntry{Address: address, Path: devPath})
	}
	return devices, nil
}
