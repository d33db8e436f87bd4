// Package sysfs maps the kernel's mdev and PCI pseudo-filesystem
// hierarchies into typed paths and read-only enumeration primitives.
package sysfs

import "path/filepath"

const (
	defaultClassRoot  = "/sys/class/mdev_bus"
	defaultDeviceRoot = "/sys/bus/mdev/devices"
	defaultPCIRoot    = "/sys/bus/pci/devices"
)

// Layout provides typed path construction over the three sysfs roots
// devctl consumes. The roots are configurable so tests can point at a
// fixture tree.
type Layout struct {
	classRoot  string
	deviceRoot string
	pciRoot    string
}

// DefaultLayout returns the layout for the real sysfs mount.
func DefaultLayout() *Layout {
	return NewLayout(defaultClassRoot, defaultDeviceRoot, defaultPCIRoot)
}

// NewLayout returns a layout rooted at the given directories.
func NewLayout(classRoot, deviceRoot, pciRoot string) *Layout {
	return &Layout{classRoot: classRoot, deviceRoot: deviceRoot, pciRoot: pciRoot}
}

// ClassRoot returns the mdev class root (physical devices offering mdev
// types).
func (l *Layout) ClassRoot() string {
	return l.classRoot
}

// DeviceRoot returns the mdev device root (instantiated mdevs by UUID).
func (l *Layout) DeviceRoot() string {
	return l.deviceRoot
}

// PCIRoot returns the PCI bus device root.
func (l *Layout) PCIRoot() string {
	return l.pciRoot
}

// ClassDir returns the directory for one device class.
func (l *Layout) ClassDir(pciAddress string) string {
	return filepath.Join(l.classRoot, pciAddress)
}

// SupportedTypesDir returns the mdev_supported_types directory of a
// device class.
func (l *Layout) SupportedTypesDir(pciAddress string) string {
	return filepath.Join(l.classRoot, pciAddress, "mdev_supported_types")
}

// TypeDir returns the directory of one mdev type within a device class.
func (l *Layout) TypeDir(pciAddress, typeName string) string {
	return filepath.Join(l.SupportedTypesDir(pciAddress), typeName)
}

// DeviceDir returns the directory for one instantiated mdev device.
func (l *Layout) DeviceDir(uuid string) string {
	return filepath.Join(l.deviceRoot, uuid)
}

// PCIDir returns the directory for one PCI bus device.
func (l *Layout) PCIDir(address string) string {
	return filepath.Join(l.pciRoot, address)
}

// PCIVendorFile returns the vendor attribute file of a PCI device.
func (l *Layout) PCIVendorFile(address string) string {
	return filepath.Join(l.pciRoot, address, "vendor")
}

// PCIDriverLink returns the driver symlink of a PCI device.
func (l *Layout) PCIDriverLink(address string) string {
	return filepath.Join(l.pciRoot, address, "driver")
}
