package mdev

import (
	"github.com/samber/lo"

	"github.com/onkernel/devctl/lib/sysfs"
)

// Inventory is a process-lifetime cache of the device classes and mdev
// devices present at first access. It is never refreshed: sysfs entries
// created or destroyed by other actors mid-run stay invisible until the
// tool runs again. That trade is deliberate for an attended,
// sequential admin tool.
type Inventory struct {
	layout *sysfs.Layout
	wait   sysfs.WaitFunc

	classes    map[string]*Class
	classOrder []string

	devices     map[string]*Device
	deviceOrder []string
}

// NewInventory builds an empty inventory over the given layout. The
// wait hook, when non-nil, runs before every sysfs path the inventory
// touches.
func NewInventory(l *sysfs.Layout, wait sysfs.WaitFunc) *Inventory {
	return &Inventory{layout: l, wait: wait}
}

// Classes returns all mdev device classes in scan order, building the
// cache on first call.
func (i *Inventory) Classes() ([]*Class, error) {
	if err := i.loadClasses(); err != nil {
		return nil, err
	}
	classes := make([]*Class, 0, len(i.classOrder))
	for _, addr := range i.classOrder {
		classes = append(classes, i.classes[addr])
	}
	return classes, nil
}

// Class looks a class up by PCI address, or nil when the address was
// not present at scan time.
func (i *Inventory) Class(pciAddress string) (*Class, error) {
	if err := i.loadClasses(); err != nil {
		return nil, err
	}
	return i.classes[pciAddress], nil
}

// Devices returns all instantiated mdev devices in scan order, building
// the cache on first call.
func (i *Inventory) Devices() ([]*Device, error) {
	if err := i.loadDevices(); err != nil {
		return nil, err
	}
	devices := make([]*Device, 0, len(i.deviceOrder))
	for _, uuid := range i.deviceOrder {
		devices = append(devices, i.devices[uuid])
	}
	return devices, nil
}

// Device looks a device up by UUID, or nil when the UUID was not
// present at scan time.
func (i *Inventory) Device(uuid string) (*Device, error) {
	if err := i.loadDevices(); err != nil {
		return nil, err
	}
	return i.devices[uuid], nil
}

func (i *Inventory) loadClasses() error {
	if i.classes != nil {
		return nil
	}
	addresses, err := sysfs.ClassAddresses(i.layout, i.wait)
	if err != nil {
		return err
	}
	classes := make(map[string]*Class, len(addresses))
	for _, addr := range addresses {
		classes[addr] = NewClassUnchecked(i.layout, addr, i.wait)
	}
	i.classes = classes
	i.classOrder = addresses
	return nil
}

func (i *Inventory) loadDevices() error {
	if i.devices != nil {
		return nil
	}
	uuids, err := sysfs.DeviceUUIDs(i.layout, i.wait)
	if err != nil {
		return err
	}
	devices := make(map[string]*Device, len(uuids))
	for _, uuid := range uuids {
		d, err := NewDeviceUnchecked(i.layout, uuid, i.wait)
		if err != nil {
			return err
		}
		devices[uuid] = d
	}
	i.devices = devices
	i.deviceOrder = uuids
	return nil
}

// ClassRow is one line of the device-class listing: a (class, type)
// pair with the type's current attribute snapshot.
type ClassRow struct {
	PCIAddress         string
	TypeName           string
	Name               string
	AvailableInstances int
	Description        string
	Path               string
}

// ClassRows renders every supported type of every cached class,
// restricted by the optional PCI-address and type-name filters. An
// empty filter keeps everything.
func (i *Inventory) ClassRows(pciFilter, typeFilter []string) ([]ClassRow, error) {
	classes, err := i.Classes()
	if err != nil {
		return nil, err
	}

	var rows []ClassRow
	for _, class := range classes {
		if len(pciFilter) > 0 && !lo.Contains(pciFilter, class.PCIAddress) {
			continue
		}
		types, err := class.SupportedTypes()
		if err != nil {
			return nil, err
		}
		for _, t := range types {
			if len(typeFilter) > 0 && !lo.Contains(typeFilter, t.TypeName) {
				continue
			}
			rows = append(rows, ClassRow{
				PCIAddress:         class.PCIAddress,
				TypeName:           t.TypeName,
				Name:               t.Name,
				AvailableInstances: t.AvailableInstances,
				Description:        t.Description,
				Path:               class.Path,
			})
		}
	}
	return rows, nil
}

// DeviceRow is one line of the mdev device listing.
type DeviceRow struct {
	UUID               string
	PCIAddress         string
	TypeName           string
	Name               string
	AvailableInstances int
	Description        string
	VMName             string
}

// DeviceRows renders the cached devices, restricted by the optional
// PCI-address and type-name filters. Devices without a vendor extension
// show "none" as the VM name.
func (i *Inventory) DeviceRows(pciFilter, typeFilter []string) ([]DeviceRow, error) {
	devices, err := i.Devices()
	if err != nil {
		return nil, err
	}

	var rows []DeviceRow
	for _, dev := range devices {
		if len(pciFilter) > 0 && !lo.Contains(pciFilter, dev.PCIAddress) {
			continue
		}
		t, err := dev.Type()
		if err != nil {
			return nil, err
		}
		if len(typeFilter) > 0 && !lo.Contains(typeFilter, t.TypeName) {
			continue
		}
		nv, err := dev.Nvidia()
		if err != nil {
			return nil, err
		}
		vmName := "none"
		if nv != nil {
			vmName = nv.VMName
		}
		rows = append(rows, DeviceRow{
			UUID:               dev.UUID,
			PCIAddress:         dev.PCIAddress,
			TypeName:           t.TypeName,
			Name:               t.Name,
			AvailableInstances: t.AvailableInstances,
			Description:        t.Description,
			VMName:             vmName,
		})
	}
	return rows, nil
}
