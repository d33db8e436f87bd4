package mdev

import (
	"fmt"
	"os"

	"github.com/onkernel/devctl/lib/sysfs"
)

// Class is a physical device offering mdev types, identified by its
// PCI address under the mdev class root. The supported-type map is
// loaded once on first use and kept for the life of the value.
type Class struct {
	PCIAddress string
	Path       string

	layout *sysfs.Layout
	wait   sysfs.WaitFunc

	types     map[string]*Type // nil until loaded
	typeOrder []string
}

// NewClass builds a class after verifying that the class root and the
// class directory both exist. The two absences carry distinct errors so
// a caller can tell "mediation driver not loaded" from "wrong address".
func NewClass(l *sysfs.Layout, pciAddress string, wait sysfs.WaitFunc) (*Class, error) {
	if wait != nil {
		wait(l.ClassRoot())
	}
	if _, err := os.Stat(l.ClassRoot()); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoClassRoot, l.ClassRoot())
	}
	path := l.ClassDir(pciAddress)
	if wait != nil {
		wait(path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoClassAddress, pciAddress)
	}
	return newClass(l, pciAddress, wait), nil
}

// NewClassUnchecked skips the existence checks. It is meant for
// addresses that just came out of a scan of the class root.
func NewClassUnchecked(l *sysfs.Layout, pciAddress string, wait sysfs.WaitFunc) *Class {
	return newClass(l, pciAddress, wait)
}

func newClass(l *sysfs.Layout, pciAddress string, wait sysfs.WaitFunc) *Class {
	return &Class{
		PCIAddress: pciAddress,
		Path:       l.ClassDir(pciAddress),
		layout:     l,
		wait:       wait,
	}
}

// SupportedTypes returns the class's mdev types in scan order, loading
// them on first call. The load is all or nothing: on error nothing is
// cached and a later call scans again.
func (c *Class) SupportedTypes() ([]*Type, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	types := make([]*Type, 0, len(c.typeOrder))
	for _, name := range c.typeOrder {
		types = append(types, c.types[name])
	}
	return types, nil
}

// Type returns one supported type by kernel type name, or nil when the
// class does not offer it.
func (c *Class) Type(name string) (*Type, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	return c.types[name], nil
}

// TypeNames returns the supported type names in scan order.
func (c *Class) TypeNames() ([]string, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	return append([]string(nil), c.typeOrder...), nil
}

func (c *Class) load() error {
	if c.types != nil {
		return nil
	}
	entries, err := sysfs.SupportedTypes(c.layout, c.PCIAddress, c.wait)
	if err != nil {
		return err
	}
	types := make(map[string]*Type, len(entries))
	order := make([]string, 0, len(entries))
	for _, entry := range entries {
		t, err := NewType(entry.Path, c.wait)
		if err != nil {
			return err
		}
		types[entry.Name] = t
		order = append(order, entry.Name)
	}
	c.types = types
	c.typeOrder = order
	return nil
}
