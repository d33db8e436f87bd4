package mdev

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/onkernel/devctl/lib/sysfs"
)

// Type is one mdev profile offered by a device class. The attribute
// fields are a snapshot taken by the last Update call;
// AvailableInstances in particular goes stale the moment the kernel
// creates or destroys an instance, so creation paths must re-read it.
type Type struct {
	Path               string // directory (or symlink to it) this type was loaded from
	RealPath           string // symlink-resolved directory
	TypeName           string // kernel type name, e.g. "nvidia-100"
	Name               string
	Description        string
	DeviceAPI          string
	AvailableInstances int

	wait sysfs.WaitFunc
}

// NewType loads a type from its sysfs directory. The path may be a
// symlink (a device's mdev_type link); the type name comes from the
// resolved target.
func NewType(path string, wait sysfs.WaitFunc) (*Type, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fmt.Errorf("resolve mdev type path %s: %w", path, err)
	}
	t := &Type{
		Path:     path,
		RealPath: resolved,
		TypeName: filepath.Base(resolved),
		wait:     wait,
	}
	if err := t.Update(); err != nil {
		return nil, err
	}
	return t, nil
}

// Update re-reads the attribute snapshot from sysfs. Every attribute is
// a single line; available_instances must parse as an integer and a
// garbled value is a hard error, never a silent zero.
func (t *Type) Update() error {
	attrs := []struct {
		name   string
		assign func(string) error
	}{
		{"name", func(v string) error { t.Name = v; return nil }},
		{"description", func(v string) error { t.Description = v; return nil }},
		{"device_api", func(v string) error { t.DeviceAPI = v; return nil }},
		{"available_instances", func(v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("parse available_instances %q of %s: %w", v, t.TypeName, err)
			}
			t.AvailableInstances = n
			return nil
		}},
	}

	for _, attr := range attrs {
		path := filepath.Join(t.Path, attr.name)
		if t.wait != nil {
			t.wait(path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read mdev type attribute: %w", err)
		}
		if err := attr.assign(strings.TrimRight(string(data), "\n")); err != nil {
			return err
		}
	}
	return nil
}

// Create asks the kernel to instantiate a new mdev with the given UUID
// by writing it to the type's create control file, then refreshes the
// snapshot so AvailableInstances reflects the creation.
func (t *Type) Create(uuid string) error {
	createPath := filepath.Join(t.Path, "create")
	if t.wait != nil {
		t.wait(createPath)
	}
	if err := os.WriteFile(createPath, []byte(uuid+"\n"), 0200); err != nil {
		return fmt.Errorf("create mdev %s on type %s: %w", uuid, t.TypeName, err)
	}
	return t.Update()
}
