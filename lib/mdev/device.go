package mdev

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/onkernel/devctl/lib/sysfs"
)

// Device is an instantiated mdev, identified by the UUID assigned at
// creation time. Its PCI address is structural, not stored: the parent
// directory of the resolved sysfs path is the owning device class.
type Device struct {
	UUID       string
	Path       string
	RealPath   string
	PCIAddress string

	wait sysfs.WaitFunc

	mdevType     *Type
	nvidia       *Nvidia
	nvidiaLoaded bool
}

// NewDevice builds a device after verifying that the device root and
// the UUID entry both exist, with distinct errors for each absence.
func NewDevice(l *sysfs.Layout, uuid string, wait sysfs.WaitFunc) (*Device, error) {
	if wait != nil {
		wait(l.DeviceRoot())
	}
	if _, err := os.Stat(l.DeviceRoot()); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDeviceRoot, l.DeviceRoot())
	}
	path := l.DeviceDir(uuid)
	if wait != nil {
		wait(path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDeviceUUID, uuid)
	}
	return newDevice(l, uuid, wait)
}

// NewDeviceUnchecked skips the existence checks. It is meant for UUIDs
// that just came out of a scan of the device root.
func NewDeviceUnchecked(l *sysfs.Layout, uuid string, wait sysfs.WaitFunc) (*Device, error) {
	return newDevice(l, uuid, wait)
}

func newDevice(l *sysfs.Layout, uuid string, wait sysfs.WaitFunc) (*Device, error) {
	path := l.DeviceDir(uuid)
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fmt.Errorf("resolve mdev device path %s: %w", path, err)
	}
	return &Device{
		UUID:       uuid,
		Path:       path,
		RealPath:   resolved,
		PCIAddress: filepath.Base(filepath.Dir(resolved)),
		wait:       wait,
	}, nil
}

// Type returns the device's mdev type, loaded through the device's
// mdev_type link on first call and cached.
func (d *Device) Type() (*Type, error) {
	if d.mdevType == nil {
		t, err := NewType(filepath.Join(d.Path, "mdev_type"), d.wait)
		if err != nil {
			return nil, err
		}
		d.mdevType = t
	}
	return d.mdevType, nil
}

// Nvidia returns the device's vendor extension, or nil when the device
// has none. Absence of the extension directory is not an error.
func (d *Device) Nvidia() (*Nvidia, error) {
	if !d.nvidiaLoaded {
		path := filepath.Join(d.Path, "nvidia")
		if _, err := os.Stat(path); err == nil {
			n, err := newNvidia(path)
			if err != nil {
				return nil, err
			}
			d.nvidia = n
		}
		d.nvidiaLoaded = true
	}
	return d.nvidia, nil
}
