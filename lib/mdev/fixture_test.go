package mdev

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onkernel/devctl/lib/sysfs"
)

// fixture builds a fake sysfs tree mirroring the mdev hierarchy:
// a class root with per-class mdev_supported_types, and a device root
// whose UUID entries are symlinks into the class tree, like the kernel
// lays them out.
type fixture struct {
	t *testing.T

	classRoot  string
	deviceRoot string
	pciRoot    string
	layout     *sysfs.Layout
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		t:          t,
		classRoot:  filepath.Join(root, "class", "mdev_bus"),
		deviceRoot: filepath.Join(root, "bus", "mdev", "devices"),
		pciRoot:    filepath.Join(root, "bus", "pci", "devices"),
	}
	for _, dir := range []string{f.classRoot, f.deviceRoot, f.pciRoot} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	f.layout = sysfs.NewLayout(f.classRoot, f.deviceRoot, f.pciRoot)
	return f
}

type typeAttrs struct {
	name               string
	description        string
	deviceAPI          string
	availableInstances string
}

// addType creates a supported type under a class and returns its
// directory.
func (f *fixture) addType(pciAddress, typeName string, attrs typeAttrs) string {
	f.t.Helper()
	if attrs.name == "" {
		attrs.name = "GRID Test-1Q"
	}
	if attrs.description == "" {
		attrs.description = "num_heads=4, frl_config=60, framebuffer=1024M"
	}
	if attrs.deviceAPI == "" {
		attrs.deviceAPI = "vfio-pci"
	}
	if attrs.availableInstances == "" {
		attrs.availableInstances = "4"
	}

	dir := filepath.Join(f.classRoot, pciAddress, "mdev_supported_types", typeName)
	require.NoError(f.t, os.MkdirAll(dir, 0755))
	f.writeAttr(dir, "name", attrs.name)
	f.writeAttr(dir, "description", attrs.description)
	f.writeAttr(dir, "device_api", attrs.deviceAPI)
	f.writeAttr(dir, "available_instances", attrs.availableInstances)
	// the kernel exposes the create control file up front; pre-creating
	// it keeps it readable for assertions
	require.NoError(f.t, os.WriteFile(filepath.Join(dir, "create"), nil, 0644))
	return dir
}

// addDevice instantiates a device of an existing type: a directory in
// the class tree with an mdev_type link, plus the UUID symlink under
// the device root.
func (f *fixture) addDevice(uuid, pciAddress, typeName string) string {
	f.t.Helper()
	devDir := filepath.Join(f.classRoot, pciAddress, uuid)
	require.NoError(f.t, os.MkdirAll(devDir, 0755))
	require.NoError(f.t, os.Symlink(
		filepath.Join("..", "mdev_supported_types", typeName),
		filepath.Join(devDir, "mdev_type"),
	))
	require.NoError(f.t, os.Symlink(devDir, filepath.Join(f.deviceRoot, uuid)))
	return devDir
}

// addNvidia gives a device the vendor extension directory.
func (f *fixture) addNvidia(devDir, vmName, vgpuParams string) {
	f.t.Helper()
	dir := filepath.Join(devDir, "nvidia")
	require.NoError(f.t, os.MkdirAll(dir, 0755))
	f.writeAttr(dir, "vm_name", vmName)
	f.writeAttr(dir, "vgpu_params", vgpuParams)
}

func (f *fixture) writeAttr(dir, name, value string) {
	f.t.Helper()
	require.NoError(f.t, os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0644))
}

// createFilePath is where Type.Create writes the UUID; empty content
// proves no creation was attempted.
func (f *fixture) createFilePath(pciAddress, typeName string) string {
	return filepath.Join(f.classRoot, pciAddress, "mdev_supported_types", typeName, "create")
}

func (f *fixture) inventory() *Inventory {
	return NewInventory(f.layout, nil)
}
