package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "/sys/class/mdev_bus", cfg.ClassRoot)
	assert.Equal(t, "/sys/bus/mdev/devices", cfg.DeviceRoot)
	assert.Equal(t, "/sys/bus/pci/devices", cfg.PCIRoot)
	assert.Equal(t, "10de", cfg.Vendor)
	assert.False(t, cfg.Wait)
	assert.Equal(t, 3, cfg.WaitTrials)
	assert.Equal(t, time.Second, cfg.WaitDelay)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DEVCTL_MDEV_CLASS_ROOT", "/tmp/mdev_bus")
	t.Setenv("DEVCTL_VENDOR", "8086")
	t.Setenv("DEVCTL_WAIT", "true")
	t.Setenv("DEVCTL_WAIT_TRIALS", "0")
	t.Setenv("DEVCTL_WAIT_DELAY", "5")

	cfg := Load()
	assert.Equal(t, "/tmp/mdev_bus", cfg.ClassRoot)
	assert.Equal(t, "8086", cfg.Vendor)
	assert.True(t, cfg.Wait)
	assert.Equal(t, 0, cfg.WaitTrials)
	assert.Equal(t, 5*time.Second, cfg.WaitDelay)
}
