package mdev

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Nvidia is the vendor extension directory some mdev devices expose:
// the name of the VM the device is assigned to and an opaque vGPU
// parameter blob. Read-only.
type Nvidia struct {
	Path       string
	VMName     string
	VGPUParams string
}

func newNvidia(path string) (*Nvidia, error) {
	n := &Nvidia{Path: path}
	attrs := []struct {
		name string
		dst  *string
	}{
		{"vm_name", &n.VMName},
		{"vgpu_params", &n.VGPUParams},
	}
	for _, attr := range attrs {
		data, err := os.ReadFile(filepath.Join(path, attr.name))
		if err != nil {
			return nil, fmt.Errorf("read nvidia attribute: %w", err)
		}
		*attr.dst = strings.TrimRight(string(data), "\n")
	}
	return n, nil
}
