package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries process-wide settings. Values come from environment
// variables (a .env file is honored when present); command-line flags
// override them.
type Config struct {
	ClassRoot  string
	DeviceRoot string
	PCIRoot    string
	Vendor     string // 4-hex-digit PCI vendor code for list-pci filtering

	Wait       bool
	WaitTrials int
	WaitDelay  time.Duration
}

// Load loads configuration from environment variables
// Automatically loads .env file if present
func Load() *Config {
	// Try to load .env file (fail silently if not present)
	_ = godotenv.Load()

	return &Config{
		ClassRoot:  getEnv("DEVCTL_MDEV_CLASS_ROOT", "/sys/class/mdev_bus"),
		DeviceRoot: getEnv("DEVCTL_MDEV_DEVICE_ROOT", "/sys/bus/mdev/devices"),
		PCIRoot:    getEnv("DEVCTL_PCI_DEVICE_ROOT", "/sys/bus/pci/devices"),
		Vendor:     getEnv("DEVCTL_VENDOR", "10de"),
		Wait:       getEnvBool("DEVCTL_WAIT", false),
		WaitTrials: getEnvInt("DEVCTL_WAIT_TRIALS", 3),
		WaitDelay:  time.Duration(getEnvInt("DEVCTL_WAIT_DELAY", 1)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
