package mdev

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/onkernel/devctl/lib/logger"
)

// Restore drives parsed reservations through mdev creation, in file
// order. Records fail independently: an unknown class or type, an
// exhausted type, a bad UUID or a failed create are logged and counted
// but never stop the remaining records. Only inventory scan faults
// abort the run. A UUID that already exists is skipped, so restoring
// the same file twice is a no-op.
func (i *Inventory) Restore(ctx context.Context, records []Reservation) error {
	log := logger.FromContext(ctx)

	failed := 0
	for _, rec := range records {
		dev, err := i.Device(rec.UUID)
		if err != nil {
			return err
		}
		if dev != nil {
			log.WarnContext(ctx, "mdev device already registered, ignoring", "uuid", rec.UUID)
			continue
		}

		if _, err := uuid.Parse(rec.UUID); err != nil {
			log.ErrorContext(ctx, "reservation has an invalid UUID", "uuid", rec.UUID, "error", err)
			failed++
			continue
		}

		class, err := i.Class(rec.PCIAddress)
		if err != nil {
			return err
		}
		if class == nil {
			log.ErrorContext(ctx, "mdev device class does not exist", "pci_address", rec.PCIAddress)
			failed++
			continue
		}
		log.InfoContext(ctx, "found device class", "pci_address", class.PCIAddress, "path", class.Path)

		t, err := class.Type(rec.TypeName)
		if err != nil {
			return err
		}
		if t == nil {
			log.ErrorContext(ctx, "mdev type does not exist in device class",
				"mdev_type", rec.TypeName, "pci_address", rec.PCIAddress, "path", class.Path)
			failed++
			continue
		}
		log.InfoContext(ctx, "found mdev type",
			"mdev_type", t.TypeName, "name", t.Name, "available_instances", t.AvailableInstances)

		if t.AvailableInstances <= 0 {
			log.ErrorContext(ctx, "mdev type has no available instances",
				"mdev_type", rec.TypeName, "pci_address", rec.PCIAddress, "path", class.Path)
			failed++
			continue
		}

		if err := t.Create(rec.UUID); err != nil {
			if errors.Is(err, os.ErrPermission) {
				log.ErrorContext(ctx, "could not register mdev type, try running this command as root",
					"mdev_type", rec.TypeName, "pci_address", rec.PCIAddress, "path", class.Path, "error", err)
			} else {
				log.ErrorContext(ctx, "could not register mdev type",
					"mdev_type", rec.TypeName, "pci_address", rec.PCIAddress, "path", class.Path, "error", err)
			}
			failed++
			continue
		}
		log.InfoContext(ctx, "restored mdev device",
			"uuid", rec.UUID, "pci_address", rec.PCIAddress, "mdev_type", rec.TypeName)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d records", ErrRestoreFailed, failed, len(records))
	}
	return nil
}
