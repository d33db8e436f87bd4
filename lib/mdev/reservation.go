package mdev

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Reservation is one persisted (uuid, pci address, type name) triple.
// The reservation file recreates mdev devices after a reboot wipes the
// sysfs state.
type Reservation struct {
	UUID       string
	PCIAddress string
	TypeName   string
}

const reservationHeader = "# MDEV UUID Reservation\n# This file is auto-generated by devctl\n"

// WriteReservations dumps the cached devices as reservation lines,
// preceded by a comment header, one tab-separated triple per device in
// inventory order.
func WriteReservations(w io.Writer, inv *Inventory) error {
	devices, err := inv.Devices()
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(reservationHeader); err != nil {
		return err
	}
	for _, dev := range devices {
		t, err := dev.Type()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%s\n", dev.UUID, dev.PCIAddress, t.TypeName); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ParseReservations reads the reservation format: one whitespace
// separated (uuid, pci address, type name) triple per line, # starts a
// comment that runs to end of line, blank lines are skipped. Any other
// line shape is structural corruption and fails the whole parse; a
// partial restore from a garbled file is worse than none.
func ParseReservations(r io.Reader) ([]Reservation, error) {
	var reservations []Reservation

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: want three fields (UUID, PCI address, mdev type), got %d in %q",
				ErrReservationFormat, len(fields), strings.TrimSpace(line))
		}
		reservations = append(reservations, Reservation{
			UUID:       fields[0],
			PCIAddress: fields[1],
			TypeName:   fields[2],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read reservations: %w", err)
	}
	return reservations, nil
}
