package mdev

import "errors"

var (
	// ErrNoClassRoot is returned when the mdev class root is missing
	// (typically the mediation driver is not loaded)
	ErrNoClassRoot = errors.New("no such mdev class root")

	// ErrNoClassAddress is returned when a specific PCI address has no
	// entry under the mdev class root
	ErrNoClassAddress = errors.New("no such mdev PCI address")

	// ErrNoDeviceRoot is returned when the mdev device root is missing
	ErrNoDeviceRoot = errors.New("no such mdev device root")

	// ErrNoDeviceUUID is returned when a specific UUID has no entry
	// under the mdev device root
	ErrNoDeviceUUID = errors.New("no such mdev UUID")

	// ErrReservationFormat is returned for a structurally malformed
	// reservation file; restore never proceeds past it
	ErrReservationFormat = errors.New("malformed mdev reservation file")

	// ErrRestoreFailed aggregates per-record restore failures
	ErrRestoreFailed = errors.New("mdev restore completed with failures")
)
