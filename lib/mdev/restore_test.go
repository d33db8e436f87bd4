package mdev

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCreateFile(t *testing.T, f *fixture, pciAddress, typeName string) string {
	t.Helper()
	data, err := os.ReadFile(f.createFilePath(pciAddress, typeName))
	require.NoError(t, err)
	return string(data)
}

func TestRestoreCreatesDevice(t *testing.T) {
	f := newFixture(t)
	f.addType("0000:01:00.0", "nvidia-100", typeAttrs{availableInstances: "4"})

	id := uuid.NewString()
	err := f.inventory().Restore(context.Background(), []Reservation{
		{UUID: id, PCIAddress: "0000:01:00.0", TypeName: "nvidia-100"},
	})
	require.NoError(t, err)
	assert.Equal(t, id+"\n", readCreateFile(t, f, "0000:01:00.0", "nvidia-100"))
}

func TestRestoreZeroCapacityFails(t *testing.T) {
	f := newFixture(t)
	f.addType("0000:01:00.0", "nvidia-100", typeAttrs{availableInstances: "0"})

	err := f.inventory().Restore(context.Background(), []Reservation{
		{UUID: uuid.NewString(), PCIAddress: "0000:01:00.0", TypeName: "nvidia-100"},
	})
	require.ErrorIs(t, err, ErrRestoreFailed)
	// creation was never attempted
	assert.Empty(t, readCreateFile(t, f, "0000:01:00.0", "nvidia-100"))
}

func TestRestoreSkipsExistingUUID(t *testing.T) {
	f := newFixture(t)
	f.addType("0000:01:00.0", "nvidia-100", typeAttrs{availableInstances: "4"})
	f.addDevice(testUUID, "0000:01:00.0", "nvidia-100")

	records := []Reservation{
		{UUID: testUUID, PCIAddress: "0000:01:00.0", TypeName: "nvidia-100"},
	}

	inv := f.inventory()
	require.NoError(t, inv.Restore(context.Background(), records))
	assert.Empty(t, readCreateFile(t, f, "0000:01:00.0", "nvidia-100"))

	// restoring the same file again is still a no-op
	require.NoError(t, inv.Restore(context.Background(), records))
	assert.Empty(t, readCreateFile(t, f, "0000:01:00.0", "nvidia-100"))
}

func TestRestoreUnknownClassContinues(t *testing.T) {
	f := newFixture(t)
	f.addType("0000:01:00.0", "nvidia-100", typeAttrs{availableInstances: "4"})

	good := uuid.NewString()
	err := f.inventory().Restore(context.Background(), []Reservation{
		{UUID: uuid.NewString(), PCIAddress: "0000:99:00.0", TypeName: "nvidia-100"},
		{UUID: good, PCIAddress: "0000:01:00.0", TypeName: "nvidia-100"},
	})
	// the bad record fails the batch, the good one still runs
	require.ErrorIs(t, err, ErrRestoreFailed)
	assert.Equal(t, good+"\n", readCreateFile(t, f, "0000:01:00.0", "nvidia-100"))
}

func TestRestoreUnknownTypeFails(t *testing.T) {
	f := newFixture(t)
	f.addType("0000:01:00.0", "nvidia-100", typeAttrs{availableInstances: "4"})

	err := f.inventory().Restore(context.Background(), []Reservation{
		{UUID: uuid.NewString(), PCIAddress: "0000:01:00.0", TypeName: "nvidia-999"},
	})
	require.ErrorIs(t, err, ErrRestoreFailed)
	assert.Empty(t, readCreateFile(t, f, "0000:01:00.0", "nvidia-100"))
}

func TestRestoreInvalidUUIDFails(t *testing.T) {
	f := newFixture(t)
	f.addType("0000:01:00.0", "nvidia-100", typeAttrs{availableInstances: "4"})

	err := f.inventory().Restore(context.Background(), []Reservation{
		{UUID: "not-a-uuid", PCIAddress: "0000:01:00.0", TypeName: "nvidia-100"},
	})
	require.ErrorIs(t, err, ErrRestoreFailed)
	assert.Empty(t, readCreateFile(t, f, "0000:01:00.0", "nvidia-100"))
}

func TestRestoreEmptyBatch(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.inventory().Restore(context.Background(), nil))
}

func TestRestoreCapacityScenario(t *testing.T) {
	// a class with one exhausted type fails the batch without touching
	// the create file; once capacity returns, a fresh run succeeds
	f := newFixture(t)
	dir := f.addType("0000:01:00.0", "nvidia-100", typeAttrs{availableInstances: "0"})

	err := f.inventory().Restore(context.Background(), []Reservation{
		{UUID: "aaaaaaaa-0000-0000-0000-00000000000a", PCIAddress: "0000:01:00.0", TypeName: "nvidia-100"},
	})
	require.ErrorIs(t, err, ErrRestoreFailed)
	assert.Empty(t, readCreateFile(t, f, "0000:01:00.0", "nvidia-100"))

	f.writeAttr(dir, "available_instances", "4")
	err = f.inventory().Restore(context.Background(), []Reservation{
		{UUID: "bbbbbbbb-0000-0000-0000-00000000000b", PCIAddress: "0000:01:00.0", TypeName: "nvidia-100"},
	})
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbbb-0000-0000-0000-00000000000b\n", readCreateFile(t, f, "0000:01:00.0", "nvidia-100"))
}
