package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"invoice-dashboard/internal/domain/mutation"
	"invoice-dashboard/internal/domain/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotOf(t *testing.T, c ViewCache, paths ...string) report.Snapshot {
	t.Helper()
	snap, err := c.Snapshot(context.Background(), paths...)
	require.NoError(t, err)
	return snap
}

func TestInMemoryViewCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryViewCache(time.Minute)

	rows := []report.CustomerTotals{{ID: "1", Name: "Amy", TotalInvoices: 2, TotalPaid: 500}}
	snap := snapshotOf(t, c, mutation.InvoicesPath, mutation.CustomersPath)
	require.NoError(t, c.Set(ctx, "report:customers", rows, snap))

	var got []report.CustomerTotals
	hit, err := c.Get(ctx, "report:customers", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, rows, got)

	got[0].Name = "changed"
	var again []report.CustomerTotals
	_, err = c.Get(ctx, "report:customers", &again)
	require.NoError(t, err)
	assert.Equal(t, "Amy", again[0].Name)

	require.NoError(t, c.Invalidate(ctx, mutation.CustomersPath))
	hit, err = c.Get(ctx, "report:customers", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, c.tags, "tag memberships of dropped entries are removed")
}

func TestInMemoryViewCache_SetAfterInvalidateIsDropped(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryViewCache(time.Minute)

	snap := snapshotOf(t, c, mutation.InvoicesPath, mutation.CustomersPath)
	require.NoError(t, c.Invalidate(ctx, mutation.InvoicesPath))
	require.NoError(t, c.Set(ctx, "report:customers", []int{1}, snap))

	var got []int
	hit, err := c.Get(ctx, "report:customers", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	fresh := snapshotOf(t, c, mutation.InvoicesPath, mutation.CustomersPath)
	assert.Equal(t, uint64(1), fresh[mutation.InvoicesPath])
	assert.Equal(t, uint64(0), fresh[mutation.CustomersPath])
	require.NoError(t, c.Set(ctx, "report:customers", []int{2}, fresh))
	hit, err = c.Get(ctx, "report:customers", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []int{2}, got)
}

func TestInMemoryViewCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewInMemoryViewCache(time.Minute)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", 42, nil))

	var v int
	hit, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.True(t, hit)

	now = now.Add(time.Minute)
	hit, err = c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemoryViewCache_SetSweepsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewInMemoryViewCache(time.Minute)
	c.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		snap := snapshotOf(t, c, mutation.InvoicesPath, mutation.CustomersPath)
		require.NoError(t, c.Set(ctx, fmt.Sprintf("report:invoices:%d", i), []int{i}, snap))
	}
	require.Len(t, c.entries, 100)
	require.Len(t, c.tags[mutation.InvoicesPath], 100)

	now = now.Add(2 * time.Minute)
	require.NoError(t, c.Set(ctx, "report:customers", []int{0}, snapshotOf(t, c, mutation.CustomersPath)))

	assert.Len(t, c.entries, 1)
	assert.NotContains(t, c.tags, mutation.InvoicesPath)
	assert.Len(t, c.tags[mutation.CustomersPath], 1)
}

func TestInMemoryViewCache_EvictsOldestAtCapacity(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewInMemoryViewCache(0)
	c.maxEntries = 3
	c.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		now = now.Add(time.Second)
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), i, snapshotOf(t, c, mutation.InvoicesPath)))
	}

	assert.Len(t, c.entries, 3)
	assert.Len(t, c.tags[mutation.InvoicesPath], 3)
	for _, key := range []string{"k2", "k3", "k4"} {
		assert.Contains(t, c.entries, key)
	}
}

func TestInMemoryViewCache_OverwriteKeepsSingleEntry(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryViewCache(time.Minute)

	require.NoError(t, c.Set(ctx, "k", 1, snapshotOf(t, c, mutation.InvoicesPath)))
	require.NoError(t, c.Set(ctx, "k", 2, snapshotOf(t, c, mutation.CustomersPath)))

	assert.Len(t, c.entries, 1)
	assert.NotContains(t, c.tags, mutation.InvoicesPath)
	assert.Len(t, c.tags[mutation.CustomersPath], 1)
}

func TestInMemoryViewCache_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryViewCache(0)
	require.NoError(t, c.Set(ctx, "k", "v", nil))
	c.now = func() time.Time { return time.Now().Add(24 * time.Hour) }

	var v string
	hit, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v", v)
}

func TestInMemoryViewCache_EncodeError(t *testing.T) {
	c := NewInMemoryViewCache(time.Minute)
	assert.Error(t, c.Set(context.Background(), "k", func() {}, nil))
}
