package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/apple-stock-notifier/internal/catalog"
	domain "github.com/donaldgifford/apple-stock-notifier/pkg/types"
)

func TestProduct(t *testing.T) {
	t.Parallel()

	p, ok := catalog.Product("ip17pm_256_blue")
	require.True(t, ok)
	assert.Equal(t, "256GB Xanh", p.DisplayName)
	assert.Equal(t, "MFYA4J/A", p.PartNumber)

	_, ok = catalog.Product("ip16_128_black")
	assert.False(t, ok)
}

func TestProducts_UniqueIDsAndNames(t *testing.T) {
	t.Parallel()

	ids := map[string]bool{}
	names := map[string]bool{}
	for _, p := range catalog.Products() {
		assert.False(t, ids[p.ID], "duplicate id %s", p.ID)
		assert.False(t, names[p.DisplayName], "duplicate name %s", p.DisplayName)
		ids[p.ID] = true
		names[p.DisplayName] = true
	}
	assert.Len(t, ids, 12)
}

func TestStores_ReturnsCopy(t *testing.T) {
	t.Parallel()

	s := catalog.Stores()
	require.Len(t, s, 13)
	s[0] = "mutated"
	assert.Equal(t, "Shinjuku", catalog.Stores()[0])
}

func TestValidKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  domain.WatchKey
		want bool
	}{
		{name: "catalog pair", key: domain.NewWatchKey("256GB Xanh", "Shibuya"), want: true},
		{name: "self-test pair", key: catalog.TestEntry().Key, want: true},
		{name: "unknown product", key: domain.NewWatchKey("iPad", "Shibuya")},
		{name: "unknown store", key: domain.NewWatchKey("256GB Xanh", "Umeda")},
		{name: "product id instead of name", key: domain.NewWatchKey("ip17pm_256_blue", "Shibuya")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, catalog.ValidKey(tt.key))
		})
	}
}
