package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptionKey(t *testing.T) {
	tests := []struct {
		classID, instanceID, want string
	}{
		{"310776560", "188530139", "310776560_188530139"},
		{"310776560", "", "310776560_0"},
		{"310776560", "0", "310776560_0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, descriptionKey(tt.classID, tt.instanceID), "descriptionKey(%q, %q)", tt.classID, tt.instanceID)
	}
}

func TestDescriptionIndex_ResolveIsIdempotent(t *testing.T) {
	idx := newDescriptionIndex()
	descs := []*Description{
		{ClassID: "1", InstanceID: "2", Name: "Knife"},
		{ClassID: "3", Name: "Sticker"},
	}

	first := idx.resolve("1", "2", descs)
	require.NotNil(t, first)
	assert.Equal(t, 1, idx.merges)

	second := idx.resolve("1", "2", descs)
	assert.Same(t, first, second)
	assert.Equal(t, 1, idx.merges, "a hit must not merge again")

	sticker := idx.resolve("3", "", nil)
	require.NotNil(t, sticker, "missing instanceid resolves to classid_0")
	assert.Equal(t, "Sticker", sticker.Name)
	assert.Equal(t, 1, idx.merges)
}

func TestDescriptionIndex_NeverOverwrites(t *testing.T) {
	idx := newDescriptionIndex()
	original := &Description{ClassID: "1", InstanceID: "0", Name: "Original"}
	idx.merge([]*Description{original})

	// A miss on another key merges a page that repeats the known key.
	idx.resolve("9", "0", []*Description{
		{ClassID: "1", InstanceID: "0", Name: "Replacement"},
		{ClassID: "9", InstanceID: "0", Name: "Other"},
	})

	assert.Same(t, original, idx.byKey["1_0"])
	assert.Equal(t, 2, idx.len())
}

func TestDescriptionIndex_Miss(t *testing.T) {
	idx := newDescriptionIndex()
	assert.Nil(t, idx.resolve("404", "0", []*Description{nil, {ClassID: "1"}}))
	assert.Equal(t, 1, idx.len())
}

func TestAccumulator_AddPage(t *testing.T) {
	page := &Page{
		Success: true,
		Assets: []*Asset{
			{AssetID: "1", ClassID: "10", InstanceID: "0", Amount: "1"},
			{AssetID: "2", ClassID: "11", Amount: "1"},
			{AssetID: "3", ClassID: "12", InstanceID: "0", Amount: "1"},
			{CurrencyID: "7", ClassID: "13", Amount: "250"},
			nil,
		},
		Descriptions: []*Description{
			{ClassID: "10", InstanceID: "0", Tradable: true},
			{ClassID: "11", Tradable: false},
			{ClassID: "13", Tradable: true},
		},
	}

	t.Run("tradable only", func(t *testing.T) {
		acc := newAccumulator()
		acc.addPage(page, true, "2")

		require.Len(t, acc.items, 1)
		require.Len(t, acc.currencies, 1)
		assert.Equal(t, "1", acc.items[0].AssetID)
		assert.Equal(t, 1, acc.items[0].Pos)
		assert.Equal(t, int64(250), acc.currencies[0].Amount)
		assert.Equal(t, 2, acc.currencies[0].Pos)
		assert.Equal(t, 3, acc.nextPos)
	})

	t.Run("everything", func(t *testing.T) {
		acc := newAccumulator()
		acc.addPage(page, false, "2")

		require.Len(t, acc.items, 3)
		assert.Nil(t, acc.items[2].Description, "asset without description is kept unresolved")
		assert.Equal(t, "0", acc.items[1].InstanceID)
		assert.Equal(t, 4, acc.count())
	})
}

func TestAccumulator_Result(t *testing.T) {
	acc := newAccumulator()
	res := acc.result(12)

	assert.NotNil(t, res.Inventory)
	assert.NotNil(t, res.Currency)
	assert.Equal(t, 12, res.TotalInventoryCount)
}
