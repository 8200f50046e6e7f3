package inventory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    Flag
		wantErr bool
	}{
		{input: `1`, want: true},
		{input: `0`, want: false},
		{input: `"1"`, want: true},
		{input: `"0"`, want: false},
		{input: `true`, want: true},
		{input: `false`, want: false},
		{input: `null`, want: false},
		{input: `""`, want: false},
		{input: `"yes"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var f Flag
			err := json.Unmarshal([]byte(tt.input), &f)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestPage_Decode(t *testing.T) {
	body := `{
		"assets": [{"appid":730,"contextid":"2","assetid":"27","classid":"3","instanceid":"4","amount":"1"}],
		"descriptions": [{"appid":730,"classid":"3","instanceid":"4","name":"AK-47 | Redline","market_hash_name":"AK-47 | Redline (Field-Tested)","tradable":1,"marketable":1,"commodity":0,"currency":0,
			"tags":[{"category":"Rarity","internal_name":"Rarity_Rare_Weapon","localized_tag_name":"Classified"}]}],
		"more_items": 1,
		"last_assetid": "27",
		"total_inventory_count": 120,
		"success": 1,
		"rwgrsn": -2
	}`

	var page Page
	require.NoError(t, json.Unmarshal([]byte(body), &page))

	assert.True(t, bool(page.Success))
	assert.True(t, bool(page.MoreItems))
	assert.Equal(t, "27", page.LastAssetID)
	require.NotNil(t, page.TotalInventoryCount)
	assert.Equal(t, 120, page.total())
	assert.NoError(t, page.validate())
	assert.False(t, page.isEmptyInventory())

	item := newItem(page.Assets[0], page.Descriptions[0], "2", 1)
	assert.True(t, item.Tradable())
	assert.True(t, item.Marketable())
	assert.Equal(t, "AK-47 | Redline", item.Name())
	assert.Equal(t, "AK-47 | Redline (Field-Tested)", item.MarketHashName())

	tag, ok := item.Tag("Rarity")
	require.True(t, ok)
	assert.Equal(t, "Classified", tag.LocalizedTagName)
	_, ok = item.Tag("Exterior")
	assert.False(t, ok)
}

func TestNewItem(t *testing.T) {
	item := newItem(&Asset{CurrencyID: "5", ClassID: "9", Amount: "bad"}, nil, "6", 7)

	assert.Equal(t, "5", item.ID)
	assert.Equal(t, "0", item.InstanceID)
	assert.Equal(t, "6", item.ContextID)
	assert.Equal(t, int64(0), item.Amount)
	assert.Equal(t, 7, item.Pos)
	assert.True(t, item.IsCurrency)
	assert.False(t, item.Tradable())
	assert.Empty(t, item.Name())
	assert.Empty(t, item.MarketHashName())
}

func TestResult_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(&Result{TotalInventoryCount: 0})
	require.NoError(t, err)
	assert.JSONEq(t, `{"inventory":[],"currency":[],"total_inventory_count":0}`, string(data))

	data, err = json.Marshal(emptyResult())
	require.NoError(t, err)
	assert.JSONEq(t, `{"inventory":[],"currency":[],"total_inventory_count":0}`, string(data))
}

func TestResult_RoundTripKeepsDescriptions(t *testing.T) {
	desc := &Description{ClassID: "1", Name: "Case", Tradable: true}
	res := &Result{
		Inventory:           []*Item{newItem(&Asset{AssetID: "9", ClassID: "1", Amount: "1"}, desc, "2", 1)},
		TotalInventoryCount: 1,
	}

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Inventory, 1)
	assert.Equal(t, "Case", decoded.Inventory[0].Name())
	assert.True(t, decoded.Inventory[0].Tradable())
	assert.Empty(t, decoded.Currency)
}
