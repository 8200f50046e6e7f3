package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Flag is a boolean that the inventory endpoint encodes as 0/1, "0"/"1" or true/false.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", "", `""`:
		*f = false
		return nil
	case "true":
		*f = true
		return nil
	case "false":
		*f = false
		return nil
	}

	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("inventory: invalid flag %s", data)
	}
	*f = n != 0
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// Asset is one entry of the endpoint's assets array.
type Asset struct {
	AppID      uint32 `json:"appid"`
	ContextID  string `json:"contextid"`
	AssetID    string `json:"assetid"`
	ClassID    string `json:"classid"`
	InstanceID string `json:"instanceid,omitempty"`
	Amount     string `json:"amount"`
	CurrencyID string `json:"currencyid,omitempty"`
}

// IsCurrency reports whether the asset is a wallet-style currency rather than an item.
func (a *Asset) IsCurrency() bool {
	return a.CurrencyID != ""
}

// DescriptionLine is one line of an item's descriptions or owner_descriptions.
type DescriptionLine struct {
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
	Color string `json:"color,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Action is an in-game or market link attached to a description.
type Action struct {
	Link string `json:"link"`
	Name string `json:"name"`
}

// Tag categorizes a description (rarity, type, quality, ...).
type Tag struct {
	Category              string `json:"category"`
	InternalName          string `json:"internal_name"`
	LocalizedCategoryName string `json:"localized_category_name,omitempty"`
	LocalizedTagName      string `json:"localized_tag_name,omitempty"`
	Color                 string `json:"color,omitempty"`
}

// Description is shared metadata referenced by one or more assets through
// their (classid, instanceid) pair.
type Description struct {
	AppID                       uint32            `json:"appid"`
	ClassID                     string            `json:"classid"`
	InstanceID                  string            `json:"instanceid,omitempty"`
	Currency                    Flag              `json:"currency"`
	Name                        string            `json:"name"`
	MarketName                  string            `json:"market_name,omitempty"`
	MarketHashName              string            `json:"market_hash_name,omitempty"`
	Type                        string            `json:"type,omitempty"`
	NameColor                   string            `json:"name_color,omitempty"`
	BackgroundColor             string            `json:"background_color,omitempty"`
	IconURL                     string            `json:"icon_url,omitempty"`
	IconURLLarge                string            `json:"icon_url_large,omitempty"`
	Tradable                    Flag              `json:"tradable"`
	Marketable                  Flag              `json:"marketable"`
	Commodity                   Flag              `json:"commodity"`
	MarketTradableRestriction   int               `json:"market_tradable_restriction,omitempty"`
	MarketMarketableRestriction int               `json:"market_marketable_restriction,omitempty"`
	MarketFeeApp                uint32            `json:"market_fee_app,omitempty"`
	ItemExpiration              string            `json:"item_expiration,omitempty"`
	FraudWarnings               []string          `json:"fraudwarnings,omitempty"`
	Descriptions                []DescriptionLine `json:"descriptions,omitempty"`
	OwnerDescriptions           []DescriptionLine `json:"owner_descriptions,omitempty"`
	Actions                     []Action          `json:"actions,omitempty"`
	MarketActions               []Action          `json:"market_actions,omitempty"`
	Tags                        []Tag             `json:"tags,omitempty"`
}

// Page is the response body of one inventory request.
type Page struct {
	Success             Flag           `json:"success"`
	Assets              []*Asset       `json:"assets"`
	Descriptions        []*Description `json:"descriptions"`
	MoreItems           Flag           `json:"more_items"`
	LastAssetID         string         `json:"last_assetid"`
	TotalInventoryCount *int           `json:"total_inventory_count"`

	// Error messages some failures carry instead of a payload.
	ErrorMessage    string `json:"error,omitempty"`
	ErrorMessageAlt string `json:"Error,omitempty"`
}

// isEmptyInventory reports the canonical empty-inventory response. An
// absent count does not qualify.
func (p *Page) isEmptyInventory() bool {
	return bool(p.Success) && p.TotalInventoryCount != nil && *p.TotalInventoryCount == 0
}

// total returns the reported inventory size, or 0 when the field is absent.
func (p *Page) total() int {
	if p.TotalInventoryCount == nil {
		return 0
	}
	return *p.TotalInventoryCount
}

// validate returns a *MalformedResponseError when required fields are missing.
func (p *Page) validate() error {
	if p.Success && p.Assets != nil && p.Descriptions != nil {
		return nil
	}

	msg := p.ErrorMessage
	if msg == "" {
		msg = p.ErrorMessageAlt
	}
	return &MalformedResponseError{Message: msg}
}

// Item is an asset joined with its description.
type Item struct {
	ID          string       `json:"id"`
	AssetID     string       `json:"assetid,omitempty"`
	CurrencyID  string       `json:"currencyid,omitempty"`
	ClassID     string       `json:"classid"`
	InstanceID  string       `json:"instanceid"`
	Amount      int64        `json:"amount"`
	AppID       uint32       `json:"appid"`
	ContextID   string       `json:"contextid"`
	Pos         int          `json:"pos"`
	IsCurrency  bool         `json:"is_currency"`
	Description *Description `json:"description,omitempty"`
}

func newItem(asset *Asset, desc *Description, contextID string, pos int) *Item {
	instanceID := asset.InstanceID
	if instanceID == "" {
		instanceID = "0"
	}

	id := asset.AssetID
	if id == "" {
		id = asset.CurrencyID
	}

	ctx := asset.ContextID
	if ctx == "" {
		ctx = contextID
	}

	amount, err := strconv.ParseInt(asset.Amount, 10, 64)
	if err != nil {
		amount = 0
	}

	return &Item{
		ID:          id,
		AssetID:     asset.AssetID,
		CurrencyID:  asset.CurrencyID,
		ClassID:     asset.ClassID,
		InstanceID:  instanceID,
		Amount:      amount,
		AppID:       asset.AppID,
		ContextID:   ctx,
		Pos:         pos,
		IsCurrency:  asset.IsCurrency(),
		Description: desc,
	}
}

// Tradable reports whether the item's description marks it tradable.
func (i *Item) Tradable() bool {
	return i.Description != nil && bool(i.Description.Tradable)
}

// Marketable reports whether the item's description marks it marketable.
func (i *Item) Marketable() bool {
	return i.Description != nil && bool(i.Description.Marketable)
}

// Name returns the display name, or "" when no description was resolved.
func (i *Item) Name() string {
	if i.Description == nil {
		return ""
	}
	return i.Description.Name
}

// MarketHashName returns the market hash name, or "" when no description was resolved.
func (i *Item) MarketHashName() string {
	if i.Description == nil {
		return ""
	}
	return i.Description.MarketHashName
}

// Tag returns the tag in the given category, if any.
func (i *Item) Tag(category string) (Tag, bool) {
	if i.Description == nil {
		return Tag{}, false
	}
	for _, tag := range i.Description.Tags {
		if tag.Category == category {
			return tag, true
		}
	}
	return Tag{}, false
}

// Result is the outcome of a complete inventory fetch.
type Result struct {
	Inventory           []*Item `json:"inventory"`
	Currency            []*Item `json:"currency"`
	TotalInventoryCount int     `json:"total_inventory_count"`
}

func emptyResult() *Result {
	return &Result{
		Inventory: []*Item{},
		Currency:  []*Item{},
	}
}

// MarshalJSON keeps empty lists as [] instead of null.
func (r *Result) MarshalJSON() ([]byte, error) {
	type alias Result
	out := alias(*r)
	if out.Inventory == nil {
		out.Inventory = []*Item{}
	}
	if out.Currency == nil {
		out.Currency = []*Item{}
	}
	return json.Marshal(out)
}
