package inventory

// descriptionKey builds the classid_instanceid lookup key. A missing instance id is "0".
func descriptionKey(classID, instanceID string) string {
	if instanceID == "" {
		instanceID = "0"
	}
	return classID + "_" + instanceID
}

// descriptionIndex maps classid_instanceid to descriptions seen so far in one fetch.
// It only grows: entries are added on a lookup miss and never replaced.
type descriptionIndex struct {
	byKey  map[string]*Description
	merges int
}

func newDescriptionIndex() *descriptionIndex {
	return &descriptionIndex{byKey: make(map[string]*Description)}
}

// resolve returns the description for an asset, merging the current page's
// descriptions into the index only when the key is not already known.
// A nil result means the page carried no matching description.
func (idx *descriptionIndex) resolve(classID, instanceID string, descriptions []*Description) *Description {
	key := descriptionKey(classID, instanceID)
	if desc, ok := idx.byKey[key]; ok {
		return desc
	}

	idx.merge(descriptions)
	return idx.byKey[key]
}

func (idx *descriptionIndex) merge(descriptions []*Description) {
	idx.merges++
	for _, desc := range descriptions {
		if desc == nil {
			continue
		}
		key := descriptionKey(desc.ClassID, desc.InstanceID)
		if _, ok := idx.byKey[key]; !ok {
			idx.byKey[key] = desc
		}
	}
}

func (idx *descriptionIndex) len() int {
	return len(idx.byKey)
}

// accumulator is the state threaded through every page of one fetch.
type accumulator struct {
	items        []*Item
	currencies   []*Item
	nextPos      int
	descriptions *descriptionIndex
}

func newAccumulator() *accumulator {
	return &accumulator{
		items:        []*Item{},
		currencies:   []*Item{},
		nextPos:      1,
		descriptions: newDescriptionIndex(),
	}
}

// addPage joins every asset of page with its description and appends the ones
// that pass the tradable filter. Positions are assigned only to kept assets.
func (acc *accumulator) addPage(page *Page, tradableOnly bool, contextID string) {
	for _, asset := range page.Assets {
		if asset == nil {
			continue
		}

		desc := acc.descriptions.resolve(asset.ClassID, asset.InstanceID, page.Descriptions)
		if tradableOnly && (desc == nil || !bool(desc.Tradable)) {
			continue
		}

		item := newItem(asset, desc, contextID, acc.nextPos)
		acc.nextPos++

		if asset.IsCurrency() {
			acc.currencies = append(acc.currencies, item)
		} else {
			acc.items = append(acc.items, item)
		}
	}
}

func (acc *accumulator) count() int {
	return len(acc.items) + len(acc.currencies)
}

func (acc *accumulator) result(total int) *Result {
	return &Result{
		Inventory:           acc.items,
		Currency:            acc.currencies,
		TotalInventoryCount: total,
	}
}
