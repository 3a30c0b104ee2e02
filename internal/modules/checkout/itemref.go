package checkout

import (
	"strings"

	"github.com/google/uuid"
)

type ItemKind int

const (
	KindHistoricalRecord ItemKind = iota
	KindBond
)

// ItemRef is the discriminated form of the item_id the client sends: a UUID
// refers to a historical record, anything else is a bond code. The raw
// string is kept because transactions store the id polymorphically.
type ItemRef struct {
	Kind ItemKind
	ID   string
}

func ParseItemRef(raw string) (ItemRef, bool) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return ItemRef{}, false
	}
	if _, err := uuid.Parse(id); err == nil {
		return ItemRef{Kind: KindHistoricalRecord, ID: id}, true
	}
	return ItemRef{Kind: KindBond, ID: id}, true
}

func (r ItemRef) IsRecord() bool { return r.Kind == KindHistoricalRecord }
