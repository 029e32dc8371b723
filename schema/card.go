package schema

import (
	_ "embed"
	"strings"
	"sync"
)

// Envelope keys of a card document.
const (
	KeySlug    = "slug"
	KeyVersion = "version"
	KeyType    = "type"
	KeyActive  = "active"
	KeyData    = "data"
	KeySchema  = "schema"
	KeyID      = "id"
)

// TypeCardType is the kind marker carried by type cards, the cards whose
// data.schema declares an entity type.
const TypeCardType = "type@1.0.0"

//go:embed card.json
var cardJSON []byte

var baseCard = sync.OnceValue(func() *Fragment {
	f, err := Parse(cardJSON)
	if err != nil {
		panic("schema: invalid embedded card schema: " + err.Error())
	}
	return f
})

// BaseCard returns the schema every card conforms to. Compiled, it becomes
// the Card interface implemented by every entity type.
func BaseCard() *Fragment { return baseCard() }

// Slug returns the `slug` of a card envelope.
func (f *Fragment) Slug() string { return f.Get(KeySlug).Text() }

// Version returns the `version` of a card envelope.
func (f *Fragment) Version() string { return f.Get(KeyVersion).Text() }

// CardType returns the `type` kind marker of a card envelope, e.g. "type@1.0.0".
func (f *Fragment) CardType() string {
	if t := f.Get(KeyType); t.IsString() {
		return t.Text()
	}
	return ""
}

// Active reports whether the card is active. Cards without the flag are active.
func (f *Fragment) Active() bool {
	a := f.Get(KeyActive)
	return a == nil || a.Bool()
}

// DataSchema returns `data.schema` of a card envelope.
func (f *Fragment) DataSchema() *Fragment {
	return f.Get(KeyData).Get(KeySchema)
}

// IsEnvelope reports whether f is a full entity envelope: a card with a
// slug, a version and an object data.schema. The kind marker and the
// active flag default to a type card and true, but a present one must be
// a string and a boolean.
func (f *Fragment) IsEnvelope() bool {
	return f.IsObject() &&
		f.Get(KeySlug).IsString() && f.Slug() != "" &&
		f.Get(KeyVersion).IsString() && f.Version() != "" &&
		(!f.Has(KeyType) || f.Get(KeyType).IsString()) &&
		(!f.Has(KeyActive) || f.Get(KeyActive).Kind() == Bool) &&
		f.DataSchema().IsObject()
}

// IsTypeCard reports whether the kind marker names the type card type,
// in any version.
func (f *Fragment) IsTypeCard() bool {
	t := f.CardType()
	return t == "type" || strings.HasPrefix(t, "type@")
}
