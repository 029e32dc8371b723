package load

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/syssam/cardgraph/schema"
)

type (
	// Card is a validated type card: an envelope whose data.schema declares
	// an entity type.
	Card struct {
		ID      string
		Slug    string
		Version string
		Type    string
		Active  bool
		// Origin is where the card was read from, e.g. a file path.
		Origin string
		// Envelope is the card document as loaded.
		Envelope *schema.Fragment
	}

	// Source supplies type cards.
	Source interface {
		Cards(ctx context.Context) ([]*Card, error)
	}

	// Static is a fixed set of cards.
	Static []*Card
)

// Cards implements Source.
func (s Static) Cards(context.Context) ([]*Card, error) { return s, nil }

// IDNamespace is the namespace of the card ids derived from slug and version.
var IDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/syssam/cardgraph"))

var slugRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// NewCard validates the envelope and returns its card. Cards without an
// id get one derived from slug and version.
func NewCard(envelope *schema.Fragment, origin string) (*Card, error) {
	c := &Card{
		Slug:     envelope.Slug(),
		Version:  envelope.Version(),
		Type:     envelope.CardType(),
		Active:   envelope.Active(),
		Origin:   origin,
		Envelope: envelope,
	}
	fail := func(reason string, cause error) (*Card, error) {
		return nil, &CardError{Origin: origin, Slug: c.Slug, Version: c.Version, Reason: reason, Cause: cause}
	}
	if !envelope.IsObject() {
		return fail("document is not an object", nil)
	}
	if !slugRe.MatchString(c.Slug) {
		return fail("invalid slug", nil)
	}
	if _, err := semver.NewVersion(c.Version); err != nil {
		return fail("invalid version", err)
	}
	if !envelope.DataSchema().IsObject() {
		return fail("data.schema is not an object", nil)
	}
	if err := compile(c); err != nil {
		return fail("data.schema does not compile", err)
	}
	switch id := envelope.Get(schema.KeyID); {
	case id == nil:
		c.ID = uuid.NewSHA1(IDNamespace, []byte(c.Slug+"@"+c.Version)).String()
	case id.IsString():
		u, err := uuid.Parse(id.Text())
		if err != nil {
			return fail("invalid id", err)
		}
		c.ID = u.String()
	default:
		return fail("invalid id", nil)
	}
	return c, nil
}

// compile checks that data.schema is a well-formed JSON Schema.
func compile(c *Card) error {
	raw, err := c.Envelope.DataSchema().MarshalJSON()
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	url := fmt.Sprintf("https://cards.invalid/%s/%s.json", c.Slug, c.Version)
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, doc); err != nil {
		return err
	}
	_, err = compiler.Compile(url)
	return err
}

// Schemas returns the envelopes of the cards.
func Schemas(cards []*Card) []*schema.Fragment {
	out := make([]*schema.Fragment, len(cards))
	for i, c := range cards {
		out[i] = c.Envelope
	}
	return out
}
