package load

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/cardgraph"
	"github.com/syssam/cardgraph/schema"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestNewCard(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		reason  string
		checkID string
	}{
		{
			name: "valid",
			doc:  `{"slug": "widget", "version": "1.0.0", "type": "type@1.0.0", "data": {"schema": {"type": "object"}}}`,
		},
		{
			name:    "explicit id",
			doc:     `{"id": "6BA7B810-9DAD-11D1-80B4-00C04FD430C8", "slug": "widget", "version": "1.0.0", "data": {"schema": {}}}`,
			checkID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		},
		{
			name:   "bad slug",
			doc:    `{"slug": "Widget_1", "version": "1.0.0", "data": {"schema": {}}}`,
			reason: "invalid slug",
		},
		{
			name:   "bad version",
			doc:    `{"slug": "widget", "version": "one", "data": {"schema": {}}}`,
			reason: "invalid version",
		},
		{
			name:   "no schema",
			doc:    `{"slug": "widget", "version": "1.0.0", "data": {}}`,
			reason: "data.schema is not an object",
		},
		{
			name:   "schema does not compile",
			doc:    `{"slug": "widget", "version": "1.0.0", "data": {"schema": {"type": 12}}}`,
			reason: "data.schema does not compile",
		},
		{
			name:   "bad id",
			doc:    `{"id": "nope", "slug": "widget", "version": "1.0.0", "data": {"schema": {}}}`,
			reason: "invalid id",
		},
		{
			name:   "not an object",
			doc:    `[]`,
			reason: "document is not an object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := schema.Parse([]byte(tt.doc))
			require.NoError(t, err)
			c, err := NewCard(f, "test")
			if tt.reason != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidCard)
				var ce *CardError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, tt.reason, ce.Reason)
				assert.Equal(t, "test", ce.Origin)
				return
			}
			require.NoError(t, err)
			assert.Same(t, f, c.Envelope)
			assert.Equal(t, "widget", c.Slug)
			assert.Equal(t, "1.0.0", c.Version)
			assert.True(t, c.Active)
			if tt.checkID != "" {
				assert.Equal(t, tt.checkID, c.ID)
			}
		})
	}

	t.Run("derived id is stable", func(t *testing.T) {
		f := schema.MustFrom(map[string]any{"slug": "widget", "version": "1.0.0", "data": map[string]any{"schema": map[string]any{}}})
		a, err := NewCard(f, "a")
		require.NoError(t, err)
		b, err := NewCard(f, "b")
		require.NoError(t, err)
		assert.Equal(t, a.ID, b.ID)
		assert.Len(t, a.ID, 36)

		other, err := NewCard(f.With(schema.KeyVersion, schema.StringValue("1.0.1")), "c")
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, other.ID)
	})
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		ext   string
		data  string
		slugs []string
	}{
		{"json", ".json", `{"slug": "a"}`, []string{"a"}},
		{"json array", ".json", `[{"slug": "a"}, {"slug": "b"}]`, []string{"a", "b"}},
		{"jsonc", ".jsonc", "{\n  // comment\n  \"slug\": \"a\", /* more */\n}", []string{"a"}},
		{"yaml", ".yaml", "slug: a\n", []string{"a"}},
		{"yaml documents", ".YML", "slug: a\n---\nslug: b\n", []string{"a", "b"}},
		{"empty yaml", ".yaml", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := Decode(tt.ext, []byte(tt.data))
			require.NoError(t, err)
			var slugs []string
			for _, d := range docs {
				slugs = append(slugs, d.Slug())
			}
			assert.Equal(t, tt.slugs, slugs)
		})
	}

	t.Run("errors", func(t *testing.T) {
		_, err := Decode(".json", []byte(`{`))
		assert.Error(t, err)
		_, err = Decode(".yaml", []byte("a: [\n"))
		assert.Error(t, err)
		_, err = Decode(".txt", []byte(`{}`))
		assert.Error(t, err)
	})
}

func TestDir(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"b/gadget.yaml": `
slug: gadget
version: 2.0.0
type: type@1.0.0
data:
  schema:
    type: object
    properties:
      serial: {type: string, format: uuid}
`,
		"a/widget.json": `{"slug": "widget", "version": "1.0.0", "type": "type@1.0.0", "data": {"schema": {"type": "object"}}}`,
		"a/thread.jsonc": `{
			// trailing commas are fine
			"slug": "thread", "version": "1.0.0", "type": "type",
			"data": {"schema": {"type": "object"},},
		}`,
		"a/instance.json":   `{"slug": "my-widget", "version": "1.0.0", "type": "widget@1.0.0", "data": {"title": "x"}}`,
		"a/inactive.json":   `{"slug": "old", "version": "1.0.0", "type": "type@1.0.0", "active": false, "data": {"schema": {}}}`,
		"a/invalid.json":    `{"slug": "Bad Slug", "version": "1.0.0", "type": "type@1.0.0", "data": {"schema": {}}}`,
		"a/notes.txt":       `not a card`,
		".hidden/card.json": `{`,
	})

	var buf bytes.Buffer
	src := &Dir{Path: dir, Logger: slog.New(slog.NewTextHandler(&buf, nil)), Workers: 2}
	cards, err := src.Cards(t.Context())
	require.NoError(t, err)

	var slugs []string
	for _, c := range cards {
		slugs = append(slugs, c.Slug)
	}
	assert.Equal(t, []string{"thread", "widget", "gadget"}, slugs)
	assert.Equal(t, filepath.Join(dir, "b", "gadget.yaml"), cards[2].Origin)
	assert.Contains(t, buf.String(), "skipping invalid type card")

	envelopes := Schemas(cards)
	require.Len(t, envelopes, 3)
	assert.True(t, envelopes[2].DataSchema().Get(schema.KeywordProperties).Has("serial"))

	t.Run("broken document", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"broken.json": `{"slug": `})
		_, err := (&Dir{Path: dir}).Cards(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrLoadFailed)
		assert.True(t, IsLoadError(err))
	})

	t.Run("every broken document", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			"a.json": `{"slug": `,
			"b.yaml": "slug: [",
			"c.json": `{"slug": "fine"}`,
		})
		_, err := (&Dir{Path: dir}).Cards(t.Context())
		var agg *cardgraph.AggregateError
		require.ErrorAs(t, err, &agg)
		assert.Len(t, agg.Errors, 2)
		assert.ErrorIs(t, err, ErrLoadFailed)
		assert.Contains(t, err.Error(), "a.json")
		assert.Contains(t, err.Error(), "b.yaml")
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := (&Dir{Path: filepath.Join(t.TempDir(), "missing")}).Cards(t.Context())
		assert.ErrorIs(t, err, ErrLoadFailed)
	})
}

func TestStatic(t *testing.T) {
	c := &Card{Slug: "widget"}
	cards, err := Static{c}.Cards(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []*Card{c}, cards)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	w := &Watcher{Path: dir, Debounce: 20 * time.Millisecond, Logger: slog.New(slog.DiscardHandler)}
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			calls.Add(1)
			return nil
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(`a: 1`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte(`x`), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
