package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{Scalar, "SCALAR"},
		{Enum, "ENUM"},
		{Object, "OBJECT"},
		{Interface, "INTERFACE"},
		{Union, "UNION"},
		{List, "LIST"},
		{NonNull, "NON_NULL"},
		{Kind(0), "Kind(0)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.kind.String())
	}
}

func TestTypeString(t *testing.T) {
	email := NewScalar("Email", "")
	tests := []struct {
		name     string
		typ      *Type
		expected string
	}{
		{"named", email, "Email"},
		{"non null", NonNullOf(email), "Email!"},
		{"list", ListOf(email), "[Email]"},
		{"list of non null", NonNullOf(ListOf(NonNullOf(email))), "[Email!]!"},
		{"nil", nil, "<nil>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.typ.String())
		})
	}
}

func TestWrappers(t *testing.T) {
	t.Run("non null is idempotent", func(t *testing.T) {
		nn := NonNullOf(String)
		assert.Same(t, nn, NonNullOf(nn))
	})

	t.Run("nullable strips one wrapper", func(t *testing.T) {
		assert.Same(t, String, Nullable(NonNullOf(String)))
		assert.Same(t, String, Nullable(String))
		assert.Nil(t, Nullable(nil))
	})

	t.Run("named unwraps everything", func(t *testing.T) {
		typ := NonNullOf(ListOf(NonNullOf(Int)))
		assert.Same(t, Int, typ.Named())
		assert.False(t, typ.IsNamed())
		assert.True(t, Int.IsNamed())
	})
}

func TestSameAs(t *testing.T) {
	a := NonNullOf(ListOf(String))
	b := NonNullOf(ListOf(String))
	assert.True(t, a.SameAs(b))
	assert.False(t, a.SameAs(ListOf(String)))
	assert.False(t, a.SameAs(nil))

	var none *Type
	assert.True(t, none.SameAs(nil))
}

func TestFields(t *testing.T) {
	t.Run("lookup", func(t *testing.T) {
		obj := NewObject("User", &Field{Name: "id", Type: ID}, &Field{Name: "name", Type: String})
		require.NotNil(t, obj.Field("name"))
		assert.Same(t, String, obj.Field("name").Type)
		assert.Nil(t, obj.Field("missing"))
	})

	t.Run("thunk runs once", func(t *testing.T) {
		var calls int
		obj := NewObjectThunk("Lazy", func() []*Field {
			calls++
			return []*Field{{Name: "id", Type: ID}}
		})
		assert.Zero(t, calls)
		assert.Len(t, obj.Fields(), 1)
		assert.Len(t, obj.Fields(), 1)
		assert.Equal(t, 1, calls)
	})

	t.Run("mutual references", func(t *testing.T) {
		var post *Type
		user := NewObjectThunk("User", func() []*Field {
			return []*Field{{Name: "posts", Type: ListOf(post)}}
		})
		post = NewObject("Post", &Field{Name: "author", Type: user})
		assert.Same(t, post, user.Field("posts").Type.OfType)
	})

	t.Run("set fields", func(t *testing.T) {
		obj := NewObjectThunk("User", func() []*Field { return []*Field{{Name: "id", Type: ID}} })
		obj.SetFields(&Field{Name: "name", Type: String})
		assert.Nil(t, obj.Field("id"))
		assert.NotNil(t, obj.Field("name"))
	})
}

func TestImplements(t *testing.T) {
	node := NewInterface("Node", &Field{Name: "id", Type: NonNullOf(ID)})
	card := NewInterface("Card", &Field{Name: "id", Type: NonNullOf(ID)})
	card.Interfaces = []*Type{node}
	widget := NewObject("Widget", &Field{Name: "id", Type: NonNullOf(ID)})
	widget.Interfaces = []*Type{card}

	assert.True(t, widget.Implements(card))
	assert.True(t, widget.Implements(node))
	assert.False(t, node.Implements(card))

	u := NewUnion("Result", widget)
	assert.True(t, u.HasMember(widget))
	assert.False(t, u.HasMember(NewObject("Other")))
}
