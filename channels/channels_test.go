package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChannel(cuid, name string) Channel {
	return Channel{
		Attributes: Attributes{
			CUID:  cuid,
			Name:  name,
			ID:    cuid + ".tv",
			Logo:  "http://example.com/" + cuid + ".png",
			Title: name,
		},
		URL: "http://example.com/stream/" + cuid,
	}
}

func TestResolve(t *testing.T) {
	withName := testChannel("1", "CNN")
	withName.Overrides = &Overrides{Name: StringPtr("CNN HD")}

	emptyOverride := testChannel("2", "BBC")
	emptyOverride.Overrides = &Overrides{Name: StringPtr("")}

	bare := Channel{Attributes: Attributes{CUID: "3"}}

	numbered := testChannel("4", "ESPN")
	numbered.Attributes.ChannelNumber = "100"

	grouped := testChannel("5", "HBO")
	grouped.Attributes.Grouping = "Movies"
	grouped.Overrides = &Overrides{Group: StringPtr("Premium")}

	tests := []struct {
		name     string
		channel  Channel
		field    Field
		expected string
	}{
		{"override wins", withName, FieldName, "CNN HD"},
		{"other field inherits", withName, FieldLogo, "http://example.com/1.png"},
		{"empty override inherits", emptyOverride, FieldName, "BBC"},
		{"missing display field", bare, FieldName, NotAvailable},
		{"missing group", bare, FieldGroup, NotAvailable},
		{"channel number falls back to CUID", bare, FieldChannelNumber, "3"},
		{"channel number from attributes", numbered, FieldChannelNumber, "100"},
		{"group override", grouped, FieldGroup, "Premium"},
		{"enabled defaults true", bare, FieldEnabled, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.channel, tt.field))
		})
	}
}

func TestResolveEnabled(t *testing.T) {
	c := testChannel("1", "CNN")
	assert.True(t, ResolveEnabled(c))

	c.Attributes.Enabled = BoolPtr(false)
	assert.False(t, ResolveEnabled(c))

	c.Overrides = &Overrides{Enabled: BoolPtr(true)}
	assert.True(t, ResolveEnabled(c))
}

func TestResolve_OverrideOrAttribute(t *testing.T) {
	c := testChannel("7", "Discovery")
	c.Overrides = &Overrides{Title: StringPtr("Disc"), ID: StringPtr("disc.id")}

	for _, field := range Fields {
		if field == FieldEnabled {
			continue
		}
		got := Resolve(c, field)
		if v, ok := OverrideValue(c, field); ok {
			assert.Equal(t, v, got, "field %s", field)
		} else if v, ok := AttributeValue(c, field); ok {
			assert.Equal(t, v, got, "field %s", field)
		}
	}
}

func TestApplyOverride(t *testing.T) {
	original := testChannel("1", "CNN")
	original.Overrides = &Overrides{Logo: StringPtr("http://logos/cnn.png")}

	updated, err := ApplyOverride(original, FieldName, "CNN International")
	require.NoError(t, err)

	assert.Equal(t, "CNN International", Resolve(updated, FieldName))
	assert.Equal(t, "http://logos/cnn.png", Resolve(updated, FieldLogo))
	assert.Equal(t, "CNN", updated.Attributes.Name)

	// original is untouched
	assert.Nil(t, original.Overrides.Name)
	assert.Equal(t, "CNN", Resolve(original, FieldName))

	again, err := ApplyOverride(updated, FieldName, "CNN International")
	require.NoError(t, err)
	assert.Equal(t, *updated.Overrides, *again.Overrides)
}

func TestApplyOverride_Enabled(t *testing.T) {
	c := testChannel("1", "CNN")

	off, err := ApplyOverride(c, FieldEnabled, "false")
	require.NoError(t, err)
	assert.False(t, ResolveEnabled(off))

	_, err = ApplyOverride(c, FieldEnabled, "maybe")
	assert.Error(t, err)

	_, err = ApplyOverride(c, Field("bogus"), "x")
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	c := testChannel("1", "CNN")
	c.Overrides = &Overrides{Name: StringPtr("CNN HD"), Logo: StringPtr("l")}

	patch := Overrides{ChannelNumber: StringPtr("5"), Group: StringPtr("News"), Enabled: BoolPtr(false)}
	updated := ApplyOverrides(c, patch)

	assert.Equal(t, "CNN HD", Resolve(updated, FieldName))
	assert.Equal(t, "5", Resolve(updated, FieldChannelNumber))
	assert.Equal(t, "News", Resolve(updated, FieldGroup))
	assert.False(t, ResolveEnabled(updated))

	*patch.Group = "Sports"
	assert.Equal(t, "News", Resolve(updated, FieldGroup))
}

func TestReplaceByCUID(t *testing.T) {
	list := []Channel{testChannel("1", "A"), testChannel("2", "B"), testChannel("3", "C")}
	list[0].Overrides = &Overrides{Name: StringPtr("A1")}
	list[2].Overrides = &Overrides{Name: StringPtr("C1")}

	updated, err := ApplyOverride(list[1], FieldLogo, "new.png")
	require.NoError(t, err)

	out := ReplaceByCUID(list, updated)
	require.Len(t, out, 3)
	assert.Equal(t, "new.png", Resolve(out[1], FieldLogo))
	assert.Same(t, list[0].Overrides, out[0].Overrides)
	assert.Same(t, list[2].Overrides, out[2].Overrides)
	assert.Nil(t, list[1].Overrides)
}

func TestUpdateByCUID(t *testing.T) {
	list := []Channel{testChannel("1", "A"), testChannel("2", "B")}

	out, found, err := UpdateByCUID(list, "2", func(c Channel) (Channel, error) {
		return ApplyOverride(c, FieldName, "Bee")
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Bee", Resolve(out[1], FieldName))

	out, found, err = UpdateByCUID(list, "missing", func(c Channel) (Channel, error) {
		t.Fatal("should not be called")
		return c, nil
	})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, list, out)
}

func TestParseField(t *testing.T) {
	f, err := ParseField("grouping")
	require.NoError(t, err)
	assert.Equal(t, FieldGroup, f)

	_, err = ParseField("url")
	assert.Error(t, err)
}

func TestClone(t *testing.T) {
	c := testChannel("1", "CNN")
	c.Attributes.Enabled = BoolPtr(true)
	c.Overrides = &Overrides{Name: StringPtr("CNN HD")}

	cp := Clone(c)
	assert.Equal(t, c, cp)
	assert.NotSame(t, c.Overrides, cp.Overrides)

	*cp.Overrides.Name = "changed"
	*cp.Attributes.Enabled = false
	assert.Equal(t, "CNN HD", *c.Overrides.Name)
	assert.True(t, *c.Attributes.Enabled)
}
