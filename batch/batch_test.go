package batch

import (
	"testing"

	"m3u-lineup/apperr"
	"m3u-lineup/channels"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ch(cuid string) channels.Channel {
	return channels.Channel{
		Attributes: channels.Attributes{CUID: cuid, Name: "Channel " + cuid},
		URL:        "http://example.com/" + cuid,
	}
}

func testList() []channels.Channel {
	list := []channels.Channel{ch("c1"), ch("c2"), ch("c3"), ch("c4")}
	list[0].Overrides = &channels.Overrides{Name: channels.StringPtr("First"), Logo: channels.StringPtr("one.png")}
	return list
}

func numbers(list []channels.Channel) map[string]string {
	out := make(map[string]string, len(list))
	for _, c := range list {
		out[c.Attributes.CUID] = channels.Resolve(c, channels.FieldChannelNumber)
	}
	return out
}

func TestTemplate_Validate(t *testing.T) {
	assert.NoError(t, DefaultTemplate().Validate())

	for _, n := range []int{0, -3} {
		err := Template{StartingChannelNumber: n}.Validate()
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	}
}

func TestPreview_FollowsSelectionOrder(t *testing.T) {
	list := testList()
	tpl := Template{Grouping: "News", Enabled: true, StartingChannelNumber: 10}

	preview := Preview(list, []string{"c3", "c1", "c2"}, tpl)
	require.Len(t, preview, 3)

	assert.Equal(t, "c3", preview[0].Attributes.CUID)
	assert.Equal(t, "c1", preview[1].Attributes.CUID)
	assert.Equal(t, "c2", preview[2].Attributes.CUID)
	assert.Equal(t, map[string]string{"c3": "10", "c1": "11", "c2": "12"}, numbers(preview))

	for _, c := range preview {
		assert.Equal(t, "News", channels.Resolve(c, channels.FieldGroup))
		assert.True(t, channels.ResolveEnabled(c))
	}

	// unrelated overrides survive
	assert.Equal(t, "First", channels.Resolve(preview[1], channels.FieldName))
	assert.Equal(t, "one.png", channels.Resolve(preview[1], channels.FieldLogo))

	// input untouched
	assert.Nil(t, list[0].Overrides.Group)
	assert.Nil(t, list[2].Overrides)
}

func TestPreview_SkipsStaleAndDuplicateKeys(t *testing.T) {
	list := testList()
	tpl := Template{StartingChannelNumber: 1}

	preview := Preview(list, []string{"ghost", "c2", "c2", "c4"}, tpl)
	assert.Equal(t, map[string]string{"c2": "1", "c4": "2"}, numbers(preview))
	assert.False(t, channels.ResolveEnabled(preview[0]))
}

func TestPreview_Empty(t *testing.T) {
	preview := Preview(testList(), nil, DefaultTemplate())
	require.NotNil(t, preview)
	assert.Empty(t, preview)
}

func TestCommit(t *testing.T) {
	list := testList()
	tpl := Template{Grouping: "Sports", Enabled: false, StartingChannelNumber: 10}
	keys := []string{"c3", "c1"}

	out := Commit(list, keys, tpl)
	require.Len(t, out, 4)

	// list order is preserved
	assert.Equal(t, "c1", out[0].Attributes.CUID)
	assert.Equal(t, "c3", out[2].Attributes.CUID)
	assert.Equal(t, "11", channels.Resolve(out[0], channels.FieldChannelNumber))
	assert.Equal(t, "10", channels.Resolve(out[2], channels.FieldChannelNumber))
	assert.False(t, channels.ResolveEnabled(out[2]))

	// unselected entries are carried over
	assert.Equal(t, list[1], out[1])
	assert.Equal(t, list[3], out[3])

	// committing and previewing agree
	preview := Preview(list, keys, tpl)
	for _, p := range preview {
		idx := channels.IndexOf(out, p.Attributes.CUID)
		assert.Equal(t, *p.Overrides, *out[idx].Overrides)
	}

	// previewing the committed list with the same arguments does not drift
	again := Preview(out, keys, tpl)
	assert.Equal(t, preview, again)
}

func TestCommit_EmptySelectionIsNoop(t *testing.T) {
	list := testList()

	out := Commit(list, []string{}, DefaultTemplate())
	assert.Equal(t, list, out)

	out = Commit(list, []string{"ghost"}, DefaultTemplate())
	assert.Equal(t, list, out)
}

func TestCollisions(t *testing.T) {
	list := testList()
	out := Commit(list, []string{"c1", "c2"}, Template{StartingChannelNumber: 3})
	// c1 -> 3, c2 -> 4, c3 defaults to CUID "c3", c4 to "c4"
	assert.Empty(t, Collisions(out))

	out = Commit(out, []string{"c4"}, Template{StartingChannelNumber: 3})
	collisions := Collisions(out)
	require.Len(t, collisions, 1)
	assert.Equal(t, "3", collisions[0].ChannelNumber)
	assert.ElementsMatch(t, []string{"c1", "c4"}, collisions[0].CUIDs)
}
