package settings

import (
	"testing"

	"m3u-lineup/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	s := New()

	s, err := s.AddM3U("http://provider.example/list.m3u")
	require.NoError(t, err)
	require.Len(t, s.M3UFiles, 1)
	assert.True(t, s.M3UFiles[0].Enabled)
	assert.NotEmpty(t, s.M3UFiles[0].Key)

	s, err = s.AddXMLTV(" https://provider.example/epg.xml ")
	require.NoError(t, err)
	require.Len(t, s.XMLTVFiles, 1)
	assert.Equal(t, "https://provider.example/epg.xml", s.XMLTVFiles[0].URL)
}

func TestAdd_RejectsDuplicate(t *testing.T) {
	s, err := New().AddM3U("http://provider.example/list.m3u")
	require.NoError(t, err)

	next, err := s.AddM3U("http://provider.example/list.m3u")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Len(t, next.M3UFiles, 1)
	assert.Contains(t, err.Error(), "already exists")

	// the same URL is fine in the other list
	next, err = s.AddXMLTV("http://provider.example/list.m3u")
	require.NoError(t, err)
	assert.Len(t, next.XMLTVFiles, 1)
}

func TestAdd_RejectsScheme(t *testing.T) {
	for _, url := range []string{"", "ftp://provider.example/list.m3u", "provider.example/list.m3u"} {
		next, err := New().AddM3U(url)
		require.Error(t, err, url)
		assert.True(t, apperr.IsValidation(err))
		assert.Empty(t, next.M3UFiles)
	}
}

func TestRemoveAndToggle(t *testing.T) {
	s := New()
	s, _ = s.AddM3U("http://a.example/1.m3u")
	s, _ = s.AddM3U("http://a.example/2.m3u")
	first := s.M3UFiles[0].Key

	toggled := s.Toggle(KindM3U, first)
	assert.False(t, toggled.M3UFiles[0].Enabled)
	assert.True(t, s.M3UFiles[0].Enabled)
	assert.Equal(t, []string{"http://a.example/2.m3u"}, toggled.EnabledURLs(KindM3U))

	removed := toggled.Remove(KindM3U, first)
	require.Len(t, removed.M3UFiles, 1)
	assert.Equal(t, "http://a.example/2.m3u", removed.M3UFiles[0].URL)
	assert.Len(t, toggled.M3UFiles, 2)
}

func TestNormalizeAndEqual(t *testing.T) {
	loaded := Settings{M3UFiles: []Source{{URL: "http://a.example/1.m3u", Enabled: true}}}
	n := loaded.Normalize()

	assert.Equal(t, "http://a.example/1.m3u", n.M3UFiles[0].Key)
	assert.NotNil(t, n.XMLTVFiles)
	assert.True(t, Equal(n, loaded.Normalize()))
	assert.False(t, Equal(n, n.Toggle(KindM3U, "http://a.example/1.m3u")))
}

func TestRebuild(t *testing.T) {
	posted := Settings{
		M3UFiles: []Source{
			{Key: "k1", URL: " http://example.com/a.m3u ", Enabled: false},
			{URL: "https://example.com/b.m3u", Enabled: true},
		},
		XMLTVFiles: []Source{{Key: "x1", URL: "http://example.com/guide.xml", Enabled: true}},
	}

	got, err := Rebuild(posted)
	require.NoError(t, err)
	require.Len(t, got.M3UFiles, 2)
	assert.Equal(t, "k1", got.M3UFiles[0].Key)
	assert.Equal(t, "http://example.com/a.m3u", got.M3UFiles[0].URL)
	assert.False(t, got.M3UFiles[0].Enabled)
	assert.NotEmpty(t, got.M3UFiles[1].Key)
	assert.True(t, got.M3UFiles[1].Enabled)
	require.Len(t, got.XMLTVFiles, 1)
	assert.Equal(t, "x1", got.XMLTVFiles[0].Key)
}

func TestRebuild_Rejects(t *testing.T) {
	_, err := Rebuild(Settings{M3UFiles: []Source{{URL: "ftp://example.com/a.m3u"}}})
	assert.True(t, apperr.IsValidation(err))

	_, err = Rebuild(Settings{M3UFiles: []Source{
		{URL: "http://example.com/a.m3u"},
		{URL: "http://example.com/a.m3u"},
	}})
	var v *apperr.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "This M3U URL already exists.", v.Reason)
}
