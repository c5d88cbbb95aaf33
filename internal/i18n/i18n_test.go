package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "en", c.Locales()[0])
	assert.Contains(t, c.Locales(), "de")

	assert.Equal(t, "This poll no longer exists.", c.T("misc.poll_not_found", "en"))
	assert.Equal(t, "Diese Umfrage existiert nicht mehr.", c.T("misc.poll_not_found", "de"))
}

func TestLocaleMatching(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, c.T("misc.poll_not_found", "de"), c.T("misc.poll_not_found", "de-AT"))
	assert.Equal(t, c.T("misc.poll_not_found", "en"), c.T("misc.poll_not_found", "fr"))
	assert.Equal(t, c.T("misc.poll_not_found", "en"), c.T("misc.poll_not_found", ""))
	assert.Equal(t, "no.such.key", c.T("no.such.key", "de"))
	assert.Equal(t, "2 votes", c.Tf("results.votes.other", "en", 2))
}

func TestNewValidatesCompleteness(t *testing.T) {
	fsys := fstest.MapFS{
		"en.yaml": {Data: []byte("a:\n  b: one\n  c: two\n")},
		"de.yaml": {Data: []byte("a:\n  b: eins\n  d: vier\n")},
	}
	_, err := New(fsys, "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "de: missing a.c")
	assert.Contains(t, err.Error(), "de: unknown a.d")
}

func TestNewRequiresFallback(t *testing.T) {
	fsys := fstest.MapFS{"de.yaml": {Data: []byte("a: b\n")}}
	_, err := New(fsys, "en")
	assert.Error(t, err)
}

func TestNewRejectsNonStringValues(t *testing.T) {
	fsys := fstest.MapFS{"en.yaml": {Data: []byte("a: [1, 2]\n")}}
	_, err := New(fsys, "en")
	assert.Error(t, err)
}
