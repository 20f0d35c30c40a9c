package cookies

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cookies.json")
	c := NewLoadCookie(path)

	_, err := c.LoadCookies()
	require.Error(t, err)

	require.NoError(t, c.SaveCookies([]byte(`[{"name":"auth_token"}]`)))

	data, err := c.LoadCookies()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"auth_token"}]`, string(data))

	require.NoError(t, c.DeleteCookies())
	require.NoError(t, c.DeleteCookies(), "deleting a missing file is not an error")
}

func TestGetCookiesFilePath(t *testing.T) {
	t.Setenv("COOKIES_PATH", "")
	t.Setenv("SMARTX_DATA_DIR", "/tmp/smartx")
	assert.Equal(t, filepath.Join("/tmp/smartx", "cookies.json"), GetCookiesFilePath())

	t.Setenv("COOKIES_PATH", "/etc/x.json")
	assert.Equal(t, "/etc/x.json", GetCookiesFilePath())
}
