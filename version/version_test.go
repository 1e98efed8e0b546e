package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	b := BuildInfo{Version: "1.2.0", GitRevision: "abc", GolangVersion: "go1.19", BuildStatus: "Clean", GitTag: "v1.2.0"}

	out, err := b.Render("short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", out)

	out, err = b.Render("yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "version: 1.2.0\n")
	assert.Contains(t, out, "revision: abc\n")

	out, err = b.Render("json")
	require.NoError(t, err)
	assert.Contains(t, out, `"golang_version": "go1.19"`)

	_, err = b.Render("xml")
	assert.Error(t, err)

	assert.Equal(t, "1.2.0-abc-Clean", b.String())
}

func TestWithVersion(t *testing.T) {
	b := BuildInfo{Version: "unknown"}
	assert.Equal(t, "2.0", b.WithVersion("2.0").Version)
	assert.Equal(t, "unknown", b.WithVersion("").Version)
	assert.Equal(t, "unknown", b.Version)
}
