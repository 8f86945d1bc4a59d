package cryptox_test

import (
	"os"
	"testing"

	"github.com/devfolio/devfolio/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func testTempDir() string {
	dir, err := os.MkdirTemp("", "cryptox-test")
	if err != nil {
		panic(err)
	}
	return dir
}

func TestGenerateToken(t *testing.T) {
	tok, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.Len(t, tok, 43) // 32 bytes base64url, no padding

	other, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, tok, other)

	_, err = cryptox.GenerateToken(0)
	require.Error(t, err)
}

func TestGenerateHex(t *testing.T) {
	s, err := cryptox.GenerateHex(4)
	require.NoError(t, err)
	require.Len(t, s, 8)
	require.Regexp(t, "^[0-9a-f]+$", s)

	_, err = cryptox.GenerateHex(-1)
	require.Error(t, err)
}
