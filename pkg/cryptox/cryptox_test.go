package cryptox

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cryptox")
	if err != nil {
		panic(err)
	}
	SetPepperPath(filepath.Join(dir, "pepper"))
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	for _, pw := range []string{"password123", "P@ssw0rd!#$%", strings.Repeat("a", 100), "", "   spaces   "} {
		hash, err := HashPassword(pw)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$"))
		require.NoError(t, VerifyPassword(pw, hash))
		require.ErrorIs(t, VerifyPassword(pw+"x", hash), ErrPasswordMismatch)
	}

	t.Run("salted", func(t *testing.T) {
		a, err := HashPassword("same")
		require.NoError(t, err)
		b, err := HashPassword("same")
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})
}

func TestVerifyPasswordRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, h := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!$aGFzaA",
	} {
		require.ErrorIs(t, VerifyPassword("pw", h), ErrMalformedHash, h)
	}
}

func TestPepperPersists(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "nested", "pepper")
	first, err := loadOrGeneratePepper(file)
	require.NoError(t, err)
	second, err := loadOrGeneratePepper(file)
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.NoError(t, os.WriteFile(file, []byte("  \n"), 0600))
	_, err = loadOrGeneratePepper(file)
	require.Error(t, err)
}

func TestTokens(t *testing.T) {
	t.Parallel()

	a, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	b, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.Len(t, a, 43)
	require.NotEqual(t, a, b)

	_, err = GenerateToken(0)
	require.Error(t, err)

	require.Equal(t, FingerprintToken("x"), FingerprintToken("x"))
	require.NotEqual(t, FingerprintToken("x"), FingerprintToken("y"))
}

func TestInviteCodes(t *testing.T) {
	t.Parallel()

	code, err := NewInviteCode()
	require.NoError(t, err)
	require.Regexp(t, `^[A-Z2-7]{4}-[A-Z2-7]{4}-[A-Z2-7]{4}-[A-Z2-7]{4}$`, code)

	typed := strings.ToLower(strings.ReplaceAll(code, "-", " "))
	require.Equal(t, code, NormalizeInviteCode(typed))
	require.Equal(t, "SHORT", NormalizeInviteCode("short"))
}

func TestGenerateEd25519Key(t *testing.T) {
	t.Parallel()

	pemBytes, err := GenerateEd25519Key()
	require.NoError(t, err)
	block, _ := pem.Decode(pemBytes)
	require.NotNil(t, block)
	require.Equal(t, "PRIVATE KEY", block.Type)

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	require.NoError(t, err)
	_, ok := key.(ed25519.PrivateKey)
	require.True(t, ok)
}

func TestLoadOrCreateEd25519Key(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keys", "signing.pem")

	first, created, err := LoadOrCreateEd25519Key(path)
	require.NoError(t, err)
	require.True(t, created)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, created, err := LoadOrCreateEd25519Key(path)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first, second)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files are left behind")

	t.Run("rejects a file that is not a key", func(t *testing.T) {
		t.Parallel()

		bad := filepath.Join(t.TempDir(), "signing.pem")
		require.NoError(t, os.WriteFile(bad, []byte("hello"), 0o600))

		_, _, err := LoadOrCreateEd25519Key(bad)
		require.Error(t, err)
	})
}
