package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeystore(t *testing.T, dir, address string) string {
	t.Helper()
	path := filepath.Join(dir, address+".keystore")
	require.NoError(t, os.WriteFile(path, []byte(`{"address":"`+address+`","crypto":{}}`), 0o600))
	return path
}

func TestAddAndFindByHint(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry(filepath.Join(dir, "accounts"))

	_, err := reg.AddKeystore(writeKeystore(t, dir, "1111111111111111111111111111111111111111"), "badge collector")
	require.NoError(t, err)
	_, err = reg.AddKeystore(writeKeystore(t, dir, "2222222222222222222222222222222222222222"), "ops hot wallet")
	require.NoError(t, err)

	require.Len(t, reg.List(), 2)

	acc, err := reg.Find("collector")
	require.NoError(t, err)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", acc.Address)
	assert.Equal(t, KindKeystore, acc.Kind)
	assert.True(t, filepath.IsAbs(acc.Keypath))

	_, err = reg.Find("zzzz")
	assert.Error(t, err)
}

func TestAddRejectsNonKeystore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	_, err := NewRegistry(dir).AddKeystore(path, "x")
	assert.Error(t, err)
}

func TestListSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o600))
	assert.Empty(t, NewRegistry(dir).List())
}
