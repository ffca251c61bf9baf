package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoltKV_SetGetDelete(t *testing.T) {
	kv, err := Open(filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.Set("cart:abc", []byte(`[{"id":"go-101"}]`)))

	value, err := kv.Get("cart:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"go-101"}]`), value)

	require.NoError(t, kv.Delete("cart:abc"))

	_, err = kv.Get("cart:abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoltKV_GetMissingKey(t *testing.T) {
	kv, err := Open(filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)
	defer kv.Close()

	_, err = kv.Get("never-written")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoltKV_ValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.db")

	kv, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set("cart:abc", []byte("payload")))
	require.NoError(t, kv.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get("cart:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), value)
}

func TestBoltKV_EmptyPathRejected(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestMemoryKV_SetGetDelete(t *testing.T) {
	kv := NewMemoryKV()

	require.NoError(t, kv.Set("key", []byte("value")))

	value, err := kv.Get("key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)

	require.NoError(t, kv.Delete("key"))

	_, err = kv.Get("key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryKV_GetReturnsCopy(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set("key", []byte("abc")))

	value, err := kv.Get("key")
	require.NoError(t, err)
	value[0] = 'z'

	again, err := kv.Get("key")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
