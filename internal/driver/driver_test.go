package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veneer/internal/trace"
)

const goodSrc = `
func @f(i32 %a) i32 {
entry:
  %x = add i32 %a, 1
  ret i32 %x
}
`

const badSrc = `
func @f(i32 %a) i32 {
entry:
  %x = frob i32 %a
}
`

func TestLoadSource(t *testing.T) {
	ctx, err := LoadSource("good", goodSrc, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, len(ctx.Module().Functions()))
	// Everything materialized eagerly: function, arg, block, 2 instrs.
	assert.Equal(t, 5, ctx.NumValues())
}

func TestCheckSourceVerdicts(t *testing.T) {
	res := checkSource("good", goodSrc, trace.Nop)
	assert.True(t, res.OK())
	assert.Equal(t, 1, res.Funcs)
	assert.Equal(t, 1, res.Blocks)
	assert.Equal(t, 2, res.Instrs)

	res = checkSource("bad", badSrc, trace.Nop)
	assert.False(t, res.OK())
	assert.Contains(t, res.Err, "unknown instruction")
}

func TestCheckDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.vir"), []byte(goodSrc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.vir"), []byte(badSrc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("not ir"), 0o644))

	results, err := CheckDir(context.Background(), dir, Options{Jobs: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Path order.
	assert.Equal(t, filepath.Join(dir, "a.vir"), results[0].Path)
	assert.True(t, results[0].OK())
	assert.Equal(t, filepath.Join(dir, "b.vir"), results[1].Path)
	assert.False(t, results[1].OK())
}

func TestCheckDirSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "only.vir")
	require.NoError(t, os.WriteFile(path, []byte(goodSrc), 0o644))

	results, err := CheckDir(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].OK())
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)

	key := hashBytes([]byte(goodSrc))
	_, ok := cache.Lookup(key, "x.vir")
	assert.False(t, ok, "empty cache must miss")

	res := CheckResult{Path: "orig.vir", Funcs: 1, Blocks: 1, Instrs: 2}
	require.NoError(t, cache.Store(key, res))

	got, ok := cache.Lookup(key, "renamed.vir")
	require.True(t, ok)
	assert.Equal(t, "renamed.vir", got.Path, "lookup rewrites the path")
	assert.True(t, got.Cached)
	assert.Equal(t, res.Funcs, got.Funcs)
	assert.Equal(t, res.Instrs, got.Instrs)

	require.NoError(t, cache.DropAll())
	_, ok = cache.Lookup(key, "x.vir")
	assert.False(t, ok, "dropped cache must miss")
}

func TestCheckDirUsesCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.vir"), []byte(goodSrc), 0o644))
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)
	opts := Options{Cache: cache}

	first, err := CheckDir(context.Background(), dir, opts)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.False(t, first[0].Cached)

	second, err := CheckDir(context.Background(), dir, opts)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, second[0].Cached)
	assert.Equal(t, first[0].Instrs, second[0].Instrs)

	// Content change invalidates.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.vir"), []byte(goodSrc+"\n; touched\n"), 0o644))
	third, err := CheckDir(context.Background(), dir, opts)
	require.NoError(t, err)
	assert.False(t, third[0].Cached)
}

func TestNilCacheIsNoop(t *testing.T) {
	var cache *DiskCache
	_, ok := cache.Lookup(hashBytes(nil), "x")
	assert.False(t, ok)
	assert.NoError(t, cache.Store(hashBytes(nil), CheckResult{}))
	assert.NoError(t, cache.DropAll())
}
