package filesystem

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockFileSystem_RemoveAllDropsDescendants(t *testing.T) {
	mfs := NewMockFileSystem()
	mfs.AddFile("/out/a.apk", []byte("a"))
	mfs.AddFile("/out/nested/b.apk", []byte("b"))
	mfs.AddFile("/outside/c.apk", []byte("c"))

	require.NoError(t, mfs.RemoveAll("/out"))

	require.False(t, mfs.Exists("/out"))
	require.False(t, mfs.Exists("/out/nested/b.apk"))
	require.True(t, mfs.Exists("/outside/c.apk"))
}

func TestMockFileSystem_CopyFile(t *testing.T) {
	mfs := NewMockFileSystem()
	mfs.AddFileWithMode("/src/app.apk", []byte("payload"), 0600)
	mfs.AddDir("/dst")

	require.NoError(t, mfs.CopyFile("/src/app.apk", "/dst/app.apk"))

	data, err := mfs.ReadFile("/dst/app.apk")
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))

	err = mfs.CopyFile("/src/missing.apk", "/dst/missing.apk")
	require.ErrorIs(t, err, fs.ErrNotExist)

	err = mfs.CopyFile("/src/app.apk", "/nowhere/app.apk")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMockFileSystem_ChmodKeepsTypeBits(t *testing.T) {
	mfs := NewMockFileSystem()
	mfs.AddFileWithMode("/bin/tool", []byte("#!/bin/sh"), 0644)

	require.NoError(t, mfs.Chmod("/bin/tool", 0755))

	info, err := mfs.Stat("/bin/tool")
	require.NoError(t, err)
	require.Equal(t, fs.FileMode(0755), info.Mode())
	require.False(t, info.IsDir())
}
