package filestorage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "/uploads/")
	require.NoError(t, err)

	url, err := ls.Save(context.Background(), "faculty/abc", "photo.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/faculty/abc/photo.jpg", url)

	full := ls.GetFullPath(url)
	assert.Equal(t, filepath.Join(dir, "faculty", "abc", "photo.jpg"), full)
	content, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(content))

	require.NoError(t, ls.DeleteFile(url))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, ls.DeleteFile(url), "deleting twice is fine")
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = ls.Save(context.Background(), "../../etc", "x.txt", strings.NewReader("x"))
	assert.Error(t, err)
	assert.Empty(t, ls.GetFullPath("/elsewhere/x.txt"))
}

func TestProgressReader_Monotonic(t *testing.T) {
	data := bytes.Repeat([]byte("a"), 1000)
	var seen []int
	pr := NewProgressReader(&chunkReader{data: data, chunk: 37}, int64(len(data)), func(p int) {
		seen = append(seen, p)
	})

	var sink bytes.Buffer
	_, err := sink.ReadFrom(pr)
	require.NoError(t, err)
	pr.Done()
	pr.Done()

	require.NotEmpty(t, seen)
	assert.Equal(t, 0, seen[0])
	assert.Equal(t, 100, seen[len(seen)-1])
	for i := 1; i < len(seen); i++ {
		assert.Greater(t, seen[i], seen[i-1])
	}
	assert.NotContains(t, seen[:len(seen)-1], 100)
	assert.EqualValues(t, 1000, pr.BytesRead())
}

func TestProgressReader_UnknownSize(t *testing.T) {
	var seen []int
	pr := NewProgressReader(strings.NewReader("abc"), 0, func(p int) { seen = append(seen, p) })
	var sink bytes.Buffer
	_, err := sink.ReadFrom(pr)
	require.NoError(t, err)
	pr.Done()
	assert.Equal(t, []int{0, 100}, seen)
}

func TestProcessImage_Downscales(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1600, 800))
	for x := 0; x < 1600; x++ {
		src.Set(x, 10, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := ProcessImage(buf.Bytes(), 800, 800)
	require.NoError(t, err)
	assert.True(t, out.Resized)
	assert.Equal(t, 800, out.Width)
	assert.Equal(t, 400, out.Height)
	assert.Equal(t, ".png", out.Ext)

	decoded, _, err := image.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 800, decoded.Bounds().Dx())
}

func TestProcessImage_SmallKept(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 20))))

	out, err := ProcessImage(buf.Bytes(), 800, 800)
	require.NoError(t, err)
	assert.False(t, out.Resized)
	assert.Equal(t, buf.Bytes(), out.Data)
}

func TestProcessImage_NotAnImage(t *testing.T) {
	_, err := ProcessImage([]byte("plain text"), 800, 800)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

type chunkReader struct {
	data  []byte
	chunk int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := min(len(p), c.chunk, len(c.data))
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}
