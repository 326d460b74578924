package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getstubd/stubd/pkg/stub"
)

func seconds(s float64) *float64 { return &s }

func TestMaterializeText(t *testing.T) {
	t.Parallel()

	m := NewMaterializer(0)
	result := m.Materialize(&stub.Response{
		Status:  200,
		Headers: stub.Headers{{Name: "Content-Type", Value: "text/plain"}},
		Text:    "hello",
	})

	assert.Equal(t, 200, result.Status)
	assert.Equal(t, []byte("hello"), result.Body)
	assert.Equal(t, "text/plain", result.Headers.Get("Content-Type"))
}

func TestMaterializeEmpty(t *testing.T) {
	t.Parallel()

	m := NewMaterializer(0)
	result := m.Materialize(&stub.Response{Status: 204})

	assert.Equal(t, 204, result.Status)
	assert.Empty(t, result.Body)
}

func TestMaterializeBytes(t *testing.T) {
	t.Parallel()

	m := NewMaterializer(0)

	t.Run("payload passes through verbatim", func(t *testing.T) {
		t.Parallel()
		payload := []byte{0x00, 0x01, 0xfe, 0xff}
		result := m.Materialize(&stub.Response{Status: 200, Bytes: payload})
		assert.Equal(t, 200, result.Status)
		assert.Equal(t, payload, result.Body)
	})

	t.Run("zero-length payload", func(t *testing.T) {
		t.Parallel()
		result := m.Materialize(&stub.Response{Status: 200, Kind: stub.BodyBytes, Bytes: []byte{}})
		assert.Equal(t, 200, result.Status)
		assert.Empty(t, result.Body)
	})
}

func TestMaterializeJSON(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		m := NewMaterializer(0)
		result := m.Materialize(&stub.Response{
			Status:  200,
			Headers: stub.Headers{{Name: "Content-Type", Value: "application/json"}},
			JSON:    map[string]any{"ok": true},
		})
		assert.Equal(t, 200, result.Status)
		assert.JSONEq(t, `{"ok":true}`, string(result.Body))
	})

	t.Run("encoding failure yields 500 with stripped content type", func(t *testing.T) {
		t.Parallel()
		m := NewMaterializer(0, WithEncoder(func(any) ([]byte, error) {
			return nil, errors.New("boom")
		}))
		result := m.Materialize(&stub.Response{
			Status: 200,
			Headers: stub.Headers{
				{Name: "Content-Type", Value: "application/json"},
				{Name: "X-Custom", Value: "kept"},
			},
			JSON: map[string]any{"ok": true},
		})
		assert.Equal(t, 500, result.Status)
		assert.Empty(t, result.Body)
		assert.False(t, result.Headers.Has("Content-Type"))
		assert.Equal(t, "kept", result.Headers.Get("X-Custom"))
	})

	t.Run("unencodable value with default encoder", func(t *testing.T) {
		t.Parallel()
		m := NewMaterializer(0)
		result := m.Materialize(&stub.Response{
			Status: 200,
			Kind:   stub.BodyJSON,
			JSON:   map[string]any{"ch": make(chan int)},
		})
		assert.Equal(t, 500, result.Status)
		assert.Empty(t, result.Body)
	})
}

func TestMaterializeFile(t *testing.T) {
	t.Parallel()

	t.Run("reads file content verbatim", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		payload := []byte{0x89, 0x50, 0x4e, 0x47}
		require.NoError(t, os.WriteFile(filepath.Join(dir, "payload.bin"), payload, 0644))

		m := NewMaterializer(0, WithFileReader(NewOSFileReader(dir)))
		result := m.Materialize(&stub.Response{Status: 200, File: "payload.bin"})
		assert.Equal(t, 200, result.Status)
		assert.Equal(t, payload, result.Body)
	})

	t.Run("missing file yields 404 with stripped content type", func(t *testing.T) {
		t.Parallel()
		m := NewMaterializer(0, WithFileReader(NewOSFileReader(t.TempDir())))
		result := m.Materialize(&stub.Response{
			Status: 200,
			Headers: stub.Headers{
				{Name: "Content-Type", Value: "image/png"},
				{Name: "Cache-Control", Value: "no-store"},
			},
			File: "missing.png",
		})
		assert.Equal(t, 404, result.Status)
		assert.Empty(t, result.Body)
		assert.False(t, result.Headers.Has("Content-Type"))
		assert.Equal(t, "no-store", result.Headers.Get("Cache-Control"))
	})

	t.Run("traversal path rejected as read failure", func(t *testing.T) {
		t.Parallel()
		m := NewMaterializer(0, WithFileReader(NewOSFileReader(t.TempDir())))
		result := m.Materialize(&stub.Response{Status: 200, File: "../secrets.txt"})
		assert.Equal(t, 404, result.Status)
		assert.Empty(t, result.Body)
	})
}

func TestMaterializeDelay(t *testing.T) {
	t.Parallel()

	t.Run("per-response delay overrides default", func(t *testing.T) {
		t.Parallel()
		m := NewMaterializer(time.Second)
		start := time.Now()
		m.Materialize(&stub.Response{Status: 200, Delay: seconds(0.05)})
		elapsed := time.Since(start)
		assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
		assert.Less(t, elapsed, 500*time.Millisecond)
	})

	t.Run("default delay applies when response has none", func(t *testing.T) {
		t.Parallel()
		m := NewMaterializer(50 * time.Millisecond)
		start := time.Now()
		m.Materialize(&stub.Response{Status: 200})
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("explicit zero delay suppresses default", func(t *testing.T) {
		t.Parallel()
		m := NewMaterializer(time.Second)
		start := time.Now()
		m.Materialize(&stub.Response{Status: 200, Delay: seconds(0)})
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("delay applies on the file error path", func(t *testing.T) {
		t.Parallel()
		m := NewMaterializer(0, WithFileReader(NewOSFileReader(t.TempDir())))
		start := time.Now()
		result := m.Materialize(&stub.Response{Status: 200, Delay: seconds(0.05), File: "missing.txt"})
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
		assert.Equal(t, 404, result.Status)
	})
}
