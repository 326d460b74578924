package stub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp Response
		want BodyKind
	}{
		{
			name: "explicit kind wins",
			resp: Response{Kind: BodyText, Text: "hello"},
			want: BodyText,
		},
		{
			name: "inferred text",
			resp: Response{Text: "hello"},
			want: BodyText,
		},
		{
			name: "inferred bytes",
			resp: Response{Bytes: []byte{0x00, 0xff}},
			want: BodyBytes,
		},
		{
			name: "inferred json",
			resp: Response{JSON: map[string]any{"ok": true}},
			want: BodyJSON,
		},
		{
			name: "inferred file",
			resp: Response{File: "payload.bin"},
			want: BodyFile,
		},
		{
			name: "no payload is empty",
			resp: Response{Status: 204},
			want: BodyEmpty,
		},
		{
			name: "zero-length bytes without kind is empty",
			resp: Response{Bytes: []byte{}},
			want: BodyEmpty,
		},
		{
			name: "explicit bytes kind with zero-length payload",
			resp: Response{Kind: BodyBytes, Bytes: []byte{}},
			want: BodyBytes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.resp.EffectiveKind())
		})
	}
}

func TestHeaders(t *testing.T) {
	t.Parallel()

	h := Headers{
		{Name: "Content-Type", Value: "application/json"},
		{Name: "X-Request-Id", Value: "abc"},
		{Name: "Set-Cookie", Value: "a=1"},
		{Name: "Set-Cookie", Value: "b=2"},
	}

	t.Run("get is case-insensitive and returns first value", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "application/json", h.Get("content-type"))
		assert.Equal(t, "a=1", h.Get("set-cookie"))
		assert.Equal(t, "", h.Get("X-Missing"))
	})

	t.Run("has", func(t *testing.T) {
		t.Parallel()
		assert.True(t, h.Has("CONTENT-TYPE"))
		assert.False(t, h.Has("Authorization"))
	})

	t.Run("without content type keeps order and duplicates", func(t *testing.T) {
		t.Parallel()
		stripped := h.WithoutContentType()
		require.Len(t, stripped, 3)
		assert.Equal(t, Header{Name: "X-Request-Id", Value: "abc"}, stripped[0])
		assert.Equal(t, Header{Name: "Set-Cookie", Value: "a=1"}, stripped[1])
		assert.Equal(t, Header{Name: "Set-Cookie", Value: "b=2"}, stripped[2])
		// Original list untouched.
		assert.Len(t, h, 4)
	})
}

func TestIdentityString(t *testing.T) {
	t.Parallel()

	id := Identity{Method: "GET", Path: "/status"}
	assert.Equal(t, "GET /status", id.String())
}

func TestEndpointIdentity(t *testing.T) {
	t.Parallel()

	ep := &Endpoint{Method: "POST", Path: "/orders", Responses: []*Response{{Status: 201}}}
	assert.Equal(t, Identity{Method: "POST", Path: "/orders"}, ep.Identity())
}

func TestEndpointString(t *testing.T) {
	t.Parallel()

	unnamed := &Endpoint{Method: "GET", Path: "/health"}
	assert.Equal(t, "GET /health", unnamed.String())

	named := &Endpoint{Name: "health probe", Method: "GET", Path: "/health"}
	assert.Equal(t, "health probe (GET /health)", named.String())
}

func TestResponseJSONEncoding(t *testing.T) {
	t.Parallel()

	t.Run("bytes are base64 in json", func(t *testing.T) {
		t.Parallel()
		resp := Response{Status: 200, Bytes: []byte{0x01, 0x02, 0x03}}
		data, err := json.Marshal(&resp)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"bytes":"AQID"`)

		var decoded Response
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, resp.Bytes, decoded.Bytes)
	})

	t.Run("nil delay is omitted", func(t *testing.T) {
		t.Parallel()
		resp := Response{Status: 204}
		data, err := json.Marshal(&resp)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "delay")
	})
}
