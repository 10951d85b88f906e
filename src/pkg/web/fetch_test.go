package web

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseWith(encoding string, body []byte) *http.Response {
	response := &http.Response{
		Header: http.Header{},
		Body:   io.NopCloser(bytes.NewReader(body)),
	}
	if encoding != "" {
		response.Header.Set("Content-Encoding", encoding)
	}
	return response
}

func TestGetBodyPlain(t *testing.T) {
	response := responseWith("", []byte("plain payload"))

	body, e := GetBody(response, "http://example.com/plain")
	require.Nil(t, e)
	assert.Equal(t, "plain payload", string(body))
}

func TestGetBodyGzip(t *testing.T) {
	compressed := &bytes.Buffer{}
	writer := gzip.NewWriter(compressed)
	_, err := writer.Write([]byte("gzipped payload"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	response := responseWith("gzip", compressed.Bytes())

	body, e := GetBody(response, "http://example.com/gzip")
	require.Nil(t, e)
	assert.Equal(t, "gzipped payload", string(body))
}

func TestGetBodyBadGzip(t *testing.T) {
	response := responseWith("gzip", []byte("definitely not gzip"))

	_, e := GetBody(response, "http://example.com/broken")
	assert.NotNil(t, e)
}

func TestGetBodyUnknownEncodingFallsThrough(t *testing.T) {
	response := responseWith("zstd", []byte("raw anyway"))

	body, e := GetBody(response, "http://example.com/unknown")
	require.Nil(t, e)
	assert.Equal(t, "raw anyway", string(body))
}

func TestFetchImageToFile(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	imagePath, e := FetchImageToFile(server.URL + "/scan.png?token=abc")
	require.Nil(t, e)
	defer os.Remove(imagePath)

	assert.True(t, strings.HasSuffix(imagePath, ".png"))
	content, readErr := os.ReadFile(imagePath)
	require.NoError(t, readErr)
	assert.Equal(t, payload, content)
}

func TestFetchImageToFileRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, e := FetchImageToFile(server.URL + "/missing.png")
	assert.NotNil(t, e)
}

func TestStripQuery(t *testing.T) {
	assert.Equal(t, "http://a/b.png", stripQuery("http://a/b.png?x=1"))
	assert.Equal(t, "http://a/b.png", stripQuery("http://a/b.png#frag"))
	assert.Equal(t, "http://a/b.png", stripQuery("http://a/b.png"))
}
