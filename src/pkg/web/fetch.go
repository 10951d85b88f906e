// Package web holds the small HTTP client helpers shared by the server and
// the CLI tooling: compressed response body decoding and remote image fetch.
package web

import (
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// fetchTimeout bounds a single remote image download.
const fetchTimeout = 30 * time.Second

/*
GetBody reads the body of an http.Response, handling compression.
Pass the original url for more clear logging.
*/
func GetBody(resp *http.Response, urlStr string) (body []byte, e *xerr.Error) {
	var reader io.ReadCloser
	contentEncoding := resp.Header.Get("Content-Encoding")

	tl.Log(tl.Verbose5, palette.BlueDim, "Get body (content encoding is '%s') for '%s'", contentEncoding, urlStr)
	switch contentEncoding {
	case "gzip":
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return body, xerr.NewError(err, "Unable to get gzip reader", urlStr)
		}
		defer gzipReader.Close()
		reader = gzipReader
	case "deflate":
		reader = flate.NewReader(resp.Body)
		defer reader.Close()
	case "br":
		reader = io.NopCloser(brotli.NewReader(resp.Body)) // Wrap brotli.Reader to satisfy io.ReadCloser
		// no need to close brotli reader
	case "", "none":
		// No compression, just use the response body as-is
		reader = resp.Body
	default:
		// No compression, just use the response body as-is
		reader = resp.Body
		tl.Log(tl.Warning, palette.YellowDim, "\nUnsupported %s: '%s'", "Content-Encoding", contentEncoding)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return body, xerr.NewError(err, "Failed to read response body", urlStr)
	}
	tl.Log(tl.Verbose6, palette.GreenDim, "Got body length %d (content encoding is '%s') for '%s'", len(body), contentEncoding, urlStr)

	return body, nil
}

/*
FetchImageToFile downloads the image at urlStr into a temporary file and
returns the file path. The caller owns the file and should remove it when
done. The extension is taken from the URL path so downstream tooling keeps
the original format name.
*/
func FetchImageToFile(urlStr string) (imagePath string, e *xerr.Error) {
	tl.Log(tl.Info, palette.Blue, "Fetching image from '%s'", urlStr)

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Get(urlStr)
	if err != nil {
		return "", xerr.NewError(err, "fetch remote image", urlStr)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status '%s'", resp.Status)
		return "", xerr.NewError(err, "fetch remote image", urlStr)
	}

	body, e := GetBody(resp, urlStr)
	if e != nil {
		return "", e
	}

	extension := strings.ToLower(filepath.Ext(stripQuery(urlStr)))
	if extension == "" {
		extension = ".jpg"
	}

	tempFile, err := os.CreateTemp("", "fetched-*"+extension)
	if err != nil {
		return "", xerr.NewError(err, "create temp file for remote image", urlStr)
	}
	defer tempFile.Close()

	if _, err = tempFile.Write(body); err != nil {
		return "", xerr.NewError(err, "write remote image to temp file", tempFile.Name())
	}

	tl.Log(tl.Info1, palette.Green, "Fetched '%d' bytes from '%s' into '%s'", len(body), urlStr, tempFile.Name())
	return tempFile.Name(), nil
}

func stripQuery(urlStr string) string {
	if idx := strings.IndexAny(urlStr, "?#"); idx >= 0 {
		return urlStr[:idx]
	}
	return urlStr
}
