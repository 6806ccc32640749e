package middlewares

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

type compressedWriter struct {
	http.ResponseWriter
	writer io.Writer
}

func (cw compressedWriter) Write(data []byte) (int, error) {
	return cw.writer.Write(data)
}

// GzipMiddleware compresses responses for clients that accept gzip.
func GzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
		if !strings.Contains(request.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(response, request)

			return
		}

		gz := gzip.NewWriter(response)
		defer func() {
			_ = gz.Close()
		}()

		response.Header().Set("Content-Encoding", "gzip")
		next.ServeHTTP(compressedWriter{ResponseWriter: response, writer: gz}, request)
	})
}

// BrotliMiddleware compresses responses with brotli for clients that accept
// br but not gzip. Runs after GzipMiddleware so gzip wins when both apply.
func BrotliMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
		acceptEncoding := request.Header.Get("Accept-Encoding")
		if !strings.Contains(acceptEncoding, "br") || strings.Contains(acceptEncoding, "gzip") {
			next.ServeHTTP(response, request)

			return
		}

		br := brotli.NewWriter(response)
		defer func() {
			_ = br.Close()
		}()

		response.Header().Set("Content-Encoding", "br")
		next.ServeHTTP(compressedWriter{ResponseWriter: response, writer: br}, request)
	})
}

// GzipDecompressionMiddleware transparently unwraps gzip request bodies.
func GzipDecompressionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Content-Encoding") == "gzip" {
			reader, err := gzip.NewReader(request.Body)
			if err != nil {
				http.Error(response, "Invalid gzip body", http.StatusBadRequest)

				return
			}
			defer func() {
				_ = reader.Close()
			}()

			request.Body = io.NopCloser(reader)
			request.Header.Del("Content-Encoding")
		}

		next.ServeHTTP(response, request)
	})
}
