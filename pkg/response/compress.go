package response

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
)

// Supported content codings in preference order.
const (
	EncodingBrotli   = "br"
	EncodingGzip     = "gzip"
	EncodingIdentity = "identity"
)

// NegotiateEncoding picks br, then gzip, from an Accept-Encoding header. Codings
// with q=0 are refused; "*" accepts any coding not listed explicitly.
func NegotiateEncoding(header string) string {
	accepted := map[string]bool{}
	wildcard := false
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(strings.TrimSpace(part), ";")
		coding := strings.ToLower(strings.TrimSpace(fields[0]))
		if coding == "" {
			continue
		}
		ok := true
		for _, param := range fields[1:] {
			param = strings.TrimSpace(param)
			if !strings.HasPrefix(param, "q=") {
				continue
			}
			q, err := strconv.ParseFloat(strings.TrimPrefix(param, "q="), 64)
			ok = err == nil && q > 0
		}
		if coding == "*" {
			wildcard = ok
			continue
		}
		accepted[coding] = ok
	}
	for _, coding := range []string{EncodingBrotli, EncodingGzip} {
		if ok, listed := accepted[coding]; listed {
			if ok {
				return coding
			}
			continue
		}
		if wildcard {
			return coding
		}
	}
	return EncodingIdentity
}

// Compressed serializes the envelope once and streams it through the coding
// negotiated with the client.
func Compressed(c *gin.Context, status int, data interface{}, pagination *models.Pagination, children interface{}, meta ...map[string]interface{}) {
	envelope := build(data, pagination, meta)
	envelope.ChildPagination = children
	payload, err := json.Marshal(envelope)
	if err != nil {
		Error(c, err)
		return
	}

	noStore(c)
	c.Writer.Header().Add("Vary", "Accept-Encoding")
	c.Header("Content-Type", "application/json; charset=utf-8")

	encoding := NegotiateEncoding(c.GetHeader("Accept-Encoding"))
	var w io.WriteCloser
	switch encoding {
	case EncodingBrotli:
		w = brotli.NewWriterLevel(c.Writer, brotli.DefaultCompression)
	case EncodingGzip:
		w = gzip.NewWriter(c.Writer)
	default:
		c.Header("Content-Length", strconv.Itoa(len(payload)))
		c.Status(status)
		_, _ = c.Writer.Write(payload)
		return
	}

	c.Header("Content-Encoding", encoding)
	c.Status(status)
	if _, err := w.Write(payload); err != nil {
		_ = c.Error(err)
	}
	if err := w.Close(); err != nil {
		_ = c.Error(err)
	}
}
