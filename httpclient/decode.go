package httpclient

import (
	"fmt"
	"mime"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// decodeText converts a response body to UTF-8 text. A charset parameter on
// the Content-Type selects the decoder; without one the body must already
// be valid UTF-8.
func decodeText(statusCode int, contentType string, body []byte) (string, error) {
	label := ""
	if contentType != "" {
		if _, params, err := mime.ParseMediaType(contentType); err == nil {
			label = params["charset"]
		}
	}

	if label == "" {
		if !utf8.Valid(body) {
			return "", NewDecodeError(statusCode, "response body is not valid UTF-8 text")
		}
		return string(body), nil
	}

	enc, name := charset.Lookup(label)
	if enc == nil {
		return "", NewDecodeError(statusCode, fmt.Sprintf("unsupported response charset %q", label))
	}
	if name == "utf-8" {
		if !utf8.Valid(body) {
			return "", NewDecodeError(statusCode, "response body is not valid UTF-8 text")
		}
		return string(body), nil
	}

	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", NewDecodeError(statusCode, fmt.Sprintf("decode %s body: %v", name, err))
	}
	return string(out), nil
}
