package fetcher

import (
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// legacyDefaults are charsets servers often declare by default regardless of
// the real page encoding.
var legacyDefaults = map[string]bool{
	"iso-8859-1":   true,
	"latin1":       true,
	"windows-1252": true,
	"us-ascii":     true,
	"ascii":        true,
}

// decodeBody turns a raw response body into UTF-8 text. A declared charset is
// trusted unless it is missing or a legacy default, in which case valid UTF-8
// wins and otherwise the document's own meta/BOM declaration is used.
func decodeBody(body []byte, contentType string) (string, error) {
	declared := declaredCharset(contentType)
	if declared != "" && !legacyDefaults[declared] {
		enc, err := htmlindex.Get(declared)
		if err != nil {
			return decodeSniffed(body)
		}
		return decode(enc, body)
	}
	if utf8.Valid(body) {
		return string(body), nil
	}
	return decodeSniffed(body)
}

func decodeSniffed(body []byte) (string, error) {
	if utf8.Valid(body) {
		return string(body), nil
	}
	enc, _, _ := charset.DetermineEncoding(body, "text/html")
	return decode(enc, body)
}

func decode(enc encoding.Encoding, body []byte) (string, error) {
	if enc == encoding.Nop {
		return string(body), nil
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", eris.Wrap(err, "fetcher: decode body")
	}
	return string(out), nil
}

func declaredCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(params["charset"]))
}
