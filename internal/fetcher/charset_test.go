package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name        string
		body        []byte
		contentType string
		want        string
	}{
		{"utf8 no charset", []byte("Équipe"), "text/html", "Équipe"},
		{"latin1 bytes no charset", []byte("<meta charset=\"iso-8859-1\">\xc9quipe"), "", "<meta charset=\"iso-8859-1\">Équipe"},
		{"utf8 mislabeled windows-1252", []byte("Équipe"), "text/html; charset=windows-1252", "Équipe"},
		{"declared latin1 sniffed", []byte("\xc9quipe"), "text/html; charset=iso-8859-1", "Équipe"},
		{"declared utf-16 trusted", []byte{0xff, 0xfe, 'O', 0, 'K', 0}, "text/html; charset=utf-16le", "OK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeBody(tt.body, tt.contentType)
			require.NoError(t, err)
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestDeclaredCharset(t *testing.T) {
	assert.Equal(t, "utf-8", declaredCharset("text/html; charset=UTF-8"))
	assert.Empty(t, declaredCharset("text/html"))
	assert.Empty(t, declaredCharset(""))
}
