package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashText(t *testing.T) {
	h1 := HashText("tengo insomnio")
	h2 := HashText("tengo insomnio")
	h3 := HashText("tengo gripe")

	assert.Equal(t, h1, h2, "same input should produce same hash")
	assert.NotEqual(t, h1, h3, "different input should produce different hash")
	assert.Len(t, h1, 64, "SHA-256 hex should be 64 chars")
}

func TestScrubPII(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"email", "escríbeme a ana@correo.mx por favor", "escríbeme a [EMAIL] por favor"},
		{"local phone", "mi número es 55 1234 5678", "mi número es [PHONE]"},
		{"phone with country code", "llámame al +52 (55) 1234-5678", "llámame al [PHONE]"},
		{"compact phone", "whatsapp 5512345678", "whatsapp [PHONE]"},
		{"both", "correo: a@b.com tel: 33-1234-5678", "correo: [EMAIL] tel: [PHONE]"},
		{"no pii", "tengo dolor de cabeza", "tengo dolor de cabeza"},
		{"price kept", "cuesta $250.00 MXN", "cuesta $250.00 MXN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ScrubPII(tt.input))
		})
	}
}
