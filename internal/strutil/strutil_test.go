package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Arroz Branco", "ARROZ BRANCO"},
		{"tags stripped", "<b>Feijão</b> Preto", "FEIJAO PRETO"},
		{"quotes stripped", `Açúcar "União" 1kg`, "ACUCAR UNIAO 1KG"},
		{"accents folded", "Pão de Ló à Moda", "PAO DE LO A MODA"},
		{"empty passes through", "", ""},
		{"whitespace trimmed", "  leite  ", "LEITE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanHTML(tt.in)
			assert.Equal(t, tt.want, got)
			for _, forbidden := range []string{"<", ">", `"`, "'"} {
				assert.NotContains(t, got, forbidden)
			}
		})
	}
}

func TestCleanEAN(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"7891910000197", 7891910000197},
		{"789.0123", 7890123},
		{"789-0123 ", 7890123},
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"EAN: 123", 123},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanEAN(tt.in), "input %q", tt.in)
	}
}

func TestFormatZipCode(t *testing.T) {
	assert.Equal(t, "04268-040", FormatZipCode("04268040"))
	assert.Equal(t, "0426804", FormatZipCode("0426804"))
	assert.Equal(t, "042680401", FormatZipCode("042680401"))
	assert.Equal(t, "", FormatZipCode(""))
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Açucar e Adoçantes", "açucar-e-adoçantes"},
		{"  Bebidas__Refrigerantes  ", "bebidas-refrigerantes"},
		{"--ofertas--", "ofertas"},
		{"Limpeza & Casa!", "limpeza-casa"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in), "input %q", tt.in)
	}
}

func TestCheckSubdomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"viladasfrutas.com.br", "https://www.viladasfrutas.com.br"},
		{"https://viladasfrutas.com.br", "https://www.viladasfrutas.com.br"},
		{"loja.viladasfrutas.com.br", "https://loja.viladasfrutas.com.br"},
		{"localhost", "https://localhost"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CheckSubdomain(tt.in), "input %q", tt.in)
	}
}
