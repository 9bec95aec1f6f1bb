package vipcommerce

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortimento/internal/records"
)

func newTestService(t *testing.T, srv *httptest.Server) *Service {
	t.Helper()
	s, err := New(Options{Transport: srv.Client(), AuthToken: "tok-123", BaseURL: srv.URL})
	require.NoError(t, err)
	return s
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New(Options{Transport: http.DefaultClient})
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestAssortmentEscapesPageParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2&order=asc", r.URL.Query().Get("page"))
		assert.Equal(t, "produto.descricao", r.URL.Query().Get("orderby"))
		fmt.Fprint(w, `{"data": [], "paginator": {}}`)
	}))
	defer srv.Close()

	s := newTestService(t, srv)

	_, err := s.Assortment(context.Background(), AssortmentParams{
		Domain:               "loja.com.br",
		BranchID:             1,
		DistributionCenterID: 7,
		CategoryID:           42,
		Page:                 "2&order=asc",
	})
	require.NoError(t, err)
}

func TestDistributionCenters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/loja/centros_distribuicoes/filial/1/retiradas", r.URL.Path)
		assert.Equal(t, "04268040", r.URL.Query().Get("cep"))
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		fmt.Fprint(w, `{"data": [{
			"id": 7,
			"nome": "CD <b>Centro</b>",
			"nome_site": "loja-centro",
			"cnpj": "12.345.678/0001-90",
			"endereco": {
				"cep": "04268-040",
				"logradouro": "Rua das Acácias",
				"numero": "100",
				"complemento": "Galpão 2",
				"bairro": "Centro",
				"cidade": "São Paulo",
				"estado": "SP"
			},
			"relacionamento_cliente": {
				"email": "sac@loja.com.br",
				"telefone": "1133334444",
				"whatsapp": "11999998888"
			}
		}]}`)
	}))
	defer srv.Close()

	s := newTestService(t, srv)

	out, err := s.DistributionCenters(context.Background(), DistributionCenterParams{
		Domain:   "loja.com.br",
		BranchID: 1,
		ZipCode:  "04268040",
	})
	require.NoError(t, err)

	require.Len(t, out.Data, 1)
	dc := out.Data[0]
	assert.Equal(t, "CD CENTRO", dc.Name)
	assert.Equal(t, "loja-centro", dc.SiteURL)
	assert.Equal(t, 7, dc.DistributionCenterID)
	assert.Equal(t, "04268-040", dc.ZipCode)
	assert.Equal(t, "RUA DAS ACACIAS", dc.Address)
	assert.Equal(t, "100", dc.Number)
	assert.Equal(t, "SAO PAULO", dc.City)
	assert.Equal(t, "sac@loja.com.br", dc.Email)
	assert.Equal(t, 1, dc.BranchID)
	assert.Equal(t, "04268040", dc.SearchTerm)
}

const treeBody = `{"data": [
	{"classificacao_mercadologica_id": 61, "descricao": "Mercearia", "link": "mercearia", "children": [
		{"classificacao_mercadologica_id": 611, "descricao": "Grãos", "link": "graos"},
		{"classificacao_mercadologica_id": 612, "descricao": "Massas", "link": "massas"}
	]},
	{"classificacao_mercadologica_id": 70, "descricao": "Bebidas", "link": "bebidas"}
]}`

func TestDepartments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/loja/classificacoes_mercadologicas/departamentos/arvore/filial/1/centro_distribuicao/2", r.URL.Path)
		fmt.Fprint(w, treeBody)
	}))
	defer srv.Close()

	s := newTestService(t, srv)

	out, err := s.Departments(context.Background(), CatalogParams{
		Domain: "loja.com.br", BranchID: 1, DistributionCenterID: 2,
	})
	require.NoError(t, err)

	require.Len(t, out.Data, 2)
	assert.Equal(t, Department{
		Name: "MERCEARIA", DepartmentID: 61, Slug: "mercearia", BranchID: 1, DistributionCenterID: 2,
	}, out.Data[0])
}

func TestCategoriesFlattenTree(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, treeBody)
	}))
	defer srv.Close()

	s := newTestService(t, srv)

	out, err := s.Categories(context.Background(), CatalogParams{
		Domain: "loja.com.br", BranchID: 1, DistributionCenterID: 2,
	})
	require.NoError(t, err)

	require.Len(t, out.Data, 2)
	assert.Equal(t, Category{
		Name: "GRAOS", CategoryID: 611, DepartmentID: 61, Slug: "graos", BranchID: 1, DistributionCenterID: 2,
	}, out.Data[0])
	assert.Equal(t, "MASSAS", out.Data[1].Name)
}

func TestAssortment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/loja/classificacoes_mercadologicas/secoes/611/produtos/filial/1/centro_distribuicao/2/ativos", r.URL.Path)
		assert.Equal(t, "produto.descricao", r.URL.Query().Get("orderby"))
		assert.Equal(t, "3", r.URL.Query().Get("page"))

		fmt.Fprint(w, `{
			"data": [
				{
					"descricao": "Arroz Branco <b>Tipo 1</b> 5Kg",
					"codigo_barras": "7896036090244",
					"sku": "9024",
					"produto_id": 4411,
					"marca": "Camil",
					"preco_original": "24.99",
					"preco": 19.99,
					"quantidade_vendida": 321,
					"disponivel": true,
					"unidade_sigla": "UN",
					"unidade_fracao": {"fracao": 1, "quantidade": 5, "preco": 4.0},
					"oferta": {"preco_oferta": 18.99, "quantidade_minima": 2, "quantidade_maxima": 10},
					"produto_priorizado": true,
					"volume_principal": "5KG",
					"imagem": "arroz-9024.jpg",
					"link": "arroz-branco-tipo-1-5kg"
				},
				{
					"descricao": "Feijão Preto 1Kg",
					"sku": "9025",
					"produto_id": 4412,
					"preco": 8.5,
					"disponivel": false
				}
			],
			"paginator": {"items_per_page": 30, "total_items": 57, "total_pages": 2}
		}`)
	}))
	defer srv.Close()

	s := newTestService(t, srv)

	out, err := s.Assortment(context.Background(), AssortmentParams{
		Domain:               "loja.com.br",
		BranchID:             1,
		DistributionCenterID: 2,
		CategoryID:           611,
		Page:                 "3",
	})
	require.NoError(t, err)

	assert.Equal(t, 30, out.RecordsPerPage)
	assert.Equal(t, 57, out.Items)
	assert.Equal(t, 2, out.Pages)
	require.Len(t, out.Data, 2)

	p := out.Data[0]
	assert.Equal(t, "ARROZ BRANCO TIPO 1 5KG", p.Name)
	assert.Equal(t, int64(7896036090244), p.EAN)
	assert.Equal(t, "9024", p.SKU)
	assert.Equal(t, 4411, p.ProductID)
	assert.Equal(t, "Camil", p.Brand)
	assert.InDelta(t, 24.99, p.PriceFrom, 1e-9)
	assert.InDelta(t, 19.99, p.PriceTo, 1e-9)
	assert.InDelta(t, 18.99, p.PriceOffer, 1e-9)
	assert.InDelta(t, 2, p.QtyMin, 1e-9)
	assert.InDelta(t, 10, p.QtyMax, 1e-9)
	assert.Equal(t, 321, p.SoldAmount)
	assert.Equal(t, "S", p.Available)
	assert.Equal(t, 1, p.UnitFraction)
	assert.Equal(t, 5, p.QtyFraction)
	assert.InDelta(t, 4.0, p.PriceFraction, 1e-9)
	assert.Equal(t, "S", p.PrioritizedProduct)
	assert.Equal(t, "5KG", p.MainVolume)
	assert.Equal(t, "https://s3.amazonaws.com/produtos.vipcommerce.com.br/250x250/arroz-9024.jpg", p.Image)
	assert.Equal(t, "https://www.loja.com.br/produtos/detalhe/4411/arroz-branco-tipo-1-5kg", p.URL)

	second := out.Data[1]
	assert.Equal(t, "N", second.Available)
	assert.Equal(t, "N", second.PrioritizedProduct)
	assert.Zero(t, second.EAN)
	assert.Empty(t, second.Image)
	assert.Empty(t, second.URL)
}

func TestAssortmentEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [], "paginator": {"items_per_page": 30, "total_items": 0, "total_pages": 0}}`)
	}))
	defer srv.Close()

	s := newTestService(t, srv)

	out, err := s.Assortment(context.Background(), AssortmentParams{
		Domain: "loja.com.br", BranchID: 1, DistributionCenterID: 2, CategoryID: 611, Page: "1",
	})
	require.NoError(t, err)

	assert.Equal(t, records.Page[Product]{Data: []Product{}}, out)
}
