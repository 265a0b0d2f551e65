package seo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpang/seo-content-helper/internal/catalog"
	"github.com/fpang/seo-content-helper/internal/config"
	"github.com/fpang/seo-content-helper/internal/enrich"
	"github.com/fpang/seo-content-helper/internal/product"
	"github.com/fpang/seo-content-helper/internal/wiki"
)

type fakeBrands struct {
	info wiki.BrandInfo
	err  error
}

func (f *fakeBrands) Brand(context.Context, string) (wiki.BrandInfo, error) {
	return f.info, f.err
}

type fakePages map[string]string

func (f fakePages) Fetch(_ context.Context, url string) (string, error) {
	page, ok := f[url]
	if !ok {
		return "", errors.New("HTTP Error 404: Not Found")
	}
	return page, nil
}

type fakeEnricher struct {
	profile *enrich.Profile
	basic   product.Basic
}

func (f *fakeEnricher) Enrich(_ context.Context, _ string, basic product.Basic) *enrich.Profile {
	f.basic = basic
	return f.profile
}

const samsungPage = `<html><head><title>Смартфоны</title></head><body>
<h1>Смартфоны Samsung</h1>
<div class="product-card">Samsung Galaxy A55 8/256 Гб</div>
<div class="product-card">Samsung Galaxy S24 Ultra 512 Гб</div>
</body></html>`

const drillPage = `<html><head><title>Дрель</title></head><body>
<h1>Дрель Bosch GSB 13 RE</h1>
<span itemprop="price" content="4990">4 990 ₽</span>
<table><tr><th>Мощность</th><td>600 Вт</td></tr></table>
</body></html>`

func newTestHandler(brands *fakeBrands, enricher ProductEnricher) http.Handler {
	pages := fakePages{
		"https://shop.example/phones":     samsungPage,
		"https://shop.example/drill-13re": drillPage,
	}
	return NewHandler(Deps{
		Brands:     brands,
		Categories: catalog.NewAnalyzer(pages),
		Pages:      pages,
		Enricher:   enricher,
	})
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rr
}

func errorOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["error"]
}

func TestHandler_BrandIsDefaultType(t *testing.T) {
	brands := &fakeBrands{info: wiki.BrandInfo{BrandInfo: "Bosch — компания", Source: wiki.SourceWiki}}
	rr := post(newTestHandler(brands, nil), `{"brandName":"Bosch"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"type":"brand","brandInfo":"Bosch — компания","source":"wiki"}`, rr.Body.String())
}

func TestHandler_BrandNoHit(t *testing.T) {
	brands := &fakeBrands{info: wiki.BrandInfo{Source: wiki.SourceNone}}
	rr := post(newTestHandler(brands, nil), `{"type":"brand","brandName":"Nonexistent"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"type":"brand","brandInfo":"","source":"none"}`, rr.Body.String())
}

func TestHandler_BrandUpstreamFailure(t *testing.T) {
	brands := &fakeBrands{err: errors.New("wiki search returned 503")}
	rr := post(newTestHandler(brands, nil), `{"brandName":"Bosch"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "wiki search returned 503", errorOf(t, rr))
}

func TestHandler_Category(t *testing.T) {
	rr := post(newTestHandler(&fakeBrands{}, nil),
		`{"type":"category","categoryUrl":"https://shop.example/phones","categoryName":"Смартфоны"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp CategoryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, TypeCategory, resp.Type)
	assert.Equal(t, SourcePageAnalysis, resp.Source)
	assert.Contains(t, resp.Description, "Смартфоны")
	assert.Contains(t, resp.Description, "Популярные бренды: Samsung.")
	assert.Equal(t, []string{"Samsung"}, resp.Analysis.Brands)
	assert.Equal(t, "Смартфоны Samsung", resp.Analysis.H1)
	assert.Len(t, resp.Analysis.Products, 2)
	assert.Equal(t, 10, resp.Analysis.TotalProducts)
}

func TestHandler_CategoryFetchFailure(t *testing.T) {
	rr := post(newTestHandler(&fakeBrands{}, nil),
		`{"type":"category","categoryUrl":"https://shop.example/missing","categoryName":"Смартфоны"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Ошибка при анализе страницы: HTTP Error 404: Not Found", errorOf(t, rr))
}

func TestHandler_ProductWithProfile(t *testing.T) {
	enricher := &fakeEnricher{profile: &enrich.Profile{
		FullName:   "Bosch GSB 13 RE",
		LSIPhrases: []string{"ударная дрель"},
	}}
	rr := post(newTestHandler(&fakeBrands{}, enricher),
		`{"type":"product","productUrl":"https://shop.example/drill-13re"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp ProductResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, TypeProduct, resp.Type)
	assert.Equal(t, SourceAI, resp.Source)
	assert.Equal(t, "Дрель Bosch GSB 13 RE", resp.Basic.Name)
	assert.Equal(t, "4990", resp.Basic.Price)
	assert.Equal(t, []string{"Мощность: 600 Вт"}, resp.Basic.Specifications)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, "Bosch GSB 13 RE", resp.Profile.FullName)
	assert.True(t, strings.HasPrefix(resp.Report, "=== ПОЛНЫЙ АНАЛИЗ ТОВАРА ==="))
	assert.Equal(t, resp.Basic, enricher.basic)
}

func TestHandler_ProductWithoutProfile(t *testing.T) {
	rr := post(newTestHandler(&fakeBrands{}, &fakeEnricher{}),
		`{"type":"product","productUrl":"https://shop.example/drill-13re"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, SourceBasic, resp["source"])
	assert.Nil(t, resp["profile"])
	assert.True(t, strings.HasPrefix(resp["report"].(string), "Название: Дрель Bosch GSB 13 RE\n"))
}

func TestHandler_ProductFetchFailure(t *testing.T) {
	rr := post(newTestHandler(&fakeBrands{}, nil),
		`{"type":"product","productUrl":"https://shop.example/gone"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Ошибка при анализе страницы: HTTP Error 404: Not Found", errorOf(t, rr))
}

func TestHandler_Validation(t *testing.T) {
	h := newTestHandler(&fakeBrands{}, nil)
	tests := []struct {
		name   string
		method string
		body   string
		status int
		msg    string
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed, "Method not allowed"},
		{"bad json", http.MethodPost, "{nope", http.StatusBadRequest, "Invalid JSON in request body"},
		{"missing brand", http.MethodPost, `{"brandName":"   "}`, http.StatusBadRequest, "brandName is required"},
		{"empty body is brand", http.MethodPost, "", http.StatusBadRequest, "brandName is required"},
		{"missing url", http.MethodPost, `{"type":"category","categoryName":"Дрели"}`, http.StatusBadRequest, "categoryUrl is required"},
		{"missing name", http.MethodPost, `{"type":"category","categoryUrl":"https://x"}`, http.StatusBadRequest, "categoryName is required"},
		{"missing product url", http.MethodPost, `{"type":"product"}`, http.StatusBadRequest, "productUrl is required"},
		{"unknown type", http.MethodPost, `{"type":"store"}`, http.StatusBadRequest, `Invalid type. Use "brand", "category" or "product"`},
		{"empty type", http.MethodPost, `{"type":""}`, http.StatusBadRequest, `Invalid type. Use "brand", "category" or "product"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.msg, errorOf(t, rr))
		})
	}
}

func TestHandler_CategoryThroughAdapter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samsungPage))
	}))
	defer srv.Close()

	fetcher := catalog.NewFetcher(config.CatalogConfig{
		UserAgent: "test",
		Timeout:   5 * time.Second,
		MaxBytes:  1 << 20,
	})
	h := NewHandler(Deps{
		Brands:     &fakeBrands{},
		Categories: catalog.NewAnalyzer(fetcher),
		Pages:      fetcher,
	})

	body, err := json.Marshal(map[string]string{
		"type":         "category",
		"categoryUrl":  srv.URL,
		"categoryName": "Смартфоны",
	})
	require.NoError(t, err)

	resp, err := httpadapter.New(h).ProxyWithContext(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/",
		Body:       string(body),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"*"}, resp.MultiValueHeaders["Access-Control-Allow-Origin"])

	var out CategoryResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	assert.Contains(t, out.Description, "В категории Смартфоны представлено")
	assert.Contains(t, out.Description, "Популярные бренды: Samsung.")
}

func TestHandler_Preflight(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestHandler(&fakeBrands{}, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, AllowMethods, rr.Header().Get("Access-Control-Allow-Methods"))
}
