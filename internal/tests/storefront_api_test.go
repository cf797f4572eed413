// internal/tests/storefront_api_test.go
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/uzagro/storefront/internal/catalog"
	"github.com/uzagro/storefront/internal/config"
	"github.com/uzagro/storefront/internal/models"
	"github.com/uzagro/storefront/internal/router"
	"github.com/uzagro/storefront/internal/session"
	"github.com/uzagro/storefront/internal/store/persist"
)

// stubCatalog serves canned product snapshots without a network hop.
type stubCatalog struct {
	products map[string]models.Product
}

func (s *stubCatalog) GetProductBySlug(_ context.Context, slug string) (*models.Product, error) {
	p, ok := s.products[slug]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

func (s *stubCatalog) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

type StorefrontAPITestSuite struct {
	suite.Suite
	router   *gin.Engine
	sessions *session.Manager
	cookies  []*http.Cookie
}

func (suite *StorefrontAPITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	price := func(v float64) *float64 { return &v }
	catalogStub := &stubCatalog{products: map[string]models.Product{
		"mtz-belarus-82-1": {
			ID: 1, Name: "MTZ Belarus 82.1", SKU: "TRK-82-1", Slug: "mtz-belarus-82-1",
			Pricing:     models.Pricing{CanSeePrice: true, PriceUSD: price(18500)},
			StockStatus: models.StockStatusInStock,
			ProductType: models.ProductTypeMachinery,
		},
		"disc-harrow": {
			ID: 2, Name: "Disc Harrow", SKU: "ATT-0042", Slug: "disc-harrow",
			Pricing:     models.Pricing{CanSeePrice: false},
			StockStatus: models.StockStatusLowStock,
			ProductType: models.ProductTypeAttachment,
		},
		"plough-3f": {
			ID: 3, Name: "Three-Furrow Plough", SKU: "ATT-0101", Slug: "plough-3f",
			Pricing:     models.Pricing{CanSeePrice: true, PriceUSD: price(950)},
			StockStatus: models.StockStatusInStock,
			ProductType: models.ProductTypeAttachment,
		},
		"seeder-sz": {
			ID: 4, Name: "Grain Seeder SZ", SKU: "ATT-0150", Slug: "seeder-sz",
			Pricing:     models.Pricing{CanSeePrice: true, PriceUSD: price(4200)},
			StockStatus: models.StockStatusPreOrder,
			ProductType: models.ProductTypeAttachment,
		},
		"oil-filter": {
			ID: 5, Name: "Oil Filter", SKU: "SPR-0007", Slug: "oil-filter",
			Pricing:     models.Pricing{CanSeePrice: true, PriceUSD: price(12)},
			StockStatus: models.StockStatusInStock,
			ProductType: models.ProductTypeSparePart,
		},
	}}

	cfg := &config.Config{
		Environment: "development",
		Server: config.ServerConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Session: config.SessionConfig{
			Secret:      "test-secret",
			CookieName:  "uzagro_session",
			TTLHours:    1,
			IdleMinutes: 30,
		},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
	}

	suite.sessions = session.NewManager(persist.NewMemory(), 30*time.Minute)
	suite.router = router.Initialize(suite.sessions, catalogStub, cfg)
	suite.cookies = nil
}

func (suite *StorefrontAPITestSuite) TearDownTest() {
	suite.sessions.Close()
}

// do issues a request carrying the session cookie captured from earlier
// responses, the way a browser would.
func (suite *StorefrontAPITestSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		suite.Require().NoError(err)
	}

	req, err := http.NewRequest(method, path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range suite.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		suite.cookies = cookies
	}
	return w
}

func (suite *StorefrontAPITestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	suite.Require().NoError(err)
	return response
}

func (suite *StorefrontAPITestSuite) cartData(w *httptest.ResponseRecorder) map[string]interface{} {
	response := suite.decode(w)
	suite.Require().True(response["success"].(bool))
	return response["data"].(map[string]interface{})["cart"].(map[string]interface{})
}

func (suite *StorefrontAPITestSuite) compareData(w *httptest.ResponseRecorder) map[string]interface{} {
	response := suite.decode(w)
	suite.Require().True(response["success"].(bool))
	return response["data"].(map[string]interface{})["compare"].(map[string]interface{})
}

func (suite *StorefrontAPITestSuite) TestCartAddMergeAndTotal() {
	w := suite.do("POST", "/v1/cart/items", gin.H{"slug": "mtz-belarus-82-1", "quantity": 2})
	suite.Equal(http.StatusCreated, w.Code)

	// Same product again merges into one line.
	w = suite.do("POST", "/v1/cart/items", gin.H{"slug": "mtz-belarus-82-1", "quantity": 3})
	suite.Equal(http.StatusCreated, w.Code)

	// Hidden-price item contributes nothing to the total.
	w = suite.do("POST", "/v1/cart/items", gin.H{"slug": "disc-harrow", "quantity": 5})
	suite.Equal(http.StatusCreated, w.Code)

	cart := suite.cartData(suite.do("GET", "/v1/cart", nil))

	items := cart["items"].([]interface{})
	suite.Require().Len(items, 2)
	first := items[0].(map[string]interface{})
	suite.Equal(float64(5), first["quantity"])
	suite.Equal(5*18500.0, cart["total"])
	suite.Equal(true, cart["is_open"])
}

func (suite *StorefrontAPITestSuite) TestCartUnknownProduct() {
	w := suite.do("POST", "/v1/cart/items", gin.H{"slug": "no-such-product"})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *StorefrontAPITestSuite) TestCartValidation() {
	w := suite.do("POST", "/v1/cart/items", gin.H{"slug": "NOT A SLUG"})
	suite.Equal(http.StatusBadRequest, w.Code)

	response := suite.decode(w)
	suite.False(response["success"].(bool))
}

func (suite *StorefrontAPITestSuite) TestCartQuantityLifecycle() {
	suite.do("POST", "/v1/cart/items", gin.H{"slug": "plough-3f", "quantity": 1})

	w := suite.do("PATCH", "/v1/cart/items/3", gin.H{"quantity": 4})
	suite.Equal(http.StatusOK, w.Code)
	cart := suite.cartData(w)
	suite.Equal(4*950.0, cart["total"])

	// Zero quantity removes the line.
	w = suite.do("PATCH", "/v1/cart/items/3", gin.H{"quantity": 0})
	suite.Equal(http.StatusOK, w.Code)
	cart = suite.cartData(w)
	suite.Empty(cart["items"])
	suite.Equal(0.0, cart["total"])
}

func (suite *StorefrontAPITestSuite) TestCartClearAndToggle() {
	suite.do("POST", "/v1/cart/items", gin.H{"slug": "oil-filter", "quantity": 2})

	cart := suite.cartData(suite.do("DELETE", "/v1/cart", nil))
	suite.Empty(cart["items"])
	suite.Equal(true, cart["is_open"]) // clear leaves the panel showing

	cart = suite.cartData(suite.do("POST", "/v1/cart/toggle", gin.H{"open": false}))
	suite.Equal(false, cart["is_open"])

	cart = suite.cartData(suite.do("POST", "/v1/cart/toggle", nil))
	suite.Equal(true, cart["is_open"])
}

func (suite *StorefrontAPITestSuite) TestCompareCapacity() {
	for _, slug := range []string{"mtz-belarus-82-1", "disc-harrow", "plough-3f", "seeder-sz"} {
		w := suite.do("POST", "/v1/compare/items", gin.H{"slug": slug})
		suite.Equal(http.StatusCreated, w.Code)
	}

	w := suite.do("POST", "/v1/compare/items", gin.H{"slug": "oil-filter"})
	suite.Equal(http.StatusConflict, w.Code)

	response := suite.decode(w)
	suite.Equal("COMPARE_FULL", response["error"].(map[string]interface{})["code"])

	compare := suite.compareData(suite.do("GET", "/v1/compare", nil))
	suite.Len(compare["items"].([]interface{}), 4)
}

func (suite *StorefrontAPITestSuite) TestCompareDedup() {
	suite.do("POST", "/v1/compare/items", gin.H{"slug": "plough-3f"})

	w := suite.do("POST", "/v1/compare/items", gin.H{"slug": "plough-3f"})
	suite.Equal(http.StatusCreated, w.Code)

	response := suite.decode(w)
	data := response["data"].(map[string]interface{})
	suite.Equal("already_present", data["result"])
	suite.Len(data["compare"].(map[string]interface{})["items"].([]interface{}), 1)
}

func (suite *StorefrontAPITestSuite) TestCompareToggleItemAndOpenLifecycle() {
	w := suite.do("POST", "/v1/compare/toggle-item", gin.H{"slug": "seeder-sz"})
	suite.Equal(http.StatusOK, w.Code)
	data := suite.decode(w)["data"].(map[string]interface{})
	suite.Equal("added", data["result"])
	suite.Equal(true, data["compare"].(map[string]interface{})["is_open"])

	w = suite.do("POST", "/v1/compare/toggle-item", gin.H{"slug": "seeder-sz"})
	data = suite.decode(w)["data"].(map[string]interface{})
	suite.Equal("removed", data["result"])
	compare := data["compare"].(map[string]interface{})
	suite.Empty(compare["items"])
	suite.Equal(false, compare["is_open"]) // bar closes when it empties
}

func (suite *StorefrontAPITestSuite) TestSessionCookieScopesState() {
	suite.do("POST", "/v1/cart/items", gin.H{"slug": "oil-filter"})

	cart := suite.cartData(suite.do("GET", "/v1/cart", nil))
	suite.Len(cart["items"].([]interface{}), 1)

	// A request without the cookie is a new visitor with an empty cart.
	suite.cookies = nil
	cart = suite.cartData(suite.do("GET", "/v1/cart", nil))
	suite.Empty(cart["items"])
}

func (suite *StorefrontAPITestSuite) TestHealthCheck() {
	w := suite.do("GET", "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func TestStorefrontAPISuite(t *testing.T) {
	suite.Run(t, new(StorefrontAPITestSuite))
}
