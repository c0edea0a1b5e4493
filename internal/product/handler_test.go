package product

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func fakeAuth(isAdmin bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := jwt.New(jwt.SigningMethodHS256)
		tok.Claims = jwt.MapClaims{"user_id": float64(1), "is_admin": isAdmin}
		c.Locals("user", tok)
		return c.Next()
	}
}

func setupApp(isAdmin bool, seed []Product) *fiber.App {
	h := NewHandler(NewService(NewInMemoryRepository(seed), "Office"))
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	app.Use(fakeAuth(isAdmin))
	h.RegisterProtectedRoutes(app)
	return app
}

func TestGetProductEndpoints(t *testing.T) {
	app := setupApp(false, []Product{{ID: 1, Name: "Aeron", Price: 120, StockQuantity: 5}})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products", nil), 5000)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if len(products) != 1 || products[0].Name != "Aeron" {
		t.Fatalf("unexpected products: %+v", products)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/products/99", nil), 5000)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateProduct_AdminOnly(t *testing.T) {
	body, _ := json.Marshal(map[string]interface{}{
		"name": "Stool", "price": 19.99, "stockQuantity": 4,
	})

	app := setupApp(false, nil)
	req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", resp.StatusCode)
	}

	app = setupApp(true, nil)
	req = httptest.NewRequest("POST", "/api/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, 5000)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created Product
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Category != "Office" {
		t.Errorf("expected default category, got %q", created.Category)
	}
}

func TestExportProducts(t *testing.T) {
	app := setupApp(true, []Product{
		{ID: 1, Name: "Aeron", Price: 120, StockQuantity: 5},
		{ID: 2, Name: "Stool", Price: 20, StockQuantity: 2},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/admin/products/export", nil), 5000)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	// xlsx files are zip archives; check the magic bytes.
	if len(raw) < 4 || raw[0] != 'P' || raw[1] != 'K' {
		t.Errorf("expected an xlsx (zip) body, got %d bytes", len(raw))
	}
}

func TestExportProducts_AdminOnly(t *testing.T) {
	app := setupApp(false, nil)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/admin/products/export", nil), 5000)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}
