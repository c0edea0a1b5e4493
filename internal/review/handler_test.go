package review

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAuth(userID int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := jwt.New(jwt.SigningMethodHS256)
		tok.Claims = jwt.MapClaims{"user_id": float64(userID)}
		c.Locals("user", tok)
		return c.Next()
	}
}

func setupApp(userID int, purchased map[int]map[int]bool) *fiber.App {
	svc := NewService(NewInMemoryRepository(), &stubPurchases{purchased: purchased})
	h := NewHandler(svc)

	app := fiber.New()
	h.RegisterPublicRoutes(app)
	app.Use(fakeAuth(userID))
	h.RegisterProtectedRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

func TestSubmitReviewEndpoint(t *testing.T) {
	app := setupApp(7, map[int]map[int]bool{7: {1: true}})

	status, body := doJSON(t, app, "POST", "/api/products/1/reviews", map[string]interface{}{
		"rating": 5, "comment": "solid chair",
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, true, body["verified"])
	assert.Equal(t, 5.0, body["rating"])

	// Duplicate submission conflicts.
	status, body = doJSON(t, app, "POST", "/api/products/1/reviews", map[string]interface{}{
		"rating": 3,
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "You have already reviewed this product", body["message"])
}

func TestSubmitReviewEndpoint_InvalidRating(t *testing.T) {
	app := setupApp(7, nil)

	status, _ := doJSON(t, app, "POST", "/api/products/1/reviews", map[string]interface{}{
		"rating": 9,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestProductReviewsEndpoint_Public(t *testing.T) {
	app := setupApp(7, nil)

	doJSON(t, app, "POST", "/api/products/1/reviews", map[string]interface{}{"rating": 4})

	status, body := doJSON(t, app, "GET", "/api/products/1/reviews", nil)
	require.Equal(t, fiber.StatusOK, status)
	reviews, ok := body["reviews"].([]interface{})
	require.True(t, ok)
	assert.Len(t, reviews, 1)
}

func TestCanReviewEndpoint(t *testing.T) {
	app := setupApp(7, map[int]map[int]bool{7: {1: true}})

	status, body := doJSON(t, app, "GET", "/api/products/1/can-review", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["canReview"])

	status, body = doJSON(t, app, "GET", "/api/products/2/can-review", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["canReview"])
}

func TestUpdateReviewEndpoint_OwnerOnly(t *testing.T) {
	// Two apps over the same service simulate two authenticated users.
	svc := NewService(NewInMemoryRepository(), &stubPurchases{})
	h := NewHandler(svc)

	asOwner := fiber.New()
	asOwner.Use(fakeAuth(7))
	h.RegisterProtectedRoutes(asOwner)

	asOther := fiber.New()
	asOther.Use(fakeAuth(8))
	h.RegisterProtectedRoutes(asOther)

	status, body := doJSON(t, asOwner, "POST", "/api/products/1/reviews", map[string]interface{}{"rating": 4})
	require.Equal(t, fiber.StatusCreated, status)
	reviewID := int(body["id"].(float64))
	require.Equal(t, 1, reviewID)

	status, body = doJSON(t, asOwner, "PUT", "/api/products/1/reviews/1", map[string]interface{}{
		"rating": 2, "comment": "sagging after a month",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 2.0, body["rating"])

	status, _ = doJSON(t, asOther, "PUT", "/api/products/1/reviews/1", map[string]interface{}{
		"rating": 1,
	})
	assert.Equal(t, fiber.StatusForbidden, status)
}
