package cart

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/kritsw/wholesale-shop-backend/internal/money"
	"github.com/kritsw/wholesale-shop-backend/internal/product"
)

func makeAppWithCartHandler(cHandler *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	cHandler.RegisterProtectedRoutes(app)
	return app
}

func testProducts() []product.Product {
	return []product.Product{
		{ID: 1, Name: "Tile A", Price: money.FromFloat(12.5), MOQ: 10, Stock: 47, GroupCode: "TILE"},
		{ID: 2, Name: "Tile B", Price: money.FromFloat(8), MOQ: 5, Stock: 100, GroupCode: "TILE"},
	}
}

func newTestService(carts map[int]map[int]int) *Service {
	products := product.NewService(product.NewInMemoryRepository(testProducts(), []product.Group{{Code: "TILE", TotalMOQ: 20}}))
	return NewService(NewInMemoryRepository(carts, testProducts()), products)
}

func TestCartRoutes_ClampingAndRemoval(t *testing.T) {
	service := newTestService(map[int]map[int]int{42: {}})
	app := makeAppWithCartHandler(NewHandler(service))

	// unauthorized access should be blocked
	res, _ := app.Test(httptest.NewRequest("GET", "/api/v1/cart", nil))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated GET, got %d", res.StatusCode)
	}

	// first add below the MOQ lands on the MOQ
	req := httptest.NewRequest("PUT", "/api/v1/cart/items/1", strings.NewReader(`{"quantity":5}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res2, _ := app.Test(req)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for put, got %d", res2.StatusCode)
	}
	b, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(b), `"quantity":10`) {
		t.Fatalf("expected quantity clamped to moq 10, got %s", string(b))
	}

	// a huge quantity lands on the stock
	req3 := httptest.NewRequest("PUT", "/api/v1/cart/items/1", strings.NewReader(`{"quantity":9999}`))
	req3.Header.Set("Content-Type", "application/json")
	req3.Header.Set("X-User-ID", "42")
	res3, _ := app.Test(req3)
	b3, _ := io.ReadAll(res3.Body)
	if !strings.Contains(string(b3), `"quantity":47`) {
		t.Fatalf("expected quantity clamped to stock 47, got %s", string(b3))
	}

	// stepping down stays at the MOQ instead of erroring
	req4 := httptest.NewRequest("POST", "/api/v1/cart/items/1/adjust", strings.NewReader(`{"quantity":-100}`))
	req4.Header.Set("Content-Type", "application/json")
	req4.Header.Set("X-User-ID", "42")
	res4, _ := app.Test(req4)
	if res4.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for adjust, got %d", res4.StatusCode)
	}
	b4, _ := io.ReadAll(res4.Body)
	if !strings.Contains(string(b4), `"quantity":10`) {
		t.Fatalf("expected quantity back at moq, got %s", string(b4))
	}

	// explicit removal deletes the line
	req5 := httptest.NewRequest("DELETE", "/api/v1/cart/items/1", nil)
	req5.Header.Set("X-User-ID", "42")
	res5, _ := app.Test(req5)
	b5, _ := io.ReadAll(res5.Body)
	if strings.Contains(string(b5), `"productId":1`) {
		t.Fatalf("expected product 1 removed, got %s", string(b5))
	}

	// unknown product is a 404, not a crash
	req6 := httptest.NewRequest("PUT", "/api/v1/cart/items/777", strings.NewReader(`{"quantity":5}`))
	req6.Header.Set("Content-Type", "application/json")
	req6.Header.Set("X-User-ID", "42")
	res6, _ := app.Test(req6)
	if res6.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", res6.StatusCode)
	}
}

func TestCartRoutes_Validate(t *testing.T) {
	// 11 + 6 across the TILE group is short of 20 by 3
	service := newTestService(map[int]map[int]int{42: {1: 11, 2: 6}})
	app := makeAppWithCartHandler(NewHandler(service))

	req := httptest.NewRequest("GET", "/api/v1/cart/validate", nil)
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for validate, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	body := string(b)
	if !strings.Contains(body, `"valid":false`) {
		t.Fatalf("expected invalid cart, got %s", body)
	}
	if !strings.Contains(body, `"remaining":3`) {
		t.Fatalf("expected group shortfall 3, got %s", body)
	}

	// top up the group and validation passes
	req2 := httptest.NewRequest("PUT", "/api/v1/cart/items/2", strings.NewReader(`{"quantity":9}`))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("X-User-ID", "42")
	app.Test(req2)

	req3 := httptest.NewRequest("GET", "/api/v1/cart/validate", nil)
	req3.Header.Set("X-User-ID", "42")
	res3, _ := app.Test(req3)
	b3, _ := io.ReadAll(res3.Body)
	if !strings.Contains(string(b3), `"valid":true`) {
		t.Fatalf("expected valid cart after top-up, got %s", string(b3))
	}
}
