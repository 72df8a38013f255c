package order

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/kritsw/wholesale-shop-backend/internal/cart"
	"github.com/kritsw/wholesale-shop-backend/internal/money"
	"github.com/kritsw/wholesale-shop-backend/internal/product"
	"github.com/kritsw/wholesale-shop-backend/internal/user"
)

type stubBalance struct {
	remaining money.Money
}

func (s *stubBalance) RemainingBalance(o Order) (money.Money, error) {
	return s.remaining, nil
}

func makeAppWithOrderHandler(oHandler *Handler) *fiber.App {
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
	oHandler.RegisterProtectedRoutes(app)
	return app
}

type orderTestEnv struct {
	app      *fiber.App
	service  *Service
	repo     *InMemoryRepository
	userRepo *user.InMemoryRepository
	cartRepo *cart.InMemoryRepository
	balance  *stubBalance
}

func newOrderTestEnv(t *testing.T, carts map[int]map[int]int) *orderTestEnv {
	t.Helper()

	products := []product.Product{
		{ID: 1, Name: "Ceramic tile 60x60", Price: money.FromFloat(100), MOQ: 10, Stock: 500},
		{ID: 2, Name: "Grout bag 5kg", Price: money.FromFloat(20), MOQ: 5, Stock: 200},
	}
	productService := product.NewService(product.NewInMemoryRepository(products, nil))

	cartRepo := cart.NewInMemoryRepository(carts, products)
	cartService := cart.NewService(cartRepo, productService)

	userRepo := user.NewInMemoryRepository([]user.User{{ID: 7, Email: "b@example.com", FirstName: "B", LastName: "W", Phone: "1"}})
	userService := user.NewService(userRepo)

	balance := &stubBalance{remaining: money.FromFloat(100)}
	repo := NewInMemoryRepository(nil)
	service := NewService(repo, balance)
	handler := NewHandler(service, userService, cartService)

	return &orderTestEnv{
		app:      makeAppWithOrderHandler(handler),
		service:  service,
		repo:     repo,
		userRepo: userRepo,
		cartRepo: cartRepo,
		balance:  balance,
	}
}

func TestCreateOrder(t *testing.T) {
	env := newOrderTestEnv(t, map[int]map[int]int{7: {1: 15, 2: 10}})

	body := `{"currentLocation":"HK","deliveryLocation":"D","shippingCountry":"United Arab Emirates"}`
	req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("X-User-ID", "7")
	req.Header.Set("Content-Type", "application/json")
	res, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 201, got %d: %s", res.StatusCode, string(b))
	}

	var got orderResponse
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode order: %v", err)
	}
	if got.Status != StatusRequested || got.DisplayStatus != StatusRequested {
		t.Fatalf("new orders must start as requested: %+v", got)
	}
	// 15 * 100 + 10 * 20
	if got.Subtotal.String() != "1700.00" || got.TotalAmount.String() != "1700.00" {
		t.Fatalf("unexpected totals: subtotal=%s total=%s", got.Subtotal, got.TotalAmount)
	}
	if got.Currency != "AED" {
		t.Fatalf("shipping country should resolve to AED, got %s", got.Currency)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 snapshot items, got %d", len(got.Items))
	}

	// checkout consumed the cart
	items, _ := env.cartRepo.GetItems(7)
	if len(items) != 0 {
		t.Fatalf("cart should be empty after checkout, has %d items", len(items))
	}

	// the order id landed on the user record
	u, _ := env.userRepo.GetByID(7)
	if len(u.OrderIDs) != 1 || u.OrderIDs[0] != got.ID {
		t.Fatalf("order id not appended to user: %v", u.OrderIDs)
	}
}

func TestCreateOrder_Violations(t *testing.T) {
	// quantity seeded below the MOQ, bypassing the clamp on writes
	env := newOrderTestEnv(t, map[int]map[int]int{7: {1: 5}})

	req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(`{"deliveryLocation":"HK"}`))
	req.Header.Set("X-User-ID", "7")
	req.Header.Set("Content-Type", "application/json")
	res, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for MOQ violation, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "violations") {
		t.Fatalf("response should list violations: %s", string(b))
	}

	// nothing was created or consumed
	if _, total, _ := env.repo.List(7, "", 1, 10); total != 0 {
		t.Fatalf("no order should exist after a rejected submission")
	}
	items, _ := env.cartRepo.GetItems(7)
	if len(items) != 1 {
		t.Fatalf("cart must stay intact after a rejected submission")
	}
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	env := newOrderTestEnv(t, map[int]map[int]int{7: {}})

	req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(`{}`))
	req.Header.Set("X-User-ID", "7")
	req.Header.Set("Content-Type", "application/json")
	res, _ := env.app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", res.StatusCode)
	}
}

func TestChangeStatus_BalanceGate(t *testing.T) {
	env := newOrderTestEnv(t, map[int]map[int]int{7: {1: 15}})

	created, err := env.service.Create(CreateRequest{
		UserID: 7,
		Items:  []cart.Item{{ProductID: 1, Quantity: 15, UnitPrice: money.FromFloat(100), MOQ: 10, Stock: 500}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	patchStatus := func(id int, status string) int {
		req := httptest.NewRequest("PATCH", "/api/v1/orders/"+strconv.Itoa(id)+"/status",
			strings.NewReader(`{"status":"`+status+`"}`))
		req.Header.Set("X-User-ID", "7")
		req.Header.Set("Content-Type", "application/json")
		res, err := env.app.Test(req)
		if err != nil {
			t.Fatalf("status patch failed: %v", err)
		}
		return res.StatusCode
	}

	if code := patchStatus(created.ID, "confirm"); code != fiber.StatusOK {
		t.Fatalf("requested -> confirm should pass, got %d", code)
	}
	if code := patchStatus(created.ID, "waiting_for_payment"); code != fiber.StatusOK {
		t.Fatalf("confirm -> waiting_for_payment should pass, got %d", code)
	}

	// balance still outstanding
	if code := patchStatus(created.ID, "payment_received"); code != fiber.StatusConflict {
		t.Fatalf("expected 409 with outstanding balance, got %d", code)
	}

	env.balance.remaining = money.Zero()
	if code := patchStatus(created.ID, "payment_received"); code != fiber.StatusOK {
		t.Fatalf("expected 200 at zero balance, got %d", code)
	}

	// skipping ahead is illegal
	if code := patchStatus(created.ID, "delivered"); code != fiber.StatusConflict {
		t.Fatalf("expected 409 for illegal transition, got %d", code)
	}
}

func TestCancelOrder(t *testing.T) {
	env := newOrderTestEnv(t, map[int]map[int]int{7: {1: 15}})

	created, err := env.service.Create(CreateRequest{
		UserID: 7,
		Items:  []cart.Item{{ProductID: 1, Quantity: 15, UnitPrice: money.FromFloat(100), MOQ: 10, Stock: 500}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	idStr := strconv.Itoa(created.ID)

	// a stranger cannot cancel
	req := httptest.NewRequest("POST", "/api/v1/orders/"+idStr+"/cancel", nil)
	req.Header.Set("X-User-ID", "99")
	res, _ := env.app.Test(req)
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for foreign cancel, got %d", res.StatusCode)
	}

	// owner cancels while still requested
	req2 := httptest.NewRequest("POST", "/api/v1/orders/"+idStr+"/cancel", nil)
	req2.Header.Set("X-User-ID", "7")
	res2, _ := env.app.Test(req2)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for owner cancel, got %d", res2.StatusCode)
	}
	stored, _ := env.repo.GetByID(created.ID)
	if stored.Status != StatusCancelled {
		t.Fatalf("order should be cancelled, got %s", stored.Status)
	}

	// a second order pushed past the cancellable window
	second, _ := env.service.Create(CreateRequest{
		UserID: 7,
		Items:  []cart.Item{{ProductID: 1, Quantity: 15, UnitPrice: money.FromFloat(100), MOQ: 10, Stock: 500}},
	})
	confirm := StatusConfirm
	waiting := StatusWaitingForPayment
	env.repo.Patch(second.ID, Patch{Status: &confirm})
	env.repo.Patch(second.ID, Patch{Status: &waiting})

	req3 := httptest.NewRequest("POST", "/api/v1/orders/"+strconv.Itoa(second.ID)+"/cancel", nil)
	req3.Header.Set("X-User-ID", "7")
	res3, _ := env.app.Test(req3)
	if res3.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 once payment collection began, got %d", res3.StatusCode)
	}
}

func TestListOrders(t *testing.T) {
	env := newOrderTestEnv(t, map[int]map[int]int{7: {1: 15}})

	for i := 0; i < 3; i++ {
		if _, err := env.service.Create(CreateRequest{
			UserID: 7,
			Items:  []cart.Item{{ProductID: 1, Quantity: 15, UnitPrice: money.FromFloat(100), MOQ: 10, Stock: 500}},
		}); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}

	req := httptest.NewRequest("GET", "/api/v1/orders?page=1&pageSize=2", nil)
	req.Header.Set("X-User-ID", "7")
	res, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var body struct {
		Orders []orderResponse `json:"orders"`
		Total  int             `json:"total"`
		Page   int             `json:"page"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if body.Total != 3 || len(body.Orders) != 2 || body.Page != 1 {
		t.Fatalf("unexpected paging: total=%d page=%d len=%d", body.Total, body.Page, len(body.Orders))
	}
	// newest first
	if body.Orders[0].ID < body.Orders[1].ID {
		t.Fatalf("orders should list newest first: %d before %d", body.Orders[0].ID, body.Orders[1].ID)
	}

	// status filter
	req2 := httptest.NewRequest("GET", "/api/v1/orders?status=cancelled", nil)
	req2.Header.Set("X-User-ID", "7")
	res2, _ := env.app.Test(req2)
	var body2 struct {
		Total int `json:"total"`
	}
	json.NewDecoder(res2.Body).Decode(&body2)
	if body2.Total != 0 {
		t.Fatalf("expected no cancelled orders, got %d", body2.Total)
	}
}
