package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ishop/internal/auth"
	"ishop/internal/discount"
	"ishop/internal/handler"
	"ishop/internal/model"
	"ishop/internal/repository"
	"ishop/internal/router"
	"ishop/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	userRepo := repository.NewUserRepository(testDB.Pool, logger)
	categoryRepo := repository.NewCategoryRepository(testDB.Pool, logger)
	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	reviewRepo := repository.NewReviewRepository(testDB.Pool, logger)
	discountRepo := repository.NewDiscountRepository(testDB.Pool, logger)

	issuer := auth.NewTokenIssuer("integration-test-secret", time.Hour)
	importer := discount.NewImporter(discount.NewFileLoader(logger), discountRepo, logger)

	authService := service.NewAuthService(userRepo, issuer, logger)
	productService := service.NewProductService(productRepo, categoryRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, discountRepo, logger)
	reviewService := service.NewReviewService(reviewRepo, productRepo, logger)
	discountService := service.NewDiscountService(discountRepo, importer, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	reviewHandler := handler.NewReviewHandler(reviewService, logger)
	adminHandler := handler.NewAdminHandler(productService, orderService, discountService, logger)

	return router.New(authHandler, productHandler, orderHandler, reviewHandler, adminHandler, authService, logger)
}

// doJSON sends a request with an optional body and bearer token and decodes
// the response into out when out is non-nil.
func doJSON(t *testing.T, server http.Handler, method, target, body, token string, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if out != nil && w.Code < http.StatusBadRequest {
		require.NoError(t, json.NewDecoder(w.Body).Decode(out))
	}
	return w
}

// loginToken logs a seeded user in and returns the bearer token.
func loginToken(t *testing.T, server http.Handler, email, password string) string {
	t.Helper()

	var token model.TokenResponse
	w := doJSON(t, server, http.MethodPost, "/auth/login",
		`{"email":"`+email+`","password":"`+password+`"}`, "", &token)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, token.AccessToken)
	return token.AccessToken
}

func TestAuthAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("register, login and fetch profile", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		var user model.User
		w := doJSON(t, server, http.MethodPost, "/auth/register",
			`{"email":"Alice@Example.com","password":"correct-horse","display_name":"Alice"}`, "", &user)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.True(t, user.IsActive)
		assert.False(t, user.IsAdmin)

		token := loginToken(t, server, "alice@example.com", "correct-horse")

		var me model.User
		w = doJSON(t, server, http.MethodGet, "/auth/me", "", token, &me)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, user.ID, me.ID)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedUser(t, testDB.Pool, "taken@example.com", "password123", false)

		w := doJSON(t, server, http.MethodPost, "/auth/register",
			`{"email":"taken@example.com","password":"password123","display_name":"Copy"}`, "", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("wrong password is rejected without leaking account existence", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedUser(t, testDB.Pool, "bob@example.com", "password123", false)

		wKnown := doJSON(t, server, http.MethodPost, "/auth/login",
			`{"email":"bob@example.com","password":"wrong"}`, "", nil)
		wUnknown := doJSON(t, server, http.MethodPost, "/auth/login",
			`{"email":"ghost@example.com","password":"wrong"}`, "", nil)

		assert.Equal(t, http.StatusUnauthorized, wKnown.Code)
		assert.Equal(t, http.StatusUnauthorized, wUnknown.Code)

		var respKnown, respUnknown model.ErrorResponse
		require.NoError(t, json.NewDecoder(wKnown.Body).Decode(&respKnown))
		require.NoError(t, json.NewDecoder(wUnknown.Body).Decode(&respUnknown))
		assert.Equal(t, respUnknown, respKnown)
	})

	t.Run("protected routes reject missing and forged tokens", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/auth/me", "", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = doJSON(t, server, http.MethodGet, "/auth/me", "", "forged.jwt.token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admin routes reject ordinary users", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedUser(t, testDB.Pool, "plain@example.com", "password123", false)
		token := loginToken(t, server, "plain@example.com", "password123")

		w := doJSON(t, server, http.MethodPost, "/admin/products",
			`{"name":"Sneaky","price":1,"stock":1}`, token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCatalogAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	CleanupDB(t, testDB.Pool)
	SeedUser(t, testDB.Pool, "admin@example.com", "password123", true)
	adminToken := loginToken(t, server, "admin@example.com", "password123")

	var category model.Category
	w := doJSON(t, server, http.MethodPost, "/admin/categories",
		`{"name":"Peripherals","description":"Input devices"}`, adminToken, &category)
	require.Equal(t, http.StatusCreated, w.Code)

	var keyboard model.Product
	w = doJSON(t, server, http.MethodPost, "/admin/products",
		`{"name":"Mechanical Keyboard","description":"Clacky","price":89.99,"stock":10,"category_id":"`+category.ID.String()+`"}`,
		adminToken, &keyboard)
	require.Equal(t, http.StatusCreated, w.Code)

	var lamp model.Product
	w = doJSON(t, server, http.MethodPost, "/admin/products",
		`{"name":"Desk Lamp","price":25,"stock":5}`, adminToken, &lamp)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("public listing returns active products", func(t *testing.T) {
		var products []model.Product
		w := doJSON(t, server, http.MethodGet, "/products", "", "", &products)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, products, 2)
	})

	t.Run("category and search filters narrow the listing", func(t *testing.T) {
		var products []model.Product
		w := doJSON(t, server, http.MethodGet, "/products?category=Peripherals", "", "", &products)
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, products, 1)
		assert.Equal(t, keyboard.ID, products[0].ID)

		w = doJSON(t, server, http.MethodGet, "/products?search=lamp", "", "", &products)
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, products, 1)
		assert.Equal(t, lamp.ID, products[0].ID)
	})

	t.Run("pagination slices the listing", func(t *testing.T) {
		var firstPage []model.Product
		w := doJSON(t, server, http.MethodGet, "/products?limit=1", "", "", &firstPage)
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, firstPage, 1)

		var secondPage []model.Product
		w = doJSON(t, server, http.MethodGet, "/products?limit=1&skip=1", "", "", &secondPage)
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, secondPage, 1)
		assert.NotEqual(t, firstPage[0].ID, secondPage[0].ID)
	})

	t.Run("get by id and 404 for unknown product", func(t *testing.T) {
		var product model.Product
		w := doJSON(t, server, http.MethodGet, "/products/"+keyboard.ID.String(), "", "", &product)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Mechanical Keyboard", product.Name)

		w = doJSON(t, server, http.MethodGet, "/products/00000000-0000-0000-0000-000000000000", "", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update and delete through the admin surface", func(t *testing.T) {
		var updated model.Product
		w := doJSON(t, server, http.MethodPut, "/admin/products/"+lamp.ID.String(),
			`{"price":19.99}`, adminToken, &updated)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decimal.RequireFromString("19.99").Equal(updated.Price))
		assert.Equal(t, "Desk Lamp", updated.Name)

		w = doJSON(t, server, http.MethodDelete, "/admin/products/"+lamp.ID.String(), "", adminToken, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		// Soft-deleted products disappear from the public surface.
		w = doJSON(t, server, http.MethodGet, "/products/"+lamp.ID.String(), "", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		var products []model.Product
		w = doJSON(t, server, http.MethodGet, "/products", "", "", &products)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, products, 1)
	})
}

func TestOrderAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("checkout decrements stock and snapshots prices", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedUser(t, testDB.Pool, "shopper@example.com", "password123", false)
		token := loginToken(t, server, "shopper@example.com", "password123")

		productID := SeedProduct(t, testDB.Pool, "Mechanical Keyboard", decimal.RequireFromString("89.99"), 10)

		var order model.Order
		w := doJSON(t, server, http.MethodPost, "/orders",
			`{"items":[{"product_id":"`+productID.String()+`","quantity":2}]}`, token, &order)
		require.Equal(t, http.StatusOK, w.Code)

		assert.True(t, decimal.RequireFromString("179.98").Equal(order.TotalAmount))
		assert.Equal(t, model.OrderStatusPending, order.Status)
		assert.Len(t, order.TrackingCode, 11)
		assert.True(t, strings.HasPrefix(order.TrackingCode, "ISH"))
		assert.Equal(t, 8, ProductStock(t, testDB.Pool, productID))

		var fetched model.Order
		w = doJSON(t, server, http.MethodGet, "/orders/"+order.ID.String(), "", token, &fetched)
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, fetched.Items, 1)
		assert.Equal(t, 2, fetched.Items[0].Quantity)
		assert.True(t, decimal.RequireFromString("89.99").Equal(fetched.Items[0].UnitPrice))
	})

	t.Run("order totals ignore later price changes", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedUser(t, testDB.Pool, "shopper@example.com", "password123", false)
		SeedUser(t, testDB.Pool, "admin@example.com", "password123", true)
		token := loginToken(t, server, "shopper@example.com", "password123")
		adminToken := loginToken(t, server, "admin@example.com", "password123")

		productID := SeedProduct(t, testDB.Pool, "Desk Lamp", decimal.RequireFromString("25.00"), 5)

		var order model.Order
		w := doJSON(t, server, http.MethodPost, "/orders",
			`{"items":[{"product_id":"`+productID.String()+`","quantity":1}]}`, token, &order)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, server, http.MethodPut, "/admin/products/"+productID.String(),
			`{"price":99}`, adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var fetched model.Order
		w = doJSON(t, server, http.MethodGet, "/orders/"+order.ID.String(), "", token, &fetched)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decimal.RequireFromString("25.00").Equal(fetched.TotalAmount))
		require.Len(t, fetched.Items, 1)
		assert.True(t, decimal.RequireFromString("25.00").Equal(fetched.Items[0].UnitPrice))
	})

	t.Run("insufficient stock aborts the whole order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedUser(t, testDB.Pool, "shopper@example.com", "password123", false)
		token := loginToken(t, server, "shopper@example.com", "password123")

		plenty := SeedProduct(t, testDB.Pool, "Pens", decimal.RequireFromString("2.00"), 100)
		scarce := SeedProduct(t, testDB.Pool, "Limited Print", decimal.RequireFromString("150.00"), 1)

		w := doJSON(t, server, http.MethodPost, "/orders",
			`{"items":[{"product_id":"`+plenty.String()+`","quantity":3},{"product_id":"`+scarce.String()+`","quantity":2}]}`,
			token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		// Nothing was committed, the passing line included.
		assert.Equal(t, 100, ProductStock(t, testDB.Pool, plenty))
		assert.Equal(t, 1, ProductStock(t, testDB.Pool, scarce))
	})

	t.Run("users cannot see each other's orders", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedUser(t, testDB.Pool, "alice@example.com", "password123", false)
		SeedUser(t, testDB.Pool, "mallory@example.com", "password123", false)
		aliceToken := loginToken(t, server, "alice@example.com", "password123")
		malloryToken := loginToken(t, server, "mallory@example.com", "password123")

		productID := SeedProduct(t, testDB.Pool, "Notebook", decimal.RequireFromString("4.50"), 10)

		var order model.Order
		w := doJSON(t, server, http.MethodPost, "/orders",
			`{"items":[{"product_id":"`+productID.String()+`","quantity":1}]}`, aliceToken, &order)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, server, http.MethodGet, "/orders/"+order.ID.String(), "", malloryToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		var orders []model.Order
		w = doJSON(t, server, http.MethodGet, "/orders", "", malloryToken, &orders)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, orders)
	})

	t.Run("status transitions and cancel restocking", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedUser(t, testDB.Pool, "shopper@example.com", "password123", false)
		SeedUser(t, testDB.Pool, "admin@example.com", "password123", true)
		token := loginToken(t, server, "shopper@example.com", "password123")
		adminToken := loginToken(t, server, "admin@example.com", "password123")

		productID := SeedProduct(t, testDB.Pool, "Monitor Arm", decimal.RequireFromString("60.00"), 5)

		var order model.Order
		w := doJSON(t, server, http.MethodPost, "/orders",
			`{"items":[{"product_id":"`+productID.String()+`","quantity":3}]}`, token, &order)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, 2, ProductStock(t, testDB.Pool, productID))

		statusURL := "/admin/orders/" + order.ID.String() + "/status"

		// Skipping a step is rejected.
		w = doJSON(t, server, http.MethodPatch, statusURL, `{"status":"shipped"}`, adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var updated model.Order
		w = doJSON(t, server, http.MethodPatch, statusURL, `{"status":"processing"}`, adminToken, &updated)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, model.OrderStatusProcessing, updated.Status)

		w = doJSON(t, server, http.MethodPatch, statusURL, `{"status":"cancelled"}`, adminToken, &updated)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, model.OrderStatusCancelled, updated.Status)

		// Cancel returned the reserved units.
		assert.Equal(t, 5, ProductStock(t, testDB.Pool, productID))

		// Cancelled is terminal.
		w = doJSON(t, server, http.MethodPatch, statusURL, `{"status":"processing"}`, adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("admin sees all orders", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedUser(t, testDB.Pool, "alice@example.com", "password123", false)
		SeedUser(t, testDB.Pool, "bob@example.com", "password123", false)
		SeedUser(t, testDB.Pool, "admin@example.com", "password123", true)
		aliceToken := loginToken(t, server, "alice@example.com", "password123")
		bobToken := loginToken(t, server, "bob@example.com", "password123")
		adminToken := loginToken(t, server, "admin@example.com", "password123")

		productID := SeedProduct(t, testDB.Pool, "Webcam", decimal.RequireFromString("45.00"), 10)
		body := `{"items":[{"product_id":"` + productID.String() + `","quantity":1}]}`

		require.Equal(t, http.StatusOK, doJSON(t, server, http.MethodPost, "/orders", body, aliceToken, nil).Code)
		require.Equal(t, http.StatusOK, doJSON(t, server, http.MethodPost, "/orders", body, bobToken, nil).Code)

		var orders []model.Order
		w := doJSON(t, server, http.MethodGet, "/admin/orders", "", adminToken, &orders)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, orders, 2)

		// The shared listing route widens to every order for admins too.
		var viaShared []model.Order
		w = doJSON(t, server, http.MethodGet, "/orders", "", adminToken, &viaShared)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, viaShared, 2)

		var aliceOnly []model.Order
		w = doJSON(t, server, http.MethodGet, "/orders", "", aliceToken, &aliceOnly)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, aliceOnly, 1)
	})
}

func TestOrderAPI_ConcurrentCheckout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	CleanupDB(t, testDB.Pool)
	SeedUser(t, testDB.Pool, "shopper@example.com", "password123", false)
	token := loginToken(t, server, "shopper@example.com", "password123")

	productID := SeedProduct(t, testDB.Pool, "Last Unit", decimal.RequireFromString("500.00"), 1)
	body := `{"items":[{"product_id":"` + productID.String() + `","quantity":1}]}`

	const workers = 10
	codes := make([]int, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			created++
		case http.StatusBadRequest:
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}

	// Exactly one checkout wins the last unit.
	assert.Equal(t, 1, created)
	assert.Equal(t, 0, ProductStock(t, testDB.Pool, productID))
}

func TestDiscountAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("valid code reduces the total and bumps usage", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedUser(t, testDB.Pool, "shopper@example.com", "password123", false)
		SeedUser(t, testDB.Pool, "admin@example.com", "password123", true)
		token := loginToken(t, server, "shopper@example.com", "password123")
		adminToken := loginToken(t, server, "admin@example.com", "password123")

		productID := SeedProduct(t, testDB.Pool, "Desk", decimal.RequireFromString("100.00"), 10)

		w := doJSON(t, server, http.MethodPost, "/admin/discounts",
			`{"code":"WELCOME10","percentage":10,"max_uses":1}`, adminToken, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var order model.Order
		w = doJSON(t, server, http.MethodPost, "/orders",
			`{"items":[{"product_id":"`+productID.String()+`","quantity":1}],"discount_code":"WELCOME10"}`,
			token, &order)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decimal.RequireFromString("90.00").Equal(order.TotalAmount))

		// The cap is now reached, a second use fails and commits nothing.
		w = doJSON(t, server, http.MethodPost, "/orders",
			`{"items":[{"product_id":"`+productID.String()+`","quantity":1}],"discount_code":"WELCOME10"}`,
			token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 9, ProductStock(t, testDB.Pool, productID))
	})

	t.Run("expired and inactive codes are rejected", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedUser(t, testDB.Pool, "shopper@example.com", "password123", false)
		token := loginToken(t, server, "shopper@example.com", "password123")

		productID := SeedProduct(t, testDB.Pool, "Chair", decimal.RequireFromString("80.00"), 10)

		expired := time.Now().Add(-time.Hour)
		SeedDiscount(t, testDB.Pool, model.Discount{
			Code: "BYGONE", Percentage: decimal.NewFromInt(20), ExpiresAt: &expired, IsActive: true,
		})
		SeedDiscount(t, testDB.Pool, model.Discount{
			Code: "DORMANT", Percentage: decimal.NewFromInt(20), IsActive: false,
		})

		for _, code := range []string{"BYGONE", "DORMANT", "NEVERWAS"} {
			w := doJSON(t, server, http.MethodPost, "/orders",
				`{"items":[{"product_id":"`+productID.String()+`","quantity":1}],"discount_code":"`+code+`"}`,
				token, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, "code %s", code)
		}
		assert.Equal(t, 10, ProductStock(t, testDB.Pool, productID))
	})
}

func TestReviewAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	CleanupDB(t, testDB.Pool)
	SeedUser(t, testDB.Pool, "shopper@example.com", "password123", false)
	token := loginToken(t, server, "shopper@example.com", "password123")

	keyboard := SeedProduct(t, testDB.Pool, "Mechanical Keyboard", decimal.RequireFromString("89.99"), 10)
	lamp := SeedProduct(t, testDB.Pool, "Desk Lamp", decimal.RequireFromString("25.00"), 5)

	var review model.Review
	w := doJSON(t, server, http.MethodPost, "/reviews",
		`{"product_id":"`+keyboard.String()+`","rating":5,"comment":"Clack clack"}`, token, &review)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, review.Rating)

	w = doJSON(t, server, http.MethodPost, "/reviews",
		`{"product_id":"`+lamp.String()+`","rating":2,"comment":"Flickers"}`, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("rating bounds are enforced", func(t *testing.T) {
		for _, rating := range []string{"0", "6", "-3"} {
			w := doJSON(t, server, http.MethodPost, "/reviews",
				`{"product_id":"`+keyboard.String()+`","rating":`+rating+`}`, token, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, "rating %s", rating)
		}
	})

	t.Run("listing with and without a product filter", func(t *testing.T) {
		var all []model.Review
		w := doJSON(t, server, http.MethodGet, "/reviews", "", "", &all)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, all, 2)

		var filtered []model.Review
		w = doJSON(t, server, http.MethodGet, "/reviews?product_id="+lamp.String(), "", "", &filtered)
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, filtered, 1)
		assert.Equal(t, lamp, filtered[0].ProductID)
	})

	t.Run("reviews require authentication", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/reviews",
			`{"product_id":"`+keyboard.String()+`","rating":4}`, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
