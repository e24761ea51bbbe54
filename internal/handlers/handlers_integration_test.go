package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"wardrobe/internal/handlers"
	"wardrobe/internal/middleware"
	"wardrobe/internal/models"
	"wardrobe/internal/repositories"
	"wardrobe/internal/services"
	"wardrobe/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all
// handlers/services, mirroring the wiring in main. Each test gets its
// own named in-memory database.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Admin{}); err != nil {
		t.Fatalf("failed to auto-migrate database: %v", err)
	}

	// Initialize Repositories
	productRepo := repositories.NewGORMProductRepository(db)
	adminRepo := repositories.NewGORMAdminRepository(db)

	// Initialize Services (no broker in tests, local image store)
	images := storage.NewLocalStore(t.TempDir(), "/uploads/products")
	productService := services.NewProductService(productRepo, images, nil)
	authService := services.NewAuthService(adminRepo, "test_jwt_secret")
	onboardingService := services.NewOnboardingService(adminRepo)
	metricsService := services.NewMetricsService(productRepo)

	// Seed the admin account used to authenticate the tests
	if err := onboardingService.Bootstrap("admin@dashboard.com", "admin123"); err != nil {
		t.Fatalf("failed to seed admin account: %v", err)
	}

	// Initialize Handlers
	productHandler := handlers.NewProductHandler(productService)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(onboardingService)
	dashboardHandler := handlers.NewDashboardHandler(metricsService)

	app := fiber.New()

	// API Routes
	apiV1 := app.Group("/api/v1")

	// Authentication routes (public)
	authHandler.RegisterRoutes(apiV1)

	// Protected routes (require JWT authentication)
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(protected)
	adminHandler.RegisterRoutes(protected)
	dashboardHandler.RegisterRoutes(protected)

	return app
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// login authenticates as the seeded admin and returns the session token.
func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()

	jsonBody, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	resp.Body.Close()
	assert.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

// newCreateProductRequest builds the wizard's multipart submission.
// Overrides replace default form values; an empty override removes the
// field entirely.
func newCreateProductRequest(t *testing.T, overrides map[string]string, includeImage bool) *http.Request {
	t.Helper()

	fields := map[string]string{
		"name":        "Relaxed Tee",
		"brand":       "Northloom",
		"category":    "Men",
		"description": "Heavyweight cotton tee",
		"sizes":       `["S","M","L"]`,
		"colors":      "Black, Ecru",
		"material":    "Cotton",
		"fit":         "Regular",
		"stock":       "25",
		"sku":         "NL-TEE-001",
		"price":       "999",
		"discount":    "10",
	}
	for k, v := range overrides {
		if v == "" {
			delete(fields, k)
			continue
		}
		fields[k] = v
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		assert.NoError(t, writer.WriteField(k, v))
	}
	if includeImage {
		part, err := writer.CreateFormFile("image", "tee.jpg")
		assert.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestLogin(t *testing.T) {
	app := setupApp(t)

	// Correct credentials issue a token.
	token := login(t, app, "admin@dashboard.com", "admin123")
	assert.NotEmpty(t, token)

	// Wrong password and unknown email fail with the identical response.
	failedLogin := func(email, password string) (int, string) {
		jsonBody, _ := json.Marshal(map[string]string{"email": email, "password": password})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return resp.StatusCode, string(bodyBytes)
	}

	wrongPasswordStatus, wrongPasswordBody := failedLogin("admin@dashboard.com", "nope")
	unknownEmailStatus, unknownEmailBody := failedLogin("ghost@dashboard.com", "admin123")
	assert.Equal(t, http.StatusUnauthorized, wrongPasswordStatus)
	assert.Equal(t, http.StatusUnauthorized, unknownEmailStatus)
	assert.Equal(t, wrongPasswordBody, unknownEmailBody)
}

func TestProductLifecycle(t *testing.T) {
	app := setupApp(t)
	token := login(t, app, "admin@dashboard.com", "admin123")

	// --- Create ---
	req := newCreateProductRequest(t, nil, true)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.InDelta(t, 899.1, created.FinalPrice, 1e-9)
	assert.True(t, strings.HasPrefix(created.Image, "/uploads/products/"))

	// --- Get by ID ---
	req = httptest.NewRequest(http.MethodGet, "/api/v1/products/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	resp.Body.Close()
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, []string{"S", "M", "L"}, fetched.Sizes)

	// --- Update (id travels in the body) ---
	updateBody, _ := json.Marshal(map[string]interface{}{
		"id":       created.ID,
		"sizes":    []string{"M", "L", "XL"},
		"colors":   "Olive",
		"stock":    40,
		"sku":      "NL-TEE-001-R2",
		"price":    899.0,
		"discount": 20,
	})
	req = httptest.NewRequest(http.MethodPut, "/api/v1/products", bytes.NewReader(updateBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	resp.Body.Close()
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())
	assert.Equal(t, "Relaxed Tee", updated.Name) // name is not updatable
	assert.Equal(t, 40, updated.Stock)
	assert.InDelta(t, 719.2, updated.FinalPrice, 1e-9)

	// --- Delete ({success:true}, idempotent) ---
	deleteBody, _ := json.Marshal(map[string]string{"id": created.ID})
	for i := 0; i < 2; i++ {
		req = httptest.NewRequest(http.MethodDelete, "/api/v1/products", bytes.NewReader(deleteBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err = app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var deleteResp map[string]bool
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&deleteResp))
		resp.Body.Close()
		assert.True(t, deleteResp["success"])
	}

	// --- Verify deletion ---
	req = httptest.NewRequest(http.MethodGet, "/api/v1/products/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateProductRejectsBadInput(t *testing.T) {
	app := setupApp(t)
	token := login(t, app, "admin@dashboard.com", "admin123")

	// Missing image file: rejected before anything else happens.
	req := newCreateProductRequest(t, nil, false)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	resp.Body.Close()
	assert.Equal(t, "Product image is required", errResp["error"])

	// Sizes that are not a JSON array.
	req = newCreateProductRequest(t, map[string]string{"sizes": "S,M,L"}, true)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Field validation failures come back as a field-to-message map.
	req = newCreateProductRequest(t, map[string]string{"brand": "", "price": "0"}, true)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var validationResp struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&validationResp))
	resp.Body.Close()
	assert.Equal(t, "Validation failed", validationResp.Message)
	assert.Equal(t, "Brand is required", validationResp.Errors["brand"])
	assert.Equal(t, "Price must be greater than 0", validationResp.Errors["price"])

	// Nothing was persisted by any of the rejected attempts.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	var products []models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	resp.Body.Close()
	assert.Empty(t, products)
}

func TestGetProductsNewestFirst(t *testing.T) {
	app := setupApp(t)
	token := login(t, app, "admin@dashboard.com", "admin123")

	for _, name := range []string{"first", "second", "third"} {
		req := newCreateProductRequest(t, map[string]string{"name": name}, true)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
		time.Sleep(5 * time.Millisecond) // distinct creation timestamps
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var products []models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	resp.Body.Close()
	assert.Len(t, products, 3)
	assert.Equal(t, "third", products[0].Name)
	assert.Equal(t, "second", products[1].Name)
	assert.Equal(t, "first", products[2].Name)
}

func TestUpdateUnknownProduct(t *testing.T) {
	app := setupApp(t)
	token := login(t, app, "admin@dashboard.com", "admin123")

	updateBody, _ := json.Marshal(map[string]interface{}{
		"id":    "no-such-id",
		"price": 100.0,
	})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/products", bytes.NewReader(updateBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestOnboard(t *testing.T) {
	app := setupApp(t)

	// Unauthenticated calls are rejected.
	jsonBody, _ := json.Marshal(map[string]string{"email": "new@x.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboard", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	token := login(t, app, "admin@dashboard.com", "admin123")

	onboard := func(body []byte) (int, map[string]string) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/onboard", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		var parsed map[string]string
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
		resp.Body.Close()
		return resp.StatusCode, parsed
	}

	// Missing email.
	status, body := onboard([]byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email is required", body["error"])

	// New email gets an account with temporary access.
	status, body = onboard(jsonBody)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Admin created successfully with temporary access", body["message"])

	// Repeating the call is a no-op.
	status, body = onboard(jsonBody)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Admin already exists", body["message"])

	// The freshly onboarded admin can log in with the placeholder credential.
	login(t, app, "new@x.com", "temp1234")
}

func TestDashboardMetrics(t *testing.T) {
	app := setupApp(t)
	token := login(t, app, "admin@dashboard.com", "admin123")

	req := newCreateProductRequest(t, map[string]string{"stock": "3"}, true)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/metrics", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var metrics services.DashboardMetrics
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&metrics))
	resp.Body.Close()
	assert.Equal(t, 1, metrics.TotalProducts)
	assert.Equal(t, 3, metrics.TotalStock)
	assert.Equal(t, 1, metrics.LowStockCount)
	assert.Len(t, metrics.Prices, 1)
	assert.Equal(t, "Relaxed Tee", metrics.Prices[0].Name)
	assert.InDelta(t, 899.1, metrics.Prices[0].FinalPrice, 1e-9)
}

func TestProductEndpointsWithoutAuth(t *testing.T) {
	app := setupApp(t)

	// Test GET /products without token
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Test POST /products without token
	req = newCreateProductRequest(t, nil, true)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
