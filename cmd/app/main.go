package main

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kritsw/wholesale-shop-backend/internal/address"
	"github.com/kritsw/wholesale-shop-backend/internal/cart"
	"github.com/kritsw/wholesale-shop-backend/internal/config"
	"github.com/kritsw/wholesale-shop-backend/internal/delivery"
	"github.com/kritsw/wholesale-shop-backend/internal/order"
	"github.com/kritsw/wholesale-shop-backend/internal/payment"
	"github.com/kritsw/wholesale-shop-backend/internal/product"
	"github.com/kritsw/wholesale-shop-backend/internal/user"
)

func main() {
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)
	app.Use(requestLogger)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	bootstrapSchema(db)

	// repositories and services; the order service needs the payment
	// service as its balance resolver, so payments are built first
	userService := user.NewService(user.NewPostgresRepository(db))
	productService := product.NewService(product.NewPostgresRepository(db))
	cartService := cart.NewService(cart.NewPostgresRepository(db), productService)
	paymentService := payment.NewService(payment.NewPostgresRepository(db))
	orderService := order.NewService(order.NewPostgresRepository(db), paymentService)

	userHandler := user.NewHandler(userService)
	productHandler := product.NewHandler(productService)
	cartHandler := cart.NewHandler(cartService)
	orderHandler := order.NewHandler(orderService, userService, cartService)
	deliveryHandler := delivery.NewHandler(orderService, productService)
	paymentHandler := payment.NewHandler(paymentService, orderService)
	addressHandler := address.NewHandler(address.NewService(address.NewPostgresRepository(db)))

	// public routes: auth plus the read-only catalog
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)

	// uploaded payment slips are served back for review
	app.Static("/uploads", "./uploads")

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
		// catalog GETs stay public even when the request reaches the
		// middleware through a non-registered route variant
		Filter: func(c *fiber.Ctx) bool {
			if c.Method() != fiber.MethodGet {
				return false
			}
			p := c.Path()
			return p == "/api/v1/products" ||
				strings.HasPrefix(p, "/api/v1/product/") ||
				strings.HasPrefix(p, "/api/v1/product-groups/")
		},
	}))

	userHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	deliveryHandler.RegisterProtectedRoutes(app)
	paymentHandler.RegisterProtectedRoutes(app)
	addressHandler.RegisterProtectedRoutes(app)

	if err := app.Listen(cfg.Addr); err != nil {
		panic(err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	fmt.Printf("%s %s -> %d (%v)\n", c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
	return err
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

// bootstrapSchema creates the tables the repositories expect. Statements
// are idempotent so restarting against an existing database is safe.
func bootstrapSchema(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            "userId" SERIAL PRIMARY KEY,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            "firstName" TEXT,
            "lastName" TEXT,
            phone TEXT,
            company TEXT,
            "orderIds" integer[],
            cart jsonb NOT NULL DEFAULT '{}',
            "createAt" TEXT,
            "updateAt" TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            "productID" SERIAL PRIMARY KEY,
            "productName" TEXT NOT NULL,
            "subSkuFamilyId" TEXT,
            "unitPrice" numeric NOT NULL DEFAULT 0,
            moq INT NOT NULL DEFAULT 1,
            stock INT NOT NULL DEFAULT 0,
            "groupCode" TEXT,
            "hasExpressDeliveryCharge" BOOLEAN NOT NULL DEFAULT false,
            "hasSameLocationCharge" BOOLEAN NOT NULL DEFAULT false,
            "deliveryChargeCostType" TEXT,
            "deliveryChargeValue" double precision,
            "deliveryChargeMessage" TEXT,
            "createdAt" TEXT,
            "updatedAt" TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS product_groups (
            "groupCode" TEXT PRIMARY KEY,
            "totalMoq" INT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            "orderID" SERIAL PRIMARY KEY,
            "userID" INT NOT NULL,
            status TEXT NOT NULL,
            currency TEXT NOT NULL,
            items jsonb NOT NULL DEFAULT '[]',
            subtotal numeric NOT NULL DEFAULT 0,
            "appliedCharges" jsonb NOT NULL DEFAULT '[]',
            "totalAmount" numeric NOT NULL DEFAULT 0,
            "currentLocation" TEXT,
            "deliveryLocation" TEXT,
            "deliveryChargeOption" TEXT,
            "paymentMethod" TEXT,
            "createdAt" TEXT,
            "updatedAt" TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            "paymentId" TEXT PRIMARY KEY,
            "orderId" INT NOT NULL,
            amount numeric NOT NULL,
            currency TEXT NOT NULL,
            "moduleName" TEXT NOT NULL,
            "transactionRef" TEXT NOT NULL,
            status TEXT NOT NULL,
            "createdAt" TEXT
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS payments_order_module_ref
            ON payments ("orderId", "moduleName", "transactionRef")`,
		`CREATE TABLE IF NOT EXISTS payment_details (
            "detailId" SERIAL PRIMARY KEY,
            "orderId" INT NOT NULL,
            "filePath" TEXT,
            note TEXT,
            "createdAt" TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS address (
            "addressId" SERIAL PRIMARY KEY,
            "userId" INT NOT NULL,
            "addressDesc" TEXT,
            phone TEXT,
            "addressName" TEXT,
            location TEXT,
            "createdAt" TEXT,
            "updatedAt" TEXT
        )`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}
