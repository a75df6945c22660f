package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/pokecards/storefront/internal/aws"
	"github.com/pokecards/storefront/internal/cart"
	"github.com/pokecards/storefront/internal/catalog"
	"github.com/pokecards/storefront/internal/handlers"
	"github.com/pokecards/storefront/internal/orders"
	"github.com/pokecards/storefront/internal/payments"
	"github.com/pokecards/storefront/internal/storage"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterCatalogRoutes(r, cfg)
	handlers.RegisterCartRoutes(r, cfg)
	handlers.RegisterCheckoutRoutes(r, cfg)

	return r
}

// newSubstrate picks the snapshot backend from STORAGE_BACKEND:
// file (default), dynamo, or redis.
func newSubstrate(ctx context.Context, clients *aws.AWSClients) (storage.Substrate, error) {
	switch os.Getenv("STORAGE_BACKEND") {
	case "dynamo":
		table := os.Getenv("STORE_TABLE")
		if table == "" {
			table = "storefront-snapshots"
		}
		return storage.NewDynamoStore(clients.DynamoDB, table), nil
	case "redis":
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "127.0.0.1:6379"
		}
		return storage.NewRedisStore(ctx, addr)
	default:
		dir := os.Getenv("STORAGE_DIR")
		if dir == "" {
			dir = "./data"
		}
		return storage.NewFileStore(dir)
	}
}

func newGateway() payments.Gateway {
	endpoint := os.Getenv("PAYMENT_ENDPOINT")
	if endpoint == "" {
		log.Printf("no PAYMENT_ENDPOINT configured, using offline gateway")
		return payments.NewOfflineGateway()
	}
	return payments.NewClient(endpoint, os.Getenv("PAYMENT_KEY_ID"), os.Getenv("PAYMENT_KEY_SECRET"))
}

func envDecimal(key, fallback string) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
		log.Printf("invalid %s=%q, using %s", key, os.Getenv(key), fallback)
	}
	return decimal.RequireFromString(fallback)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	ctx := context.Background()

	clients, err := aws.NewAWSClients(ctx)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	sub, err := newSubstrate(ctx, clients)
	if err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}

	catalogStore := catalog.NewStore(sub)
	cartStore := cart.NewStore(sub, catalogStore)
	orderStore := orders.NewStore(sub, catalogStore, cartStore)
	for _, init := range []interface {
		Init(context.Context) error
	}{catalogStore, cartStore, orderStore} {
		if err := init.Init(ctx); err != nil {
			log.Fatalf("failed to init stores: %v", err)
		}
	}

	var publisher *aws.Publisher
	if queueURL := os.Getenv("ORDERS_QUEUE_URL"); queueURL != "" {
		publisher = aws.NewPublisher(clients.SQS, queueURL)
	}

	currency := os.Getenv("CURRENCY")
	if currency == "" {
		currency = "INR"
	}

	cfg := handlers.HandlerConfig{
		Catalog:   catalogStore,
		Cart:      cartStore,
		Orders:    orderStore,
		Gateway:   newGateway(),
		Publisher: publisher,
		Currency:  currency,
		TaxRate:   envDecimal("TAX_RATE", "0.08"),
		FXRate:    envDecimal("USD_FX_RATE", "83"),
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		// the adapter handles proxying; use adapter.ProxyWithContext for proper context propagation
		return adapter.ProxyWithContext(ctx, req)
	})
}
