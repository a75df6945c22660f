package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/pokecards/storefront/internal/aws"
	"github.com/pokecards/storefront/internal/cart"
	"github.com/pokecards/storefront/internal/catalog"
	"github.com/pokecards/storefront/internal/orders"
	"github.com/pokecards/storefront/internal/storage"
)

// newOrderStore wires the worker's read side over the same substrate
// the API writes to.
func newOrderStore(ctx context.Context, clients *aws.AWSClients) (*orders.Store, error) {
	var sub storage.Substrate
	var err error
	switch os.Getenv("STORAGE_BACKEND") {
	case "dynamo":
		table := os.Getenv("STORE_TABLE")
		if table == "" {
			table = "storefront-snapshots"
		}
		sub = storage.NewDynamoStore(clients.DynamoDB, table)
	case "redis":
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "127.0.0.1:6379"
		}
		sub, err = storage.NewRedisStore(ctx, addr)
		if err != nil {
			return nil, err
		}
	default:
		dir := os.Getenv("STORAGE_DIR")
		if dir == "" {
			dir = "./data"
		}
		sub, err = storage.NewFileStore(dir)
		if err != nil {
			return nil, err
		}
	}
	catalogStore := catalog.NewStore(sub)
	cartStore := cart.NewStore(sub, catalogStore)
	return orders.NewStore(sub, catalogStore, cartStore), nil
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

	orderStore, err := newOrderStore(ctx, clients)
	if err != nil {
		log.Fatalf("failed to init order store: %v", err)
	}

	namespace := os.Getenv("METRICS_NAMESPACE")
	if namespace == "" {
		namespace = "PokecardsStorefront"
	}

	p := NewProcessor(orderStore, clients.CloudWatch, namespace)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"order_id":"1","payment_id":"pay_local"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{
					Body: testBody,
				},
			},
		}
		if err := p.Handle(ctx, event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
