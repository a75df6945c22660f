package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/pokecards/storefront/internal/aws"
	"github.com/pokecards/storefront/internal/orders"
)

// Processor handles order-placed messages: it records fulfillment
// metrics and notifies the customer. Orders themselves are immutable,
// so the processor never writes to the store.
type Processor struct {
	orders     *orders.Store
	cloudwatch aws.CloudWatchAPI
	namespace  string
}

// NewProcessor creates a worker processor over the shared order store.
func NewProcessor(orderStore *orders.Store, cw aws.CloudWatchAPI, namespace string) *Processor {
	return &Processor{
		orders:     orderStore,
		cloudwatch: cw,
		namespace:  namespace,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg WorkerMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.Printf("[worker] received order=%d payment=%s corr=%s",
		msg.OrderID, msg.PaymentID, msg.CorrelationID)

	order, err := p.orders.Get(ctx, msg.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		// Should never happen; DLQ if it does
		return fmt.Errorf("order not found: %d", msg.OrderID)
	}

	if err := p.putMetrics(ctx, order); err != nil {
		return fmt.Errorf("failed to put metrics for order %d: %w", order.ID, err)
	}

	p.notifyCustomer(order)

	log.Printf("[worker] fulfilled order=%d", order.ID)
	return nil
}

func (p *Processor) putMetrics(ctx context.Context, order *orders.Order) error {
	_, err := p.cloudwatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(p.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String("OrdersFulfilled"),
				Unit:       cwtypes.StandardUnitCount,
				Value:      sdkaws.Float64(1),
			},
			{
				MetricName: sdkaws.String("OrderRevenue"),
				Unit:       cwtypes.StandardUnitNone,
				Value:      sdkaws.Float64(order.Total.InexactFloat64()),
			},
		},
	})
	return err
}

// notifyCustomer simulates the confirmation email; a real deployment
// would hand this to an email provider.
func (p *Processor) notifyCustomer(order *orders.Order) {
	log.Println("========================================================")
	log.Printf("SIMULATING ORDER CONFIRMATION EMAIL")
	log.Printf("To: %s", order.Customer.Email)
	log.Printf("Subject: Order #%d confirmed", order.ID)
	log.Printf("Body: Thank you, %s! Your %d card(s) will be shipped soon.",
		order.Customer.Name, len(order.Items))
	log.Println("========================================================")
}
