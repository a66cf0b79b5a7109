package cmd

import (
	"log"

	"gorm.io/gorm"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/inventory"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/rabbitmq"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"
)

// CompositionRoot wires adapters to use case handlers. All handlers created
// from one root share the same database handle, stock client, and audit
// publisher.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	inventory  ports.InventoryService
	audit      ports.AuditPublisher
	verifier   payment.SignatureVerifier
	closers    []func() error
}

// NewCompositionRoot builds the object graph from the configuration.
func NewCompositionRoot(configs Config, gormDB *gorm.DB) *CompositionRoot {
	verifier, err := payment.NewSignatureVerifier(configs.GatewayWebhookSecret)
	if err != nil {
		log.Fatalf("webhook secret is not configured: %v", err)
	}

	root := &CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		inventory:  inventory.NopStockClient{},
		audit:      rabbitmq.NopAuditPublisher{},
		verifier:   verifier,
	}

	if configs.StockServiceURL != "" {
		root.inventory = inventory.NewHTTPStockClient(configs.StockServiceURL)
	}

	if configs.AmqpURL != "" {
		publisher, pubErr := rabbitmq.NewAuditPublisher(configs.AmqpURL, configs.AuditExchange)
		if pubErr != nil {
			log.Fatalf("failed to connect audit publisher: %v", pubErr)
		}
		root.audit = publisher
		root.closers = append(root.closers, publisher.Close)
	}

	return root
}

// Close releases external connections held by the root.
func (c *CompositionRoot) Close() {
	for _, closer := range c.closers {
		if err := closer(); err != nil {
			log.Printf("failed to close resource: %v", err)
		}
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) assignmentUoWFactory() commands.AssignmentUoWFactory {
	return FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) webhookUoWFactory() commands.WebhookUoWFactory {
	return FuncWebhookUoWFactory(func() commands.WebhookUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.inventory, c.audit)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.assignmentUoWFactory(), c.inventory, c.audit)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.orderUoWFactory(), c.audit)
}

func (c *CompositionRoot) CreateAssignAgentCommandHandler() commands.AssignAgentCommandHandler {
	return commands.NewAssignAgentCommandHandler(c.assignmentUoWFactory(), c.audit)
}

func (c *CompositionRoot) CreateAutoAssignOrdersCommandHandler() commands.AutoAssignOrdersCommandHandler {
	return commands.NewAutoAssignOrdersCommandHandler(c.assignmentUoWFactory(), c.audit)
}

func (c *CompositionRoot) CreateRecordDeliveryAttemptCommandHandler() commands.RecordDeliveryAttemptCommandHandler {
	return commands.NewRecordDeliveryAttemptCommandHandler(c.assignmentUoWFactory(), c.audit)
}

func (c *CompositionRoot) CreateHandleFailedDeliveryCommandHandler() commands.HandleFailedDeliveryCommandHandler {
	return commands.NewHandleFailedDeliveryCommandHandler(c.orderUoWFactory(), c.audit)
}

func (c *CompositionRoot) CreateUploadDeliveryProofCommandHandler() commands.UploadDeliveryProofCommandHandler {
	return commands.NewUploadDeliveryProofCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateIngestPaymentWebhookCommandHandler() commands.IngestPaymentWebhookCommandHandler {
	return commands.NewIngestPaymentWebhookCommandHandler(c.webhookUoWFactory(), c.audit)
}

func (c *CompositionRoot) CreateExpirePaymentReservationsCommandHandler() commands.ExpirePaymentReservationsCommandHandler {
	return commands.NewExpirePaymentReservationsCommandHandler(c.orderUoWFactory(), c.inventory, c.audit)
}

func (c *CompositionRoot) CreateGetPendingAssignmentOrdersQueryHandler() queries.GetPendingAssignmentOrdersQueryHandler {
	return queries.NewGetPendingAssignmentOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableAgentsQueryHandler() queries.GetAvailableAgentsQueryHandler {
	return queries.NewGetAvailableAgentsQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the REST server from the use case handlers.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateTransitionOrderCommandHandler(),
		c.CreateAssignAgentCommandHandler(),
		c.CreateAutoAssignOrdersCommandHandler(),
		c.CreateRecordDeliveryAttemptCommandHandler(),
		c.CreateHandleFailedDeliveryCommandHandler(),
		c.CreateUploadDeliveryProofCommandHandler(),
		c.CreateIngestPaymentWebhookCommandHandler(),
		c.CreateGetPendingAssignmentOrdersQueryHandler(),
		c.CreateGetAvailableAgentsQueryHandler(),
		c.verifier,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncAssignmentUoWFactory func() commands.AssignmentUoW

func (f FuncAssignmentUoWFactory) Create() commands.AssignmentUoW {
	return f()
}

type FuncWebhookUoWFactory func() commands.WebhookUoW

func (f FuncWebhookUoWFactory) Create() commands.WebhookUoW {
	return f()
}
