// Package http exposes the fulfillment use cases over a REST API.
//
// Request bodies are validated structurally before a command is constructed;
// domain rules are enforced by the command handlers and mapped back to HTTP
// status codes in one place. The payment webhook endpoint authenticates the
// gateway signature against the raw body before anything else happens.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/pkg/errs"
)

// signatureHeader carries the gateway's HMAC over order and payment ids.
const signatureHeader = "X-Gateway-Signature"

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler        commands.CreateOrderCommandHandler
	cancelOrderHandler        commands.CancelOrderCommandHandler
	transitionOrderHandler    commands.TransitionOrderCommandHandler
	assignAgentHandler        commands.AssignAgentCommandHandler
	autoAssignHandler         commands.AutoAssignOrdersCommandHandler
	recordAttemptHandler      commands.RecordDeliveryAttemptCommandHandler
	failedDeliveryHandler     commands.HandleFailedDeliveryCommandHandler
	uploadProofHandler        commands.UploadDeliveryProofCommandHandler
	ingestWebhookHandler      commands.IngestPaymentWebhookCommandHandler
	getPendingOrdersHandler   queries.GetPendingAssignmentOrdersQueryHandler
	getAvailableAgentsHandler queries.GetAvailableAgentsQueryHandler
	verifier                  payment.SignatureVerifier
	validate                  *validator.Validate
}

// NewServer creates an HTTP server wired to the given use case handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	assignAgentHandler commands.AssignAgentCommandHandler,
	autoAssignHandler commands.AutoAssignOrdersCommandHandler,
	recordAttemptHandler commands.RecordDeliveryAttemptCommandHandler,
	failedDeliveryHandler commands.HandleFailedDeliveryCommandHandler,
	uploadProofHandler commands.UploadDeliveryProofCommandHandler,
	ingestWebhookHandler commands.IngestPaymentWebhookCommandHandler,
	getPendingOrdersHandler queries.GetPendingAssignmentOrdersQueryHandler,
	getAvailableAgentsHandler queries.GetAvailableAgentsQueryHandler,
	verifier payment.SignatureVerifier,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		cancelOrderHandler:        cancelOrderHandler,
		transitionOrderHandler:    transitionOrderHandler,
		assignAgentHandler:        assignAgentHandler,
		autoAssignHandler:         autoAssignHandler,
		recordAttemptHandler:      recordAttemptHandler,
		failedDeliveryHandler:     failedDeliveryHandler,
		uploadProofHandler:        uploadProofHandler,
		ingestWebhookHandler:      ingestWebhookHandler,
		getPendingOrdersHandler:   getPendingOrdersHandler,
		getAvailableAgentsHandler: getAvailableAgentsHandler,
		verifier:                  verifier,
		validate:                  validator.New(),
	}
}

// RegisterRoutes attaches all endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	v1 := e.Group("/api/v1")
	v1.POST("/orders", s.CreateOrder)
	v1.POST("/orders/:id/cancel", s.CancelOrder)
	v1.POST("/orders/:id/transition", s.TransitionOrder)
	v1.GET("/orders/pending-assignment", s.GetPendingAssignmentOrders)
	v1.POST("/deliveries/assign", s.AssignAgent)
	v1.POST("/deliveries/auto-assign", s.AutoAssign)
	v1.POST("/deliveries/attempts", s.RecordAttempt)
	v1.POST("/deliveries/failures", s.HandleFailedDelivery)
	v1.POST("/deliveries/proof", s.UploadProof)
	v1.GET("/agents/available", s.GetAvailableAgents)
	v1.POST("/payments/webhook", s.IngestPaymentWebhook)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders - places a new order and reserves
// its stock.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := s.bind(ctx, &req); err != nil {
		return badRequest(ctx, err)
	}

	items := make([]commands.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = commands.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, req.Zone, items,
		req.PaymentMethod, req.GatewayOrderID,
		req.ShippingFee, req.Tax, req.Discount,
		req.Actor,
	)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.mapError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{OrderID: orderID.String()})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, err)
	}

	var req CancelOrderRequest
	if err = s.bind(ctx, &req); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, req.Reason, req.Actor)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// TransitionOrder handles POST /api/v1/orders/:id/transition - moves an order
// along its lifecycle.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, err)
	}

	var req TransitionOrderRequest
	if err = s.bind(ctx, &req); err != nil {
		return badRequest(ctx, err)
	}

	target, err := order.StatusFromString(req.Target)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target, req.Actor, req.Note)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// AssignAgent handles POST /api/v1/deliveries/assign - dispatches an order to
// a named agent.
func (s *Server) AssignAgent(ctx echo.Context) error {
	var req AssignAgentRequest
	if err := s.bind(ctx, &req); err != nil {
		return badRequest(ctx, err)
	}

	orderID, agentID, err := parseIDPair(req.OrderID, req.AgentID)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewAssignAgentCommand(orderID, agentID, req.EstimatedAt, req.Actor)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.assignAgentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// AutoAssign handles POST /api/v1/deliveries/auto-assign - runs the automatic
// assignment engine over the listed orders, in request order.
func (s *Server) AutoAssign(ctx echo.Context) error {
	var req AutoAssignRequest
	if err := s.bind(ctx, &req); err != nil {
		return badRequest(ctx, err)
	}

	orderIDs := make([]kernel.UUID, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		orderID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return badRequest(ctx, err)
		}
		orderIDs = append(orderIDs, orderID)
	}

	cmd, err := commands.NewAutoAssignOrdersCommand(orderIDs)
	if err != nil {
		return badRequest(ctx, err)
	}

	result, err := s.autoAssignHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, AutoAssignResponse{Outcomes: result.Outcomes})
}

// RecordAttempt handles POST /api/v1/deliveries/attempts - records one
// delivery attempt outcome for the assigned agent.
func (s *Server) RecordAttempt(ctx echo.Context) error {
	var req RecordAttemptRequest
	if err := s.bind(ctx, &req); err != nil {
		return badRequest(ctx, err)
	}

	orderID, agentID, err := parseIDPair(req.OrderID, req.AgentID)
	if err != nil {
		return badRequest(ctx, err)
	}

	status, err := order.AttemptStatusFromString(req.Status)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewRecordDeliveryAttemptCommand(orderID, agentID, status, req.Reason, req.NextAttemptAt)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.recordAttemptHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// HandleFailedDelivery handles POST /api/v1/deliveries/failures - records a
// failed attempt and lets the reschedule policy pick retry or manual
// resolution.
func (s *Server) HandleFailedDelivery(ctx echo.Context) error {
	var req FailedDeliveryRequest
	if err := s.bind(ctx, &req); err != nil {
		return badRequest(ctx, err)
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewHandleFailedDeliveryCommand(orderID, req.Reason, req.AutoReschedule)
	if err != nil {
		return badRequest(ctx, err)
	}

	result, err := s.failedDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.mapError(ctx, err)
	}

	response := FailedDeliveryResponse{
		Rescheduled:      result.Rescheduled,
		ManualResolution: result.ManualResolution,
	}
	if result.Rescheduled {
		next := result.NextAttemptAt
		response.NextAttemptAt = &next
	}

	return ctx.JSON(http.StatusOK, response)
}

// UploadProof handles POST /api/v1/deliveries/proof.
func (s *Server) UploadProof(ctx echo.Context) error {
	var req UploadProofRequest
	if err := s.bind(ctx, &req); err != nil {
		return badRequest(ctx, err)
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewUploadDeliveryProofCommand(orderID, req.ProofType, req.Data, req.Location, req.VerifiedBy)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.uploadProofHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// IngestPaymentWebhook handles POST /api/v1/payments/webhook.
//
// The raw body is read once and the gateway signature verified before the
// payload is parsed into a command; deliveries with a bad or missing
// signature are rejected with 401 and never reach the application layer.
// Redelivered event ids are acknowledged with 200 and a duplicate flag so the
// gateway stops retrying.
func (s *Server) IngestPaymentWebhook(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return badRequest(ctx, err)
	}

	// Unmarshal only extracts the gateway ids the signature covers. Nothing
	// in the payload is trusted, or even validated, until Verify passes.
	var req PaymentWebhookRequest
	if err = json.Unmarshal(body, &req); err != nil {
		return badRequest(ctx, err)
	}

	signature := ctx.Request().Header.Get(signatureHeader)
	if err = s.verifier.Verify(req.GatewayOrderID, req.GatewayPaymentID, signature); err != nil {
		slog.Warn("rejected webhook with invalid signature",
			"security_event", true,
			"eventId", req.EventID,
			"gatewayOrderId", req.GatewayOrderID,
		)
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    http.StatusUnauthorized,
			Message: "invalid webhook signature",
		})
	}

	if err = s.validate.Struct(&req); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewIngestPaymentWebhookCommand(
		req.EventID, req.EventType,
		req.GatewayOrderID, req.GatewayPaymentID,
		req.Amount, req.FailureReason,
		string(body),
	)
	if err != nil {
		return badRequest(ctx, err)
	}

	result, err := s.ingestWebhookHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, WebhookResponse{
		Applied:   result.Applied,
		Duplicate: result.Duplicate,
	})
}

// GetPendingAssignmentOrders handles GET /api/v1/orders/pending-assignment.
func (s *Server) GetPendingAssignmentOrders(ctx echo.Context) error {
	query := queries.NewGetPendingAssignmentOrdersQuery()

	orders, err := s.getPendingOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.mapError(ctx, err)
	}

	response := make([]PendingOrderResponse, len(orders))
	for i, o := range orders {
		response[i] = PendingOrderResponse{
			ID:       o.ID.String(),
			Zone:     o.Zone,
			Total:    o.Total,
			PlacedAt: o.PlacedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetAvailableAgents handles GET /api/v1/agents/available - lists active
// agents with spare capacity, optionally filtered by zone.
func (s *Server) GetAvailableAgents(ctx echo.Context) error {
	query := queries.NewGetAvailableAgentsQuery(ctx.QueryParam("zone"))

	agents, err := s.getAvailableAgentsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.mapError(ctx, err)
	}

	response := make([]AvailableAgentResponse, len(agents))
	for i, a := range agents {
		response[i] = AvailableAgentResponse{
			ID:          a.ID.String(),
			Name:        a.Name,
			Rating:      a.Rating,
			CurrentLoad: a.CurrentLoad,
			MaxOrders:   a.MaxOrders,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// bind decodes the JSON body and validates the request structure.
func (s *Server) bind(ctx echo.Context, req any) error {
	if err := ctx.Bind(req); err != nil {
		return err
	}
	return s.validate.Struct(req)
}

// mapError translates use case and domain errors to HTTP status codes.
// Conflicts (illegal transitions, exhausted capacity, stale versions) map to
// 409 so callers can re-read and retry; validation failures map to 400.
func (s *Server) mapError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, commands.ErrOrderNotFound),
		errors.Is(err, commands.ErrAgentNotFound),
		errors.Is(err, commands.ErrWebhookOrderNotFound):
		return respondError(ctx, http.StatusNotFound, err)

	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrInvalidState),
		errors.Is(err, order.ErrRescheduleLimitReached),
		errors.Is(err, agent.ErrCapacityExceeded),
		errors.Is(err, agent.ErrAgentNotActive),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return respondError(ctx, http.StatusConflict, err)

	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return respondError(ctx, http.StatusBadRequest, err)

	default:
		slog.Error("request failed", "path", ctx.Path(), "error", err)
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "internal error",
		})
	}
}

func badRequest(ctx echo.Context, err error) error {
	return respondError(ctx, http.StatusBadRequest, err)
}

func respondError(ctx echo.Context, code int, err error) error {
	return ctx.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}

func parseIDPair(rawOrderID, rawAgentID string) (kernel.UUID, kernel.UUID, error) {
	orderID, err := kernel.UUIDFromString(rawOrderID)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	agentID, err := kernel.UUIDFromString(rawAgentID)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return orderID, agentID, nil
}
