package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// OutcomeNoAgentAvailable marks an order the engine could not place: no
// active agent with free capacity serves its zone. The order stays queued
// for the next run.
const OutcomeNoAgentAvailable = "no_agent_available"

// OutcomeOrderNotFound marks a requested order id that does not exist.
const OutcomeOrderNotFound = "order_not_found"

// AutoAssignOrdersResult reports the outcome of one engine run, keyed by
// order id. The value is the assigned agent id, OutcomeNoAgentAvailable, or
// OutcomeOrderNotFound for an unknown id in an explicit request.
type AutoAssignOrdersResult struct {
	Outcomes map[string]string
}

// AutoAssignOrdersCommandHandler runs the automatic assignment engine.
//
// Each order is assigned in its own transaction, so one conflicted or failed
// order does not roll back the rest of the batch. Orders that cannot be
// placed are skipped and left queued; the run never fails because capacity
// ran out or because one requested id is unknown.
type AutoAssignOrdersCommandHandler struct {
	uowFactory AssignmentUoWFactory
	selector   services.AgentSelector
	audit      ports.AuditPublisher
}

// NewAutoAssignOrdersCommandHandler creates a handler for automatic assignment.
func NewAutoAssignOrdersCommandHandler(
	uowFactory AssignmentUoWFactory,
	audit ports.AuditPublisher,
) AutoAssignOrdersCommandHandler {
	return AutoAssignOrdersCommandHandler{
		uowFactory: uowFactory,
		selector:   services.NewAgentSelector(),
		audit:      audit,
	}
}

// candidate is one order the engine will try to place. A nil target marks a
// requested id that could not be loaded.
type candidate struct {
	id     string
	target *order.Order
}

// Handle assigns the requested orders, or up to cmd.Limit() waiting orders
// when the command carries no explicit list, to the best available agents.
// Explicit orders are processed in request order. The candidate agent list
// is loaded once per run; capacity consumed by earlier orders in the batch
// is visible to later ones because the same aggregates are reused between
// transactions.
func (h AutoAssignOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd AutoAssignOrdersCommand,
) (AutoAssignOrdersResult, error) {
	if err := cmd.Validate(); err != nil {
		return AutoAssignOrdersResult{}, err
	}

	result := AutoAssignOrdersResult{Outcomes: make(map[string]string)}

	// Load the batch outside any transaction.
	listUow := h.uowFactory.Create()
	if err := listUow.Begin(ctx); err != nil {
		return AutoAssignOrdersResult{}, err
	}
	batch, err := h.loadBatch(ctx, listUow, cmd)
	if err != nil {
		_ = listUow.Rollback(ctx)
		return AutoAssignOrdersResult{}, err
	}
	agents, err := listUow.AgentRepository().GetAllActive(ctx)
	if err != nil {
		_ = listUow.Rollback(ctx)
		return AutoAssignOrdersResult{}, err
	}
	if err = listUow.Commit(ctx); err != nil {
		return AutoAssignOrdersResult{}, err
	}

	for _, item := range batch {
		if item.target == nil {
			result.Outcomes[item.id] = OutcomeOrderNotFound
			continue
		}
		outcome, assignErr := h.assignOne(ctx, item.id, item.target, agents)
		if assignErr != nil {
			slog.Warn("auto assignment failed for order",
				"orderId", item.id, "error", assignErr)
			continue
		}
		result.Outcomes[item.id] = outcome
	}

	return result, nil
}

// loadBatch resolves the orders to place, preserving request order for an
// explicit id list.
func (h AutoAssignOrdersCommandHandler) loadBatch(
	ctx context.Context,
	uow AssignmentUoW,
	cmd AutoAssignOrdersCommand,
) ([]candidate, error) {
	if ids := cmd.OrderIDs(); len(ids) > 0 {
		batch := make([]candidate, 0, len(ids))
		for _, orderID := range ids {
			target, err := uow.OrderRepository().Get(ctx, orderID)
			if errors.Is(err, errs.ErrObjectNotFound) {
				batch = append(batch, candidate{id: orderID.String()})
				continue
			}
			if err != nil {
				return nil, err
			}
			batch = append(batch, candidate{id: orderID.String(), target: target})
		}
		return batch, nil
	}

	waiting, err := uow.OrderRepository().GetAllAwaitingAssignment(ctx, cmd.Limit())
	if err != nil {
		return nil, err
	}
	batch := make([]candidate, 0, len(waiting))
	for _, waitingOrder := range waiting {
		batch = append(batch, candidate{id: waitingOrder.ID().String(), target: waitingOrder})
	}
	return batch, nil
}

// assignOne places a single order in its own transaction.
func (h AutoAssignOrdersCommandHandler) assignOne(
	ctx context.Context,
	orderID string,
	waitingOrder *order.Order,
	agents []*agent.Agent,
) (string, error) {
	ranked, err := h.selector.RankAgents(agents, waitingOrder.Zone())
	if err != nil {
		return "", err
	}
	if len(ranked) == 0 {
		return OutcomeNoAgentAvailable, nil
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	assigned, err := h.selector.Dispatch(waitingOrder, ranked, true)
	if errors.Is(err, services.ErrAgentNotFound) {
		return OutcomeNoAgentAvailable, nil
	}
	if err != nil {
		return "", err
	}

	if err = uow.OrderRepository().Update(ctx, waitingOrder); err != nil {
		return "", err
	}
	if err = uow.AgentRepository().Update(ctx, assigned); err != nil {
		return "", err
	}
	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	if pubErr := h.audit.Publish(ctx, ports.AuditEvent{
		Kind:    "order.assigned",
		OrderID: orderID,
		AgentID: assigned.ID().String(),
		Detail: map[string]any{
			"actor":     "assignment-engine",
			"automated": true,
		},
		OccurredAt: time.Now().UTC(),
	}); pubErr != nil {
		slog.Warn("failed to publish audit event", "kind", "order.assigned", "error", pubErr)
	}

	return assigned.ID().String(), nil
}
