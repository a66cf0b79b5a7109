// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational tables with indexes for the hot
// lookups: status sweeps, webhook routing by gateway order id, and agent
// assignment checks.
type OrderDTO struct {
	ID                  uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Zone                string             `gorm:"index"`
	Status              string             `gorm:"index"`
	Payment             PaymentDTO         `gorm:"embedded;embeddedPrefix:payment_"`
	Pricing             PricingDTO         `gorm:"embedded;embeddedPrefix:pricing_"`
	Delivery            DeliveryDTO        `gorm:"embedded;embeddedPrefix:delivery_"`
	Items               []ItemDTO          `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	Timeline            []TimelineEntryDTO `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	Attempts            []AttemptDTO       `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	ReservationReleased bool
	PlacedAt            time.Time `gorm:"index"`
	Version             int
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// PaymentDTO represents the embedded payment record within the order table.
type PaymentDTO struct {
	Method           string
	Status           string
	GatewayOrderID   string `gorm:"uniqueIndex"`
	GatewayPaymentID string
	PaidAmount       int64
	PaidAt           *time.Time
	RetryCount       int
	FailureReason    string
}

// PricingDTO represents the embedded monetary breakdown within the order table.
// Amounts are stored in minor currency units.
type PricingDTO struct {
	Subtotal int64
	Shipping int64
	Tax      int64
	Discount int64
	Total    int64
}

// DeliveryDTO represents the embedded delivery record within the order table.
type DeliveryDTO struct {
	AgentID         *uuid.UUID `gorm:"type:uuid;index"`
	Status          string
	EstimatedAt     *time.Time
	AutoReschedules int
	ProofType       string
	ProofData       string
	ProofLocation   string
	ProofVerifiedBy string
	ProofUploadedAt *time.Time
}

// ItemDTO represents one order line in its own table.
type ItemDTO struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	ProductID string
	Quantity  int
	UnitPrice int64
}

// TableName specifies the database table name for order lines.
func (ItemDTO) TableName() string {
	return "order_items"
}

// TimelineEntryDTO represents one timeline entry in its own table.
type TimelineEntryDTO struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	Status     string
	OccurredAt time.Time
	Actor      string
	Note       string
	Automated  bool
}

// TableName specifies the database table name for timeline entries.
func (TimelineEntryDTO) TableName() string {
	return "order_timeline_entries"
}

// AttemptDTO represents one delivery attempt in its own table.
type AttemptDTO struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	OrderID       uuid.UUID `gorm:"type:uuid;index"`
	Number        int
	Status        string
	Reason        string
	AgentID       uuid.UUID `gorm:"type:uuid"`
	NextAttemptAt *time.Time
	RecordedAt    time.Time
}

// TableName specifies the database table name for delivery attempts.
func (AttemptDTO) TableName() string {
	return "order_delivery_attempts"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	orderID := aggregate.ID().Bytes()
	payment := aggregate.Payment()
	pricing := aggregate.Pricing()
	delivery := aggregate.Delivery()

	dto := OrderDTO{
		ID:     orderID,
		Zone:   aggregate.Zone(),
		Status: aggregate.Status().String(),
		Payment: PaymentDTO{
			Method:           payment.Method(),
			Status:           payment.Status().String(),
			GatewayOrderID:   payment.GatewayOrderID(),
			GatewayPaymentID: payment.GatewayPaymentID(),
			PaidAmount:       payment.PaidAmount().Amount(),
			PaidAt:           payment.PaidAt(),
			RetryCount:       payment.RetryCount(),
			FailureReason:    payment.FailureReason(),
		},
		Pricing: PricingDTO{
			Subtotal: pricing.Subtotal().Amount(),
			Shipping: pricing.Shipping().Amount(),
			Tax:      pricing.Tax().Amount(),
			Discount: pricing.Discount().Amount(),
			Total:    pricing.Total().Amount(),
		},
		Delivery: DeliveryDTO{
			Status:          delivery.Status().String(),
			EstimatedAt:     delivery.EstimatedAt(),
			AutoReschedules: delivery.AutoReschedules(),
		},
		ReservationReleased: aggregate.ReservationReleased(),
		PlacedAt:            aggregate.PlacedAt(),
		Version:             aggregate.Version(),
	}

	if agentID := delivery.AgentID(); agentID != nil {
		raw := agentID.Bytes()
		dto.Delivery.AgentID = &raw
	}
	if proof := delivery.Proof(); proof != nil {
		uploadedAt := proof.UploadedAt()
		dto.Delivery.ProofType = proof.Type()
		dto.Delivery.ProofData = proof.Data()
		dto.Delivery.ProofLocation = proof.Location()
		dto.Delivery.ProofVerifiedBy = proof.VerifiedBy()
		dto.Delivery.ProofUploadedAt = &uploadedAt
	}

	for _, item := range aggregate.Items() {
		dto.Items = append(dto.Items, ItemDTO{
			OrderID:   orderID,
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Amount(),
		})
	}
	for _, entry := range aggregate.Timeline() {
		dto.Timeline = append(dto.Timeline, TimelineEntryDTO{
			OrderID:    orderID,
			Status:     entry.Status().String(),
			OccurredAt: entry.OccurredAt(),
			Actor:      entry.Actor(),
			Note:       entry.Note(),
			Automated:  entry.Automated(),
		})
	}
	for _, attempt := range delivery.Attempts() {
		dto.Attempts = append(dto.Attempts, AttemptDTO{
			OrderID:       orderID,
			Number:        attempt.Number(),
			Status:        attempt.Status().String(),
			Reason:        attempt.Reason(),
			AgentID:       attempt.AgentID().Bytes(),
			NextAttemptAt: attempt.NextAttemptAt(),
			RecordedAt:    attempt.RecordedAt(),
		})
	}

	return dto
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including sub-records and the attempt
// history using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	payment, err := paymentToDomain(dto.Payment)
	if err != nil {
		return nil, err
	}

	pricing, err := pricingToDomain(dto.Pricing)
	if err != nil {
		return nil, err
	}

	delivery, err := deliveryToDomain(dto.Delivery, dto.Attempts)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		price, moneyErr := kernel.NewMoney(itemDTO.UnitPrice)
		if moneyErr != nil {
			return nil, moneyErr
		}
		item, itemErr := order.NewItem(itemDTO.ProductID, itemDTO.Quantity, price)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	timeline := make([]order.TimelineEntry, 0, len(dto.Timeline))
	for _, entryDTO := range dto.Timeline {
		entryStatus, statusErr := order.StatusFromString(entryDTO.Status)
		if statusErr != nil {
			return nil, statusErr
		}
		timeline = append(timeline, order.RestoreTimelineEntry(
			entryStatus, entryDTO.OccurredAt, entryDTO.Actor, entryDTO.Note, entryDTO.Automated,
		))
	}

	return order.RestoreOrder(
		id, dto.Zone, items, pricing, payment, delivery,
		status, timeline, dto.ReservationReleased, dto.PlacedAt, dto.Version,
	)
}

func paymentToDomain(dto PaymentDTO) (order.Payment, error) {
	status, err := order.PaymentStatusFromString(dto.Status)
	if err != nil {
		return order.Payment{}, err
	}

	paidAmount, err := kernel.NewMoney(dto.PaidAmount)
	if err != nil {
		return order.Payment{}, err
	}

	return order.RestorePayment(
		dto.Method, status, dto.GatewayOrderID, dto.GatewayPaymentID,
		paidAmount, dto.PaidAt, dto.RetryCount, dto.FailureReason,
	)
}

func pricingToDomain(dto PricingDTO) (order.Pricing, error) {
	subtotal, err := kernel.NewMoney(dto.Subtotal)
	if err != nil {
		return order.Pricing{}, err
	}
	shipping, err := kernel.NewMoney(dto.Shipping)
	if err != nil {
		return order.Pricing{}, err
	}
	tax, err := kernel.NewMoney(dto.Tax)
	if err != nil {
		return order.Pricing{}, err
	}
	discount, err := kernel.NewMoney(dto.Discount)
	if err != nil {
		return order.Pricing{}, err
	}
	total, err := kernel.NewMoney(dto.Total)
	if err != nil {
		return order.Pricing{}, err
	}

	return order.RestorePricing(subtotal, shipping, tax, discount, total)
}

func deliveryToDomain(dto DeliveryDTO, attemptDTOs []AttemptDTO) (order.Delivery, error) {
	status, err := order.DeliveryStatusFromString(dto.Status)
	if err != nil {
		return order.Delivery{}, err
	}

	var agentID *kernel.UUID
	if dto.AgentID != nil {
		id, idErr := kernel.UUIDFromBytes((*dto.AgentID)[:])
		if idErr != nil {
			return order.Delivery{}, idErr
		}
		agentID = &id
	}

	var proof *order.Proof
	if dto.ProofType != "" && dto.ProofUploadedAt != nil {
		restored := order.RestoreProof(
			dto.ProofType, dto.ProofData, dto.ProofLocation, dto.ProofVerifiedBy, *dto.ProofUploadedAt,
		)
		proof = &restored
	}

	attempts := make([]order.Attempt, 0, len(attemptDTOs))
	for _, attemptDTO := range attemptDTOs {
		attemptStatus, statusErr := order.AttemptStatusFromString(attemptDTO.Status)
		if statusErr != nil {
			return order.Delivery{}, statusErr
		}
		attemptAgentID, idErr := kernel.UUIDFromBytes(attemptDTO.AgentID[:])
		if idErr != nil {
			return order.Delivery{}, idErr
		}
		attempt, attemptErr := order.RestoreAttempt(
			attemptDTO.Number, attemptStatus, attemptDTO.Reason,
			attemptAgentID, attemptDTO.NextAttemptAt, attemptDTO.RecordedAt,
		)
		if attemptErr != nil {
			return order.Delivery{}, attemptErr
		}
		attempts = append(attempts, attempt)
	}

	return order.RestoreDelivery(agentID, status, dto.EstimatedAt, attempts, proof, dto.AutoReschedules)
}
