// Package agentrepo provides data transfer objects and mapping functions for
// delivery agent persistence. This package implements the repository pattern
// for the agent domain aggregate, handling the conversion between domain
// entities and database representations.
package agentrepo

import (
	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
)

// AgentDTO represents the database structure for persisting agent aggregates.
// Zones and held orders live in their own tables because both are sets of
// variable size.
type AgentDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string
	EmploymentStatus string          `gorm:"index"`
	MaxOrders        int             `gorm:"column:max_orders"`
	Performance      PerformanceDTO  `gorm:"embedded;embeddedPrefix:performance_"`
	Zones            []ZoneDTO       `gorm:"foreignKey:AgentID;references:ID;constraint:OnDelete:CASCADE"`
	Assignments      []AssignmentDTO `gorm:"foreignKey:AgentID;references:ID;constraint:OnDelete:CASCADE"`
	Version          int
}

// TableName specifies the database table name for agent entities.
func (AgentDTO) TableName() string {
	return "agents"
}

// PerformanceDTO represents the embedded performance record within the agent table.
type PerformanceDTO struct {
	TotalDeliveries      int
	SuccessfulDeliveries int
	FailedDeliveries     int
	CustomerRating       float64
}

// ZoneDTO represents one zone an agent serves.
type ZoneDTO struct {
	ID      uint      `gorm:"primaryKey;autoIncrement"`
	AgentID uuid.UUID `gorm:"type:uuid;index"`
	Zone    string
}

// TableName specifies the database table name for agent zones.
func (ZoneDTO) TableName() string {
	return "agent_zones"
}

// AssignmentDTO represents one order currently held by an agent.
type AssignmentDTO struct {
	ID      uint      `gorm:"primaryKey;autoIncrement"`
	AgentID uuid.UUID `gorm:"type:uuid;index"`
	OrderID uuid.UUID `gorm:"type:uuid;index"`
}

// TableName specifies the database table name for agent assignments.
func (AssignmentDTO) TableName() string {
	return "agent_assignments"
}

// fromDomain converts an agent domain aggregate to its database representation.
func fromDomain(aggregate *agent.Agent) AgentDTO {
	agentID := aggregate.ID().Bytes()
	performance := aggregate.Performance()

	dto := AgentDTO{
		ID:               agentID,
		Name:             aggregate.Name(),
		EmploymentStatus: aggregate.Employment().String(),
		MaxOrders:        aggregate.MaxOrders(),
		Performance: PerformanceDTO{
			TotalDeliveries:      performance.TotalDeliveries(),
			SuccessfulDeliveries: performance.SuccessfulDeliveries(),
			FailedDeliveries:     performance.FailedDeliveries(),
			CustomerRating:       performance.CustomerRating(),
		},
		Version: aggregate.Version(),
	}

	for _, zone := range aggregate.Zones() {
		dto.Zones = append(dto.Zones, ZoneDTO{AgentID: agentID, Zone: zone})
	}
	for _, orderID := range aggregate.CurrentOrders() {
		dto.Assignments = append(dto.Assignments, AssignmentDTO{
			AgentID: agentID,
			OrderID: orderID.Bytes(),
		})
	}

	return dto
}

// toDomain converts a database DTO to an agent domain aggregate using RestoreAgent.
func toDomain(dto AgentDTO) (*agent.Agent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	employment, err := agent.EmploymentStatusFromString(dto.EmploymentStatus)
	if err != nil {
		return nil, err
	}

	performance, err := agent.RestorePerformance(
		dto.Performance.TotalDeliveries,
		dto.Performance.SuccessfulDeliveries,
		dto.Performance.FailedDeliveries,
		dto.Performance.CustomerRating,
	)
	if err != nil {
		return nil, err
	}

	zones := make([]string, 0, len(dto.Zones))
	for _, zoneDTO := range dto.Zones {
		zones = append(zones, zoneDTO.Zone)
	}

	currentOrders := make([]kernel.UUID, 0, len(dto.Assignments))
	for _, assignmentDTO := range dto.Assignments {
		orderID, idErr := kernel.UUIDFromBytes(assignmentDTO.OrderID[:])
		if idErr != nil {
			return nil, idErr
		}
		currentOrders = append(currentOrders, orderID)
	}

	return agent.RestoreAgent(id, dto.Name, employment, zones, dto.MaxOrders, currentOrders, performance, dto.Version)
}
