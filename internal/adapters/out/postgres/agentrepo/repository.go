package agentrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// GormAgentRepository implements AgentRepository using GORM.
type GormAgentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAgentRepository creates a new GORM agent repository.
func NewGormAgentRepository(db *gorm.DB, tracker aggregateTracker) *GormAgentRepository {
	return &GormAgentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new agent to the database with its zones and held orders.
func (r *GormAgentRepository) Add(ctx context.Context, aggregate *agent.Agent) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing agent using optimistic concurrency on the version
// column. A version mismatch returns errs.ErrVersionIsInvalid.
func (r *GormAgentRepository) Update(ctx context.Context, aggregate *agent.Agent) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	loadedVersion := dto.Version
	dto.Version = loadedVersion + 1

	result := r.db.WithContext(ctx).Model(&AgentDTO{}).
		Where("id = ? AND version = ?", dto.ID, loadedVersion).
		Select("*").Omit(clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&AgentDTO{}).
			Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("agent", aggregate.ID().String())
		}
		return errs.NewVersionIsInvalidErrorWithCause("agent")
	}

	if err := r.replaceChildren(ctx, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// replaceChildren rewrites the agent's zone and assignment sets. Both are
// small, so full replacement is cheaper than diffing.
func (r *GormAgentRepository) replaceChildren(ctx context.Context, dto AgentDTO) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("agent_id = ?", dto.ID).Delete(&ZoneDTO{}).Error; err != nil {
		return err
	}
	if err := db.Where("agent_id = ?", dto.ID).Delete(&AssignmentDTO{}).Error; err != nil {
		return err
	}

	if len(dto.Zones) > 0 {
		if err := db.Create(&dto.Zones).Error; err != nil {
			return err
		}
	}
	if len(dto.Assignments) > 0 {
		if err := db.Create(&dto.Assignments).Error; err != nil {
			return err
		}
	}

	return nil
}

// Get retrieves an agent by ID with its zones and held orders.
func (r *GormAgentRepository) Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AgentDTO
	if err := r.loadQuery(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("agent", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllActive retrieves every agent whose employment status is active.
// The assignment engine filters capacity and zones in memory.
func (r *GormAgentRepository) GetAllActive(ctx context.Context) ([]*agent.Agent, error) {
	var dtos []AgentDTO
	err := r.loadQuery(ctx).
		Where("employment_status = ?", agent.Active.String()).
		Order("name").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	agents := make([]*agent.Agent, 0, len(dtos))
	for _, dto := range dtos {
		a, domainErr := toDomain(dto)
		if domainErr != nil {
			return nil, domainErr
		}
		agents = append(agents, a)
	}

	return agents, nil
}

// loadQuery preloads the child rows.
func (r *GormAgentRepository) loadQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Zones", func(db *gorm.DB) *gorm.DB { return db.Order("zone") }).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}
