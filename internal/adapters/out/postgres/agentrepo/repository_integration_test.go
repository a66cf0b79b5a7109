package agentrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fulfillment/internal/adapters/out/postgres/agentrepo"
	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// AgentRepositoryIntegrationTestSuite provides integration tests for AgentRepository
// using PostgreSQL containers to verify database persistence behavior.
type AgentRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *agentrepo.GormAgentRepository
	tracker    *MockAggregateTracker
}

func (suite *AgentRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&agentrepo.AgentDTO{},
		&agentrepo.ZoneDTO{},
		&agentrepo.AssignmentDTO{},
	))
}

func (suite *AgentRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE agents, agent_zones, agent_assignments",
	).Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = agentrepo.NewGormAgentRepository(suite.db, suite.tracker)
}

func (suite *AgentRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *AgentRepositoryIntegrationTestSuite) createTestAgent(name string, zones []string, maxOrders int) *agent.Agent {
	testAgent, err := agent.NewAgent(kernel.NewUUID(), name, zones, maxOrders)
	suite.Require().NoError(err)
	return testAgent
}

func (suite *AgentRepositoryIntegrationTestSuite) TestAddAndGet_RoundTripsAggregate() {
	ctx := context.Background()
	testAgent := suite.createTestAgent("Dana Reyes", []string{"zone-1", "zone-2"}, 3)
	suite.Require().NoError(testAgent.TakeOrder(kernel.NewUUID()))

	suite.Require().NoError(suite.repository.Add(ctx, testAgent))

	restored, err := suite.repository.Get(ctx, testAgent.ID())
	suite.Require().NoError(err)
	suite.True(restored.ID().IsEqual(testAgent.ID()))
	suite.Equal("Dana Reyes", restored.Name())
	suite.Equal(agent.Active, restored.Employment())
	suite.Equal([]string{"zone-1", "zone-2"}, restored.Zones())
	suite.Equal(3, restored.MaxOrders())
	suite.Equal(1, restored.CurrentLoad())
}

func (suite *AgentRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *AgentRepositoryIntegrationTestSuite) TestUpdate_PersistsAssignmentsAndOutcomes() {
	ctx := context.Background()
	testAgent := suite.createTestAgent("Jordan Lee", []string{"zone-1"}, 2)
	suite.Require().NoError(suite.repository.Add(ctx, testAgent))

	loaded, err := suite.repository.Get(ctx, testAgent.ID())
	suite.Require().NoError(err)

	orderID := kernel.NewUUID()
	suite.Require().NoError(loaded.TakeOrder(orderID))
	suite.Require().NoError(loaded.ReleaseOrder(orderID))
	loaded.RecordDeliveryOutcome(true)

	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	restored, err := suite.repository.Get(ctx, loaded.ID())
	suite.Require().NoError(err)
	suite.Equal(0, restored.CurrentLoad())
	suite.Equal(1, restored.Performance().TotalDeliveries())
	suite.Equal(1, restored.Performance().SuccessfulDeliveries())
	suite.Equal(loaded.Version()+1, restored.Version())
}

func (suite *AgentRepositoryIntegrationTestSuite) TestUpdate_StaleVersionConflicts() {
	ctx := context.Background()
	testAgent := suite.createTestAgent("Sam Ortiz", []string{"zone-1"}, 2)
	suite.Require().NoError(suite.repository.Add(ctx, testAgent))

	first, err := suite.repository.Get(ctx, testAgent.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, testAgent.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.TakeOrder(kernel.NewUUID()))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.TakeOrder(kernel.NewUUID()))
	err = suite.repository.Update(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
}

func (suite *AgentRepositoryIntegrationTestSuite) TestGetAllActive_ExcludesInactiveAgents() {
	ctx := context.Background()
	active := suite.createTestAgent("Active Agent", []string{"zone-1"}, 2)
	suspended := suite.createTestAgent("Suspended Agent", []string{"zone-1"}, 2)
	suite.Require().NoError(suspended.SetEmployment(agent.Suspended))

	suite.Require().NoError(suite.repository.Add(ctx, active))
	suite.Require().NoError(suite.repository.Add(ctx, suspended))

	agents, err := suite.repository.GetAllActive(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(agents, 1)
	suite.Equal("Active Agent", agents[0].Name())
}

func TestAgentRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AgentRepositoryIntegrationTestSuite))
}
