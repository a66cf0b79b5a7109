package queries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/queries"
)

func TestNewGetPendingAssignmentOrdersQuery_Valid(t *testing.T) {
	query := queries.NewGetPendingAssignmentOrdersQuery()
	err := query.Validate()
	require.NoError(t, err)
}

func TestGetPendingAssignmentOrdersQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetPendingAssignmentOrdersQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetPendingAssignmentOrdersQueryIsNotConstructed)
}
