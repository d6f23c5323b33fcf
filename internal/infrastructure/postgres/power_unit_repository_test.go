package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijack-technologies/postgresql-scheduler/internal/domain/repository"
)

func ptr(v int64) *int64 { return &v }

func TestBuildMatchQuery_WildcardUsesOnlyBasePredicate(t *testing.T) {
	query, args := buildMatchQuery(repository.UnitFilter{}, []int64{1, 2, 3, 21}, nil)

	// Base eligibility columns all constrained.
	assert.Contains(t, query, "t1.power_unit_id IS NOT NULL")
	assert.Contains(t, query, "t3.id IS NOT NULL")
	assert.Contains(t, query, "t1.unit_type_id IS NOT NULL")
	assert.Contains(t, query, "t1.model_type_id IS NOT NULL")
	assert.Contains(t, query, "t1.structure_install_date IS NOT NULL")
	assert.Contains(t, query, "t1.surface IS NOT NULL")
	assert.Contains(t, query, "NOT (t4.customer_id = ANY($1))")

	// No equality constraints on the wildcard path.
	assert.NotContains(t, query, "t1.unit_type_id = $")
	assert.NotContains(t, query, "t1.model_type_id = $")
	assert.NotContains(t, query, "t4.customer_id = $")

	require.Len(t, args, 1)
	assert.Equal(t, []int64{1, 2, 3, 21}, args[0])
}

func TestBuildMatchQuery_FilteredAddsEqualityPerSetField(t *testing.T) {
	filter := repository.UnitFilter{
		UnitTypeID: ptr(4),
		CustomerID: ptr(55),
		// ModelTypeID unset: must stay unconstrained
	}
	query, args := buildMatchQuery(filter, []int64{1, 2}, nil)

	assert.Contains(t, query, "t1.unit_type_id = $2")
	assert.Contains(t, query, "t4.customer_id = $3")
	assert.NotContains(t, query, "t1.model_type_id = $")

	require.Len(t, args, 3)
	assert.Equal(t, int64(4), args[1])
	assert.Equal(t, int64(55), args[2])
}

func TestBuildMatchQuery_FilteredIsNarrowingOfWildcard(t *testing.T) {
	wildcard, _ := buildMatchQuery(repository.UnitFilter{}, []int64{1}, nil)
	filtered, _ := buildMatchQuery(repository.UnitFilter{ModelTypeID: ptr(9)}, []int64{1}, nil)

	// Every base condition of the wildcard query survives in the filtered one.
	for _, cond := range []string{
		"t1.power_unit_id IS NOT NULL",
		"t1.id IS NOT NULL",
		"t3.id IS NOT NULL",
		"t1.structure_install_date IS NOT NULL",
		"t1.surface IS NOT NULL",
		"t4.customer_id IS NOT NULL",
		"NOT (t4.customer_id = ANY($1))",
	} {
		assert.Contains(t, wildcard, cond)
		assert.Contains(t, filtered, cond)
	}
	assert.Contains(t, filtered, "t1.model_type_id = $2")
}

func TestBuildMatchQuery_ExcludeExistingAlertsSubquery(t *testing.T) {
	query, args := buildMatchQuery(repository.UnitFilter{}, nil, ptr(77))

	assert.Contains(t, query, "NOT IN (SELECT power_unit_id FROM public.alerts WHERE user_id = $1)")
	require.Len(t, args, 1)
	assert.Equal(t, int64(77), args[0])
}

func TestBuildMatchQuery_NoExcludedCustomersOmitsCondition(t *testing.T) {
	query, args := buildMatchQuery(repository.UnitFilter{}, nil, nil)
	assert.NotContains(t, query, "ANY(")
	assert.Empty(t, args)
}
