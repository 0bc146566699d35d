package depot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestQueryFiltering tests the basic query filtering capabilities
func TestQueryFiltering(t *testing.T) {
	health := FactoryNewComponent[Health]()
	speed := FactoryNewComponent[Speed]()
	size := FactoryNewComponent[Size]()

	type entitySetup struct {
		values []any
		count  int
	}

	tests := []struct {
		name            string
		entitySetups    []entitySetup
		build           func(q *Query) *Query
		expectedMatches int
	}{
		{
			name: "With matches supersets",
			entitySetups: []entitySetup{
				{[]any{Health{1}, Speed{1}}, 5},
				{[]any{Health{1}}, 10},
				{[]any{Speed{1}}, 15},
				{[]any{Health{1}, Speed{1}, Size{1}}, 2},
			},
			build:           func(q *Query) *Query { return q.With(health, speed) },
			expectedMatches: 7,
		},
		{
			name: "Any matches either",
			entitySetups: []entitySetup{
				{[]any{Health{1}, Speed{1}}, 5},
				{[]any{Health{1}}, 10},
				{[]any{Speed{1}}, 15},
				{[]any{Size{1}}, 3},
			},
			build:           func(q *Query) *Query { return q.Any(health, speed) },
			expectedMatches: 30,
		},
		{
			name: "Without excludes",
			entitySetups: []entitySetup{
				{[]any{Health{1}, Speed{1}}, 5},
				{[]any{Health{1}}, 10},
				{[]any{Speed{1}}, 15},
				{[]any{Size{1}}, 20},
			},
			build:           func(q *Query) *Query { return q.Without(speed) },
			expectedMatches: 30,
		},
		{
			name: "Combined filters",
			entitySetups: []entitySetup{
				{[]any{Health{1}, Speed{1}, Size{1}}, 5},
				{[]any{Health{1}, Speed{1}}, 10},
				{[]any{Health{1}, Size{1}}, 15},
				{[]any{Health{1}}, 20},
			},
			build: func(q *Query) *Query {
				return q.With(health).Any(speed, size).Without(size)
			},
			expectedMatches: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sto := newTestStorage(t, health, speed, size)
			for _, setup := range tt.entitySetups {
				for i := 0; i < setup.count; i++ {
					require.NoError(t, sto.Create().With(setup.values...).Err())
				}
			}

			result, err := tt.build(Factory.NewQuery(sto)).Run()
			require.NoError(t, err)
			assert.Equal(t, tt.expectedMatches, result.Len())
			assert.IsIncreasing(t, result.Indices)
		})
	}
}

func TestQueryRunAlignsColumns(t *testing.T) {
	health := FactoryNewComponent[Health]()
	speed := FactoryNewComponent[Speed]()
	sto := newTestStorage(t, health, speed)

	require.NoError(t, sto.Create().With(Health{10}, Speed{20.5}).Err())
	require.NoError(t, sto.Create().With(Health{5}).Err())
	require.NoError(t, sto.Create().With(Speed{10.5}).Err())
	require.NoError(t, sto.Create().With(Speed{30.5}, Health{15}).Err())

	q := Factory.NewQuery(sto).With(speed, health)
	assert.Equal(t, []Component{speed, health}, q.Kinds())

	result, err := q.Run()
	require.NoError(t, err)
	require.Equal(t, []int{0, 3}, result.Indices)
	require.Len(t, result.Columns, 2)

	wantSpeeds := []float32{20.5, 30.5}
	wantHealth := []uint32{10, 15}
	for i, slot := range result.Indices {
		require.Len(t, result.Columns[0], len(result.Indices))
		require.Len(t, result.Columns[1], len(result.Indices))

		sp, err := speed.Read(result.Columns[0][i])
		require.NoError(t, err)
		assert.Equal(t, wantSpeeds[i], sp.Value)

		hp, err := health.Read(result.Columns[1][i])
		require.NoError(t, err)
		assert.Equal(t, wantHealth[i], hp.Value)

		// Every column entry belongs to the slot at the same position
		cell, err := sto.Cell(health, slot)
		require.NoError(t, err)
		assert.Same(t, cell, result.Columns[1][i])
	}
}

func TestQueryMatchesBothKinds(t *testing.T) {
	health := FactoryNewComponent[Health]()
	speed := FactoryNewComponent[Speed]()
	sto := newTestStorage(t, health, speed)

	require.NoError(t, sto.Create().With(Health{100}).Err())
	require.NoError(t, sto.Create().With(Speed{25.0}).Err())
	require.NoError(t, sto.Create().With(Health{5}, Speed{1.0}).Err())

	result, err := Factory.NewQuery(sto).With(health, speed).Run()
	require.NoError(t, err)
	assert.Equal(t, []int{2}, result.Indices)

	hp, err := health.Read(result.Columns[0][0])
	require.NoError(t, err)
	assert.Equal(t, uint32(5), hp.Value)
	sp, err := speed.Read(result.Columns[1][0])
	require.NoError(t, err)
	assert.Equal(t, float32(1.0), sp.Value)
}

func TestQueryAfterDeleteAndReuse(t *testing.T) {
	health := FactoryNewComponent[Health]()
	sto := newTestStorage(t, health)

	require.NoError(t, sto.Create().With(Health{100}).Err())
	require.NoError(t, sto.Create().With(Health{150}).Err())
	require.NoError(t, sto.Delete(0))

	result, err := Factory.NewQuery(sto).With(health).Run()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, result.Indices)

	require.NoError(t, sto.Create().With(Health{25}).Err())
	assert.Equal(t, 2, sto.Len())

	result, err = Factory.NewQuery(sto).With(health).Run()
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, result.Indices)
	hp, err := health.Read(result.Columns[0][0])
	require.NoError(t, err)
	assert.Equal(t, uint32(25), hp.Value)
}

func TestQueryAfterDetach(t *testing.T) {
	location := FactoryNewComponent[Location]()
	size := FactoryNewComponent[Size]()
	sto := newTestStorage(t, location, size)

	require.NoError(t, sto.Create().With(Location{10, 11}, Size{10}).Err())
	require.NoError(t, sto.Create().With(Location{20, 21}, Size{20}).Err())
	require.NoError(t, sto.DetachByID(location, 0))

	result, err := Factory.NewQuery(sto).With(location, size).Run()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, result.Indices)
}

func TestQueryUnregisteredKind(t *testing.T) {
	health := FactoryNewComponent[Health]()
	sto := newTestStorage(t, health)

	q := Factory.NewQuery(sto).With(FactoryNewComponent[Size]()).With(health)

	var target KindNotRegisteredError
	require.ErrorAs(t, q.Err(), &target)
	assert.Empty(t, q.Kinds())
	_, err := q.Run()
	assert.ErrorAs(t, err, &target)
}

func TestQueryEmptyStorage(t *testing.T) {
	health := FactoryNewComponent[Health]()
	sto := newTestStorage(t, health)

	result, err := Factory.NewQuery(sto).With(health).Run()
	require.NoError(t, err)
	assert.Zero(t, result.Len())
	require.Len(t, result.Columns, 1)
	assert.Empty(t, result.Columns[0])
}

func TestQueryPanicsOnMissingValue(t *testing.T) {
	health := FactoryNewComponent[Health]()
	sto := newTestStorage(t, health)
	require.NoError(t, sto.Create().With(Health{1}).Err())

	sto.columns[0][0] = nil
	assert.Panics(t, func() {
		Factory.NewQuery(sto).With(health).Run()
	})
}

type foreignStorage struct {
	Storage
}

func TestQueryForeignStorage(t *testing.T) {
	q := Factory.NewQuery(foreignStorage{}).With(FactoryNewComponent[Health]())

	var target UnsupportedStorageError
	require.ErrorAs(t, q.Err(), &target)
	_, err := q.Run()
	assert.ErrorAs(t, err, &target)

	cursor := Factory.NewCursor(q)
	assert.Zero(t, cursor.TotalMatched())
	assert.False(t, cursor.Next())
	assert.ErrorAs(t, cursor.Err(), &target)
}
