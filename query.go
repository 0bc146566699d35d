package depot

import (
	"iter"

	"github.com/TheBitDrifter/mask"
	iter_util "github.com/TheBitDrifter/util/iter"
)

var _ QueryNode = &Query{}

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

// Query filters slots by their presence masks. Kinds added with With are
// required and produce result columns, in the order they were added.
type Query struct {
	sto     *storage
	filters [3]mask.Mask // indexed by Operation
	kinds   []Component
	err     error
}

// QueryResult holds the matching slots in ascending order and, per requested
// kind, the cells at those slots. Columns[k][i] belongs to slot Indices[i].
type QueryResult struct {
	Indices []int
	Columns [][]*Cell
}

func newQuery(sto Storage) *Query {
	concrete, ok := sto.(*storage)
	if !ok || concrete == nil {
		return &Query{err: UnsupportedStorageError{Storage: sto}}
	}
	return &Query{sto: concrete}
}

// With requires every given kind. An unregistered kind is recorded and
// reported by Err and Run.
func (q *Query) With(components ...Component) *Query {
	if q.add(OpAnd, components) {
		q.kinds = append(q.kinds, components...)
	}
	return q
}

// Without rejects slots holding any of the given kinds.
func (q *Query) Without(components ...Component) *Query {
	q.add(OpNot, components)
	return q
}

// Any requires at least one of the given kinds.
func (q *Query) Any(components ...Component) *Query {
	q.add(OpOr, components)
	return q
}

func (q *Query) add(op Operation, components []Component) bool {
	if q.err != nil {
		return false
	}
	bits := make([]uint32, len(components))
	for i, c := range components {
		bit, ok := q.sto.bitFor(typeOf(c))
		if !ok {
			q.err = KindNotRegisteredError{Type: typeOf(c)}
			return false
		}
		bits[i] = bit
	}
	for _, bit := range bits {
		q.filters[op].Mark(bit)
	}
	return true
}

func (q *Query) Err() error {
	return q.err
}

func (q *Query) Kinds() []Component {
	return q.kinds
}

// Evaluate reports whether a slot with slotMask matches. Extra kinds on the
// slot never prevent a match.
func (q *Query) Evaluate(slotMask mask.Mask) bool {
	if !slotMask.ContainsAll(q.filters[OpAnd]) {
		return false
	}
	if !q.filters[OpNot].IsEmpty() && !slotMask.ContainsNone(q.filters[OpNot]) {
		return false
	}
	if !q.filters[OpOr].IsEmpty() && !slotMask.ContainsAny(q.filters[OpOr]) {
		return false
	}
	return true
}

func (q *Query) matches() iter.Seq[int] {
	return func(yield func(int) bool) {
		if q.sto == nil {
			return
		}
		for slot := range q.sto.masks {
			if !q.Evaluate(q.sto.masks[slot]) {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// Run scans every slot in ascending order and gathers the requested columns
// for the matches.
func (q *Query) Run() (QueryResult, error) {
	if q.err != nil {
		return QueryResult{}, q.err
	}
	indices := iter_util.Collect(q.matches())

	columns := make([][]*Cell, len(q.kinds))
	for k, c := range q.kinds {
		bit, _ := q.sto.bitFor(typeOf(c))
		column := make([]*Cell, len(indices))
		for i, slot := range indices {
			column[i] = q.sto.cellAt(bit, slot)
		}
		columns[k] = column
	}
	return QueryResult{Indices: indices, Columns: columns}, nil
}

func (r QueryResult) Len() int {
	return len(r.Indices)
}
