package depot

import (
	"iter"

	iter_util "github.com/TheBitDrifter/util/iter"
	"go.uber.org/zap"
)

// Cursor walks the slots matched by a query. While a cursor is iterating it
// holds a lock on the storage: direct mutations fail and Enqueue* operations
// are deferred until the cursor is exhausted or Reset.
type Cursor struct {
	query   *Query
	storage *storage

	matched  []int
	position int

	initialized bool
	lockBit     uint32
	err         error
}

func newCursor(query *Query) *Cursor {
	return &Cursor{
		query:   query,
		storage: query.sto,
	}
}

func (c *Cursor) Next() bool {
	if !c.initialized && !c.initialize() {
		return false
	}
	if c.position < len(c.matched) {
		c.position++
		return true
	}
	c.Reset()
	return false
}

// Slots yields every matched slot; breaking out of the loop resets the cursor.
func (c *Cursor) Slots() iter.Seq[int] {
	return func(yield func(int) bool) {
		for c.Next() {
			if !yield(c.Slot()) {
				c.Reset()
				return
			}
		}
	}
}

func (c *Cursor) initialize() bool {
	if c.query.err != nil {
		c.err = c.query.err
		return false
	}
	bit, err := c.storage.acquireLock()
	if err != nil {
		c.err = err
		return false
	}
	c.lockBit = bit
	c.matched = iter_util.Collect(c.query.matches())
	c.position = 0
	c.initialized = true
	return true
}

// Reset releases the storage lock and rewinds the cursor. Operations queued
// while the cursor held the lock are applied here.
func (c *Cursor) Reset() {
	if !c.initialized {
		return
	}
	c.initialized = false
	c.matched = nil
	c.position = 0
	if err := c.storage.RemoveLock(c.lockBit); err != nil {
		c.storage.logger.Error("failed to apply queued operations", zap.Error(err), traceField(err))
		c.err = err
	}
}

// Slot returns the slot at the cursor position.
func (c *Cursor) Slot() int {
	return c.matched[c.position-1]
}

func (c *Cursor) Entity() Entity {
	en, _ := c.storage.Entity(c.Slot())
	return en
}

func (c *Cursor) RemainingMatched() int {
	return len(c.matched) - c.position
}

// TotalMatched counts the current matches without locking the storage.
func (c *Cursor) TotalMatched() int {
	if c.initialized {
		return len(c.matched)
	}
	total := 0
	for range c.query.matches() {
		total++
	}
	return total
}

func (c *Cursor) Err() error {
	return c.err
}
