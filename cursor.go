package depot

import (
	"iter"
)

func newCursor(query *QueryBuilder, sto *storage) *Cursor {
	return &Cursor{
		query:   query,
		storage: sto,
	}
}

// Next advances to the next matching entity. The storage is locked from the
// first call until iteration ends or Reset is called.
func (c *Cursor) Next() bool {
	if !c.initialized && !c.initialize() {
		return false
	}
	if c.position < len(c.result.indices) {
		c.position++
		return true
	}
	c.Reset()
	return false
}

// Entities yields the result position and slot index of every match.
func (c *Cursor) Entities() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		if !c.initialized && !c.initialize() {
			return
		}
		for c.position < len(c.result.indices) {
			c.position++
			if !yield(c.position-1, c.result.indices[c.position-1]) {
				c.Reset()
				return
			}
		}
		c.Reset()
	}
}

func (c *Cursor) initialize() bool {
	if c.initialized {
		return true
	}
	// Bits never change once assigned, so each pass can run against the
	// current epoch.
	q := *c.query
	q.epoch = c.storage.epoch
	result, err := q.Run()
	if err != nil {
		c.err = err
		return false
	}
	c.err = nil
	c.result = result
	c.position = 0
	c.storage.Lock()
	c.holdsLock = true
	c.initialized = true
	return true
}

// EntityIndex returns the slot index of the current entity.
func (c *Cursor) EntityIndex() int {
	return c.result.indices[c.position-1]
}

func (c *Cursor) Result() *QueryResult {
	return c.result
}

// Err returns the error that stopped the last iteration before it began.
func (c *Cursor) Err() error {
	return c.err
}

func (c *Cursor) Reset() {
	c.position = 0
	c.result = nil
	c.initialized = false
	if c.holdsLock {
		c.holdsLock = false
		c.storage.Unlock()
	}
}

func (c *Cursor) TotalMatched() int {
	if !c.initialized && !c.initialize() {
		return 0
	}
	return len(c.result.indices)
}
