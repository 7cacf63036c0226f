package firestore

import (
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
)

// CountersCollection stores one document per numeric id sequence.
const CountersCollection = "counters"

type counterDocument struct {
	CurrentValue int64     `firestore:"currentValue"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

// Counter hands out monotonically increasing int64 ids for one sequence.
type Counter struct {
	ref *firestore.DocumentRef
}

// NewCounter binds a sequence name to its counter document.
func NewCounter(client *firestore.Client, name string) *Counter {
	return &Counter{ref: client.Collection(CountersCollection).Doc(name)}
}

// Read loads the current value inside tx; a missing counter reads as zero. Call it before any
// write in the same transaction.
func (c *Counter) Read(tx *firestore.Transaction) (int64, error) {
	snapshot, err := tx.Get(c.ref)
	if err != nil {
		if IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	var doc counterDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return 0, fmt.Errorf("firestore counters decode %s: %w", c.ref.ID, err)
	}
	return doc.CurrentValue, nil
}

// Write stores value as the counter's current value inside tx.
func (c *Counter) Write(tx *firestore.Transaction, value int64) error {
	return tx.Set(c.ref, counterDocument{CurrentValue: value, UpdatedAt: time.Now().UTC()})
}

// Assign returns the id a new document should use inside tx. Zero takes the next value in the
// sequence; an explicit id is kept and advances the sequence when it is ahead of it.
func (c *Counter) Assign(tx *firestore.Transaction, id int64) (int64, error) {
	current, err := c.Read(tx)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		id = current + 1
	}
	if id > current {
		if err := c.Write(tx, id); err != nil {
			return 0, err
		}
	}
	return id, nil
}
