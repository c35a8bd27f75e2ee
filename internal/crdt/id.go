package crdt

import "fmt"

// ID identifies an operation: a Lamport clock plus the replica that issued
// it. IDs are totally ordered.
type ID struct {
	Clock   uint64 `json:"c"`
	Replica string `json:"r"`
}

// IsZero reports whether id is the zero ID, which stands for the document
// head in the block tree.
func (id ID) IsZero() bool {
	return id.Clock == 0 && id.Replica == ""
}

// Less orders by clock, then by replica id.
func (id ID) Less(other ID) bool {
	if id.Clock != other.Clock {
		return id.Clock < other.Clock
	}
	return id.Replica < other.Replica
}

func (id ID) String() string {
	return fmt.Sprintf("%d@%s", id.Clock, id.Replica)
}
