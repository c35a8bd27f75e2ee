// Package crdt implements the conflict-free document type behind every note
// and folder.
//
// A [Doc] holds two structures:
//   - a map of last-writer-wins fields (title, folder name, attachment
//     references), ordered by Lamport clock with the replica id as tiebreak;
//   - a replicated growable array (RGA) of text blocks with tombstones.
//
// Every local edit returns an update fragment. Fragments are sets of
// operations with globally unique ids, so applying them is commutative,
// associative and idempotent: any permutation of the same fragments yields
// the same state, and [Doc.EncodeState] of that state is byte-identical.
//
// A Doc is not safe for concurrent use; callers serialise access.
package crdt

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrMalformedUpdate is returned when a fragment cannot be decoded or
	// contains an invalid operation.
	ErrMalformedUpdate = errors.New("malformed crdt update")

	// ErrIndexOutOfRange is returned by block edits addressing a position
	// outside the visible block list.
	ErrIndexOutOfRange = errors.New("block index out of range")
)

const updateFormatVersion = 1

// AttachmentPrefix prefixes field keys that hold attachment references.
const AttachmentPrefix = "attachment/"

// AttachmentKey returns the field key holding the reference of uploadID.
func AttachmentKey(uploadID string) string {
	return AttachmentPrefix + uploadID
}

type opKind string

const (
	opSet    opKind = "set"
	opInsert opKind = "ins"
	opDelete opKind = "del"
)

type op struct {
	Kind   opKind `json:"k"`
	ID     ID     `json:"id"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"v,omitempty"`
	Parent *ID    `json:"p,omitempty"`
	Target *ID    `json:"t,omitempty"`
}

type update struct {
	Version int `json:"v"`

	// Clock carries the highest clock of a full-state fragment so that ops
	// dropped during compaction never have their ids reissued.
	Clock uint64 `json:"clock,omitempty"`
	Ops   []op   `json:"ops"`
}

// Doc is a replicated document. The zero value is not usable; create one
// with [New].
type Doc struct {
	replica string
	clock   uint64

	fields   map[string]op
	inserts  map[ID]op
	children map[ID][]ID
	deletes  map[ID]op
}

// New returns an empty document whose local edits are attributed to
// replica. Replica ids must be unique among concurrently editing contexts.
func New(replica string) *Doc {
	return &Doc{
		replica:  replica,
		fields:   make(map[string]op),
		inserts:  make(map[ID]op),
		children: make(map[ID][]ID),
		deletes:  make(map[ID]op),
	}
}

// Reconstruct builds a document from fragments in the order given. The
// order does not affect the result.
func Reconstruct(replica string, updates [][]byte) (*Doc, error) {
	d := New(replica)
	for i, u := range updates {
		if err := d.Apply(u); err != nil {
			return nil, fmt.Errorf("apply fragment %d: %w", i, err)
		}
	}
	return d, nil
}

// MergeUpdates merges fragments into a single fragment representing their
// combined state. Superseded field writes are dropped.
func MergeUpdates(updates ...[]byte) ([]byte, error) {
	d, err := Reconstruct("", updates)
	if err != nil {
		return nil, err
	}
	return d.EncodeState(), nil
}

// Replica returns the replica id local edits are attributed to.
func (d *Doc) Replica() string {
	return d.replica
}

// Clock returns the highest Lamport clock observed by the document.
func (d *Doc) Clock() uint64 {
	return d.clock
}

// Apply merges a fragment into the document. The fragment is validated as a
// whole before any operation is applied.
func (d *Doc) Apply(data []byte) error {
	var u update
	if err := json.Unmarshal(data, &u); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedUpdate, err)
	}
	if u.Version != updateFormatVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrMalformedUpdate, u.Version)
	}
	for _, o := range u.Ops {
		if err := o.validate(); err != nil {
			return err
		}
	}
	for _, o := range u.Ops {
		d.applyOp(o)
	}
	if u.Clock > d.clock {
		d.clock = u.Clock
	}
	return nil
}

func (o op) validate() error {
	if o.ID.IsZero() {
		return fmt.Errorf("%w: operation without id", ErrMalformedUpdate)
	}
	switch o.Kind {
	case opSet:
		if o.Key == "" {
			return fmt.Errorf("%w: set without key", ErrMalformedUpdate)
		}
	case opInsert:
	case opDelete:
		if o.Target == nil || o.Target.IsZero() {
			return fmt.Errorf("%w: delete without target", ErrMalformedUpdate)
		}
	default:
		return fmt.Errorf("%w: unknown operation %q", ErrMalformedUpdate, o.Kind)
	}
	return nil
}

func (d *Doc) applyOp(o op) {
	if o.ID.Clock > d.clock {
		d.clock = o.ID.Clock
	}

	switch o.Kind {
	case opSet:
		if cur, ok := d.fields[o.Key]; !ok || cur.ID.Less(o.ID) {
			d.fields[o.Key] = o
		}
	case opInsert:
		if _, ok := d.inserts[o.ID]; ok {
			return
		}
		d.inserts[o.ID] = o
		parent := ID{}
		if o.Parent != nil {
			parent = *o.Parent
		}
		d.children[parent] = append(d.children[parent], o.ID)
	case opDelete:
		if cur, ok := d.deletes[*o.Target]; !ok || o.ID.Less(cur.ID) {
			d.deletes[*o.Target] = o
		}
	}
}

func (d *Doc) nextID() ID {
	d.clock++
	return ID{Clock: d.clock, Replica: d.replica}
}

func (d *Doc) local(ops ...op) []byte {
	for _, o := range ops {
		d.applyOp(o)
	}
	return encode(ops, 0)
}

// SetField writes value under key and returns the fragment.
func (d *Doc) SetField(key, value string) []byte {
	return d.local(op{Kind: opSet, ID: d.nextID(), Key: key, Value: value})
}

// SetAttachment points the attachment uploadID to ref.
func (d *Doc) SetAttachment(uploadID, ref string) []byte {
	return d.SetField(AttachmentKey(uploadID), ref)
}

// InsertBlock inserts a block so that it becomes the index-th visible block.
func (d *Doc) InsertBlock(index int, text string) ([]byte, error) {
	visible := d.visible()
	if index < 0 || index > len(visible) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	o := op{Kind: opInsert, ID: d.nextID(), Value: text}
	if index > 0 {
		parent := visible[index-1]
		o.Parent = &parent
	}
	return d.local(o), nil
}

// AppendBlock adds a block after the last visible block.
func (d *Doc) AppendBlock(text string) []byte {
	u, _ := d.InsertBlock(len(d.visible()), text)
	return u
}

// DeleteBlock removes the index-th visible block.
func (d *Doc) DeleteBlock(index int) ([]byte, error) {
	visible := d.visible()
	if index < 0 || index >= len(visible) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	target := visible[index]
	return d.local(op{Kind: opDelete, ID: d.nextID(), Target: &target}), nil
}

// ReplaceBlock replaces the text of the index-th visible block in a single
// fragment.
func (d *Doc) ReplaceBlock(index int, text string) ([]byte, error) {
	visible := d.visible()
	if index < 0 || index >= len(visible) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	target := visible[index]
	del := op{Kind: opDelete, ID: d.nextID(), Target: &target}
	ins := op{Kind: opInsert, ID: d.nextID(), Value: text, Parent: &target}
	return d.local(del, ins), nil
}

// Field returns the current value of key.
func (d *Doc) Field(key string) (string, bool) {
	o, ok := d.fields[key]
	return o.Value, ok
}

// Fields returns a copy of all fields.
func (d *Doc) Fields() map[string]string {
	out := make(map[string]string, len(d.fields))
	for k, o := range d.fields {
		out[k] = o.Value
	}
	return out
}

// Blocks returns the visible blocks in document order.
func (d *Doc) Blocks() []string {
	visible := d.visible()
	out := make([]string, 0, len(visible))
	for _, id := range visible {
		out = append(out, d.inserts[id].Value)
	}
	return out
}

// visible walks the RGA tree in pre-order. Siblings are visited newest
// first, which places a fresh insert directly after its parent.
func (d *Doc) visible() []ID {
	out := make([]ID, 0, len(d.inserts))

	stack := make([]ID, 0, len(d.inserts))
	stack = pushChildren(stack, d.children[ID{}])
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, deleted := d.deletes[id]; !deleted {
			out = append(out, id)
		}
		stack = pushChildren(stack, d.children[id])
	}
	return out
}

// pushChildren pushes ids in ascending order so the newest is popped first.
func pushChildren(stack []ID, ids []ID) []ID {
	if len(ids) == 0 {
		return stack
	}
	sorted := make([]ID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	return append(stack, sorted...)
}

// EncodeState returns a canonical fragment holding the full state. Equal
// states encode to identical bytes.
func (d *Doc) EncodeState() []byte {
	ops := make([]op, 0, len(d.fields)+len(d.inserts)+len(d.deletes))
	for _, o := range d.fields {
		ops = append(ops, o)
	}
	for _, o := range d.inserts {
		ops = append(ops, o)
	}
	for _, o := range d.deletes {
		ops = append(ops, o)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].ID.Less(ops[j].ID) })
	return encode(ops, d.clock)
}

func encode(ops []op, clock uint64) []byte {
	if ops == nil {
		ops = []op{}
	}
	data, err := json.Marshal(update{Version: updateFormatVersion, Clock: clock, Ops: ops})
	if err != nil {
		// ops only contain strings and integers
		panic(fmt.Sprintf("crdt: encode update: %v", err))
	}
	return data
}
