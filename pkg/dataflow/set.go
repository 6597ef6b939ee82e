package dataflow

import (
	"encoding/json"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// NodeSet is a set of CFG node ids. It is the dataflow value at a program
// point: the set of definition nodes (reaching definitions) or reference
// nodes (reachable references) that may be live there.
type NodeSet map[int]struct{}

// NewNodeSet creates a NodeSet containing the given ids.
func NewNodeSet(ids ...int) NodeSet {
	s := make(NodeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set.
func (s NodeSet) Add(id int) {
	s[id] = struct{}{}
}

// Has reports whether id is in the set.
func (s NodeSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Union adds every element of other to s in place.
func (s NodeSet) Union(other NodeSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Minus returns a new set holding the elements of s not present in other.
func (s NodeSet) Minus(other NodeSet) NodeSet {
	out := make(NodeSet)
	for id := range s {
		if _, ok := other[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// AddsTo reports whether merging s into other would grow other, i.e. whether
// s \ other is non-empty.
func (s NodeSet) AddsTo(other NodeSet) bool {
	for id := range s {
		if _, ok := other[id]; !ok {
			return true
		}
	}
	return false
}

// Equal reports whether s and other contain the same ids.
func (s NodeSet) Equal(other NodeSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if _, ok := other[id]; !ok {
			return false
		}
	}
	return true
}

// Copy returns an independent copy of s.
func (s NodeSet) Copy() NodeSet {
	out := make(NodeSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Sorted returns the ids in ascending order.
func (s NodeSet) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// MarshalJSON encodes the set as a sorted array of ids.
func (s NodeSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes the set from an array of ids.
func (s *NodeSet) UnmarshalJSON(data []byte) error {
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewNodeSet(ids...)
	return nil
}

// EncodeMsgpack encodes the set as a sorted array of ids.
func (s NodeSet) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(s.Sorted())
}

// DecodeMsgpack decodes the set from an array of ids.
func (s *NodeSet) DecodeMsgpack(dec *msgpack.Decoder) error {
	var ids []int
	if err := dec.Decode(&ids); err != nil {
		return err
	}
	*s = NewNodeSet(ids...)
	return nil
}
