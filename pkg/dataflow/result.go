package dataflow

// Result is the fixpoint of one analysis over one graph: the dataflow value
// entering and leaving every node. It serializes to JSON (integer map keys
// become strings, sets become sorted arrays) and to msgpack for the result
// cache.
type Result struct {
	Analysis string          `json:"analysis" msgpack:"analysis"`
	In       map[int]NodeSet `json:"in" msgpack:"in"`
	Out      map[int]NodeSet `json:"out" msgpack:"out"`
}

// FactsAt returns the value entering and leaving one node.
func (r *Result) FactsAt(nid int) (in, out NodeSet) {
	return r.In[nid], r.Out[nid]
}
