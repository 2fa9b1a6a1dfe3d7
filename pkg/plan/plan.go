package plan

import "fmt"

// Plan is the top-level immutable data structure produced by script
// evaluation. It is never mutated in place; each evaluation produces a
// new plan. Order records node insertion order, which the build walk
// follows so repeated evaluations materialize identically.
type Plan struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Order     []NodeID          `json:"order"`
	NameIndex map[string]NodeID `json:"name_index"`
	Version   uint64            `json:"version"`
}

// New creates an empty Plan.
func New() *Plan {
	return &Plan{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddShape appends a shape node and returns it. Duplicate names are
// recorded as-is and rejected later by validation.
func (p *Plan) AddShape(name string, data ShapeData) *Node {
	return p.add(NodeShape, name, data, data.payload())
}

// AddMount appends a mount node and returns it.
func (p *Plan) AddMount(name string, data MountData) *Node {
	return p.add(NodeMount, name, data, data.payload())
}

// AddPad appends a pad node and returns it.
func (p *Plan) AddPad(data PadData) *Node {
	return p.add(NodePad, "", data, data.payload())
}

// AddPocket appends a pocket node and returns it.
func (p *Plan) AddPocket(data PocketData) *Node {
	return p.add(NodePocket, "", data, data.payload())
}

// AddHole appends a hole node and returns it.
func (p *Plan) AddHole(data HoleData) *Node {
	return p.add(NodeHole, "", data, data.payload())
}

func (p *Plan) add(kind NodeKind, name string, data NodeData, payload string) *Node {
	// Salt the hash with the insertion position so identical repeated
	// declarations stay distinct nodes.
	id := NewNodeID(kind, name, fmt.Sprintf("%d %s", len(p.Order), payload))
	n := &Node{ID: id, Kind: kind, Name: name, Data: data}
	p.Nodes[id] = n
	p.Order = append(p.Order, id)
	if name != "" {
		if _, taken := p.NameIndex[name]; !taken {
			p.NameIndex[name] = id
		}
	}
	return n
}

// Lookup returns the node with the given user-assigned name, or nil.
func (p *Plan) Lookup(name string) *Node {
	id, ok := p.NameIndex[name]
	if !ok {
		return nil
	}
	return p.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (p *Plan) MustLookup(name string) *Node {
	n := p.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("plan: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (p *Plan) Get(id NodeID) *Node {
	return p.Nodes[id]
}

// Shapes returns all shape nodes in insertion order.
func (p *Plan) Shapes() []*Node {
	return p.byKind(NodeShape)
}

// Mounts returns all mount nodes in insertion order.
func (p *Plan) Mounts() []*Node {
	return p.byKind(NodeMount)
}

// Operations returns all pad, pocket, and hole nodes in insertion
// order. This is the sequence the build walk executes.
func (p *Plan) Operations() []*Node {
	var ops []*Node
	for _, id := range p.Order {
		n := p.Nodes[id]
		if n == nil {
			continue
		}
		switch n.Kind {
		case NodePad, NodePocket, NodeHole:
			ops = append(ops, n)
		}
	}
	return ops
}

func (p *Plan) byKind(kind NodeKind) []*Node {
	var out []*Node
	for _, id := range p.Order {
		if n := p.Nodes[id]; n != nil && n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// NodeCount returns the total number of nodes.
func (p *Plan) NodeCount() int {
	return len(p.Nodes)
}
