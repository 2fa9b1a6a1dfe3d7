// Package plan defines the immutable part plan built by script
// evaluation. The plan is a name-indexed, insertion-ordered set of
// nodes describing sketch shapes, the mounts that place them, and the
// solid operations applied through each mount.
package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NodeID is a content-addressed identifier for plan nodes.
type NodeID string

// NewNodeID hashes a node's kind, name, and payload rendering into a
// stable identifier. Identical declarations hash identically, so
// re-evaluating an unchanged script reproduces the same IDs.
func NewNodeID(kind NodeKind, name string, payload string) NodeID {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%s\x00%s", kind, name, payload)))
	return NodeID(hex.EncodeToString(sum[:]))
}

// IsZero reports whether the ID is unset.
func (id NodeID) IsZero() bool { return id == "" }

// Short returns a 12-character prefix for log and error messages.
func (id NodeID) Short() string {
	if len(id) <= 12 {
		return string(id)
	}
	return string(id[:12])
}

func (id NodeID) String() string { return string(id) }

// NodeKind enumerates the types of nodes in a part plan.
type NodeKind int

const (
	NodeShape  NodeKind = iota // 2D sketch shape (polygon or circle)
	NodeMount                  // placement plane binding shapes to a part face
	NodePad                    // extrusion creating or growing a solid
	NodePocket                 // blind rectangular-profile removal
	NodeHole                   // blind cylindrical removal
)

func (k NodeKind) String() string {
	switch k {
	case NodeShape:
		return "shape"
	case NodeMount:
		return "mount"
	case NodePad:
		return "pad"
	case NodePocket:
		return "pocket"
	case NodeHole:
		return "hole"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of a part plan.
type Node struct {
	ID   NodeID   `json:"id"`
	Kind NodeKind `json:"kind"`
	Name string   `json:"name,omitempty"`
	Data NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
