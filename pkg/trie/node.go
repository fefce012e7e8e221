package trie

// nodeID addresses a node in the trie's arena.
type nodeID int32

const (
	noNode nodeID = -1
	rootID nodeID = 0
)

type linkKind uint8

const (
	linkNone linkKind = iota
	// linkChild points down to a node with a larger bit index.
	linkChild
	// linkUplink points back to an ancestor or to the node itself.
	linkUplink
)

// link is one child slot of a node.
type link struct {
	kind linkKind
	to   nodeID
}

func (l link) isChild() bool  { return l.kind == linkChild }
func (l link) isUplink() bool { return l.kind == linkUplink }

// node is either the root sentinel or a branch point holding one stored key.
// parent and predecessor are plain references; the trie owns every node.
type node[K any] struct {
	key      K
	hasKey   bool
	bitIndex int

	parent nodeID
	left   link
	right  link
	// predecessor is the node whose uplink leads to this one.
	predecessor nodeID
}

func (n *node[K]) isEmpty() bool { return !n.hasKey }

func (n *node[K]) setKey(key K) {
	n.key = key
	n.hasKey = true
}

// isExternal reports whether either side loops back to the node itself.
func (n *node[K]) isExternal(self nodeID) bool {
	return (n.left.isUplink() && n.left.to == self) || (n.right.isUplink() && n.right.to == self)
}
