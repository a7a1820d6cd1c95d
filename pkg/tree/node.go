package tree

import (
	"fmt"
	"strings"
)

// Node is an immutable AVL node holding one range. A nil *Node is the empty
// tree. Nodes are never modified after construction, so subtrees are shared
// freely between trees derived from one another.
type Node struct {
	left      *Node
	right     *Node
	rng       Range
	height    int
	leftmost  *Node // nil when the node itself is leftmost
	rightmost *Node // nil when the node itself is rightmost
}

// newNode panics when the children are not separated from r by at least one
// integer; split and join never produce such a node.
func newNode(left *Node, r Range, right *Node) *Node {
	if left != nil && !separated(left.Max(), r.start) {
		panic(fmt.Errorf("%w: left maximum %d is not below %d", ErrInvariant, left.Max(), r.start-1))
	}
	if right != nil && !separated(r.end, right.Min()) {
		panic(fmt.Errorf("%w: right minimum %d is not above %d", ErrInvariant, right.Min(), r.end+1))
	}
	return &Node{
		left:      left,
		right:     right,
		rng:       r,
		height:    max(left.Height(), right.Height()) + 1,
		leftmost:  left.first(),
		rightmost: right.last(),
	}
}

// Singleton returns a tree holding only r.
func Singleton(r Range) *Node { return newNode(nil, r, nil) }

func (n *Node) Left() *Node  { return n.left }
func (n *Node) Right() *Node { return n.right }
func (n *Node) Range() Range { return n.rng }

// Height returns 0 for the empty tree.
func (n *Node) Height() int {
	if n == nil {
		return 0
	}
	return n.height
}

// Min returns the smallest point of a non-empty tree.
func (n *Node) Min() int { return n.first().rng.start }

// Max returns the largest point of a non-empty tree.
func (n *Node) Max() int { return n.last().rng.end }

func (n *Node) first() *Node {
	if n == nil || n.leftmost == nil {
		return n
	}
	return n.leftmost
}

func (n *Node) last() *Node {
	if n == nil || n.rightmost == nil {
		return n
	}
	return n.rightmost
}

func (n *Node) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for it := Iterate(n); it.Next(); {
		if sb.Len() > 1 {
			sb.WriteString(", ")
		}
		sb.WriteString(it.Range().String())
	}
	sb.WriteByte('}')
	return sb.String()
}

func rotateLeft(n *Node) *Node {
	r := n.right
	return newNode(newNode(n.left, n.rng, r.left), r.rng, r.right)
}

func rotateRight(n *Node) *Node {
	l := n.left
	return newNode(l.left, l.rng, newNode(l.right, n.rng, n.right))
}
