package scene

import (
	"errors"
	"strings"

	"Forge3D/internal/core"
	"Forge3D/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var (
	ErrInvalidParams   = errors.New("scene: invalid params")
	ErrAlreadyParented = errors.New("scene: node already has a parent")
	ErrCycle           = errors.New("scene: node is an ancestor of the new parent")
)

// Element is anything that can sit in the scene graph: Node itself and every
// type embedding it. Children are stored as Elements so they keep their
// dynamic type.
type Element interface {
	core.Entity
	Base() *Node
}

// Node is a transform in the scene graph. A node owns the ordered list of its
// children; the parent link is a plain back-reference and never keeps the
// parent alive on its own. Long-lived storage belongs to the Container.
type Node struct {
	core.Object
	matrix   mgl32.Mat4
	parent   *Node
	children []Element
}

// EmptyNode is the sentinel node returned in place of nil.
var EmptyNode = &Node{Object: core.NewStaticObject(core.EmptyName), matrix: mgl32.Ident4()}

func NewNode() *Node {
	n := &Node{}
	n.initNode()
	return n
}

func (n *Node) initNode() {
	n.Object = core.NewObject()
	n.matrix = mgl32.Ident4()
}

func (n *Node) Base() *Node {
	return n
}

func (n *Node) SetMatrix(m mgl32.Mat4) {
	n.matrix = m
}

func (n *Node) Matrix() mgl32.Mat4 {
	return n.matrix
}

// Parent returns the parent node, or EmptyNode when unparented.
func (n *Node) Parent() *Node {
	if n.parent == nil {
		return EmptyNode
	}
	return n.parent
}

// AddChild appends child and points its parent link at n. A child that
// already has a parent must be removed from it first. Sentinels (EmptyNode,
// EmptyLight, EmptyMesh, EmptyCamera) can be neither parent nor child.
func (n *Node) AddChild(child Element) error {
	if n.IsStatic() || child == nil {
		logger.Log.Error("Invalid params", zap.String("fun", "AddChild"))
		return ErrInvalidParams
	}
	c := child.Base()
	if c == nil || c.IsStatic() {
		logger.Log.Error("Invalid params", zap.String("fun", "AddChild"))
		return ErrInvalidParams
	}
	if c.parent != nil && c.parent != EmptyNode {
		logger.Log.Error("Node already has a parent",
			zap.String("child", c.Name()),
			zap.String("parent", c.parent.Name()))
		return ErrAlreadyParented
	}
	for p := n; p != nil && p != EmptyNode; p = p.parent {
		if p == c {
			logger.Log.Error("Adding node would create a cycle", zap.String("child", c.Name()))
			return ErrCycle
		}
	}
	n.children = append(n.children, child)
	c.parent = n
	return nil
}

// Child returns the child at index i, or EmptyNode when i is out of range.
func (n *Node) Child(i int) Element {
	if i < 0 || i >= len(n.children) {
		logger.Log.Error("Invalid child index", zap.Int("index", i), zap.Int("children", len(n.children)))
		return EmptyNode
	}
	return n.children[i]
}

// RemoveChild detaches the child at index i and returns it; the caller now
// decides its fate. Out of range indices return EmptyNode and change nothing.
func (n *Node) RemoveChild(i int) Element {
	if i < 0 || i >= len(n.children) {
		logger.Log.Error("Invalid child index", zap.Int("index", i), zap.Int("children", len(n.children)))
		return EmptyNode
	}
	child := n.children[i]
	child.Base().parent = nil
	n.children = append(n.children[:i], n.children[i+1:]...)
	return child
}

func (n *Node) NrOfChildren() int {
	return len(n.children)
}

// Children returns a copy of the children list.
func (n *Node) Children() []Element {
	out := make([]Element, len(n.children))
	copy(out, n.children)
	return out
}

// WorldMatrix composes local matrices from the top of the hierarchy down to
// n. The walk stops below root: root's own matrix is not included, so the
// result is n's transform relative to root. A nil root walks to the top.
func (n *Node) WorldMatrix(root Element) mgl32.Mat4 {
	var stop *Node
	if root != nil {
		stop = root.Base()
	}
	result := n.matrix
	for p := n.parent; p != nil && p != EmptyNode && p != stop; p = p.parent {
		result = p.matrix.Mul4(result)
	}
	return result
}

// TreeAsString dumps the subtree, one "+ name" line per node indented by depth.
func (n *Node) TreeAsString() string {
	var sb strings.Builder
	writeTree(&sb, n, 0)
	return sb.String()
}

func writeTree(sb *strings.Builder, n *Node, depth int) {
	sb.WriteString(strings.Repeat(" ", depth))
	sb.WriteString("+ ")
	sb.WriteString(n.Name())
	sb.WriteByte('\n')
	for _, c := range n.children {
		writeTree(sb, c.Base(), depth+1)
	}
}

// Release ends the node's identity. Children are owned elsewhere.
func (n *Node) Release() error {
	n.Destroy()
	return nil
}
