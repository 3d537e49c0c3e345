package scene

// Node is one element of a loaded scene graph. The graph itself belongs to
// the external loader; sceneview only walks it for queries.
type Node interface {
	ID() string
	Name() string
	Children() []Node
}

// BasicNode is a plain in-memory Node
type BasicNode struct {
	id       string
	name     string
	children []Node
}

// NewNode creates a node with the given children
func NewNode(id, name string, children ...Node) *BasicNode {
	return &BasicNode{id: id, name: name, children: children}
}

func (n *BasicNode) ID() string       { return n.id }
func (n *BasicNode) Name() string     { return n.name }
func (n *BasicNode) Children() []Node { return n.children }

// Add appends children to n
func (n *BasicNode) Add(children ...Node) {
	n.children = append(n.children, children...)
}
