package scene

import "regexp"

// Matcher selects nodes in a Query
type Matcher func(Node) bool

// ByID matches the node with the given ID
func ByID(id string) Matcher {
	return func(n Node) bool { return n.ID() == id }
}

// ByName matches nodes named exactly name
func ByName(name string) Matcher {
	return func(n Node) bool { return n.Name() == name }
}

// NameMatches matches nodes whose name matches re
func NameMatches(re *regexp.Regexp) Matcher {
	return func(n Node) bool { return re.MatchString(n.Name()) }
}

// Leaf matches nodes without children
func Leaf() Matcher {
	return func(n Node) bool { return len(n.Children()) == 0 }
}

// Query returns the nodes under root (root included) that satisfy every
// matcher, in depth-first pre-order. With no matchers every node matches.
func Query(root Node, matchers ...Matcher) []Node {
	var out []Node
	Walk(root, func(n Node) bool {
		for _, m := range matchers {
			if !m(n) {
				return true
			}
		}
		out = append(out, n)
		return true
	})
	return out
}

// QueryOne returns the first node Query would return, or nil
func QueryOne(root Node, matchers ...Matcher) Node {
	var found Node
	Walk(root, func(n Node) bool {
		for _, m := range matchers {
			if !m(n) {
				return true
			}
		}
		found = n
		return false
	})
	return found
}

// Walk visits root and its descendants depth-first until visit returns false
func Walk(root Node, visit func(Node) bool) {
	walk(root, visit)
}

func walk(n Node, visit func(Node) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	for _, child := range n.Children() {
		if !walk(child, visit) {
			return false
		}
	}
	return true
}
