package scene

import (
	"github.com/KirkDiggler/sceneview/internal/errors"
)

// Level is a node of the level hierarchy, e.g. site > building > floor.
// A level may name the scene shown while it is active.
type Level struct {
	name     string
	scene    string
	parent   *Level
	children []*Level
}

// NewLevelTree builds a level tree from cfg. Level names must be unique.
// knownScene, when non-nil, rejects levels that reference an unknown scene.
func NewLevelTree(cfg *LevelConfig, knownScene func(id string) bool) (*Level, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("level config is nil")
	}

	seen := make(map[string]bool)
	var build func(c *LevelConfig, parent *Level) (*Level, error)
	build = func(c *LevelConfig, parent *Level) (*Level, error) {
		if c.Name == "" {
			return nil, errors.Validation("level has no name")
		}
		if seen[c.Name] {
			return nil, errors.Validationf("level %q is defined twice", c.Name).WithMeta("level", c.Name)
		}
		seen[c.Name] = true

		if c.Scene != "" && knownScene != nil && !knownScene(c.Scene) {
			return nil, errors.Validationf("level %q references unknown scene %q", c.Name, c.Scene).
				WithMeta("level", c.Name).
				WithMeta("scene", c.Scene)
		}

		l := &Level{name: c.Name, scene: c.Scene, parent: parent}
		for _, child := range c.Children {
			if child == nil {
				continue
			}
			built, err := build(child, l)
			if err != nil {
				return nil, err
			}
			l.children = append(l.children, built)
		}
		return l, nil
	}

	return build(cfg, nil)
}

func (l *Level) Name() string       { return l.name }
func (l *Level) Parent() *Level     { return l.parent }
func (l *Level) Children() []*Level { return l.children }

// Scene returns the scene ID of the nearest level, starting at l, that names one
func (l *Level) Scene() string {
	for cur := l; cur != nil; cur = cur.parent {
		if cur.scene != "" {
			return cur.scene
		}
	}
	return ""
}

// Find returns the level called name in the subtree rooted at l
func (l *Level) Find(name string) *Level {
	var found *Level
	l.Walk(func(level *Level, _ int) bool {
		if level.name == name {
			found = level
			return false
		}
		return true
	})
	return found
}

// Path returns the level names from the root down to l
func (l *Level) Path() []string {
	var path []string
	for cur := l; cur != nil; cur = cur.parent {
		path = append([]string{cur.name}, path...)
	}
	return path
}

// Walk visits l and its descendants depth-first with their depth below l,
// stopping when visit returns false
func (l *Level) Walk(visit func(level *Level, depth int) bool) {
	l.walk(visit, 0)
}

func (l *Level) walk(visit func(*Level, int) bool, depth int) bool {
	if !visit(l, depth) {
		return false
	}
	for _, child := range l.children {
		if !child.walk(visit, depth+1) {
			return false
		}
	}
	return true
}
