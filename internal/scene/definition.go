package scene

import (
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/KirkDiggler/sceneview/internal/rendering"
)

// Definition describes the scenes a viewer can show. It is usually read
// from a YAML file:
//
//	scene: plant
//	scenes:
//	  plant:
//	    url: models/plant.glb
//	    parameter:
//	      effectOutlineEnable: true
//	levels:
//	  name: site
//	  scene: plant
//	  children:
//	    - name: hall-a
//	      scene: hall
type Definition struct {
	// Scene is the ID of the scene shown first
	Scene  string                  `yaml:"scene"`
	Scenes map[string]*SceneConfig `yaml:"scenes"`
	Levels *LevelConfig            `yaml:"levels,omitempty"`
}

// SceneConfig is one entry of Definition.Scenes
type SceneConfig struct {
	URL string `yaml:"url"`

	// Parameter holds rendering parameter overrides, kept as a raw node so
	// unknown keys can be reported against the defaults
	Parameter yaml.Node `yaml:"parameter,omitempty"`
}

// LevelConfig is one node of the level hierarchy
type LevelConfig struct {
	Name     string         `yaml:"name"`
	Scene    string         `yaml:"scene,omitempty"`
	Children []*LevelConfig `yaml:"children,omitempty"`
}

// ParseDefinition decodes and validates a YAML definition
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "parse scene definition")
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadDefinitionFile reads and parses the definition at path
func LoadDefinitionFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("scene definition %s", path)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "read scene definition").WithMeta("path", path)
	}

	def, err := ParseDefinition(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scene definition %s", path)
	}
	return def, nil
}

// Validate checks cross references: the initial scene and every level scene
// must exist, level names must be unique and parameters must be valid.
func (d *Definition) Validate() error {
	if len(d.Scenes) == 0 {
		return errors.Validation("scene definition has no scenes")
	}
	if d.Scene == "" {
		return errors.Validation("scene definition has no initial scene")
	}
	if _, ok := d.Scenes[d.Scene]; !ok {
		return errors.Validationf("initial scene %q is not defined", d.Scene).WithMeta("scene", d.Scene)
	}

	for _, id := range d.SceneIDs() {
		cfg := d.Scenes[id]
		if cfg == nil || cfg.URL == "" {
			return errors.Validationf("scene %q has no url", id).WithMeta("scene", id)
		}
		if _, err := cfg.RenderingParameter(); err != nil {
			return errors.Wrapf(err, "scene %q", id)
		}
	}

	if d.Levels != nil {
		if _, err := NewLevelTree(d.Levels, d.hasScene); err != nil {
			return err
		}
	}
	return nil
}

// SceneIDs returns the defined scene IDs in sorted order
func (d *Definition) SceneIDs() []string {
	ids := make([]string, 0, len(d.Scenes))
	for id := range d.Scenes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (d *Definition) hasScene(id string) bool {
	_, ok := d.Scenes[id]
	return ok
}

// RenderingParameter returns the defaults with this scene's overrides applied
func (c *SceneConfig) RenderingParameter() (*rendering.Parameter, error) {
	p := rendering.Defaults()
	if err := p.MergeNode(&c.Parameter); err != nil {
		return nil, err
	}
	return p, nil
}
