package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/sceneview/internal/scene"
)

// PlantDefinition is a two-scene definition with a level hierarchy
const PlantDefinition = `scene: plant
scenes:
  plant:
    url: models/plant.glb
    parameter:
      effectOutlineEnable: true
      effectOutlineEdgeStrength: 4
  hall:
    url: models/hall.glb
levels:
  name: site
  scene: plant
  children:
    - name: hall-a
      scene: hall
      children:
        - name: pump-room
    - name: yard
`

// WriteDefinition writes a definition and the asset files it references
// under dir and returns the definition path
func WriteDefinition(t *testing.T, dir, content string) string {
	t.Helper()

	def, err := scene.ParseDefinition([]byte(content))
	require.NoError(t, err, "fixture definition must be valid")

	for _, cfg := range def.Scenes {
		asset := filepath.Join(dir, cfg.URL)
		require.NoError(t, os.MkdirAll(filepath.Dir(asset), 0o755))
		require.NoError(t, os.WriteFile(asset, []byte("glTF"), 0o644))
	}

	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// CreateTestGraph returns a small plant graph:
//
//	plant
//	├── hall-a
//	│   ├── pump-1
//	│   └── pump-2
//	└── valve-7
func CreateTestGraph() *scene.BasicNode {
	return scene.NewNode("plant", "Plant",
		scene.NewNode("hall-a", "Hall A",
			scene.NewNode("pump-1", "Pump 1"),
			scene.NewNode("pump-2", "Pump 2"),
		),
		scene.NewNode("valve-7", "Valve 7"),
	)
}
