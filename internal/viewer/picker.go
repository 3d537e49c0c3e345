package viewer

//go:generate mockgen -destination=mock/mock_picker.go -package=mockviewer -source=picker.go

import (
	"github.com/KirkDiggler/sceneview/internal/camera"
	"github.com/KirkDiggler/sceneview/internal/scene"
)

// Picker finds the nearest object a ray hits in a scene. A miss returns a nil node.
type Picker interface {
	Pick(s *scene.Scene, ray camera.Ray) (scene.Node, error)
}

// PickerFunc adapts a function to Picker
type PickerFunc func(s *scene.Scene, ray camera.Ray) (scene.Node, error)

// Pick calls f
func (f PickerFunc) Pick(s *scene.Scene, ray camera.Ray) (scene.Node, error) {
	return f(s, ray)
}
