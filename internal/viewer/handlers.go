package viewer

import (
	stderrors "errors"

	"github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/KirkDiggler/sceneview/internal/events"
	"github.com/KirkDiggler/sceneview/internal/scene"
)

// onMouseMove picks under the pointer and moves the outline selection.
// When the selection changes it triggers mouseleave for the old object,
// mouseenter for the new one, then select, all on the app.
func (a *App) onMouseMove(e events.MouseEvent) error {
	if a.picker == nil {
		return nil
	}

	var (
		hit scene.Node
		ids []string
	)
	if s := a.scenes.CurrentScene(); s != nil && s.IsReady() {
		node, err := a.picker.Pick(s, a.camera.Ray(e.Mouse))
		if err != nil {
			return errors.Wrapf(err, "pick in scene %s", s.ID())
		}
		if node != nil {
			hit = node
			ids = []string{node.ID()}
		}
	}

	previous, changed := a.pipeline.SetSelection(ids)
	if !changed {
		return nil
	}

	var failures []error
	for _, id := range previous {
		if err := events.Trigger(a.bus, events.MouseLeave, a, events.HoverEvent{ObjectID: id, Mouse: e.Mouse}); err != nil {
			failures = append(failures, err)
		}
	}
	if hit != nil {
		if err := events.Trigger(a.bus, events.MouseEnter, a, events.HoverEvent{ObjectID: hit.ID(), Mouse: e.Mouse}); err != nil {
			failures = append(failures, err)
		}
	}
	if err := events.Trigger(a.bus, events.Select, a, events.SelectEvent{Selected: ids, Previous: previous}); err != nil {
		failures = append(failures, err)
	}

	return stderrors.Join(failures...)
}

// onResize resizes the pipeline, then forwards the event to the camera
func (a *App) onResize(e events.ResizeEvent) error {
	if err := a.pipeline.Resize(e.Width, e.Height); err != nil {
		return err
	}
	return events.Trigger(a.bus, events.Resize, a.camera, e)
}

// onLevelEnter follows the context's scene switch
func (a *App) onLevelEnter(e events.LevelEvent) error {
	s := a.scenes.CurrentScene()
	if s == nil {
		return nil
	}

	a.logger.Debug().
		Str("event", "viewer.level_entered").
		Str("level", e.Level).
		Str("scene", s.ID()).
		Msg("level entered")
	return a.applyScene(s)
}

func (a *App) onDefinitionChange(e scene.DefinitionChangeEvent) error {
	return a.Reload(a.ctx, e.Definition)
}
