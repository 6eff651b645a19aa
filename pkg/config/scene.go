package config

import (
	"math/rand"

	"github.com/df07/go-scene-raytracer/pkg/loaders"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// BuildScene creates the configured scene: a snapshot file, a Blender export or a preset,
// in that order, with the background override applied.
func (c Config) BuildScene() (*scene.Scene, error) {
	var s *scene.Scene
	var err error

	switch {
	case c.SceneFile != "":
		s, err = loaders.LoadScene(c.SceneFile)
	case c.BlenderFile != "":
		s, err = loaders.LoadBlenderScene(c.BlenderFile)
	default:
		s, err = scene.NewPreset(c.Scene, rand.New(rand.NewSource(c.Seed)))
	}
	if err != nil {
		return nil, err
	}

	background, ok, err := c.BackgroundColor()
	if err != nil {
		return nil, err
	}
	if ok {
		s.SetBackground(background)
	}
	return s, nil
}

// BuildCamera creates the default camera with the configured field of view
func (c Config) BuildCamera() renderer.Camera {
	aspect := float32(1)
	if c.Width > 0 && c.Height > 0 {
		aspect = float32(c.Width) / float32(c.Height)
	}
	camera := renderer.NewCamera(scene.DefaultCameraPosition, scene.DefaultCameraTarget, aspect)
	if c.FOV > 0 {
		camera.SetFOVDegrees(c.FOV)
	}
	return camera
}
