package systems

import (
	"fmt"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/renderer"
)

type cameraLookup struct {
	camera         *renderer.Camera3D
	referenceCount uint16
}

type CameraSystem struct {
	config  CameraSystemConfig
	cameras map[string]*cameraLookup
	// A default, non-registered camera that always exists as a fallback.
	defaultCamera *renderer.Camera3D
	width         int32
	height        int32
}

/** @brief The camera system configuration. */
type CameraSystemConfig struct {
	/**
	 * @brief NOTE: The maximum number of cameras that can be managed by
	 * the system.
	 */
	MaxCameraCount uint16
}

/**
 * @brief Initializes the camera system. Every camera draws into a target
 * of the given size until Resize is called.
 */
func NewCameraSystem(config CameraSystemConfig, width, height int32) (*CameraSystem, error) {
	if config.MaxCameraCount == 0 {
		err := fmt.Errorf("func NewCameraSystem - config.MaxCameraCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &CameraSystem{
		config:        config,
		cameras:       make(map[string]*cameraLookup, config.MaxCameraCount),
		defaultCamera: renderer.NewCamera3D(width, height),
		width:         width,
		height:        height,
	}, nil
}

func (cs *CameraSystem) Shutdown() error {
	cs.cameras = make(map[string]*cameraLookup)
	return nil
}

/**
 * @brief Acquires a camera by name.
 * If one is not found, a new one is created and returned.
 * Internal reference counter is incremented.
 *
 * @param name The name of the camera to acquire.
 */
func (cs *CameraSystem) Acquire(name string) (*renderer.Camera3D, error) {
	if name == renderer.DEFAULT_CAMERA_NAME {
		return cs.defaultCamera, nil
	}
	lookup, ok := cs.cameras[name]
	if !ok {
		if len(cs.cameras) >= int(cs.config.MaxCameraCount) {
			err := fmt.Errorf("func CameraSystemAcquire failed to acquire new slot. Adjust camera system config to allow more")
			core.LogError(err.Error())
			return nil, err
		}
		core.LogDebug("Creating new camera named '%s'...", name)
		lookup = &cameraLookup{camera: renderer.NewCamera3D(cs.width, cs.height)}
		cs.cameras[name] = lookup
	}
	lookup.referenceCount++
	return lookup.camera, nil
}

/**
 * @brief Releases a camera with the given name. Internal reference
 * counter is decremented. If this reaches 0, the camera is dropped.
 *
 * @param name The name of the camera to release.
 */
func (cs *CameraSystem) Release(name string) {
	if name == renderer.DEFAULT_CAMERA_NAME {
		core.LogDebug("Cannot release default camera. Nothing was done.")
		return
	}
	lookup, ok := cs.cameras[name]
	if !ok {
		core.LogWarn("CameraSystemRelease failed lookup. Nothing was done.")
		return
	}
	lookup.referenceCount--
	if lookup.referenceCount < 1 {
		lookup.camera.Reset()
		delete(cs.cameras, name)
	}
}

// Resize follows the window framebuffer for every camera.
func (cs *CameraSystem) Resize(width, height int32) {
	cs.width = width
	cs.height = height
	cs.defaultCamera.Resize(width, height)
	for _, lookup := range cs.cameras {
		lookup.camera.Resize(width, height)
	}
}

func (cs *CameraSystem) GetDefault() *renderer.Camera3D {
	return cs.defaultCamera
}
