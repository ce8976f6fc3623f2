package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Tinaynox/maze-sub011/engine/assets/loaders"
	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/particles"
	"github.com/Tinaynox/maze-sub011/engine/renderer/metadata"
	"github.com/fsnotify/fsnotify"
)

type AssetType int

const (
	AssetTypeNone AssetType = iota
	AssetTypeParticleSystem
	AssetTypeModel
	AssetTypeTexture
	AssetTypeShader
)

func (t AssetType) String() string {
	switch t {
	case AssetTypeParticleSystem:
		return "particle-system"
	case AssetTypeModel:
		return "model"
	case AssetTypeTexture:
		return "texture"
	case AssetTypeShader:
		return "shader"
	default:
		return "none"
	}
}

type AssetInfo struct {
	Path       string
	Type       AssetType
	LastLoaded time.Time
}

// WatchFunc is called from the watcher goroutine when a watched asset changes or disappears.
type WatchFunc func(path string, op fsnotify.Op)

/**
 * @brief Indexes every known asset under a root directory and keeps the
 * index current through fsnotify. Paths are relative to the root and use
 * forward slashes.
 */
type AssetManager struct {
	root     string
	assets   map[string]AssetInfo
	loaders  map[AssetType]Loader
	watchers map[string][]WatchFunc

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

var errWatcherClosed = errors.New("asset watcher already closed")

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[AssetType]Loader),
		watchers: make(map[string][]WatchFunc),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

func (am *AssetManager) Initialize(assetsDir string) error {
	root, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	am.root = root

	// Register loaders
	am.registerLoader(AssetTypeParticleSystem, &loaders.ParticleSystemLoader{})
	am.registerLoader(AssetTypeModel, &loaders.ModelLoader{})
	am.registerLoader(AssetTypeTexture, &loaders.TextureLoader{})
	am.registerLoader(AssetTypeShader, &loaders.ShaderLoader{})

	if err := am.addRecursive(root); err != nil {
		return err
	}

	go am.start()
	core.LogInfo("asset manager watching %s (%d assets)", root, len(am.assets))
	return nil
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	if am.root != "" {
		<-am.stopped
		return nil
	}
	return am.fsnotify.Close()
}

func (am *AssetManager) Root() string {
	return am.root
}

// addRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return errWatcherClosed
	}
	return am.watchRecursive(name)
}

func (am *AssetManager) registerLoader(assetType AssetType, loader Loader) {
	am.loaders[assetType] = loader
}

// Watch subscribes fn to changes of the asset at path.
func (am *AssetManager) Watch(path string, fn WatchFunc) {
	key := am.key(path)
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.watchers[key] = append(am.watchers[key], fn)
}

// Unwatch drops every subscription of path.
func (am *AssetManager) Unwatch(path string) {
	key := am.key(path)
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.watchers, key)
}

// Assets lists the indexed assets of a type, sorted by path.
func (am *AssetManager) Assets(assetType AssetType) []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	var paths []string
	for path, info := range am.assets {
		if info.Type == assetType {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

func (am *AssetManager) Info(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[am.key(path)]
	return info, ok
}

// Load an asset using the appropriate loader
func (am *AssetManager) Load(path string, params interface{}) (*loaders.Resource, error) {
	key := am.key(path)

	am.mutex.Lock()
	asset, exists := am.assets[key]
	if exists {
		asset.LastLoaded = time.Now()
		am.assets[key] = asset
	}
	am.mutex.Unlock()
	if !exists {
		return nil, fmt.Errorf("asset not found: %s", key)
	}

	loader, loaderExists := am.loaders[asset.Type]
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", asset.Type)
	}

	return loader.Load(filepath.Join(am.root, filepath.FromSlash(key)), params)
}

func (am *AssetManager) LoadParticleSystem(path string) (particles.SystemConfig, error) {
	resource, err := am.Load(path, nil)
	if err != nil {
		return particles.SystemConfig{}, err
	}
	config, ok := resource.Data.(particles.SystemConfig)
	if !ok {
		return particles.SystemConfig{}, fmt.Errorf("%s is not a particle system", path)
	}
	return config, nil
}

func (am *AssetManager) LoadModel(path string) (*metadata.Mesh, error) {
	resource, err := am.Load(path, nil)
	if err != nil {
		return nil, err
	}
	mesh, ok := resource.Data.(*metadata.Mesh)
	if !ok {
		return nil, fmt.Errorf("%s is not a model", path)
	}
	return mesh, nil
}

func (am *AssetManager) LoadTexture(path string, params *loaders.TextureLoaderParams) (*loaders.TextureData, error) {
	resource, err := am.Load(path, params)
	if err != nil {
		return nil, err
	}
	texture, ok := resource.Data.(*loaders.TextureData)
	if !ok {
		return nil, fmt.Errorf("%s is not a texture", path)
	}
	return texture, nil
}

func (am *AssetManager) LoadShader(path string) (*loaders.ShaderConfig, error) {
	resource, err := am.Load(path, nil)
	if err != nil {
		return nil, err
	}
	config, ok := resource.Data.(*loaders.ShaderConfig)
	if !ok {
		return nil, fmt.Errorf("%s is not a shader", path)
	}
	return config, nil
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogWarn("asset watcher: %v", err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			// A removed directory cannot be told apart from a file, drop it from the watch list either way.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
				_ = am.fsnotify.Remove(e.Name)
			}
			am.notify(e.Name, e.Op)

		case e, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(e.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list and indexes their files.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

func (am *AssetManager) notify(path string, op fsnotify.Op) {
	key := am.key(path)
	am.mutex.RLock()
	watchers := append([]WatchFunc(nil), am.watchers[key]...)
	am.mutex.RUnlock()

	for _, fn := range watchers {
		fn(key, op)
	}
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	assetType := determineAssetType(path)
	if assetType == AssetTypeNone {
		return
	}

	key := am.key(path)
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.assets[key] = AssetInfo{
		Path: key,
		Type: assetType,
	}
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, am.key(path))
}

// key turns an absolute or root relative path into the index key.
func (am *AssetManager) key(path string) string {
	if filepath.IsAbs(path) && am.root != "" {
		if rel, err := filepath.Rel(am.root, path); err == nil {
			path = rel
		}
	}
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "./")
}

func determineAssetType(path string) AssetType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml":
		return AssetTypeParticleSystem
	case ".shadercfg":
		return AssetTypeShader
	case ".png", ".jpg", ".jpeg", ".bmp":
		return AssetTypeTexture
	case ".gltf", ".glb":
		return AssetTypeModel
	default:
		return AssetTypeNone
	}
}
