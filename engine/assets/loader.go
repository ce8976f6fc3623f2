package assets

import "github.com/Tinaynox/maze-sub011/engine/assets/loaders"

type Loader interface {
	Load(path string, params interface{}) (*loaders.Resource, error) // `interface{}` here allows loaders to take various parameter types
	Unload(*loaders.Resource) error
}
