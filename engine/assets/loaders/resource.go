package loaders

/** @brief A loaded asset. Data holds the loader specific payload. */
type Resource struct {
	Name     string
	FullPath string
	DataSize uint64
	Data     interface{}
}
