package metadata

/** @brief The primitive layout used to interpret the index stream. */
type RenderDrawTopology int

const (
	RenderDrawTopologyPoints RenderDrawTopology = iota
	RenderDrawTopologyLines
	RenderDrawTopologyLineStrip
	RenderDrawTopologyTriangles
	RenderDrawTopologyTriangleStrip
)

/** @brief Blend factor applied to the source or destination color. */
type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcColor
	BlendFactorOneMinusSrcColor
	BlendFactorDstColor
	BlendFactorOneMinusDstColor
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
	BlendFactorSrcAlphaSaturate
)

/**
 * @brief Depth compare function. CompareFunctionNone is the "never set"
 * value of a fresh context; CompareFunctionDisabled on a render pass turns
 * the depth test off.
 */
type CompareFunction int

const (
	CompareFunctionNone CompareFunction = iota
	CompareFunctionDisabled
	CompareFunctionLess
	CompareFunctionLessEqual
	CompareFunctionEqual
	CompareFunctionNotEqual
	CompareFunctionGreaterEqual
	CompareFunctionGreater
	CompareFunctionAlways
	CompareFunctionNever
)

/** @brief Determines face culling mode during rendering. */
type CullMode int

const (
	/** @brief Never set. */
	CullModeNone CullMode = iota
	/** @brief No faces are culled. */
	CullModeOff
	/** @brief Only back faces are culled. */
	CullModeBack
	/** @brief Only front faces are culled. */
	CullModeFront
	/** @brief Both front and back faces are culled. */
	CullModeFrontAndBack
)
