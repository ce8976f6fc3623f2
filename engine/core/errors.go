package core

import (
	"errors"
)

var (
	ErrContextInvalid        = errors.New("graphics context is not valid")
	ErrNoCurrentShader       = errors.New("no shader is bound")
	ErrShaderCompile         = errors.New("shader compilation failed")
	ErrShaderLink            = errors.New("shader program link failed")
	ErrUnsupportedType       = errors.New("unsupported vertex attribute type")
	ErrUnsupportedUniform    = errors.New("unsupported shader uniform value")
	ErrInvalidSize           = errors.New("size is zero or negative")
	ErrFramebufferIncomplete = errors.New("framebuffer is incomplete")
	ErrGLCall                = errors.New("gl call failed")
	ErrUnknownConfigFormat   = errors.New("unknown config format")
	ErrIndexOutOfRange       = errors.New("index references a vertex out of range")
	ErrNoWorkers             = errors.New("attempting to create worker pool with less than 1 worker")
	ErrNegativeChannelSize   = errors.New("attempting to create worker pool with a negative channel size")
	ErrJobSystemClosed       = errors.New("job system is shut down")
	ErrParticleSystemUnknown = errors.New("particle system is not registered")
	ErrUnknown               = errors.New("unknown")
)
