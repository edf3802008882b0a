package renderer

import (
	"Forge3D/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// UniformCache remembers the driver location of every uniform a program has
// been asked for. Names the program does not declare resolve to -1; writes to
// them are dropped and reported once.
type UniformCache struct {
	program   uint32
	locations map[string]int32
}

func NewUniformCache(program uint32) *UniformCache {
	return &UniformCache{program: program, locations: make(map[string]int32)}
}

// GetLocation returns the location of name, asking the driver only the first time.
func (uc *UniformCache) GetLocation(name string) int32 {
	loc, ok := uc.locations[name]
	if !ok {
		loc = driver.UniformLocation(uc.program, name)
		uc.locations[name] = loc
		if loc == -1 {
			logger.Log.Debug("Uniform not found", zap.Uint32("program", uc.program), zap.String("name", name))
		}
	}
	return loc
}

func (uc *UniformCache) with(name string, set func(loc int32)) {
	if loc := uc.GetLocation(name); loc != -1 {
		set(loc)
	}
}

func (uc *UniformCache) SetInt(name string, v int32) {
	uc.with(name, func(loc int32) { driver.SetUniformInt(loc, v) })
}

func (uc *UniformCache) SetFloat(name string, v float32) {
	uc.with(name, func(loc int32) { driver.SetUniformFloat(loc, v) })
}

func (uc *UniformCache) SetVec3(name string, v mgl32.Vec3) {
	uc.with(name, func(loc int32) { driver.SetUniformVec3(loc, v) })
}

func (uc *UniformCache) SetMat3(name string, m mgl32.Mat3) {
	uc.with(name, func(loc int32) { driver.SetUniformMat3(loc, m) })
}

func (uc *UniformCache) SetMat4(name string, m mgl32.Mat4) {
	uc.with(name, func(loc int32) { driver.SetUniformMat4(loc, m) })
}

// Len is the number of names resolved so far, missing ones included.
func (uc *UniformCache) Len() int {
	return len(uc.locations)
}

// Reset points the cache at another program and forgets every location.
func (uc *UniformCache) Reset(program uint32) {
	uc.program = program
	clear(uc.locations)
}
