package opengl

import (
	"strings"

	"bitbucket.org/kleinnic74/dotto/gpu"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var shaderTypes = map[gpu.Stage]uint32{
	gpu.VertexStage:   gl.VERTEX_SHADER,
	gpu.FragmentStage: gl.FRAGMENT_SHADER,
}

// CompileShader compiles one stage and reports the info log on failure
func (Device) CompileShader(stage gpu.Stage, source string) (gpu.ShaderID, error) {
	shader := gl.CreateShader(shaderTypes[stage])
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, &gpu.CompileError{Stage: stage, Log: strings.TrimRight(log, "\x00")}
	}
	return gpu.ShaderID(shader), nil
}

func (Device) DeleteShader(id gpu.ShaderID) {
	gl.DeleteShader(uint32(id))
}

// LinkProgram links the stages into a new program. The stages are detached
// again so that deleting them frees them right away.
func (Device) LinkProgram(shaders ...gpu.ShaderID) (gpu.ProgramID, error) {
	prog := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(prog, uint32(s))
	}
	gl.LinkProgram(prog)
	for _, s := range shaders {
		gl.DetachShader(prog, uint32(s))
	}
	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength)+1)
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, &gpu.LinkError{Log: strings.TrimRight(log, "\x00")}
	}
	return gpu.ProgramID(prog), nil
}

func (Device) DeleteProgram(id gpu.ProgramID) {
	gl.DeleteProgram(uint32(id))
}

// UseProgram uses this program in the current OpenGL context
func (Device) UseProgram(id gpu.ProgramID) {
	gl.UseProgram(uint32(id))
}

func (Device) UniformLocation(id gpu.ProgramID, name string) int32 {
	return gl.GetUniformLocation(uint32(id), gl.Str(name+"\x00"))
}

func (Device) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (Device) UniformInt(location int32, v int32) {
	gl.Uniform1i(location, v)
}
