package assets

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/kleinnic74/dotto/filesystem"
	"bitbucket.org/kleinnic74/dotto/gpu"
	"bitbucket.org/kleinnic74/dotto/logging"
	"go.uber.org/zap"
)

// CompileProgram reads, compiles and links a vertex/fragment pair. The
// stage objects are deleted once linking is done, whatever the outcome.
func CompileProgram(ctx context.Context, dev gpu.Device, fs filesystem.Assets, vertexPath, fragmentPath string) (gpu.ProgramID, error) {
	logging.From(ctx).Debug("Compiling program", zap.String("vertex", vertexPath), zap.String("fragment", fragmentPath))
	vs, err := compileStage(dev, fs, gpu.VertexStage, vertexPath)
	if err != nil {
		return 0, err
	}
	defer dev.DeleteShader(vs)
	fsh, err := compileStage(dev, fs, gpu.FragmentStage, fragmentPath)
	if err != nil {
		return 0, err
	}
	defer dev.DeleteShader(fsh)

	prog, err := dev.LinkProgram(vs, fsh)
	if err != nil {
		var linkErr *gpu.LinkError
		if errors.As(err, &linkErr) {
			linkErr.VertexPath, linkErr.FragmentPath = vertexPath, fragmentPath
		}
		return 0, err
	}
	return prog, nil
}

func compileStage(dev gpu.Device, fs filesystem.Assets, stage gpu.Stage, path string) (gpu.ShaderID, error) {
	source, err := fs.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s shader: %w", stage, err)
	}
	id, err := dev.CompileShader(stage, string(source))
	if err != nil {
		var compileErr *gpu.CompileError
		if errors.As(err, &compileErr) {
			compileErr.Path = path
		}
		return 0, err
	}
	return id, nil
}

type programKey struct {
	vertex, fragment string
}

// ProgramCache compiles every vertex/fragment pair at most once. Cached
// programs are owned by the resource table, not by the drawables using them.
type ProgramCache struct {
	dev      gpu.Device
	fs       filesystem.Assets
	res      *gpu.Resources
	programs map[programKey]gpu.ProgramID
}

func NewProgramCache(dev gpu.Device, fs filesystem.Assets, res *gpu.Resources) *ProgramCache {
	return &ProgramCache{
		dev:      dev,
		fs:       fs,
		res:      res,
		programs: make(map[programKey]gpu.ProgramID),
	}
}

// Get returns the program for the given pair, compiling it on first use
func (c *ProgramCache) Get(ctx context.Context, vertexPath, fragmentPath string) (gpu.ProgramID, error) {
	key := programKey{vertexPath, fragmentPath}
	if p, found := c.programs[key]; found {
		return p, nil
	}
	p, err := CompileProgram(ctx, c.dev, c.fs, vertexPath, fragmentPath)
	if err != nil {
		return 0, err
	}
	c.res.Track(gpu.ProgramHandle(p))
	c.programs[key] = p
	return p, nil
}

func (c *ProgramCache) Len() int {
	return len(c.programs)
}
