package assets

import (
	"context"
	"errors"
	"fmt"
	"path"

	"bitbucket.org/kleinnic74/dotto/filesystem"
	"bitbucket.org/kleinnic74/dotto/gpu"
	"bitbucket.org/kleinnic74/dotto/logging"
	"bitbucket.org/kleinnic74/dotto/scene"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	DefaultVertexShader   = "shaders/default.vert"
	DefaultFragmentShader = "shaders/default.frag"
	DefaultImage          = "graphics/default_image.png"

	bundleVertexShader   = "shader.vert"
	bundleFragmentShader = "shader.frag"
	bundleImage          = "image.png"
	simpleImageExt       = ".png"
)

// ErrDefaultAssetMissing means one of the fallback assets is absent, which
// leaves the resolver with nothing to fall back to.
var ErrDefaultAssetMissing = errors.New("default asset missing")

var (
	lookupHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dotto_asset_lookup_hits_total",
		Help: "Number of asset resolutions answered from the lookup cache",
	})
	lookupMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dotto_asset_lookup_misses_total",
		Help: "Number of asset resolutions that probed the filesystem",
	})
	resolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dotto_assets_resolved_total",
		Help: "Number of assets resolved by kind",
	}, []string{"kind"})
)

// Options controls what the resolver shares between drawables
type Options struct {
	// ShareShaders compiles each shader pair once and shares the program.
	// Otherwise bundle programs are compiled fresh and owned by their drawable.
	ShareShaders bool `json:"shareShaders"`
	// ShareTextures decodes each image path once
	ShareTextures bool `json:"shareTextures"`
	// CacheLookups remembers the probing result per logical path
	CacheLookups bool `json:"cacheLookups"`
}

func DefaultOptions() Options {
	return Options{CacheLookups: true}
}

// Kind tells how a logical path was resolved
type Kind int

const (
	// Simple is a single <path>.png drawn with the default program
	Simple Kind = iota
	// Advanced is a bundle directory with optional shader and image overrides
	Advanced
)

func (k Kind) String() string {
	if k == Simple {
		return "simple"
	}
	return "advanced"
}

// Resolution is the set of files a logical path resolves to
type Resolution struct {
	Kind           Kind
	VertexShader   string
	FragmentShader string
	Image          string
}

// Resolver turns logical asset paths into drawables
type Resolver struct {
	dev      gpu.Device
	fs       filesystem.Assets
	res      *gpu.Resources
	opts     Options
	programs *ProgramCache

	defaultProgram gpu.ProgramID
	textures       map[string]Texture
	lookups        map[string]Resolution
	probes         int
}

// NewResolver checks that all default assets exist and compiles the default
// program. Any failure here is fatal for the process.
func NewResolver(ctx context.Context, dev gpu.Device, fs filesystem.Assets, res *gpu.Resources, opts Options) (*Resolver, error) {
	logger, ctx := logging.SubFrom(ctx, "assets")
	for _, p := range []string{DefaultVertexShader, DefaultFragmentShader, DefaultImage} {
		if !fs.Exists(p) {
			return nil, fmt.Errorf("%w: %s", ErrDefaultAssetMissing, fs.Path(p))
		}
	}
	r := &Resolver{
		dev:      dev,
		fs:       fs,
		res:      res,
		opts:     opts,
		programs: NewProgramCache(dev, fs, res),
		textures: make(map[string]Texture),
		lookups:  make(map[string]Resolution),
	}
	var err error
	if r.defaultProgram, err = r.programs.Get(ctx, DefaultVertexShader, DefaultFragmentShader); err != nil {
		return nil, fmt.Errorf("default program: %w", err)
	}
	logger.Info("Asset resolver ready",
		zap.Uint32("defaultProgram", uint32(r.defaultProgram)),
		zap.Bool("shareShaders", opts.ShareShaders),
		zap.Bool("shareTextures", opts.ShareTextures),
		zap.Bool("cacheLookups", opts.CacheLookups))
	return r, nil
}

// DefaultProgram returns the program shared by every simple asset
func (r *Resolver) DefaultProgram() gpu.ProgramID {
	return r.defaultProgram
}

// Probes returns how many existence checks were issued so far
func (r *Resolver) Probes() int {
	return r.probes
}

func (r *Resolver) exists(p string) bool {
	r.probes++
	return r.fs.Exists(p)
}

// Lookup decides which files the logical path resolves to without loading
// anything.
func (r *Resolver) Lookup(logical string) Resolution {
	logical = path.Clean(logical)
	if res, found := r.lookups[logical]; found {
		lookupHits.Inc()
		return res
	}
	lookupMisses.Inc()
	var res Resolution
	if simple := logical + simpleImageExt; r.exists(simple) {
		res = Resolution{Kind: Simple, VertexShader: DefaultVertexShader, FragmentShader: DefaultFragmentShader, Image: simple}
	} else {
		res = Resolution{
			Kind:           Advanced,
			VertexShader:   r.override(logical, bundleVertexShader, DefaultVertexShader),
			FragmentShader: r.override(logical, bundleFragmentShader, DefaultFragmentShader),
			Image:          r.override(logical, bundleImage, DefaultImage),
		}
	}
	if r.opts.CacheLookups {
		r.lookups[logical] = res
	}
	return res
}

func (r *Resolver) override(dir, name, fallback string) string {
	if p := path.Join(dir, name); r.exists(p) {
		return p
	}
	return fallback
}

// Resolve loads the asset at the logical path into a rect. Handles created
// for this rect only are owned by it; shared ones stay with the resolver.
func (r *Resolver) Resolve(ctx context.Context, logical string) (*scene.Rect, error) {
	logger := logging.From(ctx).With(zap.String("asset", logical))
	res := r.Lookup(logical)

	var owned []gpu.Handle
	release := func() {
		for i := len(owned) - 1; i >= 0; i-- {
			r.res.Release(owned[i])
		}
	}

	program := r.defaultProgram
	if res.Kind == Advanced {
		p, own, err := r.program(ctx, res.VertexShader, res.FragmentShader)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", logical, err)
		}
		program = p
		if own {
			owned = append(owned, gpu.ProgramHandle(p))
		}
	}
	tex, own, err := r.texture(ctx, res.Image)
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to resolve %s: %w", logical, err)
	}
	if own {
		owned = append(owned, tex.Handle())
	}
	rect, err := scene.NewRect(r.dev, r.res, program, tex.ID, owned...)
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to resolve %s: %w", logical, err)
	}
	resolved.WithLabelValues(res.Kind.String()).Inc()
	logger.Debug("Resolved asset",
		zap.Stringer("kind", res.Kind),
		zap.String("vertex", res.VertexShader),
		zap.String("fragment", res.FragmentShader),
		zap.String("image", res.Image))
	return rect, nil
}

func (r *Resolver) program(ctx context.Context, vertex, fragment string) (gpu.ProgramID, bool, error) {
	if r.opts.ShareShaders {
		p, err := r.programs.Get(ctx, vertex, fragment)
		return p, false, err
	}
	p, err := CompileProgram(ctx, r.dev, r.fs, vertex, fragment)
	if err != nil {
		return 0, false, err
	}
	r.res.Track(gpu.ProgramHandle(p))
	return p, true, nil
}

func (r *Resolver) texture(ctx context.Context, image string) (Texture, bool, error) {
	if r.opts.ShareTextures {
		if t, found := r.textures[image]; found {
			return t, false, nil
		}
	}
	t, err := LoadTexture(ctx, r.dev, r.fs, image)
	if err != nil {
		return Texture{}, false, err
	}
	r.res.Track(t.Handle())
	if r.opts.ShareTextures {
		r.textures[image] = t
		return t, false, nil
	}
	return t, true, nil
}
