// Package view loads the named assets of a scene into the live registry and
// removes them again on shutdown.
package view

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/kleinnic74/dotto/assets"
	"bitbucket.org/kleinnic74/dotto/logging"
	"bitbucket.org/kleinnic74/dotto/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resolver turns a logical asset path into a drawable
type Resolver interface {
	Resolve(ctx context.Context, logical string) (*scene.Rect, error)
}

// Placement is a named asset with where to put it
type Placement struct {
	Asset    string     `json:"asset"`
	Position mgl32.Vec3 `json:"position"`
	Rotation mgl32.Vec3 `json:"rotation"`
	Scale    mgl32.Vec3 `json:"scale"`
}

// View owns the drawables it registered
type View struct {
	resolver Resolver
	registry *scene.Registry
	ids      []uuid.UUID
	failed   []string
}

func New(resolver Resolver, registry *scene.Registry) *View {
	return &View{
		resolver: resolver,
		registry: registry,
	}
}

// Load resolves every placement and registers it for rendering. Assets
// failing to load are logged and skipped, except when a default asset is
// missing, which leaves nothing to fall back to.
func (v *View) Load(ctx context.Context, placements []Placement) error {
	logger, ctx := logging.SubFrom(ctx, "view")
	for _, p := range placements {
		rect, err := v.resolver.Resolve(ctx, p.Asset)
		if errors.Is(err, assets.ErrDefaultAssetMissing) {
			return fmt.Errorf("failed to load %s: %w", p.Asset, err)
		}
		if err != nil {
			logger.Error("Skipping asset", zap.String("asset", p.Asset), zap.Error(err))
			v.failed = append(v.failed, p.Asset)
			continue
		}
		t := rect.Transform()
		t.Position = p.Position
		t.Rotation = p.Rotation
		if p.Scale != (mgl32.Vec3{}) {
			t.Scale = p.Scale
		}
		id := v.registry.Add(rect)
		v.ids = append(v.ids, id)
		logger.Info("Loaded asset", zap.String("asset", p.Asset), zap.Stringer("id", id))
	}
	return nil
}

// Failed returns the assets skipped by Load
func (v *View) Failed() []string {
	return v.failed
}

func (v *View) Len() int {
	return len(v.ids)
}

// Clean unregisters everything this view loaded, newest first, releasing
// the handles the drawables own
func (v *View) Clean(ctx context.Context) {
	logger := logging.From(ctx)
	for i := len(v.ids) - 1; i >= 0; i-- {
		v.registry.Remove(v.ids[i])
	}
	logger.Info("View cleaned", zap.Int("drawables", len(v.ids)))
	v.ids = nil
}
