package service

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/atinyakov/dishrank/internal/models"
	"go.uber.org/zap"
)

// ImageResolver finds a display URL for a dish. An empty URL with a nil error
// means "no image from this source".
type ImageResolver interface {
	Resolve(ctx context.Context, dish models.Dish) (string, error)
}

// StaticImageResolver maps image file names bundled with the app to their URLs.
type StaticImageResolver struct {
	images map[string]string
}

// NewStaticImageResolver uses images, keyed by file name.
func NewStaticImageResolver(images map[string]string) *StaticImageResolver {
	return &StaticImageResolver{images: images}
}

// ScanImageDir indexes the .jpg, .jpeg, .png and .webp files in dir and serves
// them under urlPrefix.
func ScanImageDir(dir, urlPrefix string) (*StaticImageResolver, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read image dir: %w", err)
	}
	images := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png", ".webp":
			images[e.Name()] = path.Join(urlPrefix, e.Name())
		}
	}
	return NewStaticImageResolver(images), nil
}

// Resolve matches the last path segment of dish.Image against the bundle.
func (r *StaticImageResolver) Resolve(_ context.Context, dish models.Dish) (string, error) {
	if dish.Image == "" {
		return "", nil
	}
	return r.images[path.Base(dish.Image)], nil
}

// FallbackResolver asks each resolver in turn and returns the first URL found,
// or Fallback when none produced one. Resolver errors are logged and skipped.
type FallbackResolver struct {
	Resolvers []ImageResolver
	Fallback  string
	Log       *zap.Logger
}

func (f *FallbackResolver) Resolve(ctx context.Context, dish models.Dish) (string, error) {
	for _, r := range f.Resolvers {
		if ctx.Err() != nil {
			break
		}
		url, err := r.Resolve(ctx, dish)
		if err != nil {
			f.Log.Warn("image resolver failed", zap.Int("dish_id", dish.ID), zap.Error(err))
			continue
		}
		if url != "" {
			return url, nil
		}
	}
	return f.Fallback, nil
}

// ResolveImages returns a copy of dishes with Image replaced by the resolved URL.
// A dish keeps its original Image when the resolver fails.
func ResolveImages(ctx context.Context, r ImageResolver, dishes []models.Dish) []models.Dish {
	out := make([]models.Dish, len(dishes))
	for i, d := range dishes {
		if url, err := r.Resolve(ctx, d); err == nil && url != "" {
			d.Image = url
		}
		out[i] = d
	}
	return out
}
