package imageprocessor

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"texturematch/logging"

	"gocv.io/x/gocv"
)

// ImageLoaderRegistry maintains a registry of image loaders
type ImageLoaderRegistry struct {
	loaders        map[string]ImageLoader
	fallbackLoader ImageLoader
	mutex          sync.RWMutex
}

// NewImageLoaderRegistry creates a new image loader registry
func NewImageLoaderRegistry() *ImageLoaderRegistry {
	registry := &ImageLoaderRegistry{
		loaders: make(map[string]ImageLoader),
	}

	registry.registerStandardLoaders()

	return registry
}

// registerStandardLoaders registers loaders for the supported formats
func (r *ImageLoaderRegistry) registerStandardLoaders() {
	standardLoader := NewStandardImageLoader()
	goLoader := NewGoImageLoader()

	r.RegisterLoader(".jpg", standardLoader)
	r.RegisterLoader(".jpeg", standardLoader)
	r.RegisterLoader(".png", standardLoader)
	r.RegisterLoader(".bmp", standardLoader)
	r.RegisterLoader(".tif", standardLoader)
	r.RegisterLoader(".tiff", standardLoader)
	r.RegisterLoader(".webp", standardLoader)
	r.RegisterLoader(".gif", goLoader)

	r.fallbackLoader = goLoader
}

// RegisterLoader registers a new loader for a specific file extension
func (r *ImageLoaderRegistry) RegisterLoader(ext string, loader ImageLoader) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.loaders[strings.ToLower(ext)] = loader
}

// GetLoader returns the loader registered for the path's extension
func (r *ImageLoaderRegistry) GetLoader(path string) ImageLoader {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if loader, ok := r.loaders[strings.ToLower(filepath.Ext(path))]; ok {
		return loader
	}
	return nil
}

// LoadImage loads an image using the appropriate registered loader, falling
// back to the Go decoders when the primary loader fails
func (r *ImageLoaderRegistry) LoadImage(path string) (gocv.Mat, error) {
	loader := r.GetLoader(path)
	if loader == nil {
		return gocv.NewMat(), fmt.Errorf("no suitable loader found for: %s", path)
	}

	img, err := loader.LoadImage(path)
	if err == nil {
		return img, nil
	}

	r.mutex.RLock()
	fallback := r.fallbackLoader
	r.mutex.RUnlock()

	if fallback == nil || fallback == loader || !fallback.CanLoad(path) {
		return img, err
	}

	logging.DebugLog("Primary loader failed for %s (%v), trying Go decoders", path, err)
	img.Close()
	return fallback.LoadImage(path)
}

var defaultRegistry = NewImageLoaderRegistry()

// LoadImage loads an image as BGRA using the default registry
func LoadImage(path string) (gocv.Mat, error) {
	return defaultRegistry.LoadImage(path)
}
