package config

import (
	"sync"
	"time"
)

// CullingSettings holds the instance culling configuration
type CullingSettings struct {
	mu               sync.RWMutex
	maxLeafSize      int
	maxDepth         int
	splitStrategy    string
	perObjectCulling bool
}

var globalCullingSettings = &CullingSettings{
	maxLeafSize:      10,
	maxDepth:         40,
	splitStrategy:    "center",
	perObjectCulling: true,
}

// GetMaxLeafSize returns the largest number of instances a tree leaf may hold before it is split
func GetMaxLeafSize() int {
	globalCullingSettings.mu.RLock()
	defer globalCullingSettings.mu.RUnlock()
	return globalCullingSettings.maxLeafSize
}

// SetMaxLeafSize sets the leaf size limit
func SetMaxLeafSize(size int) {
	globalCullingSettings.mu.Lock()
	defer globalCullingSettings.mu.Unlock()

	// Clamp to reasonable values
	if size < 1 {
		size = 1
	}
	if size > 1<<16 {
		size = 1 << 16
	}

	globalCullingSettings.maxLeafSize = size
}

// GetMaxDepth returns the tree depth limit
func GetMaxDepth() int {
	globalCullingSettings.mu.RLock()
	defer globalCullingSettings.mu.RUnlock()
	return globalCullingSettings.maxDepth
}

// SetMaxDepth sets the tree depth limit
func SetMaxDepth(depth int) {
	globalCullingSettings.mu.Lock()
	defer globalCullingSettings.mu.Unlock()

	if depth < 1 {
		depth = 1
	}
	if depth > 64 {
		depth = 64
	}

	globalCullingSettings.maxDepth = depth
}

// GetSplitStrategy returns the name of the tree split strategy
func GetSplitStrategy() string {
	globalCullingSettings.mu.RLock()
	defer globalCullingSettings.mu.RUnlock()
	return globalCullingSettings.splitStrategy
}

// SetSplitStrategy sets the tree split strategy by name. Unknown names are
// rejected when the tree is built, not here.
func SetSplitStrategy(name string) {
	globalCullingSettings.mu.Lock()
	defer globalCullingSettings.mu.Unlock()
	globalCullingSettings.splitStrategy = name
}

// GetPerObjectCulling returns whether new meshes cull each instance against the frustum
func GetPerObjectCulling() bool {
	globalCullingSettings.mu.RLock()
	defer globalCullingSettings.mu.RUnlock()
	return globalCullingSettings.perObjectCulling
}

// SetPerObjectCulling sets the per-instance culling default for new meshes
func SetPerObjectCulling(enabled bool) {
	globalCullingSettings.mu.Lock()
	defer globalCullingSettings.mu.Unlock()
	globalCullingSettings.perObjectCulling = enabled
}

// RuntimeSettings holds frame loop configuration
type RuntimeSettings struct {
	mu                 sync.RWMutex
	fpsLimit           int
	slowFrameThreshold time.Duration
}

var globalRuntimeSettings = &RuntimeSettings{
	fpsLimit:           0, // unlimited
	slowFrameThreshold: 50 * time.Millisecond,
}

// GetFPSLimit returns the frame rate cap, 0 meaning unlimited
func GetFPSLimit() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.fpsLimit
}

// SetFPSLimit sets the frame rate cap
func SetFPSLimit(limit int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()

	if limit < 0 {
		limit = 0
	}
	if limit > 1000 {
		limit = 1000
	}

	globalRuntimeSettings.fpsLimit = limit
}

// GetSlowFrameThreshold returns the frame duration above which a frame is logged
func GetSlowFrameThreshold() time.Duration {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.slowFrameThreshold
}

// SetSlowFrameThreshold sets the slow frame threshold
func SetSlowFrameThreshold(d time.Duration) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()

	if d < time.Millisecond {
		d = time.Millisecond
	}

	globalRuntimeSettings.slowFrameThreshold = d
}
