package backend

import (
	"fmt"
	"sync/atomic"
)

// Stats is the evaluation's mutable stats sink: five atomic counters a
// Context hands to every operation in a single-evaluation traversal.
// Zero-valued Stats is ready to use.
type Stats struct {
	visitedFilters     atomic.Int64
	cacheHits          atomic.Int64
	offscreenSurfaces  atomic.Int64
	shaderClampedDraws atomic.Int64
	shaderTiledDraws   atomic.Int64
}

func (s *Stats) AddVisitedFilter()     { s.visitedFilters.Add(1) }
func (s *Stats) AddCacheHit()          { s.cacheHits.Add(1) }
func (s *Stats) AddOffscreenSurface()  { s.offscreenSurfaces.Add(1) }
func (s *Stats) AddShaderClampedDraw() { s.shaderClampedDraws.Add(1) }
func (s *Stats) AddShaderTiledDraw()   { s.shaderTiledDraws.Add(1) }

func (s *Stats) VisitedFilters() int64     { return s.visitedFilters.Load() }
func (s *Stats) CacheHits() int64          { return s.cacheHits.Load() }
func (s *Stats) OffscreenSurfaces() int64  { return s.offscreenSurfaces.Load() }
func (s *Stats) ShaderClampedDraws() int64 { return s.shaderClampedDraws.Load() }
func (s *Stats) ShaderTiledDraws() int64   { return s.shaderTiledDraws.Load() }

// TextDump renders all five counters as a single human-readable line,
// matching the text-dump half of the spec's "text dump and two trace
// events" exposure.
func (s *Stats) TextDump() string {
	return fmt.Sprintf(
		"visited_filters=%d cache_hits=%d offscreen_surfaces=%d shader_clamped_draws=%d shader_tiled_draws=%d",
		s.VisitedFilters(), s.CacheHits(), s.OffscreenSurfaces(), s.ShaderClampedDraws(), s.ShaderTiledDraws(),
	)
}

// TraceEvent is one of the two trace events the stats sink exposes
// alongside the text dump: a snapshot of filter-visit activity and a
// snapshot of surface/shader activity, each cheap enough to emit per frame.
type TraceEvent struct {
	Name    string
	Counter int64
}

// FilterTraceEvents returns the filter-visit-facing half of the stats:
// visited filters and cache hits.
func (s *Stats) FilterTraceEvents() []TraceEvent {
	return []TraceEvent{
		{Name: "visited_filters", Counter: s.VisitedFilters()},
		{Name: "cache_hits", Counter: s.CacheHits()},
	}
}

// SurfaceTraceEvents returns the surface/shader-facing half of the stats:
// offscreen surfaces, shader-clamped draws, shader-tiled draws.
func (s *Stats) SurfaceTraceEvents() []TraceEvent {
	return []TraceEvent{
		{Name: "offscreen_surfaces", Counter: s.OffscreenSurfaces()},
		{Name: "shader_clamped_draws", Counter: s.ShaderClampedDraws()},
		{Name: "shader_tiled_draws", Counter: s.ShaderTiledDraws()},
	}
}
