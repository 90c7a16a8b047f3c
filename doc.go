// Package sprout is a procedural branch-growth loading animation for
// [Ebitengine].
//
// A seeded generator lays out branches around a center point. A phase clock
// grows them outward with an ease-out curve, fades them, and restarts. A
// lifecycle controller decides when the loading screen may be dismissed.
// Branch layout is fully deterministic for a given seed and config.
//
// # Quick start
//
// [Preloader] implements [ebiten.Game], so the simplest host is:
//
//	p, err := sprout.Start(sprout.DefaultConfig(), func() { log.Println("done") })
//	if err != nil {
//		log.Fatal(err)
//	}
//	// call p.PageReady() once the real content has loaded
//	ebiten.RunGame(p)
//
// Hosts that own their loop call [Preloader.Tick] and [Preloader.Render]
// directly with any [Surface]:
//
//	p.Tick(time.Now())
//	p.Render(surface)
//
// # Topology
//
// [Generate] builds branches with one of three strategies: radial curved
// branches, snake-like segmented paths, or recursive symmetric splits. The
// random stream is a [Sequence], a small linear congruential generator, so
// the same seed always yields the same picture.
//
// # Timing
//
// A cycle is split into a growth phase and a fade phase by [Clock]. During
// growth every branch reveals a prefix of its path; during fade the full
// path stays in place while opacity drops to zero. [Animation] regenerates
// branches at each cycle boundary.
//
// # Lifecycle
//
// [Lifecycle] keeps the screen up for at least the minimum visible duration,
// then fades out once the page reports ready. If the page never does, the
// maximum visible duration forces completion. The done callback fires
// exactly once.
//
// # Surfaces
//
// [ImageSurface] draws onto an ebiten image with triangle meshes.
// [RasterSurface] draws into an in-memory image with no GPU, for frame
// export and scripted tests. [RecordingSurface] records draw commands for
// assertions.
//
// # Configuration
//
// [LoadConfig] reads a TOML file over [DefaultConfig]. Unknown keys are
// rejected.
//
// # Debugging
//
// [Preloader.SetDebugMode] logs per-frame timings through zap and overlays
// an FPS counter. [LoadTestScript] replays scripted sessions on a virtual
// clock and captures screenshots.
//
// [Ebitengine]: https://ebitengine.org
package sprout
