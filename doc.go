// Package viewsynth renders virtual views from coded texture and depth of
// base views, for use inside the rate-distortion loop of a multiview
// texture+depth encoder.
//
// A RenderModel owns the base view buffers and a set of models. Each model
// synthesizes one virtual view from a left base view, a right base view or
// both, blended. Besides full-frame synthesis, models answer speculative
// distortion queries: the change of the synthesized view's error if a block
// of depth or texture were replaced. A query never modifies state;
// SetData commits the block.
//
// The package supports:
//   - Left, right and merged models with average, left-dominant and
//     right-dominant blending
//   - Sub-pel shift precision down to a quarter pel
//   - 4:2:0 and 4:4:4 texture at 8 to 14 bits
//   - References taken from the original (uncoded) views
//   - Rendering restricted to a band of lines
//
// Basic usage:
//
//	cfg := viewsynth.DefaultConfig(1024, 768)
//	cfg.NumBaseViews = 2
//	r, err := viewsynth.New(cfg)
//	...
//	err = r.CreateSingleModel(viewsynth.AllViews, viewsynth.ContentDepth, 0, 0, 1, false, viewsynth.BlendAverage)
//	err = r.SetBaseView(0, video0, depth0, nil, nil)
//	err = r.SetBaseView(1, video1, depth1, nil, nil)
//	err = r.SetSingleModel(0, lutL, baseL, lutR, baseR, 128, ref)
//	err = r.SetErrorMode(0, viewsynth.ContentDepth, 0)
//	delta := r.GetDist(x, y, 8, 8, block, 8)
package viewsynth
