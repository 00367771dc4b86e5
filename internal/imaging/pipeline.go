package imaging

import (
	"context"
	"errors"
	"fmt"
	"image"

	"golang.org/x/sync/semaphore"

	"github.com/aimd54/wardrobe-stylist/internal/config"
	"github.com/aimd54/wardrobe-stylist/internal/metrics"
	"github.com/aimd54/wardrobe-stylist/internal/service/color"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
)

// Processed is a garment image ready to be stored.
type Processed struct {
	PNG      []byte
	Width    int
	Height   int
	Color    color.Label
	Degraded bool // background removal failed and the original was kept
}

// Pipeline runs uploads through background removal, cropping and color
// classification. At most Workers images are processed at once.
type Pipeline struct {
	remover BackgroundRemover
	sem     *semaphore.Weighted
	maxDim  int
	log     *logger.Logger
}

// NewPipeline creates a new image pipeline. A nil remover skips background
// removal and classifies the photo as it is.
func NewPipeline(remover BackgroundRemover, cfg *config.ImagingConfig, log *logger.Logger) *Pipeline {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Pipeline{
		remover: remover,
		sem:     semaphore.NewWeighted(int64(workers)),
		maxDim:  cfg.MaxDimension,
		log:     log,
	}
}

// Process turns an uploaded photo into a stored image. original is the
// decoded form of raw. Failures of the removal step never fail the call:
// the original photo is kept and its color is Unknown.
func (p *Pipeline) Process(ctx context.Context, original image.Image, raw []byte) (*Processed, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("image pipeline unavailable: %w", err)
	}
	defer p.sem.Release(1)

	if p.remover == nil {
		return p.finish(original, false)
	}

	garment, err := p.cutOut(ctx, raw)
	if err != nil {
		if errors.Is(err, ErrRemoverDisabled) {
			return p.finish(original, false)
		}
		p.log.Warn().Err(err).Msg("Background removal failed, keeping original image")
		metrics.RecordPipelineDegraded()
		return p.finish(original, true)
	}

	return p.finish(garment, false)
}

func (p *Pipeline) cutOut(ctx context.Context, raw []byte) (image.Image, error) {
	out, err := p.remover.RemoveBackground(ctx, raw)
	if err != nil {
		return nil, err
	}
	img, err := Decode(out)
	if err != nil {
		return nil, err
	}
	return CropToContent(img), nil
}

// finish scales img for storage and classifies the stored bitmap, so the
// label always describes exactly what was saved.
func (p *Pipeline) finish(img image.Image, degraded bool) (*Processed, error) {
	img = Fit(img, p.maxDim)
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	label := color.Unknown
	if !degraded {
		label = color.Classify(img)
	}
	b := img.Bounds()
	return &Processed{
		PNG:      data,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Color:    label,
		Degraded: degraded,
	}, nil
}
