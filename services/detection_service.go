package services

import (
	"bytes"
	"context"
	"image"
	"math"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/rs/zerolog"

	"github.com/andreicopos/UrbanEye/config"
	"github.com/andreicopos/UrbanEye/detector"
	apiError "github.com/andreicopos/UrbanEye/errors"
	"github.com/andreicopos/UrbanEye/metrics"
	"github.com/andreicopos/UrbanEye/models"
)

const (
	noIssuesLabel   = "Nothing"
	noIssuesSummary = "No issues found"
)

// DetectionService classifies a photo without touching any stored state.
type DetectionService interface {
	Detect(ctx context.Context, image []byte) (*models.DetectionResult, error)
}

type detectionService struct {
	Config     *config.Config
	classifier detector.Classifier
	log        zerolog.Logger
}

func NewDetectionService(classifier detector.Classifier, conf *config.Config, log zerolog.Logger) DetectionService {
	return &detectionService{
		Config:     conf,
		classifier: classifier,
		log:        log.With().Str("component", "detection").Logger(),
	}
}

func (d *detectionService) Detect(ctx context.Context, data []byte) (*models.DetectionResult, error) {
	if len(data) == 0 {
		return nil, apiError.NewValidationError("image", "image is required")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apiError.NewValidationError("image", "image could not be decoded")
	}

	input, scale := d.prepare(img)

	ctx, cancel := context.WithTimeout(ctx, d.Config.DetectTimeout)
	defer cancel()

	start := time.Now()
	out, err := d.classifier.Classify(ctx, input)
	metrics.DetectionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DetectionFailures.Inc()
		d.log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("classifier failed")
		return nil, apiError.NewTransientError("detector", err)
	}

	return normalize(out, img.Bounds().Size(), scale), nil
}

// prepare shrinks large images to the classifier's input size. scale maps
// classifier coordinates back to original pixels.
func (d *detectionService) prepare(img image.Image) (image.Image, float64) {
	limit := d.Config.DetectorInputSize
	size := img.Bounds().Size()
	longest := size.X
	if size.Y > longest {
		longest = size.Y
	}
	if limit <= 0 || longest <= limit {
		return img, 1
	}
	var resized image.Image
	if size.X >= size.Y {
		resized = resize.Resize(uint(limit), 0, img, resize.Bilinear)
	} else {
		resized = resize.Resize(0, uint(limit), img, resize.Bilinear)
	}
	return resized, float64(longest) / float64(limit)
}

func normalize(out *detector.Output, bounds image.Point, scale float64) *models.DetectionResult {
	result := &models.DetectionResult{
		Labels: []string{},
		Boxes:  []models.Box{},
	}
	if out != nil {
		for _, p := range out.Predictions {
			label := out.Label(p.Class)
			x1, x2 := orderedSpan(p.XYXY[0]*scale, p.XYXY[2]*scale, bounds.X)
			y1, y2 := orderedSpan(p.XYXY[1]*scale, p.XYXY[3]*scale, bounds.Y)
			result.Boxes = append(result.Boxes, models.Box{Label: label, X1: x1, Y1: y1, X2: x2, Y2: y2})
			result.Labels = append(result.Labels, label)
		}
	}

	if len(result.Labels) == 0 {
		result.DetectedIssue = noIssuesLabel
		result.Suggestion = noIssuesSummary
		return result
	}
	joined := strings.Join(result.Labels, ", ")
	result.DetectedIssue = joined
	result.Suggestion = "Detected: " + joined
	return result
}

// orderedSpan rounds, clamps to [0, limit] and orders a coordinate pair.
func orderedSpan(a, b float64, limit int) (int, int) {
	lo := clamp(int(math.Round(a)), limit)
	hi := clamp(int(math.Round(b)), limit)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
