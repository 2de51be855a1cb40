package image

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"imageforge/internal/style"
)

// Mode selects the generation task kind.
type Mode string

const (
	ModeTextToImage  Mode = "text_to_image"
	ModeImageToImage Mode = "image_to_image"
)

// Origin marks whether a result came from the remote backend or the local
// fallback synthesizer.
type Origin string

const (
	OriginRemote        Origin = "remote"
	OriginLocalFallback Origin = "local_fallback"
)

// ErrValidation wraps request-shape failures. These are surfaced immediately
// and never trigger a fallback generation.
var ErrValidation = errors.New("image: invalid request")

// GenerationRequest describes one normalized image generation request.
type GenerationRequest struct {
	BasePrompt     string
	StyleKey       string
	Quality        style.Quality
	NegativePrompt string
	ExtraDetail    string
	Locale         string
	// Seed, once assigned (explicit or generated), is immutable for the
	// lifetime of the request and echoed into the output filename.
	Seed               *uint32
	Mode               Mode
	ReferenceImagePath string
	// UseMock forces the local synthesizer regardless of credentials.
	UseMock   bool
	RequestID string
}

// Validate checks the request shape. It never inspects configuration or the
// network.
func (r *GenerationRequest) Validate() error {
	if strings.TrimSpace(r.BasePrompt) == "" {
		return fmt.Errorf("%w: prompt is required", ErrValidation)
	}
	switch r.Mode {
	case "", ModeTextToImage:
	case ModeImageToImage:
		if strings.TrimSpace(r.ReferenceImagePath) == "" {
			return fmt.Errorf("%w: image-to-image mode requires a reference image", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unsupported mode %q", ErrValidation, r.Mode)
	}
	return nil
}

// NormalizeMode sanitizes free-form input into a supported task kind.
func NormalizeMode(mode string) Mode {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case string(ModeImageToImage), "i2i":
		return ModeImageToImage
	default:
		return ModeTextToImage
	}
}

// GenerationResult is returned to the caller. Exactly one artifact file
// exists per successful call.
type GenerationResult struct {
	ArtifactPath string
	Seed         uint32
	Origin       Origin
	JobID        string
}

// Generator is the contract implemented by all image providers.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
}
