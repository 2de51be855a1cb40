package image

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"imageforge/internal/infra"
	"imageforge/internal/storage"
	"imageforge/internal/style"
	"imageforge/internal/synth"
)

// SyntheticGenerator renders images locally with the deterministic
// synthesizer. It serves both as the mock mode and as the fallback target of
// the remote generator.
type SyntheticGenerator struct {
	styles *style.Registry
	store  *storage.ArtifactStore
	logger *infra.Logger
}

// NewSyntheticGenerator wires a local generator against the style registry
// and the artifact store.
func NewSyntheticGenerator(styles *style.Registry, store *storage.ArtifactStore, logger *infra.Logger) *SyntheticGenerator {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &SyntheticGenerator{styles: styles, store: store, logger: logger}
}

// Generate fulfils the Generator interface. Output is reproducible: the same
// request with the same seed produces a byte-identical artifact.
func (g *SyntheticGenerator) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	seed := ResolveSeed(&req)
	desc := g.styles.Resolve(req.StyleKey)

	data, err := synth.Synthesize(req.BasePrompt, desc, req.Quality, seed)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("mock_%d_%d.png", time.Now().Unix(), seed)
	path, err := g.store.Write(ctx, name, data)
	if err != nil {
		return nil, err
	}
	g.logger.Info().
		Str("artifact", path).
		Uint32("seed", seed).
		Str("style", req.StyleKey).
		Msg("image: synthesized local artifact")
	return &GenerationResult{ArtifactPath: path, Seed: seed, Origin: OriginLocalFallback}, nil
}

var _ Generator = (*SyntheticGenerator)(nil)

// ResolveSeed returns the request seed, assigning a random one first if none
// was provided. The assignment is written back so the seed stays immutable
// for the rest of the request's lifetime.
func ResolveSeed(req *GenerationRequest) uint32 {
	if req.Seed == nil {
		seed := rand.Uint32()
		req.Seed = &seed
	}
	return *req.Seed
}
