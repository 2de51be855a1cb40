// Command generate runs one image generation from the command line and
// prints the artifact path.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"imageforge/internal/builder"
	"imageforge/internal/infra"
	"imageforge/internal/providers/image"
	"imageforge/internal/style"
)

func main() {
	promptFlag := flag.String("prompt", "", "image description")
	styleFlag := flag.String("style", "", "style key, e.g. 水彩")
	qualityFlag := flag.String("quality", "standard", "standard, hd or ultrahd")
	negativeFlag := flag.String("negative", "", "negative prompt")
	detailFlag := flag.String("detail", "", "extra detail appended to the prompt")
	seedFlag := flag.Uint64("seed", 0, "seed (omit for a random one)")
	referenceFlag := flag.String("reference", "", "reference image path (enables image-to-image)")
	mockFlag := flag.Bool("mock", false, "skip the remote backend")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	pipeline, err := builder.Build(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build generation pipeline")
	}

	req := image.GenerationRequest{
		BasePrompt:     *promptFlag,
		StyleKey:       *styleFlag,
		Quality:        style.ParseQuality(*qualityFlag),
		NegativePrompt: *negativeFlag,
		ExtraDetail:    *detailFlag,
		UseMock:        *mockFlag,
	}
	req.Seed = explicitSeed(flag.CommandLine, *seedFlag)
	if *referenceFlag != "" {
		req.Mode = image.ModeImageToImage
		req.ReferenceImagePath = *referenceFlag
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, err := pipeline.Generator.Generate(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("generation failed")
		os.Exit(1)
	}
	fmt.Printf("%s (origin=%s seed=%d)\n", result.ArtifactPath, result.Origin, result.Seed)
}

// explicitSeed returns the seed only when the flag was actually passed, so
// zero stays a requestable value and an omitted flag means random.
func explicitSeed(fs *flag.FlagSet, value uint64) *uint32 {
	var set bool
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			set = true
		}
	})
	if !set {
		return nil
	}
	seed := uint32(value)
	return &seed
}
