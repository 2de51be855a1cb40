// Package builder assembles the generation pipeline from configuration.
package builder

import (
	"fmt"

	"imageforge/internal/infra"
	"imageforge/internal/providers/image"
	"imageforge/internal/providers/prompt"
	"imageforge/internal/providers/runninghub"
	"imageforge/internal/providers/translate"
	"imageforge/internal/storage"
	"imageforge/internal/style"
)

// Pipeline is the wired generation core plus the collaborators the outer
// layers need direct access to.
type Pipeline struct {
	Generator image.Generator
	Styles    *style.Registry
	Store     *storage.ArtifactStore
}

// Build wires enhancer, translator, remote client, poller and the local
// synthesizer into one generator. Without remote credentials the returned
// generator simply always takes the local path.
func Build(cfg *infra.Config, logger infra.Logger) (*Pipeline, error) {
	store, err := storage.NewArtifactStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}
	styles := style.NewRegistry()
	synthetic := image.NewSyntheticGenerator(styles, store, &logger)

	if !cfg.HasRemoteCredentials() {
		logger.Warn().Msg("builder: remote credentials missing, all generations will use the local synthesizer")
	}

	workflow, err := runninghub.LoadWorkflowConfig(cfg.WorkflowConfigPath)
	if err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}
	client := runninghub.NewClient(runninghub.Options{
		APIKey:          cfg.RunningHubAPIKey,
		BaseURL:         cfg.RunningHubBaseURL,
		Logger:          &logger,
		InsecureSkipTLS: cfg.InsecureSkipTLS,
		RequestTimeout:  cfg.CallTimeout,
	})
	poller := runninghub.NewPoller(client, runninghub.PollerOptions{
		Interval:    cfg.PollInterval,
		MaxAttempts: cfg.PollAttempts,
		Logger:      &logger,
	})
	translator := translate.NewClient(translate.Options{
		APIKey:         cfg.DashScopeAPIKey,
		BaseURL:        cfg.DashScopeBaseURL,
		Model:          cfg.TranslationModel,
		Logger:         &logger,
		RequestTimeout: cfg.CallTimeout,
	})

	generator := image.NewRunningHubGenerator(image.GeneratorConfig{
		Client:     client,
		Poller:     poller,
		Translator: translator,
		Enhancer:   prompt.NewEnhancer(styles),
		Styles:     styles,
		Store:      store,
		Fallback:   synthetic,
		WorkflowID: cfg.RunningHubWorkflow,
		Workflow:   workflow,
		Logger:     &logger,
	})

	return &Pipeline{Generator: generator, Styles: styles, Store: store}, nil
}
