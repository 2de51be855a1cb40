package image

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"imageforge/internal/infra"
	"imageforge/internal/providers/prompt"
	"imageforge/internal/providers/runninghub"
	"imageforge/internal/storage"
	"imageforge/internal/style"
)

// RemoteClient is the subset of the RunningHub client the orchestrator uses.
type RemoteClient interface {
	HasCredentials() bool
	Upload(ctx context.Context, path string) (*runninghub.UploadedAsset, error)
	CreateJob(ctx context.Context, workflowID int64, nodes []runninghub.NodeAssignment, negativePrompt string) (*runninghub.Job, error)
	FetchOutputs(ctx context.Context, taskID, clientID string) ([]runninghub.Output, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// JobWaiter drives a submitted job to a terminal state.
type JobWaiter interface {
	Wait(ctx context.Context, job *runninghub.Job) (runninghub.State, error)
}

// Translator converts prompt text for the remote backend. Implementations
// are best-effort and never fail.
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// GeneratorConfig wires the remote generation pipeline.
type GeneratorConfig struct {
	Client     RemoteClient
	Poller     JobWaiter
	Translator Translator
	Enhancer   *prompt.Enhancer
	Styles     *style.Registry
	Store      *storage.ArtifactStore
	Fallback   Generator
	WorkflowID string
	Workflow   runninghub.WorkflowConfig
	Logger     *infra.Logger
}

// RunningHubGenerator is the single public entry point of the generation
// core. It decides between the remote path and the local synthesizer, wires
// enhancer, translator, remote client and poller, and converts every
// non-validation failure into a fallback synthesis. Callers always receive
// an artifact or an explicit validation error, never a bare network error.
type RunningHubGenerator struct {
	client     RemoteClient
	poller     JobWaiter
	translator Translator
	enhancer   *prompt.Enhancer
	styles     *style.Registry
	store      *storage.ArtifactStore
	fallback   Generator
	workflowID string
	workflow   runninghub.WorkflowConfig
	logger     *infra.Logger
}

// NewRunningHubGenerator builds the orchestrator from its collaborators.
func NewRunningHubGenerator(cfg GeneratorConfig) *RunningHubGenerator {
	logger := cfg.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &RunningHubGenerator{
		client:     cfg.Client,
		poller:     cfg.Poller,
		translator: cfg.Translator,
		enhancer:   cfg.Enhancer,
		styles:     cfg.Styles,
		store:      cfg.Store,
		fallback:   cfg.Fallback,
		workflowID: strings.TrimSpace(cfg.WorkflowID),
		workflow:   cfg.Workflow,
		logger:     logger,
	}
}

// Generate fulfils the Generator interface.
func (g *RunningHubGenerator) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	seed := ResolveSeed(&req)

	if req.UseMock || g.client == nil || !g.client.HasCredentials() {
		g.logger.Info().Bool("use_mock", req.UseMock).Msg("image: using local synthesizer")
		return g.fallback.Generate(ctx, req)
	}

	workflowID, err := parseWorkflowID(g.workflowID)
	if err != nil {
		return nil, err
	}

	result, err := g.generateRemote(ctx, req, workflowID, seed)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		g.logger.Error().Err(err).Uint32("seed", seed).Msg("image: remote generation failed, falling back")
		return g.fallback.Generate(ctx, req)
	}
	return result, nil
}

var _ Generator = (*RunningHubGenerator)(nil)

func (g *RunningHubGenerator) generateRemote(ctx context.Context, req GenerationRequest, workflowID int64, seed uint32) (*GenerationResult, error) {
	desc := g.styles.Resolve(req.StyleKey)
	enhanced := g.enhancer.Enhance(req.BasePrompt, req.StyleKey, req.ExtraDetail, req.Locale)
	promptText := enhanced
	if g.translator != nil {
		promptText = g.translator.Translate(ctx, enhanced)
	}

	nodes, err := g.nodeAssignments(ctx, req, promptText, seed)
	if err != nil {
		return nil, err
	}

	job, err := g.client.CreateJob(ctx, workflowID, nodes, req.NegativePrompt)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	state, err := g.poller.Wait(ctx, job)
	if state != runninghub.StateSucceeded {
		if err == nil {
			err = fmt.Errorf("job ended in state %s", state)
		}
		return nil, fmt.Errorf("wait for job %s: %w", job.TaskID, err)
	}

	outputs, err := g.client.FetchOutputs(ctx, job.TaskID, job.ClientID)
	if err != nil {
		return nil, fmt.Errorf("fetch outputs of job %s: %w", job.TaskID, err)
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("%w: job %s produced no outputs", runninghub.ErrProtocol, job.TaskID)
	}

	first := outputs[0]
	data, err := g.client.Download(ctx, first.FileURL)
	if err != nil {
		return nil, fmt.Errorf("download artifact of job %s: %w", job.TaskID, err)
	}
	ext := strings.TrimPrefix(strings.TrimSpace(first.FileType), ".")
	if ext == "" {
		ext = "png"
	}
	name := fmt.Sprintf("rh_%d_%d.%s", time.Now().Unix(), seed, ext)
	path, err := g.store.Write(ctx, name, data)
	if err != nil {
		return nil, fmt.Errorf("persist artifact of job %s: %w", job.TaskID, err)
	}
	g.logger.Info().
		Str("artifact", path).
		Str("task_id", job.TaskID).
		Uint32("seed", seed).
		Str("style", desc.Key).
		Msg("image: remote artifact downloaded")
	return &GenerationResult{ArtifactPath: path, Seed: seed, Origin: OriginRemote, JobID: job.TaskID}, nil
}

// nodeAssignments resolves which workflow node receives each input. Fields
// with a documented default substitute it with a warning; the reference
// image field has no default and must be mapped.
func (g *RunningHubGenerator) nodeAssignments(ctx context.Context, req GenerationRequest, promptText string, seed uint32) ([]runninghub.NodeAssignment, error) {
	var nodes []runninghub.NodeAssignment

	if req.Mode == ModeImageToImage {
		imageNode, ok := g.workflow.NodeFor("image")
		if !ok {
			return nil, fmt.Errorf("%w: workflow has no node mapped to field \"image\"", runninghub.ErrProtocol)
		}
		asset, err := g.client.Upload(ctx, req.ReferenceImagePath)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, runninghub.NodeAssignment{
			NodeID:     imageNode,
			FieldName:  "image",
			FieldValue: asset.FileName,
		})
	}

	nodes = append(nodes,
		runninghub.NodeAssignment{NodeID: g.resolveNode("text"), FieldName: "text", FieldValue: promptText},
		runninghub.NodeAssignment{NodeID: g.resolveNode("seed"), FieldName: "seed", FieldValue: int64(seed)},
	)
	return nodes, nil
}

func (g *RunningHubGenerator) resolveNode(field string) string {
	if id, ok := g.workflow.NodeFor(field); ok {
		return id
	}
	id, _ := runninghub.DefaultNodeID(field)
	g.logger.Warn().Str("field", field).Str("node_id", id).Msg("image: workflow missing node mapping, using default")
	return id
}

func parseWorkflowID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: malformed workflow id %q", ErrValidation, raw)
	}
	return id, nil
}
