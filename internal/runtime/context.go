package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"stackit.dev/restack/internal/checkpoint"
	"stackit.dev/restack/internal/config"
	"stackit.dev/restack/internal/engine"
	restackerrors "stackit.dev/restack/internal/errors"
	"stackit.dev/restack/internal/git"
	"stackit.dev/restack/internal/github"
	"stackit.dev/restack/internal/tui"
)

// Context provides access to engine, stores and output for commands
type Context struct {
	Context       context.Context
	Engine        engine.Engine
	Git           *git.Repository
	Splog         *tui.Splog
	RepoRoot      string
	Config        *config.RepoConfig
	Checkpoints   checkpoint.Store
	MergeDetector *engine.MergeDetector
	Confirmer     tui.Confirmer
	// Reviews is nil when no review platform is configured
	Reviews github.Client
}

// Options configures NewContext
type Options struct {
	// Fs backs the config and the file checkpoint store. Defaults to the OS filesystem.
	Fs        afero.Fs
	Splog     *tui.Splog
	Confirmer tui.Confirmer
	Reviews   github.Client
	// AllowUninitialized skips the initialized-repo check, for init itself.
	AllowUninitialized bool
}

// NewContext opens the repository containing path and wires every component
func NewContext(ctx context.Context, path string, opts Options) (*Context, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Splog == nil {
		opts.Splog = tui.NewSplog()
	}
	if opts.Confirmer == nil {
		opts.Confirmer = tui.NewSurveyConfirmer()
	}

	repo, err := git.OpenRepository(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	loader := config.NewLoader(opts.Fs, repo.GitDir())
	if !opts.AllowUninitialized && !loader.IsInitialized() {
		return nil, restackerrors.NewPreconditionsFailedError(restackerrors.ErrNotInitialized, "restack is not initialized. Run 'restack init' first")
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	eng, err := engine.NewEngine(ctx, engine.Options{
		Git:             repo,
		Trunk:           cfg.Trunk,
		IgnoredBranches: cfg.IgnoreBranches,
	})
	if err != nil {
		return nil, err
	}

	store, err := checkpoint.Open(checkpoint.Backend(cfg.CheckpointBackend), opts.Fs, repo.GitDir())
	if err != nil {
		return nil, err
	}

	splog := opts.Splog
	detector := engine.NewMergeDetector(eng, repo, engine.WithInconclusiveHandler(func(branchName, heuristic string, err error) {
		splog.Debug("Merge check %q for %s was inconclusive: %v", heuristic, branchName, err)
	}))

	return &Context{
		Context:       ctx,
		Engine:        eng,
		Git:           repo,
		Splog:         splog,
		RepoRoot:      repo.Root(),
		Config:        cfg,
		Checkpoints:   store,
		MergeDetector: detector,
		Confirmer:     opts.Confirmer,
		Reviews:       opts.Reviews,
	}, nil
}

// Close releases the checkpoint store
func (c *Context) Close() error {
	if c.Checkpoints == nil {
		return nil
	}
	err := c.Checkpoints.Close()
	if errors.Is(err, checkpoint.ErrStoreClosed) {
		return nil
	}
	return err
}
