package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dxworks/honeydew/internal/parser"
	"github.com/dxworks/honeydew/pkg/models"
)

// Engine turns a raw fact repository into a fully linked graph.
type Engine struct {
	registry *parser.Registry
	workers  int
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets how many projects a pass processes concurrently.
// Values below 1 mean sequential.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = 1
		}
		e.workers = n
	}
}

// NewEngine returns an Engine that picks language adapters from registry.
// The registry must hold at least one adapter.
func NewEngine(registry *parser.Registry, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{registry: registry, workers: 1, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// run is the state of one Link call. Nothing in it outlives the call.
type run struct {
	raw      *parser.Repository
	parsers  *parser.Registry
	repo     *models.Repository
	tree     *NamespaceTree
	entities *EntityRegistry
	projects []*projectState
	byPath   map[string]*projectState
	names    map[string][]indexedEntity
	logger   *slog.Logger

	// linkMu guards reverse edge lists, members added to stand-ins and
	// implicit constructors.
	linkMu        sync.Mutex
	implicit      map[*models.Class]*models.Method
	implicitOrder []*models.Class
}

// projectState pairs the linked project with its raw facts.
type projectState struct {
	raw     *parser.Project
	project *models.Project
	adapter parser.Adapter

	files      []*filePair
	decls      []*declPair
	partials   map[registryKey][]models.Entity
	methods    map[*models.Method]*parser.Method
	properties map[*models.Property]*parser.Property
}

type filePair struct {
	file *models.File
	unit *parser.CompilationUnit
}

type declPair struct {
	entity models.Entity
	raw    *parser.Declaration
	file   *filePair
	hints  []string
}

// pass is one barrier-separated phase. before and after run once on the
// calling goroutine; project runs for every project, possibly concurrently.
type pass struct {
	name    string
	before  func(*run)
	project func(*run, *projectState)
	after   func(*run)
}

var passes = []pass{
	{name: "assemble", before: (*run).createProjects, project: (*run).assembleProject, after: (*run).connectProjects},
	{name: "references", project: (*run).resolveReferences, after: (*run).refreshRoots},
	{name: "members", project: (*run).populateMembers},
	{name: "calls", project: (*run).linkCalls, after: (*run).attachImplicitConstructors},
}

// Link builds the linked graph for raw. A nil raw yields an empty
// repository. The only error is cancellation of ctx, checked between passes.
func (e *Engine) Link(ctx context.Context, raw *parser.Repository) (*models.Repository, error) {
	if raw == nil {
		return &models.Repository{}, nil
	}

	r := &run{
		raw:      raw,
		parsers:  e.registry,
		repo:     &models.Repository{Version: raw.Version},
		tree:     NewNamespaceTree(),
		entities: NewEntityRegistry(),
		byPath:   make(map[string]*projectState),
		logger:   e.logger,
	}

	for _, p := range passes {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("link canceled before %s: %w", p.name, err)
		}
		start := time.Now()
		e.logger.Debug("pass started", slog.String("pass", p.name))

		if p.before != nil {
			p.before(r)
		}
		if err := e.forEachProject(ctx, r, p.project); err != nil {
			return nil, fmt.Errorf("pass %s: %w", p.name, err)
		}
		if p.after != nil {
			p.after(r)
		}

		e.logger.Debug("pass completed",
			slog.String("pass", p.name),
			slog.Duration("duration", time.Since(start)),
		)
	}

	r.repo.CreatedEntities = r.entities.Created()

	stats := Summarize(r.repo)
	e.logger.Info("repository linked",
		slog.Int("projects", stats.Projects),
		slog.Int("entities", stats.Entities),
		slog.Int("calls", stats.Calls),
		slog.Int("accesses", stats.Accesses),
		slog.Int("created", stats.Created),
	)
	return r.repo, nil
}

func (e *Engine) forEachProject(ctx context.Context, r *run, fn func(*run, *projectState)) error {
	if e.workers <= 1 {
		for _, ps := range r.projects {
			fn(r, ps)
		}
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, ps := range r.projects {
		g.Go(func() error {
			fn(r, ps)
			return nil
		})
	}
	return g.Wait()
}

// createProjects allocates every Project up front so that pass 1 can run
// per project without touching Repository.Projects.
func (r *run) createProjects() {
	for _, raw := range r.raw.Projects {
		if raw == nil {
			continue
		}
		p := &models.Project{
			Name:       raw.Name,
			FilePath:   raw.FilePath,
			Language:   raw.Language,
			Repository: r.repo,
		}
		ps := &projectState{
			raw:        raw,
			project:    p,
			adapter:    r.parsers.AdapterFor(raw.Language),
			partials:   make(map[registryKey][]models.Entity),
			methods:    make(map[*models.Method]*parser.Method),
			properties: make(map[*models.Property]*parser.Property),
		}
		r.repo.Projects = append(r.repo.Projects, p)
		r.projects = append(r.projects, ps)
		if _, dup := r.byPath[raw.FilePath]; !dup {
			r.byPath[raw.FilePath] = ps
		}
	}
}

func (r *run) refreshRoots() {
	r.repo.Namespaces = r.tree.Roots()
}
