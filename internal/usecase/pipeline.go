package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ShoppingAssistant/internal/composer"
	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/engine"
	"ShoppingAssistant/internal/metrics"
	"ShoppingAssistant/internal/ports"
)

// DefaultShareTTL is how long a shared list stays retrievable.
const DefaultShareTTL = 7 * 24 * time.Hour

// Pipeline stages reported to metrics.
const (
	StageCatalog = "catalog"
	StagePlan    = "plan"
	StagePolish  = "polish"
)

// ErrSharingDisabled is returned by Share and Shared without a list store.
var ErrSharingDisabled = errors.New("list sharing is not configured")

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Catalog   ports.CatalogReader
	Engine    *engine.Engine
	Phraser   ports.Phraser
	Lists     ports.ListStore
	Publisher ports.Publisher
	Metrics   ports.Metrics
	ShareTTL  time.Duration
	Logger    *slog.Logger
}

// Reply is the answer to one user message. Result is nil for greetings.
type Reply struct {
	Message  composer.Message `json:"reply"`
	Result   *engine.Result   `json:"result,omitempty"`
	Polished bool             `json:"polished"`
}

// Pipeline implements the query-handling workflow.
type Pipeline struct {
	catalog   ports.CatalogReader
	engine    *engine.Engine
	phraser   ports.Phraser
	lists     ports.ListStore
	publisher ports.Publisher
	metrics   ports.Metrics
	shareTTL  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	eng := deps.Engine
	if eng == nil {
		eng = engine.New(deps.Logger, engine.Options{})
	}
	ttl := deps.ShareTTL
	if ttl <= 0 {
		ttl = DefaultShareTTL
	}
	logger := deps.Logger
	if logger != nil {
		logger = logger.With("component", "pipeline")
	}
	return &Pipeline{
		catalog:   deps.Catalog,
		engine:    eng,
		phraser:   deps.Phraser,
		lists:     deps.Lists,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		shareTTL:  ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// Handle answers one message: a greeting for small talk, otherwise a
// planned list and its composed reply. It fails only when no catalog can
// be read.
func (p *Pipeline) Handle(ctx context.Context, query string, hints domain.Hints) (Reply, error) {
	intent := p.engine.Classify(query, hints)
	if !intent.Shopping {
		p.observeRequest("", metrics.OutcomeGreeting)
		return Reply{Message: composer.Greeting(query)}, nil
	}

	started := p.now()
	products, err := p.products(ctx)
	p.observeStage(StageCatalog, started)
	if err != nil {
		p.observeRequest(intent.Archetype, metrics.OutcomeError)
		return Reply{}, fmt.Errorf("read catalog: %w", err)
	}

	started = p.now()
	result := p.engine.Plan(query, hints, products)
	p.observeStage(StagePlan, started)

	outcome := metrics.OutcomeList
	if result.List.Empty() {
		outcome = metrics.OutcomeEmpty
	}
	p.observeRequest(result.Intent.Archetype, outcome)
	if p.metrics != nil {
		p.metrics.ObserveList(result.List, result.Report.Corrected, result.Report.FillUpUnits)
	}

	reply := Reply{
		Message: composer.Compose(query, result.List, result.Ranked),
		Result:  &result,
	}
	if !result.List.Empty() {
		reply.Message.Text, reply.Polished = p.polish(ctx, query, reply.Message.Text)
	}

	p.debug("query handled",
		"archetype", result.Intent.Archetype,
		"items", result.List.ItemCount,
		"total", result.List.TotalCost,
		"polished", reply.Polished,
	)
	return reply, nil
}

// Share stores the list and returns its id. With a publisher configured
// the list summary is also posted; a failed post does not fail the share.
func (p *Pipeline) Share(ctx context.Context, list domain.ShoppingList) (string, error) {
	if p.lists == nil {
		return "", ErrSharingDisabled
	}
	if list.Empty() {
		return "", fmt.Errorf("cannot share an empty list")
	}
	if strings.TrimSpace(list.ID) == "" {
		list.ID = engine.ListID(list)
	}
	if err := p.lists.SaveList(ctx, list, p.shareTTL); err != nil {
		return "", fmt.Errorf("share list: %w", err)
	}

	if p.publisher != nil {
		text := fmt.Sprintf("%s\n\n%s\nid: %s", composer.ShareText(list), composer.ExportText(list), list.ID)
		if err := p.publisher.Publish(ctx, text); err != nil {
			p.warn("publish shared list", "id", list.ID, "error", err)
		}
	}
	return list.ID, nil
}

// Shared loads a previously shared list.
func (p *Pipeline) Shared(ctx context.Context, id string) (domain.ShoppingList, error) {
	if p.lists == nil {
		return domain.ShoppingList{}, ErrSharingDisabled
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ShoppingList{}, fmt.Errorf("list id: %w", domain.ErrListNotFound)
	}
	return p.lists.LoadList(ctx, id)
}

func (p *Pipeline) products(ctx context.Context) ([]domain.Product, error) {
	if p.catalog == nil {
		return nil, domain.ErrCatalogUnavailable
	}
	return p.catalog.Products(ctx)
}

// polish keeps the draft whenever the phraser is missing or fails.
func (p *Pipeline) polish(ctx context.Context, query, draft string) (string, bool) {
	if p.phraser == nil {
		return draft, false
	}

	started := p.now()
	text, err := p.phraser.Polish(ctx, query, draft)
	p.observeStage(StagePolish, started)
	if err != nil {
		p.warn("polish failed, using draft", "error", err)
		return draft, false
	}
	return text, true
}

func (p *Pipeline) observeRequest(archetype, outcome string) {
	if p.metrics != nil {
		p.metrics.ObserveRequest(archetype, outcome)
	}
}

func (p *Pipeline) observeStage(stage string, started time.Time) {
	if p.metrics != nil {
		p.metrics.ObserveStage(stage, p.now().Sub(started))
	}
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
