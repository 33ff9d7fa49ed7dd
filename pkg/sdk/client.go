package embabel

import (
	"context"
	"fmt"
	"time"

	"github.com/belinwu/embabel-common/internal/domain"
	"github.com/belinwu/embabel-common/internal/domain/search/request"
	"github.com/belinwu/embabel-common/internal/domain/search/result"
	"github.com/belinwu/embabel-common/internal/repository/memory"
	documentuc "github.com/belinwu/embabel-common/internal/usecase/document"
	healthuc "github.com/belinwu/embabel-common/internal/usecase/health"
	searchuc "github.com/belinwu/embabel-common/internal/usecase/search"
)

// Internal interfaces for test substitution.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (result.Results, error)
}

type documentUseCase interface {
	Put(ctx context.Context, doc domain.Document) error
	Get(ctx context.Context, id string) (domain.Document, error)
	Delete(ctx context.Context, id string) error
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the embabel search client entry point.
type Client struct {
	store     *memory.Store
	searchSvc searchUseCase
	docSvc    documentUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client backed by an in-memory document store.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store := memory.New()

	var docEmb domain.Embedder
	var queryEmb domain.Embedder
	if cfg.embedder != nil {
		docEmb = &embedderAdapter{inner: cfg.embedder}
		queryEmb = docEmb
		if cfg.queryInstruction != "" {
			queryEmb = domain.NewInstructionEmbedder(docEmb, cfg.queryInstruction)
		}
	}

	return &Client{
		store:     store,
		searchSvc: searchuc.New(store, queryEmb, nil),
		docSvc:    documentuc.New(store, docEmb, nil),
		healthSvc: healthuc.New(store, nil, nil),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {}

// Ping checks store availability.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Put validates and stores a document. Without an explicit vector the
// document is embedded from its content when an embedder is configured.
func (c *Client) Put(ctx context.Context, doc Document) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("put", start, err) }()

	err = c.docSvc.Put(ctx, domain.Document{
		ID:      doc.ID,
		Content: doc.Content,
		Tags:    doc.Tags,
		Vector:  doc.Vector,
	})
	return err
}

// Get fetches a document by id. Returns ErrNotFound when absent.
func (c *Client) Get(ctx context.Context, id string) (doc Document, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get", start, err) }()

	d, err := c.docSvc.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	return Document{ID: d.ID, Content: d.Content, Tags: d.Tags, Vector: d.Vector}, nil
}

// Delete removes a document by id. Returns ErrNotFound when absent.
func (c *Client) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete", start, err) }()

	return c.docSvc.Delete(ctx, id)
}

// Health checks the health of all components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
