package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/catalog"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/metrics"
)

var (
	ErrJobNotFound        = errors.New("automation job not found")
	ErrJobAlreadyRunning  = errors.New("another automation job is already running")
	ErrUnknownJobKind     = errors.New("unknown automation job kind")
	ErrMissingImportFile  = errors.New("products file is required for import")
	ErrInvalidImportFile  = errors.New("invalid import file")
	ErrUploadNotAvailable = errors.New("object storage is not configured")
)

const recentJobsLimit = 20

// ObjectPutter is the slice of an object store the upload job needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
}

// ImportFile is one uploaded catalog file.
type ImportFile struct {
	Filename string
	Data     []byte
}

// ImportPayload carries the files for an import job. Collections is optional.
type ImportPayload struct {
	Products    *ImportFile
	Collections *ImportFile
}

type AutomationService interface {
	Run(ctx context.Context, kind model.JobKind, payload *ImportPayload) (*model.AutomationJob, error)
	GetJob(ctx context.Context, id string) (*model.AutomationJob, error)
	ListJobs(ctx context.Context) ([]model.AutomationJob, error)
	Wait()
}

type automationService struct {
	catalog  CatalogService
	jobs     repository.JobRepository
	uploader ObjectPutter
	notifier AdminNotifier
	metrics  *metrics.JobMetrics

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

func NewAutomationService(
	catalogService CatalogService,
	jobRepo repository.JobRepository,
	uploader ObjectPutter,
	notifier AdminNotifier,
	jobMetrics *metrics.JobMetrics,
) AutomationService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &automationService{
		catalog:  catalogService,
		jobs:     jobRepo,
		uploader: uploader,
		notifier: notifier,
		metrics:  jobMetrics,
	}
}

type parsedImport struct {
	products    []catalog.Row
	collections []catalog.Row
}

// Run records a pending job and executes it in the background. Only one job runs at a time.
func (s *automationService) Run(ctx context.Context, kind model.JobKind, payload *ImportPayload) (*model.AutomationJob, error) {
	if !isKnownKind(kind) {
		return nil, ErrUnknownJobKind
	}

	var parsed *parsedImport
	if kind == model.JobKindImport {
		var err error
		if parsed, err = parseImport(payload); err != nil {
			return nil, err
		}
	}
	if kind == model.JobKindUpload && s.uploader == nil {
		return nil, ErrUploadNotAvailable
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		logger.Warn("Automation job rejected, another job is running", map[string]interface{}{
			"kind": kind,
		})
		return nil, ErrJobAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	job := &model.AutomationJob{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		s.release()
		return nil, fmt.Errorf("failed to record automation job: %w", err)
	}

	logger.Info("Automation job queued", map[string]interface{}{
		"job_id": job.ID,
		"kind":   kind,
	})

	queued := *job
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.release()
		s.execute(context.WithoutCancel(ctx), job, parsed)
	}()
	return &queued, nil
}

func (s *automationService) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// Wait blocks until the background job, if any, has finished.
func (s *automationService) Wait() {
	s.wg.Wait()
}

func isKnownKind(kind model.JobKind) bool {
	if kind == model.JobKindImport {
		return true
	}
	for _, k := range model.JobKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func parseImport(payload *ImportPayload) (*parsedImport, error) {
	if payload == nil || payload.Products == nil || len(payload.Products.Data) == 0 {
		return nil, ErrMissingImportFile
	}

	products, err := catalog.ParseFile(payload.Products.Filename, payload.Products.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidImportFile, payload.Products.Filename, err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: %s has no data rows", ErrInvalidImportFile, payload.Products.Filename)
	}

	parsed := &parsedImport{products: products}
	if payload.Collections != nil && len(payload.Collections.Data) > 0 {
		collections, err := catalog.ParseFile(payload.Collections.Filename, payload.Collections.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidImportFile, payload.Collections.Filename, err)
		}
		parsed.collections = collections
	}
	return parsed, nil
}

func (s *automationService) execute(ctx context.Context, job *model.AutomationJob, parsed *parsedImport) {
	started := time.Now()
	job.Status = model.JobStatusRunning
	job.StartedAt = &started
	if err := s.jobs.Update(ctx, job); err != nil {
		logger.Error("Failed to mark automation job running", err, map[string]interface{}{
			"job_id": job.ID,
		})
	}

	processed, message, err := s.dispatch(ctx, job.Kind, parsed)

	finished := time.Now()
	job.FinishedAt = &finished
	job.Processed = processed
	s.metrics.ObserveDuration(string(job.Kind), finished.Sub(started))

	notice := fmt.Sprintf("%s automation completed successfully!", kindTitle(job.Kind))
	if err != nil {
		job.Status = model.JobStatusFailure
		job.Message = err.Error()
		notice = fmt.Sprintf("%s automation failed: %s", kindTitle(job.Kind), err.Error())
		s.metrics.IncFailure(string(job.Kind))
		logger.Error("Automation job failed", err, map[string]interface{}{
			"job_id": job.ID,
			"kind":   job.Kind,
		})
	} else {
		job.Status = model.JobStatusSuccess
		job.Message = message
		s.metrics.IncSuccess(string(job.Kind))
		logger.Info("Automation job completed", map[string]interface{}{
			"job_id":    job.ID,
			"kind":      job.Kind,
			"processed": processed,
			"duration":  finished.Sub(started).String(),
		})
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		logger.Error("Failed to record automation job result", err, map[string]interface{}{
			"job_id": job.ID,
		})
	}
	s.notifier.NotifyAdmins(model.NewNotification(model.NotificationTypeJob, notice, *job))
}

func kindTitle(kind model.JobKind) string {
	k := string(kind)
	if k == "" {
		return k
	}
	return strings.ToUpper(k[:1]) + k[1:]
}

func (s *automationService) dispatch(ctx context.Context, kind model.JobKind, parsed *parsedImport) (int, string, error) {
	switch kind {
	case model.JobKindRefresh:
		return s.refresh(ctx)
	case model.JobKindPurge:
		return s.purge()
	case model.JobKindEnrich:
		return s.enrich()
	case model.JobKindGenerate:
		return s.generate()
	case model.JobKindUpload:
		return s.upload(ctx)
	case model.JobKindImport:
		return s.importCatalog(parsed)
	default:
		return 0, "", ErrUnknownJobKind
	}
}

func (s *automationService) refresh(ctx context.Context) (int, string, error) {
	snap := s.catalog.Load(ctx)
	if snap.Status.UsingMock {
		return len(snap.Products), "", errors.New(LoadErrorMessage)
	}
	return len(snap.Products), fmt.Sprintf("Loaded %d products and %d collections from %s",
		len(snap.Products), len(snap.Collections), snap.Status.Source), nil
}

func (s *automationService) purge() (int, string, error) {
	snap, err := s.catalog.LoadFallback("")
	if err != nil {
		return 0, "", fmt.Errorf("failed to load bundled catalog: %w", err)
	}
	return len(snap.Products), fmt.Sprintf("Catalog reset to %d bundled products", len(snap.Products)), nil
}

// enrich fills empty SEO fields and full descriptions from the product's own content.
func (s *automationService) enrich() (int, string, error) {
	snap := s.catalog.Snapshot()

	products := make([]model.Product, len(snap.Products))
	enriched := 0
	for i, p := range snap.Products {
		changed := false
		if p.FullDescription == "" && p.Description != "" {
			p.FullDescription = p.Description
			changed = true
		}

		seo := model.SEO{}
		if p.SEO != nil {
			seo = *p.SEO
		}
		if seo.Title == "" {
			seo.Title = p.Name
			changed = true
		}
		if seo.Description == "" && p.Description != "" {
			seo.Description = p.Description
			changed = true
		}
		if len(seo.Keywords) == 0 && len(p.Tags) > 0 {
			seo.Keywords = append([]string(nil), p.Tags...)
			changed = true
		}
		p.SEO = &seo

		if changed {
			enriched++
		}
		products[i] = p
	}

	s.catalog.Replace(products, snap.Collections, snap.Status.Source)
	return enriched, fmt.Sprintf("Enriched %d of %d products", enriched, len(products)), nil
}

// generate adds one collection per product type that has no collection of the same name.
func (s *automationService) generate() (int, string, error) {
	snap := s.catalog.Snapshot()

	collections := make([]model.Collection, len(snap.Collections))
	copy(collections, snap.Collections)

	names := make(map[string]struct{}, len(collections))
	ids := make(map[string]struct{}, len(collections))
	for _, c := range collections {
		names[strings.ToLower(c.Name)] = struct{}{}
		ids[c.ID] = struct{}{}
	}

	generated := 0
	next := len(collections) + 1
	for _, p := range snap.Products {
		lower := strings.ToLower(p.Type)
		if _, exists := names[lower]; exists || p.Type == "" {
			continue
		}
		names[lower] = struct{}{}

		id := catalog.CollectionID(next)
		for {
			if _, taken := ids[id]; !taken {
				break
			}
			next++
			id = catalog.CollectionID(next)
		}
		ids[id] = struct{}{}
		next++

		collections = append(collections, model.Collection{
			ID:          id,
			Name:        p.Type,
			Slug:        model.Slugify(p.Type),
			Description: fmt.Sprintf("Browse our %s products", p.Type),
			Image:       p.Image,
			BannerImage: catalog.PlaceholderBannerImage,
			Products:    catalog.MatchCollectionProducts(p.Type, nil, snap.Products),
			SEO: &model.CollectionSEO{
				Title:       p.Type,
				Description: fmt.Sprintf("Browse our %s products", p.Type),
			},
		})
		generated++
	}

	if generated > 0 {
		s.catalog.Replace(snap.Products, collections, snap.Status.Source)
	}
	return generated, fmt.Sprintf("Generated %d collections", generated), nil
}

func (s *automationService) upload(ctx context.Context) (int, string, error) {
	if s.uploader == nil {
		return 0, "", ErrUploadNotAvailable
	}
	snap := s.catalog.Snapshot()
	prefix := "exports/" + time.Now().UTC().Format("20060102T150405Z") + "/"

	var productsCSV, collectionsCSV bytes.Buffer
	if err := catalog.WriteProductsCSV(&productsCSV, snap.Products); err != nil {
		return 0, "", fmt.Errorf("failed to encode products: %w", err)
	}
	if err := catalog.WriteCollectionsCSV(&collectionsCSV, snap.Collections); err != nil {
		return 0, "", fmt.Errorf("failed to encode collections: %w", err)
	}

	files := []struct {
		key  string
		body []byte
	}{
		{key: prefix + "products.csv", body: productsCSV.Bytes()},
		{key: prefix + "collections.csv", body: collectionsCSV.Bytes()},
	}
	for i, f := range files {
		if err := s.uploader.PutObject(ctx, f.key, f.body, "text/csv"); err != nil {
			return i, "", fmt.Errorf("failed to upload %s: %w", f.key, err)
		}
	}
	return len(files), fmt.Sprintf("Uploaded %d products and %d collections to %s",
		len(snap.Products), len(snap.Collections), prefix), nil
}

func (s *automationService) importCatalog(parsed *parsedImport) (int, string, error) {
	if parsed == nil {
		return 0, "", ErrMissingImportFile
	}

	products := catalog.MapProducts(parsed.products)

	var collections []model.Collection
	if len(parsed.collections) > 0 {
		collections = catalog.MapCollections(parsed.collections, products)
	} else {
		current := s.catalog.Snapshot().Collections
		collections = make([]model.Collection, len(current))
		for i, c := range current {
			c.Products = catalog.MatchCollectionProducts(c.Name, c.Products, products)
			collections[i] = c
		}
	}

	snap := s.catalog.Replace(products, collections, string(model.JobKindImport))
	return len(products), fmt.Sprintf("Imported %d products and %d collections (%d warnings)",
		len(products), len(collections), len(snap.Status.Warnings)), nil
}

func (s *automationService) GetJob(ctx context.Context, id string) (*model.AutomationJob, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if errors.Is(err, repository.ErrJobRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (s *automationService) ListJobs(ctx context.Context) ([]model.AutomationJob, error) {
	return s.jobs.FindRecent(ctx, recentJobsLimit)
}
