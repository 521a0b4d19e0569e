package controller

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/catalog"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

// MaxImportFileSize caps each uploaded catalog file.
const MaxImportFileSize = 10 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminController struct {
	catalogService    service.CatalogService
	automationService service.AutomationService
	dashboardService  service.DashboardService
}

func NewAdminController(
	catalogService service.CatalogService,
	automationService service.AutomationService,
	dashboardService service.DashboardService,
) *AdminController {
	return &AdminController{
		catalogService:    catalogService,
		automationService: automationService,
		dashboardService:  dashboardService,
	}
}

// Dashboard returns catalog totals, catalog status and recent jobs
// GET /api/v1/admin/dashboard
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.dashboardService.Stats(c.Request.Context())
	if err != nil {
		log.Error("Failed to build dashboard", err)
		apperrors.ParseAndRespond(c, err, "load the dashboard")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// RunJob starts an automation. The job runs in the background; poll it or watch the admin socket.
// POST /api/v1/admin/jobs/:kind
func (ctrl *AdminController) RunJob(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	kind := model.JobKind(c.Param("kind"))

	if kind == model.JobKindImport {
		apperrors.BadRequest(c, apperrors.JobUnknownKind, "Use POST /admin/import to import catalog files")
		return
	}

	job, err := ctrl.automationService.Run(c.Request.Context(), kind, nil)
	if err != nil {
		log.Warn("Automation job not started", map[string]interface{}{
			"kind":  kind,
			"error": err.Error(),
		})
		apperrors.ParseAndRespond(c, err, "start the automation")
		return
	}

	log.Info("Automation job started", map[string]interface{}{
		"job_id": job.ID,
		"kind":   kind,
	})
	c.JSON(http.StatusAccepted, gin.H{
		"job": job,
	})
}

// Import replaces the catalog with uploaded CSV or XLSX files
// POST /api/v1/admin/import (multipart: products, optional collections)
func (ctrl *AdminController) Import(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := readImportFile(c, "products")
	if err != nil {
		log.Warn("Invalid products upload", map[string]interface{}{
			"error": err.Error(),
		})
		respondImportError(c, err)
		return
	}
	if products == nil {
		apperrors.BadRequest(c, apperrors.ImportMissingFile, "A products file is required")
		return
	}

	collections, err := readImportFile(c, "collections")
	if err != nil {
		log.Warn("Invalid collections upload", map[string]interface{}{
			"error": err.Error(),
		})
		respondImportError(c, err)
		return
	}

	job, err := ctrl.automationService.Run(c.Request.Context(), model.JobKindImport, &service.ImportPayload{
		Products:    products,
		Collections: collections,
	})
	if err != nil {
		log.Warn("Import not started", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.ParseAndRespond(c, err, "import the catalog")
		return
	}

	log.Info("Catalog import started", map[string]interface{}{
		"job_id":           job.ID,
		"products_file":    products.Filename,
		"with_collections": collections != nil,
	})
	c.JSON(http.StatusAccepted, gin.H{
		"job": job,
	})
}

type importTooLargeError struct {
	field string
}

func (e importTooLargeError) Error() string {
	return fmt.Sprintf("%s file exceeds %d bytes", e.field, MaxImportFileSize)
}

// readImportFile returns nil, nil when the field is absent.
func readImportFile(c *gin.Context, field string) (*service.ImportFile, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s upload: %w", field, err)
	}
	if header.Size > MaxImportFileSize {
		return nil, importTooLargeError{field: field}
	}

	data, err := readMultipartFile(header)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s upload: %w", field, err)
	}
	return &service.ImportFile{Filename: header.Filename, Data: data}, nil
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, MaxImportFileSize+1))
}

func respondImportError(c *gin.Context, err error) {
	if tooLarge, ok := err.(importTooLargeError); ok {
		apperrors.RespondWithError(c, http.StatusRequestEntityTooLarge, apperrors.ImportFileTooLarge, tooLarge.Error())
		return
	}
	apperrors.BadRequest(c, apperrors.ImportInvalidFile, "Could not read the uploaded file")
}

// ListJobs returns the most recent jobs, newest first
// GET /api/v1/admin/jobs
func (ctrl *AdminController) ListJobs(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	jobs, err := ctrl.automationService.ListJobs(c.Request.Context())
	if err != nil {
		log.Error("Failed to list jobs", err)
		apperrors.ParseAndRespond(c, err, "list automation jobs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// GetJob
// GET /api/v1/admin/jobs/:id
func (ctrl *AdminController) GetJob(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	job, err := ctrl.automationService.GetJob(c.Request.Context(), id)
	if err != nil {
		log.Warn("Failed to fetch job", map[string]interface{}{
			"job_id": id,
			"error":  err.Error(),
		})
		apperrors.ParseAndRespond(c, err, "load the automation job")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job": job,
	})
}

// ExportXLSX streams the active catalog as a Products/Collections workbook
// GET /api/v1/admin/export.xlsx
func (ctrl *AdminController) ExportXLSX(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	snap := ctrl.catalogService.Snapshot()

	f, err := catalog.BuildWorkbook(snap.Products, snap.Collections)
	if err != nil {
		log.Error("Failed to build catalog workbook", err)
		apperrors.InternalError(c, "Failed to export the catalog")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("catalog-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to write catalog workbook", err)
		return
	}

	log.Info("Catalog exported", map[string]interface{}{
		"products":    len(snap.Products),
		"collections": len(snap.Collections),
	})
}
