package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/apperror"
	"go-talentflow-backend/pkg/logger"
	"go-talentflow-backend/pkg/security"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
	publisher       domain.EventPublisher
	metricsCache    domain.MetricsCache
	objectStore     domain.ObjectStore
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	publisher domain.EventPublisher,
	metricsCache domain.MetricsCache,
	objectStore domain.ObjectStore,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: appRepo,
		jobRepo:         jobRepo,
		publisher:       publisher,
		metricsCache:    metricsCache,
		objectStore:     objectStore,
	}
}

// Apply submits a candidate's application to an open posting. The new
// application starts in pending with a single timeline entry.
func (uc *applicationUsecase) Apply(ctx context.Context, candidateID, jobID uuid.UUID, docs []domain.DocumentRef) (*domain.Application, error) {
	// 1. Validate posting exists and accepts applications
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job posting not found")
		}
		return nil, apperror.Internal(err)
	}
	if !job.AcceptsApplications() {
		return nil, apperror.BadRequest("Cannot apply to a closed job posting")
	}

	// 2. Check for duplicate application
	exists, err := uc.applicationRepo.Exists(ctx, jobID, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.BadRequest("You have already applied to this job posting")
	}

	// 3. Create application in pending state
	app := domain.NewApplication(candidateID, jobID, docs)
	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		return nil, apperror.Internal(err)
	}

	// 4. Notify listeners and drop the stale metrics snapshot (best effort)
	uc.publishEvents(ctx, app)
	uc.invalidateMetrics(ctx, candidateID)

	return app, nil
}

// GetApplication returns one application with its full timeline
func (uc *applicationUsecase) GetApplication(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	app, err := uc.applicationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}
	return app, nil
}

// ListMine returns all applications for the current candidate
func (uc *applicationUsecase) ListMine(ctx context.Context, candidateID uuid.UUID) ([]domain.Application, error) {
	return uc.applicationRepo.FetchByCandidate(ctx, candidateID)
}

// AttachDocument uploads a file and links it to the candidate's application
func (uc *applicationUsecase) AttachDocument(ctx context.Context, candidateID, applicationID uuid.UUID, upload domain.FileUpload) (*domain.Application, error) {
	// 1. Validate upload (size cap, extension, magic bytes, sniffed MIME)
	if err := security.ValidateDocument(upload.Name, upload.Data); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	// 2. Load application and validate ownership
	app, err := uc.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}
	if app.CandidateID != candidateID {
		return nil, apperror.Forbidden("You do not own this application")
	}

	// 3. Store the file
	key := fmt.Sprintf("applications/%s/documents/%s%s", app.ID, uuid.NewString(), path.Ext(upload.Name))
	url, err := uc.objectStore.Upload(ctx, key, upload.ContentType, upload.Data)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// 4. Record the reference on the aggregate and persist
	app.AttachDocument(domain.DocumentRef{
		Name:        upload.Name,
		ContentType: upload.ContentType,
		URL:         url,
		UploadedAt:  time.Now(),
	})
	if err := uc.saveApplication(ctx, app); err != nil {
		return nil, err
	}

	return app, nil
}

// ListByJob returns all applications for a posting owned by the company
func (uc *applicationUsecase) ListByJob(ctx context.Context, companyID, jobID uuid.UUID) ([]domain.Application, error) {
	if err := uc.validateJobOwnership(ctx, companyID, jobID); err != nil {
		return nil, err
	}
	return uc.applicationRepo.FetchByJob(ctx, jobID)
}

// UpdateStatus moves an application to the requested status if the lifecycle
// allows it. An unknown status and a disallowed transition both fail with a
// bad request, and in both cases the application is left untouched.
func (uc *applicationUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, requested string) (*domain.Application, error) {
	return uc.transition(ctx, id, requested, "")
}

// ReviewApplication behaves like UpdateStatus for a company reviewer: the
// company must own the posting, and the review comment is folded into the
// timeline entry recorded for the transition.
func (uc *applicationUsecase) ReviewApplication(ctx context.Context, companyID, id uuid.UUID, requested, comment string) (*domain.Application, error) {
	app, err := uc.applicationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}
	if err := uc.validateJobOwnership(ctx, companyID, app.JobID); err != nil {
		return nil, err
	}
	return uc.transition(ctx, id, requested, comment)
}

func (uc *applicationUsecase) transition(ctx context.Context, id uuid.UUID, requested, comment string) (*domain.Application, error) {
	// 1. Parse the requested status (legacy rejection spelling included)
	next, ok := domain.ParseApplicationStatus(requested)
	if !ok {
		return nil, apperror.BadRequest(fmt.Sprintf("Unknown application status: %s", requested))
	}

	// 2. Load current state
	app, err := uc.applicationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}

	// 3. Run the transition; a refusal leaves the aggregate untouched
	if !app.TransitionWithReview(next, comment) {
		return nil, apperror.BadRequest(fmt.Sprintf("Transition from %s to %s is not allowed", app.Status, next))
	}

	// 4. Persist status and the new timeline entry together
	if err := uc.saveApplication(ctx, app); err != nil {
		return nil, err
	}

	// 5. Notify listeners and refresh metrics on next read (best effort)
	uc.publishEvents(ctx, app)
	uc.invalidateMetrics(ctx, app.CandidateID)

	return app, nil
}

// ExportByJob renders a posting's applications as a spreadsheet
func (uc *applicationUsecase) ExportByJob(ctx context.Context, companyID, jobID uuid.UUID) ([]byte, string, error) {
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", apperror.NotFound("Job posting not found")
		}
		return nil, "", apperror.Internal(err)
	}
	if job.CompanyID != companyID {
		return nil, "", apperror.Forbidden("You do not own this job posting")
	}

	applications, err := uc.applicationRepo.FetchByJob(ctx, jobID)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	return exportApplicationsExcel(job, applications)
}

// exportApplicationsExcel generates an Excel file from application data
func exportApplicationsExcel(job *domain.Job, applications []domain.Application) ([]byte, string, error) {
	f := excelize.NewFile()
	sheetName := "Applications"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"APPLICATION ID", "CANDIDATE", "STATUS", "APPLIED AT", "LAST UPDATE"}

	// Write headers
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	// Style headers - Dark Blue background with White text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	// Write data rows
	for rowIdx, app := range applications {
		candidateName := ""
		if app.CandidateName != nil {
			candidateName = *app.CandidateName
		}
		values := []interface{}{
			app.ID.String(),
			candidateName,
			strings.ToUpper(string(app.Status)),
			app.CreatedAt.Format("2006-01-02 15:04"),
			app.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	// Auto-fit column widths (approximate)
	for i := range headers {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 24)
	}

	// Write to buffer
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("applications_%s_%s.xlsx", slugify(job.Title), time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "job"
	}
	return b.String()
}

// validateJobOwnership checks that the company owns the posting
func (uc *applicationUsecase) validateJobOwnership(ctx context.Context, companyID, jobID uuid.UUID) error {
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Job posting not found")
		}
		return apperror.Internal(err)
	}
	if job.CompanyID != companyID {
		return apperror.Forbidden("You do not own this job posting")
	}
	return nil
}

// saveApplication persists the aggregate and maps storage outcomes to API errors
func (uc *applicationUsecase) saveApplication(ctx context.Context, app *domain.Application) error {
	err := uc.applicationRepo.Save(ctx, app)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrVersionConflict):
		return apperror.Conflict("Application was modified concurrently, please retry")
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound("Application not found")
	default:
		return apperror.Internal(err)
	}
}

// publishEvents drains the aggregate's events. Failures are logged, never
// propagated: notification delivery must not undo a committed change.
func (uc *applicationUsecase) publishEvents(ctx context.Context, app *domain.Application) {
	for _, evt := range app.PullEvents() {
		if err := uc.publisher.Publish(ctx, evt); err != nil {
			logger.Log.Warn("failed to publish event",
				"channel", evt.Channel(),
				"application_id", app.ID.String(),
				"error", err.Error(),
			)
		}
	}
}

func (uc *applicationUsecase) invalidateMetrics(ctx context.Context, candidateID uuid.UUID) {
	if err := uc.metricsCache.Invalidate(ctx, candidateID); err != nil {
		logger.Log.Warn("failed to invalidate metrics cache",
			"candidate_id", candidateID.String(),
			"error", err.Error(),
		)
	}
}
