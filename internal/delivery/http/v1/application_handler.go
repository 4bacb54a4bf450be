package v1

import (
	"net/http"

	"job-tracker-backend/internal/delivery/http/middleware"
	"job-tracker-backend/internal/delivery/http/response"
	"job-tracker-backend/internal/domain"
	"job-tracker-backend/internal/usecase"
	"job-tracker-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

func NewApplicationHandler(protected *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	apps := protected.Group("/applications")
	{
		apps.GET("", handler.List)
		apps.GET("/stats", handler.Stats)
		apps.GET("/export", handler.Export)
		apps.GET("/:id", handler.Get)
		apps.POST("", handler.Create)
		apps.PATCH("/:id", handler.Patch)
		apps.PUT("/:id", handler.Replace)
		apps.DELETE("/:id", handler.Delete)
	}
}

type ApplicationRequest struct {
	Company     string `json:"company" binding:"required,max=200"`
	Title       string `json:"title" binding:"required,max=200"`
	URL         string `json:"url" binding:"omitempty,max=2048,job_url"`
	Status      string `json:"status" binding:"omitempty,job_status"`
	DateApplied string `json:"date_applied" binding:"omitempty,iso_date"`
	Notes       string `json:"notes" binding:"max=5000"`
}

// PatchApplicationRequest only touches the fields present in the body. An
// empty string clears url, date_applied or notes.
type PatchApplicationRequest struct {
	Company     *string `json:"company" binding:"omitempty,max=200"`
	Title       *string `json:"title" binding:"omitempty,max=200"`
	URL         *string `json:"url" binding:"omitempty,max=2048,job_url"`
	Status      *string `json:"status" binding:"omitempty,job_status"`
	DateApplied *string `json:"date_applied" binding:"omitempty,iso_date"`
	Notes       *string `json:"notes" binding:"omitempty,max=5000"`
}

type ListApplicationsQuery struct {
	Status string `form:"status" binding:"status_filter"`
}

type ExportApplicationsQuery struct {
	Status string `form:"status" binding:"status_filter"`
	Format string `form:"format" binding:"omitempty,oneof=xlsx csv"`
}

func (r ApplicationRequest) draft() domain.Draft {
	d := domain.Draft{
		Company:     r.Company,
		Title:       r.Title,
		URL:         r.URL,
		DateApplied: r.DateApplied,
		Notes:       r.Notes,
	}
	if s, err := domain.ParseStatus(r.Status); err == nil {
		d.Status = s
	}
	return d
}

func (r PatchApplicationRequest) patch() domain.ApplicationPatch {
	p := domain.ApplicationPatch{
		Company:     r.Company,
		Title:       r.Title,
		URL:         r.URL,
		DateApplied: r.DateApplied,
		Notes:       r.Notes,
	}
	if r.Status != nil {
		if s, err := domain.ParseStatus(*r.Status); err == nil {
			p.Status = &s
		}
	}
	return p
}

func mustSession(c *gin.Context) (domain.Session, bool) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.Error(apperror.Unauthorized("User not authenticated"))
	}
	return session, ok
}

func applicationID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.Error(apperror.BadRequest("Invalid application id"))
		return "", false
	}
	return id, true
}

// ListApplications godoc
// @Summary      List job applications
// @Description  Newest first. The optional status filter is applied to the full set.
// @Tags         applications
// @Produce      json
// @Param        status  query     string  false  "all or one of saved, applied, interviewing, rejected, offer"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Router       /applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) List(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	var q ListApplicationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.Error(bindError(err))
		return
	}
	filter, _ := domain.ParseFilter(q.Status)

	apps, err := h.applicationUC.FetchFiltered(c.Request.Context(), session, filter)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Applications retrieved", gin.H{
		"applications": apps,
		"filter":       filter,
		"count":        len(apps),
	})
}

// ApplicationStats godoc
// @Summary      Application counters
// @Description  Total and per-status counts over all of the caller's applications
// @Tags         applications
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /applications/stats [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Stats(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	stats, err := h.applicationUC.Stats(c.Request.Context(), session)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application stats", stats)
}

// ExportApplications godoc
// @Summary      Export job applications
// @Tags         applications
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        format  query  string  false  "xlsx (default) or csv"
// @Param        status  query  string  false  "status filter"
// @Success      200
// @Failure      400  {object}  response.Response
// @Router       /applications/export [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Export(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	var q ExportApplicationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.Error(bindError(err))
		return
	}
	filter, _ := domain.ParseFilter(q.Status)

	data, filename, err := h.applicationUC.Export(c.Request.Context(), session, filter, q.Format)
	if err != nil {
		c.Error(err)
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if q.Format == usecase.ExportCSV {
		contentType = "text/csv; charset=utf-8"
	}
	response.Attachment(c, filename, contentType, data)
}

// GetApplication godoc
// @Summary      Get one job application
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Get(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := applicationID(c)
	if !ok {
		return
	}

	app, err := h.applicationUC.Get(c.Request.Context(), session, id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application retrieved", app)
}

// CreateApplication godoc
// @Summary      Create a job application
// @Description  Company and title are required; status defaults to saved
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        application  body      ApplicationRequest  true  "Application"
// @Success      201          {object}  response.Response
// @Failure      400          {object}  response.Response
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Create(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	var req ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	app, err := h.applicationUC.Insert(c.Request.Context(), session, req.draft())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application created", app)
}

// PatchApplication godoc
// @Summary      Partially update a job application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id           path      string                   true  "Application ID"
// @Param        application  body      PatchApplicationRequest  true  "Fields to change"
// @Success      200          {object}  response.Response
// @Failure      400          {object}  response.Response
// @Failure      404          {object}  response.Response
// @Router       /applications/{id} [patch]
// @Security     BearerAuth
func (h *ApplicationHandler) Patch(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := applicationID(c)
	if !ok {
		return
	}

	var req PatchApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	app, err := h.applicationUC.Update(c.Request.Context(), session, id, req.patch())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application updated", app)
}

// ReplaceApplication godoc
// @Summary      Replace the editable fields of a job application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id           path      string              true  "Application ID"
// @Param        application  body      ApplicationRequest  true  "Application"
// @Success      200          {object}  response.Response
// @Failure      400          {object}  response.Response
// @Failure      404          {object}  response.Response
// @Router       /applications/{id} [put]
// @Security     BearerAuth
func (h *ApplicationHandler) Replace(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := applicationID(c)
	if !ok {
		return
	}

	var req ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	app, err := h.applicationUC.Replace(c.Request.Context(), session, id, req.draft())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application updated", app)
}

// DeleteApplication godoc
// @Summary      Delete a job application
// @Description  Deleting an id that no longer exists also succeeds
// @Tags         applications
// @Produce      json
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response
// @Router       /applications/{id} [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) Delete(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := applicationID(c)
	if !ok {
		return
	}

	if err := h.applicationUC.Delete(c.Request.Context(), session, id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Application deleted", gin.H{"id": id})
}
