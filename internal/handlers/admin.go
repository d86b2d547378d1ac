package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"jobportal/internal/access"
	"jobportal/internal/models"
	"jobportal/internal/service"
	"jobportal/internal/view"

	"github.com/gin-gonic/gin"
)

const addJobPath = "/admin/add-job"

type applicationsPage struct {
	Job          *models.Job
	Applications []models.Application
}

func (h *Handler) adminDashboard(c *gin.Context) {
	p := principalFrom(c)
	jobs, err := h.services.Jobs.PostedBy(c.Request.Context(), *p)
	if err != nil {
		h.internalError(c, "admin_jobs_failed", err, "username", p.Username)
		return
	}

	page := view.Page{Title: "Admin dashboard", Data: jobs}
	switch c.Query("error") {
	case "jobNotFound":
		page.Error = msgJobNotFound
	case "unauthorized":
		page.Error = msgUnauthorized
	}
	h.render(c, http.StatusOK, view.PageAdminDashboard, page)
}

func (h *Handler) addJobPage(c *gin.Context) {
	page := view.Page{Title: "Post a job"}
	if hasFlag(c, "error") {
		page.Error = msgInvalidJob
	}
	h.render(c, http.StatusOK, view.PageAddJob, page)
}

func (h *Handler) addJob(c *gin.Context) {
	ctx := c.Request.Context()
	p := principalFrom(c)

	var input jobForm
	if err := c.ShouldBind(&input); err != nil {
		if h.log != nil {
			h.log.Infow("add_job_bad_request_body", "err", err)
		}
		c.Redirect(http.StatusSeeOther, addJobPath+"?error")
		return
	}

	id, err := h.services.Jobs.Post(ctx, *p, models.Job{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			c.Redirect(http.StatusSeeOther, addJobPath+"?error")
			return
		}
		h.internalError(c, "add_job_failed", err, "username", p.Username)
		return
	}

	h.recordActivity(ctx, models.ActivityEvent{
		Type:        service.EventJobPosted,
		Username:    p.Username,
		Description: "posted job " + strconv.FormatInt(id, 10),
		JobID:       id,
		Metadata:    gin.H{"title": input.Title},
	})
	c.Redirect(http.StatusSeeOther, access.AdminDashboardPath)
}

// viewApplications shows applications for one of the caller's own jobs.
func (h *Handler) viewApplications(c *gin.Context) {
	p := principalFrom(c)
	jobID, err := parseJobID(c)
	if err != nil {
		c.Redirect(http.StatusFound, access.AdminDashboardPath+"?error=jobNotFound")
		return
	}

	job, apps, err := h.services.Applications.ForJob(c.Request.Context(), *p, jobID)
	switch {
	case isNotFound(err):
		c.Redirect(http.StatusFound, access.AdminDashboardPath+"?error=jobNotFound")
		return
	case errors.Is(err, models.ErrForbidden):
		if h.log != nil {
			h.log.Warnw("foreign_job_access", "username", p.Username, "job_id", jobID)
		}
		c.Redirect(http.StatusFound, access.AdminDashboardPath+"?error=unauthorized")
		return
	case err != nil:
		h.internalError(c, "view_applications_failed", err, "job_id", jobID)
		return
	}

	h.render(c, http.StatusOK, view.PageViewApplications, view.Page{
		Title: "Applications",
		Data:  applicationsPage{Job: job, Applications: apps},
	})
}
