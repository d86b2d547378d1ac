package handlers

import (
	"net/http"
	"strconv"

	"jobportal/internal/models"
	"jobportal/internal/service"
	"jobportal/internal/view"

	"github.com/gin-gonic/gin"
)

const viewJobsPath = "/user/view-jobs"

func (h *Handler) userDashboard(c *gin.Context) {
	h.render(c, http.StatusOK, view.PageUserDashboard, view.Page{Title: "Dashboard"})
}

func (h *Handler) viewJobs(c *gin.Context) {
	jobs, err := h.services.Jobs.All(c.Request.Context())
	if err != nil {
		h.internalError(c, "list_jobs_failed", err)
		return
	}

	page := view.Page{Title: "Open jobs", Data: jobs}
	if hasFlag(c, "applied") {
		page.Notice = msgApplied
	}
	if c.Query("error") == "jobNotFound" {
		page.Error = msgJobNotFound
	}
	h.render(c, http.StatusOK, view.PageViewJobs, page)
}

func (h *Handler) applyPage(c *gin.Context) {
	jobID, err := parseJobID(c)
	if err != nil {
		c.Redirect(http.StatusFound, viewJobsPath+"?error=jobNotFound")
		return
	}
	job, err := h.services.Jobs.Get(c.Request.Context(), jobID)
	if err != nil {
		if isNotFound(err) {
			c.Redirect(http.StatusFound, viewJobsPath+"?error=jobNotFound")
			return
		}
		h.internalError(c, "apply_page_failed", err, "job_id", jobID)
		return
	}
	h.render(c, http.StatusOK, view.PageApplyJob, view.Page{Title: "Apply", Data: job})
}

func (h *Handler) apply(c *gin.Context) {
	ctx := c.Request.Context()
	p := principalFrom(c)

	jobID, err := parseJobID(c)
	if err != nil {
		c.Redirect(http.StatusSeeOther, viewJobsPath+"?error=jobNotFound")
		return
	}

	var input applyForm
	if err := c.ShouldBind(&input); err != nil {
		h.renderError(c, http.StatusBadRequest, "Invalid application", "The cover letter is too long.")
		return
	}

	appID, err := h.services.Applications.Apply(ctx, *p, jobID, input.CoverLetter)
	if err != nil {
		if isNotFound(err) {
			c.Redirect(http.StatusSeeOther, viewJobsPath+"?error=jobNotFound")
			return
		}
		h.internalError(c, "apply_failed", err, "job_id", jobID, "username", p.Username)
		return
	}

	h.recordActivity(ctx, models.ActivityEvent{
		Type:        service.EventApplied,
		Username:    p.Username,
		Description: "applied to job " + strconv.FormatInt(jobID, 10),
		JobID:       jobID,
		Metadata:    gin.H{"application_id": appID},
	})
	c.Redirect(http.StatusSeeOther, viewJobsPath+"?applied")
}
