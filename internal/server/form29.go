package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	form29domain "github.com/contaflow/tributo/internal/form29/domain"
	"github.com/contaflow/tributo/internal/period"
	"github.com/gin-gonic/gin"
)

type generateDraftRequest struct {
	AutoCalculate *bool  `json:"auto_calculate"`
	FetchProposal bool   `json:"fetch_proposal"`
	CreatedBy     string `json:"created_by"`
}

func (s *Server) GenerateDraft(c *gin.Context) {
	companyID, p, ok := s.companyPeriodParams(c)
	if !ok {
		return
	}

	var body generateDraftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			AbortWithError(c, form29domain.ErrInvalidPeriod)
			return
		}
	}

	req := form29domain.GenerateRequest{
		CompanyID:     companyID,
		Period:        p,
		AutoCalculate: true,
		FetchProposal: body.FetchProposal,
	}
	if body.AutoCalculate != nil {
		req.AutoCalculate = *body.AutoCalculate
	}
	if body.CreatedBy != "" {
		userID, err := snowflake.ParseString(strings.TrimSpace(body.CreatedBy))
		if err == nil {
			req.CreatedBy = &userID
		}
	}

	draft, isNew, err := s.form29Svc.GenerateDraft(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"data": draft, "is_new": isNew})
}

func (s *Server) GetDraft(c *gin.Context) {
	companyID, p, ok := s.companyPeriodParams(c)
	if !ok {
		return
	}

	draft, err := s.form29Svc.GetDraft(c.Request.Context(), companyID, p)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": draft})
}

func (s *Server) GetSummary(c *gin.Context) {
	companyID, p, ok := s.companyPeriodParams(c)
	if !ok {
		return
	}

	sum := s.calculator.ComputeForPeriod(c.Request.Context(), companyID, p)
	c.JSON(http.StatusOK, gin.H{"data": sum})
}

func (s *Server) ValidateDraft(c *gin.Context) {
	draftID, ok := s.draftIDParam(c)
	if !ok {
		return
	}

	valid, errs, err := s.form29Svc.Validate(c.Request.Context(), draftID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_valid": valid, "errors": errs})
}

func (s *Server) ConfirmDraft(c *gin.Context) {
	draftID, ok := s.draftIDParam(c)
	if !ok {
		return
	}

	draft, err := s.form29Svc.Confirm(c.Request.Context(), draftID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": draft})
}

func (s *Server) CancelDraft(c *gin.Context) {
	draftID, ok := s.draftIDParam(c)
	if !ok {
		return
	}

	draft, err := s.form29Svc.Cancel(c.Request.Context(), draftID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": draft})
}

func (s *Server) companyPeriodParams(c *gin.Context) (snowflake.ID, period.Period, bool) {
	companyID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, form29domain.ErrInvalidCompany)
		return 0, period.Period{}, false
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		AbortWithError(c, form29domain.ErrInvalidPeriod)
		return 0, period.Period{}, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		AbortWithError(c, form29domain.ErrInvalidPeriod)
		return 0, period.Period{}, false
	}

	p, err := period.New(year, month)
	if err != nil {
		AbortWithError(c, form29domain.ErrInvalidPeriod)
		return 0, period.Period{}, false
	}

	return companyID, p, true
}

func (s *Server) draftIDParam(c *gin.Context) (snowflake.ID, bool) {
	draftID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, form29domain.ErrDraftNotFound)
		return 0, false
	}
	return draftID, true
}
