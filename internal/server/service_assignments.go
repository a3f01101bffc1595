package server

import (
	"net/http"

	saddomain "github.com/clinica-labs/clinica/internal/serviceassignment/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateServiceAssignment(c *gin.Context) {
	var req saddomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.assignmentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListAssignmentsByAppointment(c *gin.Context) {
	resp, err := s.assignmentSvc.GetByAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteServiceAssignment(c *gin.Context) {
	if err := s.assignmentSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
