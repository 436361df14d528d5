package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/minimundos-dashboard/services/api/apperr"
	"github.com/02loveslollipop/minimundos-dashboard/services/api/health"
)

const datasetSaude = "saude"

// GET /api/saude/correlacao-variaveis/
func (s *Server) handleCorrelacaoVariaveis(c *gin.Context) {
	s.servePatientMatrix(c)
}

// GET /api/saude/mapa-calor-correlacao/
func (s *Server) handleMapaCalor(c *gin.Context) {
	s.servePatientMatrix(c)
}

func (s *Server) servePatientMatrix(c *gin.Context) {
	patients, err := s.store.ListPatients(c.Request.Context())
	if err != nil {
		s.saudeError(c, err)
		return
	}
	matrix, err := health.Correlation(patients)
	if err != nil {
		s.saudeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matriz_correlacao": matrix})
}

// GET /api/saude/dispersao-colesterol-pressao/
func (s *Server) handleDispersao(c *gin.Context) {
	patients, err := s.store.ListPatients(c.Request.Context())
	if err != nil {
		s.saudeError(c, err)
		return
	}
	points, err := health.Dispersion(patients)
	if err != nil {
		s.saudeError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

func (s *Server) saudeError(c *gin.Context, err error) {
	if s.recordFailure(c, datasetSaude, err) == apperr.KindNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": health.MsgNoData})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
