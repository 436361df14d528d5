package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/minimundos-dashboard/services/api/apperr"
	"github.com/02loveslollipop/minimundos-dashboard/services/api/energy"
	"github.com/02loveslollipop/minimundos-dashboard/services/api/solar"
)

const datasetEnergia = "energia"

// Client-facing messages of the energia endpoints.
const (
	msgArquivoNaoEncontrado     = "Arquivo de dados não encontrado"
	msgArquivoNaoEncontradoDica = msgArquivoNaoEncontrado + ". Verifique se painel_solar.csv existe na pasta dados/"
	msgErroProcessarDados       = "Erro ao processar dados: "
	msgErroProcessarCorrelacao  = "Erro ao processar correlação: "
	msgErroObterDados           = "Erro ao obter dados: "
)

// energiaFailure maps a failure to its status and message.
type energiaFailure struct {
	notFound   string
	procPrefix string
}

// GET /api/energia/rendimento/
func (s *Server) handleRendimento(c *gin.Context) {
	fail := energiaFailure{notFound: msgArquivoNaoEncontradoDica, procPrefix: msgErroProcessarDados}

	readings, err := solar.Load(s.cfg.SolarDataPath)
	if err != nil {
		s.energiaError(c, fail, err)
		return
	}
	report, err := energy.Yield(readings)
	if err != nil {
		s.energiaError(c, fail, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /api/energia/correlacao/
func (s *Server) handleCorrelacaoEnergia(c *gin.Context) {
	readings, err := solar.Load(s.cfg.SolarDataPath)
	if err != nil {
		s.energiaError(c, energiaFailure{notFound: msgArquivoNaoEncontrado, procPrefix: msgErroProcessarCorrelacao}, err)
		return
	}
	c.JSON(http.StatusOK, energy.Correlation(readings))
}

// GET /api/energia/dados/
func (s *Server) handleDados(c *gin.Context) {
	readings, err := solar.Load(s.cfg.SolarDataPath)
	if err != nil {
		s.energiaError(c, energiaFailure{notFound: msgArquivoNaoEncontrado, procPrefix: msgErroObterDados}, err)
		return
	}
	c.JSON(http.StatusOK, energy.Dump(readings))
}

func (s *Server) energiaError(c *gin.Context, fail energiaFailure, err error) {
	kind := s.recordFailure(c, datasetEnergia, err)
	if kind == apperr.KindNotFound {
		c.JSON(http.StatusNotFound, gin.H{"erro": fail.notFound})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"erro": fail.procPrefix + err.Error()})
}

// recordFailure logs and counts a failed report and returns its kind.
func (s *Server) recordFailure(c *gin.Context, dataset string, err error) apperr.Kind {
	kind := apperr.KindOf(err)
	level := slog.LevelError
	if kind == apperr.KindNotFound {
		level = slog.LevelWarn
	}
	s.log.LogAttrs(c.Request.Context(), level, "report failed",
		slog.String("dataset", dataset),
		slog.String("path", c.Request.URL.Path),
		slog.String("kind", string(kind)),
		slog.String("request_id", c.GetString(requestIDKey)),
		slog.Any("error", err),
	)
	if s.metrics != nil {
		s.metrics.RecordReportError(dataset, kind)
	}
	return kind
}
