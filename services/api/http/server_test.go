package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/minimundos-dashboard/services/api/config"
	"github.com/02loveslollipop/minimundos-dashboard/services/api/db"
	"github.com/02loveslollipop/minimundos-dashboard/services/api/logging"
)

const solarCSV = `hora,radiacao_wm2,potencia_kw,temperatura_c
8,400,2,20
12,800,6,30
8,500,3,22
14,600,4.5,33
10,700,4.9,26
`

var referencePatients = []db.Patient{
	{PacienteID: 1, Idade: 50, Colesterol: 200, Pressao: 120, Risco: 1},
	{PacienteID: 2, Idade: 60, Colesterol: 240, Pressao: 140, Risco: 0},
	{PacienteID: 3, Idade: 70, Colesterol: 220, Pressao: 130, Risco: 1},
}

type fixture struct {
	server  *Server
	csvPath string
	store   *db.GormStore
}

// setupServer wires a server to a temp CSV and an in-memory patient store.
// Pass csv == "" to leave the CSV file absent.
func setupServer(t *testing.T, csv string, patients []db.Patient) *fixture {
	t.Helper()

	csvPath := filepath.Join(t.TempDir(), "painel_solar.csv")
	if csv != "" {
		require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0o644))
	}

	store, err := db.NewGormStore(":memory:", logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, store.InsertPatients(context.Background(), patients))

	cfg := config.Config{
		SolarDataPath:   csvPath,
		CORSAllowOrigin: "*",
		MetricsEnabled:  true,
	}
	srv, err := New(cfg, store, logging.Discard())
	require.NoError(t, err)
	return &fixture{server: srv, csvPath: csvPath, store: store}
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.server.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestHealthz(t *testing.T) {
	f := setupServer(t, solarCSV, nil)
	rec := f.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := setupServer(t, solarCSV, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	f.server.Engine().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	f := setupServer(t, solarCSV, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/energia/dados/", nil)
	rec := httptest.NewRecorder()
	f.server.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewLeavesGinModeAlone(t *testing.T) {
	setupServer(t, solarCSV, nil)
	assert.Equal(t, gin.TestMode, gin.Mode())
}

func TestPreflightIsCounted(t *testing.T) {
	f := setupServer(t, solarCSV, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/saude/correlacao-variaveis/", nil)
	rec := httptest.NewRecorder()
	f.server.Engine().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	metrics := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(),
		`http_requests_total{method="OPTIONS",path="unmatched",status_code="204"} 1`)
}

func TestEnergiaRendimento(t *testing.T) {
	f := setupServer(t, solarCSV, nil)

	for _, path := range []string{"/api/energia/rendimento/", "/api/energia/rendimento"} {
		t.Run(path, func(t *testing.T) {
			rec := f.get(t, path)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			body := decodeBody(t, rec)
			assert.Len(t, body["dados_brutos"], 5)

			stats := body["estatisticas"].(map[string]any)
			assert.EqualValues(t, 12, stats["hora_pico"])
			assert.EqualValues(t, 66, stats["rendimento_medio"])
			assert.EqualValues(t, 75, stats["rendimento_maximo"])
			assert.EqualValues(t, 6, stats["potencia_max"])

			assert.Contains(t, rec.Body.String(), `"rendimento_por_hora":{"8":55,"10":70,"12":75,"14":75}`)
		})
	}
}

func TestEnergiaSingleRowExample(t *testing.T) {
	f := setupServer(t, "hora,radiacao_wm2,potencia_kw,temperatura_c\n12,800,6,30\n", nil)
	rec := f.get(t, "/api/energia/rendimento/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	row := body["dados_brutos"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 8, row["potencia_incidente_kw"])
	assert.EqualValues(t, 75, row["percentual_rendimento"])
	assert.Equal(t, map[string]any{"12": 75.0}, body["rendimento_por_hora"])
	assert.EqualValues(t, 12, body["estatisticas"].(map[string]any)["hora_pico"])
}

func TestEnergiaCorrelacao(t *testing.T) {
	f := setupServer(t, solarCSV, nil)
	rec := f.get(t, "/api/energia/correlacao/")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.True(t, strings.HasPrefix(rec.Body.String(),
		`{"matriz_correlacao":{"temperatura_c":{"temperatura_c":1,"radiacao_wm2":`), rec.Body.String())

	body := decodeBody(t, rec)
	insights := body["insights"].(map[string]any)
	assert.Len(t, insights, 3)
	assert.Greater(t, insights["correlacao_radiacao_potencia"].(float64), 0.9)
}

func TestEnergiaDados(t *testing.T) {
	f := setupServer(t, solarCSV, nil)
	rec := f.get(t, "/api/energia/dados")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Len(t, body["dados_completos"], 5)
	meta := body["metadados"].(map[string]any)
	assert.EqualValues(t, 5, meta["total_registros"])
	assert.EqualValues(t, 10, meta["area_painel_m2"])
	assert.Equal(t, "W/m²", meta["unidades"].(map[string]any)["radiacao"])
}

func TestEnergiaMissingFile(t *testing.T) {
	f := setupServer(t, "", nil)

	cases := map[string]string{
		"/api/energia/rendimento/": "Arquivo de dados não encontrado. Verifique se painel_solar.csv existe na pasta dados/",
		"/api/energia/correlacao/": "Arquivo de dados não encontrado",
		"/api/energia/dados/":      "Arquivo de dados não encontrado",
	}
	for path, msg := range cases {
		t.Run(path, func(t *testing.T) {
			rec := f.get(t, path)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, map[string]any{"erro": msg}, decodeBody(t, rec))
		})
	}

	metrics := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), `reporting_errors_total{dataset="energia",kind="not-found"} 3`)
}

func TestEnergiaProcessingErrors(t *testing.T) {
	t.Run("MalformedCSV", func(t *testing.T) {
		f := setupServer(t, "hora,radiacao_wm2,potencia_kw,temperatura_c\n1,abc,2,3\n", nil)

		rec := f.get(t, "/api/energia/correlacao/")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		msg := decodeBody(t, rec)["erro"].(string)
		assert.True(t, strings.HasPrefix(msg, "Erro ao processar correlação: "), msg)

		rec = f.get(t, "/api/energia/dados/")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.True(t, strings.HasPrefix(decodeBody(t, rec)["erro"].(string), "Erro ao obter dados: "))
	})

	t.Run("EmptyTableYield", func(t *testing.T) {
		f := setupServer(t, "hora,radiacao_wm2,potencia_kw,temperatura_c\n", nil)

		rec := f.get(t, "/api/energia/rendimento/")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.True(t, strings.HasPrefix(decodeBody(t, rec)["erro"].(string), "Erro ao processar dados: "))

		rec = f.get(t, "/api/energia/dados/")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSaudeCorrelacao(t *testing.T) {
	f := setupServer(t, solarCSV, referencePatients)

	for _, path := range []string{"/api/saude/correlacao-variaveis/", "/api/saude/mapa-calor-correlacao/"} {
		t.Run(path, func(t *testing.T) {
			rec := f.get(t, path)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var body struct {
				Matriz json.RawMessage `json:"matriz_correlacao"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			dec := json.NewDecoder(strings.NewReader(string(body.Matriz)))
			assert.Equal(t, []string{"idade", "colesterol", "pressao", "risco"}, objectKeys(t, dec))

			var m map[string]map[string]float64
			require.NoError(t, json.Unmarshal(body.Matriz, &m))
			for _, c := range []string{"idade", "colesterol", "pressao", "risco"} {
				assert.Len(t, m[c], 4)
				assert.Equal(t, 1.0, m[c][c])
			}
		})
	}
}

func TestSaudeDispersao(t *testing.T) {
	f := setupServer(t, solarCSV, referencePatients)
	rec := f.get(t, "/api/saude/dispersao-colesterol-pressao")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`[{"colesterol":200,"pressao":120},{"colesterol":240,"pressao":140},{"colesterol":220,"pressao":130}]`,
		rec.Body.String())
}

func TestSaudeEmptyTable(t *testing.T) {
	f := setupServer(t, solarCSV, nil)

	for _, path := range []string{
		"/api/saude/correlacao-variaveis/",
		"/api/saude/dispersao-colesterol-pressao/",
		"/api/saude/mapa-calor-correlacao/",
	} {
		rec := f.get(t, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.JSONEq(t, `{"error":"No data found"}`, rec.Body.String())
	}
}

type failingStore struct{}

func (failingStore) ListPatients(context.Context) ([]db.Patient, error) {
	return nil, errors.New("connection refused")
}

func TestSaudeStoreFailure(t *testing.T) {
	srv, err := New(config.Config{CORSAllowOrigin: "*"}, failingStore{}, logging.Discard())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/saude/correlacao-variaveis/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"connection refused"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "metrics disabled")
}

func TestRunStopsOnCancel(t *testing.T) {
	srv, err := New(config.Config{Port: 0, CORSAllowOrigin: "*"}, failingStore{}, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// objectKeys returns the keys of a JSON object in document order.
func objectKeys(t *testing.T, dec *json.Decoder) []string {
	t.Helper()
	tok, err := dec.Token()
	require.NoError(t, err)
	require.Equal(t, json.Delim('{'), tok)

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		keys = append(keys, tok.(string))

		var skip json.RawMessage
		require.NoError(t, dec.Decode(&skip))
	}
	return keys
}
