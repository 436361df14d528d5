// Package energy computes the solar yield reports served under /api/energia.
package energy

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/02loveslollipop/minimundos-dashboard/services/api/apperr"
	"github.com/02loveslollipop/minimundos-dashboard/services/api/solar"
	"github.com/02loveslollipop/minimundos-dashboard/services/api/stats"
)

// Row is a reading enriched with its derived columns.
type Row struct {
	Hora                 int         `json:"hora"`
	RadiacaoWm2          stats.Float `json:"radiacao_wm2"`
	PotenciaKW           stats.Float `json:"potencia_kw"`
	TemperaturaC         stats.Float `json:"temperatura_c"`
	PotenciaIncidenteKW  stats.Float `json:"potencia_incidente_kw"`
	PercentualRendimento stats.Float `json:"percentual_rendimento"`
}

// Enrich adds incident power and yield to every reading, keeping order.
func Enrich(readings []solar.Reading) []Row {
	rows := make([]Row, len(readings))
	for i, r := range readings {
		rows[i] = Row{
			Hora:                 r.Hora,
			RadiacaoWm2:          stats.Float(r.RadiacaoWm2),
			PotenciaKW:           stats.Float(r.PotenciaKW),
			TemperaturaC:         stats.Float(r.TemperaturaC),
			PotenciaIncidenteKW:  stats.Float(r.IncidentPowerKW()),
			PercentualRendimento: stats.Float(r.YieldPercent()),
		}
	}
	return rows
}

// HourMean is the average yield of one hour of the day.
type HourMean struct {
	Hora  int
	Media float64
}

// HourlyYield encodes as a JSON object keyed by hour, ascending.
type HourlyYield []HourMean

// MarshalJSON implements json.Marshaler.
func (h HourlyYield) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, hm := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(hm.Hora)))
		buf.WriteByte(':')
		v, err := stats.Float(hm.Media).MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Summary holds the headline yield figures.
type Summary struct {
	RendimentoMedio  stats.Float `json:"rendimento_medio"`
	RendimentoMaximo stats.Float `json:"rendimento_maximo"`
	HoraPico         int         `json:"hora_pico"`
	PotenciaMax      stats.Float `json:"potencia_max"`
}

// Scatter holds the paired temperature/power series in source order.
type Scatter struct {
	Temperatura []stats.Float `json:"temperatura"`
	Potencia    []stats.Float `json:"potencia"`
}

// YieldReport is the body of GET /api/energia/rendimento/.
type YieldReport struct {
	DadosBrutos           []Row       `json:"dados_brutos"`
	RendimentoPorHora     HourlyYield `json:"rendimento_por_hora"`
	Estatisticas          Summary     `json:"estatisticas"`
	DadosGraficoDispersao Scatter     `json:"dados_grafico_dispersao"`
}

// Yield computes the yield report. Undefined yields (no radiation and no
// output) are left out of every mean and maximum. The peak hour is the hour
// of the first row, in source order, that reaches the maximum yield.
func Yield(readings []solar.Reading) (*YieldReport, error) {
	if len(readings) == 0 {
		return nil, apperr.Processingf("no solar readings to analyse")
	}

	yields := make([]float64, len(readings))
	power := make([]float64, len(readings))
	temps := make([]float64, len(readings))
	byHour := make(map[int][]float64)
	for i, r := range readings {
		yields[i] = r.YieldPercent()
		power[i] = r.PotenciaKW
		temps[i] = r.TemperaturaC
		byHour[r.Hora] = append(byHour[r.Hora], yields[i])
	}

	maxYield, peak := stats.ArgMax(yields)
	if peak < 0 {
		return nil, apperr.Processingf("no reading has a defined yield")
	}
	maxPower, _ := stats.ArgMax(power)

	return &YieldReport{
		DadosBrutos:       Enrich(readings),
		RendimentoPorHora: hourlyMeans(byHour),
		Estatisticas: Summary{
			RendimentoMedio:  stats.Float(stats.Round(stats.Mean(yields), 2)),
			RendimentoMaximo: stats.Float(stats.Round(maxYield, 2)),
			HoraPico:         readings[peak].Hora,
			PotenciaMax:      stats.Float(stats.Round(maxPower, 1)),
		},
		DadosGraficoDispersao: Scatter{
			Temperatura: stats.Floats(temps),
			Potencia:    stats.Floats(power),
		},
	}, nil
}

func hourlyMeans(byHour map[int][]float64) HourlyYield {
	hours := make([]int, 0, len(byHour))
	for h := range byHour {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	out := make(HourlyYield, 0, len(hours))
	for _, h := range hours {
		out = append(out, HourMean{Hora: h, Media: stats.Mean(byHour[h])})
	}
	return out
}

// Correlation column order.
var correlationColumns = []string{solar.ColTemperatura, solar.ColRadiacao, solar.ColPotencia}

// Insights are the three headline coefficients, rounded to 3 decimals.
type Insights struct {
	TempPotencia     stats.Float `json:"correlacao_temp_potencia"`
	RadiacaoPotencia stats.Float `json:"correlacao_radiacao_potencia"`
	TempRadiacao     stats.Float `json:"correlacao_temp_radiacao"`
}

// CorrelationReport is the body of GET /api/energia/correlacao/.
type CorrelationReport struct {
	MatrizCorrelacao stats.Matrix `json:"matriz_correlacao"`
	Insights         Insights     `json:"insights"`
}

// Correlation computes the Pearson matrix over temperature, radiation and
// power. Constant columns produce null coefficients, never an error.
func Correlation(readings []solar.Reading) *CorrelationReport {
	temps := make([]float64, len(readings))
	rad := make([]float64, len(readings))
	power := make([]float64, len(readings))
	for i, r := range readings {
		temps[i] = r.TemperaturaC
		rad[i] = r.RadiacaoWm2
		power[i] = r.PotenciaKW
	}

	m := stats.CorrelationMatrix(correlationColumns, [][]float64{temps, rad, power})
	return &CorrelationReport{
		MatrizCorrelacao: m,
		Insights: Insights{
			TempPotencia:     stats.Float(stats.Round(m.At(solar.ColTemperatura, solar.ColPotencia), 3)),
			RadiacaoPotencia: stats.Float(stats.Round(m.At(solar.ColRadiacao, solar.ColPotencia), 3)),
			TempRadiacao:     stats.Float(stats.Round(m.At(solar.ColTemperatura, solar.ColRadiacao), 3)),
		},
	}
}

// Units labels each physical quantity.
type Units struct {
	Temperatura string `json:"temperatura"`
	Radiacao    string `json:"radiacao"`
	Potencia    string `json:"potencia"`
	Rendimento  string `json:"rendimento"`
}

// DefaultUnits are the units of the CSV columns and derived yield.
var DefaultUnits = Units{
	Temperatura: "°C",
	Radiacao:    "W/m²",
	Potencia:    "kW",
	Rendimento:  "%",
}

// Metadata describes a full dump.
type Metadata struct {
	TotalRegistros int     `json:"total_registros"`
	AreaPainelM2   float64 `json:"area_painel_m2"`
	Unidades       Units   `json:"unidades"`
}

// DumpReport is the body of GET /api/energia/dados/.
type DumpReport struct {
	DadosCompletos []Row    `json:"dados_completos"`
	Metadados      Metadata `json:"metadados"`
}

// Dump returns every reading with its derived columns and metadata.
func Dump(readings []solar.Reading) *DumpReport {
	return &DumpReport{
		DadosCompletos: Enrich(readings),
		Metadados: Metadata{
			TotalRegistros: len(readings),
			AreaPainelM2:   solar.PanelAreaM2,
			Unidades:       DefaultUnits,
		},
	}
}
