// Package health computes the cardiac-risk reports served under /api/saude.
package health

import (
	"github.com/02loveslollipop/minimundos-dashboard/services/api/apperr"
	"github.com/02loveslollipop/minimundos-dashboard/services/api/db"
	"github.com/02loveslollipop/minimundos-dashboard/services/api/stats"
)

// MsgNoData is reported when the patient table is empty.
const MsgNoData = "No data found"

// Columns is the fixed order of the correlation matrix.
var Columns = []string{"idade", "colesterol", "pressao", "risco"}

// Correlation computes the Pearson matrix over idade, colesterol, pressao and
// risco. The heatmap endpoint serves the same matrix.
func Correlation(patients []db.Patient) (stats.Matrix, error) {
	if len(patients) == 0 {
		return stats.Matrix{}, apperr.NotFound(MsgNoData, nil)
	}

	data := make([][]float64, len(Columns))
	for i := range data {
		data[i] = make([]float64, len(patients))
	}
	for j, p := range patients {
		data[0][j] = float64(p.Idade)
		data[1][j] = float64(p.Colesterol)
		data[2][j] = float64(p.Pressao)
		data[3][j] = float64(p.Risco)
	}
	return stats.CorrelationMatrix(Columns, data), nil
}

// Point is one patient reduced to the two scatter axes.
type Point struct {
	Colesterol int `json:"colesterol"`
	Pressao    int `json:"pressao"`
}

// Dispersion projects every patient onto (colesterol, pressao), keeping
// order and count.
func Dispersion(patients []db.Patient) ([]Point, error) {
	if len(patients) == 0 {
		return nil, apperr.NotFound(MsgNoData, nil)
	}
	points := make([]Point, len(patients))
	for i, p := range patients {
		points[i] = Point{Colesterol: p.Colesterol, Pressao: p.Pressao}
	}
	return points, nil
}
