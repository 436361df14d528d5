// Package stats holds the numeric helpers behind the reporting endpoints:
// NaN-skipping reductions, decimal rounding and Pearson correlation matrices.
package stats

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Float is a float64 that encodes NaN and ±Inf as JSON null instead of
// failing the whole response.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// Floats converts a slice for JSON encoding.
func Floats(xs []float64) []Float {
	out := make([]Float, len(xs))
	for i, x := range xs {
		out[i] = Float(x)
	}
	return out
}

// Round rounds x to the given number of decimals using the correctly rounded
// decimal form of x, so exact binary ties go to even. NaN and Inf pass through.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return r
}

// Mean averages the non-NaN values of xs. It returns NaN when there are none.
func Mean(xs []float64) float64 {
	var sum float64
	n := 0
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		sum += x
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// ArgMax returns the largest non-NaN value and the index of its first
// occurrence. The index is -1 and the value NaN when xs has no such value.
func ArgMax(xs []float64) (float64, int) {
	best, idx := math.NaN(), -1
	for i, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		if idx < 0 || x > best {
			best, idx = x, i
		}
	}
	return best, idx
}

// Pearson computes the linear correlation of x and y over the positions where
// both are defined. The result is NaN with fewer than two pairs or when
// either side has zero variance.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}

	// Welford updates keep a constant column at exactly zero variance.
	var count, meanX, meanY, ssX, ssY, cov float64
	for i := 0; i < n; i++ {
		vx, vy := x[i], y[i]
		if math.IsNaN(vx) || math.IsNaN(vy) {
			continue
		}
		count++
		prevX, prevY := meanX, meanY
		meanX += (vx - prevX) / count
		meanY += (vy - prevY) / count
		ssX += (vx - meanX) * (vx - prevX)
		ssY += (vy - meanY) * (vy - prevY)
		cov += (vx - meanX) * (vy - prevY)
	}
	if count < 2 {
		return math.NaN()
	}
	div := math.Sqrt(ssX * ssY)
	if div == 0 {
		return math.NaN()
	}
	r := cov / div
	switch {
	case r > 1:
		return 1
	case r < -1:
		return -1
	}
	return r
}

// Matrix is a square correlation matrix whose rows and columns follow Columns.
type Matrix struct {
	Columns []string
	Values  [][]float64
}

// CorrelationMatrix computes pairwise Pearson coefficients. data[i] holds the
// values of Columns[i]. The diagonal is exactly 1 for any column with
// variance, NaN otherwise.
func CorrelationMatrix(columns []string, data [][]float64) Matrix {
	k := len(columns)
	vals := make([][]float64, k)
	for i := range vals {
		vals[i] = make([]float64, k)
	}
	for i := 0; i < k; i++ {
		for j := 0; j <= i; j++ {
			r := Pearson(data[i], data[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			vals[i][j] = r
			vals[j][i] = r
		}
	}
	return Matrix{Columns: columns, Values: vals}
}

// At returns the coefficient for the named pair, NaN if either is unknown.
func (m Matrix) At(a, b string) float64 {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return math.NaN()
	}
	return m.Values[i][j]
}

func (m Matrix) index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// MarshalJSON encodes the matrix as an object of objects keyed by column
// name, preserving column order at both levels.
func (m Matrix) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for c, col := range m.Columns {
		if c > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, col); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for r, row := range m.Columns {
			if r > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, row); err != nil {
				return nil, err
			}
			v, err := Float(m.Values[r][c]).MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}
