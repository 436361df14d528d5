package solar

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/02loveslollipop/minimundos-dashboard/services/api/apperr"
)

// Column names expected in the CSV header.
const (
	ColHora        = "hora"
	ColRadiacao    = "radiacao_wm2"
	ColPotencia    = "potencia_kw"
	ColTemperatura = "temperatura_c"
)

var requiredColumns = []string{ColHora, ColRadiacao, ColPotencia, ColTemperatura}

// Load reads every reading from the CSV at path. A missing file is a
// NotFound error; anything else that goes wrong is a Processing error.
func Load(path string) ([]Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound("solar data file not found", err)
		}
		return nil, apperr.Processing("open solar data", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes readings from CSV. Columns are matched by header name, so
// their order is free and extra columns are ignored.
func Parse(r io.Reader) ([]Reading, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperr.Processingf("solar data is empty: missing header")
		}
		return nil, apperr.Processing("read header", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		idx[strings.ToLower(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, apperr.Processingf("missing column %q", col)
		}
	}

	readings := make([]Reading, 0)
	line := 1
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, apperr.Processing(fmt.Sprintf("read line %d", line+1), err)
		}
		line++
		if blank(rec) {
			continue
		}

		var rd Reading
		hora, err := field(rec, idx[ColHora], line, ColHora)
		if err != nil {
			return nil, err
		}
		if hora != float64(int(hora)) {
			return nil, apperr.Processingf("line %d: %s must be an integer, got %v", line, ColHora, hora)
		}
		if hora < 0 || hora > 23 {
			return nil, apperr.Processingf("line %d: %s must be between 0 and 23, got %d", line, ColHora, int(hora))
		}
		rd.Hora = int(hora)
		if rd.RadiacaoWm2, err = field(rec, idx[ColRadiacao], line, ColRadiacao); err != nil {
			return nil, err
		}
		if rd.PotenciaKW, err = field(rec, idx[ColPotencia], line, ColPotencia); err != nil {
			return nil, err
		}
		if rd.TemperaturaC, err = field(rec, idx[ColTemperatura], line, ColTemperatura); err != nil {
			return nil, err
		}
		readings = append(readings, rd)
	}
	return readings, nil
}

func field(rec []string, i, line int, name string) (float64, error) {
	if i >= len(rec) {
		return 0, apperr.Processingf("line %d: missing value for %s", line, name)
	}
	raw := strings.TrimSpace(rec[i])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperr.Processingf("line %d: invalid %s %q", line, name, raw)
	}
	return v, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
