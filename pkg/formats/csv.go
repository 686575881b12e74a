// Package formats decodes column-oriented CSV vertex dumps and writes
// assembled meshes to interchange formats.
package formats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/csvmesh/pkg/mesh"
)

// CSV decode errors.
var (
	ErrMalformedRow = errors.New("malformed row")
	ErrNumericParse = errors.New("non-numeric field")
)

// RowError describes a failure on a specific data row. Row is the 0-based
// vertex index, Line is the 1-based line in the file.
type RowError struct {
	Row    int
	Line   int
	Column int
	Fields int    // number of fields in the row
	Field  string // raw field text, for parse failures
	Err    error
}

func (e *RowError) Error() string {
	if errors.Is(e.Err, ErrNumericParse) {
		return fmt.Sprintf("row %d (line %d), column %d: %v %q", e.Row, e.Line, e.Column, e.Err, e.Field)
	}
	return fmt.Sprintf("row %d (line %d): %v: column %d missing, row has %d fields", e.Row, e.Line, e.Err, e.Column, e.Fields)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// DecodeOptions controls per-row transformations.
type DecodeOptions struct {
	MirrorX     bool // negate the X position component
	MirrorUV    bool // replace v with 1-v
	FlipWinding bool // emit faces as (c, b, a)
	SkipHeader  bool // discard the first record
}

// DefaultDecodeOptions returns the options used when nothing is configured.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		MirrorX:    true,
		MirrorUV:   true,
		SkipHeader: true,
	}
}

// Decoded holds the parallel per-vertex arrays read from a CSV dump.
type Decoded struct {
	Positions [][3]float32
	Normals   [][3]float32
	Faces     []mesh.Face
	UVSets    [][][2]float32
	RGBSets   [][][3]float32
	AlphaSets [][]float32

	Rows    int // data rows processed
	Dropped int // trailing rows that did not complete a triangle
}

// Input returns the decoded arrays in the form the assembler consumes.
func (d *Decoded) Input() mesh.Input {
	return mesh.Input{
		Positions: d.Positions,
		Normals:   d.Normals,
		Faces:     d.Faces,
		UVSets:    d.UVSets,
		RGBSets:   d.RGBSets,
		AlphaSets: d.AlphaSets,
	}
}

func newDecoded(m ColumnMapping) *Decoded {
	d := &Decoded{}
	if len(m.UV) > 0 {
		d.UVSets = make([][][2]float32, len(m.UV))
	}
	if len(m.RGB) > 0 {
		d.RGBSets = make([][][3]float32, len(m.RGB))
	}
	if len(m.Alpha) > 0 {
		d.AlphaSets = make([][]float32, len(m.Alpha))
	}
	return d
}

// DecodeFile decodes the CSV file at path.
func DecodeFile(path string, m ColumnMapping, opts DecodeOptions) (*Decoded, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV file: %w", err)
	}
	defer f.Close()
	return Decode(f, m, opts)
}

// Decode reads comma-separated rows from r and de-interleaves the mapped
// columns into per-attribute arrays. Every group of three consecutive rows
// becomes one face. Every row must have at least m.MaxColumn()+1 fields;
// any error aborts the whole decode.
func Decode(r io.Reader, m ColumnMapping, opts DecodeOptions) (*Decoded, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.LazyQuotes = true

	d := newDecoded(m)
	need := m.MaxColumn() + 1

	if opts.SkipHeader {
		if _, err := cr.Read(); err != nil {
			if err == io.EOF {
				return d, nil
			}
			return nil, fmt.Errorf("reading header: %w", err)
		}
	}

	var pending [3]int
	buffered := 0

	for row := 0; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", row, err)
		}
		line, _ := cr.FieldPos(0)
		if len(record) < need {
			return nil, &RowError{
				Row:    row,
				Line:   line,
				Column: m.missingColumn(len(record)),
				Fields: len(record),
				Err:    ErrMalformedRow,
			}
		}
		p := rowParser{record: record, row: row, line: line}

		pos, err := p.vec3(m.Position)
		if err != nil {
			return nil, err
		}
		if opts.MirrorX {
			pos[0] = -pos[0]
		}
		d.Positions = append(d.Positions, toFloat32x3(pos))

		nrm, err := p.vec3(m.Normal)
		if err != nil {
			return nil, err
		}
		d.Normals = append(d.Normals, toFloat32x3(nrm))

		for i, cols := range m.UV {
			u, err := p.float(cols[0])
			if err != nil {
				return nil, err
			}
			v, err := p.float(cols[1])
			if err != nil {
				return nil, err
			}
			if opts.MirrorUV {
				v = 1 - v
			}
			d.UVSets[i] = append(d.UVSets[i], [2]float32{float32(u), float32(v)})
		}

		for i, cols := range m.RGB {
			c, err := p.vec3(cols)
			if err != nil {
				return nil, err
			}
			d.RGBSets[i] = append(d.RGBSets[i], toFloat32x3(c))
		}

		for i, col := range m.Alpha {
			a, err := p.float(col)
			if err != nil {
				return nil, err
			}
			d.AlphaSets[i] = append(d.AlphaSets[i], float32(a))
		}

		pending[buffered] = row
		buffered++
		if buffered == 3 {
			face := mesh.Face{pending[0], pending[1], pending[2]}
			if opts.FlipWinding {
				face = face.Flipped()
			}
			d.Faces = append(d.Faces, face)
			buffered = 0
		}
		d.Rows++
	}

	d.Dropped = buffered
	return d, nil
}

// rowParser extracts typed fields from one record.
type rowParser struct {
	record []string
	row    int
	line   int
}

// float parses column col, which the caller has checked is present.
// Values outside float32 range, NaN and infinities are rejected.
func (p rowParser) float(col int) (float64, error) {
	raw := p.record[col]
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &RowError{
			Row:    p.row,
			Line:   p.line,
			Column: col,
			Fields: len(p.record),
			Field:  raw,
			Err:    ErrNumericParse,
		}
	}
	return v, nil
}

func (p rowParser) vec3(cols [3]int) ([3]float64, error) {
	var v [3]float64
	for i, col := range cols {
		f, err := p.float(col)
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	return v, nil
}

func toFloat32x3(v [3]float64) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}
