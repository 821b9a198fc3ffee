// Package export converts parsed PoreBlazer tables to Arrow records and
// writes them as Arrow IPC files or CSV, for consumption by dataframe
// tooling downstream.
package export

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/csv"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"poreparse/poreblazer"
)

// Format selects the on-disk encoding of an exported table.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatArrow Format = "arrow"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatArrow:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q (valid: csv, arrow)", s)
	}
}

// PSDSchema is the Arrow schema of an exported pore-size distribution:
// diameter plus the two nullable joined columns.
func PSDSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "d", Type: arrow.PrimitiveTypes.Float64},
		{Name: "volume_fraction", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "derivative_dist", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, nil)
}

// XYZSchema is the Arrow schema of an exported point cloud.
func XYZSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "particle", Type: arrow.BinaryTypes.String},
		{Name: "x", Type: arrow.PrimitiveTypes.Float64},
		{Name: "y", Type: arrow.PrimitiveTypes.Float64},
		{Name: "z", Type: arrow.PrimitiveTypes.Float64},
	}, nil)
}

// NewPSDRecord builds an Arrow record from PSD rows. The caller owns the
// returned record and must Release it.
func NewPSDRecord(mem memory.Allocator, rows []poreblazer.PSDRow) arrow.Record {
	b := array.NewRecordBuilder(mem, PSDSchema())
	defer b.Release()

	d := b.Field(0).(*array.Float64Builder)
	cum := b.Field(1).(*array.Float64Builder)
	deriv := b.Field(2).(*array.Float64Builder)

	for _, row := range rows {
		d.Append(row.Diameter)
		appendNullable(cum, row.Cumulative)
		appendNullable(deriv, row.Derivative)
	}
	return b.NewRecord()
}

// NewXYZRecord builds an Arrow record from xyz rows. The caller owns the
// returned record and must Release it.
func NewXYZRecord(mem memory.Allocator, rows []poreblazer.XYZRow) arrow.Record {
	b := array.NewRecordBuilder(mem, XYZSchema())
	defer b.Release()

	particle := b.Field(0).(*array.StringBuilder)
	x := b.Field(1).(*array.Float64Builder)
	y := b.Field(2).(*array.Float64Builder)
	z := b.Field(3).(*array.Float64Builder)

	for _, row := range rows {
		particle.Append(row.Particle)
		x.Append(row.X)
		y.Append(row.Y)
		z.Append(row.Z)
	}
	return b.NewRecord()
}

func appendNullable(b *array.Float64Builder, v *float64) {
	if v == nil {
		b.AppendNull()
		return
	}
	b.Append(*v)
}

// WritePSD writes PSD rows to w in the given format.
func WritePSD(w io.Writer, rows []poreblazer.PSDRow, format Format) error {
	mem := memory.NewGoAllocator()
	rec := NewPSDRecord(mem, rows)
	defer rec.Release()
	return writeRecord(w, rec, format, mem)
}

// WriteXYZ writes point-cloud rows to w in the given format.
func WriteXYZ(w io.Writer, rows []poreblazer.XYZRow, format Format) error {
	mem := memory.NewGoAllocator()
	rec := NewXYZRecord(mem, rows)
	defer rec.Release()
	return writeRecord(w, rec, format, mem)
}

func writeRecord(w io.Writer, rec arrow.Record, format Format, mem memory.Allocator) error {
	switch format {
	case FormatArrow:
		// ipc.NewFileWriter needs an io.WriteSeeker to patch up the file
		// footer, so stage the file in memory and copy it to w.
		var ws seekBuffer
		fw, err := ipc.NewFileWriter(&ws, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
		if err != nil {
			return fmt.Errorf("creating arrow writer: %w", err)
		}
		if err := fw.Write(rec); err != nil {
			fw.Close()
			return fmt.Errorf("writing arrow record: %w", err)
		}
		if err := fw.Close(); err != nil {
			return err
		}
		_, err = w.Write(ws.buf)
		return err

	case FormatCSV:
		cw := csv.NewWriter(w, rec.Schema(), csv.WithComma(','), csv.WithHeader(true), csv.WithNullWriter(""))
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
		if err := cw.Flush(); err != nil {
			return fmt.Errorf("flushing csv: %w", err)
		}
		return cw.Error()

	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// seekBuffer is an in-memory io.WriteSeeker used to satisfy
// ipc.NewFileWriter when the destination is a plain io.Writer.
type seekBuffer struct {
	buf []byte
	pos int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if need := b.pos + len(p); need > len(b.buf) {
		if need > cap(b.buf) {
			grown := make([]byte, need, 2*need)
			copy(grown, b.buf)
			b.buf = grown
		} else {
			b.buf = b.buf[:need]
		}
	}
	copy(b.buf[b.pos:], p)
	b.pos += len(p)
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(b.pos) + offset
	case io.SeekEnd:
		abs = int64(len(b.buf)) + offset
	default:
		return 0, fmt.Errorf("seekBuffer: invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("seekBuffer: negative position")
	}
	b.pos = int(abs)
	return abs, nil
}
