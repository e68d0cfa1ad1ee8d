// encode.go - Binaer-Codec fuer persistierte Cache-Entries
//
// Blob-Layout (little endian):
//
//	byte  0     Version
//	byte  1     Flags (Bit 0: Vektoren als float16)
//	uint32      Anzahl Positionen
//	uint32      Vektor-Dimension
//	[n*d]       Key-Vektoren
//	[n*d]       Value-Vektoren
//
// float16 halbiert die Blob-Groesse; der Verlust an Mantisse ist fuer den
// Cache unkritisch (best effort, niemals korrektheitsrelevant).
package store

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/7blacky7/plauderkasten/kvcache"
)

const (
	codecVersion = 1

	flagF16 = 1 << 0
)

func encodeEntry(e *kvcache.Entry, f16 bool) ([]byte, error) {
	if len(e.Keys) != len(e.Values) {
		return nil, fmt.Errorf("refusing to encode corrupt entry: %d keys, %d values", len(e.Keys), len(e.Values))
	}

	n := len(e.Keys)
	dim := 0
	if n > 0 {
		dim = len(e.Keys[0])
	}

	width := 8
	var flags byte
	if f16 {
		width = 2
		flags |= flagF16
	}

	buf := make([]byte, 0, 10+2*n*dim*width)
	buf = append(buf, codecVersion, flags)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(n))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dim))

	appendVectors := func(vecs [][]float64) error {
		for _, v := range vecs {
			if len(v) != dim {
				return fmt.Errorf("ragged vector: length %d, expected %d", len(v), dim)
			}
			for _, x := range v {
				if f16 {
					buf = binary.LittleEndian.AppendUint16(buf, float16.Fromfloat32(float32(x)).Bits())
				} else {
					buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(x))
				}
			}
		}
		return nil
	}

	if err := appendVectors(e.Keys); err != nil {
		return nil, err
	}
	if err := appendVectors(e.Values); err != nil {
		return nil, err
	}

	return buf, nil
}

func decodeEntry(blob []byte) (*kvcache.Entry, error) {
	if len(blob) < 10 {
		return nil, fmt.Errorf("blob too short: %d bytes", len(blob))
	}

	if blob[0] != codecVersion {
		return nil, fmt.Errorf("unknown codec version %d", blob[0])
	}

	f16 := blob[1]&flagF16 != 0
	n := int(binary.LittleEndian.Uint32(blob[2:6]))
	dim := int(binary.LittleEndian.Uint32(blob[6:10]))

	width := 8
	if f16 {
		width = 2
	}

	// Header-Werte sind nicht vertrauenswuerdig: n*dim*width kann int
	// ueberlaufen, deshalb erst das Produkt in uint64 gegen die
	// Blob-Laenge pruefen
	total := uint64(n) * uint64(dim)
	if total > uint64(len(blob)) {
		return nil, fmt.Errorf("blob length %d cannot hold %d vectors of dim %d", len(blob), n, dim)
	}
	if want := 10 + 2*total*uint64(width); uint64(len(blob)) != want {
		return nil, fmt.Errorf("blob length %d, expected %d", len(blob), want)
	}

	off := 10
	readVectors := func() [][]float64 {
		vecs := make([][]float64, n)
		for i := range vecs {
			v := make([]float64, dim)
			for j := range v {
				if f16 {
					v[j] = float64(float16.Frombits(binary.LittleEndian.Uint16(blob[off:])).Float32())
					off += 2
				} else {
					v[j] = math.Float64frombits(binary.LittleEndian.Uint64(blob[off:]))
					off += 8
				}
			}
			vecs[i] = v
		}
		return vecs
	}

	return &kvcache.Entry{
		Keys:   readVectors(),
		Values: readVectors(),
	}, nil
}
