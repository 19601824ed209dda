package transport

import (
	"fmt"

	"github.com/hksynth/hksynth-cli/internal/encoding"
	"github.com/hksynth/hksynth-cli/internal/models"
)

// Frame is one sample encoded for the wire: a single JSON line carrying the
// type name alongside the sample's properties.
type Frame struct {
	TypeName string
	Data     []byte
}

// EncodeFrame renders s as a wire frame. Keys are emitted in sorted order,
// so equal samples produce byte-equal frames.
func EncodeFrame(s models.Sample) (Frame, error) {
	props := s.Properties()
	line := make(models.Properties, len(props)+1)
	for k, v := range props {
		line[k] = v
	}
	line["type"] = s.TypeName()

	data, err := encoding.MarshalProperties(line)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to encode %s frame: %w", s.TypeName(), err)
	}
	return Frame{TypeName: s.TypeName(), Data: []byte(data)}, nil
}
