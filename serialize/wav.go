package serialize

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"

	"pgm2xm/encode"
)

const DefaultSampleRate = 22050

// WriteSampleWAV writes the sample as 8-bit mono PCM. WAV stores 8-bit
// samples unsigned, so the signed ROM data is offset by $80.
func WriteSampleWAV(w io.WriteSeeker, s encode.Sample, rate int) error {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	pcm := encode.DeltaDecode(s.Data)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           make([]int, len(pcm)),
		SourceBitDepth: 8,
	}
	for i, b := range pcm {
		buf.Data[i] = int(b ^ 0x80)
	}

	enc := wav.NewEncoder(w, rate, 8, 1, 1)
	if err := enc.Write(buf); err != nil {
		return errors.Wrapf(err, "sample $%02X", s.ID)
	}
	return errors.Wrapf(enc.Close(), "sample $%02X", s.ID)
}
