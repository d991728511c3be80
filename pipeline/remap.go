package pipeline

import (
	"pgm2xm/encode"
)

// instruments transcodes every registered sample in instrument order and
// appends it to the output.
func (c *Context) instruments() ([]encode.Sample, error) {
	t, err := encode.NewTranscoder(c.dump, c.space)
	if err != nil {
		return nil, err
	}

	ids := c.reg.IDs()
	c.logf("%d instruments\n", len(ids))
	samples := make([]encode.Sample, 0, len(ids))
	for i, id := range ids {
		s, err := t.Sample(id)
		if err != nil {
			return nil, err
		}
		if s.Silent {
			c.logf("  %3d: sample $%02X silent\n", i+1, id)
		} else {
			c.logf("  %3d: sample $%02X at $%06X, %d bytes\n", i+1, id, s.Start+t.Base(), s.Length)
		}
		if err := c.out.Instrument(s); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	for _, w := range t.Warnings {
		c.warn(w)
	}
	return samples, nil
}
