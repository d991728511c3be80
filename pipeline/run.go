package pipeline

import (
	"github.com/pkg/errors"

	"pgm2xm/analysis"
	"pgm2xm/decode"
	"pgm2xm/encode"
	"pgm2xm/parse"
	"pgm2xm/serialize"
	"pgm2xm/transform"
	"pgm2xm/view"
)

type Options struct {
	Song        int
	IncludeBIOS bool
	FineTuneFix bool
	Title       string
	TrackerName string

	// Logf receives progress and warning lines; nil discards them.
	Logf func(format string, args ...any)
	// PatternLog adds one progress line per pattern.
	PatternLog bool
}

func DefaultOptions() Options {
	return Options{
		FineTuneFix: true,
		TrackerName: serialize.DefaultTracker,
	}
}

// Context holds the state of one conversion: the instrument registry filled
// while decoding and the XM output built from it. It is not reused.
type Context struct {
	opts     Options
	dump     view.View
	space    view.SampleSpace
	reg      *transform.Registry
	out      *serialize.Writer
	warnings []string
}

// ErrMissingSource is returned when the dump, the sample ROM or a requested
// BIOS image is empty.
var ErrMissingSource = errors.New("missing source data")

func NewContext(dump, rom, bios []byte, opts Options) (*Context, error) {
	switch {
	case len(dump) == 0:
		return nil, errors.Wrap(ErrMissingSource, "program dump")
	case len(rom) == 0:
		return nil, errors.Wrap(ErrMissingSource, "sample ROM")
	case opts.IncludeBIOS && len(bios) == 0:
		return nil, errors.Wrap(ErrMissingSource, "BIOS ROM")
	}
	space := view.NewSampleSpace(rom)
	if opts.IncludeBIOS {
		var err error
		if space, err = view.NewSampleSpaceWithBIOS(bios, rom); err != nil {
			return nil, err
		}
	}
	return &Context{
		opts:  opts,
		dump:  view.New(dump),
		space: space,
		reg:   transform.NewRegistry(),
		out:   serialize.NewWriter(),
	}, nil
}

// Convert turns one song of the dump into an XM module.
func Convert(dump, rom, bios []byte, opts Options) (Result, error) {
	ctx, err := NewContext(dump, rom, bios, opts)
	if err != nil {
		return Result{}, err
	}
	return ctx.Run()
}

func (c *Context) Run() (Result, error) {
	header, err := parse.Locate(c.dump, c.opts.Song)
	if err != nil {
		return Result{}, err
	}
	c.logf("Song $%02X header at $%04X\n", c.opts.Song, header)

	song, err := parse.ReadSong(c.dump, header)
	if err != nil {
		return Result{}, errors.Wrapf(err, "song $%02X", c.opts.Song)
	}
	c.logf("  %d channels, %d patterns, %d positions\n", song.NumChannels, song.NumPatterns, len(song.Positions))
	for _, w := range song.Warnings {
		c.warn(w)
	}

	c.logf("Writing XM header\n")
	err = c.out.Header(serialize.Header{
		Title:       c.opts.Title,
		Tracker:     c.opts.TrackerName,
		Positions:   song.Positions,
		NumChannels: song.NumChannels,
		NumPatterns: song.NumPatterns,
	})
	if err != nil {
		return Result{}, err
	}

	pats, err := c.patterns(song)
	if err != nil {
		return Result{}, err
	}
	anal := analysis.Analyze(song, pats)
	c.logf("  Reachable positions: %d of %d, notes: %d, effects used: % X\n",
		len(anal.ReachablePositions), len(song.Positions), anal.Notes, anal.UsedEffects())
	if len(anal.UnusedPatterns) > 0 {
		c.logf("  Unused patterns: %v\n", anal.UnusedPatterns)
	}

	samples, err := c.instruments()
	if err != nil {
		return Result{}, err
	}

	c.logf("Wrote %d patterns, %d instruments, %d bytes\n", c.out.Patterns(), c.out.Instruments(), c.out.Len())
	return Result{
		XM:          c.out.Bytes(),
		Song:        song,
		Instruments: c.out.Instruments(),
		Samples:     samples,
		Analysis:    anal,
		Warnings:    c.warnings,
	}, nil
}

func (c *Context) patterns(song parse.Song) ([]decode.Pattern, error) {
	d := decode.NewDecoder(c.dump, c.reg, decode.Options{FineTuneFix: c.opts.FineTuneFix})
	pats := make([]decode.Pattern, 0, song.NumPatterns)
	seen := 0
	for i := 0; i < song.NumPatterns; i++ {
		if c.opts.PatternLog {
			c.logf("  Parsing pattern %d\n", i)
		}
		pat, err := d.Pattern(song, i)
		if err != nil {
			return nil, errors.Wrapf(err, "pattern %d", i)
		}
		packed, err := encode.PackPattern(pat)
		if err != nil {
			return nil, err
		}
		if err := c.out.Pattern(packed); err != nil {
			return nil, err
		}
		pats = append(pats, pat)
		for _, w := range d.Warnings[seen:] {
			c.warn(w.String())
		}
		seen = len(d.Warnings)
	}
	return pats, nil
}
