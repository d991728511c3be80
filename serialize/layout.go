package serialize

const (
	IDText        = "Extended Module: "
	TitleOffset   = 17
	TitleSize     = 20
	MarkerOffset  = 37
	Marker        = 0x1A
	TrackerOffset = 38
	TrackerSize   = 20
	VersionOffset = 58
	Version       = 0x0104
)

// Song header. HeaderSize is counted from HeaderOffset.
const (
	HeaderOffset      = 60
	HeaderSize        = 276
	SongLenOffset     = 64
	RestartOffset     = 66
	ChannelsOffset    = 68
	PatternsOffset    = 70
	InstrumentsOffset = 72
	FlagsOffset       = 74
	TempoOffset       = 76
	BPMOffset         = 78
	OrderOffset       = 80
	OrderSize         = 256
	FileHeaderSize    = HeaderOffset + HeaderSize
)

const (
	PatternHeaderSize = 9
	PatternRows       = 64
	MaxPackedSize     = 0xFFFF
)

const (
	InstHeaderSize  = 252
	InstNameOffset  = 4
	InstNameSize    = 22
	InstTypeOffset  = 26
	InstCountOffset = 27
	InstSampleHdr   = 29
)

const (
	SampleHeaderSize  = 40
	SampleVolOffset   = 12
	SampleFineOffset  = 13
	SampleTypeOffset  = 14
	SamplePanOffset   = 15
	SampleRelOffset   = 16
	SampleNameOffset  = 18
	SampleNameSize    = 22
	SampleLoopForward = 0x01
	SamplePanCenter   = 128
)

const (
	DefaultTempo   = 6
	DefaultBPM     = 125
	DefaultTracker = "pgm2xm"
)
