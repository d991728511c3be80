package encode

// Descriptor is one 22-byte sample record from the driver's sample table.
// Addresses are already shifted down to whole bytes within the bank.
type Descriptor struct {
	ID        int
	Offset    int
	Bank      byte
	Flags     byte
	Volume    byte
	Start     uint32
	End       uint32
	LoopStart uint32
	LoopEnd   uint32
}

// Sample is a descriptor resolved against the sample ROM. Start is the
// linear offset after the base offset is removed; LoopStart is relative to
// Start. Data is delta encoded.
type Sample struct {
	ID         int
	Descriptor int
	Start      int
	Length     int
	LoopStart  int
	LoopLength int
	Volume     byte
	Loop       bool
	Silent     bool
	Data       []byte
}
