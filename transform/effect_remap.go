package transform

const (
	EffectExtended = 0x0E
	SubFineTune    = 0x50
)

// FineTune rewrites an E5x parameter. The driver's fine-tune scale sits 8
// steps away from the XM one, so the low nibble is shifted by -8 modulo 16.
// Other effects pass through unchanged.
func FineTune(effect, param byte) byte {
	if effect != EffectExtended || param&0xF0 != SubFineTune {
		return param
	}
	return param&0xF0 | (param&0x0F-8)&0x0F
}
