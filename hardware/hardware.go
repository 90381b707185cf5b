package hardware

// AUDC register bits.
const (
	AUDCVolumeMask = 0x0F // Bits 0-3: volume (0-15)
	AUDCVolumeOnly = 0x10 // Bit 4: volume-only mode (DC output at volume level)
)

// CPU clocks of the target machine.
const (
	ClockNTSC = 1789773
	ClockPAL  = 1773447
)

const (
	// CyclesPerSample is the decoder's fixed sample period in CPU cycles (one scanline).
	CyclesPerSample = 114

	// GlitchCycles is the delay between the channel 1 and channel 2 AUDC stores.
	GlitchCycles = 4

	// DefaultRate is the playback rate of a decoder running once per scanline.
	DefaultRate = ClockNTSC / CyclesPerSample

	// Levels is the number of volumes a single channel can produce.
	Levels = 16

	// MaxVolume is the largest single-channel volume.
	MaxVolume = Levels - 1

	// CombinedLevels is the number of distinct volume sums of two channels.
	CombinedLevels = 2*MaxVolume + 1

	// SaturationKnee is the combined level above which the output stage compresses.
	SaturationKnee = 20
)

// Saturate applies the output stage's mixing curve to a combined level.
// Levels at or below the knee pass through; the excess above it is halved.
func Saturate(level float64) float64 {
	if level <= SaturationKnee {
		return level
	}
	return SaturationKnee + (level-SaturationKnee)/2
}

// SaturatedMax is the largest output the saturation curve produces for two channels.
var SaturatedMax = Saturate(2 * MaxVolume)

// Pair holds the volumes written to channel 1 (A) and channel 2 (B).
type Pair struct {
	A uint8
	B uint8
}

// Sum returns the linear combined level of the pair.
func (p Pair) Sum() int {
	return int(p.A) + int(p.B)
}

// BalancedSplit distributes a combined level over two channels as evenly as possible.
func BalancedSplit(level int) Pair {
	if level < 0 {
		level = 0
	}
	if level > 2*MaxVolume {
		level = 2 * MaxVolume
	}
	a := level / 2
	return Pair{A: uint8(a), B: uint8(level - a)}
}
