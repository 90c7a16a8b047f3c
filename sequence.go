package sprout

// LCG parameters. The recurrence is value = (value*seqMul + seqInc) mod seqMod
// and each draw returns value/seqMod.
const (
	seqMul = 9301
	seqInc = 49297
	seqMod = 233280
)

// Sequence is a deterministic pseudo-random stream in [0, 1).
//
// State is held in an int64. The largest intermediate product
// (seqMod-1)*seqMul + seqInc is above math.MaxInt32, so 32-bit signed
// arithmetic would overflow; int64 never does for int32 seeds. The modulus is
// Euclidean, which keeps draws in [0, 1) for negative seeds. For non-negative
// seeds the stream matches the browser preloader draw for draw.
type Sequence struct {
	value int64
}

// NewSequence creates a Sequence from seed.
func NewSequence(seed int32) *Sequence {
	return &Sequence{value: int64(seed)}
}

// Next advances the state and returns the next value in [0, 1).
func (s *Sequence) Next() float64 {
	v := (s.value*seqMul + seqInc) % seqMod
	if v < 0 {
		v += seqMod
	}
	s.value = v
	return float64(v) / seqMod
}

// Sample draws one value from seq and maps it into [r.Min, r.Max). A draw is
// consumed even when Min == Max so the rest of the stream stays aligned.
func (r Range) Sample(seq *Sequence) float64 {
	return r.Min + seq.Next()*(r.Max-r.Min)
}

// Jitter draws one value from seq and maps it into [-spread/2, spread/2).
func (s *Sequence) Jitter(spread float64) float64 {
	return (s.Next() - 0.5) * spread
}
