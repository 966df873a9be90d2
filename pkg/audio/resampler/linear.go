package resampler

// TargetRate is the sample rate every clip is converted to before it is
// handed to the lip-sync engine.
const TargetRate = 16000

// ToTarget resamples samples from srcRate to TargetRate.
func ToTarget(samples []float32, srcRate int) []float32 {
	return Linear(samples, srcRate, TargetRate)
}

// Linear resamples samples from srcRate to dstRate using linear
// interpolation. The input is returned as is when the rates match, when it
// is empty, when it has fewer than two samples, or when a rate is not
// positive.
func Linear(samples []float32, srcRate, dstRate int) []float32 {
	n := len(samples)
	if srcRate == dstRate || n == 0 {
		return samples
	}
	if n < 2 || srcRate <= 0 || dstRate <= 0 {
		return samples
	}

	m := OutputLen(n, srcRate, dstRate)
	out := make([]float32, m)
	if m == 1 {
		out[0] = samples[0]
		return out
	}

	last := n - 1
	step := float64(last) / float64(m-1)
	for i := range out {
		pos := float64(i) * step
		if i == m-1 {
			pos = float64(last)
		}
		j := int(pos)
		if j >= last {
			out[i] = samples[last]
			continue
		}
		frac := pos - float64(j)
		a, b := float64(samples[j]), float64(samples[j+1])
		out[i] = float32(a + (b-a)*frac)
	}
	return out
}

// OutputLen returns ceil(n*dstRate/srcRate), the number of samples Linear
// produces for an input of n samples when the rates differ.
func OutputLen(n, srcRate, dstRate int) int {
	num := int64(n) * int64(dstRate)
	den := int64(srcRate)
	return int((num + den - 1) / den)
}
