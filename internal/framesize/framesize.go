// Package framesize implements the transient-energy computation and the
// 16-state Viterbi search that selects the encoder's frame duration (LM,
// log2 of the duration in units of 2.5ms). Built fresh from the protocol
// description; there is no direct analog in the teacher repo, which only
// ever emits fixed-size CELT frames.
package framesize

import "github.com/opuscore/opuscore/internal/fixedmath"

// Memory holds up to 3 carry-over sub-frame energies (and their
// reciprocals) from the tail of the previous frame, used to seed the
// look-ahead buffering.
type Memory struct {
	E  [3]float64
	E1 [3]float64
	N  int // number of valid carried-over entries, 0-3
}

// subframeEnergies computes, for each 2.5ms sub-frame of pcm (fs/400
// samples each), the summed squared first difference e[i] and its
// reciprocal e1[i] = 1/e[i]. mem seeds indices [0,mem.N) from the
// previous frame's tail and the write position advances by mem.N.
func subframeEnergies(pcm []int16, channels, fs int, mem *Memory, downmix func(pcm []int16, out []float64, subframeLen, offset, channels int)) ([]float64, []float64) {
	subframeLen := fs / 400
	totalSamples := len(pcm) / channels
	numSub := totalSamples / subframeLen

	n := numSub + mem.N
	e := make([]float64, n)
	e1 := make([]float64, n)

	for i := 0; i < mem.N; i++ {
		e[i] = mem.E[i]
		e1[i] = mem.E1[i]
	}

	buf := make([]float64, subframeLen)
	for s := 0; s < numSub; s++ {
		downmix(pcm, buf, subframeLen, s*subframeLen, channels)
		var sum float64
		prev := 0.0
		for _, v := range buf {
			d := v - prev
			sum += d * d
			prev = v
		}
		idx := s + mem.N
		e[idx] = sum
		if sum > 0 {
			e1[idx] = 1.0 / sum
		} else {
			e1[idx] = 1e32
		}
	}

	return e, e1
}

// DefaultDownmix writes subframeLen samples of channel 0 (or the average
// across channels if channels > 1) starting at offset into out.
func DefaultDownmix(pcm []int16, out []float64, subframeLen, offset, channels int) {
	for i := 0; i < subframeLen; i++ {
		var sum float64
		base := (offset + i) * channels
		for c := 0; c < channels; c++ {
			if base+c < len(pcm) {
				sum += float64(pcm[base+c])
			}
		}
		out[i] = sum / float64(channels)
	}
}

// transientBoost computes the transient-boost metric for LM level lm at
// sub-frame position i, per the reference: metric = (sum(E)*sum(E1)) / M^2
// over M = min(maxM, 2^lm+1) sub-frames starting at i.
func transientBoost(e, e1 []float64, i, lm, maxM int) float64 {
	m := 1 << uint(lm)
	m++
	if m > maxM {
		m = maxM
	}
	if m < 1 {
		m = 1
	}

	var sumE, sumE1 float64
	for j := 0; j < m; j++ {
		idx := i + j
		if idx >= len(e) {
			break
		}
		sumE += e[idx]
		sumE1 += e1[idx]
	}

	metric := sumE * sumE1 / float64(m*m)
	boost := 0.05 * (metric - 2)
	if boost < 0 {
		boost = 0
	}
	result := sqrtFloat(boost)
	if result > 1 {
		result = 1
	}
	return result
}

// sqrtFloat computes a float64 square root via Newton's method, avoiding
// a dependency on math.Sqrt so the whole frame-size search stays within
// this package's own arithmetic.
func sqrtFloat(x float64) float64 {
	if x <= 0 {
		return 0
	}
	z := x
	for i := 0; i < 20; i++ {
		z = z - (z*z-x)/(2*z)
	}
	return z
}

const infCost = 1e30

// Optimize runs the 16-state Viterbi search over N sub-frame positions
// and returns the best LM in {0,1,2,3}, per §4.5. rate is the bit budget
// of one 2.5 ms sub-frame (bitrate in bit/s divided by 400): a new frame
// of 2^j sub-frames adds rate*2^j to its marginal cost, and factor scales
// the transient boost from 0 at rate 80 up to 1 at rate 160 (32-64 kbit/s).
func Optimize(e, e1 []float64, n int, rate int) int {
	factor := float64(rate-80) / 80
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}

	// State 0 is unused. States 1,2,4,8 mark the first sub-frame of a new
	// frame of duration 2^j*2.5ms; a state then increments by one every
	// sub-frame (zero marginal cost) until it reaches the terminating
	// value 2^(j+1)-1 (one of 1,3,7,15), at which point that frame is
	// complete and a new one may start from it.
	const numStates = 16
	terminating := [4]int{1, 3, 7, 15}
	isTerminal := func(s int) bool {
		return s == 1 || s == 3 || s == 7 || s == 15
	}

	cost := make([]float64, numStates)
	pred := make([][numStates]int8, n)
	for i := range pred {
		for s := range pred[i] {
			pred[i][s] = -1
		}
	}

	for s := 0; s < numStates; s++ {
		cost[s] = infCost
	}
	for j := 0; j < 4; j++ {
		cost[1<<uint(j)] = 0
	}

	for i := 1; i < n; i++ {
		next := make([]float64, numStates)
		for s := range next {
			next[s] = infCost
		}

		// Continuations: non-terminal s -> s+1, zero marginal cost.
		for s := 1; s < numStates-1; s++ {
			if cost[s] >= infCost || isTerminal(s) {
				continue
			}
			if cost[s] < next[s+1] {
				next[s+1] = cost[s]
				pred[i][s+1] = int8(s)
			}
		}

		// New-frame transitions: land on 2^j, sourced from the cheapest
		// terminating state of the previous sub-frame position.
		for j := 0; j < 4; j++ {
			newState := 1 << uint(j)
			maxM := n - i
			boost := transientBoost(e, e1, i, j, fixedmath.MaxInt(1, maxM))
			const frameCost = 1
			marginal := (frameCost + float64(rate)*float64(int(1)<<uint(j))) * (1 + factor*boost)

			best := infCost
			var bestFrom int8 = -1
			for _, term := range terminating {
				if cost[term] < best {
					best = cost[term]
					bestFrom = int8(term)
				}
			}
			if best < infCost && best+marginal < next[newState] {
				next[newState] = best + marginal
				pred[i][newState] = bestFrom
			}
		}

		cost = next
	}

	best := infCost
	bestState := 1
	for s := 0; s < numStates; s++ {
		if cost[s] < best {
			best = cost[s]
			bestState = s
		}
	}

	// Traceback to frame 0 to recover which new-frame slot began the
	// path that wins at the final sub-frame.
	state := bestState
	for i := n - 1; i > 0; i-- {
		p := pred[i][state]
		if p < 0 {
			break
		}
		state = int(p)
	}

	return lowBitPosition(state)
}

// lowBitPosition returns the index of the lowest set bit of state (one
// of 1,2,4,8), or 0 if state has no bits set.
func lowBitPosition(state int) int {
	for j := 0; j < 4; j++ {
		if state&(1<<uint(j)) != 0 {
			return j
		}
	}
	return 0
}

// ComputeAndOptimize runs the full transient-energy + Viterbi pipeline
// for one encode call and returns the selected LM.
func ComputeAndOptimize(pcm []int16, channels, fs, rate int, mem *Memory, downmix func([]int16, []float64, int, int, int)) int {
	if downmix == nil {
		downmix = DefaultDownmix
	}
	e, e1 := subframeEnergies(pcm, channels, fs, mem, downmix)

	n := len(e)
	if n < 1 {
		return 0
	}

	lm := Optimize(e, e1, n, rate)

	// Carry the tail 3 sub-frame energies forward for the next call's
	// look-ahead buffering.
	mem.N = fixedmath.MinInt(3, n)
	for i := 0; i < mem.N; i++ {
		src := n - mem.N + i
		mem.E[i] = e[src]
		mem.E1[i] = e1[src]
	}

	return lm
}
