// Package transform implements the reversible byte obfuscation applied to
// every envelope after the handshake.
//
// All functions are pure: they return a new buffer and never modify their
// input, so independent buffers may be transformed concurrently.
package transform

// Encrypt applies the outbound chain: SwapMultiples, Interleave, FlipMSB.
// A multiplier of zero (or less) disables the chain.
func Encrypt(buf []byte, multiplier int) []byte {
	if multiplier <= 0 {
		return clone(buf)
	}
	return FlipMSB(Interleave(SwapMultiples(buf, multiplier)))
}

// Decrypt inverts Encrypt: FlipMSB, Deinterleave, UnswapMultiples.
func Decrypt(buf []byte, multiplier int) []byte {
	if multiplier <= 0 {
		return clone(buf)
	}
	return UnswapMultiples(Deinterleave(FlipMSB(buf)), multiplier)
}

// SwapMultiples reverses every run of two or more consecutive bytes whose
// value is a multiple of multiplier. Runs keep their positions, so the
// permutation is its own inverse.
func SwapMultiples(buf []byte, multiplier int) []byte {
	out := clone(buf)
	if multiplier <= 0 {
		return out
	}
	run := 0
	for i := 0; i <= len(out); i++ {
		if i < len(out) && int(out[i])%multiplier == 0 {
			run++
			continue
		}
		if run > 1 {
			start := i - run
			for lo, hi := start, i-1; lo < hi; lo, hi = lo+1, hi-1 {
				out[lo], out[hi] = out[hi], out[lo]
			}
		}
		run = 0
	}
	return out
}

// UnswapMultiples is the inverse of SwapMultiples.
func UnswapMultiples(buf []byte, multiplier int) []byte {
	return SwapMultiples(buf, multiplier)
}

// Interleave places the first half of buf on the even positions, front to
// back, and the second half on the odd positions, back to front.
func Interleave(buf []byte) []byte {
	n := len(buf)
	out := make([]byte, n)
	src := 0
	i := 0
	for ; i < n; i += 2 {
		out[i] = buf[src]
		src++
	}
	for i = lastOdd(n); i >= 0; i -= 2 {
		out[i] = buf[src]
		src++
	}
	return out
}

// Deinterleave is the exact inverse of Interleave.
func Deinterleave(buf []byte) []byte {
	n := len(buf)
	out := make([]byte, n)
	dst := 0
	i := 0
	for ; i < n; i += 2 {
		out[dst] = buf[i]
		dst++
	}
	for i = lastOdd(n); i >= 0; i -= 2 {
		out[dst] = buf[i]
		dst++
	}
	return out
}

// FlipMSB toggles the high bit of every byte. It is an involution.
func FlipMSB(buf []byte) []byte {
	out := make([]byte, len(buf))
	for i, b := range buf {
		out[i] = b ^ 0x80
	}
	return out
}

// lastOdd returns the highest odd index below n, or -1.
func lastOdd(n int) int {
	if n < 2 {
		return -1
	}
	if n%2 == 0 {
		return n - 1
	}
	return n - 2
}

func clone(buf []byte) []byte {
	out := make([]byte, len(buf))
	copy(out, buf)
	return out
}
