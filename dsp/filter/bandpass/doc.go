// Package bandpass implements a real-time bandpass filter derived from a
// second-order allpass section (Zölzer, DAFX, sum/difference construction):
//
//	         ┌──── A(z) ────┐
//	x[n] ────┤             (−) ── ×0.5 ──> y[n]
//	         └──────────────┘
//
// The Engine owns a feed-forward and a feedback delay line, derives the allpass
// coefficients from cutoff, bandwidth and sample rate once per processed block,
// and evaluates the difference equation sample by sample. Control parameters
// are stored atomically so a control goroutine can change them while another
// goroutine processes audio; changes take effect at the next block boundary.
package bandpass
