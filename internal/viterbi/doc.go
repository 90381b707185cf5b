// Package viterbi segments a signal into codebook entries of varying length.
//
// Segment runs a forward dynamic program over sample positions 0..N. Each
// transition t -> t+l covers the window signal[t:t+l] with the nearest entry of
// length l and costs its squared error plus a per-vector weight (lambda). An
// optional smoothness term charges alpha * (last(prev) - first(next))^2, where
// prev is the entry on the best path into t.
//
// Positions are expanded in ascending order and every transition moves
// forward, so the best path into t (and its backpointer) is final before t is
// expanded. The smoothness term therefore always refers to the predecessor
// that backtracking will recover.
//
// Cut points split the signal into independently addressable clips: no
// transition may start before a cut and end after it.
package viterbi
