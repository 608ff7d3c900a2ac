// Package shipd implements an adaptive signature-based replacement policy for
// last-level caches.
//
// Every line carries a 2-bit re-reference prediction value (RRPV). Victims are
// lines whose RRPV is saturated; if no such line exists, the whole set ages
// until one does.
//
// New lines are classified by the signature of the instruction that brought
// them in, a hash of its program counter:
//
//   - hot: the signature hit counter (SHCT) says lines from this signature are
//     usually reused. Inserted with RRPV 0.
//   - streaming: the signature stream counter (STCT) says the signature walks
//     adjacent blocks. Inserted with RRPV 1.
//   - otherwise inserted with RRPV 3, the first candidate for eviction.
//
// The SHCT grows on hits and shrinks when a line leaves the cache without
// being hit. The STCT grows when consecutive misses of one signature touch
// neighboring blocks and shrinks otherwise.
//
// Every EpochLength accesses the policy compares the epoch miss rate with
// the previous one. A swing of at least PhaseChangeDelta is taken as a phase
// change and clears the streaming history, but not the reuse history. The
// streaming threshold is then tightened when streaming lines are rarely hit
// and loosened when they are often hit.
//
// A Policy is not safe for concurrent use.
package shipd
