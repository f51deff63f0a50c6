// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package configurator searches for PLL and MMCM configurations that meet a
// set of output frequency, phase-shift and duty-cycle targets.
//
// A Session runs the passes in order:
//
//  1. ConfigureFrequencies enumerates every legal (M, D) pair whose VCO
//     frequency is in range, approximates the output dividers for each and
//     keeps the pairs whose outputs are within tolerance. Pairs with the same
//     M/D ratio are only evaluated once.
//  2. ConfigurePhaseShifts and ConfigureDutyCycles snap the requested values
//     to the increments allowed by each candidate's dividers and drop the
//     candidates that miss their tolerance.
//  3. SelectCandidate orders the survivors (closest M to the ideal
//     multiplier, then smallest D, then smallest M) and picks the head.
//  4. ConfigureOther applies bandwidth, reference jitter and startup wait to
//     the selected candidate.
//
// Finding nothing is not an error: Result.Found is false. Errors are
// reserved for requests that cannot be valid for the primitive at all.
//
// A Session is not safe for concurrent use. The passes mutate candidates in
// place, so concurrent requests each need their own Session.
package configurator
