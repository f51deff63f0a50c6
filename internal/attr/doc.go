// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package attr models the attributes of a clock management tile primitive
// (CLKFBOUT_MULT_F, DIVCLK_DIVIDE, CLKOUT0_PHASE, ...).
//
// Every attribute is a single Attribute value tagged with a Kind. The kind
// decides which values are legal and how the value is rendered into its
// Verilog template:
//
//   - Range: a number inside [start, end].
//   - IncrementRange: a Range whose legal values are start + k*step. It can
//     snap an arbitrary target to the nearest legal value and enumerate its
//     legal values lazily.
//   - OutputDivider: the union of an increment range and a few extra values
//     (e.g. 1 next to 2.000..128.000 in steps of 0.125). It is only ever set
//     through Bracket by the divider search, never by direct assignment.
//   - List: one token out of a small fixed set.
//   - Bool: TRUE or FALSE.
//
// Attributes start inactive. Only attributes the search actually touched are
// activated and therefore emitted.
package attr
