// Package primitive describes the two clock management primitives of the
// 7-series fabric, PLLE2_BASE (six outputs) and MMCME2_BASE (seven outputs
// plus the output 4 cascade), as ordered sets of attributes.
package primitive
