// Package render turns a configured primitive into text.
//
// Instance and Module produce Verilog, HCL and YAML export the active
// attributes for other tools, and Summary prints the expected output
// clocks for a human reader.
package render
