// Package request reads configuration requests.
//
// A request names the FPGA model, the primitive kind, the input frequency
// and per-output targets. It can come from an HCL file, from command-line
// flags, or from both: Apply layers flag values over file values. Targets
// turns a complete request into the form the configurator consumes, filling
// in default tolerances.
package request
