package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/specialistvlad/cmtgen/internal/primitive"
)

// Summary writes a table of the expected output clocks of p.
func Summary(w io.Writer, p primitive.Primitive) error {
	fmt.Fprintf(w, "%s: M=%s D=%s f_vco=%.3f MHz\n",
		p.Name(), p.Multiplier().FormatValue(), p.PreDivider().FormatValue(), p.VCOFrequency())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OUTPUT\tFREQUENCY (MHz)\tPHASE (deg)\tDUTY CYCLE")
	for _, v := range Expected(p) {
		fmt.Fprintf(tw, "%d\t%.6f\t%.3f\t%.3f\n", v.Index, v.Frequency, v.PhaseShift, v.DutyCycle)
	}
	return tw.Flush()
}
