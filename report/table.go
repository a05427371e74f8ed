// report/table.go
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dalemusser/emailcheck/selftest"
)

func writeTable(w io.Writer, rep selftest.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.ToUpper(strings.Join(columns, "\t")))
	for _, r := range rep.Results {
		mark := "ok"
		if !r.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%t\t%s\t%s\n",
			r.Test, r.Name, FormatInput(r.Input), r.Expected, r.Actual, r.Reason, mark)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, summaryLine(rep))
	return err
}
