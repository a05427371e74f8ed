// report/csv.go
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/dalemusser/emailcheck/selftest"
)

func writeCSV(w io.Writer, rep selftest.Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return err
	}
	for _, r := range rep.Results {
		row := []string{
			strconv.Itoa(r.Test),
			r.Name,
			FormatInput(r.Input),
			strconv.FormatBool(r.Expected),
			strconv.FormatBool(r.Actual),
			r.Reason.String(),
			strconv.FormatBool(r.Passed),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
