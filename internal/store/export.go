package store

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
)

// ExportXLSX writes an analyst workbook: a parameter sheet describing the
// resolved space and a window sheet with the selected rows. distances may be
// nil; when present it must be parallel to rows and is written as an extra
// column.
func ExportXLSX(path string, ds *model.Dataset, rows [][]float64, distances []float64) error {
	if distances != nil && len(distances) != len(rows) {
		return eris.Errorf("store: %d distances for %d rows", len(distances), len(rows))
	}

	f := xlsx.NewFile()

	paramSheet, err := f.AddSheet("Parameters")
	if err != nil {
		return eris.Wrap(err, "store: add parameter sheet")
	}
	head := paramSheet.AddRow()
	for _, label := range []string{"Name", "Path", "Type", "Low", "High", "Reference", "Limit"} {
		head.AddCell().SetString(label)
	}
	for _, p := range ds.Space.Parameters {
		row := paramSheet.AddRow()
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Path.String())
		row.AddCell().SetString(string(p.Type))
		row.AddCell().SetFloat(p.Low)
		row.AddCell().SetFloat(p.High)
		row.AddCell().SetFloat(p.Reference)
		row.AddCell().SetFloat(p.Limit)
	}

	windowSheet, err := f.AddSheet("Target Window")
	if err != nil {
		return eris.Wrap(err, "store: add window sheet")
	}
	head = windowSheet.AddRow()
	for _, p := range ds.Space.Parameters {
		head.AddCell().SetString(p.Name)
	}
	head.AddCell().SetString(costLabel)
	if distances != nil {
		head.AddCell().SetString("Distance")
	}
	for i, r := range rows {
		row := windowSheet.AddRow()
		for _, v := range r {
			row.AddCell().SetFloat(v)
		}
		if distances != nil {
			row.AddCell().SetFloat(distances[i])
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "store: save %s", path)
	}

	zap.L().Info("workbook exported",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)
	return nil
}
