package pipeline

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/couchcryptid/ine-crime-etl/internal/domain"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// rawColumns is the schema of a flattened year before cleanup, matching the
// API's observation fields plus the source-year tag.
var rawColumns = []string{
	"geocod", "geodsg", "dim_3", "dim_3_t", "valor",
	"sinal_conv", "sinal_conv_desc", "Year",
}

// columnRenames maps API field names to the human-readable clean schema.
var columnRenames = map[string]string{
	"geocod":  "Geo Code",
	"geodsg":  "Geo",
	"dim_3":   "Crime Code",
	"dim_3_t": "Crime",
	"valor":   "Value",
}

// Flatten reshapes the raw mapping into one row-oriented table: one row per
// observation, tagged with its source year, years in first-seen order. The
// two convention-flag columns are dropped, the remaining API columns renamed,
// and the constant indicator metadata appended, yielding the clean schema
//
//	Geo Code, Geo, Crime Code, Crime, Value, Year,
//	Indicator Code, Formule, Measure Of Unit
//
// Flatten fails when the mapping holds no observations or when any year's
// payload does not decode into the expected shape.
func Flatten(raw *domain.RawMapping) (dataframe.DataFrame, error) {
	var table dataframe.DataFrame
	haveRows := false

	for _, year := range raw.Years() {
		payload, _ := raw.Get(year)
		obs, err := domain.DecodeObservations(payload)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("flatten year %s: %w", year, err)
		}
		if len(obs) == 0 {
			continue
		}

		df := yearFrame(year, obs)
		if df.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("flatten year %s: %w", year, df.Err)
		}

		if !haveRows {
			table = df
			haveRows = true
		} else {
			table = table.RBind(df)
			if table.Err != nil {
				return dataframe.DataFrame{}, fmt.Errorf("concatenate year %s: %w", year, table.Err)
			}
		}
	}

	if !haveRows {
		return dataframe.DataFrame{}, errors.New("raw mapping holds no observations to transform")
	}

	table = table.Drop([]string{"sinal_conv", "sinal_conv_desc"})
	if table.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("drop flag columns: %w", table.Err)
	}

	n := table.Nrow()
	table = table.
		Mutate(constColumn("Indicator Code", domain.IndicatorCode, n)).
		Mutate(constColumn("Formule", domain.IndicatorFormula, n)).
		Mutate(constColumn("Measure Of Unit", domain.IndicatorUnit, n))

	for old, renamed := range columnRenames {
		table = table.Rename(renamed, old)
	}
	if table.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("rename columns: %w", table.Err)
	}

	return table, nil
}

// CSVBytes serializes the clean table as delimited text, header first, no
// index column.
func CSVBytes(table dataframe.DataFrame) ([]byte, error) {
	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return buf.Bytes(), nil
}

// yearFrame flattens one year's observations into a string-typed frame.
func yearFrame(year string, obs []domain.Observation) dataframe.DataFrame {
	records := make([][]string, 0, len(obs)+1)
	records = append(records, rawColumns)
	for _, o := range obs {
		records = append(records, []string{
			o.GeoCode, o.GeoName, o.CrimeCode, o.CrimeName, o.Value,
			o.Flag, o.FlagDesc, year,
		})
	}
	return dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
}

// constColumn builds a column with the same value on every row.
func constColumn(name, value string, n int) series.Series {
	vals := make([]string, n)
	for i := range vals {
		vals[i] = value
	}
	return series.New(vals, series.String, name)
}
