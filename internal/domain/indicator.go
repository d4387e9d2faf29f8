package domain

import (
	"fmt"
	"strings"
)

// Indicator metadata for the single series this job extracts. The formula and
// unit describe how INE derives the indicator; they are attached as constant
// columns to every row of the clean table.
const (
	IndicatorCode    = "0008074"
	IndicatorFormula = "(Number of crimes/ Resident population)*1000"
	IndicatorUnit    = "Permillage"
)

// FirstYear is the earliest year the indicator carries data for.
const FirstYear = 2011

// yearTokenPrefix is the Dim1 dimension selector for yearly ranges.
const yearTokenPrefix = "S7A"

// YearParameters returns the ordered, contiguous sequence of Dim1 query
// tokens from FirstYear through lastYear inclusive.
func YearParameters(lastYear int) ([]string, error) {
	if lastYear < FirstYear {
		return nil, fmt.Errorf("last available year %d precedes first year %d", lastYear, FirstYear)
	}
	tokens := make([]string, 0, lastYear-FirstYear+1)
	for y := FirstYear; y <= lastYear; y++ {
		tokens = append(tokens, fmt.Sprintf("%s%d", yearTokenPrefix, y))
	}
	return tokens, nil
}

// YearOf extracts the four-digit year from a Dim1 token, e.g. "S7A2011" -> "2011".
func YearOf(token string) string {
	return strings.TrimPrefix(token, yearTokenPrefix)
}
