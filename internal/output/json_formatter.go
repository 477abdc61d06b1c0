package output

import (
	"encoding/json"
)

// JSONFormatter serializes the report as pretty-printed JSON. Amounts are strings so
// no precision is lost.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string      { return "json" }
func (j JSONFormatter) Extension() string { return "json" }

func (j JSONFormatter) Format(report *Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
