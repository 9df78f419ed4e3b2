package fs

import (
	"github.com/fwojciec/fidata"
	"github.com/tidwall/gjson"
)

// CheckRequiredFields reports every record of a JSON array that lacks one of
// fields. Presence is checked on the raw document, so a field explicitly set
// to null counts as present.
func CheckRequiredFields(data []byte, fields []string) ([]fidata.FieldProblem, error) {
	if !gjson.ValidBytes(data) {
		return nil, fidata.Errorf(fidata.EINVALID, "dataset is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fidata.Errorf(fidata.EINVALID, "dataset must be a JSON array")
	}

	var problems []fidata.FieldProblem
	index := 0
	root.ForEach(func(_, record gjson.Result) bool {
		id := record.Get("id").String()
		if id == "" {
			id = "unknown"
		}
		for _, field := range fields {
			if !record.Get(field).Exists() {
				problems = append(problems, fidata.FieldProblem{Index: index, ID: id, Field: field})
			}
		}
		index++
		return true
	})
	return problems, nil
}
