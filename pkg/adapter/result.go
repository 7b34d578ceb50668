package adapter

import (
	"fmt"

	"github.com/goccy/go-json"
)

// QueryOptions describes a single read query. Query is raw SQL in the
// store's dialect; Params are positional arguments.
type QueryOptions struct {
	Query  string
	Params []interface{}
}

// Result is the uniform query result shape. Data holds one map per row
// keyed by column name; store-specific wrapper types never cross the
// adapter boundary. Rows always equals len(Data), on both adapters.
type Result struct {
	Data []map[string]interface{} `json:"data"`
	Rows int64                    `json:"rows"`
	Meta interface{}              `json:"meta,omitempty"`
}

// ResultMeta carries column names in Meta for callers that need ordering.
type ResultMeta struct {
	Columns []string `json:"columns"`
}

// DecodeRows converts the generic row maps of a Result into a typed slice
// via a JSON round-trip. Struct tags on T select and rename columns.
func DecodeRows[T any](res *Result) ([]T, error) {
	if res == nil || len(res.Data) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(res.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rows: %w", err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	return out, nil
}
