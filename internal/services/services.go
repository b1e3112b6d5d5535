// package services implements the HTTP client for the hosted summary database.
//
// The remote store speaks the libSQL "Hrana over HTTP" pipeline protocol.
// This file holds the wire types shared by the client and the local pipeline server.
package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/desertthunder/ytsum/internal/shared"
)

// PipelinePath is the HTTP path of the pipeline endpoint.
const PipelinePath = "/v2/pipeline"

// Value types as they appear on the wire.
const (
	TypeNull    = "null"
	TypeInteger = "integer"
	TypeFloat   = "float"
	TypeText    = "text"
	TypeBlob    = "blob"
)

// Executor runs a single statement against the remote store.
type Executor interface {
	Execute(ctx context.Context, sql string, args ...any) (*StmtResult, error)
}

// PipelineRequest is the body POSTed to [PipelinePath].
type PipelineRequest struct {
	Baton    *string         `json:"baton"`
	Requests []StreamRequest `json:"requests"`
}

// StreamRequest is one entry of a pipeline; Type is "execute" or "close".
type StreamRequest struct {
	Type string `json:"type"`
	Stmt *Stmt  `json:"stmt,omitempty"`
}

// Stmt is a SQL statement with positional arguments.
type Stmt struct {
	SQL      string  `json:"sql"`
	Args     []Value `json:"args,omitempty"`
	WantRows *bool   `json:"want_rows,omitempty"`
}

// PipelineResponse is the decoded pipeline reply.
type PipelineResponse struct {
	Baton   *string        `json:"baton"`
	BaseURL *string        `json:"base_url"`
	Results []StreamResult `json:"results"`
}

// StreamResult is the outcome of one [StreamRequest]; Type is "ok" or "error".
type StreamResult struct {
	Type     string          `json:"type"`
	Response *StreamResponse `json:"response,omitempty"`
	Error    *StreamError    `json:"error,omitempty"`
}

// StreamResponse wraps the statement result of an "execute" request.
type StreamResponse struct {
	Type   string      `json:"type"`
	Result *StmtResult `json:"result,omitempty"`
}

// StreamError is a statement-level failure reported by the store.
type StreamError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (e *StreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// StmtResult holds the tabular result of a statement.
type StmtResult struct {
	Cols             []Col    `json:"cols"`
	Rows             [][]Cell `json:"rows"`
	AffectedRowCount int64    `json:"affected_row_count"`
	LastInsertRowID  *string  `json:"last_insert_rowid"`
}

// Col describes a result column.
type Col struct {
	Name     *string `json:"name"`
	Decltype *string `json:"decltype"`
}

// ColumnNames returns the result's column names, empty for unnamed columns.
func (r *StmtResult) ColumnNames() []string {
	names := make([]string, len(r.Cols))
	for i, c := range r.Cols {
		if c.Name != nil {
			names[i] = *c.Name
		}
	}
	return names
}

// Value is a typed statement argument.
type Value struct {
	Type   string `json:"type"`
	Value  any    `json:"value,omitempty"`
	Base64 string `json:"base64,omitempty"`
}

// EncodeValue converts a Go value into its wire representation.
//
// Integers travel as decimal strings so 64-bit values survive JSON.
func EncodeValue(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Value{Type: TypeNull}, nil
	case int:
		return Value{Type: TypeInteger, Value: strconv.FormatInt(int64(x), 10)}, nil
	case int32:
		return Value{Type: TypeInteger, Value: strconv.FormatInt(int64(x), 10)}, nil
	case int64:
		return Value{Type: TypeInteger, Value: strconv.FormatInt(x, 10)}, nil
	case uint32:
		return Value{Type: TypeInteger, Value: strconv.FormatUint(uint64(x), 10)}, nil
	case bool:
		if x {
			return Value{Type: TypeInteger, Value: "1"}, nil
		}
		return Value{Type: TypeInteger, Value: "0"}, nil
	case float32:
		return Value{Type: TypeFloat, Value: float64(x)}, nil
	case float64:
		return Value{Type: TypeFloat, Value: x}, nil
	case string:
		return Value{Type: TypeText, Value: x}, nil
	case []byte:
		return Value{Type: TypeBlob, Base64: base64.StdEncoding.EncodeToString(x)}, nil
	case time.Time:
		return Value{Type: TypeText, Value: x.UTC().Format(time.RFC3339)}, nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported argument type %T", shared.ErrInvalidArgument, v)
	}
}

// Decode converts a wire value back into a Go value suitable for database/sql.
func (v Value) Decode() (any, error) {
	switch v.Type {
	case TypeNull, "":
		return nil, nil
	case TypeInteger:
		switch x := v.Value.(type) {
		case string:
			n, err := strconv.ParseInt(x, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: integer %q", shared.ErrInvalidArgument, x)
			}
			return n, nil
		case float64:
			return int64(x), nil
		case json.Number:
			return x.Int64()
		}
	case TypeFloat:
		switch x := v.Value.(type) {
		case float64:
			return x, nil
		case json.Number:
			return x.Float64()
		case string:
			return strconv.ParseFloat(x, 64)
		}
	case TypeText:
		if s, ok := v.Value.(string); ok {
			return s, nil
		}
	case TypeBlob:
		b, err := base64.StdEncoding.DecodeString(v.Base64)
		if err != nil {
			return nil, fmt.Errorf("%w: blob: %v", shared.ErrInvalidArgument, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: value of type %q", shared.ErrInvalidArgument, v.Type)
}

// Cell is one column value of a result row.
//
// A cell whose object lacks a "value" key (or carries JSON null) is null.
type Cell struct {
	Type  string
	raw   json.RawMessage
	blob  string
	valid bool
}

// NewCell builds a cell from a scanned database value. isBlob selects blob
// encoding for byte slices, which are otherwise treated as text.
func NewCell(v any, isBlob bool) Cell {
	switch x := v.(type) {
	case nil:
		return Cell{Type: TypeNull}
	case int64:
		raw, _ := json.Marshal(strconv.FormatInt(x, 10))
		return Cell{Type: TypeInteger, raw: raw, valid: true}
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Cell{Type: TypeNull}
		}
		raw, _ := json.Marshal(x)
		return Cell{Type: TypeFloat, raw: raw, valid: true}
	case bool:
		if x {
			return NewCell(int64(1), false)
		}
		return NewCell(int64(0), false)
	case []byte:
		if isBlob {
			return Cell{Type: TypeBlob, blob: base64.StdEncoding.EncodeToString(x), valid: true}
		}
		return NewCell(string(x), false)
	case time.Time:
		return NewCell(x.UTC().Format(time.RFC3339), false)
	case string:
		raw, _ := json.Marshal(x)
		return Cell{Type: TypeText, raw: raw, valid: true}
	default:
		return NewCell(fmt.Sprint(x), false)
	}
}

// UnmarshalJSON implements [json.Unmarshaler].
func (c *Cell) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	*c = Cell{}
	if t, ok := obj["type"]; ok {
		if err := json.Unmarshal(t, &c.Type); err != nil {
			return err
		}
	}
	if b, ok := obj["base64"]; ok {
		if err := json.Unmarshal(b, &c.blob); err != nil {
			return err
		}
		c.valid = true
		return nil
	}
	if v, ok := obj["value"]; ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		c.raw = v
		c.valid = true
	}
	return nil
}

// MarshalJSON implements [json.Marshaler].
func (c Cell) MarshalJSON() ([]byte, error) {
	out := map[string]any{"type": c.Type}
	if c.Type == "" {
		out["type"] = TypeNull
	}
	switch {
	case !c.valid:
		out["type"] = TypeNull
	case c.blob != "":
		out["base64"] = c.blob
	default:
		out["value"] = c.raw
	}
	return json.Marshal(out)
}

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool { return !c.valid }

// Text returns the cell rendered as text. Null cells report ok=false.
func (c Cell) Text() (s string, ok bool) {
	if !c.valid {
		return "", false
	}
	if c.blob != "" {
		b, err := base64.StdEncoding.DecodeString(c.blob)
		if err != nil {
			return c.blob, true
		}
		return string(b), true
	}
	if err := json.Unmarshal(c.raw, &s); err == nil {
		return s, true
	}
	return string(bytes.TrimSpace(c.raw)), true
}

// Int64 returns the cell as an integer. Integers may arrive as JSON numbers or decimal strings.
func (c Cell) Int64() (int64, error) {
	if !c.valid {
		return 0, fmt.Errorf("%w: null integer", shared.ErrDecode)
	}

	text, _ := c.Text()
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, nil
	}
	// float64(MaxInt64) rounds up to 2^63, which is already out of range.
	if f, err := strconv.ParseFloat(text, 64); err == nil && f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f), nil
	}
	return 0, fmt.Errorf("%w: %q is not an integer", shared.ErrDecode, text)
}

// Any returns the cell as a plain Go value for JSON output.
func (c Cell) Any() any {
	if !c.valid {
		return nil
	}
	switch c.Type {
	case TypeInteger:
		if n, err := c.Int64(); err == nil {
			return n
		}
	case TypeFloat:
		var f float64
		if err := json.Unmarshal(c.raw, &f); err == nil {
			return f
		}
	}
	s, _ := c.Text()
	return s
}
