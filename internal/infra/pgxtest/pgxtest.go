// Package pgxtest provides in-memory pgx.Row, pgx.Rows and SQLExecutor
// doubles for repository and handler tests.
package pgxtest

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Assign copies values into scan destinations, converting between
// assignable kinds (string into a named string type, for example). A nil
// value zeroes the destination.
func Assign(dest []any, values ...any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("pgxtest: %d destinations for %d values", len(dest), len(values))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d)
		if target.Kind() != reflect.Pointer || target.IsNil() {
			return fmt.Errorf("pgxtest: destination %d is not a pointer", i)
		}
		elem := target.Elem()
		if values[i] == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}
		src := reflect.ValueOf(values[i])
		switch {
		case src.Type().AssignableTo(elem.Type()):
			elem.Set(src)
		case src.Type().ConvertibleTo(elem.Type()):
			elem.Set(src.Convert(elem.Type()))
		default:
			return fmt.Errorf("pgxtest: cannot scan %T into %s", values[i], elem.Type())
		}
	}
	return nil
}

// Row is a pgx.Row backed by fixed values or an error.
type Row struct {
	Values []any
	Err    error
}

func (r Row) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	if r.Values == nil {
		return pgx.ErrNoRows
	}
	return Assign(dest, r.Values...)
}

// Rows is a pgx.Rows over a slice of value tuples.
type Rows struct {
	Data   [][]any
	ErrAt  error
	cursor int
	closed bool
}

func NewRows(data ...[]any) *Rows {
	return &Rows{Data: data}
}

func (r *Rows) Close() { r.closed = true }

func (r *Rows) Err() error { return r.ErrAt }

func (r *Rows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (r *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (r *Rows) Next() bool {
	if r.closed || r.cursor >= len(r.Data) {
		r.closed = true
		return false
	}
	r.cursor++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.cursor == 0 || r.cursor > len(r.Data) {
		return fmt.Errorf("pgxtest: scan without row")
	}
	return Assign(dest, r.Data[r.cursor-1]...)
}

func (r *Rows) Values() ([]any, error) {
	if r.cursor == 0 || r.cursor > len(r.Data) {
		return nil, fmt.Errorf("pgxtest: values without row")
	}
	return r.Data[r.cursor-1], nil
}

func (r *Rows) RawValues() [][]byte { return nil }

func (r *Rows) Conn() *pgx.Conn { return nil }

// Call records one statement sent to an Executor.
type Call struct {
	Query string
	Args  []any
}

// Executor is a scripted SQLExecutor. Responses are keyed by query text.
type Executor struct {
	mu       sync.Mutex
	Calls    []Call
	RowFor   map[string]Row
	RowsFor  map[string]*Rows
	ExecErr  map[string]error
	QueryErr map[string]error
}

func NewExecutor() *Executor {
	return &Executor{
		RowFor:   map[string]Row{},
		RowsFor:  map[string]*Rows{},
		ExecErr:  map[string]error{},
		QueryErr: map[string]error{},
	}
}

func (e *Executor) record(query string, args []any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls = append(e.Calls, Call{Query: query, Args: args})
}

func (e *Executor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	e.record(query, args)
	if err := e.ExecErr[query]; err != nil {
		return pgconn.CommandTag{}, err
	}
	return pgconn.NewCommandTag("OK 1"), nil
}

func (e *Executor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	e.record(query, args)
	return e.RowFor[query]
}

func (e *Executor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	e.record(query, args)
	if err := e.QueryErr[query]; err != nil {
		return nil, err
	}
	if rows, ok := e.RowsFor[query]; ok {
		return rows, nil
	}
	return NewRows(), nil
}

// Last returns the most recent call.
func (e *Executor) Last() Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Calls) == 0 {
		return Call{}
	}
	return e.Calls[len(e.Calls)-1]
}
