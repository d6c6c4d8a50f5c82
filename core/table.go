package core

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrColumnExists     = errors.New("column name exists")
	ErrInvalidPrecision = errors.New("invalid precision")
	ErrInvalidScale     = errors.New("invalid scale")
)

// PrecisionError is returned when a precision exceeds the type's maximum.
type PrecisionError struct {
	Precision int
	Max       int
}

func (e *PrecisionError) Error() string {
	return fmt.Sprintf("precision %d exceeds max value %d", e.Precision, e.Max)
}

// ScaleError is returned when a scale is larger than the column's precision.
type ScaleError struct {
	Scale     int
	Precision int
}

func (e *ScaleError) Error() string {
	return fmt.Sprintf("scale %d exceeds precision %d", e.Scale, e.Precision)
}

// Column is a named, typed column. Precision and scale are only tracked
// when the data type declares the matching capability.
type Column struct {
	name         string
	dataType     *DataType
	precision    int
	scale        int
	hasPrecision bool
	hasScale     bool
}

// NewColumn creates a column with the type's default precision and scale.
func NewColumn(name string, dataType *DataType) *Column {
	column := &Column{name: name, dataType: dataType}
	if dataType.Has(WithPrecision) {
		column.precision = dataType.DefaultPrecision()
		column.hasPrecision = true
	}
	if dataType.Has(WithScale) {
		column.scale = dataType.DefaultScale()
		column.hasScale = true
	}
	return column
}

func (column *Column) Name() string {
	return column.name
}

func (column *Column) DataType() *DataType {
	return column.dataType
}

// Precision returns the precision and whether the type supports one.
func (column *Column) Precision() (int, bool) {
	return column.precision, column.hasPrecision
}

// Scale returns the scale and whether the type supports one.
func (column *Column) Scale() (int, bool) {
	return column.scale, column.hasScale
}

// SetPrecision is ignored for types without WithPrecision.
func (column *Column) SetPrecision(precision int) error {
	if !column.dataType.Has(WithPrecision) {
		return nil
	}
	if precision < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPrecision, precision)
	}
	if maxPrecision := column.dataType.MaxPrecision(); precision > maxPrecision {
		return &PrecisionError{Precision: precision, Max: maxPrecision}
	}
	if column.hasScale && column.scale > precision {
		return &ScaleError{Scale: column.scale, Precision: precision}
	}
	column.precision = precision
	column.hasPrecision = true
	return nil
}

// SetScale is ignored for types without WithScale. Scale may not exceed
// the column's precision.
func (column *Column) SetScale(scale int) error {
	if !column.dataType.Has(WithScale) {
		return nil
	}
	if scale < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidScale, scale)
	}
	if column.hasPrecision && scale > column.precision {
		return &ScaleError{Scale: scale, Precision: column.precision}
	}
	column.scale = scale
	column.hasScale = true
	return nil
}

// TypeString renders the column type as it would appear in DDL,
// e.g. NUMBER(10,0) or VARCHAR(20).
func (column *Column) TypeString() string {
	switch {
	case column.hasPrecision && column.hasScale:
		return fmt.Sprintf("%s(%d,%d)", column.dataType.Name(), column.precision, column.scale)
	case column.hasPrecision:
		return fmt.Sprintf("%s(%d)", column.dataType.Name(), column.precision)
	default:
		return column.dataType.Name()
	}
}

type columnView struct {
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"`
	Precision *int   `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale     *int   `json:"scale,omitempty" yaml:"scale,omitempty"`
}

func (column *Column) view() columnView {
	view := columnView{Name: column.name, Type: column.dataType.Name()}
	if column.hasPrecision {
		precision := column.precision
		view.Precision = &precision
	}
	if column.hasScale {
		scale := column.scale
		view.Scale = &scale
	}
	return view
}

func (column *Column) MarshalJSON() ([]byte, error) {
	return json.Marshal(column.view())
}

func (column *Column) MarshalYAML() (interface{}, error) {
	return column.view(), nil
}

// Table is a named, ordered set of uniquely named columns.
type Table struct {
	name    string
	columns []*Column
}

func NewTable(name string) *Table {
	return &Table{name: name}
}

func (table *Table) Name() string {
	return table.name
}

// Columns returns the columns in declaration order.
func (table *Table) Columns() []*Column {
	columns := make([]*Column, len(table.columns))
	copy(columns, table.columns)
	return columns
}

// Column finds a column by exact name.
func (table *Table) Column(name string) (*Column, bool) {
	for _, column := range table.columns {
		if column.name == name {
			return column, true
		}
	}
	return nil, false
}

// AddColumn appends a column; names must be unique within the table.
func (table *Table) AddColumn(column *Column) error {
	if _, exists := table.Column(column.name); exists {
		return fmt.Errorf("%w: %s", ErrColumnExists, column.name)
	}
	table.columns = append(table.columns, column)
	return nil
}

type tableView struct {
	Name    string    `json:"name" yaml:"name"`
	Columns []*Column `json:"columns" yaml:"columns"`
}

func (table *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableView{Name: table.name, Columns: table.Columns()})
}

func (table *Table) MarshalYAML() (interface{}, error) {
	return tableView{Name: table.name, Columns: table.Columns()}, nil
}
