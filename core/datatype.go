package core

import (
	"math"
	"strings"
)

// Capability is an optional facet a data type may declare.
type Capability uint8

const (
	// WithPrecision marks types accepting a precision (or length).
	WithPrecision Capability = 1 << iota
	// WithScale marks types accepting a scale.
	WithScale
)

// DataType describes a column type. Instances are shared and never modified.
type DataType struct {
	name             string
	capabilities     Capability
	maxPrecision     int
	defaultPrecision int
	defaultScale     int
}

var (
	NumberType = &DataType{
		name:             "NUMBER",
		capabilities:     WithPrecision | WithScale,
		maxPrecision:     10,
		defaultPrecision: 10,
		defaultScale:     0,
	}
	VarcharType = &DataType{
		name:             "VARCHAR",
		capabilities:     WithPrecision,
		maxPrecision:     math.MaxInt,
		defaultPrecision: math.MaxInt,
	}
	DateType = &DataType{
		name: "DATE",
	}
)

var dataTypes = map[string]*DataType{
	NumberType.name:  NumberType,
	VarcharType.name: VarcharType,
	DateType.name:    DateType,
}

// LookupDataType resolves a type name, ignoring case.
func LookupDataType(name string) (*DataType, bool) {
	dataType, ok := dataTypes[strings.ToUpper(name)]
	return dataType, ok
}

// DataTypes returns the registered type names.
func DataTypes() []string {
	return []string{NumberType.name, VarcharType.name, DateType.name}
}

func (dataType *DataType) Name() string {
	return dataType.name
}

func (dataType *DataType) String() string {
	return dataType.name
}

// Has reports whether the type declares the capability.
func (dataType *DataType) Has(capability Capability) bool {
	return dataType.capabilities&capability == capability
}

// MaxPrecision is only meaningful when the type has WithPrecision.
func (dataType *DataType) MaxPrecision() int {
	return dataType.maxPrecision
}

func (dataType *DataType) DefaultPrecision() int {
	return dataType.defaultPrecision
}

func (dataType *DataType) DefaultScale() int {
	return dataType.defaultScale
}
