package domain

import (
	"fmt"
	"strings"
)

// Attribute names one typed slot of a CaseRecord.
type Attribute int

// The zero Attribute is unset and never names a slot.
const (
	AttrCiudad Attribute = iota + 1
	AttrDepartamento
	AttrEdad
	AttrTipo
	AttrEstado
	AttrPaisProcedencia
)

var attributeNames = map[Attribute]string{
	AttrCiudad:          "ciudad",
	AttrDepartamento:    "departamento",
	AttrEdad:            "edad",
	AttrTipo:            "tipo",
	AttrEstado:          "estado",
	AttrPaisProcedencia: "pais_procedencia",
}

func (a Attribute) String() string {
	if name, ok := attributeNames[a]; ok {
		return name
	}
	return fmt.Sprintf("attribute(%d)", int(a))
}

// ParseAttribute resolves an attribute from its configuration name.
func ParseAttribute(name string) (Attribute, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for attr, attrName := range attributeNames {
		if attrName == name {
			return attr, nil
		}
	}
	return 0, fmt.Errorf("unknown column attribute %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (a Attribute) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Attribute) UnmarshalText(text []byte) error {
	parsed, err := ParseAttribute(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Column maps a raw dataset field onto a CaseRecord slot and a display header.
type Column struct {
	Attribute Attribute `yaml:"attribute" validate:"required"`
	Field     string    `yaml:"field" validate:"required"`
	Header    string    `yaml:"header" validate:"required"`
}

// DefaultColumns is the desired projection of dataset gt2j-8ykr, in display order.
func DefaultColumns() []Column {
	return []Column{
		{Attribute: AttrCiudad, Field: "ciudad_municipio_nom", Header: "Ciudad"},
		{Attribute: AttrDepartamento, Field: "departamento_nom", Header: "Departamento"},
		{Attribute: AttrEdad, Field: "edad", Header: "Edad"},
		{Attribute: AttrTipo, Field: "tipo", Header: "Tipo"},
		{Attribute: AttrEstado, Field: "estado", Header: "Estado"},
		{Attribute: AttrPaisProcedencia, Field: "pais_viajo_1_nom", Header: "País Procedencia"},
	}
}

// CaseRecord is a projected, typed case row.
type CaseRecord struct {
	Ciudad          string
	Departamento    string
	Edad            string
	Tipo            string
	Estado          string
	PaisProcedencia string
}

// Get returns the value stored in the attribute's slot.
func (r CaseRecord) Get(a Attribute) string {
	switch a {
	case AttrCiudad:
		return r.Ciudad
	case AttrDepartamento:
		return r.Departamento
	case AttrEdad:
		return r.Edad
	case AttrTipo:
		return r.Tipo
	case AttrEstado:
		return r.Estado
	case AttrPaisProcedencia:
		return r.PaisProcedencia
	}
	return ""
}

func (r *CaseRecord) set(a Attribute, value string) {
	switch a {
	case AttrCiudad:
		r.Ciudad = value
	case AttrDepartamento:
		r.Departamento = value
	case AttrEdad:
		r.Edad = value
	case AttrTipo:
		r.Tipo = value
	case AttrEstado:
		r.Estado = value
	case AttrPaisProcedencia:
		r.PaisProcedencia = value
	}
}

// DisplayTable is a ResultTable projected onto the desired columns.
type DisplayTable struct {
	Columns []Column
	Records []CaseRecord
}

// Project selects and renames the desired columns of t. A column is kept when
// the raw schema carries either its field name or its display header, so
// projecting an already projected table is a no-op. Columns missing from the
// schema are skipped. A nil table projects to nil.
func Project(t *ResultTable, columns []Column) *DisplayTable {
	if t == nil {
		return nil
	}

	present := PresentColumns(t, columns)
	records := make([]CaseRecord, 0, len(t.Records))
	for _, raw := range t.Records {
		var record CaseRecord
		for _, column := range present {
			value, ok := raw[column.Field]
			if !ok {
				value = raw[column.Header]
			}
			record.set(column.Attribute, value)
		}
		records = append(records, record)
	}

	return &DisplayTable{Columns: present, Records: records}
}

// PresentColumns returns the desired columns found in t's schema, in order.
func PresentColumns(t *ResultTable, columns []Column) []Column {
	present := make([]Column, 0, len(columns))
	for _, column := range columns {
		if t.HasColumn(column.Field) || t.HasColumn(column.Header) {
			present = append(present, column)
		}
	}
	return present
}

// Len returns the number of rows. A nil table has none.
func (d *DisplayTable) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Headers returns the display headers in column order.
func (d *DisplayTable) Headers() []string {
	if d == nil {
		return nil
	}
	headers := make([]string, len(d.Columns))
	for i, column := range d.Columns {
		headers[i] = column.Header
	}
	return headers
}

// Rows returns the cell values in column order.
func (d *DisplayTable) Rows() [][]string {
	if d == nil {
		return nil
	}
	rows := make([][]string, len(d.Records))
	for i, record := range d.Records {
		row := make([]string, len(d.Columns))
		for j, column := range d.Columns {
			row[j] = record.Get(column.Attribute)
		}
		rows[i] = row
	}
	return rows
}

// Table exposes the projection as a ResultTable keyed by display headers.
func (d *DisplayTable) Table() *ResultTable {
	if d == nil {
		return nil
	}
	records := make([]RawRecord, len(d.Records))
	for i, record := range d.Records {
		raw := make(RawRecord, len(d.Columns))
		for _, column := range d.Columns {
			raw[column.Header] = record.Get(column.Attribute)
		}
		records[i] = raw
	}
	return NewResultTable(records)
}
