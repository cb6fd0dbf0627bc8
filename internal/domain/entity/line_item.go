package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// LineItem es una línea de inventario dentro de un envío o de un snapshot.
// UID es el único identificador usado para borrados puntuales; el resto de campos
// son texto libre y se guardan tal cual los envía el hospital.
type LineItem struct {
	UID           string `json:"uid"`
	Clave         Texto  `json:"clave"`
	Descripcion   Texto  `json:"descripcion"`
	Stock         Texto  `json:"stock"`
	Minimo        Texto  `json:"minimo"`
	Fecha         Texto  `json:"fecha"`
	Dias          Texto  `json:"dias"`
	Observaciones Texto  `json:"observaciones"`
	Color         Texto  `json:"color"`
	Manual        Flag   `json:"manual"`
}

// Texto acepta string, número, booleano o null en JSON y siempre se serializa como string.
// Los formularios de los hospitales mandan stock/minimo/dias a veces como número.
type Texto string

func (t *Texto) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Texto(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*t = Texto(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*t = Texto(strconv.FormatBool(b))
	return nil
}

func (t Texto) String() string { return string(t) }

// Flag es el booleano canónico de "manual": true o "true" (sin importar mayúsculas) son
// verdaderos, cualquier otro valor es falso. Siempre se serializa como booleano JSON.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*f = true
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Flag(ParseFlag(s))
	default:
		*f = false
	}
	return nil
}

// ParseFlag normaliza la forma textual de "manual".
func ParseFlag(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// ReportValue es la forma usada en reportes: "true" o vacío.
func (f Flag) ReportValue() string {
	if f {
		return "true"
	}
	return ""
}

// CloneItems copia la lista para que el llamador no comparta el slice con el almacenamiento.
func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return []LineItem{}
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
