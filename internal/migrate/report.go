package migrate

import (
	"time"
)

// Store etiqueta de cuál implementación produjo un outcome.
type Store string

const (
	StorePrimary   Store = "primary"
	StoreSecondary Store = "secondary"
)

// Invocation describe una llamada interceptada por el decorador.
// Se crea al entrar, se descarta después del reporte. No se persiste.
type Invocation struct {
	ID         string
	Endpoint   string
	Op         string // nombre del método, ej. "Create"
	RoutingKey string
	Mode       RoutingMode
	StartedAt  time.Time
}

// Outcome es el resultado (valor o error) de un backing store.
type Outcome struct {
	Store   Store
	Value   any
	Err     error
	Elapsed time.Duration
}

// OK indica que el store respondió sin error.
func (o Outcome) OK() bool { return o.Err == nil }

// Severity clasifica una divergencia detectada por el verificador.
type Severity string

const (
	SeverityIdentical     Severity = "identical"
	SeverityMinor         Severity = "minor"
	SeverityMajor         Severity = "major"
	SeverityErrorMismatch Severity = "error_mismatch"
)

// FieldDiff es una diferencia estructural en un campo. Solo guarda el
// path y el tipo de diferencia, nunca valores crudos: los reportes van
// a telemetría y no deben filtrar datos de usuarios.
type FieldDiff struct {
	Path string // ej. ".Items[2].Quantity"
	Kind string // "value" | "numeric" | "type" | "len" | "missing"
}

// DivergenceReport es el veredicto del verificador para un par de
// outcomes de la misma invocación.
type DivergenceReport struct {
	Invocation Invocation
	Primary    Outcome
	Secondary  Outcome
	Severity   Severity
	Diffs      []FieldDiff
	// Sampled indica que el diff profundo se salteó por sampling;
	// la severidad solo refleja la comparación success/failure.
	Sampled bool
}

// Reporter recibe los reportes del verificador y señales de skip.
// Las implementaciones nunca deben afectar el camino del caller: un
// fallo de reporting se traga y se cuenta, no se propaga.
type Reporter interface {
	Report(rep DivergenceReport)
	// Skipped registra que la verificación no ocurrió para una
	// invocación. reason: "timeout" | "dropped" | "cancelled".
	Skipped(inv Invocation, reason string)
}
