package migrate

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"time"
)

// VerifierOptions tuning del verificador.
type VerifierOptions struct {
	// IgnoreFields: nombres de campos volátiles a ignorar en el diff
	// (ids autogenerados, timestamps). Se suman a los defaults.
	IgnoreFields []string

	// Tolerance relativa para diferencias de redondeo en floats.
	// Default 1e-9.
	Tolerance float64

	// SampleRate probabilidad [0,1] de hacer el diff profundo.
	// Default 1.0. La comparación success/failure se hace SIEMPRE.
	SampleRate float64
}

// defaultIgnoreFields: los dos stores generan sus propios ids y
// timestamps, compararlos solo produce ruido.
var defaultIgnoreFields = []string{"ID", "CreatedAt", "UpdatedAt"}

// Verifier compara los outcomes de ambos stores para la misma
// invocación y clasifica la divergencia. Nunca altera el resultado
// que ve el caller.
type Verifier struct {
	ignore map[string]struct{}
	tol    float64
	rate   float64
}

// NewVerifier crea un verificador con las opciones dadas.
func NewVerifier(opts VerifierOptions) *Verifier {
	ig := make(map[string]struct{})
	for _, f := range defaultIgnoreFields {
		ig[f] = struct{}{}
	}
	for _, f := range opts.IgnoreFields {
		ig[f] = struct{}{}
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = 1e-9
	}
	if opts.SampleRate <= 0 || opts.SampleRate > 1 {
		opts.SampleRate = 1.0
	}
	return &Verifier{ignore: ig, tol: opts.Tolerance, rate: opts.SampleRate}
}

// Verify clasifica el par de outcomes.
//
//   - ambos fallan con error equivalente → IDENTICAL
//   - ambos fallan con errores distintos → ERROR_MISMATCH
//   - uno falla y el otro no → ERROR_MISMATCH
//   - ambos ok, iguales módulo ignore-fields → IDENTICAL
//   - ambos ok, solo redondeo numérico → MINOR
//   - ambos ok, difieren materialmente → MAJOR
func (v *Verifier) Verify(inv Invocation, prim, sec Outcome) DivergenceReport {
	rep := DivergenceReport{Invocation: inv, Primary: prim, Secondary: sec}

	switch {
	case !prim.OK() && !sec.OK():
		if equivalentErr(prim.Err, sec.Err) {
			rep.Severity = SeverityIdentical
		} else {
			rep.Severity = SeverityErrorMismatch
		}
		return rep
	case prim.OK() != sec.OK():
		rep.Severity = SeverityErrorMismatch
		return rep
	}

	// Ambos ok. Sampling: el diff profundo puede saltearse para
	// acotar CPU bajo volumen; el estado success/failure ya se comparó.
	if rand.Float64() >= v.rate {
		rep.Severity = SeverityIdentical
		rep.Sampled = true
		return rep
	}

	var diffs []FieldDiff
	v.diffValue(reflect.ValueOf(prim.Value), reflect.ValueOf(sec.Value), "", &diffs)
	rep.Diffs = diffs
	rep.Severity = classify(diffs)
	return rep
}

func classify(diffs []FieldDiff) Severity {
	if len(diffs) == 0 {
		return SeverityIdentical
	}
	for _, d := range diffs {
		if d.Kind != "numeric" {
			return SeverityMajor
		}
	}
	return SeverityMinor
}

// equivalentErr: mismo sentinel (errors.Is en ambas direcciones) o
// mismo mensaje. Suficiente para "error kind equivalente" entre drivers.
func equivalentErr(a, b error) bool {
	if a == nil || b == nil {
		return a == b
	}
	if errors.Is(a, b) || errors.Is(b, a) {
		return true
	}
	return a.Error() == b.Error()
}

var timeType = reflect.TypeOf(time.Time{})

// diffValue camina ambos valores en paralelo acumulando diferencias.
// Solo registra paths y tipo de diff, nunca los valores.
func (v *Verifier) diffValue(a, b reflect.Value, path string, out *[]FieldDiff) {
	if !a.IsValid() || !b.IsValid() {
		if a.IsValid() != b.IsValid() {
			*out = append(*out, FieldDiff{Path: path, Kind: "missing"})
		}
		return
	}
	if a.Type() != b.Type() {
		*out = append(*out, FieldDiff{Path: path, Kind: "type"})
		return
	}

	switch a.Kind() {
	case reflect.Pointer, reflect.Interface:
		if a.IsNil() || b.IsNil() {
			if a.IsNil() != b.IsNil() {
				*out = append(*out, FieldDiff{Path: path, Kind: "missing"})
			}
			return
		}
		v.diffValue(a.Elem(), b.Elem(), path, out)

	case reflect.Struct:
		if a.Type() == timeType {
			ta := a.Interface().(time.Time)
			tb := b.Interface().(time.Time)
			if !ta.Equal(tb) {
				*out = append(*out, FieldDiff{Path: path, Kind: "value"})
			}
			return
		}
		t := a.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if _, skip := v.ignore[f.Name]; skip {
				continue
			}
			v.diffValue(a.Field(i), b.Field(i), path+"."+f.Name, out)
		}

	case reflect.Slice, reflect.Array:
		if a.Kind() == reflect.Slice && (a.IsNil() || b.IsNil()) {
			// nil vs vacío: equivalentes entre drivers
			if a.Len() != b.Len() {
				*out = append(*out, FieldDiff{Path: path, Kind: "len"})
			}
			return
		}
		if a.Len() != b.Len() {
			// Cardinalidad distinta es siempre material; no descender.
			*out = append(*out, FieldDiff{Path: path, Kind: "len"})
			return
		}
		for i := 0; i < a.Len(); i++ {
			v.diffValue(a.Index(i), b.Index(i), fmt.Sprintf("%s[%d]", path, i), out)
		}

	case reflect.Map:
		if a.Len() != b.Len() {
			*out = append(*out, FieldDiff{Path: path, Kind: "len"})
			return
		}
		for _, k := range a.MapKeys() {
			kp := path + "[" + fmt.Sprint(k.Interface()) + "]"
			bv := b.MapIndex(k)
			if !bv.IsValid() {
				*out = append(*out, FieldDiff{Path: kp, Kind: "missing"})
				continue
			}
			v.diffValue(a.MapIndex(k), bv, kp, out)
		}

	case reflect.Float32, reflect.Float64:
		fa, fb := a.Float(), b.Float()
		if fa == fb {
			return
		}
		if withinTolerance(fa, fb, v.tol) {
			*out = append(*out, FieldDiff{Path: path, Kind: "numeric"})
		} else {
			*out = append(*out, FieldDiff{Path: path, Kind: "value"})
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if a.Int() != b.Int() {
			*out = append(*out, FieldDiff{Path: path, Kind: "value"})
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if a.Uint() != b.Uint() {
			*out = append(*out, FieldDiff{Path: path, Kind: "value"})
		}

	case reflect.String:
		if a.String() != b.String() {
			*out = append(*out, FieldDiff{Path: path, Kind: "value"})
		}

	case reflect.Bool:
		if a.Bool() != b.Bool() {
			*out = append(*out, FieldDiff{Path: path, Kind: "value"})
		}

	default:
		if !reflect.DeepEqual(a.Interface(), b.Interface()) {
			*out = append(*out, FieldDiff{Path: path, Kind: "value"})
		}
	}
}

func withinTolerance(a, b, tol float64) bool {
	diff := math.Abs(a - b)
	if diff == 0 {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return diff <= tol
	}
	return diff/scale <= tol
}
