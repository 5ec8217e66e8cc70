package migrate

import "fmt"

// RoutingMode determina cómo se enruta una invocación entre el store
// primario (legacy) y el secundario (nuevo) durante la migración.
type RoutingMode int

const (
	// ModePrimaryOnly ejecuta solo el primario. Default seguro.
	ModePrimaryOnly RoutingMode = iota

	// ModeCutover ejecuta solo el secundario; el secundario es autoritativo.
	ModeCutover

	// ModeShadow ejecuta el primario (autoritativo) y dispara el secundario
	// en background, fire-and-forget, solo para verificación.
	ModeShadow

	// ModeDualSync ejecuta primario y luego secundario, ambos awaited.
	// El primario es autoritativo; fallo del secundario no es fatal.
	ModeDualSync

	// ModeVerifyRead ejecuta ambos en paralelo para lecturas; retorna el
	// primario apenas resuelve y registra el diff del secundario.
	ModeVerifyRead
)

var modeNames = map[RoutingMode]string{
	ModePrimaryOnly: "primary_only",
	ModeCutover:     "cutover",
	ModeShadow:      "shadow",
	ModeDualSync:    "dual_sync",
	ModeVerifyRead:  "verify_read",
}

func (m RoutingMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("unknown(%d)", int(m))
}

// ParseMode convierte el nombre textual de un modo (config YAML/JSON).
func ParseMode(s string) (RoutingMode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModePrimaryOnly, fmt.Errorf("migrate: modo desconocido %q", s)
}
