// Package migrate implementa el core de la migración de stores en vivo:
// el decorador dual-write que envuelve dos implementaciones de un mismo
// repositorio (legacy y nueva), enruta cada llamada según feature flags
// y verifica que ambos stores coincidan.
//
// Piezas:
//
//   - FlagManager: resuelve el RoutingMode por (endpoint, routing key),
//     con bucketing determinístico y config cacheada con TTL.
//   - Verifier: compara los outcomes de ambos stores y clasifica la
//     divergencia (identical / minor / major / error_mismatch).
//   - Core + Do/DoRead/Exec: el dispatch genérico de los cinco modos.
//   - ShadowPool: cola acotada para verificación en background.
//
// Los decoradores concretos por-interface viven en
// internal/store/dualwrite; este paquete no conoce el dominio.
//
// Garantías para el caller:
//
//   - Un solo outcome autoritativo por invocación: el del primario,
//     salvo bajo cutover.
//   - Los errores del store autoritativo cruzan el decorador intactos.
//   - Verificación y reporting jamás alteran ni demoran el resultado.
package migrate
