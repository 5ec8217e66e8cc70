// Package repository define las interfaces de repositorio de dominio.
//
// Estas interfaces representan contratos de negocio, independientes del
// almacenamiento subyacente (PostgreSQL, memoria, etc.).
//
// Las implementaciones concretas viven en internal/store/. Durante la
// migración de stores, los consumidores reciben el decorador dual-write
// de internal/store/dualwrite, que satisface estas mismas interfaces.
//
// Convenciones:
//   - FamilyID se pasa explícitamente en métodos que lo requieren
//   - Context siempre es el primer parámetro
//   - Errores de dominio están en errors.go
package repository
