// Package dualwrite contiene los decoradores dual-write por interfaz
// de repositorio. Cada decorador satisface la misma interfaz que
// envuelve y enruta cada método a través de migrate.Do / DoRead / Exec
// con un migrate.Core compartido por endpoint.
//
// No hay reflection: un método forwarding por método de la interfaz,
// con tipado completo. La routing key es siempre el FamilyID; una
// familia entera entra o no entra al rollout, nunca a medias.
package dualwrite
