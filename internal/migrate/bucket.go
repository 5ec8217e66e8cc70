package migrate

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Bucket mapea una routing key a un bucket estable en [0,100).
//
// El hash debe ser estable entre procesos y versiones de config: una
// entidad que entró al rollout no debe salir cuando se sube el
// porcentaje para otras. Por eso no se usa ninguna semilla por versión.
func Bucket(key string) int {
	sum := blake2b.Sum256([]byte(key))
	return int(binary.BigEndian.Uint64(sum[:8]) % 100)
}
