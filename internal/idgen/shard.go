package idgen

import (
	"crypto/md5"
	"math/big"
)

// ShardIndex computes a stable hash of name and reduces it modulo
// totalWorkers, giving the worker index responsible for name under the
// client-side sharding fallback (backends without a pushdown hash
// predicate — see Scan/Sharding). Matches the scheme a SQL-side
// MOD(CONV(MD5(name),16,10), totalWorkers) pushdown would compute, so a
// client-side and server-side backend shard the same name identically.
func ShardIndex(name string, totalWorkers int) int {
	if totalWorkers <= 0 {
		return 0
	}
	sum := md5.Sum([]byte(name))
	n := new(big.Int).SetBytes(sum[:])
	mod := new(big.Int).Mod(n, big.NewInt(int64(totalWorkers)))
	return int(mod.Int64())
}
