// Package commitment implements the commitment hook boundary
// operation of spec.md §6: a deterministic function binding a
// consensus record to an external verifier. It is referenced, not
// redesigned, per spec.md §1 — the cryptographic proving harness
// itself is out of scope.
//
// No library in the retrieved corpus implements "reduce a hash into a
// prime field element"; this is the one deliberate standard-library
// concern in the domain stack (crypto/sha256 + math/big), justified in
// DESIGN.md.
package commitment

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// scalarFieldModulus is the BN254 scalar field prime, the modulus the
// optional zero-knowledge proving harness (out of scope per spec.md
// §1) would use for its public inputs. Reducing the digest into this
// field keeps Digest's output usable as a circuit input without
// redesigning the harness itself.
var scalarFieldModulus, _ = new(big.Int).SetString(
	"21888242871839275222246405745257275088548364400416034343698204186575808495617", 10,
)

// Digest computes a deterministic commitment over (price, timestamp,
// assetID, proofDigest): SHA-256 over a canonical byte encoding,
// reduced modulo scalarFieldModulus, rendered as a 0x-prefixed hex
// string. proofDigest may be nil when no proof was computed.
func Digest(price decimal.Decimal, timestampMillis int64, assetID string, proofDigest []byte) string {
	h := sha256.New()
	h.Write([]byte(price.String()))
	h.Write([]byte{0})
	h.Write([]byte(fmt.Sprintf("%d", timestampMillis)))
	h.Write([]byte{0})
	h.Write([]byte(assetID))
	h.Write([]byte{0})
	h.Write(proofDigest)

	sum := h.Sum(nil)

	n := new(big.Int).SetBytes(sum)
	n.Mod(n, scalarFieldModulus)

	return "0x" + n.Text(16)
}
