package benchmark

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/smallyu/go-ecutils/pkg/curves"
	"github.com/smallyu/go-ecutils/pkg/ec"
	"github.com/smallyu/go-ecutils/pkg/exchange"
	"github.com/smallyu/go-ecutils/pkg/koblitz"
	"github.com/smallyu/go-ecutils/pkg/protocol"
	"github.com/smallyu/go-ecutils/pkg/signature"
)

// setupCurve loads a named curve or aborts the benchmark.
func setupCurve(b *testing.B, name string) *ec.Curve {
	b.Helper()
	curve, err := curves.Get(name)
	if err != nil {
		b.Fatal(err)
	}
	return curve
}

// randomKey draws a private key for the curve.
func randomKey(b *testing.B, curve *ec.Curve) *big.Int {
	b.Helper()
	k, err := ec.RandomScalar(nil, curve.Params().N)
	if err != nil {
		b.Fatal(err)
	}
	return k
}

// forEachCurve runs fn as a sub-benchmark per registered curve.
func forEachCurve(b *testing.B, fn func(b *testing.B, curve *ec.Curve)) {
	for _, name := range curves.Names() {
		b.Run(name, func(b *testing.B) {
			fn(b, setupCurve(b, name))
		})
	}
}

// BenchmarkScalarBaseMult benchmarks k·G with a fresh scalar per iteration.
func BenchmarkScalarBaseMult(b *testing.B) {
	forEachCurve(b, func(b *testing.B, curve *ec.Curve) {
		k := randomKey(b, curve)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if _, err := curve.ScalarBaseMult(k); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkAdd benchmarks the chord rule.
func BenchmarkAdd(b *testing.B) {
	curve := setupCurve(b, "secp256k1")
	p, _ := curve.ScalarBaseMult(big.NewInt(7))
	q, _ := curve.ScalarBaseMult(big.NewInt(11))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := curve.Add(p, q); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSharedSecret benchmarks Diffie-Hellman over rotating peers that
// never fit in the one-entry cache.
func BenchmarkSharedSecret(b *testing.B) {
	forEachCurve(b, func(b *testing.B, curve *ec.Curve) {
		dh, err := exchange.NewDiffieHellmanWithCurve(randomKey(b, curve), curve, protocol.WithCacheSize(1))
		if err != nil {
			b.Fatal(err)
		}
		peers := make([]ec.Point, 64)
		for i := range peers {
			peers[i], _ = curve.ScalarBaseMult(randomKey(b, curve))
		}
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			dh.SharedSecret(peers[i%len(peers)])
		}
	})
}

// BenchmarkSharedSecretCached benchmarks the memoized path.
func BenchmarkSharedSecretCached(b *testing.B) {
	curve := setupCurve(b, "secp256k1")
	dh, err := exchange.NewDiffieHellmanWithCurve(randomKey(b, curve), curve)
	if err != nil {
		b.Fatal(err)
	}
	peer, _ := curve.ScalarBaseMult(randomKey(b, curve))
	if _, err := dh.SharedSecret(peer); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		dh.SharedSecret(peer)
	}
}

// BenchmarkMasseyOmura benchmarks the full three-pass exchange.
func BenchmarkMasseyOmura(b *testing.B) {
	curve := setupCurve(b, "secp256r1")
	g := curve.Params().G
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		// Fresh parties so no step is served from cache
		sender, _ := exchange.NewMasseyOmuraWithCurve(randomKey(b, curve), curve)
		receiver, _ := exchange.NewMasseyOmuraWithCurve(randomKey(b, curve), curve)

		c1, _ := sender.FirstEncryptionStep(g)
		c2, _ := receiver.SecondEncryptionStep(c1)
		c3, _ := sender.PartialDecryptionStep(c2)
		if _, err := receiver.PartialDecryptionStep(c3); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSign benchmarks ECDSA signing of distinct hashes.
func BenchmarkSign(b *testing.B) {
	forEachCurve(b, func(b *testing.B, curve *ec.Curve) {
		signer, err := signature.NewWithCurve(randomKey(b, curve), curve, protocol.WithCacheSize(1))
		if err != nil {
			b.Fatal(err)
		}
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			msg := sha256.Sum256([]byte(fmt.Sprintf("benchmark message %d", i)))
			if _, err := signer.SignDigest(msg[:]); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkVerify benchmarks ECDSA verification.
func BenchmarkVerify(b *testing.B) {
	forEachCurve(b, func(b *testing.B, curve *ec.Curve) {
		signer, err := signature.NewWithCurve(randomKey(b, curve), curve)
		if err != nil {
			b.Fatal(err)
		}
		pub, _ := signer.PublicKey()
		msg := sha256.Sum256([]byte("benchmark message"))
		hash := signature.HashToInt(msg[:], curve.Params().N)
		sig, err := signer.Sign(hash)
		if err != nil {
			b.Fatal(err)
		}
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if ok, err := signature.Verify(curve, pub, hash, sig); err != nil || !ok {
				b.Fatalf("verify failed: ok=%v err=%v", ok, err)
			}
		}
	})
}

// BenchmarkKoblitzEncode benchmarks chunked encoding of a 1 KiB message.
func BenchmarkKoblitzEncode(b *testing.B) {
	msg := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 23)

	for _, name := range []string{"secp192k1", "secp224r1", "secp521r1"} {
		b.Run(name, func(b *testing.B) {
			codec, err := koblitz.New(name)
			if err != nil {
				b.Fatal(err)
			}
			b.SetBytes(int64(len(msg)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := codec.EncodeChunks(msg, koblitz.Alphabet256); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
