// Package etlm decrypts and verifies Eddystone encrypted-telemetry (ETLM)
// frames. The wire scheme is AES-EAX with a truncated 2-byte tag, which is
// narrower than most libraries' minimum accepted tag length; rather than
// reach for an unaudited third-party EAX package, this file composes EAX
// from the same two primitives the reference crypto stack already uses for
// its own truncated-tag authentication scheme: AES-CTR for encryption and
// AES-CMAC (OMAC) for authentication.
package etlm

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"

	"github.com/aead/cmac"
)

const blockSize = aes.BlockSize

// eaxOMAC computes OMAC_t(key, data): CMAC of a single-byte tag prefixed
// block concatenated with data, per the EAX construction (Bellare, Rogaway,
// Wagner). t selects which of the three EAX lanes (nonce, header,
// ciphertext) this digest belongs to.
func eaxOMAC(block cipher.Block, t byte, data []byte) ([]byte, error) {
	mac, err := cmac.New(block)
	if err != nil {
		return nil, fmt.Errorf("etlm: create cmac: %w", err)
	}

	var prefix [blockSize]byte
	prefix[blockSize-1] = t
	mac.Write(prefix[:])
	mac.Write(data)
	return mac.Sum(nil), nil
}

// eaxEncrypt implements AES-EAX encryption and returns the ciphertext and
// full 16-byte tag. header may be nil.
func eaxEncrypt(key, nonce, header, plaintext []byte) (ciphertext, tag []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("etlm: create cipher: %w", err)
	}

	n, err := eaxOMAC(block, 0, nonce)
	if err != nil {
		return nil, nil, err
	}
	h, err := eaxOMAC(block, 1, header)
	if err != nil {
		return nil, nil, err
	}

	ciphertext = make([]byte, len(plaintext))
	stream := cipher.NewCTR(block, n)
	stream.XORKeyStream(ciphertext, plaintext)

	c, err := eaxOMAC(block, 2, ciphertext)
	if err != nil {
		return nil, nil, err
	}

	tag = make([]byte, blockSize)
	for i := 0; i < blockSize; i++ {
		tag[i] = n[i] ^ h[i] ^ c[i]
	}

	return ciphertext, tag, nil
}

// eaxDecryptNoVerify decrypts ciphertext under AES-EAX without checking the
// tag. Callers that need verification must re-encrypt the resulting
// plaintext and compare tags themselves (see Decrypt in decrypt.go) because
// the on-wire tag here is truncated below what most EAX implementations
// will accept as a minimum length.
func eaxDecryptNoVerify(key, nonce, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("etlm: create cipher: %w", err)
	}

	n, err := eaxOMAC(block, 0, nonce)
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(ciphertext))
	stream := cipher.NewCTR(block, n)
	stream.XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}

// buildNonce concatenates the big-endian 32-bit counter with the 2-byte
// salt, producing the 6-byte EAX nonce the wire format specifies.
func buildNonce(counter uint32, salt [SaltSize]byte) []byte {
	nonce := make([]byte, 4+SaltSize)
	binary.BigEndian.PutUint32(nonce[:4], counter)
	copy(nonce[4:], salt[:])
	return nonce
}
