// Package secretbox encrypts short secrets (API credentials) for storage in
// the settings blob.
//
// The scheme is AES-256-CBC with a per-call random IV. The key is derived by
// hashing the concatenation of the deployment's long-lived salts, so the
// same deployment always derives the same key and a copied settings file is
// useless without the salts. Payloads are self-describing JSON with
// base64-encoded components, safe to embed in any textual store.
package secretbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
)

// Failure sentinels. Decryption failures are deliberately opaque: the caller
// cannot distinguish corrupted ciphertext from a wrong key, and must not
// try. Resolution layers degrade to "credential absent" on ErrDecrypt.
var (
	// ErrEncrypt indicates the plaintext could not be encrypted.
	ErrEncrypt = errors.New("secretbox: encrypt failed")

	// ErrDecrypt indicates the payload could not be decrypted.
	ErrDecrypt = errors.New("secretbox: decrypt failed")
)

// defaultSalt is the key-derivation fallback when the deployment supplies
// no salts. Deployments should always configure real salts; the fallback
// only keeps secrets out of casual view.
const defaultSalt = "gopurge-default-salt"

const ivSize = aes.BlockSize // 16 bytes

// payload is the serialized form of an encrypted secret.
type payload struct {
	IV    string `json:"iv"`
	Value string `json:"value"`
}

// Box performs symmetric encryption with a key derived from deployment
// salts. The zero value is not usable; construct with New.
type Box struct {
	key []byte
}

// New derives a 256-bit key from the given salts. Empty salts are ignored;
// if none remain, a built-in fallback salt is used.
func New(salts ...string) *Box {
	h := sha256.New()
	wrote := false
	for _, salt := range salts {
		if salt == "" {
			continue
		}
		h.Write([]byte(salt))
		wrote = true
	}
	if !wrote {
		h.Write([]byte(defaultSalt))
	}
	return &Box{key: h.Sum(nil)}
}

// Encrypt encrypts a non-empty plaintext and returns the serialized
// {iv, value} payload. Each call generates a fresh IV, so encrypting the
// same plaintext twice yields different payloads.
func (b *Box) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEncrypt
	}

	block, err := aes.NewCipher(b.key)
	if err != nil {
		return "", ErrEncrypt
	}

	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", ErrEncrypt
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	out, err := json.Marshal(payload{
		IV:    base64.StdEncoding.EncodeToString(iv),
		Value: base64.StdEncoding.EncodeToString(ciphertext),
	})
	if err != nil {
		return "", ErrEncrypt
	}
	return string(out), nil
}

// Decrypt reverses Encrypt. All failure modes (empty input, unparseable
// payload, missing or undecodable components, bad IV length, misaligned or
// corrupted ciphertext) return ErrDecrypt.
func (b *Box) Decrypt(serialized string) (string, error) {
	if serialized == "" {
		return "", ErrDecrypt
	}

	var p payload
	if err := json.Unmarshal([]byte(serialized), &p); err != nil {
		return "", ErrDecrypt
	}
	if p.IV == "" || p.Value == "" {
		return "", ErrDecrypt
	}

	iv, err := base64.StdEncoding.DecodeString(p.IV)
	if err != nil {
		return "", ErrDecrypt
	}
	ciphertext, err := base64.StdEncoding.DecodeString(p.Value)
	if err != nil {
		return "", ErrDecrypt
	}

	if len(iv) != ivSize {
		return "", ErrDecrypt
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrDecrypt
	}

	block, err := aes.NewCipher(b.key)
	if err != nil {
		return "", ErrDecrypt
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, ok := pkcs7Unpad(plaintext, aes.BlockSize)
	if !ok {
		return "", ErrDecrypt
	}
	return string(unpadded), nil
}

// pkcs7Pad appends PKCS#7 padding up to the block size.
func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// pkcs7Unpad strips PKCS#7 padding, reporting false for invalid padding.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, false
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, false
		}
	}
	return data[:len(data)-n], true
}
