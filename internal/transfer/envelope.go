package transfer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 work factor used when none is configured.
	DefaultIterations = 100000

	saltSize = 16
	keySize  = 32
)

// Envelope is a passphrase-encrypted payload. All binary fields are
// standard base64.
type Envelope struct {
	Encrypted bool   `json:"encrypted"`
	IV        string `json:"iv"`
	Salt      string `json:"salt"`
	Data      string `json:"data"`
}

func deriveKey(passphrase string, salt []byte, iterations int) []byte {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return pbkdf2.Key([]byte(passphrase), salt, iterations, keySize, sha256.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext with AES-256-GCM under a PBKDF2-SHA256 key. Each
// call draws a fresh salt and nonce.
func Encrypt(plaintext []byte, passphrase string, iterations int) (*Envelope, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	gcm, err := newGCM(deriveKey(passphrase, salt, iterations))
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	iv := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}

	return &Envelope{
		Encrypted: true,
		IV:        base64.StdEncoding.EncodeToString(iv),
		Salt:      base64.StdEncoding.EncodeToString(salt),
		Data:      base64.StdEncoding.EncodeToString(gcm.Seal(nil, iv, plaintext, nil)),
	}, nil
}

// Decrypt opens env. Any failure, including bad base64, yields ErrDecrypt.
func Decrypt(env *Envelope, passphrase string, iterations int) ([]byte, error) {
	if env == nil || !env.Encrypted {
		return nil, ErrMalformedPayload
	}
	if passphrase == "" {
		return nil, ErrPassphraseRequired
	}

	iv, err1 := base64.StdEncoding.DecodeString(env.IV)
	salt, err2 := base64.StdEncoding.DecodeString(env.Salt)
	data, err3 := base64.StdEncoding.DecodeString(env.Data)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, ErrDecrypt
	}

	gcm, err := newGCM(deriveKey(passphrase, salt, iterations))
	if err != nil || len(iv) != gcm.NonceSize() {
		return nil, ErrDecrypt
	}
	plaintext, err := gcm.Open(nil, iv, data, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

// ParseEnvelope reports whether data is an encrypted envelope and decodes it.
func ParseEnvelope(data []byte) (*Envelope, bool) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil || !env.Encrypted || env.Data == "" {
		return nil, false
	}
	return &env, true
}
