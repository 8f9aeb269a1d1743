// Package secrets handles encryption of credentials at rest. The quote
// provider API key is stored fernet-encrypted in the environment and
// decrypted once at startup; plaintext keys never land in config files.
package secrets

import (
	"fmt"

	"github.com/fernet/fernet-go"
)

// Encrypt encrypts a plaintext value with the given base64 fernet key.
// Used by operators to produce the value stored in the environment.
func Encrypt(key, plaintext string) (string, error) {
	k, err := fernet.DecodeKey(key)
	if err != nil {
		return "", fmt.Errorf("invalid fernet key: %w", err)
	}

	token, err := fernet.EncryptAndSign([]byte(plaintext), k)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}

	return string(token), nil
}

// Decrypt decrypts a fernet token with the given base64 key. Tokens do not
// expire; a TTL of zero disables the age check.
func Decrypt(key, token string) (string, error) {
	k, err := fernet.DecodeKey(key)
	if err != nil {
		return "", fmt.Errorf("invalid fernet key: %w", err)
	}

	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{k})
	if plaintext == nil {
		return "", fmt.Errorf("failed to decrypt secret: token invalid or wrong key")
	}

	return string(plaintext), nil
}
