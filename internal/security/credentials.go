// Package security stores the destination password outside the yaml
// profile: in the system keyring when one is available, otherwise in an
// encrypted file under the config directory.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/pbkdf2"

	"crypto/sha256"
)

const (
	keyringService   = "tabload"
	saltSize         = 32
	pbkdf2Iterations = 100000
	keySize          = 32
)

// CredentialStore handles secure storage and retrieval of passwords
type CredentialStore struct {
	useKeyring bool
	configDir  string
}

// NewCredentialStore creates a credential store rooted at configDir
func NewCredentialStore(configDir string) *CredentialStore {
	return &CredentialStore{
		useKeyring: isKeyringAvailable(),
		configDir:  configDir,
	}
}

// Store saves a password for the named account
func (cs *CredentialStore) Store(account, password string) error {
	if cs.useKeyring {
		if err := keyring.Set(keyringService, account, password); err == nil {
			return nil
		}
		// Keyring refused at runtime; fall through to the file store
	}
	return cs.storeEncrypted(account, password)
}

// Get retrieves a stored password for the named account
func (cs *CredentialStore) Get(account string) (string, error) {
	if cs.useKeyring {
		if secret, err := keyring.Get(keyringService, account); err == nil {
			return secret, nil
		} else if err != keyring.ErrNotFound {
			return "", err
		}
	}
	return cs.getEncrypted(account)
}

// Delete removes a stored password
func (cs *CredentialStore) Delete(account string) error {
	if cs.useKeyring {
		if err := keyring.Delete(keyringService, account); err == nil || err == keyring.ErrNotFound {
			return nil
		}
	}
	return os.Remove(cs.credentialPath(account))
}

// isKeyringAvailable probes the platform keyring once at startup
func isKeyringAvailable() bool {
	switch runtime.GOOS {
	case "darwin", "windows":
		return true
	case "linux":
		// dbus secret service may be absent on headless schedulers
		err := keyring.Set(keyringService, "__probe__", "probe")
		if err != nil {
			return false
		}
		_ = keyring.Delete(keyringService, "__probe__")
		return true
	default:
		return false
	}
}

// Encrypted file fallback

func (cs *CredentialStore) credentialPath(account string) string {
	safe := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, account)
	// Dots are valid in account identifiers, but runs of them could spell
	// a parent-directory reference inside the filename
	for strings.Contains(safe, "..") {
		safe = strings.ReplaceAll(safe, "..", ".")
	}
	return filepath.Join(cs.configDir, "credentials", safe+".cred")
}

func (cs *CredentialStore) keyMaterial() ([]byte, error) {
	keyFile := filepath.Join(cs.configDir, ".credkey")

	material, err := os.ReadFile(keyFile) // #nosec G304 - path is under the config dir
	if err == nil && len(material) >= keySize {
		return material, nil
	}

	material = make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, material); err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}
	if err := os.MkdirAll(cs.configDir, 0700); err != nil {
		return nil, err
	}
	if err := os.WriteFile(keyFile, material, 0600); err != nil {
		return nil, fmt.Errorf("failed to persist key material: %w", err)
	}
	return material, nil
}

func (cs *CredentialStore) storeEncrypted(account, password string) error {
	material, err := cs.keyMaterial()
	if err != nil {
		return err
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return err
	}
	key := pbkdf2.Key(material, salt, pbkdf2Iterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}

	sealed := gcm.Seal(nil, nonce, []byte(password), nil)
	payload := append(append(salt, nonce...), sealed...)

	path := cs.credentialPath(account)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(base64.StdEncoding.EncodeToString(payload)), 0600)
}

func (cs *CredentialStore) getEncrypted(account string) (string, error) {
	path := cs.credentialPath(account)

	encoded, err := os.ReadFile(path) // #nosec G304 - path is under the config dir
	if err != nil {
		return "", fmt.Errorf("no stored credential for %s", account)
	}
	payload, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		return "", fmt.Errorf("stored credential for %s is corrupted", account)
	}

	material, err := cs.keyMaterial()
	if err != nil {
		return "", err
	}

	if len(payload) < saltSize {
		return "", fmt.Errorf("stored credential for %s is corrupted", account)
	}
	salt, rest := payload[:saltSize], payload[saltSize:]
	key := pbkdf2.Key(material, salt, pbkdf2Iterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	if len(rest) < gcm.NonceSize() {
		return "", fmt.Errorf("stored credential for %s is corrupted", account)
	}
	nonce, sealed := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt credential for %s: %w", account, err)
	}
	return string(plain), nil
}
