package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/ssh"
)

// EncryptionMethod defines how persisted settings are encrypted at rest
type EncryptionMethod string

const (
	EncryptionNone   EncryptionMethod = "none"
	EncryptionSSHKey EncryptionMethod = "ssh_key"
)

// keyDerivationMessage is signed once per run; changing it orphans every
// existing settings.enc.
const keyDerivationMessage = "buddy-settings-key-derivation-v1"

// EncryptionManager encrypts the settings file. With EncryptionSSHKey the
// AES-256 key is derived from a signature made with the user's SSH key, so
// nothing secret is written next to the data it protects.
type EncryptionManager struct {
	method     EncryptionMethod
	sshKeyPath string
	passphrase string
	aesKey     []byte
}

// NewEncryptionManager creates a new encryption manager
func NewEncryptionManager(method EncryptionMethod, sshKeyPath string) *EncryptionManager {
	return &EncryptionManager{
		method:     method,
		sshKeyPath: sshKeyPath,
	}
}

// SetPassphrase sets the passphrase for decrypting the SSH key
func (e *EncryptionManager) SetPassphrase(passphrase string) {
	e.passphrase = passphrase
}

// Initialize loads the SSH key and derives the AES key. It is a no-op for
// EncryptionNone.
func (e *EncryptionManager) Initialize() error {
	switch e.method {
	case EncryptionNone:
		return nil

	case EncryptionSSHKey:
		signer, err := e.loadSigner()
		if err != nil {
			return err
		}

		aesKey, err := deriveSettingsKey(signer)
		if err != nil {
			return fmt.Errorf("failed to derive encryption key: %w", err)
		}
		e.aesKey = aesKey
		return nil

	default:
		return fmt.Errorf("unknown encryption method: %s", e.method)
	}
}

func (e *EncryptionManager) loadSigner() (ssh.Signer, error) {
	encrypted, err := IsSSHKeyEncrypted(e.sshKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check SSH key: %w", err)
	}

	if Debug {
		DebugLog.Printf("[EncryptionManager] Initialize: Key encrypted=%v", encrypted)
	}

	if encrypted && e.passphrase == "" {
		return nil, fmt.Errorf("SSH key is encrypted - passphrase required (set BUDDY_SSH_PASSPHRASE)")
	}

	var signer ssh.Signer
	if encrypted {
		signer, err = LoadSSHPrivateKeyWithPassphrase(e.sshKeyPath, e.passphrase)
	} else {
		signer, err = LoadSSHPrivateKey(e.sshKeyPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key: %w", err)
	}

	if err := checkDeterministicSigner(signer); err != nil {
		return nil, err
	}

	return signer, nil
}

// Encrypt seals a settings file body. EncryptionNone returns it unchanged.
// The sealed layout is [nonce][ciphertext+tag].
func (e *EncryptionManager) Encrypt(plaintext []byte) ([]byte, error) {
	if e.method == EncryptionNone {
		return plaintext, nil
	}

	aead, err := e.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a body written by Encrypt.
func (e *EncryptionManager) Decrypt(sealed []byte) ([]byte, error) {
	if e.method == EncryptionNone {
		return sealed, nil
	}

	aead, err := e.aead()
	if err != nil {
		return nil, err
	}

	if len(sealed) < aead.NonceSize() {
		return nil, fmt.Errorf("settings file too short to decrypt")
	}
	nonce, body := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, body, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt settings (wrong SSH key?): %w", err)
	}
	return plaintext, nil
}

// Method returns the configured encryption method.
func (e *EncryptionManager) Method() EncryptionMethod {
	return e.method
}

// aead returns the AES-256-GCM cipher for the derived key.
func (e *EncryptionManager) aead() (cipher.AEAD, error) {
	if e.method != EncryptionSSHKey {
		return nil, fmt.Errorf("unknown encryption method: %s", e.method)
	}
	if e.aesKey == nil {
		return nil, fmt.Errorf("encryption manager not initialized")
	}

	block, err := aes.NewCipher(e.aesKey)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// deriveSettingsKey signs keyDerivationMessage and hashes the signature
// into a 32-byte AES key. Only deterministic signers give a stable key.
func deriveSettingsKey(signer ssh.Signer) ([]byte, error) {
	signature, err := signer.Sign(rand.Reader, []byte(keyDerivationMessage))
	if err != nil {
		return nil, fmt.Errorf("failed to sign key derivation message: %w", err)
	}

	hash := sha256.Sum256(signature.Blob)
	return hash[:], nil
}
