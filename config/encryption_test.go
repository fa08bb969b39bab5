package config

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/ssh"
)

func writeTestKey(t *testing.T, key crypto.PrivateKey, passphrase string) string {
	t.Helper()

	var (
		block *pem.Block
		err   error
	)
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(key, "buddy-test")
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(key, "buddy-test", []byte(passphrase))
	}
	if err != nil {
		t.Fatalf("failed to marshal key: %v", err)
	}

	path := filepath.Join(t.TempDir(), "id_test")
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0600); err != nil {
		t.Fatalf("failed to write key: %v", err)
	}
	return path
}

func newEd25519Key(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	return priv
}

func TestEncryptionNonePassthrough(t *testing.T) {
	em := NewEncryptionManager(EncryptionNone, "")
	if err := em.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	data := []byte(`{"aiProvider":"xai"}`)
	out, err := em.Encrypt(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, data) {
		t.Error("expected plaintext passthrough")
	}
}

func TestEncryptionSSHKeyRoundTrip(t *testing.T) {
	keyPath := writeTestKey(t, newEd25519Key(t), "")

	em := NewEncryptionManager(EncryptionSSHKey, keyPath)
	if err := em.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	plaintext := []byte(`{"providers":{"xai":{"apiKey":"xai-secret"}}}`)
	ciphertext, err := em.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if bytes.Contains(ciphertext, []byte("xai-secret")) {
		t.Fatal("ciphertext leaks the plaintext key")
	}

	// A fresh manager over the same key must derive the same AES key
	em2 := NewEncryptionManager(EncryptionSSHKey, keyPath)
	if err := em2.Initialize(); err != nil {
		t.Fatal(err)
	}
	decrypted, err := em2.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("got %s, want %s", decrypted, plaintext)
	}
}

func TestEncryptionEncryptedKeyNeedsPassphrase(t *testing.T) {
	keyPath := writeTestKey(t, newEd25519Key(t), "hunter2")

	encrypted, err := IsSSHKeyEncrypted(keyPath)
	if err != nil {
		t.Fatal(err)
	}
	if !encrypted {
		t.Fatal("expected key to be reported as encrypted")
	}

	em := NewEncryptionManager(EncryptionSSHKey, keyPath)
	if err := em.Initialize(); err == nil {
		t.Fatal("expected error without passphrase")
	}

	em.SetPassphrase("hunter2")
	if err := em.Initialize(); err != nil {
		t.Fatalf("Initialize() with passphrase error = %v", err)
	}
}

func TestEncryptionRejectsECDSA(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	keyPath := writeTestKey(t, priv, "")

	em := NewEncryptionManager(EncryptionSSHKey, keyPath)
	if err := em.Initialize(); err == nil {
		t.Fatal("expected ecdsa key to be rejected")
	}
}

func TestEncryptionUninitialized(t *testing.T) {
	em := NewEncryptionManager(EncryptionSSHKey, "/nonexistent")
	if _, err := em.Encrypt([]byte("x")); err == nil {
		t.Error("expected error from uninitialized manager")
	}
	if _, err := em.Decrypt([]byte("x")); err == nil {
		t.Error("expected error from uninitialized manager")
	}
}

func TestEncryptionRejectsTamperedFile(t *testing.T) {
	em := NewEncryptionManager(EncryptionSSHKey, writeTestKey(t, newEd25519Key(t), ""))
	if err := em.Initialize(); err != nil {
		t.Fatal(err)
	}
	if em.Method() != EncryptionSSHKey {
		t.Fatalf("Method() = %q, want %q", em.Method(), EncryptionSSHKey)
	}

	sealed, err := em.Encrypt([]byte(`{"userName":"Sam"}`))
	if err != nil {
		t.Fatal(err)
	}
	sealed[len(sealed)-1] ^= 0xff
	if _, err := em.Decrypt(sealed); err == nil {
		t.Error("expected error decrypting a modified file")
	}
	if _, err := em.Decrypt(sealed[:4]); err == nil {
		t.Error("expected error decrypting a truncated file")
	}
}
