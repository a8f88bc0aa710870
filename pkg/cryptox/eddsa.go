package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const pemTypePrivateKey = "PRIVATE KEY"

// GenerateEd25519Key returns a new Ed25519 private key as PKCS8 PEM.
func GenerateEd25519Key() ([]byte, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptox: generate Ed25519 key: %w", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: marshal PKCS8 key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypePrivateKey, Bytes: der}), nil
}

// LoadOrCreateEd25519Key reads the PEM key at path, generating and storing a
// new one when the file does not exist. created reports which happened.
// The new file is written beside its final name and renamed into place so
// a crash never leaves a truncated key behind.
func LoadOrCreateEd25519Key(path string) (pemKey []byte, created bool, err error) {
	path = filepath.Clean(path)

	pemKey, err = os.ReadFile(path)
	switch {
	case err == nil:
		if block, _ := pem.Decode(pemKey); block == nil || block.Type != pemTypePrivateKey {
			return nil, false, fmt.Errorf("cryptox: %s is not a PEM private key", path)
		}
		return pemKey, false, nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, false, err
	}
	if pemKey, err = GenerateEd25519Key(); err != nil {
		return nil, false, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".signing-*")
	if err != nil {
		return nil, false, err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(pemKey); err != nil {
		_ = tmp.Close()
		return nil, false, err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return nil, false, err
	}
	if err := tmp.Close(); err != nil {
		return nil, false, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, false, err
	}
	return pemKey, true, nil
}
