package jwtx

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/prometheusfi/prometheus/pkg/cryptox"
)

// AlgorithmEdDSA is the only signing algorithm issued.
const AlgorithmEdDSA = "EdDSA"

// KeyManager wires a signer, its KeySet and a verifier together.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	signer Signer
}

type KeyManagerOptions struct {
	// Issuer is the iss claim validated on every token. Required.
	Issuer string

	// Audience values (aud) to validate. Empty means no audience check.
	Audience []string
}

// NewEphemeralKeyManager generates an in-memory key. Tokens do not survive a
// restart.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, err
	}
	return newKeyManager(pemKey, opts)
}

// LoadOrGenerateKeyManager reads a PEM key from path, creating and saving a
// new one when the file does not exist.
func LoadOrGenerateKeyManager(path string, opts KeyManagerOptions) (*KeyManager, error) {
	pemKey, created, err := cryptox.LoadOrCreateEd25519Key(path)
	if err != nil {
		return nil, err
	}
	if created {
		slog.Info("generated signing key", slog.String("path", path))
	}

	return newKeyManager(pemKey, opts)
}

func newKeyManager(pemKey []byte, opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	// kid is derived from the key so it is stable across restarts
	probe, err := NewSignerEdDSA("", pemKey)
	if err != nil {
		return nil, err
	}
	signer, err := NewSignerEdDSA(keyID(probe.pub), pemKey)
	if err != nil {
		return nil, err
	}
	if err := signer.Validate(); err != nil {
		return nil, err
	}

	keyset := NewKeySet()
	if err := keyset.AddSigner(signer); err != nil {
		return nil, err
	}

	return &KeyManager{
		Verifier: NewVerifierEdDSA(keyset, opts.Issuer, opts.Audience),
		KeySet:   keyset,
		signer:   signer,
	}, nil
}

func keyID(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return base64.RawURLEncoding.EncodeToString(sum[:12])
}

func (km *KeyManager) Signer() Signer { return km.signer }
func (km *KeyManager) IsReady() bool  { return km.signer != nil && km.KeySet.IsReady() }
