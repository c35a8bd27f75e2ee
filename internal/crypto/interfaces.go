package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/sealer_mock.go -package=mock

// Sealer protects document updates before they leave the device.
//
// Each entity gets its own random content key (DEK). The DEK is wrapped with
// the account key (KEK), derived from the passphrase with Argon2id, and the
// wrapped DEK travels next to the sealed update as the encrypted key header:
//
//	DEK     = random 32 bytes                 (once per entity)
//	header  = base64(nonce ‖ AES-GCM(KEK, DEK))
//	payload = nonce ‖ AES-GCM(DEK, update)
type Sealer interface {
	// Seal encrypts plain. When header is nil a fresh DEK is generated and
	// its header returned; otherwise the DEK is unwrapped from header and
	// the same header is returned.
	Seal(plain []byte, header *string) (sealed []byte, newHeader *string, err error)

	// Open decrypts sealed with the DEK wrapped in header. A nil header means
	// the payload was pushed unsealed and is returned as is.
	Open(sealed []byte, header *string) ([]byte, error)
}
