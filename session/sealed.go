package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/facultyms/appraise/internal/util"
)

const (
	sealedSlotAAD = "appraise:session_slot:v1"
	sealedSaltLen = 16
)

// sealedSlot is the on-disk format: the derivation inputs next to an
// AES-256-GCM envelope holding the serialized record.
type sealedSlot struct {
	Ver        int                 `json:"ver"`
	Scheme     string              `json:"scheme"`
	Salt       []byte              `json:"salt"`
	Params     util.Argon2idParams `json:"params"`
	Ciphertext []byte              `json:"ciphertext"`
}

// SealedStore is a FileStore whose slot is encrypted at rest with a key
// derived from a passphrase. A wrong passphrase or a tampered file degrades
// to an empty slot on Load, exactly like a corrupt plain slot.
type SealedStore struct {
	mu         sync.Mutex
	path       string
	passphrase string
}

var _ Store = (*SealedStore)(nil)

// NewSealedStore returns an encrypted slot persisted at path. The passphrase
// is NFKD-normalized so it derives the same key on every platform.
func NewSealedStore(path, passphrase string) (*SealedStore, error) {
	if passphrase == "" {
		return nil, errors.New("sealed session store requires a passphrase")
	}
	return &SealedStore{path: path, passphrase: util.Normalize(passphrase)}, nil
}

func (s *SealedStore) Load() *Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var slot sealedSlot
	if err := json.Unmarshal(data, &slot); err != nil {
		return nil
	}
	if slot.Ver != 1 || slot.Scheme != "aes256gcm" {
		return nil
	}

	key, err := util.DeriveArgon2idKey(s.passphrase, slot.Salt, slot.Params)
	if err != nil {
		return nil
	}
	defer util.WipeBytes(key)

	plain, err := util.DecryptAESWithAAD(slot.Ciphertext, key, []byte(sealedSlotAAD))
	if err != nil {
		return nil
	}
	defer util.WipeBytes(plain)
	return decodeRecord(plain)
}

func (s *SealedStore) Save(r *Record) error {
	plain, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("serializing session record: %w", err)
	}
	defer util.WipeBytes(plain)

	salt, err := util.RandomBytes(sealedSaltLen)
	if err != nil {
		return fmt.Errorf("generating slot salt: %w", err)
	}
	params := util.DefaultArgon2idParams()

	key, err := util.DeriveArgon2idKey(s.passphrase, salt, params)
	if err != nil {
		return fmt.Errorf("deriving slot key: %w", err)
	}
	defer util.WipeBytes(key)

	sealed, err := util.EncryptAESWithAAD(plain, key, []byte(sealedSlotAAD))
	if err != nil {
		return fmt.Errorf("sealing session slot: %w", err)
	}

	data, err := json.Marshal(sealedSlot{
		Ver:        1,
		Scheme:     "aes256gcm",
		Salt:       salt,
		Params:     params,
		Ciphertext: sealed,
	})
	if err != nil {
		return fmt.Errorf("serializing sealed slot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing sealed session slot: %w", err)
	}
	return nil
}

func (s *SealedStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clearing sealed session slot: %w", err)
	}
	return nil
}
