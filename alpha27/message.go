package alpha27

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	mceliece "github.com/BackendStack21/gf2-mceliece-go"
	"github.com/BackendStack21/gf2-mceliece-go/pke"
	"github.com/BackendStack21/gf2-mceliece-go/utils"
)

const blockSeedLabel = "alpha27-block"

// PublicKey is a McEliece public key with its text block geometry.
type PublicKey struct {
	Key    mceliece.PublicKey `json:"-"`
	N      int                `json:"n"`
	KBits  int                `json:"k_bits"`
	KChars int                `json:"k_chars"`
}

// PrivateKey is a McEliece private key with its text block geometry.
type PrivateKey struct {
	Key    mceliece.PrivateKey `json:"-"`
	N      int                 `json:"n"`
	KBits  int                 `json:"k_bits"`
	KChars int                 `json:"k_chars"`
}

// Params returns the McEliece parameters for blocks of kChars characters.
func Params(n, kChars, t int) mceliece.Params {
	return mceliece.Params{N: n, K: BitsPerChar * kChars, T: t}
}

// GenerateKeys generates a key pair whose blocks carry kChars characters, so the
// underlying code has dimension 5·kChars.
func GenerateKeys(n, kChars, t int, r io.Reader) (*PublicKey, *PrivateKey, error) {
	if kChars < 1 {
		return nil, nil, fmt.Errorf("%w: block of %d characters", mceliece.ErrInvalidParameters, kChars)
	}
	kp, err := pke.GenerateKeys(Params(n, kChars, t), r)
	if err != nil {
		return nil, nil, err
	}
	pub, err := NewPublicKey(kp.PublicKey)
	if err != nil {
		return nil, nil, err
	}
	priv, err := NewPrivateKey(kp.PrivateKey)
	if err != nil {
		return nil, nil, err
	}
	return pub, priv, nil
}

// NewPublicKey attaches block geometry to a McEliece public key. The code
// dimension must be a positive multiple of BitsPerChar.
func NewPublicKey(key mceliece.PublicKey) (*PublicKey, error) {
	kChars, err := charsPerBlock(key.K())
	if err != nil {
		return nil, err
	}
	return &PublicKey{Key: key, N: key.N(), KBits: key.K(), KChars: kChars}, nil
}

// NewPrivateKey attaches block geometry to a McEliece private key.
func NewPrivateKey(key mceliece.PrivateKey) (*PrivateKey, error) {
	kChars, err := charsPerBlock(key.K())
	if err != nil {
		return nil, err
	}
	return &PrivateKey{Key: key, N: key.N(), KBits: key.K(), KChars: kChars}, nil
}

func charsPerBlock(k int) (int, error) {
	if k < BitsPerChar || k%BitsPerChar != 0 {
		return 0, fmt.Errorf("%w: k = %d is not a positive multiple of %d",
			mceliece.ErrInvalidParameters, k, BitsPerChar)
	}
	return k / BitsPerChar, nil
}

func checkGeometry(n, kBits, kChars int) error {
	if kChars < 1 || kBits != BitsPerChar*kChars || n < kBits {
		return fmt.Errorf("%w: block geometry n = %d, k = %d bits, %d characters",
			mceliece.ErrInvalidParameters, n, kBits, kChars)
	}
	return nil
}

func checkPublicKey(pk *PublicKey) error {
	if pk == nil {
		return fmt.Errorf("%w: nil public key", mceliece.ErrInvalidParameters)
	}
	return checkGeometry(pk.N, pk.KBits, pk.KChars)
}

func checkPrivateKey(sk *PrivateKey) error {
	if sk == nil {
		return fmt.Errorf("%w: nil private key", mceliece.ErrInvalidParameters)
	}
	return checkGeometry(sk.N, sk.KBits, sk.KChars)
}

// EncryptBlock encrypts exactly KChars characters into one n-bit block.
func EncryptBlock(pk *PublicKey, block string, r io.Reader) ([]uint8, error) {
	if err := checkPublicKey(pk); err != nil {
		return nil, err
	}
	if len(block) != pk.KChars {
		return nil, fmt.Errorf("%w: block has %d characters, want %d",
			mceliece.ErrInvalidMessageLength, len(block), pk.KChars)
	}
	bits, err := EncodeText(block)
	if err != nil {
		return nil, err
	}
	if len(bits) != pk.KBits {
		return nil, fmt.Errorf("%w: block encodes to %d bits, want %d",
			mceliece.ErrInvalidMessageLength, len(bits), pk.KBits)
	}
	return pke.EncryptWithReader(&pk.Key, bits, r)
}

// DecryptBlock decrypts one n-bit block into KChars characters.
func DecryptBlock(sk *PrivateKey, block []uint8) (string, error) {
	if err := checkPrivateKey(sk); err != nil {
		return "", err
	}
	if err := validateBlock(block, sk.N); err != nil {
		return "", err
	}
	bits, err := pke.Decrypt(&sk.Key, block)
	if err != nil {
		return "", err
	}
	if len(bits) != sk.KBits {
		return "", fmt.Errorf("%w: decrypted %d bits, want %d",
			mceliece.ErrInvalidMessageLength, len(bits), sk.KBits)
	}
	return DecodeBits(bits, sk.KChars)
}

// EncryptMessage pads plaintext to whole blocks and encrypts every block.
//
// One 32-byte master seed is read from r and each block draws its error vector
// from a stream derived from that seed and the block index. Blocks are encrypted
// concurrently and the result depends only on the bytes read from r. A nil r draws
// the master seed from utils.SecureRandomBytes.
func EncryptMessage(pk *PublicKey, plaintext string, r io.Reader) ([][]uint8, error) {
	if err := checkPublicKey(pk); err != nil {
		return nil, err
	}
	if err := ValidatePlaintext(plaintext); err != nil {
		return nil, err
	}
	padded := Pad(plaintext, pk.KChars)
	count := len(padded) / pk.KChars
	if err := utils.CheckLength(count, utils.MaxBlockCount); err != nil {
		return nil, fmt.Errorf("%w: %d blocks: %v", mceliece.ErrInvalidParameters, count, err)
	}

	master, err := masterSeed(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read master seed: %w", err)
	}
	defer utils.Zeroize(master)

	blocks := make([][]uint8, count)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			seed, err := utils.DeriveIndexedSeed(master, blockSeedLabel, i, 32)
			if err != nil {
				return err
			}
			defer utils.Zeroize(seed)
			chunk := padded[i*pk.KChars : (i+1)*pk.KChars]
			c, err := EncryptBlock(pk, chunk, utils.NewSeededReader(pke.DomainEncrypt, seed))
			if err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
			blocks[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}

func masterSeed(r io.Reader) ([]byte, error) {
	if r == nil {
		return utils.SecureRandomBytes(32)
	}
	return utils.ReadBytes(r, 32)
}

// DecryptMessage validates every block, then decrypts them concurrently and
// concatenates the text in block order. Padding is returned as is.
func DecryptMessage(sk *PrivateKey, blocks [][]uint8) (string, error) {
	if err := ValidateCiphertext(sk, blocks); err != nil {
		return "", err
	}

	parts := make([]string, len(blocks))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, block := range blocks {
		i, block := i, block
		g.Go(func() error {
			text, err := DecryptBlock(sk, block)
			if err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
			parts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return strings.Join(parts, ""), nil
}

// ValidateCiphertext checks that every block has length n and binary entries.
func ValidateCiphertext(sk *PrivateKey, blocks [][]uint8) error {
	if err := checkPrivateKey(sk); err != nil {
		return err
	}
	for i, b := range blocks {
		if err := validateBlock(b, sk.N); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	return nil
}

func validateBlock(block []uint8, n int) error {
	if len(block) != n {
		return fmt.Errorf("%w: block has %d bits, want %d", mceliece.ErrInvalidCiphertextLength, len(block), n)
	}
	for j, b := range block {
		if b > 1 {
			return fmt.Errorf("%w: bit %d = %d", mceliece.ErrInvalidSymbol, j, b)
		}
	}
	return nil
}
