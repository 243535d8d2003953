// Package main provides the mceliece-cli command line interface for gf2-mceliece operations.
package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	mceliece "github.com/BackendStack21/gf2-mceliece-go"
	"github.com/BackendStack21/gf2-mceliece-go/alpha27"
	"github.com/BackendStack21/gf2-mceliece-go/core"
	"github.com/BackendStack21/gf2-mceliece-go/pke"
	"github.com/BackendStack21/gf2-mceliece-go/utils"
)

const (
	version = "0.3.0"
	appName = "mceliece-cli"
)

// Ciphertext encodings recorded in EncryptedExport.
const (
	EncodingAlpha27 = "alpha27"
	EncodingBits    = "bits"
)

// KeyPairExport represents an exported key pair
type KeyPairExport struct {
	Preset      string          `json:"preset,omitempty"`
	Params      mceliece.Params `json:"params"`
	Format      OutputFormat    `json:"format,omitempty"`
	PublicKey   string          `json:"public_key"`
	SecretKey   string          `json:"secret_key"`
	Fingerprint string          `json:"fingerprint"`
	CreatedAt   string          `json:"created_at"`
	KeyHMAC     string          `json:"key_hmac,omitempty"` // HMAC for integrity verification
}

// EncryptedExport represents an exported encrypted message
type EncryptedExport struct {
	Encoding   string       `json:"encoding"`
	Format     OutputFormat `json:"format,omitempty"`
	Blocks     int          `json:"blocks"`
	Ciphertext string       `json:"ciphertext"`
}

// InspectExport describes a key
type InspectExport struct {
	Params             mceliece.Params `json:"params"`
	Fingerprint        string          `json:"fingerprint"`
	MinimumDistance    int             `json:"minimum_distance"`
	CorrectionCapacity int             `json:"correction_capacity"`
	GuaranteedDecoding bool            `json:"guaranteed_decoding"`
	CharsPerBlock      int             `json:"chars_per_block,omitempty"`
	DecodingCost       float64         `json:"decoding_cost"`
}

func main() {
	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stdout)
		return errors.New("missing command")
	}

	command := args[0]
	switch command {
	case "help", "--help", "-h":
		printUsage(stdout)
		return nil
	case "version", "--version":
		fmt.Fprintf(stdout, "%s version %s\n", appName, version)
		fmt.Fprintf(stdout, "gf2-mceliece library version %s\n", mceliece.Version)
		return nil
	case "keygen":
		return handleKeygen(args[1:], stdout, stderr)
	case "encrypt", "enc":
		return handleEncrypt(args[1:], stdout, stderr)
	case "decrypt", "dec":
		return handleDecrypt(args[1:], stdout, stderr)
	case "inspect":
		return handleInspect(args[1:], stdout)
	case "benchmark":
		return handleBenchmark(args[1:], stdout)
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `%s - toy McEliece public-key encryption over GF(2)

USAGE:
    %s <COMMAND> [OPTIONS]

COMMANDS:
    keygen      Generate a new key pair
    encrypt     Encrypt text over "_a-z" or a raw bit string
    decrypt     Decrypt a ciphertext
    inspect     Show the parameters and decoding margin of a key
    benchmark   Run performance benchmarks
    version     Show version information
    help        Show this help message

OPTIONS:
    --preset <TOY-6-3|SMALL-10-5|DEMO-30-15>   Parameter preset (default: DEMO-30-15, env %s)
    --n <n> --t <t> --k-chars <c>|--k <k>      Custom parameters instead of a preset
    --seed <hex>                               Deterministic key generation (>= 32 bytes)
    --public-key <file>  --secret-key <file>   Key files written by keygen
    --message <text>  --bits <01...>  --input <file>
    --ciphertext <file>
    --output <file>                            Output file (default: stdout)
    --format <hex|base64>                      Binary encoding (default: base64, env %s)
    --timing                                   Show timing information
    --verbose                                  Verbose output

A .env file in the working directory is loaded before flags are parsed.

EXAMPLES:
    %s keygen --preset DEMO-30-15 --output keypair.json
    %s encrypt --public-key keypair.json --message hello_world --output ct.json
    %s decrypt --secret-key keypair.json --ciphertext ct.json
    %s inspect --public-key keypair.json
    %s benchmark --preset SMALL-10-5 --iterations 10

WARNING: this is an educational construction. Do not use it to protect real data.
`, appName, appName, EnvPreset, EnvFormat, appName, appName, appName, appName, appName)
}

// generateKeyHMAC computes HMAC-SHA256 of key material for basic integrity verification.
// It detects accidental corruption only: the HMAC key is the public key.
func generateKeyHMAC(publicKey string, secretKey string) string {
	h := hmac.New(sha256.New, []byte(publicKey))
	h.Write([]byte(secretKey))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// ============================================================================
// Commands
// ============================================================================

func handleKeygen(args []string, stdout, stderr io.Writer) error {
	config, err := parseConfig(args)
	if err != nil {
		return err
	}

	start := time.Now()
	var kp *mceliece.KeyPair
	if seedHex := getArg(args, "--seed", "-s"); seedHex != "" {
		seed, err := hex.DecodeString(seedHex)
		if err != nil {
			return fmt.Errorf("invalid seed hex: %w", err)
		}
		kp, err = pke.GenerateKeyPairFromSeed(config.Params, seed)
		utils.Zeroize(seed)
		if err != nil {
			return fmt.Errorf("generating key pair: %w", err)
		}
	} else {
		kp, err = pke.GenerateKeyPair(config.Params)
		if err != nil {
			return fmt.Errorf("generating key pair: %w", err)
		}
	}
	elapsed := time.Since(start)

	if config.Timing {
		fmt.Fprintf(stderr, "Key generation took: %v\n", elapsed)
	}

	pkBytes := pke.SerializePublicKey(&kp.PublicKey)
	skBytes := pke.SerializePrivateKey(&kp.PrivateKey)
	export := KeyPairExport{
		Preset:      string(config.Preset),
		Params:      config.Params,
		Format:      config.OutputFormat,
		PublicKey:   encodeBytes(pkBytes, config.OutputFormat),
		SecretKey:   encodeBytes(skBytes, config.OutputFormat),
		Fingerprint: hex.EncodeToString(pke.Fingerprint(&kp.PublicKey)),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	export.KeyHMAC = generateKeyHMAC(export.PublicKey, export.SecretKey)

	output, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	if err := writeOutput(stdout, output, config.OutputFile); err != nil {
		return err
	}

	if config.Verbose {
		fmt.Fprintf(stderr, "Generated key pair n=%d k=%d t=%d\n", config.Params.N, config.Params.K, config.Params.T)
		fmt.Fprintf(stderr, "Public key size: %d bytes\n", len(pkBytes))
		fmt.Fprintf(stderr, "Secret key size: %d bytes\n", len(skBytes))
	}
	return nil
}

func handleEncrypt(args []string, stdout, stderr io.Writer) error {
	config, err := parseConfig(args)
	if err != nil {
		return err
	}
	pkFile := getArg(args, "--public-key", "-pk")
	if pkFile == "" {
		return errors.New("--public-key is required")
	}
	pkData, err := loadKeyFromFile(pkFile, "public_key")
	if err != nil {
		return fmt.Errorf("loading public key: %w", err)
	}
	pk, err := pke.DeserializePublicKey(pkData)
	if err != nil {
		return fmt.Errorf("deserializing public key: %w", err)
	}

	var blocks [][]uint8
	encoding := EncodingAlpha27
	start := time.Now()
	if bitStr := getArg(args, "--bits", "-b"); bitStr != "" {
		encoding = EncodingBits
		bits, err := parseBits(bitStr)
		if err != nil {
			return err
		}
		c, err := pke.Encrypt(pk, bits)
		if err != nil {
			return fmt.Errorf("encrypting: %w", err)
		}
		blocks = [][]uint8{c}
	} else {
		message, err := readMessage(args, config)
		if err != nil {
			return err
		}
		apk, err := alpha27.NewPublicKey(*pk)
		if err != nil {
			return fmt.Errorf("text encryption needs k to be a multiple of %d: %w", alpha27.BitsPerChar, err)
		}
		blocks, err = alpha27.EncryptMessage(apk, message, nil)
		if err != nil {
			return fmt.Errorf("encrypting: %w", err)
		}
	}
	elapsed := time.Since(start)

	if config.Timing {
		fmt.Fprintf(stderr, "Encryption took: %v\n", elapsed)
	}

	ctBytes, err := pke.SerializeCiphertext(blocks)
	if err != nil {
		return err
	}
	export := EncryptedExport{
		Encoding:   encoding,
		Format:     config.OutputFormat,
		Blocks:     len(blocks),
		Ciphertext: encodeBytes(ctBytes, config.OutputFormat),
	}
	output, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	if err := writeOutput(stdout, output, config.OutputFile); err != nil {
		return err
	}

	if config.Verbose {
		fmt.Fprintf(stderr, "Encrypted %d block(s) of %d bits\n", len(blocks), pk.N())
	}
	return nil
}

func handleDecrypt(args []string, stdout, stderr io.Writer) error {
	config, err := parseConfig(args)
	if err != nil {
		return err
	}
	skFile := getArg(args, "--secret-key", "-sk")
	ctFile := getArg(args, "--ciphertext", "-c")
	if skFile == "" || ctFile == "" {
		return errors.New("--secret-key and --ciphertext are required")
	}

	sk, err := loadSecretKey(skFile)
	if err != nil {
		return err
	}

	ctData, err := readLimitedFile(ctFile)
	if err != nil {
		return fmt.Errorf("loading ciphertext: %w", err)
	}
	var export EncryptedExport
	if err := json.Unmarshal(ctData, &export); err != nil {
		return fmt.Errorf("parsing ciphertext: %w", err)
	}
	raw, err := decodeString(export.Ciphertext, export.Format)
	if err != nil {
		return fmt.Errorf("decoding ciphertext: %w", err)
	}
	blocks, err := pke.DeserializeCiphertext(raw)
	if err != nil {
		return fmt.Errorf("deserializing ciphertext: %w", err)
	}

	start := time.Now()
	var plaintext string
	switch export.Encoding {
	case EncodingBits:
		var sb strings.Builder
		for i, c := range blocks {
			m, err := pke.Decrypt(sk, c)
			if err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
			sb.WriteString(formatBits(m))
		}
		plaintext = sb.String()
	case EncodingAlpha27, "":
		ask, err := alpha27.NewPrivateKey(*sk)
		if err != nil {
			return err
		}
		plaintext, err = alpha27.DecryptMessage(ask, blocks)
		if err != nil {
			return fmt.Errorf("decrypting: %w", err)
		}
		if hasFlag(args, "--strip-padding", "") {
			plaintext = strings.TrimRight(plaintext, string(alpha27.PadChar))
		}
	default:
		return fmt.Errorf("unknown ciphertext encoding '%s'", export.Encoding)
	}
	elapsed := time.Since(start)

	if config.Timing {
		fmt.Fprintf(stderr, "Decryption took: %v\n", elapsed)
	}
	return writeOutput(stdout, []byte(plaintext), config.OutputFile)
}

func handleInspect(args []string, stdout io.Writer) error {
	var pk *mceliece.PublicKey
	switch {
	case getArg(args, "--public-key", "-pk") != "":
		data, err := loadKeyFromFile(getArg(args, "--public-key", "-pk"), "public_key")
		if err != nil {
			return fmt.Errorf("loading public key: %w", err)
		}
		if pk, err = pke.DeserializePublicKey(data); err != nil {
			return fmt.Errorf("deserializing public key: %w", err)
		}
	case getArg(args, "--secret-key", "-sk") != "":
		sk, err := loadSecretKey(getArg(args, "--secret-key", "-sk"))
		if err != nil {
			return err
		}
		if pk, err = pke.DerivePublicKey(sk); err != nil {
			return err
		}
	default:
		return errors.New("--public-key or --secret-key is required")
	}

	// S and P preserve codeword weights, so the public code has the same minimum
	// distance as the secret one.
	d, err := pke.MinimumDistance(pk.G)
	if err != nil {
		return err
	}
	params := mceliece.Params{N: pk.N(), K: pk.K(), T: pk.T}
	export := InspectExport{
		Params:             params,
		Fingerprint:        hex.EncodeToString(pke.Fingerprint(pk)),
		MinimumDistance:    d,
		CorrectionCapacity: (d - 1) / 2,
		GuaranteedDecoding: 2*pk.T < d,
		DecodingCost:       core.DecodingCost(params),
	}
	if pk.K()%alpha27.BitsPerChar == 0 {
		export.CharsPerBlock = pk.K() / alpha27.BitsPerChar
	}
	output, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	return writeOutput(stdout, output, getArg(args, "--output", "-o"))
}

func handleBenchmark(args []string, stdout io.Writer) error {
	config, err := parseConfig(args)
	if err != nil {
		return err
	}
	iterations := 10
	if s := getArg(args, "--iterations", ""); s != "" {
		if iterations, err = strconv.Atoi(s); err != nil {
			return fmt.Errorf("invalid --iterations: %w", err)
		}
	}
	if iterations < 1 {
		return fmt.Errorf("invalid --iterations: %d must be at least 1", iterations)
	}

	fmt.Fprintf(stdout, "gf2-mceliece Benchmark Results\n")
	fmt.Fprintf(stdout, "==============================\n")
	fmt.Fprintf(stdout, "Parameters: n=%d k=%d t=%d\n", config.Params.N, config.Params.K, config.Params.T)
	fmt.Fprintf(stdout, "Iterations: %d\n\n", iterations)

	var keygenTotal, encTotal, decTotal time.Duration
	failures := 0
	for i := 0; i < iterations; i++ {
		start := time.Now()
		kp, err := pke.GenerateKeyPair(config.Params)
		keygenTotal += time.Since(start)
		if err != nil {
			return fmt.Errorf("key generation: %w", err)
		}

		m, err := utils.RandomBits(utils.RandReader, config.Params.K)
		if err != nil {
			return err
		}
		start = time.Now()
		c, err := pke.Encrypt(&kp.PublicKey, m)
		encTotal += time.Since(start)
		if err != nil {
			return fmt.Errorf("encryption: %w", err)
		}

		start = time.Now()
		got, err := pke.Decrypt(&kp.PrivateKey, c)
		decTotal += time.Since(start)
		if err != nil {
			return fmt.Errorf("decryption: %w", err)
		}
		if formatBits(got) != formatBits(m) {
			failures++
		}
	}

	n := time.Duration(iterations)
	fmt.Fprintf(stdout, "  KeyGen:  %v avg\n", keygenTotal/n)
	fmt.Fprintf(stdout, "  Encrypt: %v avg\n", encTotal/n)
	fmt.Fprintf(stdout, "  Decrypt: %v avg\n", decTotal/n)
	fmt.Fprintf(stdout, "  Decoding failures: %d/%d\n", failures, iterations)
	return nil
}

// ============================================================================
// Helpers
// ============================================================================

func readMessage(args []string, config CLIConfig) (string, error) {
	if msg := getArg(args, "--message", "-m"); msg != "" {
		return msg, nil
	}
	if config.InputFile != "" {
		data, err := readLimitedFile(config.InputFile)
		if err != nil {
			return "", fmt.Errorf("reading input file: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	return "", errors.New("--message, --bits or --input is required")
}

func parseBits(s string) ([]uint8, error) {
	bits := make([]uint8, 0, len(s))
	for i, r := range s {
		switch r {
		case '0':
			bits = append(bits, 0)
		case '1':
			bits = append(bits, 1)
		default:
			return nil, fmt.Errorf("%w: %q at offset %d in bit string", mceliece.ErrInvalidSymbol, r, i)
		}
	}
	return bits, nil
}

func formatBits(bits []uint8) string {
	var sb strings.Builder
	sb.Grow(len(bits))
	for _, b := range bits {
		sb.WriteByte('0' + b&1)
	}
	return sb.String()
}

func encodeBytes(data []byte, format OutputFormat) string {
	switch format {
	case FormatHex:
		return hex.EncodeToString(data)
	default:
		return base64.StdEncoding.EncodeToString(data)
	}
}

// decodeString decodes s in the recorded format. Files written without a format
// are decoded as hex when they parse as hex and as base64 otherwise; a base64
// string of only hex digits is ambiguous there.
func decodeString(s string, format OutputFormat) ([]byte, error) {
	switch format {
	case FormatHex:
		return hex.DecodeString(s)
	case FormatBase64:
		return base64.StdEncoding.DecodeString(s)
	case "":
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if data, err := hex.DecodeString(s); err == nil {
		return data, nil
	}
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return nil, fmt.Errorf("unable to decode string")
}

// readLimitedFile reads a file after checking its size, to prevent unbounded reads.
func readLimitedFile(filename string) ([]byte, error) {
	const MaxInputFileSize = 100 * 1024 * 1024 // 100 MB limit

	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > MaxInputFileSize {
		return nil, fmt.Errorf("input file too large: %d > %d bytes", info.Size(), MaxInputFileSize)
	}
	return os.ReadFile(filename)
}

func loadKeyFromFile(filename, keyField string) ([]byte, error) {
	data, err := readLimitedFile(filename)
	if err != nil {
		return nil, err
	}

	var jsonData map[string]interface{}
	if err := json.Unmarshal(data, &jsonData); err == nil {
		fieldMappings := map[string][]string{
			"public_key": {"public_key", "publicKey", "pk"},
			"secret_key": {"secret_key", "secretKey", "sk"},
		}
		format, _ := jsonData["format"].(string)
		fields, ok := fieldMappings[keyField]
		if !ok {
			fields = []string{keyField}
		}
		for _, field := range fields {
			if val, ok := jsonData[field]; ok {
				if strVal, ok := val.(string); ok {
					return decodeString(strVal, OutputFormat(format))
				}
			}
		}
		return nil, fmt.Errorf("no %s field in %s", keyField, filename)
	}

	return decodeString(strings.TrimSpace(string(data)), "")
}

// loadSecretKey loads a secret key and, when the file is a key pair export with an
// HMAC, checks it first.
func loadSecretKey(filename string) (*mceliece.PrivateKey, error) {
	data, err := readLimitedFile(filename)
	if err != nil {
		return nil, fmt.Errorf("loading secret key: %w", err)
	}
	var export KeyPairExport
	if json.Unmarshal(data, &export) == nil && export.KeyHMAC != "" {
		want := generateKeyHMAC(export.PublicKey, export.SecretKey)
		if !utils.ConstantTimeEqual([]byte(want), []byte(export.KeyHMAC)) {
			return nil, errors.New("key file integrity check failed")
		}
	}

	skData, err := loadKeyFromFile(filename, "secret_key")
	if err != nil {
		return nil, fmt.Errorf("loading secret key: %w", err)
	}
	defer utils.Zeroize(skData)
	sk, err := pke.DeserializePrivateKey(skData)
	if err != nil {
		return nil, fmt.Errorf("deserializing secret key: %w", err)
	}
	return sk, nil
}

func writeOutput(stdout io.Writer, data []byte, filename string) error {
	if filename == "" {
		_, err := fmt.Fprintln(stdout, string(data))
		return err
	}

	// Key material is written owner read-write only.
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	// Enforce permissions even if the file already existed.
	if err := os.Chmod(filename, 0600); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}
	return nil
}
