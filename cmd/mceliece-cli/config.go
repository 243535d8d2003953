package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	mceliece "github.com/BackendStack21/gf2-mceliece-go"
	"github.com/BackendStack21/gf2-mceliece-go/alpha27"
	"github.com/BackendStack21/gf2-mceliece-go/core"
)

// Environment variables that supply defaults for flags.
const (
	EnvPreset = "MCELIECE_PRESET"
	EnvFormat = "MCELIECE_FORMAT"
)

// OutputFormat represents the output format for serialization
type OutputFormat string

const (
	FormatHex    OutputFormat = "hex"
	FormatBase64 OutputFormat = "base64"
)

// CLIConfig holds CLI configuration
type CLIConfig struct {
	Preset       mceliece.Preset
	Params       mceliece.Params
	OutputFormat OutputFormat
	OutputFile   string
	InputFile    string
	Verbose      bool
	Timing       bool
}

// loadDotEnv loads ./.env into the environment if it exists. Variables already set
// are not overridden.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func parseConfig(args []string) (CLIConfig, error) {
	config := CLIConfig{
		Preset:       mceliece.DEMO3015,
		OutputFormat: FormatBase64,
	}

	preset := getArg(args, "--preset", "-p")
	if preset == "" {
		preset = os.Getenv(EnvPreset)
	}
	switch preset {
	case "":
	case "toy", "TOY-6-3", "TOY_6_3":
		config.Preset = mceliece.TOY63
	case "small", "SMALL-10-5", "SMALL_10_5":
		config.Preset = mceliece.SMALL105
	case "demo", "DEMO-30-15", "DEMO_30_15":
		config.Preset = mceliece.DEMO3015
	default:
		return config, fmt.Errorf("invalid preset '%s'. Must be one of: TOY-6-3, SMALL-10-5, DEMO-30-15", preset)
	}
	params, err := core.GetParams(config.Preset)
	if err != nil {
		return config, err
	}
	config.Params = params

	custom, err := parseCustomParams(args)
	if err != nil {
		return config, err
	}
	if custom != nil {
		config.Preset = ""
		config.Params = *custom
	}

	format := getArg(args, "--format", "-f")
	if format == "" {
		format = os.Getenv(EnvFormat)
	}
	switch format {
	case "hex":
		config.OutputFormat = FormatHex
	case "base64":
		config.OutputFormat = FormatBase64
	case "":
	default:
		return config, fmt.Errorf("invalid format '%s'. Must be one of: hex, base64", format)
	}

	config.OutputFile = getArg(args, "--output", "-o")
	config.InputFile = getArg(args, "--input", "-i")
	config.Verbose = hasFlag(args, "--verbose", "-v")
	config.Timing = hasFlag(args, "--timing", "")

	return config, nil
}

// parseCustomParams reads --n, --t and one of --k-chars or --k. It returns nil when
// none of them is present.
func parseCustomParams(args []string) (*mceliece.Params, error) {
	nStr := getArg(args, "--n", "")
	tStr := getArg(args, "--t", "")
	kCharsStr := getArg(args, "--k-chars", "")
	kStr := getArg(args, "--k", "")
	if nStr == "" && tStr == "" && kCharsStr == "" && kStr == "" {
		return nil, nil
	}
	if nStr == "" || tStr == "" || (kCharsStr == "") == (kStr == "") {
		return nil, errors.New("custom parameters need --n, --t and exactly one of --k-chars or --k")
	}

	var params mceliece.Params
	var err error
	if params.N, err = strconv.Atoi(nStr); err != nil {
		return nil, fmt.Errorf("invalid --n: %w", err)
	}
	if params.T, err = strconv.Atoi(tStr); err != nil {
		return nil, fmt.Errorf("invalid --t: %w", err)
	}
	if kCharsStr != "" {
		kChars, err := strconv.Atoi(kCharsStr)
		if err != nil {
			return nil, fmt.Errorf("invalid --k-chars: %w", err)
		}
		params.K = alpha27.BitsPerChar * kChars
	} else if params.K, err = strconv.Atoi(kStr); err != nil {
		return nil, fmt.Errorf("invalid --k: %w", err)
	}

	if err := core.ValidateParams(params); err != nil {
		return nil, err
	}
	return &params, nil
}

func getArg(args []string, long, short string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == long || (short != "" && args[i] == short) {
			return args[i+1]
		}
	}
	return ""
}

func hasFlag(args []string, long, short string) bool {
	for _, arg := range args {
		if arg == long || (short != "" && arg == short) {
			return true
		}
	}
	return false
}
