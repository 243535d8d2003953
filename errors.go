package gf2mceliece

import "errors"

// Sentinel errors for errors.Is() checks. Operations wrap them with context.
var (
	// ErrInvalidDimensions is returned when a matrix shape violates a precondition,
	// such as a full-rank request with rows > cols.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrInvalidParameters is returned for malformed (n, k, t) values.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrShapeMismatch is returned when matrix operands have incompatible shapes.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrSingularMatrix is returned when inversion is attempted on a singular matrix.
	ErrSingularMatrix = errors.New("matrix is singular over GF(2)")

	// ErrInvalidMessageLength is returned when a message vector is not k bits long.
	ErrInvalidMessageLength = errors.New("invalid message length")

	// ErrInvalidCiphertextLength is returned when a ciphertext vector is not n bits long.
	ErrInvalidCiphertextLength = errors.New("invalid ciphertext length")

	// ErrInvalidSymbol is returned for a vector entry outside {0,1} or a character
	// outside the 27-symbol alphabet.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrRetryBudgetExceeded is returned when rejection sampling does not converge
	// within its attempt limit.
	ErrRetryBudgetExceeded = errors.New("retry budget exceeded")

	// ErrEmptyPlaintext is returned when a text message has no characters.
	ErrEmptyPlaintext = errors.New("plaintext must not be empty")

	// ErrMalformedData is returned when serialized keys or ciphertexts cannot be parsed.
	ErrMalformedData = errors.New("malformed data")
)
