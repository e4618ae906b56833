package stego

// Layout constants of the embedding scheme. These are a bit-for-bit
// compatibility contract with the external watermark embedder, not tunables.
const (
	// PatchSize is the edge length of the averaged luma blocks.
	PatchSize = 16

	// SignatureLength is the RSA-2048 signature size in bytes.
	SignatureLength = 256

	// RowsPerSignatureByte is the number of raw luma rows summed per
	// signature byte, walked column-major through the left region.
	RowsPerSignatureByte = 5

	// IDDigits is the number of decimal digits in a creator ID.
	IDDigits = 9

	// DigitRepetitions is how many consecutive right-side values repeat
	// each ID digit for majority voting.
	DigitRepetitions = 7

	// MaxMessageLength caps how many right-side values feed the signed
	// message.
	MaxMessageLength = 100
)
