package casm

// DecodeOption configures class decoding.
type DecodeOption func(*decodeConfig)

// EstimateOption configures class hash cost estimation.
type EstimateOption func(*estimateConfig)

// decodeConfig holds configuration for the wire decoders.
type decodeConfig struct {
	strictPrime            bool
	defaultCompilerVersion string
	legacyConverter        LegacyProgramConverter
}

// defaultDecodeConfig returns the default decode configuration.
func defaultDecodeConfig() *decodeConfig {
	return &decodeConfig{
		strictPrime:     true,
		legacyConverter: DefaultLegacyConverter{},
	}
}

func newDecodeConfig(opts []DecodeOption) *decodeConfig {
	c := defaultDecodeConfig()
	for _, opt := range opts {
		opt(c)
	}
	if conv, ok := c.legacyConverter.(DefaultLegacyConverter); ok {
		conv.AllowForeignPrime = !c.strictPrime
		c.legacyConverter = conv
	}
	return c
}

// WithStrictPrime enables or disables the check that a class's declared prime
// is the Stark field prime. Enabled by default. It applies to legacy classes
// too when they are decoded with DefaultLegacyConverter; a custom converter
// makes its own choice.
func WithStrictPrime(enabled bool) DecodeOption {
	return func(c *decodeConfig) {
		c.strictPrime = enabled
	}
}

// WithDefaultCompilerVersion sets the version assumed when the compiler_version
// field is missing altogether. A present but malformed version is still fatal.
func WithDefaultCompilerVersion(version string) DecodeOption {
	return func(c *decodeConfig) {
		c.defaultCompilerVersion = version
	}
}

// WithLegacyConverter sets the converter used to turn legacy programs into
// runnable programs. Default is DefaultLegacyConverter.
func WithLegacyConverter(converter LegacyProgramConverter) DecodeOption {
	return func(c *decodeConfig) {
		if converter != nil {
			c.legacyConverter = converter
		}
	}
}

// estimateConfig holds configuration for cost estimation.
type estimateConfig struct {
	poseidonCost func(length int) ExecutionResources
}

func newEstimateConfig(opts []EstimateOption) *estimateConfig {
	c := &estimateConfig{poseidonCost: PoseidonHashManyCost}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithPoseidonCost overrides the cost model for hashing a run of field
// elements with poseidon_hash_many. The function must be non-decreasing in length.
func WithPoseidonCost(cost func(length int) ExecutionResources) EstimateOption {
	return func(c *estimateConfig) {
		if cost != nil {
			c.poseidonCost = cost
		}
	}
}
