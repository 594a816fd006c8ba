package config

// Environment variable names read by FromEnv.
const (
	EnvHFToken        = "HUGGINGFACEHUB_API_TOKEN"
	EnvModelID        = "MODEL_ID"
	EnvEmbeddingModel = "EMBEDDING_MODEL"
	EnvTopK           = "TOP_K"
	EnvChunkSize      = "CHUNK_SIZE"
	EnvChunkOverlap   = "CHUNK_OVERLAP"
	EnvMaxTokens      = "MAX_TOKENS"
	EnvTemperature    = "TEMPERATURE"
	EnvDataDir        = "DATA_DIR"
	EnvVectorDir      = "VECTOR_DIR"
	EnvLogFile        = "LOG_FILE"
	EnvLogLevel       = "LOG_LEVEL"
	EnvEnableOCR      = "ENABLE_OCR"
)

// Default values applied when a variable is absent or malformed.
const (
	DefaultModelID        = "mistralai/Mistral-7B-Instruct-v0.2"
	DefaultEmbeddingModel = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultTopK           = 5
	DefaultChunkSize      = 1000
	DefaultChunkOverlap   = 200
	DefaultMaxTokens      = 512
	DefaultTemperature    = 0.1
	DefaultDataDir        = "data"
	DefaultVectorDir      = "vectorstore"
	DefaultLogFile        = "logs/app.log"
	DefaultLogLevel       = "INFO"
	DefaultEnableOCR      = false
)

// DefaultEnvFile is the local environment-definition file merged by Load.
const DefaultEnvFile = ".env"
