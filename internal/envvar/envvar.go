package envvar

const (
	// DigitdEnv is the environment variable used to determine the environment
	DigitdEnv = "DIGITD_ENV"

	// DigitdServerHTTPPort is the environment variable used to determine the HTTP port
	DigitdServerHTTPPort = "DIGITD_SERVER_HTTP_PORT"

	// DigitdServerGRPCPort is the environment variable used to determine the gRPC port
	DigitdServerGRPCPort = "DIGITD_SERVER_GRPC_PORT"

	// DigitdModelsPath is the environment variable used to override the models directory
	DigitdModelsPath = "DIGITD_MODELS_PATH"
)
