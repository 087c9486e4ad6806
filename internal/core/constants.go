package core

import "time"

// Resolution cache constants. The detailed slot carries a distinct suffix so
// the two verbosity modes never collide.
const (
	ModelsCacheKeyBase     = "modelsConfig"
	ModelsCacheKeyDetailed = ModelsCacheKeyBase + ":withDetails"
	ModelsCacheTTL         = 30 * time.Minute
)

// FetchKeySeparator joins resolved baseURL and apiKey into a fetch key.
// A newline cannot appear in either component.
const FetchKeySeparator = "\n"

// UserProvidedSentinel marks a configured value as supplied per user at
// request time. Such endpoints never take the shared fetch path.
const UserProvidedSentinel = "user_provided"

// HTTP client config constants
const (
	HTTPMaxIdleConns          = 500
	HTTPMaxIdleConnsPerHost   = 100
	HTTPMaxConnsPerHost       = 200
	HTTPIdleConnTimeout       = 600 * time.Second
	HTTPTLSHandshakeTimeout   = 30 * time.Second
	HTTPResponseHeaderTimeout = 30 * time.Second
	HTTPExpectContinueTimeout = 5 * time.Second
	HTTPRequestTimeout        = 2 * time.Minute
	FetchRequestTimeout       = 15 * time.Second
)

// Cache config constants
const (
	CacheDefaultCapacity = 1000
	CacheCleanupInterval = 5 * time.Minute
)

// Stats and monitoring constants
const (
	StatsFilePath        = "stats.json"
	MinSaveInterval      = 5 * time.Second
	HistoryBufferSize    = 1000
	HistoryBatchSize     = 100
	HistoryFlushInterval = 100 * time.Millisecond
)

// Server defaults
const (
	DefaultPort                = "8000"
	DefaultGinMode             = "release"
	DefaultEndpointsConfigPath = "endpoints.json"
	DefaultModelsPath          = "models.json"
)

// OpenAI-compatible response constants
const (
	ModelObjectType = "model"
	ModelListObject = "list"
)

// HTTP header constants
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXAPIKey       = "x-api-key"
	HeaderRequestID     = "X-Request-Id"
	ContentTypeJSON     = "application/json"
	AuthBearerPrefix    = "Bearer "
	CORSMaxAge          = "86400"
)

// Response body size limits
const (
	MaxResponseBodySize = 10 * 1024 * 1024
)

// Logging config constants
const (
	MaxDebugFilePathLength = 260
)

// File permission constants
const (
	FilePermissionReadWrite = 0644
)

// Time format constants
const (
	TimeFormatDateTime = "2006-01-02 15:04:05"
)
