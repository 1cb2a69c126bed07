package customHttpClient

import (
	"net/http"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
)

// shared by the llm and embedding clients so generation retries reuse connections
var customTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
	TLSHandshakeTimeout: 10 * time.Second,
}

var pooledClient = &http.Client{
	Transport: customTransport,
}

func GetClient() *http.Client {
	return pooledClient
}
