package common

// AppName - Application name.
const AppName = "analisador-mac"

// AppVersion - Application version.
const AppVersion = "1.2.0"

// AppAuthor - Application author.
const AppAuthor = "usuario9410"

// PrometheusNamespace - Prometheus metrics namespace.
const PrometheusNamespace = "analisador"
