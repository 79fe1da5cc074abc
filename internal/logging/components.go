package logging

// Component constants for structured logging
const (
	ComponentStartup  = "startup"
	ComponentShutdown = "shutdown"
	ComponentAPI      = "api"
	ComponentPipeline = "pipeline"
	ComponentSessions = "sessions"
	ComponentConfig   = "config"
	ComponentDecode   = "decode"
)
