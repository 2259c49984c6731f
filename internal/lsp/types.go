package lsp

import "encoding/json"

// Methods the client sends.
const (
	MethodInitialize     = "initialize"
	MethodInitialized    = "initialized"
	MethodShutdown       = "shutdown"
	MethodExit           = "exit"
	MethodExecuteCommand = "workspace/executeCommand"
)

// Methods the server sends that the client renders.
const (
	MethodShowMessage = "window/showMessage"
	MethodLogMessage  = "window/logMessage"
)

// InitializeParams is the subset of LSP initialize parameters the mdbase
// backend reads: it takes its collection root from workspaceFolders, falling
// back to rootUri.
type InitializeParams struct {
	ProcessID        *int              `json:"processId"`
	RootURI          string            `json:"rootUri,omitempty"`
	Capabilities     struct{}          `json:"capabilities"`
	WorkspaceFolders []WorkspaceFolder `json:"workspaceFolders,omitempty"`
}

// WorkspaceFolder names one open project root.
type WorkspaceFolder struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// InitializeResult carries the capabilities the backend advertised. The
// client only inspects the supported command list.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}

// ServerCapabilities is the subset of capabilities the client cares about.
type ServerCapabilities struct {
	ExecuteCommandProvider *ExecuteCommandOptions `json:"executeCommandProvider,omitempty"`
}

// ExecuteCommandOptions lists the commands the backend will execute.
type ExecuteCommandOptions struct {
	Commands []string `json:"commands"`
}

// ExecuteCommandParams is the workspace/executeCommand payload.
type ExecuteCommandParams struct {
	Command   string `json:"command"`
	Arguments []any  `json:"arguments,omitempty"`
}

// ShowMessageParams is the window/showMessage and window/logMessage payload.
type ShowMessageParams struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

// MessageType is the LSP message severity.
type MessageType int

const (
	MessageError   MessageType = 1
	MessageWarning MessageType = 2
	MessageInfo    MessageType = 3
	MessageLog     MessageType = 4
)

// String returns the severity label used when relaying backend messages.
func (t MessageType) String() string {
	switch t {
	case MessageError:
		return "error"
	case MessageWarning:
		return "warning"
	case MessageInfo:
		return "info"
	default:
		return "log"
	}
}

// decodeParams unmarshals raw params into v, tolerating absent params.
func decodeParams(params json.RawMessage, v any) error {
	if len(params) == 0 {
		return nil
	}
	return json.Unmarshal(params, v)
}
