package types

// JSONRPCRequest represents a JSON-RPC 2.0 request
type JSONRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

// NewJSONRPCRequest builds a request envelope with the fixed protocol version.
func NewJSONRPCRequest(method string, params []any) JSONRPCRequest {
	if params == nil {
		params = []any{}
	}
	return JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	}
}
