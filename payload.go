package sidecache

// Payload is the parsed sidecar response. It carries both wire shapes; which
// fields are populated depends on what the source actually returned. The
// refresh loop stores payloads without inspecting them — shape is checked
// only by Entry.Valid and the per-kind decode.
type Payload struct {
	// Parameter is set on Parameter Store responses.
	Parameter *ParameterData `json:"Parameter,omitempty"`

	// SecretString and the fields below are set on Secrets Manager responses.
	SecretString *string `json:"SecretString,omitempty"`
	ARN          string  `json:"ARN,omitempty"`
	Name         string  `json:"Name,omitempty"`
	VersionID    string  `json:"VersionId,omitempty"`
}

// ParameterData mirrors the Parameter object of an SSM get response.
type ParameterData struct {
	ARN     string  `json:"ARN,omitempty"`
	Name    string  `json:"Name,omitempty"`
	Type    string  `json:"Type,omitempty"`
	Value   *string `json:"Value,omitempty"`
	Version int64   `json:"Version,omitempty"`
}
