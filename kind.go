package sidecache

import "net/url"

// Kind selects the wire shape of an entry. The two kinds differ only in the
// sidecar path they request and the payload field they expect; everything
// else about an Entry behaves identically.
type Kind uint8

const (
	// Parameter is an SSM Parameter Store value.
	Parameter Kind = iota
	// Secret is a Secrets Manager secret.
	Secret
)

func (k Kind) String() string {
	switch k {
	case Parameter:
		return "parameter"
	case Secret:
		return "secret"
	}
	return "unknown"
}

// Path builds the sidecar request path for the named value. The name is
// percent-encoded as a query component.
func (k Kind) Path(name string) string {
	q := url.QueryEscape(name)
	switch k {
	case Parameter:
		return "/systemsmanager/parameters/get/?name=" + q + "&withDecryption=true"
	case Secret:
		return "/secretsmanager/get?secretId=" + q + "&withDecryption=true"
	}
	return ""
}

// decode extracts the decoded scalar from a payload per kind. ok is false
// when the payload does not carry the field this kind expects.
func (k Kind) decode(p *Payload) (string, bool) {
	if p == nil {
		return "", false
	}
	switch k {
	case Parameter:
		if p.Parameter != nil && p.Parameter.Value != nil {
			return *p.Parameter.Value, true
		}
	case Secret:
		if p.SecretString != nil {
			return *p.SecretString, true
		}
	}
	return "", false
}

// valid reports whether the payload carries the field this kind expects.
// Shape is the discriminator here, not the payload's origin: a fetch can
// complete (StatusFresh) and still be invalid for its kind.
func (k Kind) valid(p *Payload) bool {
	_, ok := k.decode(p)
	return ok
}
