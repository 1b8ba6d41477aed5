// Package awsfetch is a sidecache.Source that talks to AWS directly with the
// SDK instead of going through the sidecar. Use it where no sidecar runs
// (local development, non-Lambda workers) — the cache semantics stay the
// same, only the fetch path changes.
package awsfetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/smithy-go"

	"github.com/unkn0wn-root/sidecache"
)

var (
	// ErrNotFound is returned when the parameter or secret does not exist.
	ErrNotFound = errors.New("awsfetch: resource not found")

	// ErrAccessDenied is returned when the caller's credentials lack the
	// ssm:GetParameter / secretsmanager:GetSecretValue (plus kms:Decrypt)
	// permissions for the requested resource.
	ErrAccessDenied = errors.New("awsfetch: access denied")
)

// SSMAPI is the subset of the SSM client used to fetch parameters.
type SSMAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SecretsAPI is the subset of the Secrets Manager client used to fetch
// secret values.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Source fetches parameters via SSM and secrets via Secrets Manager.
type Source struct {
	ssm     SSMAPI
	secrets SecretsAPI
	log     sidecache.Logger
}

var _ sidecache.Source = (*Source)(nil)

// New loads the default AWS configuration and builds a Source from it.
func New(ctx context.Context, log sidecache.Logger) (*Source, error) {
	if ctx == nil {
		return nil, fmt.Errorf("awsfetch: context cannot be nil")
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("awsfetch: load AWS config: %w", err)
	}
	return NewWithClients(ssm.NewFromConfig(cfg), secretsmanager.NewFromConfig(cfg), log), nil
}

// NewWithClients builds a Source from pre-configured clients. Useful for
// custom endpoints and for tests.
func NewWithClients(ssmAPI SSMAPI, secretsAPI SecretsAPI, log sidecache.Logger) *Source {
	if log == nil {
		log = sidecache.NopLogger{}
	}
	s := &Source{ssm: ssmAPI, secrets: secretsAPI, log: log}
	s.log.Debug("awsfetch: direct SDK source ready", nil)
	return s
}

// Fetch issues one SDK call for the named value. SDK-level retries are left
// on their defaults; the cache's own 3-attempt loop sits above this.
func (s *Source) Fetch(ctx context.Context, kind sidecache.Kind, name string) (*sidecache.Payload, error) {
	switch kind {
	case sidecache.Parameter:
		return s.fetchParameter(ctx, name)
	case sidecache.Secret:
		return s.fetchSecret(ctx, name)
	}
	return nil, fmt.Errorf("awsfetch: unknown kind %q", kind)
}

func (s *Source) fetchParameter(ctx context.Context, name string) (*sidecache.Payload, error) {
	out, err := s.ssm.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, mapErr("parameter", name, err)
	}
	if out.Parameter == nil {
		return nil, fmt.Errorf("%w: parameter %q", ErrNotFound, name)
	}
	return &sidecache.Payload{
		Parameter: &sidecache.ParameterData{
			ARN:     aws.ToString(out.Parameter.ARN),
			Name:    aws.ToString(out.Parameter.Name),
			Type:    string(out.Parameter.Type),
			Value:   out.Parameter.Value,
			Version: out.Parameter.Version,
		},
	}, nil
}

func (s *Source) fetchSecret(ctx context.Context, name string) (*sidecache.Payload, error) {
	out, err := s.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return nil, mapErr("secret", name, err)
	}
	return &sidecache.Payload{
		SecretString: out.SecretString,
		ARN:          aws.ToString(out.ARN),
		Name:         aws.ToString(out.Name),
		VersionID:    aws.ToString(out.VersionId),
	}, nil
}

// mapErr folds AWS API errors into the package sentinels so callers can use
// errors.Is without importing smithy. Error messages carry the resource name
// only, never a value.
func mapErr(what, name string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException", "ParameterNotFound":
			return fmt.Errorf("%w: %s %q", ErrNotFound, what, name)
		case "AccessDeniedException", "UnauthorizedOperation":
			return fmt.Errorf("%w: %s %q", ErrAccessDenied, what, name)
		}
	}
	return fmt.Errorf("awsfetch: get %s %q: %w", what, name, err)
}
