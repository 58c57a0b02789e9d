package provider

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/seenimoa/fingateway/internal/infra"
	"github.com/seenimoa/fingateway/pkg/models"
)

// BaseProvider provides the bookkeeping shared by concrete providers:
// metadata, credentials, supported kinds, and the upstream HTTP client.
// Embed it and implement FetchRaw, Classify and Normalize.
type BaseProvider struct {
	info        ProviderInfo
	kinds       map[models.StatementKind]bool
	credentials map[string]string
	baseURL     string
	client      *infra.Client
	logger      *zap.Logger
}

// NewBaseProvider creates a base provider. defaultURL is used unless
// opts.BaseURL is set.
func NewBaseProvider(info ProviderInfo, defaultURL string, opts Options) BaseProvider {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("provider", info.Name))

	baseURL := defaultURL
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}

	kinds := make(map[models.StatementKind]bool, len(info.Kinds))
	for _, k := range info.Kinds {
		kinds[k] = true
	}

	return BaseProvider{
		info:        info,
		kinds:       kinds,
		credentials: make(map[string]string),
		baseURL:     baseURL,
		client:      infra.NewClient(opts.HTTPClient, logger),
		logger:      logger,
	}
}

func (bp *BaseProvider) Info() ProviderInfo { return bp.info }

func (bp *BaseProvider) Init(credentials map[string]string) error {
	bp.credentials = make(map[string]string, len(credentials))
	for k, v := range credentials {
		bp.credentials[k] = v
	}
	for _, cred := range bp.info.Credentials {
		if cred.Required && bp.credentials[cred.Name] == "" {
			return &ErrInvalidCredentials{
				Provider: bp.info.Name,
				Detail:   "missing required credential: " + cred.Name,
			}
		}
	}
	return nil
}

func (bp *BaseProvider) Supports(kind models.StatementKind) bool {
	return bp.kinds[kind]
}

// SupportedKinds returns the supported kinds in a stable order.
func (bp *BaseProvider) SupportedKinds() []models.StatementKind {
	kinds := make([]models.StatementKind, 0, len(bp.kinds))
	for k := range bp.kinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func (bp *BaseProvider) Ping(ctx context.Context) error {
	return nil // Override in concrete providers.
}

// Credential returns a stored credential value.
func (bp *BaseProvider) Credential(name string) string {
	return bp.credentials[name]
}

// BaseURL returns the upstream endpoint in use.
func (bp *BaseProvider) BaseURL() string { return bp.baseURL }

// Client returns the upstream HTTP client.
func (bp *BaseProvider) Client() *infra.Client { return bp.client }

// Logger returns the provider-scoped logger.
func (bp *BaseProvider) Logger() *zap.Logger { return bp.logger }
