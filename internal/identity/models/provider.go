package models

import (
	dErrors "bookline/pkg/domain-errors"
)

// Provider is the closed set of OAuth providers the identity layer implements.
type Provider string

const (
	ProviderKakao  Provider = "kakao"
	ProviderGoogle Provider = "google"
	ProviderNaver  Provider = "naver"
)

// providerAliases maps the broader names accepted at the transport layer onto
// the providers the identity layer implements. The mock flow ignores provider
// identity anyway, so aliases collapse onto the same behavior.
var providerAliases = map[string]Provider{
	"kakao":  ProviderKakao,
	"google": ProviderGoogle,
	"naver":  ProviderNaver,
	"github": ProviderGoogle,
	"azure":  ProviderGoogle,
}

// ParseProvider resolves a provider name or alias to a canonical Provider.
func ParseProvider(name string) (Provider, error) {
	if p, ok := providerAliases[name]; ok {
		return p, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown oauth provider: "+name)
}

// IsValid reports whether the provider is one of the canonical values.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderKakao, ProviderGoogle, ProviderNaver:
		return true
	}
	return false
}

func (p Provider) String() string {
	return string(p)
}
