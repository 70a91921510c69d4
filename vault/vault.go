// Package vault loads the process-wide secret material once at startup:
// the admission-token signing secret and the payment API and webhook
// secrets. When no vault address is configured the values come straight
// from plain config, which keeps local development simple.
package vault

import (
	"fmt"

	"event-tickets-backend/config"

	"github.com/hashicorp/vault/api"
	"github.com/spf13/viper"
)

// Secrets is immutable after Load and safe to share across concurrent
// request handlers.
type Secrets struct {
	QRSecret             string
	PaymentAPIKey        string
	PaymentWebhookSecret string
}

// Load reads the secrets from the configured vault KV path, or from plain
// config when vault is not configured.
func Load() (*Secrets, error) {
	address := viper.GetString(config.VaultAddress)
	if address == "" {
		return &Secrets{
			QRSecret:             viper.GetString(config.QRSecret),
			PaymentAPIKey:        viper.GetString(config.PaymentAPIKey),
			PaymentWebhookSecret: viper.GetString(config.PaymentWebhookSecret),
		}, nil
	}

	client, err := api.NewClient(&api.Config{Address: address})
	if err != nil {
		return nil, fmt.Errorf("load: error initializing vault client: %w", err)
	}
	client.SetToken(viper.GetString(config.VaultToken))

	path := viper.GetString(config.VaultSecretPath)
	secret, err := client.Logical().Read(path)
	if err != nil {
		return nil, fmt.Errorf("load: error reading secret path %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("load: no secret data at path %s", path)
	}

	s := &Secrets{
		QRSecret:             field(secret.Data, "qr_secret"),
		PaymentAPIKey:        field(secret.Data, "payment_api_key"),
		PaymentWebhookSecret: field(secret.Data, "payment_webhook_secret"),
	}
	if s.QRSecret == "" {
		return nil, fmt.Errorf("load: qr_secret missing at path %s", path)
	}
	return s, nil
}

func field(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
