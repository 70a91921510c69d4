package config

import (
	"github.com/spf13/viper"
)

const (
	DBURL = "database.mysql"

	Port = "server.port"

	RedisAddress  = "redis.address"
	RedisPassword = "redis.password"
	RedisDB       = "redis.db"

	VaultAddress    = "vault.address"
	VaultToken      = "vault.token"
	VaultSecretPath = "vault.secret_path"

	// Plain-config fallbacks used when no vault address is set.
	QRSecret             = "qr.secret"
	PaymentAPIKey        = "payment.api_key"
	PaymentWebhookSecret = "payment.webhook_secret"

	QRIssuer       = "qr.issuer"
	QRValidityDays = "qr.validity_days"

	PaymentAPIAddress = "payment.api_address"

	EmailServiceURL = "email.service_url"
	EmailFrom       = "email.from"
	EmailEnabled    = "email.enabled"

	IdentityIssuer          = "identity.issuer"
	IdentityAudience        = "identity.audience"
	IdentityCertsURL        = "identity.certs_url"
	IdentityOfflineInterval = "identity.offline_interval"

	FrontendBaseURL = "frontend.base_url"

	EventListCacheTTL = "cache.event_list_ttl"
)

func init() {
	viper.AutomaticEnv()
	viper.SetDefault(Port, ":9000")
	viper.SetDefault(QRIssuer, "fbcpittsfield")
	viper.SetDefault(QRValidityDays, 365)
	viper.SetDefault(PaymentAPIAddress, "https://api.stripe.com")
	viper.SetDefault(IdentityOfflineInterval, 120)
	viper.SetDefault(EventListCacheTTL, 60)
}
