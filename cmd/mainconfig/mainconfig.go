package mainconfig

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	appconfig "github.com/leoman8109754gmailcom/mcm-cleaning/internal/config"
	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/contact"
	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/notify"
	"github.com/leoman8109754gmailcom/mcm-cleaning/pkg/logging"
	"github.com/redis/go-redis/v9"
)

// LoadAWSConfig centralizes AWS SDK initialization so both binaries share the
// same LocalStack/production wiring.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return aws.Config{}, err
	}

	if endpoint := cfg.AWSEndpointOverride; endpoint != "" {
		awsCfg.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc(
			func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
				switch service {
				case sesv2.ServiceID:
					return aws.Endpoint{
						URL:           endpoint,
						PartitionID:   "aws",
						SigningRegion: cfg.AWSRegion,
					}, nil
				default:
					return aws.Endpoint{}, &aws.EndpointNotFoundError{}
				}
			},
		)
	}

	return awsCfg, nil
}

// NewEmailSender builds the sender for EMAIL_PROVIDER. It returns nil when the
// provider's credentials are absent; the relay then rejects submissions with
// a configuration error instead of failing at send time.
func NewEmailSender(ctx context.Context, cfg *appconfig.Config, observer notify.SendObserver, logger *logging.Logger) (notify.EmailSender, error) {
	if logger == nil {
		logger = logging.Default()
	}
	relayCfg := cfg.Contact()

	var sender notify.EmailSender
	switch relayCfg.ProviderName() {
	case contact.ProviderMailgun:
		if mg := notify.NewMailgunSender(notify.MailgunConfig{
			APIKey:    relayCfg.APIKey,
			Domain:    relayCfg.Domain,
			FromEmail: relayCfg.From,
			APIBase:   relayCfg.APIBase,
		}, logger); mg != nil {
			sender = mg
		}
	case contact.ProviderSendGrid:
		if sg := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    relayCfg.APIKey,
			FromEmail: relayCfg.From,
		}, logger); sg != nil {
			sender = sg
		}
	case contact.ProviderSES:
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("mainconfig: load aws config: %w", err)
		}
		sender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{FromEmail: relayCfg.From}, logger)
	case contact.ProviderStub:
		sender = notify.NewStubEmailSender(logger)
	default:
		logger.Error("unknown email provider", "provider", relayCfg.Provider)
		return nil, nil
	}

	if sender == nil {
		logger.Warn("email provider credentials missing", "provider", relayCfg.ProviderName())
		return nil, nil
	}
	logger.Info("email sender configured", "provider", sender.Name())
	return notify.Instrumented(sender, observer), nil
}

// BuildRedisClient returns nil when no address is configured or the server is
// unreachable; callers run without the content cache in that case.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, content cache disabled", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}
