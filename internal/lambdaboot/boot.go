// Package lambdaboot holds the cold-start steps shared by every Lambda:
// AWS config, SSM secret resolution, object-storage client construction,
// and the startup log event.
package lambdaboot

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fpang/seo-content-helper/internal/config"
	"github.com/fpang/seo-content-helper/internal/logging"
)

// AWSClients holds the core AWS SDK clients used at cold start.
type AWSClients struct {
	Config aws.Config
	SSM    *ssm.Client
}

// InitAWS loads the default AWS config. Fatals when the config cannot load.
func InitAWS() AWSClients {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return AWSClients{
		Config: cfg,
		SSM:    ssm.NewFromConfig(cfg),
	}
}

// Secret describes one credential that may live in SSM Parameter Store.
type Secret struct {
	// EnvVar receives the value; it is left alone when already set.
	EnvVar string
	// ParamEnvVar names the variable overriding DefaultParam.
	ParamEnvVar  string
	DefaultParam string
}

// Path returns the SSM parameter path for s.
func (s Secret) Path() string {
	return logging.EnvOrDefault(s.ParamEnvVar, s.DefaultParam)
}

// Known secrets.
var (
	OpenAIKey = Secret{EnvVar: "OPENAI_API_KEY", ParamEnvVar: "SSM_OPENAI_KEY_PARAM", DefaultParam: "/seo-content/prod/openai-api-key"}
	RunwayKey = Secret{EnvVar: "RUNWAY_API_KEY", ParamEnvVar: "SSM_RUNWAY_KEY_PARAM", DefaultParam: "/seo-content/prod/runway-api-key"}
	GeminiKey = Secret{EnvVar: "GEMINI_API_KEY", ParamEnvVar: "SSM_GEMINI_KEY_PARAM", DefaultParam: "/seo-content/prod/gemini-api-key"}

	StorageKeyID  = Secret{EnvVar: "S3_ACCESS_KEY_ID", ParamEnvVar: "SSM_S3_KEY_ID_PARAM", DefaultParam: "/seo-content/prod/s3-access-key-id"}
	StorageSecret = Secret{EnvVar: "S3_SECRET_ACCESS_KEY", ParamEnvVar: "SSM_S3_SECRET_PARAM", DefaultParam: "/seo-content/prod/s3-secret-access-key"}
)

// ParameterGetter is the subset of the SSM client used to resolve secrets.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// LoadSecrets copies each unset secret from SSM into the environment so
// config.Load picks it up. Failures are logged and skipped: every
// credential is optional and its absence only disables a feature.
func LoadSecrets(ctx context.Context, client ParameterGetter, secrets ...Secret) {
	for _, s := range secrets {
		if os.Getenv(s.EnvVar) != "" {
			continue
		}
		path := s.Path()
		start := time.Now()
		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(path),
			WithDecryption: aws.Bool(true),
		})
		if err != nil || out.Parameter == nil || out.Parameter.Value == nil {
			log.Warn().Err(err).Str("param", path).Str("envVar", s.EnvVar).Msg("Secret not available from SSM, feature disabled")
			continue
		}
		os.Setenv(s.EnvVar, *out.Parameter.Value)
		log.Debug().Str("param", path).Dur("elapsed", time.Since(start)).Msg("Secret loaded from SSM")
	}
}

// InitStorage builds an S3 client for the configured S3-compatible
// endpoint using the static storage credentials. Returns nil when the
// credentials are absent; callers then keep provider URLs as-is.
func InitStorage(ctx context.Context, cfg config.StorageConfig) *s3.Client {
	if !cfg.Enabled() {
		log.Warn().Msg("Storage credentials not configured, media re-upload disabled")
		return nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build storage config, media re-upload disabled")
		return nil
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})
}

// LoadConfig loads the runtime config and applies its log level. Fatals on
// invalid configuration.
func LoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	zerolog.SetGlobalLevel(logging.ParseLevel(cfg.LogLevel))
	return cfg
}

// StartupLog starts a startup logger with the init duration filled in.
func StartupLog(name string, initStart time.Time) *logging.StartupLogger {
	return logging.NewStartupLogger(name).InitDuration(time.Since(initStart))
}
