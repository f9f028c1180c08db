package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/qrregistry/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "QRREG_"

// parseEnv overlays QRREG_* environment variables. When -env names a dotenv
// file it is loaded first; variables already set in the process win over the
// file. A missing dotenv file or a malformed number or duration panics.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlag(os.Args[1:]); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	}

	envString(&config.HTTPAddr, "HTTP_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_TTL")
	envDuration(&config.RefreshTokenValidityDuration, "REFRESH_TOKEN_TTL")
	envString(&config.PublicOrigin, "PUBLIC_ORIGIN")
	if v, ok := os.LookupEnv(envPrefix + "ADMIN_EMAILS"); ok {
		config.AdminEmails = splitList(v)
	}
	envString(&config.LogBackend, "LOG_BACKEND")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	if v, ok := os.LookupEnv(envPrefix + "QR_IMAGE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.QRImageSize = n
	}
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
