package config

import "time"

type S3 struct {
	Region          string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKey       string `env:"S3_ACCESS_KEY"`
	SecretKey       string `env:"S3_SECRET_KEY"`
	Endpoint        string `env:"S3_ENDPOINT"`
	PresignTTLInMin int    `env:"S3_PRESIGN_TTL_IN_MIN" envDefault:"15"`
}

// Enabled reports whether s3:// reference images can be presigned.
func (s S3) Enabled() bool {
	return s.AccessKey != "" && s.SecretKey != ""
}

func (s S3) PresignTTL() time.Duration {
	return time.Duration(s.PresignTTLInMin) * time.Minute
}
