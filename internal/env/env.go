package env

import (
	"fmt"
	"os"
)

const (
	AWSRegion        = "AWS_REGION"
	AWSID            = "AWS_ID"
	AWSSecret        = "AWS_SECRET"
	AWSToken         = "AWS_TOKEN"
	DynamoDBEndpoint = "DYNAMODB_ENDPOINT"

	CognitoClientID   = "COGNITO_CLIENT_ID"
	CognitoUserPoolID = "COGNITO_USER_POOL_ID"
	TokenIssuer       = "TOKEN_ISSUER"
	AccessSecretKey   = "ACCESS_SECRET"

	TwoFactorIssuer  = "TWOFACTOR_ISSUER"
	TwoFactorRedis   = "TWOFACTOR_REDIS_URL"
	TwoFactorRedisPw = "TWOFACTOR_REDIS_PASS"

	PlatformBusiness = "BUSINESS_PLATFORM"
	ListenAddr       = "LISTEN_ADDR"
)

// Validate reports the first required variable that is missing. It is called
// from main rather than init so that packages importing env stay usable in
// tests.
func Validate() error {
	required := []string{
		AWSRegion,
		AccessSecretKey,
	}
	for _, key := range required {
		if os.Getenv(key) == "" {
			return fmt.Errorf("env: required environment variable not set: %s", key)
		}
	}
	return nil
}

func Get(key string) string {
	return os.Getenv(key)
}

func GetOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func MustGet(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("env: required environment variable not set: " + key)
	}
	return val
}
