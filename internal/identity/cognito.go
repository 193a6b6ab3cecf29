package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ciptypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"github.com/intrale/platform-sub000/internal/env"
)

// CognitoProvider implements Provider against an AWS Cognito user pool.
type CognitoProvider struct {
	svc        *cognitoidentityprovider.Client
	userPoolID string
}

func NewCognitoProvider(ctx context.Context) (*CognitoProvider, error) {
	region := env.Get(env.AWSRegion)
	credOne := env.Get(env.AWSID)
	credTwo := env.Get(env.AWSSecret)
	credThree := env.Get(env.AWSToken)

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	if credOne != "" && credTwo != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(credOne, credTwo, credThree)),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &CognitoProvider{
		svc:        cognitoidentityprovider.NewFromConfig(cfg),
		userPoolID: env.Get(env.CognitoUserPoolID),
	}, nil
}

func (p *CognitoProvider) LookupEmail(ctx context.Context, accessToken string) (string, error) {
	out, err := p.svc.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return "", fmt.Errorf("cognito get user: %w", err)
	}

	for _, attr := range out.UserAttributes {
		if aws.ToString(attr.Name) == "email" {
			return aws.ToString(attr.Value), nil
		}
	}
	return aws.ToString(out.Username), nil
}

func (p *CognitoProvider) CreateAccount(ctx context.Context, email string) error {
	_, err := p.svc.AdminCreateUser(ctx, &cognitoidentityprovider.AdminCreateUserInput{
		UserPoolId: aws.String(p.userPoolID),
		Username:   aws.String(email),
		UserAttributes: []ciptypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("email_verified"), Value: aws.String("true")},
		},
	})
	if err != nil {
		var exists *ciptypes.UsernameExistsException
		if errors.As(err, &exists) {
			return ErrAccountExists
		}
		return fmt.Errorf("cognito create user: %w", err)
	}
	return nil
}
