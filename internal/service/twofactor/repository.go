package twofactor

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/intrale/platform-sub000/internal/database"
	"github.com/intrale/platform-sub000/internal/model"
)

var ErrNotFound = errors.New("twofactor repository: not found")

type Repository interface {
	GetSecret(ctx context.Context, email string) (model.TotpSecretItem, error)
	PutSecret(ctx context.Context, item model.TotpSecretItem) error
}

type DynamoRepository struct {
	db *database.Database
}

func NewDynamoRepository(db *database.Database) Repository {
	return &DynamoRepository{db: db}
}

func (r *DynamoRepository) GetSecret(ctx context.Context, email string) (model.TotpSecretItem, error) {
	var item model.TotpSecretItem
	err := r.db.Client.GetItem(
		ctx,
		model.TotpSecretsTable,
		map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
		&item,
	)
	if err != nil {
		if isNotFoundError(err) {
			return model.TotpSecretItem{}, ErrNotFound
		}
		return model.TotpSecretItem{}, err
	}
	return item, nil
}

func (r *DynamoRepository) PutSecret(ctx context.Context, item model.TotpSecretItem) error {
	return r.db.Client.PutItem(ctx, model.TotpSecretsTable, item)
}

func isNotFoundError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "item not found")
}
