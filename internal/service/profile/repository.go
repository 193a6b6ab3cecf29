package profile

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/intrale/platform-sub000/internal/database"
	"github.com/intrale/platform-sub000/internal/model"
)

type Repository interface {
	FindProfile(ctx context.Context, key model.ProfileKey) (model.ProfileItem, bool, error)
	PutProfile(ctx context.Context, item model.ProfileItem) error
}

type DynamoRepository struct {
	db *database.Database
}

func NewDynamoRepository(db *database.Database) Repository {
	return &DynamoRepository{db: db}
}

func (r *DynamoRepository) FindProfile(ctx context.Context, key model.ProfileKey) (model.ProfileItem, bool, error) {
	var item model.ProfileItem
	err := r.db.Client.GetItem(
		ctx,
		model.ProfilesTable,
		map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: key.PK()},
		},
		&item,
	)
	if err != nil {
		if isNotFoundError(err) {
			return model.ProfileItem{}, false, nil
		}
		return model.ProfileItem{}, false, err
	}
	return item, true, nil
}

func (r *DynamoRepository) PutProfile(ctx context.Context, item model.ProfileItem) error {
	return r.db.Client.PutItem(ctx, model.ProfilesTable, item)
}

func isNotFoundError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "item not found")
}
