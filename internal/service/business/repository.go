package business

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/intrale/platform-sub000/internal/database"
	"github.com/intrale/platform-sub000/internal/model"
)

type Repository interface {
	GetBusiness(ctx context.Context, publicID string) (model.BusinessItem, bool, error)
	PutBusiness(ctx context.Context, item model.BusinessItem) error
	// UpdateAutoAccept mutates only the autoAcceptDeliveries field; every
	// other write is a full-row put.
	UpdateAutoAccept(ctx context.Context, publicID string, enabled bool) error
	ListBusinesses(ctx context.Context) ([]model.BusinessItem, error)
	ListByStatus(ctx context.Context, status model.State) ([]model.BusinessItem, error)
}

type DynamoRepository struct {
	db *database.Database
}

func NewDynamoRepository(db *database.Database) Repository {
	return &DynamoRepository{db: db}
}

func (r *DynamoRepository) GetBusiness(ctx context.Context, publicID string) (model.BusinessItem, bool, error) {
	var item model.BusinessItem
	err := r.db.Client.GetItem(
		ctx,
		model.BusinessesTable,
		map[string]types.AttributeValue{
			"publicId": &types.AttributeValueMemberS{Value: publicID},
		},
		&item,
	)
	if err != nil {
		if isNotFoundError(err) {
			return model.BusinessItem{}, false, nil
		}
		return model.BusinessItem{}, false, err
	}
	return item, true, nil
}

func (r *DynamoRepository) PutBusiness(ctx context.Context, item model.BusinessItem) error {
	return r.db.Client.PutItem(ctx, model.BusinessesTable, item)
}

func (r *DynamoRepository) UpdateAutoAccept(ctx context.Context, publicID string, enabled bool) error {
	return r.db.Client.UpdateItem(
		ctx,
		model.BusinessesTable,
		map[string]types.AttributeValue{
			"publicId": &types.AttributeValueMemberS{Value: publicID},
		},
		"SET autoAcceptDeliveries = :enabled",
		map[string]types.AttributeValue{
			":enabled": &types.AttributeValueMemberBOOL{Value: enabled},
		},
		nil,
		nil,
	)
}

func (r *DynamoRepository) ListBusinesses(ctx context.Context) ([]model.BusinessItem, error) {
	items, err := r.db.Client.ScanAll(ctx, model.BusinessesTable)
	if err != nil {
		return nil, err
	}
	return unmarshalBusinesses(items)
}

func (r *DynamoRepository) ListByStatus(ctx context.Context, status model.State) ([]model.BusinessItem, error) {
	items, err := r.db.Client.ScanAllWithFilter(
		ctx,
		model.BusinessesTable,
		"#status = :status",
		map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
		map[string]string{
			"#status": "status",
		},
	)
	if err != nil {
		return nil, err
	}
	return unmarshalBusinesses(items)
}

func unmarshalBusinesses(items []map[string]types.AttributeValue) ([]model.BusinessItem, error) {
	businesses := make([]model.BusinessItem, 0, len(items))
	for _, item := range items {
		var business model.BusinessItem
		if err := attributevalue.UnmarshalMap(item, &business); err != nil {
			return nil, err
		}
		businesses = append(businesses, business)
	}
	return businesses, nil
}

func isNotFoundError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "item not found")
}
