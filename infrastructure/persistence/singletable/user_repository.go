package singletable

import (
	"context"
	"errors"
	"fmt"

	"recurring-orders/application/ports"
	"recurring-orders/domain/core/entities"
	"recurring-orders/domain/core/valueobjects"
	"recurring-orders/domain/keys"
	"recurring-orders/infrastructure/persistence/abstractions"
	pkgerrors "recurring-orders/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"
)

type userItem struct {
	HashKey       string `dynamodbav:"hash_key"`
	RangeKey      string `dynamodbav:"range_key"`
	FirstName     string `dynamodbav:"first_name,omitempty"`
	LastName      string `dynamodbav:"last_name,omitempty"`
	AccountNumber string `dynamodbav:"account_number,omitempty"`
	RoutingNumber string `dynamodbav:"routing_number,omitempty"`
}

// UserRepository stores the details record of each user
type UserRepository struct {
	store  abstractions.ItemStore
	schema UserSchema
	logger *zap.Logger
}

var _ ports.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new repository over store
func NewUserRepository(store abstractions.ItemStore, tableName string, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		store:  store,
		schema: UserSchema{Table: tableName},
		logger: logger,
	}
}

// Save creates the user's details record. A second save for the same id is a conflict.
func (r *UserRepository) Save(ctx context.Context, user *entities.User) error {
	if user == nil {
		return pkgerrors.NewValidationError("user is required")
	}

	stored := userItem{
		HashKey:  r.schema.PartitionKeyOf(user),
		RangeKey: r.schema.SortKeyOf(user),
	}
	if info := user.Info(); info != nil {
		stored.FirstName = info.FirstName
		stored.LastName = info.LastName
		stored.AccountNumber = info.AccountNumber
		stored.RoutingNumber = info.RoutingNumber
	}

	item, err := attributevalue.MarshalMap(stored)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal user").WithCause(err)
	}

	err = r.store.PutItem(ctx, r.schema.TableName(), item, abstractions.PutOptions{IfNotExists: true})
	if errors.Is(err, abstractions.ErrConditionFailed) {
		return pkgerrors.NewConflictError(fmt.Sprintf("user %s already exists", user.ID()))
	}
	if err != nil {
		return pkgerrors.NewStoreUnavailableError("save user", err)
	}

	r.logger.Info("User saved", zap.String("hashKey", stored.HashKey))
	return nil
}

// Get loads the user's details record
func (r *UserRepository) Get(ctx context.Context, userID string) (*entities.User, error) {
	id, err := valueobjects.NewUserID(userID)
	if err != nil {
		return nil, err
	}

	item, err := r.store.GetItem(ctx, r.schema.TableName(), abstractions.Key{
		HashKey:  keys.UserPartitionKey(id.String()),
		RangeKey: keys.UserSortKey,
	})
	if err != nil {
		return nil, pkgerrors.NewStoreUnavailableError("get user", err)
	}
	if item == nil {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("user %s", id))
	}

	var stored userItem
	if err := attributevalue.UnmarshalMap(item, &stored); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal user").WithCause(err)
	}

	info := &entities.UserInfo{
		FirstName:     stored.FirstName,
		LastName:      stored.LastName,
		AccountNumber: stored.AccountNumber,
		RoutingNumber: stored.RoutingNumber,
	}
	if *info == (entities.UserInfo{}) {
		info = nil
	}

	return entities.NewUser(stored.HashKey, info)
}
