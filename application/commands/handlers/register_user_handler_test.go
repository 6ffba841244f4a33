package handlers

import (
	"context"
	"testing"

	"recurring-orders/application/commands"
	"recurring-orders/domain/core/entities"
	pkgerrors "recurring-orders/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterUserHandler_Handle(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	info := &entities.UserInfo{FirstName: "Ada"}
	mockRepo.On("Save", ctx, mock.MatchedBy(func(u *entities.User) bool {
		return u.HashKey() == "User#U1" && u.Info() == info
	})).Return(nil).Once()

	handler := NewRegisterUserHandler(mockRepo)

	// Act
	result, err := handler.Handle(ctx, commands.RegisterUserCommand{UserID: "U1", Info: info})

	// Assert
	require.NoError(t, err)
	user, ok := result.(*entities.User)
	require.True(t, ok)
	assert.Equal(t, "U1", user.ID().String())
	mockRepo.AssertExpectations(t)
}

func TestRegisterUserHandler_Handle_Duplicate(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	mockRepo.On("Save", ctx, mock.Anything).Return(pkgerrors.NewConflictError("user U1 already exists")).Once()

	_, err := NewRegisterUserHandler(mockRepo).Handle(ctx, commands.RegisterUserCommand{UserID: "U1"})

	assert.True(t, pkgerrors.IsConflict(err))
}
