package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"clothing-store/internal/model"
)

func TestUserHandler_Register(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		requestBody    any
		mockReturn     *model.User
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			requestBody:    &model.RegisterRequest{Email: "ada@example.com"},
			mockReturn:     &model.User{ID: uuid.New(), Email: "ada@example.com", Role: model.RoleCustomer, CreatedAt: time.Now()},
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Duplicate email",
			requestBody:    &model.RegisterRequest{Email: "ada@example.com"},
			mockError:      model.ErrEmailTaken,
			expectedStatus: http.StatusConflict,
			expectService:  true,
		},
		{
			name:           "Invalid email",
			requestBody:    &model.RegisterRequest{Email: "nope"},
			mockError:      model.ErrInvalidEmail,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			requestBody:    "[",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockUserService)
			handler := NewUserHandler(mockService, logger)

			if tt.expectService {
				var ret any
				if tt.mockReturn != nil {
					ret = tt.mockReturn
				}
				mockService.On("Register", mock.Anything, mock.AnythingOfType("*model.RegisterRequest")).Return(ret, tt.mockError)
			}

			w := serve(t, http.MethodPost, "/api/users", "/api/users", handler.Register, tt.requestBody, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
