package club

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateClub(ctx context.Context, name, address string) (*Club, error) {
	args := m.Called(ctx, name, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Club), args.Error(1)
}

func (m *MockRepository) GetAllClubs(ctx context.Context) ([]Club, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Club), args.Error(1)
}

func (m *MockRepository) GetClubByID(ctx context.Context, id int) (*Club, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Club), args.Error(1)
}

func (m *MockRepository) CreateLocation(ctx context.Context, clubID int, name string) (*Location, error) {
	args := m.Called(ctx, clubID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Location), args.Error(1)
}

func (m *MockRepository) GetLocationsByClub(ctx context.Context, clubID int) ([]Location, error) {
	args := m.Called(ctx, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Location), args.Error(1)
}

func (m *MockRepository) GetLocationByID(ctx context.Context, id int) (*Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Location), args.Error(1)
}

func TestService_CreateLocation(t *testing.T) {
	tests := []struct {
		name          string
		clubID        int
		setupMock     func(*MockRepository)
		expectedError error
	}{
		{
			name:   "success",
			clubID: 1,
			setupMock: func(m *MockRepository) {
				m.On("GetClubByID", mock.Anything, 1).Return(&Club{ID: 1}, nil)
				m.On("CreateLocation", mock.Anything, 1, "Studio A").Return(&Location{ID: 3, ClubID: 1, Name: "Studio A"}, nil)
			},
		},
		{
			name:   "club not found",
			clubID: 9,
			setupMock: func(m *MockRepository) {
				m.On("GetClubByID", mock.Anything, 9).Return(nil, ErrClubNotFound)
			},
			expectedError: ErrClubNotFound,
		},
		{
			name:   "database error",
			clubID: 1,
			setupMock: func(m *MockRepository) {
				m.On("GetClubByID", mock.Anything, 1).Return(&Club{ID: 1}, nil)
				m.On("CreateLocation", mock.Anything, 1, "Studio A").Return(nil, errors.New("boom"))
			},
			expectedError: errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			tt.setupMock(mockRepo)

			svc := NewService(mockRepo)
			loc, err := svc.CreateLocation(context.Background(), tt.clubID, CreateLocationRequest{Name: "Studio A"})

			if tt.expectedError != nil {
				assert.EqualError(t, err, tt.expectedError.Error())
				assert.Nil(t, loc)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 3, loc.ID)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_GetLocationsChecksClub(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetClubByID", mock.Anything, 4).Return(nil, ErrClubNotFound)

	_, err := NewService(mockRepo).GetLocations(context.Background(), 4)
	assert.ErrorIs(t, err, ErrClubNotFound)
	mockRepo.AssertNotCalled(t, "GetLocationsByClub", mock.Anything, mock.Anything)
}

func TestService_CreateClub(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("CreateClub", mock.Anything, "Downtown", "1 Main St").Return(&Club{ID: 1, Name: "Downtown"}, nil)

	club, err := NewService(mockRepo).CreateClub(context.Background(), CreateClubRequest{Name: "Downtown", Address: "1 Main St"})
	assert.NoError(t, err)
	assert.Equal(t, "Downtown", club.Name)
	mockRepo.AssertExpectations(t)
}
