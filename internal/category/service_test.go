package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fillbook/internal/category"
)

func TestService_Classify(t *testing.T) {
	type testCase struct {
		name        string
		description string
		setupMock   func(m *category.MockRepository)
		wantCode    string
		wantErr     bool
	}

	stored := func() []*category.Category {
		return []*category.Category{
			{Code: "CAFE", Aliases: []string{"coffee"}},
			{Code: "FOOD", Aliases: []string{"lidl"}},
			{Code: category.FallbackCode},
		}
	}

	tests := []testCase{
		{
			name:        "Match",
			description: "lidl 22",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().ListCategories(gomock.Any()).Return(stored(), nil)
			},
			wantCode: "FOOD",
		},
		{
			name:        "StoredOrderWins",
			description: "lidl bakery",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().ListCategories(gomock.Any()).Return([]*category.Category{
					{Code: "ZBAKERY", Aliases: []string{"lidl bakery"}},
					{Code: "FOOD", Aliases: []string{"lidl"}},
					{Code: category.FallbackCode},
				}, nil)
			},
			wantCode: "ZBAKERY",
		},
		{
			name:        "Fallback",
			description: "unknown shop",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().ListCategories(gomock.Any()).Return(stored(), nil)
			},
			wantCode: category.FallbackCode,
		},
		{
			name:        "MissingFallback",
			description: "unknown shop",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().ListCategories(gomock.Any()).Return(stored()[:2], nil)
			},
			wantErr: true,
		},
		{
			name:        "RepoError",
			description: "lidl",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().ListCategories(gomock.Any()).Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := category.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := category.NewService(repo).Classify(context.Background(), tt.description)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    category.CreateParams
		setupMock func(m *category.MockRepository)
		want      *category.Category
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "WithSeedAlias",
			params: category.CreateParams{Name: "Taxi", Code: "TAXI", Proportion: 1.005, SeedAlias: "Bolt Ride"},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(nil)
			},
			want: &category.Category{Code: "TAXI", Name: "Taxi", Aliases: []string{"bolt ride"}, Proportion: 1.01},
		},
		{
			name:   "WithoutSeedAlias",
			params: category.CreateParams{Name: "Pets", Code: "PETS", Proportion: 0.5},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(nil)
			},
			want: &category.Category{Code: "PETS", Name: "Pets", Aliases: []string{}, Proportion: 0.5},
		},
		{
			name:   "Duplicate",
			params: category.CreateParams{Name: "Food", Code: "FOOD", Proportion: 1},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(category.ErrDuplicate)
			},
			wantErr: category.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := category.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := category.NewService(repo).Create(context.Background(), tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("MissingCode", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		_, err := category.NewService(category.NewMockRepository(ctrl)).
			Create(context.Background(), category.CreateParams{Name: "Nameless"})
		assert.Error(t, err)
	})
}
