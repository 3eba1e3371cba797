package scope_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fillbook/internal/scope"
)

func TestScope_Expand(t *testing.T) {
	type testCase struct {
		name  string
		scope scope.Scope
		want  []int64
	}

	tests := []testCase{
		{
			name:  "NoReportScopes",
			scope: scope.Scope{ID: 7, Type: scope.TypeGroup},
			want:  []int64{7},
		},
		{
			name:  "ReportScopesVerbatim",
			scope: scope.Scope{ID: 7, Type: scope.TypePrivate, ReportScopes: []int64{3, 9}},
			want:  []int64{3, 9},
		},
		{
			name:  "ReportScopesWithoutSelf",
			scope: scope.Scope{ID: 7, Type: scope.TypeGroup, ReportScopes: []int64{9}},
			want:  []int64{9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.scope.Expand()
			assert.Equal(t, tt.want, got)

			got[0] = -1
			assert.NotEqual(t, int64(-1), tt.scope.Expand()[0])
		})
	}
}

func TestService_ResolveByChat(t *testing.T) {
	type args struct {
		chatID int64
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *scope.MockRepository)
		want      *scope.Scope
		wantErr   error
	}

	group := &scope.Scope{ID: 1, Type: scope.TypeGroup, ChatID: -100}

	tests := []testCase{
		{
			name: "Found",
			args: args{chatID: -100},
			setupMock: func(m *scope.MockRepository) {
				m.EXPECT().GetByChatID(gomock.Any(), int64(-100)).Return(group, nil)
			},
			want: group,
		},
		{
			name: "Unbound",
			args: args{chatID: 42},
			setupMock: func(m *scope.MockRepository) {
				m.EXPECT().GetByChatID(gomock.Any(), int64(42)).Return(nil, scope.ErrNotFound)
			},
			wantErr: scope.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := scope.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := scope.NewService(repo)
			got, err := svc.ResolveByChat(context.Background(), tt.args.chatID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Provision(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := scope.NewMockRepository(ctrl)

		repo.EXPECT().
			CreateScope(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, s *scope.Scope) error {
				s.ID = 5
				return nil
			})

		got, err := scope.NewService(repo).Provision(context.Background(), 123, scope.TypePrivate)
		require.NoError(t, err)
		assert.Equal(t, int64(5), got.ID)
		assert.Equal(t, int64(123), got.ChatID)
		assert.False(t, got.IsGroup())
	})

	t.Run("InvalidType", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := scope.NewMockRepository(ctrl)

		_, err := scope.NewService(repo).Provision(context.Background(), 123, scope.Type("CHANNEL"))
		assert.Error(t, err)
	})

	t.Run("RepoError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := scope.NewMockRepository(ctrl)
		repo.EXPECT().CreateScope(gomock.Any(), gomock.Any()).Return(errors.New("db error"))

		got, err := scope.NewService(repo).Provision(context.Background(), 123, scope.TypeGroup)
		assert.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestService_SetReportScopes(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := scope.NewMockRepository(ctrl)
	repo.EXPECT().UpdateReportScopes(gomock.Any(), int64(1), []int64{1, 2}).Return(nil)

	err := scope.NewService(repo).SetReportScopes(context.Background(), 1, []int64{1, 2})
	assert.NoError(t, err)
}
