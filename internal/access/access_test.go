package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farisarabic/faris-backend/internal/model"
)

func TestCheck(t *testing.T) {
	activeStudent := &model.User{Role: model.RoleStudent, Status: model.UserStatusActive}
	pendingStudent := &model.User{Role: model.RoleStudent, Status: model.UserStatusPending}
	admin := &model.User{Role: model.RoleAdmin, Status: model.UserStatusActive}

	tests := []struct {
		name       string
		profile    *model.User
		required   model.Role
		wantReason Reason
		wantTarget string
	}{
		{"nobody signed in", nil, model.RoleStudent, ReasonUnauthenticated, LoginPath},
		{"pending student", pendingStudent, model.RoleStudent, ReasonInactive, PendingLoginPath},
		{"student on admin route", activeStudent, model.RoleAdmin, ReasonWrongRole, StudentHomePath},
		{"admin on student route", admin, model.RoleStudent, ReasonWrongRole, AdminHomePath},
		{"active student", activeStudent, model.RoleStudent, "", ""},
		{"admin", admin, model.RoleAdmin, "", ""},
		{"any role student", activeStudent, AnyRole, "", ""},
		{"any role admin", admin, AnyRole, "", ""},
		{"any role pending", pendingStudent, AnyRole, ReasonInactive, PendingLoginPath},
		{"any role nobody", nil, AnyRole, ReasonUnauthenticated, LoginPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Check(tt.profile, tt.required)
			if tt.wantReason == "" {
				assert.True(t, d.Authorized())
				return
			}
			require.False(t, d.Authorized())
			assert.Equal(t, tt.wantReason, d.Redirect.Reason)
			assert.Equal(t, tt.wantTarget, d.Redirect.Target)
		})
	}
}
