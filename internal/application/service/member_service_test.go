package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMember(t *testing.T) {
	tests := []struct {
		name     string
		settings func(churchID uuid.UUID) *entity.Settings
		existing []*entity.Member
		input    MemberInput
		code     int
		field    string
		welcome  bool
	}{
		{
			name:     "welcome SMS for a contact",
			settings: premiumSettings,
			input:    MemberInput{MemberID: "M-001", FirstName: "Ruth", LastName: "Otieno", Contact: "0712345678"},
			welcome:  true,
		},
		{
			name:     "no contact no SMS",
			settings: premiumSettings,
			input:    MemberInput{MemberID: "M-001", FirstName: "Ruth", LastName: "Otieno"},
		},
		{
			name: "package without SMS",
			settings: func(churchID uuid.UUID) *entity.Settings {
				s := entity.DefaultSettings("Grace SDA", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
				s.TenantID = churchID
				return s
			},
			input: MemberInput{MemberID: "M-001", FirstName: "Ruth", LastName: "Otieno", Contact: "0712345678"},
		},
		{
			name: "member limit reached",
			settings: func(churchID uuid.UUID) *entity.Settings {
				s := premiumSettings(churchID)
				s.Limits.MaxMembers = 1
				return s
			},
			existing: []*entity.Member{{MemberID: "M-000", FirstName: "Paul", LastName: "Kamau"}},
			input:    MemberInput{MemberID: "M-001", FirstName: "Ruth", LastName: "Otieno", Contact: "0712345678"},
			code:     402,
		},
		{
			name:     "duplicate member ID",
			settings: premiumSettings,
			existing: []*entity.Member{{MemberID: "M-001", FirstName: "Paul", LastName: "Kamau"}},
			input:    MemberInput{MemberID: " M-001 ", FirstName: "Ruth", LastName: "Otieno", Contact: "0712345678"},
			code:     422,
			field:    "member_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, churchID := churchCtx()
			freezeClock(t, time.Date(2025, 4, 10, 8, 0, 0, 0, time.UTC))

			members := newFakeMemberRepo(tt.existing...)
			tasks := &fakeTasks{}
			settings := NewSettingsService(&fakeSettingsRepo{settings: tt.settings(churchID)}, &fakeChurchRepo{})
			svc := NewMemberService(members, settings, tasks)

			input := tt.input
			m, err := svc.CreateMember(ctx, uuid.New(), &input)
			if tt.code != 0 {
				require.Error(t, err)
				assert.True(t, apperror.IsCode(err, tt.code), "got %v", err)
				if tt.field != "" {
					assert.Equal(t, tt.field, apperror.GetAppError(err).Errors[0].Field)
				}
				assert.Len(t, members.members, len(tt.existing))
				assert.Empty(t, tasks.jobs)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, churchID, m.TenantID)
			assert.Equal(t, enum.MemberStatusActive, m.Status)
			assert.Contains(t, members.members, m.ID)
			if tt.welcome {
				assert.Equal(t, []enqueued{{"sms:welcome", m.ID}}, tasks.jobs)
			} else {
				assert.Empty(t, tasks.jobs)
			}
		})
	}
}
