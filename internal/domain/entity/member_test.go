package entity

import (
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
)

func datePtr(y int, m time.Month, day int) *datatypes.Date {
	v := NewDate(y, m, day)
	return &v
}

func TestMemberValidate(t *testing.T) {
	today := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		m     Member
		field string
	}{
		{name: "valid", m: Member{MemberID: "M-001", FirstName: "Asha", LastName: "Mushi", DateOfBirth: datePtr(1990, 1, 1)}},
		{name: "missing id", m: Member{FirstName: "Asha", LastName: "Mushi"}, field: "member_id"},
		{name: "bad email", m: Member{MemberID: "M-2", FirstName: "A", LastName: "B", Email: "x@"}, field: "email"},
		{name: "future join", m: Member{MemberID: "M-3", FirstName: "A", LastName: "B", JoinDate: datePtr(2025, 6, 16)}, field: "join_date"},
		{
			name:  "baptised before birth",
			m:     Member{MemberID: "M-4", FirstName: "A", LastName: "B", DateOfBirth: datePtr(2000, 5, 1), BaptismDate: datePtr(1999, 1, 1)},
			field: "baptism_date",
		},
		{name: "bad role", m: Member{MemberID: "M-5", FirstName: "A", LastName: "B", ChurchRole: "Bishop"}, field: "church_role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate(today)
			if tt.field == "" {
				require.NoError(t, err)
				assert.Equal(t, enum.MemberStatusActive, tt.m.Status)
				assert.Equal(t, enum.ChurchRoleMember, tt.m.ChurchRole)
				return
			}
			require.Error(t, err)
			fields := []string{}
			for _, fe := range apperror.GetAppError(err).Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestMemberAge(t *testing.T) {
	m := Member{DateOfBirth: datePtr(1990, 6, 16)}
	assert.Equal(t, 34, *m.Age(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 35, *m.Age(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, (&Member{}).Age(time.Now()))
	assert.Equal(t, "Asha Mushi", (&Member{FirstName: "Asha", LastName: "Mushi"}).FullName())
}

func TestBuildTreeAndPath(t *testing.T) {
	root := Department{Name: "Youth"}
	root.ID = newID()
	child := Department{Name: "Choir", ParentID: &root.ID}
	child.ID = newID()
	leaf := Department{Name: "Sopranos", ParentID: &child.ID}
	leaf.ID = newID()

	tree := BuildTree([]Department{leaf, child, root})
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "Sopranos", tree[0].Children[0].Children[0].Name)

	assert.Equal(t, "Youth > Choir > Sopranos", HierarchyPath([]Department{leaf, child, root}))
}
