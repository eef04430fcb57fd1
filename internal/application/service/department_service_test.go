package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deptTree struct {
	svc      *DepartmentService
	repo     *fakeDeptRepo
	settings *fakeSettingsRepo
	// youth is the root, with music under it and choir under music
	youth, music, choir *entity.Department
}

func newDeptTree(t *testing.T) (*deptTree, context.Context) {
	t.Helper()
	ctx, churchID := churchCtx()
	freezeClock(t, time.Date(2025, 4, 10, 8, 0, 0, 0, time.UTC))

	dept := func(name, code string, parent *entity.Department) *entity.Department {
		d := &entity.Department{Name: name, Code: code, IsActive: true, BudgetYear: 2025}
		d.ID = uuid.New()
		d.TenantID = churchID
		if parent != nil {
			d.ParentID = &parent.ID
		}
		return d
	}
	youth := dept("Youth", "YTH", nil)
	music := dept("Music", "MUS", youth)
	choir := dept("Choir", "CHR", music)

	repo := newFakeDeptRepo(youth, music, choir)
	settings := &fakeSettingsRepo{settings: premiumSettings(churchID)}
	svc := NewDepartmentService(repo, newFakeMemberRepo(), &fakeBudgetRepo{}, nil, nil,
		NewSettingsService(settings, &fakeChurchRepo{}))

	return &deptTree{svc: svc, repo: repo, settings: settings, youth: youth, music: music, choir: choir}, ctx
}

func TestUpdateDepartmentParent(t *testing.T) {
	missing := uuid.New()

	tests := []struct {
		name    string
		dept    func(tr *deptTree) *entity.Department
		parent  func(tr *deptTree) *uuid.UUID
		message string
	}{
		{
			name:    "grandchild as parent",
			dept:    func(tr *deptTree) *entity.Department { return tr.youth },
			parent:  func(tr *deptTree) *uuid.UUID { return &tr.choir.ID },
			message: "Parent department would create a cycle",
		},
		{
			name:    "child as parent",
			dept:    func(tr *deptTree) *entity.Department { return tr.music },
			parent:  func(tr *deptTree) *uuid.UUID { return &tr.choir.ID },
			message: "Parent department would create a cycle",
		},
		{
			name:    "own parent",
			dept:    func(tr *deptTree) *entity.Department { return tr.music },
			parent:  func(tr *deptTree) *uuid.UUID { return &tr.music.ID },
			message: "Department cannot be its own parent",
		},
		{
			name:    "unknown parent",
			dept:    func(tr *deptTree) *entity.Department { return tr.music },
			parent:  func(tr *deptTree) *uuid.UUID { return &missing },
			message: "Parent department not found",
		},
		{
			name:   "move under a sibling branch",
			dept:   func(tr *deptTree) *entity.Department { return tr.choir },
			parent: func(tr *deptTree) *uuid.UUID { return &tr.youth.ID },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, ctx := newDeptTree(t)
			dept := tt.dept(tr)
			parent := tt.parent(tr)

			updated, err := tr.svc.UpdateDepartment(ctx, dept.ID, &DepartmentInput{
				Name:     dept.Name,
				Code:     dept.Code,
				ParentID: parent,
				IsActive: true,
			})
			if tt.message == "" {
				require.NoError(t, err)
				assert.Equal(t, *parent, *updated.ParentID)
				assert.Equal(t, *parent, *tr.repo.depts[dept.ID].ParentID)
				return
			}

			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, 422))
			fe := apperror.GetAppError(err).Errors[0]
			assert.Equal(t, "parent_department_id", fe.Field)
			assert.Equal(t, tt.message, fe.Message)
			assert.Equal(t, dept.ParentID, tr.repo.depts[dept.ID].ParentID, "stored parent unchanged")
		})
	}
}

func TestCreateDepartment(t *testing.T) {
	tr, ctx := newDeptTree(t)

	created, err := tr.svc.CreateDepartment(ctx, &DepartmentInput{Name: " Health ", Code: " hlt ", ParentID: &tr.youth.ID})
	require.NoError(t, err)
	assert.Equal(t, "HLT", created.Code)
	assert.Equal(t, "Health", created.Name)
	assert.Equal(t, 2025, created.BudgetYear)

	_, err = tr.svc.CreateDepartment(ctx, &DepartmentInput{Name: "Health Ministries", Code: "hlt"})
	require.Error(t, err)
	assert.Equal(t, "department_code", apperror.GetAppError(err).Errors[0].Field)

	tr.settings.settings.Limits.MaxDepartments = 4
	_, err = tr.svc.CreateDepartment(ctx, &DepartmentInput{Name: "Welfare", Code: "WEL"})
	assert.True(t, apperror.IsCode(err, 402), "got %v", err)
	assert.Len(t, tr.repo.depts, 4)
}
