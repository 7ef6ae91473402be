package roles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewbase/crewbase/internal/authz"
	"github.com/crewbase/crewbase/internal/shared"
	"github.com/crewbase/crewbase/internal/validation"
)

// fakeRepo layers the write surface over fakeStore.
type fakeRepo struct {
	*fakeStore
	inserted   []Role
	granted    map[string][]string
	assigned   []RoleAssignment
	reparented []ReparentRoleRequest
	deleted    []string
}

func (f *fakeRepo) ListRoles(ctx context.Context, tenantID string) ([]Role, error) {
	var out []Role
	for _, role := range f.roles {
		if role.TenantID == tenantID {
			out = append(out, role)
		}
	}
	return out, nil
}

func (f *fakeRepo) InsertRole(ctx context.Context, role Role) (Role, error) {
	role.ID = roleNight
	f.inserted = append(f.inserted, role)
	return role, nil
}

func (f *fakeRepo) UpdateRole(ctx context.Context, tenantID string, req UpdateRoleRequest) (Role, error) {
	role, err := f.RoleByID(ctx, tenantID, req.RoleID)
	if err != nil {
		return Role{}, err
	}
	if req.Name != nil {
		role.Name = *req.Name
	}
	f.roles[role.ID] = role
	return role, nil
}

func (f *fakeRepo) ReplaceRolePermissions(ctx context.Context, tenantID, roleCode string, permissionIDs []string) error {
	if f.granted == nil {
		f.granted = map[string][]string{}
	}
	f.granted[roleCode] = permissionIDs
	return nil
}

func (f *fakeRepo) InsertAssignment(ctx context.Context, assignment RoleAssignment) (RoleAssignment, error) {
	assignment.ID = memberTwo
	f.assigned = append(f.assigned, assignment)
	return assignment, nil
}

func (f *fakeRepo) SetParent(ctx context.Context, tenantID, roleID, parentID string) error {
	f.reparented = append(f.reparented, ReparentRoleRequest{RoleID: roleID, ParentRoleID: parentID})
	return nil
}

func (f *fakeRepo) DeleteRole(ctx context.Context, tenantID, roleID string) error {
	f.deleted = append(f.deleted, roleID)
	return nil
}

// passScope is a no-op tenant scope for service tests.
type passScope struct{ acquired int }

func (s *passScope) Acquire(ctx context.Context, vctx validation.Context) (context.Context, func(), error) {
	s.acquired++
	return ctx, func() {}, nil
}

type fakeAudit struct {
	records []shared.AuditRecord
}

func (f *fakeAudit) Record(ctx context.Context, rec shared.AuditRecord) error {
	f.records = append(f.records, rec)
	return nil
}

func newTestService(t *testing.T, repo *fakeRepo, audit *fakeAudit) *Service {
	t.Helper()
	runner := validation.NewRunner(nil)
	require.NoError(t, RegisterRules(runner))
	engine := authz.NewEngine(authz.NewCatalog(map[string]int{
		"ADMIN":           100,
		"PROJECT_MANAGER": 75,
		"WORKER":          50,
		"VIEWER":          25,
		"DRIVER":          25,
	}))
	return NewService(repo, &passScope{}, runner, engine, audit, nil, nil)
}

func workerActor() *shared.Actor {
	return &shared.Actor{ID: memberOne, TenantID: tenantA, Roles: []string{"WORKER"}}
}

func TestService_CreateHappyPath(t *testing.T) {
	repo := &fakeRepo{fakeStore: newFakeStore()}
	audit := &fakeAudit{}
	svc := newTestService(t, repo, audit)

	res, role, err := svc.Create(context.Background(), workerActor(), tenantA, CreateRoleRequest{
		Code: "NIGHT_CREW", Name: "Night Crew", Type: RoleTypeCustom, Priority: 40,
	})
	require.NoError(t, err)
	require.True(t, res.Valid, "unexpected issues: %+v", res.Errors)
	require.NotNil(t, role)
	assert.Equal(t, tenantA, role.TenantID)
	assert.Len(t, repo.inserted, 1)
	require.Len(t, audit.records, 1)
	assert.Equal(t, "role.create", audit.records[0].Action)
	assert.NotEmpty(t, audit.records[0].Meta["correlation_id"])
}

func TestService_CreatePersistsPermissionGrants(t *testing.T) {
	repo := &fakeRepo{fakeStore: newFakeStore()}
	repo.addEntity(EntityPermission, permRead, tenantA)
	svc := newTestService(t, repo, &fakeAudit{})

	res, role, err := svc.Create(context.Background(), workerActor(), tenantA, CreateRoleRequest{
		Code: "NIGHT_CREW", Name: "Night Crew", Type: RoleTypeCustom, Priority: 40,
		PermissionIDs: []string{permRead},
	})
	require.NoError(t, err)
	require.True(t, res.Valid, "unexpected issues: %+v", res.Errors)
	require.NotNil(t, role)
	assert.Equal(t, []string{permRead}, repo.granted["NIGHT_CREW"])
}

func TestService_CreateStructuralFailureSkipsWrite(t *testing.T) {
	repo := &fakeRepo{fakeStore: newFakeStore()}
	svc := newTestService(t, repo, &fakeAudit{})

	res, role, err := svc.Create(context.Background(), workerActor(), tenantA, CreateRoleRequest{
		Code: "night crew", Name: "Night Crew", Type: RoleTypeCustom, Priority: 40,
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, res.HasError(validation.CodeStructural))
	assert.Nil(t, role)
	assert.Empty(t, repo.inserted)
}

func TestService_CreateDuplicateSkipsWrite(t *testing.T) {
	repo := &fakeRepo{fakeStore: newFakeStore()}
	repo.addRole(Role{ID: roleForeman, TenantID: tenantA, Code: "NIGHT_CREW", Name: "Night Crew", Type: RoleTypeCustom})
	svc := newTestService(t, repo, &fakeAudit{})

	res, role, err := svc.Create(context.Background(), workerActor(), tenantA, CreateRoleRequest{
		Code: "NIGHT_CREW", Name: "Second Night Crew", Type: RoleTypeCustom, Priority: 40,
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, res.HasError(validation.CodeDuplicateValue))
	assert.Nil(t, role)
	assert.Empty(t, repo.inserted)
}

func TestService_TenantMismatchRejected(t *testing.T) {
	repo := &fakeRepo{fakeStore: newFakeStore()}
	svc := newTestService(t, repo, &fakeAudit{})

	_, _, err := svc.Create(context.Background(), workerActor(), tenantB, CreateRoleRequest{
		Code: "NIGHT_CREW", Name: "Night Crew", Type: RoleTypeCustom, Priority: 40,
	})
	require.ErrorIs(t, err, shared.ErrTenantMismatch)

	_, err2 := svc.List(context.Background(), nil, tenantA)
	require.ErrorIs(t, err2, shared.ErrForbidden)
}

func TestService_AssignEscalationDenied(t *testing.T) {
	repo := &fakeRepo{fakeStore: newFakeStore()}
	repo.addRole(Role{ID: roleForeman, TenantID: tenantA, Code: "ADMIN", Name: "Admin", Type: RoleTypeSystem})
	repo.addEntity(EntityMember, memberOne, tenantA)
	repo.addEntity(EntityMember, memberTwo, tenantA)
	svc := newTestService(t, repo, &fakeAudit{})

	_, _, err := svc.Assign(context.Background(), workerActor(), tenantA, AssignRoleRequest{
		RoleID: roleForeman, MemberID: memberTwo, AssignedBy: memberOne,
	})
	require.ErrorIs(t, err, shared.ErrForbidden)
	assert.Empty(t, repo.assigned)
}

func TestService_AssignManagerCannotGrantManager(t *testing.T) {
	repo := &fakeRepo{fakeStore: newFakeStore()}
	repo.addRole(Role{ID: roleForeman, TenantID: tenantA, Code: "PROJECT_MANAGER", Name: "Project Manager", Type: RoleTypeSystem})
	repo.addEntity(EntityMember, memberOne, tenantA)
	repo.addEntity(EntityMember, memberTwo, tenantA)
	svc := newTestService(t, repo, &fakeAudit{})

	actor := &shared.Actor{ID: memberOne, TenantID: tenantA, Roles: []string{"PROJECT_MANAGER"}}
	_, _, err := svc.Assign(context.Background(), actor, tenantA, AssignRoleRequest{
		RoleID: roleForeman, MemberID: memberTwo, AssignedBy: memberOne,
	})
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestService_AssignHappyPath(t *testing.T) {
	repo := &fakeRepo{fakeStore: newFakeStore()}
	repo.addRole(Role{ID: roleForeman, TenantID: tenantA, Code: "VIEWER", Name: "Viewer", Type: RoleTypeSystem})
	repo.addEntity(EntityMember, memberOne, tenantA)
	repo.addEntity(EntityMember, memberTwo, tenantA)
	audit := &fakeAudit{}
	svc := newTestService(t, repo, audit)

	res, assignment, err := svc.Assign(context.Background(), workerActor(), tenantA, AssignRoleRequest{
		RoleID: roleForeman, MemberID: memberTwo, AssignedBy: memberOne,
	})
	require.NoError(t, err)
	require.True(t, res.Valid, "unexpected issues: %+v", res.Errors)
	require.NotNil(t, assignment)
	assert.Len(t, repo.assigned, 1)
	require.Len(t, audit.records, 1)
	assert.Equal(t, "role.assign", audit.records[0].Action)
}

func TestService_DeleteBlockedThenForced(t *testing.T) {
	repo := &fakeRepo{fakeStore: newFakeStore()}
	repo.addRole(Role{ID: roleForeman, TenantID: tenantA, Code: "FOREMAN", Name: "Foreman", Type: RoleTypeCustom})
	repo.assignments[roleForeman] = 1
	svc := newTestService(t, repo, &fakeAudit{})

	res, err := svc.Delete(context.Background(), workerActor(), tenantA, DeleteRoleRequest{RoleID: roleForeman})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Empty(t, repo.deleted)

	res, err = svc.Delete(context.Background(), workerActor(), tenantA, DeleteRoleRequest{RoleID: roleForeman, Force: true})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.True(t, res.HasWarning(CodeForceDeletion))
	assert.Equal(t, []string{roleForeman}, repo.deleted)
}
