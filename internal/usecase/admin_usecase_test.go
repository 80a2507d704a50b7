package usecase

import (
	"testing"

	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	"github.com/nguyentranbao-ct/complaint-registry/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestAdminDashboard(t *testing.T) {
	f := newFixture()
	alice := f.user(models.RoleCustomer, "alice")
	bob := f.user(models.RoleCustomer, "bob")
	agent := f.user(models.RoleAgent, "agent")
	admin := f.user(models.RoleAdmin, "admin")

	for range 11 {
		f.complaintFor(alice)
	}
	assigned := f.complaintFor(bob)
	f.assign(assigned, agent, admin)

	dash, err := f.admin.Dashboard(t.Context())
	require.NoError(t, err)

	assert.Equal(t, models.DashboardStatistics{
		TotalUsers:         4,
		TotalCustomers:     2,
		TotalAgents:        1,
		TotalAdmins:        1,
		TotalComplaints:    12,
		PendingComplaints:  11,
		AssignedComplaints: 1,
	}, dash.Statistics)

	require.Len(t, dash.RecentComplaints, recentComplaintsLimit)
	assert.Equal(t, assigned.ID, dash.RecentComplaints[0].ID)
	assert.Equal(t, []models.GroupCount{{ID: "technical", Count: 12}}, dash.ComplaintsByCategory)
	assert.Equal(t, []models.GroupCount{
		{ID: "assigned", Count: 1},
		{ID: "pending", Count: 11},
	}, dash.ComplaintsByStatus)
}

func TestAdminDirectory(t *testing.T) {
	f := newFixture()
	customer := f.user(models.RoleCustomer, "cust")
	agent := f.user(models.RoleAgent, "agent")
	admin := f.user(models.RoleAdmin, "admin")

	t.Run("list by role", func(t *testing.T) {
		agents, err := f.admin.ListUsers(t.Context(), models.RoleAgent)
		require.NoError(t, err)
		require.Len(t, agents, 1)
		assert.Equal(t, agent.ID, agents[0].ID)

		all, err := f.admin.ListUsers(t.Context(), "")
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, admin.ID, all[0].ID)

		_, err = f.admin.ListUsers(t.Context(), models.Role("root"))
		assert.True(t, models.IsCode(err, codes.InvalidArgument))
	})

	t.Run("update role and deactivate", func(t *testing.T) {
		role := models.RoleAgent
		updated, err := f.admin.UpdateUser(t.Context(), admin, customer.ID, models.UserUpdate{
			Role:     &role,
			IsActive: util.Ptr(false),
			Email:    util.Ptr("Promoted@Example.com"),
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleAgent, updated.Role)
		assert.False(t, updated.IsActive)
		assert.Equal(t, "promoted@example.com", updated.Email)
	})

	t.Run("update to taken email conflicts", func(t *testing.T) {
		_, err := f.admin.UpdateUser(t.Context(), admin, customer.ID, models.UserUpdate{Email: util.Ptr(agent.Email)})
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("invalid role", func(t *testing.T) {
		role := models.Role("root")
		_, err := f.admin.UpdateUser(t.Context(), admin, customer.ID, models.UserUpdate{Role: &role})
		assert.True(t, models.IsCode(err, codes.InvalidArgument))
	})

	t.Run("delete", func(t *testing.T) {
		err := f.admin.DeleteUser(t.Context(), admin, admin.ID)
		assert.True(t, models.IsCode(err, codes.InvalidArgument))

		require.NoError(t, f.admin.DeleteUser(t.Context(), admin, agent.ID))
		_, err = f.admin.GetUser(t.Context(), agent.ID)
		assert.True(t, models.IsCode(err, codes.NotFound))

		err = f.admin.DeleteUser(t.Context(), admin, agent.ID)
		assert.True(t, models.IsCode(err, codes.NotFound))
	})
}
