package mongodb

import (
	"testing"
	"time"

	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestComplaintFilter(t *testing.T) {
	customer := primitive.NewObjectID()
	agent := primitive.NewObjectID()

	tests := []struct {
		name   string
		filter models.ComplaintFilter
		want   bson.M
	}{
		{name: "empty", filter: models.ComplaintFilter{}, want: bson.M{}},
		{
			name:   "customer scope",
			filter: models.ComplaintFilter{Customer: &customer},
			want:   bson.M{"customer": customer},
		},
		{
			name:   "agent scope with status",
			filter: models.ComplaintFilter{AssignedAgent: &agent, Status: models.StatusResolved},
			want:   bson.M{"assigned_agent": agent, "status": models.StatusResolved},
		},
		{
			name:   "unassigned",
			filter: models.ComplaintFilter{Unassigned: true},
			want:   bson.M{"assigned_agent": nil},
		},
		{
			name:   "agent wins over unassigned",
			filter: models.ComplaintFilter{AssignedAgent: &agent, Unassigned: true},
			want:   bson.M{"assigned_agent": agent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, complaintFilter(tt.filter))
		})
	}
}

func TestStatusChangeSet(t *testing.T) {
	now := time.Now()

	t.Run("status only", func(t *testing.T) {
		set := statusChangeSet(models.StatusChange{Status: models.StatusInProgress}, now)
		assert.Equal(t, bson.M{"status": models.StatusInProgress, "updated_at": now}, set)
	})

	t.Run("resolution and resolved at", func(t *testing.T) {
		resolution := "refunded"
		resolvedAt := now.Add(-time.Second)
		set := statusChangeSet(models.StatusChange{
			Status:     models.StatusResolved,
			Resolution: &resolution,
			ResolvedAt: &resolvedAt,
		}, now)
		assert.Equal(t, "refunded", set["resolution"])
		assert.Equal(t, resolvedAt, set["resolved_at"])
	})
}

func TestUserUpdateSet(t *testing.T) {
	now := time.Now()
	name := "Dana"
	inactive := false
	role := models.RoleAgent

	set := userUpdateSet(models.UserUpdate{Name: &name, Role: &role, IsActive: &inactive}, now)

	assert.Equal(t, bson.M{
		"name":       "Dana",
		"role":       models.RoleAgent,
		"is_active":  false,
		"updated_at": now,
	}, set)
}

func TestRoleFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, roleFilter(""))
	assert.Equal(t, bson.M{"role": models.RoleAdmin}, roleFilter(models.RoleAdmin))
}

func TestComplaintViewPipeline(t *testing.T) {
	match := bson.M{"status": models.StatusPending}

	unlimited := complaintViewPipeline(match, 0)
	limited := complaintViewPipeline(match, 10)

	// match, sort, then a lookup and unwind per populated reference
	assert.Len(t, unlimited, 2+3*2)
	assert.Len(t, limited, 3+3*2)
	assert.Equal(t, bson.M{"$match": match}, unlimited[0])
	assert.Equal(t, bson.M{"$limit": int64(10)}, limited[2])
}

func TestMessageViewPipeline(t *testing.T) {
	receiver := primitive.NewObjectID()
	stages := messageViewPipeline(bson.M{"receiver": receiver}, -1, 50)

	sort, ok := stages[1]["$sort"].(bson.D)
	if assert.True(t, ok) {
		assert.Equal(t, bson.E{Key: "created_at", Value: -1}, sort[0])
	}

	lookup, ok := stages[len(stages)-2]["$lookup"].(bson.M)
	if assert.True(t, ok) {
		assert.Equal(t, "complaints", lookup["from"])
		assert.Equal(t, "complaint", lookup["as"])
	}
}
