package dynamodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inviter-backend/domain/core/entities"
	"inviter-backend/domain/core/valueobjects"
	"inviter-backend/pkg/errors"
)

func newTestGroupRepo() (*GroupRepository, *fakeStore) {
	store := newFakeStore()
	return NewGroupRepository(store, zap.NewNop()), store
}

func TestCreateGroupWritesGroupAndAdminMembership(t *testing.T) {
	repo, store := newTestGroupRepo()
	group := testGroup(t, "book club")
	creator := valueobjects.NewUserID()

	require.NoError(t, repo.CreateGroup(context.Background(), group, creator))
	assert.Equal(t, 2, store.len())

	member, err := repo.GetMember(context.Background(), group.ID(), creator)
	require.NoError(t, err)
	assert.Equal(t, entities.GroupRoleAdmin, member.Role)
	assert.Equal(t, "book club", member.GroupName)
}

func TestGetGroupNotFound(t *testing.T) {
	repo, _ := newTestGroupRepo()

	_, err := repo.GetGroup(context.Background(), valueobjects.NewGroupID())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestAddMemberTwiceIsConflict(t *testing.T) {
	repo, _ := newTestGroupRepo()
	group := testGroup(t, "book club")
	require.NoError(t, repo.CreateGroup(context.Background(), group, valueobjects.NewUserID()))

	joiner := valueobjects.NewUserID()
	membership := entities.NewGroupMembership(group, joiner, entities.GroupRoleMember)
	require.NoError(t, repo.AddMember(context.Background(), membership))

	err := repo.AddMember(context.Background(), membership)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
}

func TestListMembersPaginates(t *testing.T) {
	repo, _ := newTestGroupRepo()
	group := testGroup(t, "book club")
	require.NoError(t, repo.CreateGroup(context.Background(), group, valueobjects.NewUserID()))
	for i := 0; i < 4; i++ {
		m := entities.NewGroupMembership(group, valueobjects.NewUserID(), entities.GroupRoleMember)
		require.NoError(t, repo.AddMember(context.Background(), m))
	}

	var seen []entities.GroupMembership
	token := ""
	pages := 0
	for {
		page, err := repo.ListMembers(context.Background(), group.ID(), 2, token)
		require.NoError(t, err)
		seen = append(seen, page.Items...)
		pages++
		if !page.HasMore() {
			break
		}
		token = page.NextToken
	}

	assert.Len(t, seen, 5) // creator plus four joiners
	assert.GreaterOrEqual(t, pages, 3)
}

func TestListGroupsForUserSpansGroups(t *testing.T) {
	repo, _ := newTestGroupRepo()
	user := valueobjects.NewUserID()

	for _, name := range []string{"book club", "run club"} {
		group := testGroup(t, name)
		require.NoError(t, repo.CreateGroup(context.Background(), group, valueobjects.NewUserID()))
		m := entities.NewGroupMembership(group, user, entities.GroupRoleMember)
		require.NoError(t, repo.AddMember(context.Background(), m))
	}

	memberships, err := repo.ListGroupsForUser(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, memberships, 2)

	names := []string{memberships[0].GroupName, memberships[1].GroupName}
	assert.ElementsMatch(t, []string{"book club", "run club"}, names)
}

func TestSyncMembershipProjectionsRefreshesDenormalizedFields(t *testing.T) {
	repo, _ := newTestGroupRepo()
	group := testGroup(t, "book club")
	creator := valueobjects.NewUserID()
	require.NoError(t, repo.CreateGroup(context.Background(), group, creator))

	require.NoError(t, group.Rename("mystery book club"))
	require.NoError(t, repo.UpdateGroup(context.Background(), group))
	require.NoError(t, repo.SyncMembershipProjections(context.Background(), group))

	member, err := repo.GetMember(context.Background(), group.ID(), creator)
	require.NoError(t, err)
	assert.Equal(t, "mystery book club", member.GroupName)
}

func TestDeleteGroupClearsPartition(t *testing.T) {
	repo, store := newTestGroupRepo()
	group := testGroup(t, "book club")
	require.NoError(t, repo.CreateGroup(context.Background(), group, valueobjects.NewUserID()))
	m := entities.NewGroupMembership(group, valueobjects.NewUserID(), entities.GroupRoleMember)
	require.NoError(t, repo.AddMember(context.Background(), m))

	require.NoError(t, repo.DeleteGroup(context.Background(), group.ID()))
	assert.Equal(t, 0, store.len())

	_, err := repo.GetGroup(context.Background(), group.ID())
	assert.True(t, errors.IsNotFound(err))
}
