package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/apperr"
	"project-service/pkg/clock"
)

// fakeStore mirrors the repository's version/approval semantics so the
// service behavior around re-uploads is observable.
type fakeStore struct {
	items  map[int64]*model.Resource
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[int64]*model.Resource{}, nextID: 1}
}

func (s *fakeStore) Insert(_ context.Context, res *model.Resource) (int64, error) {
	id := s.nextID
	s.nextID++
	copied := *res
	copied.ID = id
	copied.Status = model.ResourcePending
	copied.Version = 1
	s.items[id] = &copied
	return id, nil
}

func (s *fakeStore) FindByProject(_ context.Context, projectID int64) ([]model.Resource, error) {
	var out []model.Resource
	for id := int64(1); id < s.nextID; id++ {
		if res, ok := s.items[id]; ok && res.ProjectID == projectID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (s *fakeStore) FindByID(_ context.Context, id int64) (*model.Resource, error) {
	res, ok := s.items[id]
	if !ok {
		return nil, &apperr.NotFound{Entity: "resource", ID: id}
	}
	copied := *res
	return &copied, nil
}

func (s *fakeStore) Reupload(_ context.Context, id int64, url string, at time.Time) error {
	res, ok := s.items[id]
	if !ok {
		return &apperr.NotFound{Entity: "resource", ID: id}
	}
	res.URL = url
	res.Version++
	res.Status = model.ResourcePending
	res.ApprovedBy = nil
	res.ApprovedAt = nil
	res.UpdatedAt = at
	return nil
}

func (s *fakeStore) SetStatus(_ context.Context, id int64, status model.ResourceStatus, approverID *int64, at time.Time) error {
	res, ok := s.items[id]
	if !ok {
		return &apperr.NotFound{Entity: "resource", ID: id}
	}
	res.Status = status
	if status == model.ResourceApproved {
		res.ApprovedBy = approverID
		approvedAt := at
		res.ApprovedAt = &approvedAt
	} else {
		res.ApprovedBy = nil
		res.ApprovedAt = nil
	}
	res.UpdatedAt = at
	return nil
}

func TestUploadStartsPendingAtVersionOne(t *testing.T) {
	s := NewService(newFakeStore(), clock.System(), zap.NewNop())

	res, err := s.Upload(context.Background(), &model.Resource{
		ProjectID: 1, Type: model.ResourceSRS, Name: "SRS v1", URL: "https://docs.example.com/srs",
	})
	require.NoError(t, err)

	assert.Equal(t, model.ResourcePending, res.Status)
	assert.Equal(t, 1, res.Version)
	assert.Nil(t, res.ApprovedBy)
}

func TestApproveStampsApproverAndTime(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
	s := NewService(newFakeStore(), clock.Fixed{T: now}, zap.NewNop())

	res, err := s.Upload(context.Background(), &model.Resource{ProjectID: 1, Type: model.ResourceSitemap, Name: "Sitemap"})
	require.NoError(t, err)

	approved, err := s.Approve(context.Background(), res.ID, 42)
	require.NoError(t, err)

	assert.Equal(t, model.ResourceApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, int64(42), *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, now, *approved.ApprovedAt)
}

func TestReuploadResetsApproval(t *testing.T) {
	s := NewService(newFakeStore(), clock.System(), zap.NewNop())

	res, err := s.Upload(context.Background(), &model.Resource{ProjectID: 1, Type: model.ResourceSRS, Name: "SRS"})
	require.NoError(t, err)
	_, err = s.Approve(context.Background(), res.ID, 42)
	require.NoError(t, err)

	reuploaded, err := s.Reupload(context.Background(), res.ID, "https://docs.example.com/srs-v2")
	require.NoError(t, err)

	// A new version never inherits the previous version's approval.
	assert.Equal(t, 2, reuploaded.Version)
	assert.Equal(t, model.ResourcePending, reuploaded.Status)
	assert.Nil(t, reuploaded.ApprovedBy)
	assert.Nil(t, reuploaded.ApprovedAt)
}

func TestRejectClearsApprovalFields(t *testing.T) {
	s := NewService(newFakeStore(), clock.System(), zap.NewNop())

	res, err := s.Upload(context.Background(), &model.Resource{ProjectID: 1, Type: model.ResourceMockup, Name: "Homepage mockup"})
	require.NoError(t, err)

	rejected, err := s.Reject(context.Background(), res.ID)
	require.NoError(t, err)

	assert.Equal(t, model.ResourceRejected, rejected.Status)
	assert.Nil(t, rejected.ApprovedBy)
}
