package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmanager/internal/domain"
)

const (
	testCategoryID    = "5b0c3a3e-7f5d-4f0e-9f4a-1d2c3b4a5e6f"
	testCompilationID = "c0000000-0000-4000-8000-00000000000c"
	testCommentID     = "d0000000-0000-4000-8000-00000000000d"
)

type fakeCategoryService struct {
	err      error
	lastName string
	lastID   string
}

func (f *fakeCategoryService) Create(_ context.Context, name string) (*domain.Category, error) {
	f.lastName = name
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Category{ID: testCategoryID, Name: name}, nil
}

func (f *fakeCategoryService) Update(_ context.Context, id, name string) (*domain.Category, error) {
	f.lastID, f.lastName = id, name
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Category{ID: id, Name: name}, nil
}

func (f *fakeCategoryService) Delete(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeCategoryService) GetByID(_ context.Context, id string) (*domain.Category, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Category{ID: id, Name: "Concerts"}, nil
}

func (f *fakeCategoryService) List(_ context.Context, _ domain.PaginationParams) ([]*domain.Category, int, error) {
	return []*domain.Category{{ID: testCategoryID, Name: "Concerts"}}, 1, f.err
}

func TestCategoryController(t *testing.T) {
	tests := []struct {
		name       string
		call       func(c *CategoryController, w http.ResponseWriter, r *http.Request)
		body       string
		fakeErr    error
		wantStatus int
	}{
		{name: "create", call: (*CategoryController).CreateCategory, body: `{"name":"Concerts"}`, wantStatus: http.StatusCreated},
		{name: "create blank", call: (*CategoryController).CreateCategory, body: `{"name":"  "}`, wantStatus: http.StatusBadRequest},
		{name: "create too long", call: (*CategoryController).CreateCategory, body: `{"name":"` + strings.Repeat("x", 51) + `"}`, wantStatus: http.StatusBadRequest},
		{name: "create duplicate", call: (*CategoryController).CreateCategory, body: `{"name":"Concerts"}`, fakeErr: domain.ErrDuplicateCategory, wantStatus: http.StatusConflict},
		{name: "rename", call: (*CategoryController).UpdateCategory, body: `{"name":"Theatre"}`, wantStatus: http.StatusOK},
		{name: "delete", call: (*CategoryController).DeleteCategory, wantStatus: http.StatusNoContent},
		{name: "delete in use", call: (*CategoryController).DeleteCategory, fakeErr: domain.ErrCategoryInUse, wantStatus: http.StatusConflict},
		{name: "get", call: (*CategoryController).GetCategory, wantStatus: http.StatusOK},
		{name: "get missing", call: (*CategoryController).GetCategory, fakeErr: domain.ErrCategoryNotFound, wantStatus: http.StatusNotFound},
		{name: "list", call: (*CategoryController).ListCategories, wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewCategoryController(testLogger, &fakeCategoryService{err: tt.fakeErr})
			rr := httptest.NewRecorder()

			tt.call(ctrl, rr, newJSONRequest(http.MethodPost, "/", tt.body, testUserID, map[string]string{"catID": testCategoryID}))

			require.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

type fakeCompilationService struct {
	err        error
	lastNew    domain.NewCompilationInput
	lastUpdate domain.UpdateCompilationInput
	lastPinned *bool
}

func (f *fakeCompilationService) Create(_ context.Context, in domain.NewCompilationInput) (*domain.Compilation, error) {
	f.lastNew = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Compilation{ID: testCompilationID, Title: in.Title, Pinned: in.Pinned, Events: []*domain.Event{}}, nil
}

func (f *fakeCompilationService) Update(_ context.Context, id string, in domain.UpdateCompilationInput) (*domain.Compilation, error) {
	f.lastUpdate = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Compilation{ID: id}, nil
}

func (f *fakeCompilationService) Delete(_ context.Context, _ string) error { return f.err }

func (f *fakeCompilationService) GetByID(_ context.Context, id string) (*domain.Compilation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Compilation{ID: id}, nil
}

func (f *fakeCompilationService) List(_ context.Context, pinned *bool, _ domain.PaginationParams) ([]*domain.Compilation, int, error) {
	f.lastPinned = pinned
	return nil, 0, f.err
}

func TestCompilationController_Create(t *testing.T) {
	fake := &fakeCompilationService{}
	ctrl := NewCompilationController(testLogger, fake)
	rr := httptest.NewRecorder()

	body := `{"title":" Summer picks ","pinned":true,"events":["2F4E6A80-1B3D-4C5E-8F70-9A1B2C3D4E5F"]}`
	ctrl.CreateCompilation(rr, newJSONRequest(http.MethodPost, "/admin/compilations", body, testUserID, nil))

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Summer picks", fake.lastNew.Title)
	assert.True(t, fake.lastNew.Pinned)
	assert.Equal(t, []string{testEventID}, fake.lastNew.EventIDs)
}

func TestCompilationController_Update(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		check      func(t *testing.T, in domain.UpdateCompilationInput)
	}{
		{
			name:       "events omitted keeps them",
			body:       `{"pinned":false}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, in domain.UpdateCompilationInput) {
				assert.Nil(t, in.EventIDs)
				require.NotNil(t, in.Pinned)
				assert.Nil(t, in.Title)
			},
		},
		{
			name:       "empty events clears them",
			body:       `{"events":[]}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, in domain.UpdateCompilationInput) {
				require.NotNil(t, in.EventIDs)
				assert.Empty(t, in.EventIDs)
			},
		},
		{name: "blank title", body: `{"title":""}`, wantStatus: http.StatusBadRequest},
		{name: "bad event id", body: `{"events":["nope"]}`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCompilationService{}
			ctrl := NewCompilationController(testLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.UpdateCompilation(rr, newJSONRequest(http.MethodPatch, "/", tt.body, testUserID, map[string]string{"compID": testCompilationID}))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.check != nil {
				tt.check(t, fake.lastUpdate)
			}
		})
	}
}

func TestCompilationController_List(t *testing.T) {
	fake := &fakeCompilationService{}
	ctrl := NewCompilationController(testLogger, fake)

	rr := httptest.NewRecorder()
	ctrl.ListCompilations(rr, newJSONRequest(http.MethodGet, "/compilations?pinned=true", "", "", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, fake.lastPinned)
	assert.True(t, *fake.lastPinned)

	rr = httptest.NewRecorder()
	ctrl.ListCompilations(rr, newJSONRequest(http.MethodGet, "/compilations?pinned=sometimes", "", "", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	ctrl.GetCompilation(rr, newJSONRequest(http.MethodGet, "/", "", "", map[string]string{"compID": testCompilationID}))
	require.Equal(t, http.StatusOK, rr.Code)
}

type fakeCommentService struct {
	err         error
	lastAuthor  string
	lastEvent   string
	lastMessage string
	lastStart   *time.Time
	lastEnd     *time.Time
	adminDelete string
}

func (f *fakeCommentService) Create(_ context.Context, authorID, eventID, message string) (*domain.Comment, error) {
	f.lastAuthor, f.lastEvent, f.lastMessage = authorID, eventID, message
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Comment{ID: testCommentID, AuthorID: authorID, EventID: eventID, Message: message}, nil
}

func (f *fakeCommentService) Update(_ context.Context, authorID, commentID, message string) (*domain.Comment, error) {
	f.lastAuthor, f.lastMessage = authorID, message
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Comment{ID: commentID, AuthorID: authorID, Message: message}, nil
}

func (f *fakeCommentService) Delete(_ context.Context, authorID, _ string) error {
	f.lastAuthor = authorID
	return f.err
}

func (f *fakeCommentService) DeleteByAdmin(_ context.Context, commentID string) error {
	f.adminDelete = commentID
	return f.err
}

func (f *fakeCommentService) ListByEvent(_ context.Context, eventID string, _ domain.PaginationParams) ([]*domain.Comment, int, error) {
	f.lastEvent = eventID
	return nil, 0, f.err
}

func (f *fakeCommentService) ListByAuthor(_ context.Context, authorID string, _ domain.PaginationParams) ([]*domain.Comment, int, error) {
	f.lastAuthor = authorID
	return nil, 0, f.err
}

func (f *fakeCommentService) ListByRange(_ context.Context, start, end *time.Time, _ domain.PaginationParams) ([]*domain.Comment, int, error) {
	f.lastStart, f.lastEnd = start, end
	return nil, 0, f.err
}

func TestCommentController_CreateComment(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fakeErr    error
		wantStatus int
	}{
		{name: "created", body: `{"event_id":"` + testEventID + `","message":"  Great event, see you there  "}`, wantStatus: http.StatusCreated},
		{name: "too short", body: `{"event_id":"` + testEventID + `","message":"nice"}`, wantStatus: http.StatusBadRequest},
		{name: "bad event id", body: `{"event_id":"x","message":"Great event, see you there"}`, wantStatus: http.StatusBadRequest},
		{name: "unpublished event", body: `{"event_id":"` + testEventID + `","message":"Great event, see you there"}`, fakeErr: domain.ErrEventNotPublished, wantStatus: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCommentService{err: tt.fakeErr}
			ctrl := NewCommentController(testLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.CreateComment(rr, newJSONRequest(http.MethodPost, "/users/me/comments", tt.body, testUserID, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "Great event, see you there", fake.lastMessage)
				assert.Equal(t, testUserID, fake.lastAuthor)
			}
		})
	}
}

func TestCommentController_OwnAndAdmin(t *testing.T) {
	ids := map[string]string{"commentID": testCommentID, "eventID": testEventID}

	t.Run("update someone else's comment", func(t *testing.T) {
		ctrl := NewCommentController(testLogger, &fakeCommentService{err: domain.ErrNotAuthor})
		rr := httptest.NewRecorder()
		ctrl.UpdateMyComment(rr, newJSONRequest(http.MethodPatch, "/", `{"message":"Changed my mind about it"}`, testUserID, ids))
		require.Equal(t, http.StatusConflict, rr.Code)
	})
	t.Run("delete own", func(t *testing.T) {
		fake := &fakeCommentService{}
		ctrl := NewCommentController(testLogger, fake)
		rr := httptest.NewRecorder()
		ctrl.DeleteMyComment(rr, newJSONRequest(http.MethodDelete, "/", "", testUserID, ids))
		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, testUserID, fake.lastAuthor)
	})
	t.Run("admin delete", func(t *testing.T) {
		fake := &fakeCommentService{}
		ctrl := NewCommentController(testLogger, fake)
		rr := httptest.NewRecorder()
		ctrl.AdminDeleteComment(rr, newJSONRequest(http.MethodDelete, "/", "", testUserID, ids))
		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, testCommentID, fake.adminDelete)
	})
	t.Run("admin range", func(t *testing.T) {
		fake := &fakeCommentService{}
		ctrl := NewCommentController(testLogger, fake)
		rr := httptest.NewRecorder()
		ctrl.AdminListComments(rr, newJSONRequest(http.MethodGet, "/admin/comments?rangeStart=2030-01-01T00:00:00Z", "", testUserID, nil))
		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, fake.lastStart)
		assert.Nil(t, fake.lastEnd)
	})
	t.Run("public list", func(t *testing.T) {
		fake := &fakeCommentService{}
		ctrl := NewCommentController(testLogger, fake)
		rr := httptest.NewRecorder()
		ctrl.ListEventComments(rr, newJSONRequest(http.MethodGet, "/", "", "", ids))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, testEventID, fake.lastEvent)
		assert.Contains(t, rr.Body.String(), `"items":[]`)
	})
}
