package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"hogwarts-artifacts/database"
	"hogwarts-artifacts/internal/apperr"
	"hogwarts-artifacts/internal/domain/artifacts"
	"hogwarts-artifacts/internal/domain/paging"
	"hogwarts-artifacts/internal/infra/chat"
	"hogwarts-artifacts/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixedIDs struct{ next string }

func (f fixedIDs) NextID() string { return f.next }

type fakeChat struct {
	got  chat.Request
	resp *chat.Response
	err  error
}

func (f *fakeChat) Generate(_ context.Context, req chat.Request) (*chat.Response, error) {
	f.got = req
	return f.resp, f.err
}

type fakeImages struct {
	container, name string
	body            []byte
}

func (f *fakeImages) Upload(_ context.Context, container, originalName string, data io.Reader, _ int64) (string, error) {
	f.container, f.name = container, originalName
	f.body, _ = io.ReadAll(data)
	return "https://blob.example/" + container + "/abc.png", nil
}

type countingViews map[string]int

func (c countingViews) ArtifactViewed(id string) { c[id]++ }

func newService(t *testing.T, d Deps) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	require.NoError(t, database.Seed(db, bcrypt.MinCost))
	d.DB = db
	if d.IDs == nil {
		d.IDs = fixedIDs{next: "42"}
	}
	return NewService(d), db
}

func TestFindByID(t *testing.T) {
	views := countingViews{}
	svc, _ := newService(t, Deps{Views: views})
	ctx := context.Background()

	a, err := svc.FindByID(ctx, "1250808601744904191")
	require.NoError(t, err)
	assert.Equal(t, "Deluminator", a.Name)
	require.NotNil(t, a.Owner)
	assert.Equal(t, "Albus Dumbledore", a.Owner.Name)
	assert.EqualValues(t, 2, a.Owner.NumberOfArtifacts)
	assert.Equal(t, 1, views["1250808601744904191"])

	_, err = svc.FindByID(ctx, "1250808601744904199")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "Could not find artifact with Id 1250808601744904199 :(", err.(*apperr.Error).Message)
	assert.Zero(t, views["1250808601744904199"])
}

func TestFindAll(t *testing.T) {
	svc, _ := newService(t, Deps{})

	list, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 6)
	assert.Equal(t, "1250808601744904191", list[0].ID)
	assert.Nil(t, list[5].Owner)
}

func TestFindByCriteria(t *testing.T) {
	svc, _ := newService(t, Deps{})
	ctx := context.Background()

	t.Run("description sorted by name", func(t *testing.T) {
		p, err := paging.Parse("0", "2", []string{"name,asc"})
		require.NoError(t, err)

		page, err := svc.FindByCriteria(ctx, map[string]string{"description": "Hogwarts"}, p)
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.TotalElements)
		assert.Equal(t, 1, page.TotalPages)
		require.Len(t, page.Content, 2)
		assert.Equal(t, "The Marauder's Map", page.Content[0].Name)
		assert.Equal(t, "The Sword Of Gryffindor", page.Content[1].Name)
	})

	t.Run("owner name is case insensitive", func(t *testing.T) {
		page, err := svc.FindByCriteria(ctx, map[string]string{"ownerName": "harry potter"}, paging.Unpaged())
		require.NoError(t, err)
		require.Len(t, page.Content, 2)
		for _, a := range page.Content {
			require.NotNil(t, a.Owner)
			assert.Equal(t, "Harry Potter", a.Owner.Name)
			assert.EqualValues(t, 2, a.Owner.NumberOfArtifacts)
		}
	})

	t.Run("owner join keeps artifact columns", func(t *testing.T) {
		page, err := svc.FindByCriteria(ctx, map[string]string{"ownerName": "Neville Longbottom", "name": "sword"}, paging.Unpaged())
		require.NoError(t, err)
		require.Len(t, page.Content, 1)
		assert.Equal(t, "1250808601744904195", page.Content[0].ID)
		assert.Equal(t, "The Sword Of Gryffindor", page.Content[0].Name)
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		page, err := svc.FindByCriteria(ctx, map[string]string{"color": "red", "name": ""}, paging.Unpaged())
		require.NoError(t, err)
		assert.EqualValues(t, 6, page.TotalElements)
	})

	t.Run("bad sort field", func(t *testing.T) {
		p := paging.Pageable{Size: 5, Sort: []paging.Order{{Field: "owner"}}}
		_, err := svc.FindByCriteria(ctx, nil, p)
		assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
	})
}

func TestFindPage(t *testing.T) {
	svc, _ := newService(t, Deps{})

	page, err := svc.FindPage(context.Background(), paging.Pageable{Page: 1, Size: 4})
	require.NoError(t, err)
	assert.EqualValues(t, 6, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Content, 2)
	assert.True(t, page.Last)
	assert.False(t, page.First)
}

func TestSummarize(t *testing.T) {
	fc := &fakeChat{resp: &chat.Response{Choices: []chat.Choice{{Message: chat.Message{Role: "assistant", Content: "A summary."}}}}}
	svc, _ := newService(t, Deps{Chat: fc})
	ctx := context.Background()

	list, err := svc.FindAll(ctx)
	require.NoError(t, err)

	summary, err := svc.Summarize(ctx, NewViews(list[:2]))
	require.NoError(t, err)
	assert.Equal(t, "A summary.", summary)

	assert.Equal(t, "gpt-3.5-turbo", fc.got.Model)
	require.Len(t, fc.got.Messages, 2)
	assert.Equal(t, "system", fc.got.Messages[0].Role)
	assert.Equal(t, summaryPrompt, fc.got.Messages[0].Content)

	var sent []View
	require.NoError(t, json.Unmarshal([]byte(fc.got.Messages[1].Content), &sent))
	require.Len(t, sent, 2)
	assert.Equal(t, "Deluminator", sent[0].Name)
	assert.EqualValues(t, 2, sent[0].Owner.NumberOfArtifacts)
}

func TestSummarizeFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("no choices", func(t *testing.T) {
		svc, _ := newService(t, Deps{Chat: &fakeChat{resp: &chat.Response{}}})
		_, err := svc.Summarize(ctx, nil)
		assert.True(t, apperr.Is(err, apperr.KindUpstream))
	})

	t.Run("upstream error kept", func(t *testing.T) {
		upstream := apperr.Upstream(http.StatusUnauthorized, "bad key", nil)
		svc, _ := newService(t, Deps{Chat: &fakeChat{err: upstream}})
		_, err := svc.Summarize(ctx, nil)
		assert.Same(t, upstream, err)
	})

	t.Run("plain error wrapped", func(t *testing.T) {
		svc, _ := newService(t, Deps{Chat: &fakeChat{err: errors.New("dial tcp: refused")}})
		_, err := svc.Summarize(ctx, nil)
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindUpstream, appErr.Kind)
		assert.Equal(t, http.StatusBadGateway, appErr.Status)
	})
}

func TestSave(t *testing.T) {
	svc, db := newService(t, Deps{IDs: fixedIDs{next: "1250808601744904197"}})
	owner := uint(1)

	saved, err := svc.Save(context.Background(), &artifacts.Artifact{
		ID: "ignored", Name: "Remembrall", Description: "A glass ball.", ImageURL: "img", OwnerID: &owner,
	})
	require.NoError(t, err)
	assert.Equal(t, "1250808601744904197", saved.ID)
	assert.False(t, saved.HasOwner())

	var stored artifacts.Artifact
	require.NoError(t, db.First(&stored, "id = ?", saved.ID).Error)
	assert.Equal(t, "Remembrall", stored.Name)
	assert.Nil(t, stored.OwnerID)
}

func TestUpdate(t *testing.T) {
	svc, _ := newService(t, Deps{})
	ctx := context.Background()

	updated, err := svc.Update(ctx, "1250808601744904192", artifacts.Artifact{
		ID: "other", Name: "Invisibility Cloak", Description: "A new description.", ImageURL: "new.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "1250808601744904192", updated.ID)
	assert.Equal(t, "A new description.", updated.Description)
	assert.Equal(t, "new.jpg", updated.ImageURL)
	require.NotNil(t, updated.Owner)
	assert.Equal(t, "Harry Potter", updated.Owner.Name)

	_, err = svc.Update(ctx, "1250808601744904199", artifacts.Artifact{Name: "x"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDelete(t *testing.T) {
	svc, db := newService(t, Deps{})
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "1250808601744904191"))
	var count int64
	db.Model(&artifacts.Artifact{}).Where("id = ?", "1250808601744904191").Count(&count)
	assert.Zero(t, count)

	err := svc.Delete(ctx, "1250808601744904191")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("stores in container", func(t *testing.T) {
		images := &fakeImages{}
		svc, _ := newService(t, Deps{Images: images, Container: "artifact-images"})

		url, err := svc.UploadImage(ctx, "wand.png", bytes.NewReader([]byte("png")), 3)
		require.NoError(t, err)
		assert.Equal(t, "https://blob.example/artifact-images/abc.png", url)
		assert.Equal(t, "artifact-images", images.container)
		assert.Equal(t, "wand.png", images.name)
		assert.Equal(t, []byte("png"), images.body)
	})

	t.Run("not configured", func(t *testing.T) {
		svc, _ := newService(t, Deps{})
		_, err := svc.UploadImage(ctx, "wand.png", bytes.NewReader(nil), 0)
		assert.True(t, apperr.Is(err, apperr.KindInternal))
	})
}

func TestNewViewWithoutOwner(t *testing.T) {
	v := NewView(artifacts.Artifact{ID: "1", Name: "Stone"})
	assert.Nil(t, v.Owner)

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","name":"Stone","description":"","imgUrl":"","owner":null}`, string(raw))
}
